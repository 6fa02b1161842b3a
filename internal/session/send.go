package session

import (
	"context"
	"os"

	"github.com/hpungsan/mog/internal/errors"
)

// Send submits the current draft's message to the engine for delivery.
// The draft directory is kept; drafts are user-owned artifacts and are
// never auto-deleted.
func (s *Session) Send(ctx context.Context) error {
	if s.current == nil {
		return errors.NewInvalidInput("no open draft; compose one first")
	}

	msg, err := os.Open(s.current.MessagePath())
	if err != nil {
		return err
	}
	defer msg.Close()

	if err := s.Engine.Send(ctx, msg); err != nil {
		return err
	}

	s.printf("message sent (draft kept at %s)\n", s.current.Dir)
	return nil
}
