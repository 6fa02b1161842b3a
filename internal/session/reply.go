package session

import (
	"context"

	"github.com/hpungsan/mog/internal/engine"
)

// Reply synthesizes a reply to the current scope, materializes it as a
// new draft, and hands off to the compose flow. The from-address is asked
// for directly at the prompt, not through the picker.
func (s *Session) Reply(ctx context.Context) error {
	scoped, err := s.scoped()
	if err != nil {
		return err
	}

	from, err := s.prompt("From: ")
	if err != nil {
		return err
	}

	transport, err := s.Engine.Synthesize(ctx, engine.SynthesizeRequest{
		Kind:  engine.KindReply,
		Query: scoped,
		From:  from,
	})
	if err != nil {
		return err
	}

	d, err := s.Drafts.Materialize(ctx, transport)
	if err != nil {
		return err
	}
	s.current = d

	return s.editAndFinalize(ctx, d)
}
