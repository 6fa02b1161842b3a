package session

import (
	"context"

	"github.com/hpungsan/mog/internal/engine"
)

// Forward synthesizes a forward of the current scope, materializes it as
// a new draft, and hands off to the compose flow. From, to, and an
// optional comment are asked for directly at the prompt.
func (s *Session) Forward(ctx context.Context) error {
	scoped, err := s.scoped()
	if err != nil {
		return err
	}

	from, err := s.prompt("From: ")
	if err != nil {
		return err
	}
	to, err := s.prompt("To: ")
	if err != nil {
		return err
	}
	comment, err := s.prompt("Comment: ")
	if err != nil {
		return err
	}

	transport, err := s.Engine.Synthesize(ctx, engine.SynthesizeRequest{
		Kind:    engine.KindForward,
		Query:   scoped,
		From:    from,
		To:      to,
		Message: comment,
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
