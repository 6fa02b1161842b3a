package session

import (
	"bytes"
	"context"

	"github.com/hpungsan/mog/internal/extproc"
)

// View renders the messages covered by the current scope through the
// pager. Pure read: no session state changes.
func (s *Session) View(ctx context.Context) error {
	scoped, err := s.scoped()
	if err != nil {
		return err
	}

	out, err := s.Engine.Show(ctx, scoped)
	if err != nil {
		return err
	}

	name, args := extproc.Command(s.Cfg.Pager)
	return s.Run.Page(ctx, bytes.NewReader(out), name, args...)
}
