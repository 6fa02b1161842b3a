package session

import (
	"github.com/hpungsan/mog/internal/draft"
	"github.com/hpungsan/mog/internal/errors"
)

// ListDrafts prints the draft directories under the drafts root with a
// count.
func (s *Session) ListDrafts() error {
	drafts, err := draft.List(s.Cfg.DraftsDir)
	if err != nil {
		return err
	}

	for _, d := range drafts {
		subject := d.Subject
		if subject == "" {
			subject = "(no subject)"
		}
		s.printf("%s\t%s\n", d.Dir, subject)
	}
	s.printf("%d draft(s)\n", len(drafts))
	return nil
}

// PreviewDraft renders the current draft's body to preview.html and
// reports the path.
func (s *Session) PreviewDraft() error {
	if s.current == nil {
		return errors.NewInvalidInput("no open draft; compose one first")
	}

	path, err := s.Drafts.Preview(s.current)
	if err != nil {
		return err
	}
	s.printf("preview written to %s\n", path)
	return nil
}
