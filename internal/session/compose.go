package session

import (
	"context"

	"github.com/hpungsan/mog/internal/draft"
	"github.com/hpungsan/mog/internal/errors"
)

// Compose opens a draft and walks it through populate, edit, and
// finalize. An empty target resumes the session's open draft if there is
// one; the literal "new" forces a fresh draft; a path resumes the draft
// stored there.
func (s *Session) Compose(ctx context.Context, target string) error {
	var d *draft.Draft
	var err error

	if target == "" && s.current != nil {
		d = s.current
	} else {
		d, err = s.Drafts.Open(target)
		if err != nil {
			return err
		}
	}
	s.current = d

	if err := s.Drafts.Populate(ctx, d); err != nil {
		return err
	}

	return s.editAndFinalize(ctx, d)
}

// editAndFinalize runs the blocking editor hand-off and the subject
// rename. An aborted edit keeps the message unchanged and is reported as
// a notice, not a failure.
func (s *Session) editAndFinalize(ctx context.Context, d *draft.Draft) error {
	if err := s.Drafts.Edit(ctx, d); err != nil {
		if errors.Is(err, errors.ErrEditorAbort) {
			s.printf("%v\n", err)
			return nil
		}
		return err
	}

	if _, err := s.Drafts.Finalize(d); err != nil {
		return err
	}

	s.printf("draft saved: %s\n", d.Dir)
	return nil
}
