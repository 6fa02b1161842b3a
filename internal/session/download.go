package session

import (
	"context"
	"crypto/rand"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/oklog/ulid/v2"

	"github.com/hpungsan/mog/internal/draft"
	"github.com/hpungsan/mog/internal/errors"
)

// Download materializes the messages covered by the current scope into a
// fresh temporary directory and reports its path. A materialization with
// no message payload is an error, and the temporary directory is removed
// so nothing dangles.
func (s *Session) Download(ctx context.Context) error {
	scoped, err := s.scoped()
	if err != nil {
		return err
	}

	id := ulid.MustNew(ulid.Now(), rand.Reader).String()
	dir := filepath.Join(os.TempDir(), "mog-dl-"+id)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	if err := s.Engine.ExtractInto(ctx, scoped, dir); err != nil {
		os.RemoveAll(dir)
		return err
	}

	if !containsMessage(dir) {
		os.RemoveAll(dir)
		return errors.NewEmptyDownload()
	}

	s.printf("downloaded to %s\n", dir)
	return nil
}

// containsMessage reports whether any message.txt landed under dir.
func containsMessage(dir string) bool {
	found := false
	filepath.WalkDir(dir, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() && d.Name() == draft.MessageFile {
			found = true
			return filepath.SkipAll
		}
		return nil
	})
	return found
}
