// Package draft owns the lifecycle of on-disk draft directories: creation,
// population from an engine-synthesized template, the blocking editor
// hand-off, subject extraction, and the subject-embedding rename.
package draft

import (
	"context"
	"crypto/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/hpungsan/mog/internal/engine"
	"github.com/hpungsan/mog/internal/errors"
	"github.com/hpungsan/mog/internal/extproc"
)

// MessageFile is the canonical message body inside a draft directory.
const MessageFile = "message.txt"

// scratchFile is the temporary copy handed to the editor.
const scratchFile = "draft.txt"

// stamp is the directory-name timestamp layout.
const stamp = "20060102-150405"

// cutMarker separates the editable message from the footer instructions in
// the scratch file. Everything at and below it is discarded after editing.
const cutMarker = "-- mog: everything below this line will be removed --"

const editFooter = "\n" + cutMarker + "\n" +
	"Edit the message above, then save and exit the editor to continue.\n" +
	"Leave the message empty to abandon this edit.\n"

// Draft is one outgoing message under construction. ID is the stable
// handle; Dir is the current path, which changes when a subject rename
// happens.
type Draft struct {
	ID  string
	Dir string
}

// MessagePath returns the path of the draft's canonical message body.
func (d *Draft) MessagePath() string {
	return filepath.Join(d.Dir, MessageFile)
}

// Manager creates and mutates drafts under a fixed root directory.
// Drafts may contain sensitive content, so the root and every draft
// directory deny group/other access.
type Manager struct {
	Root   string
	Engine *engine.Client
	Editor []string
	Run    extproc.Runner

	// Now is the clock used for directory names; tests pin it.
	Now func() time.Time
}

func (m *Manager) now() time.Time {
	if m.Now != nil {
		return m.Now()
	}
	return time.Now()
}

// Open resolves hint to a draft. A hint naming an existing directory that
// contains message.txt resumes that draft; anything else allocates a fresh
// timestamped directory under the root.
func (m *Manager) Open(hint string) (*Draft, error) {
	id := ulid.MustNew(ulid.Timestamp(m.now()), rand.Reader).String()

	if hint != "" && hint != "new" {
		if st, err := os.Stat(filepath.Join(hint, MessageFile)); err == nil && st.Mode().IsRegular() {
			return &Draft{ID: id, Dir: hint}, nil
		}
		return nil, errors.NewInvalidInput("not a draft directory (no " + MessageFile + "): " + hint)
	}

	if err := os.MkdirAll(m.Root, 0o700); err != nil {
		return nil, err
	}
	_ = os.Chmod(m.Root, 0o700)

	dir := filepath.Join(m.Root, m.now().Format(stamp))
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}
	_ = os.Chmod(dir, 0o700)

	return &Draft{ID: id, Dir: dir}, nil
}

// Populate materializes a compose template into the draft the first time
// it is opened. If message.txt already exists it does nothing.
func (m *Manager) Populate(ctx context.Context, d *Draft) error {
	if _, err := os.Stat(d.MessagePath()); err == nil {
		return nil
	}
	transport, err := m.Engine.Synthesize(ctx, engine.SynthesizeRequest{Kind: engine.KindCompose})
	if err != nil {
		return err
	}
	return m.Engine.MaterializeTree(ctx, transport, d.Dir)
}

// Materialize allocates a fresh draft and unpacks the given transport
// stream into it. Used by reply and forward, which arrive pre-populated.
func (m *Manager) Materialize(ctx context.Context, transport []byte) (*Draft, error) {
	d, err := m.Open("new")
	if err != nil {
		return nil, err
	}
	if err := m.Engine.MaterializeTree(ctx, transport, d.Dir); err != nil {
		return nil, err
	}
	return d, nil
}

// Edit copies message.txt to a scratch file with the cut-line footer,
// blocks on the external editor, then writes everything above the cut
// line back to message.txt. An editor run that leaves nothing above the
// cut line keeps message.txt unchanged and reports EDITOR_ABORT.
func (m *Manager) Edit(ctx context.Context, d *Draft) error {
	body, err := os.ReadFile(d.MessagePath())
	if err != nil {
		return err
	}

	scratch := filepath.Join(d.Dir, scratchFile)
	if err := os.WriteFile(scratch, append(body, []byte(editFooter)...), 0o600); err != nil {
		return err
	}
	defer os.Remove(scratch)

	name, args := extproc.Command(m.Editor)
	if err := m.Run.Foreground(ctx, name, append(args, scratch)...); err != nil {
		return errors.NewEditorAbort()
	}

	edited, err := os.ReadFile(scratch)
	if err != nil {
		return errors.NewEditorAbort()
	}
	content := string(edited)
	if i := strings.Index(content, cutMarker); i >= 0 {
		content = content[:i]
	}
	content = strings.TrimRight(content, " \t\n") + "\n"
	if strings.TrimSpace(content) == "" {
		return errors.NewEditorAbort()
	}

	return os.WriteFile(d.MessagePath(), []byte(content), 0o600)
}

// Finalize extracts the Subject header from message.txt and, when it is
// non-empty and not already embedded in the directory name, renames the
// draft to "<timestamp> <subject>". The draft's recorded path is updated
// so subsequent operations use the new location immediately.
func (m *Manager) Finalize(d *Draft) (string, error) {
	body, err := os.ReadFile(d.MessagePath())
	if err != nil {
		return "", err
	}

	subject := SanitizeSubject(extractSubject(string(body)))
	if subject == "" {
		return "", nil
	}
	if strings.HasSuffix(filepath.Base(d.Dir), " "+subject) {
		return subject, nil
	}

	newDir := filepath.Join(filepath.Dir(d.Dir), m.now().Format(stamp)+" "+subject)
	if err := os.Rename(d.Dir, newDir); err != nil {
		return subject, err
	}
	d.Dir = newDir
	return subject, nil
}

// extractSubject returns the value of the first Subject: header line.
// The header token match is case-sensitive.
func extractSubject(body string) string {
	for _, line := range strings.Split(body, "\n") {
		if v, ok := strings.CutPrefix(line, "Subject:"); ok {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// SanitizeSubject removes characters unsafe for filesystem names.
func SanitizeSubject(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '$', '\\', '/', ':', '"':
			return -1
		}
		return r
	}, s)
}

// Info describes one existing draft directory.
type Info struct {
	Dir     string
	Subject string
}

// List returns the drafts under root, identified by the presence of
// message.txt, in directory-name order.
func List(root string) ([]Info, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var drafts []Info
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		dir := filepath.Join(root, e.Name())
		body, err := os.ReadFile(filepath.Join(dir, MessageFile))
		if err != nil {
			continue
		}
		drafts = append(drafts, Info{
			Dir:     dir,
			Subject: extractSubject(string(body)),
		})
	}
	return drafts, nil
}
