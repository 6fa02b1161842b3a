// Package session holds the conversational state of one interactive mail
// session: the last search, the current selection, and the open draft.
// The dispatcher maps single-letter prompt commands onto the engine
// client, the query builder, and the draft manager.
package session

import (
	"bufio"
	"database/sql"
	"fmt"
	"io"
	"strings"

	"github.com/hpungsan/mog/internal/config"
	"github.com/hpungsan/mog/internal/draft"
	"github.com/hpungsan/mog/internal/engine"
	"github.com/hpungsan/mog/internal/errors"
	"github.com/hpungsan/mog/internal/extproc"
	"github.com/hpungsan/mog/internal/query"
)

// Session is the only stateful, long-lived object in the controller.
// One session serves one foreground user; commands run strictly one at
// a time, so no locking is needed.
type Session struct {
	Cfg     *config.Config
	Engine  *engine.Client
	Drafts  *draft.Manager
	Picker  extproc.Picker
	Run     extproc.Runner
	History *sql.DB // nil when history is disabled

	In  *bufio.Reader
	Out io.Writer

	// query is the last search expression; empty means no search has run.
	query string
	// results is the result set of the last search, derived from query.
	results []engine.Row
	// selection is the picker-chosen subset of results. It is discarded
	// whenever a new search starts.
	selection []engine.Row
	// current is the open draft, if any.
	current *draft.Draft
}

// New assembles a session from its collaborators.
func New(cfg *config.Config, run extproc.Runner, history *sql.DB, in io.Reader, out io.Writer) *Session {
	eng := &engine.Client{
		Bin:     cfg.Moggie,
		Run:     run,
		Extract: extproc.Extractor{Tar: cfg.Tar, Run: run},
	}
	return &Session{
		Cfg:    cfg,
		Engine: eng,
		Drafts: &draft.Manager{
			Root:   cfg.DraftsDir,
			Engine: eng,
			Editor: cfg.Editor,
			Run:    run,
		},
		Picker:  extproc.Picker{Cmd: cfg.Picker, Run: run},
		Run:     run,
		History: history,
		In:      bufio.NewReader(in),
		Out:     out,
	}
}

// Query returns the current search expression; empty means unset.
func (s *Session) Query() string { return s.query }

// Results returns the current result set.
func (s *Session) Results() []engine.Row { return s.results }

// Selection returns the current selection.
func (s *Session) Selection() []engine.Row { return s.selection }

// CurrentDraft returns the open draft, or nil.
func (s *Session) CurrentDraft() *draft.Draft { return s.current }

// scoped derives the query covering the current selection. It fails when
// no search has ever been run.
func (s *Session) scoped() (string, error) {
	if s.query == "" {
		return "", errors.NewNoResults()
	}
	return query.Scope(s.query, s.selection), nil
}

// prompt asks the user for one free-text field, reading a full line.
func (s *Session) prompt(label string) (string, error) {
	fmt.Fprint(s.Out, label)
	line, err := s.In.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (s *Session) printf(format string, args ...any) {
	fmt.Fprintf(s.Out, format, args...)
}
