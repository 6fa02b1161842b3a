package session

import (
	"context"

	"github.com/hpungsan/mog/internal/engine"
	"github.com/hpungsan/mog/internal/history"
)

// Search runs a new search, replacing the session's result set and
// discarding any prior selection, even when the new search fails.
// Zero matches leave a valid empty session. When the user
// narrows the results to exactly one row (or the search itself returns
// exactly one), the session chains directly into View.
func (s *Session) Search(ctx context.Context, arg string) error {
	q := arg
	if q == "" {
		q = s.Cfg.DefaultQuery
	} else if canned, ok := s.Cfg.ResolveView(arg); ok {
		q = canned
	}

	// The previous selection is stale the moment a new search starts.
	s.selection = nil

	out, err := s.Engine.Search(ctx, q)
	if err != nil {
		return err
	}

	rows := engine.ParseRows(out)
	s.query = q
	s.results = rows

	if s.History != nil {
		if err := history.Record(s.History, q, len(rows)); err != nil {
			s.printf("warning: history not recorded: %v\n", err)
		}
	}

	if len(rows) == 0 {
		s.printf("no messages found\n")
		return nil
	}

	// A single hit skips the picker entirely.
	if len(rows) == 1 {
		s.selection = rows
		s.printf("%s\n", rows[0].Line())
		return s.View(ctx)
	}

	lines := make([]string, len(rows))
	byLine := make(map[string]engine.Row, len(rows))
	for i, row := range rows {
		lines[i] = row.Line()
		byLine[row.Line()] = row
	}

	chosen, err := s.Picker.Pick(ctx, lines)
	if err != nil {
		return err
	}

	var selection []engine.Row
	for _, line := range chosen {
		if row, ok := byLine[line]; ok {
			selection = append(selection, row)
		}
	}
	s.selection = selection

	s.printf("%d messages, %d selected\n", len(rows), len(selection))

	// One picked line flows straight into view, regardless of how many
	// rows the search matched.
	if len(selection) == 1 {
		return s.View(ctx)
	}
	return nil
}
