package session

import (
	"context"
	"strconv"

	"github.com/hpungsan/mog/internal/errors"
	"github.com/hpungsan/mog/internal/history"
)

// ShowHistory lists recent searches, or re-runs one by id when given an
// argument.
func (s *Session) ShowHistory(ctx context.Context, arg string) error {
	if s.History == nil {
		s.printf("history is disabled\n")
		return nil
	}

	if arg != "" {
		id, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			return errors.NewInvalidInput("history entry must be a number: " + arg)
		}
		entry, err := history.Get(s.History, id)
		if err != nil {
			return errors.NewInvalidInput("no such history entry: " + arg)
		}
		return s.Search(ctx, entry.Query)
	}

	entries, err := history.Recent(s.History, s.Cfg.HistoryLimit)
	if err != nil {
		return err
	}
	for _, e := range entries {
		s.printf("%4d  %4d hits  %s  %s\n",
			e.ID, e.Hits, e.RanAt.Local().Format("2006-01-02 15:04"), e.Query)
	}
	if len(entries) == 0 {
		s.printf("no searches recorded\n")
	}
	return nil
}
