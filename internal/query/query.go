// Package query builds scoped search expressions: a base query narrowed
// to a specific selection of result rows via include-terms.
package query

import (
	"strings"

	"github.com/hpungsan/mog/internal/engine"
)

// Scope derives a query that restricts base to exactly the selected rows.
// Each row contributes one include-term whose operator matches the row's
// identity kind; terms are joined with OR and appended after the base.
// An empty selection returns base unchanged.
func Scope(base string, selection []engine.Row) string {
	if len(selection) == 0 {
		return base
	}
	terms := make([]string, len(selection))
	for i, row := range selection {
		terms[i] = row.IncludeTerm()
	}
	joined := strings.Join(terms, " OR ")
	if strings.TrimSpace(base) == "" {
		return joined
	}
	return base + " " + joined
}
