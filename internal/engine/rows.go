package engine

import (
	"strings"
)

// RowKind tags an identity token as a message id or a thread id.
type RowKind string

const (
	KindID     RowKind = "id"
	KindThread RowKind = "thread"
)

// Row is one line of a search result table: an opaque identity token and
// a human-readable summary.
type Row struct {
	Kind     RowKind
	Identity string
	Display  string
}

// Token renders the tagged identity the way the engine emits it.
func (r Row) Token() string {
	return string(r.Kind) + ":" + r.Identity
}

// IncludeTerm renders the search term that scopes a query to this row.
func (r Row) IncludeTerm() string {
	return "+" + string(r.Kind) + ":" + r.Identity
}

// Line renders the row as one tab-separated picker line.
func (r Row) Line() string {
	return r.Token() + "\t" + r.Display
}

// ParseRows parses a search result table. The first whitespace-separated
// field of each line is the identity token; the remainder is the display
// summary. Tokens without an explicit kind prefix are message ids.
func ParseRows(out []byte) []Row {
	var rows []Row
	for _, line := range strings.Split(string(out), "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		token := line
		display := ""
		if i := strings.IndexAny(line, " \t"); i >= 0 {
			token = line[:i]
			display = strings.TrimSpace(line[i:])
		}
		rows = append(rows, parseToken(token, display))
	}
	return rows
}

func parseToken(token, display string) Row {
	if id, ok := strings.CutPrefix(token, "thread:"); ok {
		return Row{Kind: KindThread, Identity: id, Display: display}
	}
	if id, ok := strings.CutPrefix(token, "id:"); ok {
		return Row{Kind: KindID, Identity: id, Display: display}
	}
	return Row{Kind: KindID, Identity: token, Display: display}
}
