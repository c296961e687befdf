package search

import (
	"fmt"
	"strings"
	"time"
)

// Textual scoring fragments for the Postgres substrate. The repository
// binds user input through query parameters; these builders exist for
// the places where an expression must be spliced into generated SQL
// (ORDER BY scoring, external report queries). Every value routed
// through them gets single quotes doubled, matching Postgres
// string-literal escaping.

// escapeLiteral doubles single quotes for embedding a value in a SQL
// string literal.
func escapeLiteral(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

// FTSRankSQL returns a ts_rank expression scoring tsvectorColumn
// against the given query text.
func FTSRankSQL(tsvectorColumn, query string) string {
	return fmt.Sprintf("ts_rank(%s, plainto_tsquery('english', '%s'))",
		tsvectorColumn, escapeLiteral(query))
}

// TrigramSQL returns a trigram similarity expression for one column.
func TrigramSQL(column, query string) string {
	return fmt.Sprintf("similarity(%s, '%s')", column, escapeLiteral(query))
}

// MultiColumnTrigramSQL returns the greatest trigram similarity across
// several columns. Falls back to a single similarity call for one
// column.
func MultiColumnTrigramSQL(query string, columns ...string) string {
	if len(columns) == 1 {
		return TrigramSQL(columns[0], query)
	}
	parts := make([]string, len(columns))
	for i, col := range columns {
		parts[i] = TrigramSQL(col, query)
	}
	return "GREATEST(" + strings.Join(parts, ", ") + ")"
}

// RecencyBoostSQL returns a CASE expression computing the same recency
// boost as score.RecencyBoost, with dateColumn diffed against the
// reference date at day granularity. The branch boundaries (0, 14, 30
// days) must match the in-process function exactly.
func RecencyBoostSQL(dateColumn string, reference time.Time) string {
	days := fmt.Sprintf("(%s::date - DATE '%s')",
		dateColumn, escapeLiteral(reference.Format("2006-01-02")))

	return fmt.Sprintf(`CASE
WHEN %[1]s < 0 THEN GREATEST(0, EXP(%[1]s::float / 7) * 0.3)
WHEN %[1]s = 0 THEN 1.0
WHEN %[1]s <= 14 THEN 1.0 - (%[1]s::float / 14) * 0.5
WHEN %[1]s <= 30 THEN 0.5 - ((%[1]s - 14)::float / 16) * 0.2
ELSE GREATEST(0.1, 0.3 - ((%[1]s - 30)::float / 60) * 0.2)
END`, days)
}
