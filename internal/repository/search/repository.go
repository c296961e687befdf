// Package search implements the candidate retrieval layer on top of a
// Postgres substrate with full-text and trigram indexes.
package search

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/townstage/searchcore/internal/domain/search/filters"
	"github.com/townstage/searchcore/internal/domain/search/result"
)

// DefaultCandidatePool bounds how many rows the substrate returns for
// re-ranking. Large enough that the final top results are stable,
// small enough to keep per-request embedding work bounded.
const DefaultCandidatePool = 200

// Repository retrieves scored candidate rows from the events table.
type Repository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewRepository creates a search repository over db.
func NewRepository(db *sqlx.DB, logger *zap.Logger) *Repository {
	return &Repository{db: db, logger: logger}
}

// Ping checks substrate connectivity.
func (r *Repository) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping substrate: %w", err)
	}
	return nil
}

// Candidates returns up to poolSize rows matching f, each carrying the
// substrate-computed lexical signals and stored embedding. Rows come
// back pre-ordered by a coarse blend of the signals so a truncated pool
// still contains the strongest candidates; final ranking happens
// in-process.
func (r *Repository) Candidates(
	ctx context.Context, f filters.Filters, now time.Time, poolSize int,
) ([]result.Candidate, error) {
	if poolSize <= 0 {
		poolSize = DefaultCandidatePool
	}

	query := ""
	if f.FreeTextQuery != nil {
		query = *f.FreeTextQuery
	}

	args := []interface{}{query}
	where := []string{
		"($1 = '' OR e.search_vector @@ plainto_tsquery('english', $1) OR e.title % $1 OR e.description % $1)",
	}

	addClause := func(clause string, value interface{}) {
		args = append(args, value)
		where = append(where, fmt.Sprintf(clause, len(args)))
	}

	if f.Category != nil {
		addClause("e.category = $%d", *f.Category)
	}
	if f.City != nil {
		addClause("e.city = $%d", *f.City)
	}
	if f.Area != nil {
		addClause("e.area = $%d", *f.Area)
	}
	if f.DateStart != nil {
		addClause("e.start_date::date >= $%d::date", *f.DateStart)
	}
	if f.DateEnd != nil {
		addClause("e.start_date::date <= $%d::date", *f.DateEnd)
	}
	if f.MinPrice != nil {
		addClause("e.price >= $%d", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		addClause("e.price <= $%d", *f.MaxPrice)
	}
	if f.StartTimeWindow != nil {
		where = append(where, timeWindowClause(*f.StartTimeWindow))
	}

	args = append(args, poolSize)
	limitArg := len(args)

	// Coarse pre-ranking blend. Interpolated fragments carry only
	// escaped literals, never raw input.
	orderExpr := fmt.Sprintf("(%s * 0.5 + %s * 0.3 + %s * 0.2)",
		FTSRankSQL("e.search_vector", query),
		MultiColumnTrigramSQL(query, "e.title", "e.description"),
		RecencyBoostSQL("e.start_date", now),
	)

	sqlText := fmt.Sprintf(`
SELECT
    e.id,
    e.title,
    COALESCE(e.description, '') AS description,
    COALESCE(e.venue, '') AS venue,
    COALESCE(e.city, '') AS city,
    COALESCE(e.area, '') AS area,
    COALESCE(e.category, '') AS category,
    COALESCE(e.tags, '{}') AS tags,
    e.start_date,
    e.price,
    COALESCE(e.image_url, '') AS image_url,
    ts_rank(e.search_vector, plainto_tsquery('english', $1)) AS fts_rank,
    GREATEST(similarity(e.title, $1), similarity(e.description, $1)) AS trigram_similarity,
    e.embedding
FROM events e
WHERE %s
ORDER BY %s DESC, e.id
LIMIT $%d`,
		strings.Join(where, "\n  AND "), orderExpr, limitArg)

	var rows []candidateRow
	if err := r.db.SelectContext(ctx, &rows, sqlText, args...); err != nil {
		return nil, fmt.Errorf("select candidates: %w", err)
	}

	candidates := make([]result.Candidate, len(rows))
	for i, row := range rows {
		candidates[i] = row.toCandidate()
	}

	r.logger.Debug("Candidate pool fetched",
		zap.Int("count", len(candidates)),
		zap.Int("pool_size", poolSize),
	)

	return candidates, nil
}

// timeWindowClause buckets event start hours into the coarse windows
// the parser recognizes. Night wraps midnight.
func timeWindowClause(w filters.TimeWindow) string {
	hour := "EXTRACT(HOUR FROM e.start_date)"
	switch w {
	case filters.Morning:
		return fmt.Sprintf("(%s >= 6 AND %s < 12)", hour, hour)
	case filters.Afternoon:
		return fmt.Sprintf("(%s >= 12 AND %s < 17)", hour, hour)
	case filters.Evening:
		return fmt.Sprintf("(%s >= 17 AND %s < 21)", hour, hour)
	case filters.Night:
		return fmt.Sprintf("(%s >= 21 OR %s < 6)", hour, hour)
	}
	return "TRUE"
}
