package search

import (
	"context"
	"time"

	"github.com/townstage/searchcore/internal/domain/search/filters"
	"github.com/townstage/searchcore/internal/domain/search/result"
)

// Repository is the candidate retrieval contract backed by the
// full-text/trigram substrate.
type Repository interface {
	Candidates(
		ctx context.Context, f filters.Filters, now time.Time, poolSize int,
	) ([]result.Candidate, error)
}

// Embeddings produces query vectors, degrading to nil when the
// provider is disabled or failing.
type Embeddings interface {
	Generate(ctx context.Context, text string) []float32
	Enabled() bool
}
