// Package search orchestrates the full query pipeline: parse, merge,
// retrieve candidates, embed the query, and re-rank.
package search

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/townstage/searchcore/internal/domain/search/filters"
	"github.com/townstage/searchcore/internal/domain/search/result"
	"github.com/townstage/searchcore/internal/domain/search/score"
	"github.com/townstage/searchcore/internal/metrics"
	"github.com/townstage/searchcore/internal/parser"
)

// Result count bounds for one request.
const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Request is one search invocation. Filters are the caller's explicit
// constraints; they win over anything parsed from Query.
type Request struct {
	Query   string
	Filters filters.Filters
	Limit   int
	Debug   bool
}

// Response carries ranked results plus the debug/telemetry surface.
type Response struct {
	Results        []result.Result
	AppliedFilters filters.Filters
	QueryTimeMs    int64
	EmbeddingsUsed bool
}

// Service runs the search pipeline.
type Service struct {
	repo       Repository
	embeddings Embeddings
	logger     *zap.Logger
	poolSize   int
	now        func() time.Time
}

// New creates a search service.
func New(repo Repository, embeddings Embeddings, logger *zap.Logger) *Service {
	return &Service{
		repo:       repo,
		embeddings: embeddings,
		logger:     logger,
		now:        time.Now,
	}
}

// WithPoolSize overrides the candidate pool size fetched from the
// substrate before re-ranking. Zero keeps the repository default.
func (s *Service) WithPoolSize(n int) *Service {
	s.poolSize = n
	return s
}

// WithClock overrides the service clock. Tests only.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Search parses the free-text query, merges explicit filters over the
// parsed ones, retrieves candidates, and re-ranks them — with the
// query embedding when a provider is available. Embedding failures
// degrade to lexical-only ranking; they never fail the request.
func (s *Service) Search(ctx context.Context, req Request) (Response, error) {
	start := s.now()

	limit := req.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	parsed := parser.Parse(req.Query, start)
	applied := filters.Merge(parsed, req.Filters).Normalize()

	candidates, err := s.repo.Candidates(ctx, applied, start, s.poolSize)
	if err != nil {
		s.observe(start, "error", false)
		return Response{}, fmt.Errorf("fetch candidates: %w", err)
	}

	var queryVec []float32
	if s.embeddings != nil && s.embeddings.Enabled() {
		queryVec = s.embeddings.Generate(ctx, req.Query)
	}
	embeddingsUsed := queryVec != nil

	ranked, err := Rerank(candidates, queryVec, score.WeightsFor(embeddingsUsed), start, req.Debug)
	if err != nil {
		s.observe(start, "error", embeddingsUsed)
		return Response{}, fmt.Errorf("rerank: %w", err)
	}

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	elapsed := s.now().Sub(start)
	s.observe(start, "success", embeddingsUsed)

	s.logger.Debug("Search completed",
		zap.String("query", req.Query),
		zap.Int("candidates", len(candidates)),
		zap.Int("returned", len(ranked)),
		zap.Bool("embeddings_used", embeddingsUsed),
		zap.Duration("duration", elapsed),
	)

	return Response{
		Results:        ranked,
		AppliedFilters: applied,
		QueryTimeMs:    elapsed.Milliseconds(),
		EmbeddingsUsed: embeddingsUsed,
	}, nil
}

func (s *Service) observe(start time.Time, status string, embeddingsUsed bool) {
	emb := strconv.FormatBool(embeddingsUsed)
	metrics.SearchRequestsTotal.WithLabelValues(status, emb).Inc()
	metrics.SearchDuration.WithLabelValues(emb).Observe(s.now().Sub(start).Seconds())
}
