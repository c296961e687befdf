// Package embedding provides the embedding generation service sitting
// between the search orchestrator and the configured provider.
package embedding

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/townstage/searchcore/internal/domain"
)

// Provider identifies the configured embedding backend.
type Provider string

const (
	// ProviderNone disables embedding generation entirely.
	ProviderNone Provider = "none"
	// ProviderLocal runs the in-process feature-hashing model.
	ProviderLocal Provider = "local"
	// ProviderRemote calls the OpenAI-compatible embedding gateway.
	ProviderRemote Provider = "remote"
)

// Valid reports whether p is a recognized provider name.
func (p Provider) Valid() bool {
	switch p {
	case ProviderNone, ProviderLocal, ProviderRemote:
		return true
	}
	return false
}

// Batch concurrency caps per provider. The local model is CPU-bound and
// cheap; the remote gateway gets a lower cap to stay under its own limits.
const (
	localBatchConcurrency  = 10
	remoteBatchConcurrency = 5
)

// Service generates embedding vectors for queries and event documents.
// All generation failures degrade to a nil vector: search must keep
// working on lexical signals alone when the provider is down.
type Service struct {
	embedder domain.Embedder
	provider Provider
	logger   *zap.Logger
}

// NewService creates the embedding service. A nil embedder or
// ProviderNone yields a permanently disabled service.
func NewService(embedder domain.Embedder, provider Provider, logger *zap.Logger) *Service {
	if embedder == nil {
		provider = ProviderNone
	}
	return &Service{
		embedder: embedder,
		provider: provider,
		logger:   logger,
	}
}

// Enabled reports whether the service can produce vectors at all.
func (s *Service) Enabled() bool {
	return s.provider != ProviderNone && s.embedder != nil
}

// Provider returns the configured backend name.
func (s *Service) Provider() Provider {
	return s.provider
}

// Generate returns the embedding for text, or nil when embeddings are
// disabled, the text is empty, or the provider fails. Errors are logged
// and swallowed; callers treat nil as "no semantic signal".
func (s *Service) Generate(ctx context.Context, text string) []float32 {
	if !s.Enabled() {
		return nil
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	result, err := s.embedder.Embed(ctx, domain.TruncateEmbeddingInput(text))
	if err != nil {
		s.logger.Warn("Embedding generation failed, degrading to lexical-only",
			zap.String("provider", string(s.provider)),
			zap.Error(err),
		)
		return nil
	}

	return result.Embedding
}

// GenerateBatch embeds texts concurrently, preserving input order.
// Each element degrades to nil independently, so one provider failure
// never poisons the rest of the batch.
func (s *Service) GenerateBatch(ctx context.Context, texts []string) [][]float32 {
	vectors := make([][]float32, len(texts))
	if !s.Enabled() || len(texts) == 0 {
		return vectors
	}

	sem := make(chan struct{}, s.batchConcurrency())
	var wg sync.WaitGroup

	for i, text := range texts {
		wg.Add(1)
		go func(i int, text string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			vectors[i] = s.Generate(ctx, text)
		}(i, text)
	}

	wg.Wait()
	return vectors
}

func (s *Service) batchConcurrency() int {
	if s.provider == ProviderRemote {
		return remoteBatchConcurrency
	}
	return localBatchConcurrency
}

// EventFields holds the textual parts of an event used to build its
// embedding document.
type EventFields struct {
	Title       string
	Description string
	Venue       string
	Category    string
	Tags        []string
}

// EventText assembles the canonical embedding input for an event:
// non-empty fields joined by single spaces, capped at the provider
// input limit. Identical fields always yield identical input, which
// keeps cache keys stable.
func EventText(f EventFields) string {
	fields := []string{f.Title, f.Description, f.Venue, f.Category}
	fields = append(fields, f.Tags...)

	parts := make([]string, 0, len(fields))
	for _, p := range fields {
		p = strings.TrimSpace(p)
		if p != "" {
			parts = append(parts, p)
		}
	}
	return domain.TruncateEmbeddingInput(strings.Join(parts, " "))
}
