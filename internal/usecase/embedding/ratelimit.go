package embedding

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/townstage/searchcore/internal/domain"
	"github.com/townstage/searchcore/internal/metrics"
)

// RateLimitedEmbedder wraps a provider with a token bucket sized to the
// provider's per-minute quota. Callers that exceed the sustained rate
// block until a token frees up instead of failing.
type RateLimitedEmbedder struct {
	inner   domain.Embedder
	limiter *rate.Limiter
	logger  *zap.Logger
}

// NewRateLimitedEmbedder creates the decorator. perMinute <= 0 disables
// limiting (unbounded limiter).
func NewRateLimitedEmbedder(inner domain.Embedder, perMinute int, logger *zap.Logger) *RateLimitedEmbedder {
	limit := rate.Inf
	burst := 0
	if perMinute > 0 {
		limit = rate.Limit(float64(perMinute) / 60.0)
		burst = perMinute
	}
	return &RateLimitedEmbedder{
		inner:   inner,
		limiter: rate.NewLimiter(limit, burst),
		logger:  logger,
	}
}

// Embed acquires a rate token (blocking if the bucket is drained) and
// delegates to the inner provider. A context cancellation while waiting
// surfaces as domain.ErrRateLimited.
func (r *RateLimitedEmbedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	res := r.limiter.Reserve()
	if !res.OK() {
		return domain.EmbeddingResult{}, fmt.Errorf("reservation impossible: %w", domain.ErrRateLimited)
	}

	if delay := res.Delay(); delay > 0 {
		metrics.EmbeddingRateLimitWaits.Inc()
		r.logger.Debug("Embedding request waiting on rate limiter",
			zap.Duration("delay", delay),
		)

		timer := time.NewTimer(delay)
		defer timer.Stop()

		select {
		case <-timer.C:
		case <-ctx.Done():
			res.Cancel()
			return domain.EmbeddingResult{}, fmt.Errorf("canceled while rate limited: %w", domain.ErrRateLimited)
		}
	}

	return r.inner.Embed(ctx, text)
}

// HealthCheck delegates to the inner provider when it supports health
// checks. The limiter itself has no health to report.
func (r *RateLimitedEmbedder) HealthCheck(ctx context.Context) error {
	if hc, ok := r.inner.(domain.HealthChecker); ok {
		return hc.HealthCheck(ctx)
	}
	return nil
}
