// Package local provides an in-process embedding provider. Token
// vectors are derived deterministically from a hash of the token,
// mean-pooled over the input and L2-normalized, so the provider needs
// no model download and produces stable vectors across processes.
package local

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"math"
	"regexp"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/townstage/searchcore/internal/domain"
)

// Embedder is the local feature-extraction provider. The pipeline is
// built lazily on first use; concurrent first callers share a single
// initialization.
type Embedder struct {
	logger *zap.Logger

	once     sync.Once
	pipeline *pipeline
}

// New creates a local embedder. The pipeline is not built until the
// first Embed call.
func New(logger *zap.Logger) *Embedder {
	return &Embedder{logger: logger}
}

// Embed implements domain.Embedder. Never performs I/O.
func (e *Embedder) Embed(_ context.Context, text string) (domain.EmbeddingResult, error) {
	e.once.Do(func() {
		e.pipeline = newPipeline()
		e.logger.Info("Local embedding pipeline initialized",
			zap.Int("dimensions", domain.Dimensions))
	})

	text = domain.TruncateEmbeddingInput(text)
	vec := e.pipeline.encode(text)
	return domain.EmbeddingResult{Embedding: vec}, nil
}

// HealthCheck reports provider availability. The local pipeline has no
// external dependency, so this only forces initialization.
func (e *Embedder) HealthCheck(ctx context.Context) error {
	_, err := e.Embed(ctx, "ok")
	return err
}

var tokenRe = regexp.MustCompile(`[a-z0-9]+`)

// pipeline caches per-token vectors. Derivation is pure, the cache only
// avoids recomputing hot vocabulary.
type pipeline struct {
	mu    sync.RWMutex
	cache map[string][]float32
}

func newPipeline() *pipeline {
	return &pipeline{cache: make(map[string][]float32)}
}

// encode mean-pools the token vectors of text and L2-normalizes the
// result. An input with no recognizable tokens yields a zero vector,
// which downstream cosine similarity maps to 0.
func (p *pipeline) encode(text string) []float32 {
	tokens := tokenRe.FindAllString(strings.ToLower(text), -1)

	pooled := make([]float64, domain.Dimensions)
	for _, tok := range tokens {
		tv := p.tokenVector(tok)
		for i, v := range tv {
			pooled[i] += float64(v)
		}
	}

	out := make([]float32, domain.Dimensions)
	if len(tokens) == 0 {
		return out
	}

	var sumSq float64
	for i := range pooled {
		pooled[i] /= float64(len(tokens))
		sumSq += pooled[i] * pooled[i]
	}
	if sumSq == 0 {
		return out
	}

	norm := math.Sqrt(sumSq)
	for i := range pooled {
		out[i] = float32(pooled[i] / norm)
	}
	return out
}

func (p *pipeline) tokenVector(token string) []float32 {
	p.mu.RLock()
	vec, ok := p.cache[token]
	p.mu.RUnlock()
	if ok {
		return vec
	}

	vec = deriveTokenVector(token)

	p.mu.Lock()
	p.cache[token] = vec
	p.mu.Unlock()
	return vec
}

// deriveTokenVector expands sha256(token, counter) digests into
// Dimensions values in [-1, 1]. Deterministic for a given token.
func deriveTokenVector(token string) []float32 {
	const valuesPerDigest = 8 // sha256 digest holds 8 uint32 values

	vec := make([]float32, domain.Dimensions)
	for block := 0; block*valuesPerDigest < domain.Dimensions; block++ {
		h := sha256.New()
		h.Write([]byte(token))
		var counter [4]byte
		binary.LittleEndian.PutUint32(counter[:], uint32(block))
		h.Write(counter[:])
		digest := h.Sum(nil)

		for j := 0; j < valuesPerDigest; j++ {
			idx := block*valuesPerDigest + j
			if idx >= domain.Dimensions {
				break
			}
			u := binary.LittleEndian.Uint32(digest[j*4:])
			vec[idx] = float32(u)/float32(1<<31) - 1 // map to [-1, 1)
		}
	}
	return vec
}
