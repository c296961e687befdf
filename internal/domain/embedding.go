package domain

import "context"

// Dimensions is the embedding vector size produced by every provider.
// Stored event vectors and query vectors share this dimensionality.
const Dimensions = 384

// MaxEmbeddingInputLen is the rune cap applied to any text before it is
// handed to a provider.
const MaxEmbeddingInputLen = 512

// Embedder is the shared text vectorization contract between layers.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// HealthChecker verifies embedding provider availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// EmbeddingResult carries the embedding vector and token usage through the decorator chain.
type EmbeddingResult struct {
	Embedding    []float32
	PromptTokens int
	TotalTokens  int
}

// TruncateEmbeddingInput caps text at MaxEmbeddingInputLen runes.
func TruncateEmbeddingInput(text string) string {
	runes := []rune(text)
	if len(runes) <= MaxEmbeddingInputLen {
		return text
	}
	return string(runes[:MaxEmbeddingInputLen])
}
