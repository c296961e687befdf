package domain

import "errors"

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrDimensionMismatch signals vectors of different dimensionality.
	// Mixing embedding models upstream is an integration bug, so it fails loudly.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
	// ErrRateLimited signals a rate limit hit.
	ErrRateLimited = errors.New("rate limited")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrEmbeddingNotConfigured signals the remote provider is selected
	// but its URL or API key is missing.
	ErrEmbeddingNotConfigured = errors.New("remote embedding provider not configured")
	// ErrInvalidRequest signals a malformed search request.
	ErrInvalidRequest = errors.New("invalid request")
)
