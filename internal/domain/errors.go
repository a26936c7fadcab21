package domain

import "errors"

var (
	// ErrInvalidQuery signals a missing or malformed search query.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrEmbeddingProviderError signals an unreachable or failing embedding provider.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrEmbeddingMalformed signals a success response without a usable vector.
	ErrEmbeddingMalformed = errors.New("malformed embedding response")
	// ErrSearchProviderError signals a similarity index failure.
	ErrSearchProviderError = errors.New("search provider error")
	// ErrPoolNotConfigured signals a search against an unknown pool.
	ErrPoolNotConfigured = errors.New("pool not configured")
)
