package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown document format or scorer name.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrExtractionFailed indicates text could not be extracted from a document.
	ErrExtractionFailed = errors.New("text extraction failed")

	// ErrInvalidRules indicates a keyword rule set failed validation.
	ErrInvalidRules = errors.New("invalid rule set")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	// The LLM scorer falls back to keyword scoring without it.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	// Template similarity matching is disabled without embeddings.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrCacheUnavailable indicates the result cache could not be reached.
	ErrCacheUnavailable = errors.New("cache unavailable")

	// ErrCacheMiss indicates no cached entry exists for a key.
	ErrCacheMiss = errors.New("cache miss")

	// ErrRateLimited indicates a provider rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")
)
