package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// Index lifecycle errors.

	// ErrEmptyCorpus indicates an index build was attempted with no usable
	// chunks. Fatal to that build call only.
	ErrEmptyCorpus = errors.New("empty corpus")

	// ErrCorpusMismatch indicates a persisted index's dimensionality
	// disagrees with the active embedding backend. The caller must rebuild.
	ErrCorpusMismatch = errors.New("corpus dimension mismatch")

	// ErrDimensionMismatch indicates a vector's length disagrees with the
	// index dimensionality.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")

	// ErrNotNormalized indicates a vector's L2 norm deviates from 1 beyond
	// tolerance. The dot-product-equals-cosine invariant would not hold.
	ErrNotNormalized = errors.New("vector not normalized")

	// ErrIndexClosed indicates the vector index has been closed.
	ErrIndexClosed = errors.New("vector index closed")

	// Backend availability errors. These degrade the pipeline, never crash it.

	// ErrEmbeddingUnavailable indicates the embedding backend is missing or
	// unreachable. Retrieval degrades to an empty context.
	ErrEmbeddingUnavailable = errors.New("embedding backend unavailable")

	// ErrGenerationUnavailable indicates the generation backend is missing
	// or unreachable. The engine falls back to a templated answer.
	ErrGenerationUnavailable = errors.New("generation backend unavailable")
)
