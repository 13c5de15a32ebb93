package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrArchiveUnavailable indicates the mail archive is missing or
	// unreadable. This is the one fatal input condition: individual
	// malformed messages are skipped, a missing archive aborts the run.
	ErrArchiveUnavailable = errors.New("mail archive unavailable")

	// ErrIndexInProgress indicates an index build is already running.
	ErrIndexInProgress = errors.New("index build in progress")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	// Question answering and chat are disabled without it.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not
	// configured. Semantic search is disabled without embeddings.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrVectorIndexUnavailable indicates the vector index is not
	// configured or not yet built.
	ErrVectorIndexUnavailable = errors.New("vector index unavailable")

	// ErrStoreUnavailable indicates the record store cannot be opened or
	// written. Fatal: without the store there is no output sink.
	ErrStoreUnavailable = errors.New("record store unavailable")

	// ErrDimensionMismatch indicates a vector's length does not match the
	// index dimensionality.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
)
