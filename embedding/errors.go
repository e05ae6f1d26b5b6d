package embedding

import "errors"

var (
	// ErrEmbedderRequired is returned when an embedder is not provided.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrInvalidMaxAttempts is returned when the retry ceiling is not positive.
	ErrInvalidMaxAttempts = errors.New("max attempts must be greater than zero")

	// ErrEmbeddingFailed indicates the embedding capability failed after
	// exhausting all retries. Callers must not treat this as a zero vector;
	// ingestion aborts and queries fall back to cached state where possible.
	ErrEmbeddingFailed = errors.New("embedding failed after retries")
)
