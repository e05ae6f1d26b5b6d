package ingestion

import "errors"

var (
	// ErrEmptyInput indicates an ingest call with no file bytes.
	ErrEmptyInput = errors.New("no file content provided")

	// ErrEmbedding indicates the document could not be embedded after
	// retries. Nothing was persisted for the document.
	ErrEmbedding = errors.New("ingestion could not complete: embedding unavailable")
)
