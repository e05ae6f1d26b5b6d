package retrieval

import "errors"

var (
	// ErrEmptyQuery indicates a query with no text after trimming.
	ErrEmptyQuery = errors.New("query text is empty")

	// ErrQueryEmbedding indicates the query could not be embedded.
	ErrQueryEmbedding = errors.New("query embedding failed")

	// ErrDegraded indicates the generator is rate limited and no cached
	// answer was available to serve instead.
	ErrDegraded = errors.New("generation temporarily degraded")
)
