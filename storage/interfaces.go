package storage

import (
	"context"

	"github.com/archiva-systems/docbase/core"
)

// DocumentStore persists document metadata keyed by (owner, filename).
// Implementations must be thread-safe and support concurrent access.
type DocumentStore interface {
	// Put stores a document together with its chunks and the corresponding
	// vector index entries in a single atomic write: either everything is
	// persisted or nothing is. Putting an existing (owner, filename) key is
	// a versioned overwrite that also removes the prior version's chunks
	// and index entries in the same transaction.
	// The document's Version, CreatedAt and ChunkIds fields are populated.
	Put(ctx context.Context, doc *core.Document, chunks []*core.Chunk) error

	// Get retrieves a document by owner and filename.
	// Returns ErrNotFound if the document doesn't exist.
	Get(ctx context.Context, owner core.OwnerID, filename string) (*core.Document, error)

	// List retrieves all documents belonging to an owner, ordered by filename.
	List(ctx context.Context, owner core.OwnerID) ([]*core.Document, error)

	// UpdateSummary sets the cached top-level summary of a document.
	// Returns ErrNotFound if the document doesn't exist.
	UpdateSummary(ctx context.Context, owner core.OwnerID, filename string, summary core.Summary) error

	// UpdatePageSummary sets the cached summary of one page.
	// Returns ErrNotFound if the document or page doesn't exist.
	UpdatePageSummary(ctx context.Context, owner core.OwnerID, filename string, page int, summary core.Summary) error

	// GetChunks retrieves chunks by their IDs.
	// Returns only the chunks that exist (no error for missing chunks).
	GetChunks(ctx context.Context, ids ...core.ID) ([]*core.Chunk, error)

	// Close closes the store and releases resources.
	Close() error
}

// VectorIndex is the nearest-neighbor store over chunk embeddings, filterable
// by owner. Implementations must be thread-safe.
type VectorIndex interface {
	// Insert appends entries to the index. Callers that need atomicity with
	// the document write should use DocumentStore.Put, which maintains both
	// structures in one transaction.
	Insert(ctx context.Context, entries ...*core.VectorEntry) error

	// Search returns the k nearest entries to the query vector by cosine
	// similarity, restricted to the given owner. A non-zero docFilter
	// restricts results to chunks of that document. Ties are broken by
	// ascending chunk id so ranking is deterministic.
	// Results carry the chunk and the filename of its document.
	Search(ctx context.Context, owner core.OwnerID, docFilter core.ID, query []float32, k int) ([]*core.ScoredChunk, error)

	// DeleteDocument removes all index entries of one document.
	DeleteDocument(ctx context.Context, owner core.OwnerID, docID core.ID) error

	// Close closes the index and releases resources.
	Close() error
}
