package badger

import (
	"log/slog"
	"sync"

	"github.com/archiva-systems/docbase/core"
	"github.com/archiva-systems/docbase/storage"
	"github.com/dgraph-io/badger/v4"
)

// Store implements storage.DocumentStore and storage.VectorIndex over a
// single BadgerDB database, so document metadata and vector entries can be
// written in one transaction.
//
// Writes are serialized by a single writer lock; reads proceed concurrently
// against Badger's snapshot isolation, so a search never observes a
// half-written document.
type Store struct {
	backend *Backend
	writeMu sync.Mutex
	logger  *slog.Logger
}

var (
	_ storage.DocumentStore = (*Store)(nil)
	_ storage.VectorIndex   = (*Store)(nil)
)

// Open opens a Store backed by a BadgerDB database at the given path.
func Open(filePath string) (*Store, error) {
	backend, err := OpenBackend(filePath, false)
	if err != nil {
		return nil, err
	}
	return &Store{
		backend: backend,
		logger:  slog.Default().With("component", "badger-store"),
	}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.backend.Close()
}

// readDocument reads and deserializes a document record inside a transaction.
// Returns nil without error when the key doesn't exist.
func (s *Store) readDocument(tx *badger.Txn, docID core.ID) (*core.Document, error) {
	item, err := tx.Get(makeDocumentKey(docID))
	if err == badger.ErrKeyNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var doc *core.Document
	err = item.Value(func(val []byte) error {
		var err error
		doc, err = storage.UnmarshalDocument(val)
		return err
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// readChunk reads and deserializes a chunk record inside a transaction.
// Returns nil without error when the key doesn't exist.
func (s *Store) readChunk(tx *badger.Txn, chunkID core.ID) (*core.Chunk, error) {
	item, err := tx.Get(makeChunkKey(chunkID))
	if err == badger.ErrKeyNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var chunk *core.Chunk
	err = item.Value(func(val []byte) error {
		var err error
		chunk, err = storage.UnmarshalChunk(val)
		return err
	})
	if err != nil {
		return nil, err
	}
	return chunk, nil
}
