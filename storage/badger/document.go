package badger

import (
	"context"
	"time"

	"github.com/archiva-systems/docbase/core"
	"github.com/archiva-systems/docbase/storage"
	"github.com/dgraph-io/badger/v4"
)

// Put stores a document, its chunks and its vector index entries in one
// transaction. An existing (owner, filename) key is a versioned overwrite:
// the prior version's chunks and vector entries are removed in the same
// transaction, so the index never references a chunk the store lost.
func (s *Store) Put(ctx context.Context, doc *core.Document, chunks []*core.Chunk) error {
	if doc == nil {
		return storage.ErrInvalidQuery
	}

	if doc.Id == 0 {
		doc.Id = core.DocumentID(doc.Owner, doc.Filename)
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}
	doc.ChunkIds = make([]core.ID, len(chunks))
	for i, chunk := range chunks {
		doc.ChunkIds[i] = chunk.Id
	}

	if err := core.ValidateDocument(doc); err != nil {
		return err
	}
	if err := core.ValidateChunks(doc.Id, chunks); err != nil {
		return err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	return s.backend.WithTx(func(tx *badger.Txn) error {
		old, err := s.readDocument(tx, doc.Id)
		if err != nil {
			return err
		}
		if old != nil {
			doc.Version = old.Version + 1
			if err := s.deleteChunks(tx, old); err != nil {
				return err
			}
		} else {
			doc.Version = 1
		}

		if err := tx.Set(makeDocumentKey(doc.Id), storage.MarshalDocument(doc)); err != nil {
			return err
		}
		if err := tx.Set(makeDocumentListKey(doc.Owner, doc.Filename), appendID(nil, doc.Id)); err != nil {
			return err
		}

		for _, chunk := range chunks {
			if err := tx.Set(makeChunkKey(chunk.Id), storage.MarshalChunk(chunk)); err != nil {
				return err
			}
			entry := &core.VectorEntry{
				ChunkId:    chunk.Id,
				DocumentId: doc.Id,
				Owner:      doc.Owner,
				Vector:     chunk.Vector,
			}
			if err := tx.Set(makeVectorEntryKey(doc.Owner, chunk.Id),
				storage.MarshalVectorEntry(entry)); err != nil {
				return err
			}
		}

		return tx.Commit()
	}, true)
}

// deleteChunks removes a document version's chunk records and vector entries.
func (s *Store) deleteChunks(tx *badger.Txn, doc *core.Document) error {
	for _, chunkID := range doc.ChunkIds {
		if err := tx.Delete(makeChunkKey(chunkID)); err != nil {
			return err
		}
		if err := tx.Delete(makeVectorEntryKey(doc.Owner, chunkID)); err != nil {
			return err
		}
	}
	return nil
}

// Get retrieves a document by owner and filename.
func (s *Store) Get(ctx context.Context, owner core.OwnerID, filename string) (*core.Document, error) {
	var doc *core.Document
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		doc, err = s.readDocument(tx, core.DocumentID(owner, filename))
		return err
	}, false)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, storage.ErrNotFound
	}
	return doc, nil
}

// List retrieves all documents belonging to an owner, ordered by filename.
func (s *Store) List(ctx context.Context, owner core.OwnerID) ([]*core.Document, error) {
	var docs []*core.Document
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeDocumentListPrefix(owner)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		// The listing index sorts by filename per owner.
		for iter.Rewind(); iter.Valid(); iter.Next() {
			var docID core.ID
			err := iter.Item().Value(func(val []byte) error {
				if len(val) != 8 {
					return storage.ErrSerializationFailed
				}
				docID = idFromBytes(val)
				return nil
			})
			if err != nil {
				return err
			}

			doc, err := s.readDocument(tx, docID)
			if err != nil {
				return err
			}
			// The prefix scan may overrun into an owner whose id extends
			// this one, so the record's owner is checked again.
			if doc == nil || doc.Owner != owner {
				continue
			}
			docs = append(docs, doc)
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return docs, nil
}

// UpdateSummary sets the cached top-level summary of a document.
func (s *Store) UpdateSummary(ctx context.Context, owner core.OwnerID, filename string, summary core.Summary) error {
	return s.updateDocument(owner, filename, func(doc *core.Document) error {
		doc.Summary = summary
		return nil
	})
}

// UpdatePageSummary sets the cached summary of one page.
func (s *Store) UpdatePageSummary(ctx context.Context, owner core.OwnerID, filename string, page int, summary core.Summary) error {
	return s.updateDocument(owner, filename, func(doc *core.Document) error {
		if page < 1 || page > len(doc.Pages) {
			return storage.ErrPageNotFound
		}
		doc.Pages[page-1].Summary = summary
		return nil
	})
}

// updateDocument applies a mutation to a document record under the writer lock.
func (s *Store) updateDocument(owner core.OwnerID, filename string, mutate func(*core.Document) error) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	return s.backend.WithTx(func(tx *badger.Txn) error {
		docID := core.DocumentID(owner, filename)
		doc, err := s.readDocument(tx, docID)
		if err != nil {
			return err
		}
		if doc == nil {
			return storage.ErrNotFound
		}
		if err := mutate(doc); err != nil {
			return err
		}
		if err := tx.Set(makeDocumentKey(docID), storage.MarshalDocument(doc)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// GetChunks retrieves chunks by their IDs. Missing chunks are skipped.
func (s *Store) GetChunks(ctx context.Context, ids ...core.ID) ([]*core.Chunk, error) {
	var chunks []*core.Chunk
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			chunk, err := s.readChunk(tx, id)
			if err != nil {
				return err
			}
			if chunk == nil {
				continue
			}
			chunks = append(chunks, chunk)
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return chunks, nil
}
