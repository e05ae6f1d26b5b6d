// Copyright 2026 Archiva Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package badger

import (
	"context"
	"math"
	"sort"

	"github.com/archiva-systems/docbase/core"
	"github.com/archiva-systems/docbase/storage"
	"github.com/dgraph-io/badger/v4"
)

// Insert adds vector entries to the index. Entries for an unknown owner are
// rejected only by validation of the entries themselves; the index has no
// owner registry.
func (s *Store) Insert(ctx context.Context, entries ...*core.VectorEntry) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	return s.backend.WithTx(func(tx *badger.Txn) error {
		for _, entry := range entries {
			if entry == nil || entry.ChunkId == 0 || entry.Owner == "" {
				return storage.ErrInvalidQuery
			}
			if err := tx.Set(makeVectorEntryKey(entry.Owner, entry.ChunkId),
				storage.MarshalVectorEntry(entry)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// scoredEntry pairs a vector entry with its similarity score during search.
type scoredEntry struct {
	entry *core.VectorEntry
	score float32
}

// Search scans the owner's vector entries and returns the top k chunks by
// cosine similarity, highest first. The scan is bounded by the owner's key
// prefix and each decoded entry is re-checked against the owner, since the
// prefix of one owner can also match keys of an owner whose id extends it.
// A non-zero docFilter restricts results to one document. Ties in score
// break toward the lower chunk id so repeated searches return a stable
// order.
func (s *Store) Search(ctx context.Context, owner core.OwnerID, docFilter core.ID, query []float32, k int) ([]*core.ScoredChunk, error) {
	if len(query) == 0 || k <= 0 {
		return nil, storage.ErrInvalidQuery
	}

	var scored []scoredEntry
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeVectorEntryPrefix(owner)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var entry *core.VectorEntry
			err := iter.Item().Value(func(val []byte) error {
				var err error
				entry, err = storage.UnmarshalVectorEntry(val)
				return err
			})
			if err != nil {
				return err
			}
			if entry.Owner != owner {
				continue
			}
			if docFilter != 0 && entry.DocumentId != docFilter {
				continue
			}
			scored = append(scored, scoredEntry{
				entry: entry,
				score: cosineSimilarity(query, entry.Vector),
			})
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	sort.Slice(scored, func(i, j int) bool {
		if scored[i].score != scored[j].score {
			return scored[i].score > scored[j].score
		}
		return scored[i].entry.ChunkId < scored[j].entry.ChunkId
	})
	if len(scored) > k {
		scored = scored[:k]
	}

	return s.resolveChunks(scored)
}

// resolveChunks joins scored entries against their chunk records and owning
// documents. Filenames are cached per call since top-k entries usually come
// from few documents.
func (s *Store) resolveChunks(scored []scoredEntry) ([]*core.ScoredChunk, error) {
	results := make([]*core.ScoredChunk, 0, len(scored))
	filenames := make(map[core.ID]string)

	err := s.backend.WithTx(func(tx *badger.Txn) error {
		for _, sc := range scored {
			chunk, err := s.readChunk(tx, sc.entry.ChunkId)
			if err != nil {
				return err
			}
			if chunk == nil {
				// Index entry outlived its chunk; skip rather than fail the search.
				s.logger.Warn("dangling vector entry", "chunk_id", sc.entry.ChunkId)
				continue
			}

			filename, ok := filenames[chunk.DocumentId]
			if !ok {
				doc, err := s.readDocument(tx, chunk.DocumentId)
				if err != nil {
					return err
				}
				if doc != nil {
					filename = doc.Filename
				}
				filenames[chunk.DocumentId] = filename
			}

			results = append(results, &core.ScoredChunk{
				Chunk:    chunk,
				Filename: filename,
				Score:    sc.score,
			})
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return results, nil
}

// DeleteDocument removes all vector entries for one document of an owner.
func (s *Store) DeleteDocument(ctx context.Context, owner core.OwnerID, docID core.ID) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	return s.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeVectorEntryPrefix(owner)
		iter := tx.NewIterator(opts)

		var keys [][]byte
		for iter.Rewind(); iter.Valid(); iter.Next() {
			var matches bool
			err := iter.Item().Value(func(val []byte) error {
				entry, err := storage.UnmarshalVectorEntry(val)
				if err != nil {
					return err
				}
				matches = entry.Owner == owner && entry.DocumentId == docID
				return nil
			})
			if err != nil {
				iter.Close()
				return err
			}
			if matches {
				keys = append(keys, iter.Item().KeyCopy(nil))
			}
		}
		iter.Close()

		for _, key := range keys {
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// cosineSimilarity computes the cosine of the angle between two vectors.
// Mismatched lengths or a zero-norm vector score zero.
func cosineSimilarity(a, b []float32) float32 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
