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


// Package storage provides the storage abstraction layer for docbase.
//
// Two interfaces decouple persistence from the engine:
//
//   - DocumentStore: document metadata keyed by (owner, filename)
//   - VectorIndex: nearest-neighbor search over chunk embeddings
//
// Both structures are maintained together: DocumentStore.Put writes the
// document, its chunks and its vector entries in one transaction, so the
// index never references a chunk the store doesn't hold.
//
// The badger sub-package provides the production implementation; its Store
// satisfies both interfaces over a single database:
//
//	store, err := badger.Open("/path/to/db")
//
// Tests use in-memory storage:
//
//	store, err := badger.NewMemoryStore()
//
// All implementations must be thread-safe. Methods accept context.Context
// for cancellation; pass context.Background() when no timeout is needed.
package storage
