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


package core

import "fmt"

// ValidateDocument validates a Document according to domain rules.
//
// Validation rules:
//   - Owner and Filename must not be empty
//   - Category must not be empty (classification guarantees a label)
//   - Page numbers must be contiguous starting at 1
//
// NOT validated:
//   - Summary fields (computed lazily, Valid=false until then)
//   - Version (0 is treated as the first version by the store)
func ValidateDocument(doc *Document) error {
	if doc == nil {
		return fmt.Errorf("%w: document is nil", ErrValidation)
	}
	if doc.Owner == "" {
		return fmt.Errorf("%w: %w", ErrValidation, ErrEmptyOwner)
	}
	if doc.Filename == "" {
		return fmt.Errorf("%w: %w", ErrValidation, ErrEmptyFilename)
	}
	if doc.Category == "" {
		return fmt.Errorf("%w: %w", ErrValidation, ErrEmptyCategory)
	}
	for i, page := range doc.Pages {
		if page.Number != i+1 {
			return fmt.Errorf("%w: %w: page %d at position %d",
				ErrValidation, ErrPageNumbering, page.Number, i)
		}
	}
	return nil
}

// ValidateChunks validates that chunks form a dense, monotonic ordinal
// sequence for a single document and reference valid pages.
func ValidateChunks(docID ID, chunks []*Chunk) error {
	for i, chunk := range chunks {
		if chunk == nil {
			return fmt.Errorf("%w: chunk at position %d is nil", ErrValidation, i)
		}
		if chunk.DocumentId != docID {
			return fmt.Errorf("%w: chunk %d does not belong to document %d",
				ErrValidation, chunk.Id, docID)
		}
		if chunk.Ordinal != i {
			return fmt.Errorf("%w: %w: ordinal %d at position %d",
				ErrValidation, ErrChunkOrdinals, chunk.Ordinal, i)
		}
		if chunk.Page < 1 {
			return fmt.Errorf("%w: chunk %d references page %d",
				ErrValidation, chunk.Id, chunk.Page)
		}
	}
	return nil
}
