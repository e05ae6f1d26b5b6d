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

import "errors"

// Domain errors shared across packages.
var (
	// ErrForbidden indicates a cross-owner access attempt. It is always fatal
	// to the request; access is never partially honored.
	ErrForbidden = errors.New("document does not belong to requesting owner")

	// ErrValidation indicates invalid caller input, such as an empty query or
	// an empty document selection. The request has no side effects.
	ErrValidation = errors.New("validation failed")

	// ErrEmptyOwner indicates a missing owner identity.
	ErrEmptyOwner = errors.New("owner id cannot be empty")

	// ErrEmptyFilename indicates a missing document filename.
	ErrEmptyFilename = errors.New("filename cannot be empty")

	// ErrEmptyCategory indicates a document without a category label.
	ErrEmptyCategory = errors.New("category cannot be empty")

	// ErrPageNumbering indicates page numbers are not contiguous from 1.
	ErrPageNumbering = errors.New("page numbers must be contiguous and 1-based")

	// ErrChunkOrdinals indicates chunk ordinals are not dense and monotonic.
	ErrChunkOrdinals = errors.New("chunk ordinals must be dense and monotonic")
)
