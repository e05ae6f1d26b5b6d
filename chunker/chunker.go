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


// Package chunker splits page text into overlapping windows for embedding.
//
// Chunk boundaries are deterministic: the same text and configuration always
// produce bit-identical chunks, which keeps embeddings reproducible.
package chunker

import (
	"strings"

	"github.com/archiva-systems/docbase/core"
)

const (
	// DefaultWindow is the default chunk window size in runes.
	DefaultWindow = 1000
	// DefaultOverlap is the default overlap between consecutive chunks in runes.
	DefaultOverlap = 100
)

// Chunker splits text into fixed-size overlapping rune windows.
// Windows advance by Window-Overlap runes; the final window may be shorter.
type Chunker struct {
	window  int
	overlap int
}

// New creates a Chunker. Non-positive window falls back to DefaultWindow;
// the overlap is clamped into [0, window).
func New(window, overlap int) *Chunker {
	if window <= 0 {
		window = DefaultWindow
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= window {
		overlap = window - 1
	}
	return &Chunker{window: window, overlap: overlap}
}

// Default returns a Chunker with the default window and overlap.
func Default() *Chunker {
	return New(DefaultWindow, DefaultOverlap)
}

// Window returns the configured window size in runes.
func (c *Chunker) Window() int { return c.window }

// Overlap returns the configured overlap in runes.
func (c *Chunker) Overlap() int { return c.overlap }

// SplitPage splits one page's text into chunks for the given document.
// Ordinals start at startOrdinal so they stay dense and monotonic across a
// document's pages. Whitespace-only text yields no chunks.
func (c *Chunker) SplitPage(docID core.ID, page, startOrdinal int, text string) []*core.Chunk {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	runes := []rune(text)
	step := c.window - c.overlap

	var chunks []*core.Chunk
	ordinal := startOrdinal
	for start := 0; start < len(runes); start += step {
		end := start + c.window
		if end > len(runes) {
			end = len(runes)
		}

		chunks = append(chunks, &core.Chunk{
			Id:         core.ChunkID(docID, page, ordinal),
			DocumentId: docID,
			Page:       page,
			Ordinal:    ordinal,
			Text:       string(runes[start:end]),
		})
		ordinal++

		if end == len(runes) {
			break
		}
	}

	return chunks
}

// SplitDocument splits all pages of a document, keeping ordinals dense across
// page boundaries. Pages with no text contribute no chunks.
func (c *Chunker) SplitDocument(doc *core.Document) []*core.Chunk {
	var chunks []*core.Chunk
	for _, page := range doc.Pages {
		chunks = append(chunks, c.SplitPage(doc.Id, page.Number, len(chunks), page.Text)...)
	}
	return chunks
}
