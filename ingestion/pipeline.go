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

package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/archiva-systems/docbase/chunker"
	"github.com/archiva-systems/docbase/core"
	"github.com/archiva-systems/docbase/storage"
)

// placeholderPage stands in for content that could not be extracted. The
// document still exists, lists and classifies; only retrieval quality
// degrades.
const placeholderPage = "The content of this file could not be extracted."

// classifySampleRunes bounds how much document text the classifier sees.
const classifySampleRunes = 2000

// BatchEmbedder embeds a batch of chunk texts. Satisfied by
// *embedding.Gateway.
type BatchEmbedder interface {
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// Labeler assigns a category label. Satisfied by *classify.Classifier.
// Labeling is total; it reports a label for every input.
type Labeler interface {
	Classify(ctx context.Context, filename, text string) string
}

// Pipeline runs a document from raw bytes to the stored, indexed state:
// extract pages, classify, chunk, embed, persist. Extraction and
// classification failures degrade; an embedding failure aborts with nothing
// persisted.
type Pipeline struct {
	store     storage.DocumentStore
	embedder  BatchEmbedder
	labeler   Labeler
	extractor Extractor
	splitter  *chunker.Chunker
	logger    *slog.Logger
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline)

// WithExtractor replaces the default plain-text extractor.
func WithExtractor(e Extractor) PipelineOption {
	return func(p *Pipeline) {
		if e != nil {
			p.extractor = e
		}
	}
}

// WithChunker replaces the default chunking configuration.
func WithChunker(c *chunker.Chunker) PipelineOption {
	return func(p *Pipeline) {
		if c != nil {
			p.splitter = c
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) PipelineOption {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger.With("component", "ingestion")
		}
	}
}

// NewPipeline creates an ingestion pipeline.
func NewPipeline(store storage.DocumentStore, embedder BatchEmbedder, labeler Labeler, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		store:     store,
		embedder:  embedder,
		labeler:   labeler,
		extractor: PlainText{},
		splitter:  chunker.Default(),
		logger:    slog.Default().With("component", "ingestion"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Ingest processes one uploaded file for owner and returns its category.
// Re-uploading an existing filename replaces the stored document with a new
// version. The write is all-or-nothing: if embedding fails, no document,
// chunk or index entry is left behind.
func (p *Pipeline) Ingest(ctx context.Context, owner core.OwnerID, filename string, data []byte, mediaType string) (string, error) {
	if owner == "" {
		return "", fmt.Errorf("%w: %w", core.ErrValidation, core.ErrEmptyOwner)
	}
	if filename == "" {
		return "", fmt.Errorf("%w: %w", core.ErrValidation, core.ErrEmptyFilename)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("%w: %s", ErrEmptyInput, filename)
	}

	pageTexts, err := p.extractor.Extract(data, mediaType)
	if err != nil || len(pageTexts) == 0 {
		p.logger.Warn("extraction failed, storing placeholder",
			"owner", owner, "filename", filename, "error", err)
		pageTexts = []string{placeholderPage}
	}

	category := p.labeler.Classify(ctx, filename, classifySample(pageTexts))

	doc := &core.Document{
		Id:       core.DocumentID(owner, filename),
		Owner:    owner,
		Filename: filename,
		Category: category,
	}
	for i, text := range pageTexts {
		doc.Pages = append(doc.Pages, core.Page{Number: i + 1, Text: text})
	}

	chunks := p.splitter.SplitDocument(doc)
	if len(chunks) > 0 {
		texts := make([]string, len(chunks))
		for i, chunk := range chunks {
			texts[i] = chunk.Text
		}
		vectors, err := p.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrEmbedding, err)
		}
		if len(vectors) != len(chunks) {
			return "", fmt.Errorf("%w: got %d vectors for %d chunks",
				ErrEmbedding, len(vectors), len(chunks))
		}
		for i, chunk := range chunks {
			chunk.Vector = vectors[i]
		}
	}

	if err := p.store.Put(ctx, doc, chunks); err != nil {
		return "", err
	}

	p.logger.Info("document ingested",
		"owner", owner, "filename", filename,
		"category", category, "pages", len(doc.Pages), "chunks", len(chunks))
	return category, nil
}

// classifySample joins page texts and truncates to the classifier sample limit.
func classifySample(pages []string) string {
	joined := strings.Join(pages, "\n")
	runes := []rune(joined)
	if len(runes) > classifySampleRunes {
		return string(runes[:classifySampleRunes])
	}
	return joined
}
