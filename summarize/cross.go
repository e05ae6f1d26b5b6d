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

package summarize

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/archiva-systems/docbase/ai"
	"github.com/archiva-systems/docbase/core"
	"github.com/archiva-systems/docbase/storage"
)

// synthesisDirective is the fixed retrieval query for cross-document
// synthesis. It is not a user query; every synthesis request retrieves
// against the same embedded directive.
const synthesisDirective = "summarize the key points and connect the themes across these documents"

const synthesisSystemPrompt = `You write a single coherent report from excerpts of several documents.
Summarize each document's contribution and connect the themes across them.
Use only the provided excerpts.`

const chunksPerDocument = 3

// QueryEmbedder turns text into a vector. Satisfied by *embedding.Gateway.
type QueryEmbedder interface {
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// Synthesizer produces one report spanning several documents of one owner.
type Synthesizer struct {
	store     storage.DocumentStore
	index     storage.VectorIndex
	embedder  QueryEmbedder
	generator ai.Generator
	logger    *slog.Logger
}

// NewSynthesizer creates a cross-document synthesizer.
func NewSynthesizer(store storage.DocumentStore, index storage.VectorIndex, embedder QueryEmbedder, generator ai.Generator) *Synthesizer {
	return &Synthesizer{
		store:     store,
		index:     index,
		embedder:  embedder,
		generator: generator,
		logger:    slog.Default().With("component", "synthesizer"),
	}
}

// CrossSummary synthesizes a report over the named documents. Every filename
// must resolve to a document of the requesting owner; one foreign or missing
// name fails the whole request, nothing is silently excluded.
func (s *Synthesizer) CrossSummary(ctx context.Context, owner core.OwnerID, filenames []string) (string, error) {
	if len(filenames) == 0 {
		return "", ErrEmptySelection
	}

	docs := make([]*core.Document, 0, len(filenames))
	for _, filename := range filenames {
		doc, err := s.store.Get(ctx, owner, filename)
		if errors.Is(err, storage.ErrNotFound) {
			return "", fmt.Errorf("%w: %s", core.ErrForbidden, filename)
		}
		if err != nil {
			return "", err
		}
		docs = append(docs, doc)
	}

	vector, err := s.embedder.EmbedQuery(ctx, synthesisDirective)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrSummaryGeneration, err)
	}

	var b strings.Builder
	for _, doc := range docs {
		chunks, err := s.index.Search(ctx, owner, doc.Id, vector, chunksPerDocument)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&b, "## %s (%s)\n\n", doc.Filename, doc.Category)
		for _, sc := range chunks {
			fmt.Fprintf(&b, "[page %d] %s\n\n", sc.Chunk.Page, sc.Chunk.Text)
		}
	}

	report, err := s.generator.Generate(ctx, synthesisSystemPrompt, b.String())
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrSummaryGeneration, err)
	}
	report = strings.TrimSpace(report)

	// A single-document request doubles as that document's summary. The
	// cached copy is what listings show; a stale cache write is tolerable.
	if len(docs) == 1 {
		if err := s.store.UpdateSummary(ctx, owner, docs[0].Filename, core.SummaryOf(report)); err != nil {
			s.logger.Warn("summary cache write failed",
				"owner", owner, "filename", docs[0].Filename, "error", err)
		}
	}

	s.logger.Debug("cross summary generated", "owner", owner, "documents", len(docs))
	return report, nil
}
