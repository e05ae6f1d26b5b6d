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

package retrieval

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/archiva-systems/docbase/ai"
	"github.com/archiva-systems/docbase/core"
	"github.com/archiva-systems/docbase/storage"
)

const (
	defaultTopK     = 4
	defaultCacheTTL = 30 * time.Minute

	// Chunks scoring below this are noise, not evidence. Without a floor
	// any non-empty corpus would always produce a citation.
	defaultMinScore = 0.5

	noResultsAnswer = "No relevant documents were found for this question."
)

// QueryEmbedder turns query text into a vector. Satisfied by
// *embedding.Gateway.
type QueryEmbedder interface {
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// Engine answers questions over an owner's indexed documents. Each query
// runs retrieve-then-generate: the query is embedded, the owner's top
// chunks are fetched, and the generator answers from those chunks only.
// The citation is built from what was actually retrieved, so a generated
// answer can never cite a document the search did not return.
type Engine struct {
	embedder  QueryEmbedder
	index     storage.VectorIndex
	generator ai.Generator
	cache     *answerCache
	monitor   Monitor
	topK      int
	minScore  float32
	logger    *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithTopK sets how many chunks a query retrieves.
func WithTopK(k int) EngineOption {
	return func(e *Engine) {
		if k > 0 {
			e.topK = k
		}
	}
}

// WithMinScore sets the similarity floor below which a retrieved chunk is
// discarded.
func WithMinScore(score float32) EngineOption {
	return func(e *Engine) {
		if score > 0 {
			e.minScore = score
		}
	}
}

// WithMonitor installs a lifecycle observer.
func WithMonitor(m Monitor) EngineOption {
	return func(e *Engine) {
		if m != nil {
			e.monitor = m
		}
	}
}

// WithCacheTTL sets the retention of the resilience cache.
func WithCacheTTL(ttl time.Duration) EngineOption {
	return func(e *Engine) {
		if ttl > 0 {
			e.cache.ttl = ttl
		}
	}
}

// WithEngineLogger sets the logger.
func WithEngineLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger.With("component", "retrieval")
		}
	}
}

// NewEngine creates a retrieval engine.
func NewEngine(embedder QueryEmbedder, index storage.VectorIndex, generator ai.Generator, opts ...EngineOption) (*Engine, error) {
	cache, err := newAnswerCache(defaultCacheTTL)
	if err != nil {
		return nil, err
	}
	e := &Engine{
		embedder:  embedder,
		index:     index,
		generator: generator,
		cache:     cache,
		monitor:   nopMonitor{},
		topK:      defaultTopK,
		minScore:  defaultMinScore,
		logger:    slog.Default().With("component", "retrieval"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Close releases the resilience cache.
func (e *Engine) Close() {
	e.cache.close()
}

// Answer runs one query for owner. An empty scope lets the query carry its
// own "Context: <filename>." directive; a non-empty scope takes precedence.
func (e *Engine) Answer(ctx context.Context, owner core.OwnerID, query, scope string) (*core.Answer, error) {
	e.monitor.QueryState(string(owner), StateReceived)

	if directive, rest := parseScope(query); directive != "" {
		if scope == "" {
			scope = directive
		}
		query = rest
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	vector, err := e.embedder.EmbedQuery(ctx, query)
	if err != nil {
		e.monitor.QueryState(string(owner), StateEmbeddingFailed)
		return nil, fmt.Errorf("%w: %w", ErrQueryEmbedding, err)
	}
	e.monitor.QueryState(string(owner), StateQueryEmbedded)

	var docFilter core.ID
	if scope != "" {
		docFilter = core.DocumentID(owner, scope)
	}
	chunks, err := e.index.Search(ctx, owner, docFilter, vector, e.topK)
	if err != nil {
		return nil, err
	}
	e.monitor.QueryState(string(owner), StateSearched)

	relevant := chunks[:0]
	for _, sc := range chunks {
		if sc.Score >= e.minScore {
			relevant = append(relevant, sc)
		}
	}
	chunks = relevant

	if len(chunks) == 0 {
		e.monitor.QueryState(string(owner), StateAnswered)
		return &core.Answer{Text: noResultsAnswer}, nil
	}

	prompt := assemblePrompt(query, chunks)
	e.monitor.QueryState(string(owner), StatePromptAssembled)

	text, err := e.generator.Generate(ctx, answerSystemPrompt, prompt)
	if err != nil {
		if ai.IsRateLimited(err) {
			e.monitor.QueryState(string(owner), StateRateLimited)
			if cached, ok := e.cache.get(owner, query, scope); ok {
				cached.Stale = true
				e.logger.Warn("serving cached answer", "owner", owner)
				return &cached, nil
			}
			return nil, fmt.Errorf("%w: %w", ErrDegraded, err)
		}
		return nil, err
	}
	e.monitor.QueryState(string(owner), StateGenerated)

	answer := core.Answer{
		Text: strings.TrimSpace(text),
		Citation: core.Citation{
			Filename: chunks[0].Filename,
			Page:     chunks[0].Chunk.Page,
		},
	}
	e.cache.put(owner, query, scope, answer)
	e.monitor.QueryState(string(owner), StateAnswered)
	return &answer, nil
}
