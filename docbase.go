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


package docbase

import (
	"context"
	"log/slog"

	"github.com/archiva-systems/docbase/ai"
	"github.com/archiva-systems/docbase/ai/openai"
	"github.com/archiva-systems/docbase/classify"
	"github.com/archiva-systems/docbase/core"
	"github.com/archiva-systems/docbase/embedding"
	"github.com/archiva-systems/docbase/ingestion"
	"github.com/archiva-systems/docbase/retrieval"
	"github.com/archiva-systems/docbase/storage/badger"
	"github.com/archiva-systems/docbase/summarize"
)

// Base is the document knowledge base: one storage backend plus the
// ingestion, retrieval and summarization services wired over it. Callers
// pass an owner identity with every operation; resolving that identity from
// credentials is the surrounding application's concern.
type Base struct {
	store    *badger.Store
	provider ai.Provider
	gateway  *embedding.Gateway
	pipeline *ingestion.Pipeline
	engine   *retrieval.Engine
	synth    *summarize.Synthesizer
	pages    *summarize.PageSummarizer
	logger   *slog.Logger
}

// BaseOption configures a Base.
type BaseOption func(*baseOptions)

type baseOptions struct {
	aiConfig *ai.Config
	provider ai.Provider
	inMemory bool
	topK     int
}

// WithAIConfig sets the AI endpoint configuration.
func WithAIConfig(config *ai.Config) BaseOption {
	return func(o *baseOptions) {
		if config != nil {
			o.aiConfig = config
		}
	}
}

// WithProvider injects an AI provider, bypassing the OpenAI-compatible
// default. Used by tests to run against deterministic stand-ins.
func WithProvider(provider ai.Provider) BaseOption {
	return func(o *baseOptions) {
		o.provider = provider
	}
}

// WithInMemory keeps all data in memory. Nothing survives Close.
func WithInMemory() BaseOption {
	return func(o *baseOptions) {
		o.inMemory = true
	}
}

// WithTopK sets how many chunks each query retrieves.
func WithTopK(k int) BaseOption {
	return func(o *baseOptions) {
		if k > 0 {
			o.topK = k
		}
	}
}

// New opens or creates a knowledge base at filePath.
func New(filePath string, opts ...BaseOption) (*Base, error) {
	options := &baseOptions{
		aiConfig: ai.DefaultConfig(),
		topK:     0, // engine default
	}
	for _, opt := range opts {
		opt(options)
	}

	var store *badger.Store
	var err error
	if options.inMemory {
		store, err = badger.NewMemoryStore()
	} else {
		store, err = badger.Open(filePath)
	}
	if err != nil {
		return nil, err
	}

	provider := options.provider
	if provider == nil {
		provider, err = openai.NewProvider(options.aiConfig)
		if err != nil {
			store.Close()
			return nil, err
		}
	}

	gateway, err := embedding.NewGateway(provider.Embedder())
	if err != nil {
		provider.Close()
		store.Close()
		return nil, err
	}

	var engineOpts []retrieval.EngineOption
	if options.topK > 0 {
		engineOpts = append(engineOpts, retrieval.WithTopK(options.topK))
	}
	engine, err := retrieval.NewEngine(gateway, store, provider.Generator(), engineOpts...)
	if err != nil {
		gateway.Close()
		provider.Close()
		store.Close()
		return nil, err
	}

	classifier := classify.New(provider.Generator())

	return &Base{
		store:    store,
		provider: provider,
		gateway:  gateway,
		pipeline: ingestion.NewPipeline(store, gateway, classifier),
		engine:   engine,
		synth:    summarize.NewSynthesizer(store, store, gateway, provider.Generator()),
		pages:    summarize.NewPageSummarizer(store, provider.Generator()),
		logger:   slog.Default(),
	}, nil
}

// Close releases the AI provider, caches and the storage backend.
func (b *Base) Close() error {
	if err := b.provider.Close(); err != nil {
		b.logger.Error("error closing AI provider", "err", err)
	}
	b.engine.Close()
	b.gateway.Close()
	if err := b.store.Close(); err != nil {
		b.logger.Error("error closing storage backend", "err", err)
		return err
	}
	return nil
}

// Ingest stores, classifies and indexes one uploaded file for owner and
// returns the assigned category. Re-uploading a filename replaces the
// stored document with a new version.
func (b *Base) Ingest(ctx context.Context, owner core.OwnerID, filename string, data []byte, mediaType string) (string, error) {
	return b.pipeline.Ingest(ctx, owner, filename, data, mediaType)
}

// ListDocuments returns the owner's documents, ordered by filename.
func (b *Base) ListDocuments(ctx context.Context, owner core.OwnerID) ([]core.DocumentInfo, error) {
	docs, err := b.store.List(ctx, owner)
	if err != nil {
		return nil, err
	}
	infos := make([]core.DocumentInfo, len(docs))
	for i, doc := range docs {
		infos[i] = core.DocumentInfo{
			Filename: doc.Filename,
			Category: doc.Category,
			Summary:  doc.Summary,
		}
	}
	return infos, nil
}

// Search answers a question over the owner's documents. A non-empty scope
// restricts retrieval to one document.
func (b *Base) Search(ctx context.Context, owner core.OwnerID, query, scope string) (*core.Answer, error) {
	return b.engine.Answer(ctx, owner, query, scope)
}

// CrossSummary synthesizes one report across the named documents.
func (b *Base) CrossSummary(ctx context.Context, owner core.OwnerID, filenames []string) (string, error) {
	return b.synth.CrossSummary(ctx, owner, filenames)
}

// PageSummary returns per-page summaries of one document, computing and
// caching any that are missing.
func (b *Base) PageSummary(ctx context.Context, owner core.OwnerID, filename string) ([]core.PageSummary, error) {
	return b.pages.PageSummary(ctx, owner, filename)
}
