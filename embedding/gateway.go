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


// Package embedding wraps the embedding capability with retry, backoff and a
// last-known-good cache for query-time embeddings.
package embedding

import (
	"context"
	"encoding/binary"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/archiva-systems/docbase/ai"
	"github.com/dgraph-io/ristretto/v2"
	"github.com/go-crypt/x/blake2b"
	"golang.org/x/time/rate"
)

const (
	defaultMaxAttempts = 4
	defaultBaseDelay   = 500 * time.Millisecond
	defaultCallTimeout = 30 * time.Second
	defaultCacheTTL    = 15 * time.Minute
)

// Gateway mediates all traffic to the embedding capability. Transient
// failures are retried with bounded exponential backoff; exhausting the
// retry ceiling surfaces ErrEmbeddingFailed rather than a zero vector.
//
// Query-time single embeddings are cached by exact-text hash so repeated
// identical queries survive embedder outages. Ingestion-time batch
// embeddings are never cached.
type Gateway struct {
	embedder    ai.Embedder
	maxAttempts int
	baseDelay   time.Duration
	callTimeout time.Duration
	cacheTTL    time.Duration
	limiter     *rate.Limiter
	cache       *ristretto.Cache[uint64, []float32]
	logger      *slog.Logger
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithMaxAttempts sets the retry ceiling for external calls.
func WithMaxAttempts(attempts int) Option {
	return func(g *Gateway) {
		if attempts > 0 {
			g.maxAttempts = attempts
		}
	}
}

// WithBaseDelay sets the initial backoff delay, doubled on each retry.
func WithBaseDelay(delay time.Duration) Option {
	return func(g *Gateway) {
		if delay > 0 {
			g.baseDelay = delay
		}
	}
}

// WithCallTimeout bounds each individual call to the embedding capability.
func WithCallTimeout(timeout time.Duration) Option {
	return func(g *Gateway) {
		if timeout > 0 {
			g.callTimeout = timeout
		}
	}
}

// WithCacheTTL sets the retention of cached query embeddings. The bound is a
// tunable, not a contract.
func WithCacheTTL(ttl time.Duration) Option {
	return func(g *Gateway) {
		if ttl > 0 {
			g.cacheTTL = ttl
		}
	}
}

// WithRateLimit smooths outbound calls to at most callsPerSecond.
// Unset means no smoothing.
func WithRateLimit(callsPerSecond float64, burst int) Option {
	return func(g *Gateway) {
		if callsPerSecond > 0 && burst > 0 {
			g.limiter = rate.NewLimiter(rate.Limit(callsPerSecond), burst)
		}
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(g *Gateway) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// NewGateway creates a Gateway around the given embedder.
func NewGateway(embedder ai.Embedder, opts ...Option) (*Gateway, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	g := &Gateway{
		embedder:    embedder,
		maxAttempts: defaultMaxAttempts,
		baseDelay:   defaultBaseDelay,
		callTimeout: defaultCallTimeout,
		cacheTTL:    defaultCacheTTL,
		limiter:     rate.NewLimiter(rate.Inf, 1),
		logger:      slog.Default().With("component", "embedding-gateway"),
	}
	for _, opt := range opts {
		opt(g)
	}

	cache, err := ristretto.NewCache(&ristretto.Config[uint64, []float32]{
		NumCounters: 10_000,
		MaxCost:     1 << 24, // ~16 MiB of float32 vectors
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	g.cache = cache

	return g, nil
}

// Close releases the embedding cache.
func (g *Gateway) Close() {
	g.cache.Close()
}

// Embed generates an embedding for a single text, with retry and backoff.
func (g *Gateway) Embed(ctx context.Context, text string) ([]float32, error) {
	var vector []float32
	err := retryWithBackoff(ctx, func() error {
		if err := g.limiter.Wait(ctx); err != nil {
			return err
		}
		callCtx, cancel := context.WithTimeout(ctx, g.callTimeout)
		defer cancel()

		var err error
		vector, err = g.embedder.EmbedText(callCtx, text)
		return err
	}, g.maxAttempts, g.baseDelay)
	if err != nil {
		g.logger.Error("embedding failed after retries", "attempts", g.maxAttempts, "err", err)
		return nil, wrapFailure(ctx, err)
	}
	return vector, nil
}

// EmbedBatch generates embeddings for multiple texts, with retry and backoff.
// Batch results are never cached.
func (g *Gateway) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	var vectors [][]float32
	err := retryWithBackoff(ctx, func() error {
		if err := g.limiter.Wait(ctx); err != nil {
			return err
		}
		callCtx, cancel := context.WithTimeout(ctx, g.callTimeout)
		defer cancel()

		var err error
		vectors, err = g.embedder.EmbedTexts(callCtx, texts)
		return err
	}, g.maxAttempts, g.baseDelay)
	if err != nil {
		g.logger.Error("batch embedding failed after retries",
			"texts", len(texts), "attempts", g.maxAttempts, "err", err)
		return nil, wrapFailure(ctx, err)
	}
	return vectors, nil
}

// EmbedQuery embeds a query string, falling back to the last known good
// embedding for the identical text when the live capability is unavailable.
// Successful live responses refresh the cache.
func (g *Gateway) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	key := textHash(text)

	vector, err := g.Embed(ctx, text)
	if err == nil {
		g.cache.SetWithTTL(key, vector, int64(len(vector)*4), g.cacheTTL)
		// Make the entry visible to an immediate retry of the same query.
		g.cache.Wait()
		return vector, nil
	}

	if cached, ok := g.cache.Get(key); ok {
		g.logger.Warn("serving cached query embedding", "err", err)
		return cached, nil
	}
	return nil, err
}

// wrapFailure tags terminal embedding errors while leaving caller-initiated
// cancellation untouched. Per-call timeouts are a retryable transient failure
// and end up tagged; a dead parent context propagates as-is.
func wrapFailure(ctx context.Context, err error) error {
	if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
		return err
	}
	return &failureError{cause: err}
}

// failureError wraps a terminal embedder error so callers can match
// ErrEmbeddingFailed while still unwrapping the cause.
type failureError struct {
	cause error
}

func (e *failureError) Error() string {
	return ErrEmbeddingFailed.Error() + ": " + e.cause.Error()
}

func (e *failureError) Is(target error) bool {
	return target == ErrEmbeddingFailed
}

func (e *failureError) Unwrap() error {
	return e.cause
}

// textHash produces the exact-text cache key via BLAKE2b, including the text
// length to guard against truncation collisions.
func textHash(text string) uint64 {
	h, _ := blake2b.New(8, nil)
	h.Write([]byte(strconv.Itoa(len(text))))
	h.Write([]byte(text))
	return binary.LittleEndian.Uint64(h.Sum(nil))
}
