package summarize

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/archiva-systems/docbase/ai"
	"github.com/archiva-systems/docbase/core"
	"github.com/archiva-systems/docbase/storage"
	"github.com/panjf2000/ants/v2"
)

const pageSystemPrompt = `You summarize one page of a document in two or three sentences.
Use only the page text provided.`

const defaultPageWorkers = 4

// PageSummarizer produces per-page summaries of one document. Summaries are
// cached on the page record, so a repeat call only generates for pages that
// were added or never completed.
type PageSummarizer struct {
	store     storage.DocumentStore
	generator ai.Generator
	workers   int
	logger    *slog.Logger
}

// PageOption configures a PageSummarizer.
type PageOption func(*PageSummarizer)

// WithWorkers bounds how many pages are summarized concurrently.
func WithWorkers(n int) PageOption {
	return func(p *PageSummarizer) {
		if n > 0 {
			p.workers = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) PageOption {
	return func(p *PageSummarizer) {
		if logger != nil {
			p.logger = logger.With("component", "page-summarizer")
		}
	}
}

// NewPageSummarizer creates a page summarizer.
func NewPageSummarizer(store storage.DocumentStore, generator ai.Generator, opts ...PageOption) *PageSummarizer {
	p := &PageSummarizer{
		store:     store,
		generator: generator,
		workers:   defaultPageWorkers,
		logger:    slog.Default().With("component", "page-summarizer"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// PageSummary returns one summary per page, in page order. Pages whose
// summary is already cached are returned as-is without a generation call.
// Fresh summaries are written through to the store before returning, so an
// interrupted run resumes where it left off.
func (p *PageSummarizer) PageSummary(ctx context.Context, owner core.OwnerID, filename string) ([]core.PageSummary, error) {
	doc, err := p.store.Get(ctx, owner, filename)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", core.ErrForbidden, filename)
	}
	if err != nil {
		return nil, err
	}

	summaries := make([]string, len(doc.Pages))
	pageErrs := make([]error, len(doc.Pages))

	pool, err := ants.NewPool(p.workers)
	if err != nil {
		return nil, err
	}
	defer pool.Release()

	var wg sync.WaitGroup
	for i := range doc.Pages {
		page := doc.Pages[i]
		if page.Summary.Valid {
			summaries[i] = page.Summary.Text
			continue
		}

		i := i
		wg.Add(1)
		err := pool.Submit(func() {
			defer wg.Done()
			summaries[i], pageErrs[i] = p.summarizePage(ctx, owner, filename, page)
		})
		if err != nil {
			wg.Done()
			pageErrs[i] = err
		}
	}
	wg.Wait()

	for _, err := range pageErrs {
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrSummaryGeneration, err)
		}
	}

	result := make([]core.PageSummary, len(doc.Pages))
	for i := range doc.Pages {
		result[i] = core.PageSummary{Page: doc.Pages[i].Number, Summary: summaries[i]}
	}
	return result, nil
}

func (p *PageSummarizer) summarizePage(ctx context.Context, owner core.OwnerID, filename string, page core.Page) (string, error) {
	prompt := fmt.Sprintf("Page %d:\n\n%s", page.Number, page.Text)
	text, err := p.generator.Generate(ctx, pageSystemPrompt, prompt)
	if err != nil {
		return "", err
	}

	if err := p.store.UpdatePageSummary(ctx, owner, filename, page.Number, core.SummaryOf(text)); err != nil {
		// The summary is still usable this call; only the cache write failed.
		p.logger.Warn("page summary cache write failed",
			"owner", owner, "filename", filename, "page", page.Number, "error", err)
	}
	return text, nil
}
