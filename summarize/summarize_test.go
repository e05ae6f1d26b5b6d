package summarize

import (
	"context"
	"errors"
	"testing"

	"github.com/archiva-systems/docbase/ai/mock"
	"github.com/archiva-systems/docbase/core"
	badgerstore "github.com/archiva-systems/docbase/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubEmbedder struct{}

func (stubEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	return mock.DeterministicVector(text, 32), nil
}

func newTestStore(t *testing.T) *badgerstore.Store {
	t.Helper()
	store, err := badgerstore.NewMemoryStore()
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func putDocument(t *testing.T, store *badgerstore.Store, owner core.OwnerID, filename string, pageTexts ...string) *core.Document {
	t.Helper()
	docID := core.DocumentID(owner, filename)
	doc := &core.Document{
		Id:       docID,
		Owner:    owner,
		Filename: filename,
		Category: "general",
	}
	var chunks []*core.Chunk
	for i, text := range pageTexts {
		doc.Pages = append(doc.Pages, core.Page{Number: i + 1, Text: text})
		chunks = append(chunks, &core.Chunk{
			Id:         core.ChunkID(docID, i+1, i),
			DocumentId: docID,
			Page:       i + 1,
			Ordinal:    i,
			Text:       text,
			Vector:     mock.DeterministicVector(text, 32),
		})
	}
	require.NoError(t, store.Put(context.Background(), doc, chunks))
	return doc
}

func TestCrossSummaryEmptySelection(t *testing.T) {
	store := newTestStore(t)
	syn := NewSynthesizer(store, store, stubEmbedder{}, mock.NewMockGenerator())

	_, err := syn.CrossSummary(context.Background(), "alice", nil)
	assert.ErrorIs(t, err, ErrEmptySelection)
}

func TestCrossSummaryForeignDocument(t *testing.T) {
	store := newTestStore(t)
	putDocument(t, store, "alice", "mine.txt", "my content")
	putDocument(t, store, "bob", "theirs.txt", "their content")

	generator := mock.NewMockGenerator()
	syn := NewSynthesizer(store, store, stubEmbedder{}, generator)

	// One foreign name fails the whole request.
	_, err := syn.CrossSummary(context.Background(), "alice", []string{"mine.txt", "theirs.txt"})
	assert.ErrorIs(t, err, core.ErrForbidden)
	assert.Zero(t, generator.CallCount())
}

func TestCrossSummaryMissingDocument(t *testing.T) {
	store := newTestStore(t)
	syn := NewSynthesizer(store, store, stubEmbedder{}, mock.NewMockGenerator())

	_, err := syn.CrossSummary(context.Background(), "alice", []string{"nope.txt"})
	assert.ErrorIs(t, err, core.ErrForbidden)
}

func TestCrossSummary(t *testing.T) {
	store := newTestStore(t)
	putDocument(t, store, "alice", "roadmap.txt", "the roadmap for next year")
	putDocument(t, store, "alice", "budget.txt", "the budget for next year")

	generator := mock.NewMockGenerator()
	var captured string
	generator.GenerateFunc = func(ctx context.Context, system, prompt string) (string, error) {
		captured = prompt
		return "  combined report  ", nil
	}
	syn := NewSynthesizer(store, store, stubEmbedder{}, generator)

	report, err := syn.CrossSummary(context.Background(), "alice", []string{"roadmap.txt", "budget.txt"})
	require.NoError(t, err)
	assert.Equal(t, "combined report", report)
	assert.Equal(t, 1, generator.CallCount())
	assert.Contains(t, captured, "## roadmap.txt")
	assert.Contains(t, captured, "## budget.txt")
	assert.Contains(t, captured, "the roadmap for next year")
	assert.Contains(t, captured, "the budget for next year")
}

func TestCrossSummarySingleDocumentCachesSummary(t *testing.T) {
	store := newTestStore(t)
	putDocument(t, store, "alice", "solo.txt", "the only document body")

	generator := mock.NewMockGenerator()
	generator.GenerateFunc = func(ctx context.Context, system, prompt string) (string, error) {
		return "solo summary", nil
	}
	syn := NewSynthesizer(store, store, stubEmbedder{}, generator)

	report, err := syn.CrossSummary(context.Background(), "alice", []string{"solo.txt"})
	require.NoError(t, err)
	assert.Equal(t, "solo summary", report)

	doc, err := store.Get(context.Background(), "alice", "solo.txt")
	require.NoError(t, err)
	assert.True(t, doc.Summary.Valid)
	assert.Equal(t, "solo summary", doc.Summary.Text)
}

func TestCrossSummaryGeneratorError(t *testing.T) {
	store := newTestStore(t)
	putDocument(t, store, "alice", "a.txt", "content")

	generator := mock.NewMockGenerator()
	generator.GenerateFunc = func(ctx context.Context, system, prompt string) (string, error) {
		return "", errors.New("model unavailable")
	}
	syn := NewSynthesizer(store, store, stubEmbedder{}, generator)

	_, err := syn.CrossSummary(context.Background(), "alice", []string{"a.txt"})
	assert.ErrorIs(t, err, ErrSummaryGeneration)
}

func TestPageSummaryMissingDocument(t *testing.T) {
	store := newTestStore(t)
	p := NewPageSummarizer(store, mock.NewMockGenerator())

	_, err := p.PageSummary(context.Background(), "alice", "absent.txt")
	assert.ErrorIs(t, err, core.ErrForbidden)
}

func TestPageSummaryOrdered(t *testing.T) {
	store := newTestStore(t)
	putDocument(t, store, "alice", "doc.txt", "first page text", "second page text", "third page text")

	generator := mock.NewMockGenerator()
	generator.GenerateFunc = func(ctx context.Context, system, prompt string) (string, error) {
		return "summary of " + prompt[:6], nil
	}
	p := NewPageSummarizer(store, generator, WithWorkers(2))

	result, err := p.PageSummary(context.Background(), "alice", "doc.txt")
	require.NoError(t, err)
	require.Len(t, result, 3)
	for i, ps := range result {
		assert.Equal(t, i+1, ps.Page)
		assert.NotEmpty(t, ps.Summary)
	}
}

func TestPageSummaryIdempotent(t *testing.T) {
	store := newTestStore(t)
	putDocument(t, store, "alice", "doc.txt", "first page text", "second page text")

	generator := mock.NewMockGenerator()
	p := NewPageSummarizer(store, generator)

	first, err := p.PageSummary(context.Background(), "alice", "doc.txt")
	require.NoError(t, err)
	assert.Equal(t, 2, generator.CallCount())

	// Cached pages are served without generation.
	second, err := p.PageSummary(context.Background(), "alice", "doc.txt")
	require.NoError(t, err)
	assert.Equal(t, 2, generator.CallCount())
	assert.Equal(t, first, second)
}

func TestPageSummarySkipsCachedPages(t *testing.T) {
	store := newTestStore(t)
	putDocument(t, store, "alice", "doc.txt", "first page text", "second page text")
	require.NoError(t, store.UpdatePageSummary(context.Background(), "alice", "doc.txt", 1,
		core.SummaryOf("precomputed summary")))

	generator := mock.NewMockGenerator()
	p := NewPageSummarizer(store, generator)

	result, err := p.PageSummary(context.Background(), "alice", "doc.txt")
	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, "precomputed summary", result[0].Summary)
	assert.Equal(t, 1, generator.CallCount())
}

func TestPageSummaryGeneratorError(t *testing.T) {
	store := newTestStore(t)
	putDocument(t, store, "alice", "doc.txt", "only page")

	generator := mock.NewMockGenerator()
	generator.GenerateFunc = func(ctx context.Context, system, prompt string) (string, error) {
		return "", errors.New("model unavailable")
	}
	p := NewPageSummarizer(store, generator)

	_, err := p.PageSummary(context.Background(), "alice", "doc.txt")
	assert.ErrorIs(t, err, ErrSummaryGeneration)
}
