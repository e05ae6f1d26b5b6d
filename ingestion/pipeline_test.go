package ingestion

import (
	"context"
	"errors"
	"testing"

	"github.com/archiva-systems/docbase/ai/mock"
	"github.com/archiva-systems/docbase/classify"
	"github.com/archiva-systems/docbase/core"
	"github.com/archiva-systems/docbase/embedding"
	"github.com/archiva-systems/docbase/storage"
	badgerstore "github.com/archiva-systems/docbase/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *badgerstore.Store {
	t.Helper()
	store, err := badgerstore.NewMemoryStore()
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func newTestPipeline(t *testing.T, store storage.DocumentStore, embedder *mock.MockEmbedder, generator *mock.MockGenerator) *Pipeline {
	t.Helper()
	gateway, err := embedding.NewGateway(embedder, embedding.WithMaxAttempts(1))
	require.NoError(t, err)
	t.Cleanup(gateway.Close)
	return NewPipeline(store, gateway, classify.New(generator))
}

func TestPlainTextExtract(t *testing.T) {
	t.Run("single page", func(t *testing.T) {
		pages, err := PlainText{}.Extract([]byte("hello world"), "text/plain")
		require.NoError(t, err)
		assert.Equal(t, []string{"hello world"}, pages)
	})

	t.Run("form feed splits pages", func(t *testing.T) {
		pages, err := PlainText{}.Extract([]byte("page one\fpage two\fpage three"), "text/plain")
		require.NoError(t, err)
		assert.Equal(t, []string{"page one", "page two", "page three"}, pages)
	})

	t.Run("empty input", func(t *testing.T) {
		_, err := PlainText{}.Extract(nil, "text/plain")
		assert.ErrorIs(t, err, ErrEmptyInput)
	})

	t.Run("binary media type rejected", func(t *testing.T) {
		_, err := PlainText{}.Extract([]byte{0x89, 0x50}, "image/png")
		assert.Error(t, err)
	})

	t.Run("invalid utf8 replaced", func(t *testing.T) {
		pages, err := PlainText{}.Extract([]byte{'o', 'k', 0xff, '!'}, "text/plain")
		require.NoError(t, err)
		require.Len(t, pages, 1)
		assert.Contains(t, pages[0], "ok")
	})
}

func TestIngest(t *testing.T) {
	store := newTestStore(t)
	pipeline := newTestPipeline(t, store, mock.NewMockEmbedder(), mock.NewMockGenerator())

	category, err := pipeline.Ingest(context.Background(), "alice", "notes.txt",
		[]byte("meeting notes from tuesday\faction items from wednesday"), "text/plain")
	require.NoError(t, err)
	assert.NotEmpty(t, category)

	doc, err := store.Get(context.Background(), "alice", "notes.txt")
	require.NoError(t, err)
	assert.Len(t, doc.Pages, 2)
	assert.Equal(t, category, doc.Category)
	assert.NotEmpty(t, doc.ChunkIds)

	chunks, err := store.GetChunks(context.Background(), doc.ChunkIds...)
	require.NoError(t, err)
	require.NotEmpty(t, chunks)
	for _, chunk := range chunks {
		assert.NotEmpty(t, chunk.Vector)
	}
}

func TestIngestValidation(t *testing.T) {
	store := newTestStore(t)
	pipeline := newTestPipeline(t, store, mock.NewMockEmbedder(), mock.NewMockGenerator())
	ctx := context.Background()

	_, err := pipeline.Ingest(ctx, "", "notes.txt", []byte("text"), "text/plain")
	assert.ErrorIs(t, err, core.ErrValidation)

	_, err = pipeline.Ingest(ctx, "alice", "", []byte("text"), "text/plain")
	assert.ErrorIs(t, err, core.ErrValidation)

	_, err = pipeline.Ingest(ctx, "alice", "notes.txt", nil, "text/plain")
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestIngestExtractionFailureStoresPlaceholder(t *testing.T) {
	store := newTestStore(t)
	pipeline := newTestPipeline(t, store, mock.NewMockEmbedder(), mock.NewMockGenerator())

	category, err := pipeline.Ingest(context.Background(), "alice", "photo.png",
		[]byte{0x89, 0x50, 0x4e, 0x47}, "image/png")
	require.NoError(t, err)
	assert.NotEmpty(t, category)

	doc, err := store.Get(context.Background(), "alice", "photo.png")
	require.NoError(t, err)
	require.Len(t, doc.Pages, 1)
	assert.Equal(t, placeholderPage, doc.Pages[0].Text)
}

func TestIngestClassificationFallback(t *testing.T) {
	store := newTestStore(t)
	generator := mock.NewMockGenerator()
	generator.GenerateFunc = func(ctx context.Context, system, prompt string) (string, error) {
		return "", errors.New("model unavailable")
	}
	pipeline := newTestPipeline(t, store, mock.NewMockEmbedder(), generator)

	category, err := pipeline.Ingest(context.Background(), "alice", "notes.txt",
		[]byte("plain meeting notes"), "text/plain")
	require.NoError(t, err)
	assert.Equal(t, classify.CategoryGeneral, category)

	// Document remains retrievable despite the failed classifier.
	_, err = store.Get(context.Background(), "alice", "notes.txt")
	require.NoError(t, err)
}

func TestIngestEmbeddingFailureLeavesNothing(t *testing.T) {
	store := newTestStore(t)
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return nil, errors.New("embedder down")
	}
	pipeline := newTestPipeline(t, store, embedder, mock.NewMockGenerator())
	ctx := context.Background()

	_, err := pipeline.Ingest(ctx, "alice", "notes.txt", []byte("some text"), "text/plain")
	assert.ErrorIs(t, err, ErrEmbedding)

	_, err = store.Get(ctx, "alice", "notes.txt")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	docID := core.DocumentID("alice", "notes.txt")
	chunks, err := store.GetChunks(ctx, core.ChunkID(docID, 1, 0))
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestIngestOverwriteBumpsVersion(t *testing.T) {
	store := newTestStore(t)
	pipeline := newTestPipeline(t, store, mock.NewMockEmbedder(), mock.NewMockGenerator())
	ctx := context.Background()

	_, err := pipeline.Ingest(ctx, "alice", "notes.txt", []byte("first draft"), "text/plain")
	require.NoError(t, err)
	_, err = pipeline.Ingest(ctx, "alice", "notes.txt", []byte("second draft"), "text/plain")
	require.NoError(t, err)

	doc, err := store.Get(ctx, "alice", "notes.txt")
	require.NoError(t, err)
	assert.Equal(t, 2, doc.Version)
	assert.Equal(t, "second draft", doc.Pages[0].Text)
}

func TestClassifySample(t *testing.T) {
	long := make([]rune, 3000)
	for i := range long {
		long[i] = 'x'
	}
	sample := classifySample([]string{string(long)})
	assert.Len(t, []rune(sample), classifySampleRunes)

	assert.Equal(t, "a\nb", classifySample([]string{"a", "b"}))
}
