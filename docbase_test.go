package docbase

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/archiva-systems/docbase/ai"
	"github.com/archiva-systems/docbase/ai/mock"
	"github.com/archiva-systems/docbase/classify"
	"github.com/archiva-systems/docbase/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBase(t *testing.T, embedder *mock.MockEmbedder, generator *mock.MockGenerator) *Base {
	t.Helper()
	provider := mock.NewMockProviderWithServices(embedder, generator)
	base, err := New("", WithInMemory(), WithProvider(provider))
	require.NoError(t, err)
	t.Cleanup(func() { base.Close() })
	return base
}

func TestScopedSearchCitesCorrectPage(t *testing.T) {
	base := newTestBase(t, mock.NewMockEmbedder(), mock.NewMockGenerator())
	ctx := context.Background()

	pageOne := "the project kickoff happened in january"
	pageTwo := "the final delivery is scheduled for december"
	_, err := base.Ingest(ctx, "u1", "a.txt", []byte(pageOne+"\f"+pageTwo), "text/plain")
	require.NoError(t, err)

	// The query matches page two's content exactly, so its chunk ranks first.
	answer, err := base.Search(ctx, "u1", pageTwo, "a.txt")
	require.NoError(t, err)
	assert.Equal(t, "a.txt", answer.Citation.Filename)
	assert.Equal(t, 2, answer.Citation.Page)
}

func TestSearchWithNoDocuments(t *testing.T) {
	generator := mock.NewMockGenerator()
	base := newTestBase(t, mock.NewMockEmbedder(), generator)

	answer, err := base.Search(context.Background(), "u2", "anything", "")
	require.NoError(t, err)
	assert.NotEmpty(t, answer.Text)
	assert.Empty(t, answer.Citation.Filename)
	assert.Zero(t, answer.Citation.Page)
	assert.Zero(t, generator.CallCount())
}

func TestIngestSurvivesClassifierOutage(t *testing.T) {
	generator := mock.NewMockGenerator()
	generator.GenerateFunc = func(ctx context.Context, system, prompt string) (string, error) {
		return "", errors.New("classifier offline")
	}
	base := newTestBase(t, mock.NewMockEmbedder(), generator)
	ctx := context.Background()

	category, err := base.Ingest(ctx, "u3", "notes.txt", []byte("weekly meeting notes"), "text/plain")
	require.NoError(t, err)
	assert.Equal(t, classify.CategoryGeneral, category)

	docs, err := base.ListDocuments(ctx, "u3")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "notes.txt", docs[0].Filename)
	assert.Equal(t, classify.CategoryGeneral, docs[0].Category)
}

func TestRateLimitedSearchServesCachedAnswer(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	generator := mock.NewMockGenerator()
	rateLimited := false
	generator.GenerateFunc = func(ctx context.Context, system, prompt string) (string, error) {
		if rateLimited {
			return "", fmt.Errorf("%w: upstream 429", ai.ErrRateLimited)
		}
		return "the delivery is in december", nil
	}
	base := newTestBase(t, embedder, generator)
	ctx := context.Background()

	_, err := base.Ingest(ctx, "u4", "plan.txt", []byte("delivery scheduled for december"), "text/plain")
	require.NoError(t, err)

	first, err := base.Search(ctx, "u4", "delivery scheduled for december", "")
	require.NoError(t, err)
	assert.False(t, first.Stale)

	rateLimited = true
	second, err := base.Search(ctx, "u4", "delivery scheduled for december", "")
	require.NoError(t, err)
	assert.True(t, second.Stale)
	assert.Equal(t, first.Text, second.Text)
}

func TestOwnersSeeOnlyTheirDocuments(t *testing.T) {
	base := newTestBase(t, mock.NewMockEmbedder(), mock.NewMockGenerator())
	ctx := context.Background()

	_, err := base.Ingest(ctx, "alice", "alice.txt", []byte("alice confidential material"), "text/plain")
	require.NoError(t, err)
	_, err = base.Ingest(ctx, "bob", "bob.txt", []byte("bob confidential material"), "text/plain")
	require.NoError(t, err)

	docs, err := base.ListDocuments(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "alice.txt", docs[0].Filename)

	// Searching with the other owner's exact text still yields nothing.
	answer, err := base.Search(ctx, "alice", "bob confidential material", "")
	require.NoError(t, err)
	assert.Empty(t, answer.Citation.Filename)
}

func TestCrossSummaryOverOwnedDocuments(t *testing.T) {
	generator := mock.NewMockGenerator()
	generator.Responses = map[string]string{"first.txt": "joint report"}
	base := newTestBase(t, mock.NewMockEmbedder(), generator)
	ctx := context.Background()

	_, err := base.Ingest(ctx, "u5", "first.txt", []byte("first document body"), "text/plain")
	require.NoError(t, err)
	_, err = base.Ingest(ctx, "u5", "second.txt", []byte("second document body"), "text/plain")
	require.NoError(t, err)

	report, err := base.CrossSummary(ctx, "u5", []string{"first.txt", "second.txt"})
	require.NoError(t, err)
	assert.Equal(t, "joint report", report)

	_, err = base.CrossSummary(ctx, "u5", []string{"first.txt", "not-mine.txt"})
	assert.ErrorIs(t, err, core.ErrForbidden)
}

func TestPageSummaryRoundTrip(t *testing.T) {
	generator := mock.NewMockGenerator()
	base := newTestBase(t, mock.NewMockEmbedder(), generator)
	ctx := context.Background()

	_, err := base.Ingest(ctx, "u6", "doc.txt", []byte("page one body\fpage two body"), "text/plain")
	require.NoError(t, err)

	summaries, err := base.PageSummary(ctx, "u6", "doc.txt")
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, 1, summaries[0].Page)
	assert.Equal(t, 2, summaries[1].Page)

	callsAfterFirst := generator.CallCount()
	again, err := base.PageSummary(ctx, "u6", "doc.txt")
	require.NoError(t, err)
	assert.Equal(t, summaries, again)
	assert.Equal(t, callsAfterFirst, generator.CallCount())
}
