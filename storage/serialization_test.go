package storage

import (
	"testing"
	"time"

	"github.com/archiva-systems/docbase/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalUnmarshalDocument(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)
	docID := core.DocumentID("u1", "a.txt")

	doc := &core.Document{
		Id:       docID,
		Owner:    "u1",
		Filename: "a.txt",
		Category: "General",
		Pages: []core.Page{
			{Number: 1, Text: "first page", Summary: core.SummaryOf("summary one")},
			{Number: 2, Text: "second page"},
		},
		Version:   3,
		CreatedAt: now,
		Summary:   core.Summary{},
		ChunkIds:  []core.ID{core.ChunkID(docID, 1, 0), core.ChunkID(docID, 2, 1)},
	}

	decoded, err := UnmarshalDocument(MarshalDocument(doc))
	require.NoError(t, err)
	assert.Equal(t, doc, decoded)

	// Tagged optional survives the roundtrip: page 2 stays unsummarized.
	assert.True(t, decoded.Pages[0].Summary.Valid)
	assert.False(t, decoded.Pages[1].Summary.Valid)
	assert.False(t, decoded.Summary.Valid)
}

func TestMarshalUnmarshalChunk(t *testing.T) {
	docID := core.DocumentID("u1", "a.txt")
	chunk := &core.Chunk{
		Id:         core.ChunkID(docID, 1, 0),
		DocumentId: docID,
		Page:       1,
		Ordinal:    0,
		Text:       "chunk text with unicode: héllö",
		Vector:     []float32{0.25, -1.5, 3.0},
	}

	decoded, err := UnmarshalChunk(MarshalChunk(chunk))
	require.NoError(t, err)
	assert.Equal(t, chunk, decoded)
}

func TestMarshalUnmarshalVectorEntry(t *testing.T) {
	docID := core.DocumentID("u1", "a.txt")
	entry := &core.VectorEntry{
		ChunkId:    core.ChunkID(docID, 1, 0),
		DocumentId: docID,
		Owner:      "u1",
		Vector:     []float32{1, 0, 0, 0},
	}

	decoded, err := UnmarshalVectorEntry(MarshalVectorEntry(entry))
	require.NoError(t, err)
	assert.Equal(t, entry, decoded)
}

func TestUnmarshalInvalidData(t *testing.T) {
	_, err := UnmarshalDocument([]byte{})
	assert.Error(t, err)

	_, err = UnmarshalChunk([]byte{0xff})
	assert.Error(t, err)

	_, err = UnmarshalVectorEntry(nil)
	assert.Error(t, err)
}
