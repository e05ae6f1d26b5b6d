package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDocument() *Document {
	return &Document{
		Id:       DocumentID("u1", "a.txt"),
		Owner:    "u1",
		Filename: "a.txt",
		Category: "General",
		Pages: []Page{
			{Number: 1, Text: "first page"},
			{Number: 2, Text: "second page"},
		},
		CreatedAt: time.Now().UTC(),
	}
}

func TestValidateDocument(t *testing.T) {
	t.Run("valid document", func(t *testing.T) {
		require.NoError(t, ValidateDocument(validDocument()))
	})

	t.Run("nil document", func(t *testing.T) {
		err := ValidateDocument(nil)
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("empty owner", func(t *testing.T) {
		doc := validDocument()
		doc.Owner = ""
		assert.ErrorIs(t, ValidateDocument(doc), ErrEmptyOwner)
	})

	t.Run("empty filename", func(t *testing.T) {
		doc := validDocument()
		doc.Filename = ""
		assert.ErrorIs(t, ValidateDocument(doc), ErrEmptyFilename)
	})

	t.Run("empty category", func(t *testing.T) {
		doc := validDocument()
		doc.Category = ""
		assert.ErrorIs(t, ValidateDocument(doc), ErrEmptyCategory)
	})

	t.Run("non-contiguous pages", func(t *testing.T) {
		doc := validDocument()
		doc.Pages[1].Number = 3
		assert.ErrorIs(t, ValidateDocument(doc), ErrPageNumbering)
	})

	t.Run("zero-based pages rejected", func(t *testing.T) {
		doc := validDocument()
		doc.Pages = []Page{{Number: 0, Text: "page"}}
		assert.ErrorIs(t, ValidateDocument(doc), ErrPageNumbering)
	})

	t.Run("placeholder page set is valid", func(t *testing.T) {
		doc := validDocument()
		doc.Pages = []Page{{Number: 1, Text: ""}}
		assert.NoError(t, ValidateDocument(doc))
	})
}

func TestValidateChunks(t *testing.T) {
	docID := DocumentID("u1", "a.txt")

	makeChunks := func() []*Chunk {
		return []*Chunk{
			{Id: ChunkID(docID, 1, 0), DocumentId: docID, Page: 1, Ordinal: 0, Text: "one"},
			{Id: ChunkID(docID, 1, 1), DocumentId: docID, Page: 1, Ordinal: 1, Text: "two"},
			{Id: ChunkID(docID, 2, 2), DocumentId: docID, Page: 2, Ordinal: 2, Text: "three"},
		}
	}

	t.Run("valid chunks", func(t *testing.T) {
		require.NoError(t, ValidateChunks(docID, makeChunks()))
	})

	t.Run("empty chunk set is valid", func(t *testing.T) {
		assert.NoError(t, ValidateChunks(docID, nil))
	})

	t.Run("gap in ordinals", func(t *testing.T) {
		chunks := makeChunks()
		chunks[2].Ordinal = 5
		assert.ErrorIs(t, ValidateChunks(docID, chunks), ErrChunkOrdinals)
	})

	t.Run("foreign document", func(t *testing.T) {
		chunks := makeChunks()
		chunks[1].DocumentId = DocumentID("u2", "b.txt")
		assert.ErrorIs(t, ValidateChunks(docID, chunks), ErrValidation)
	})

	t.Run("invalid page reference", func(t *testing.T) {
		chunks := makeChunks()
		chunks[0].Page = 0
		assert.ErrorIs(t, ValidateChunks(docID, chunks), ErrValidation)
	})
}
