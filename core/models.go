package core

import (
	"encoding/binary"
	"strconv"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities, derived from content hashing.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// Identical content always produces the identical ID.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// OwnerID identifies the principal that owns a document. It is resolved by an
// external authentication layer and treated as opaque inside the engine.
type OwnerID string

// DocumentID derives the ID of a document from its owner and filename.
// Re-uploading the same filename by the same owner yields the same ID,
// which is how versioned overwrite is keyed.
func DocumentID(owner OwnerID, filename string) ID {
	return IDFromContent(string(owner) + "/" + filename)
}

// ChunkID derives the ID of a chunk from its document, page and ordinal.
func ChunkID(docID ID, page, ordinal int) ID {
	return IDFromContent(strconv.FormatUint(uint64(docID), 16) +
		":" + strconv.Itoa(page) + ":" + strconv.Itoa(ordinal))
}

// User is an account that owns documents. Credential handling lives outside
// the engine; the hash is carried here only so the record set is complete.
type User struct {
	Id           ID
	Username     string
	PasswordHash string
	Email        string
}

// Summary is a tagged optional summary text. Valid=false means the summary
// has not been computed yet, which is distinct from an empty summary.
type Summary struct {
	Valid bool
	Text  string
}

// SummaryOf returns a valid Summary holding text.
func SummaryOf(text string) Summary {
	return Summary{Valid: true, Text: text}
}

// Page is one extracted page of a document. Numbers are 1-based and
// contiguous within a document.
type Page struct {
	Number  int
	Text    string
	Summary Summary // per-page summary, computed lazily
}

// Document is an ingested file owned by exactly one user.
// Documents are immutable after ingestion except for cached summaries;
// re-uploading the same filename produces a new Version.
type Document struct {
	Id        ID
	Owner     OwnerID
	Filename  string
	Category  string
	Pages     []Page
	Version   int
	CreatedAt time.Time
	Summary   Summary // top-level summary, computed lazily

	// ChunkIds references this document's chunks in ingestion order. The
	// store uses them to keep the vector index in sync on overwrite.
	ChunkIds []ID
}

// Chunk is a bounded text span from one page, the unit of embedding and
// retrieval. Ordinals are dense and monotonic per document.
type Chunk struct {
	Id         ID
	DocumentId ID
	Page       int
	Ordinal    int
	Text       string
	Vector     []float32
}

// VectorEntry maps an indexed vector to its chunk and owner. Owner is
// denormalized so searches can filter without loading documents.
type VectorEntry struct {
	ChunkId    ID
	DocumentId ID
	Owner      OwnerID
	Vector     []float32
}

// ScoredChunk is a chunk returned from similarity search with its score and
// the filename of the document it came from.
type ScoredChunk struct {
	Chunk    *Chunk
	Filename string
	Score    float32
}

// Citation names the retrieved source an answer is grounded on. It is always
// constructed from retrieval metadata, never from generated text.
type Citation struct {
	Filename string
	Page     int
}

// Answer is the result of a retrieval-augmented query.
type Answer struct {
	Text     string
	Citation Citation
	Stale    bool // true when served from the resilience cache
}

// PageSummary pairs a page number with its summary text.
type PageSummary struct {
	Page    int
	Summary string
}

// DocumentInfo is the listing view of a document.
type DocumentInfo struct {
	Filename string
	Category string
	Summary  Summary
}
