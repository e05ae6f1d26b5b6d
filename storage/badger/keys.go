package badger

import (
	"encoding/binary"

	"github.com/archiva-systems/docbase/core"
)

// Key prefixes for different data types
const (
	documentRecordPrefix = "docrec"
	documentListPrefix   = "docls"
	chunkRecordPrefix    = "chkrec"
	vectorEntryPrefix    = "vecent"
)

// appendID writes an ID in BigEndian order so lexicographic sort works correctly.
func appendID(buf []byte, id core.ID) []byte {
	var idBytes [8]byte
	binary.BigEndian.PutUint64(idBytes[:], uint64(id))
	return append(buf, idBytes[:]...)
}

// idFromBytes reads an ID back from its BigEndian key encoding.
func idFromBytes(buf []byte) core.ID {
	return core.ID(binary.BigEndian.Uint64(buf))
}

// makeDocumentKey generates the primary key for a document record.
// Format: prefix:docID
func makeDocumentKey(docID core.ID) []byte {
	buf := make([]byte, 0, len(documentRecordPrefix)+9)
	buf = append(buf, documentRecordPrefix...)
	buf = append(buf, ':')
	return appendID(buf, docID)
}

// makeDocumentListKey generates the per-owner listing index key.
// Format: prefix:owner:filename (filenames sort lexicographically per owner)
func makeDocumentListKey(owner core.OwnerID, filename string) []byte {
	buf := make([]byte, 0, len(documentListPrefix)+len(owner)+len(filename)+2)
	buf = append(buf, documentListPrefix...)
	buf = append(buf, ':')
	buf = append(buf, owner...)
	buf = append(buf, ':')
	return append(buf, filename...)
}

// makeDocumentListPrefix generates the iteration prefix for one owner's listing.
func makeDocumentListPrefix(owner core.OwnerID) []byte {
	buf := make([]byte, 0, len(documentListPrefix)+len(owner)+2)
	buf = append(buf, documentListPrefix...)
	buf = append(buf, ':')
	buf = append(buf, owner...)
	return append(buf, ':')
}

// makeChunkKey generates the key for a chunk record.
// Format: prefix:chunkID
func makeChunkKey(chunkID core.ID) []byte {
	buf := make([]byte, 0, len(chunkRecordPrefix)+9)
	buf = append(buf, chunkRecordPrefix...)
	buf = append(buf, ':')
	return appendID(buf, chunkID)
}

// makeVectorEntryKey generates the key for a vector index entry.
// Format: prefix:owner:chunkID. The owner segment narrows scans to one
// owner's entries; readers still re-check the decoded Owner field because
// an owner id can be a prefix of another owner id.
func makeVectorEntryKey(owner core.OwnerID, chunkID core.ID) []byte {
	buf := make([]byte, 0, len(vectorEntryPrefix)+len(owner)+10)
	buf = append(buf, vectorEntryPrefix...)
	buf = append(buf, ':')
	buf = append(buf, owner...)
	buf = append(buf, ':')
	return appendID(buf, chunkID)
}

// makeVectorEntryPrefix generates the iteration prefix for one owner's entries.
func makeVectorEntryPrefix(owner core.OwnerID) []byte {
	buf := make([]byte, 0, len(vectorEntryPrefix)+len(owner)+2)
	buf = append(buf, vectorEntryPrefix...)
	buf = append(buf, ':')
	buf = append(buf, owner...)
	return append(buf, ':')
}
