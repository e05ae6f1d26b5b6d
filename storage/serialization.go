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


package storage

import (
	"time"

	"github.com/archiva-systems/docbase/core"
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

// Hand-written MUS serializers for the persisted record set. The schema is
// small and stable, so explicit serializers are used instead of generated
// code. Timestamps are stored as Unix microseconds.

// idSer serializes core.ID as a varint uint64.
type idSer struct{}

func (idSer) Marshal(id core.ID, bs []byte) int {
	return varint.Uint64.Marshal(uint64(id), bs)
}

func (idSer) Unmarshal(bs []byte) (core.ID, int, error) {
	v, n, err := varint.Uint64.Unmarshal(bs)
	return core.ID(v), n, err
}

func (idSer) Size(id core.ID) int {
	return varint.Uint64.Size(uint64(id))
}

func (idSer) Skip(bs []byte) (int, error) {
	return varint.Uint64.Skip(bs)
}

// IDMUS serializes core.ID values.
var IDMUS = idSer{}

// summarySer serializes the tagged optional core.Summary.
type summarySer struct{}

func (summarySer) Marshal(s core.Summary, bs []byte) (n int) {
	n = ord.Bool.Marshal(s.Valid, bs)
	n += ord.String.Marshal(s.Text, bs[n:])
	return
}

func (summarySer) Unmarshal(bs []byte) (s core.Summary, n int, err error) {
	s.Valid, n, err = ord.Bool.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	s.Text, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	return
}

func (summarySer) Size(s core.Summary) int {
	return ord.Bool.Size(s.Valid) + ord.String.Size(s.Text)
}

func (summarySer) Skip(bs []byte) (n int, err error) {
	n, err = ord.Bool.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	return
}

// SummaryMUS serializes core.Summary values.
var SummaryMUS = summarySer{}

// pageSer serializes core.Page.
type pageSer struct{}

func (pageSer) Marshal(p core.Page, bs []byte) (n int) {
	n = varint.Int.Marshal(p.Number, bs)
	n += ord.String.Marshal(p.Text, bs[n:])
	n += SummaryMUS.Marshal(p.Summary, bs[n:])
	return
}

func (pageSer) Unmarshal(bs []byte) (p core.Page, n int, err error) {
	var n1 int
	p.Number, n, err = varint.Int.Unmarshal(bs)
	if err != nil {
		return
	}
	p.Text, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	p.Summary, n1, err = SummaryMUS.Unmarshal(bs[n:])
	n += n1
	return
}

func (pageSer) Size(p core.Page) int {
	return varint.Int.Size(p.Number) + ord.String.Size(p.Text) + SummaryMUS.Size(p.Summary)
}

func (pageSer) Skip(bs []byte) (n int, err error) {
	var n1 int
	n, err = varint.Int.Skip(bs)
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = SummaryMUS.Skip(bs[n:])
	n += n1
	return
}

// PageMUS serializes core.Page values.
var PageMUS = pageSer{}

var (
	pageSliceMUS    = ord.NewSliceSer[core.Page](PageMUS)
	idSliceMUS      = ord.NewSliceSer[core.ID](IDMUS)
	float32SliceMUS = ord.NewSliceSer[float32](raw.Float32)
)

// documentSer serializes core.Document.
type documentSer struct{}

func (documentSer) Marshal(d core.Document, bs []byte) (n int) {
	n = IDMUS.Marshal(d.Id, bs)
	n += ord.String.Marshal(string(d.Owner), bs[n:])
	n += ord.String.Marshal(d.Filename, bs[n:])
	n += ord.String.Marshal(d.Category, bs[n:])
	n += pageSliceMUS.Marshal(d.Pages, bs[n:])
	n += varint.Int.Marshal(d.Version, bs[n:])
	n += raw.Int64.Marshal(d.CreatedAt.UnixMicro(), bs[n:])
	n += SummaryMUS.Marshal(d.Summary, bs[n:])
	n += idSliceMUS.Marshal(d.ChunkIds, bs[n:])
	return
}

func (documentSer) Unmarshal(bs []byte) (d core.Document, n int, err error) {
	var n1 int
	d.Id, n, err = IDMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	var owner string
	owner, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	d.Owner = core.OwnerID(owner)
	d.Filename, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	d.Category, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	d.Pages, n1, err = pageSliceMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	d.Version, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	var createdAt int64
	createdAt, n1, err = raw.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	d.CreatedAt = time.UnixMicro(createdAt).UTC()
	d.Summary, n1, err = SummaryMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	d.ChunkIds, n1, err = idSliceMUS.Unmarshal(bs[n:])
	n += n1
	return
}

func (documentSer) Size(d core.Document) int {
	return IDMUS.Size(d.Id) +
		ord.String.Size(string(d.Owner)) +
		ord.String.Size(d.Filename) +
		ord.String.Size(d.Category) +
		pageSliceMUS.Size(d.Pages) +
		varint.Int.Size(d.Version) +
		raw.Int64.Size(d.CreatedAt.UnixMicro()) +
		SummaryMUS.Size(d.Summary) +
		idSliceMUS.Size(d.ChunkIds)
}

func (s documentSer) Skip(bs []byte) (n int, err error) {
	_, n, err = s.Unmarshal(bs)
	return
}

// DocumentMUS serializes core.Document values.
var DocumentMUS = documentSer{}

// chunkSer serializes core.Chunk.
type chunkSer struct{}

func (chunkSer) Marshal(c core.Chunk, bs []byte) (n int) {
	n = IDMUS.Marshal(c.Id, bs)
	n += IDMUS.Marshal(c.DocumentId, bs[n:])
	n += varint.Int.Marshal(c.Page, bs[n:])
	n += varint.Int.Marshal(c.Ordinal, bs[n:])
	n += ord.String.Marshal(c.Text, bs[n:])
	n += float32SliceMUS.Marshal(c.Vector, bs[n:])
	return
}

func (chunkSer) Unmarshal(bs []byte) (c core.Chunk, n int, err error) {
	var n1 int
	c.Id, n, err = IDMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	c.DocumentId, n1, err = IDMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	c.Page, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	c.Ordinal, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	c.Text, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	c.Vector, n1, err = float32SliceMUS.Unmarshal(bs[n:])
	n += n1
	return
}

func (chunkSer) Size(c core.Chunk) int {
	return IDMUS.Size(c.Id) +
		IDMUS.Size(c.DocumentId) +
		varint.Int.Size(c.Page) +
		varint.Int.Size(c.Ordinal) +
		ord.String.Size(c.Text) +
		float32SliceMUS.Size(c.Vector)
}

func (s chunkSer) Skip(bs []byte) (n int, err error) {
	_, n, err = s.Unmarshal(bs)
	return
}

// ChunkMUS serializes core.Chunk values.
var ChunkMUS = chunkSer{}

// vectorEntrySer serializes core.VectorEntry.
type vectorEntrySer struct{}

func (vectorEntrySer) Marshal(e core.VectorEntry, bs []byte) (n int) {
	n = IDMUS.Marshal(e.ChunkId, bs)
	n += IDMUS.Marshal(e.DocumentId, bs[n:])
	n += ord.String.Marshal(string(e.Owner), bs[n:])
	n += float32SliceMUS.Marshal(e.Vector, bs[n:])
	return
}

func (vectorEntrySer) Unmarshal(bs []byte) (e core.VectorEntry, n int, err error) {
	var n1 int
	e.ChunkId, n, err = IDMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	e.DocumentId, n1, err = IDMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	var owner string
	owner, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	e.Owner = core.OwnerID(owner)
	e.Vector, n1, err = float32SliceMUS.Unmarshal(bs[n:])
	n += n1
	return
}

func (vectorEntrySer) Size(e core.VectorEntry) int {
	return IDMUS.Size(e.ChunkId) +
		IDMUS.Size(e.DocumentId) +
		ord.String.Size(string(e.Owner)) +
		float32SliceMUS.Size(e.Vector)
}

func (s vectorEntrySer) Skip(bs []byte) (n int, err error) {
	_, n, err = s.Unmarshal(bs)
	return
}

// VectorEntryMUS serializes core.VectorEntry values.
var VectorEntryMUS = vectorEntrySer{}

// MarshalDocument serializes a Document to bytes.
func MarshalDocument(doc *core.Document) []byte {
	buf := make([]byte, DocumentMUS.Size(*doc))
	DocumentMUS.Marshal(*doc, buf)
	return buf
}

// UnmarshalDocument deserializes a Document from bytes.
func UnmarshalDocument(data []byte) (*core.Document, error) {
	doc, _, err := DocumentMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// MarshalChunk serializes a Chunk to bytes.
func MarshalChunk(chunk *core.Chunk) []byte {
	buf := make([]byte, ChunkMUS.Size(*chunk))
	ChunkMUS.Marshal(*chunk, buf)
	return buf
}

// UnmarshalChunk deserializes a Chunk from bytes.
func UnmarshalChunk(data []byte) (*core.Chunk, error) {
	chunk, _, err := ChunkMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &chunk, nil
}

// MarshalVectorEntry serializes a VectorEntry to bytes.
func MarshalVectorEntry(entry *core.VectorEntry) []byte {
	buf := make([]byte, VectorEntryMUS.Size(*entry))
	VectorEntryMUS.Marshal(*entry, buf)
	return buf
}

// UnmarshalVectorEntry deserializes a VectorEntry from bytes.
func UnmarshalVectorEntry(data []byte) (*core.VectorEntry, error) {
	entry, _, err := VectorEntryMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}
