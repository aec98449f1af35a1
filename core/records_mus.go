// Copyright 2025 Outfield Systems
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


package core

import (
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
)

// MUS serializers for persisted core types, written in the manual
// combinator style from the mus-go documentation. Field order is part of
// the stored format; changing it breaks existing databases.

var (
	// IDMUS serializes record identifiers.
	IDMUS = idMUS{}
	// RecordMUS serializes Record values.
	RecordMUS = recordMUS{}

	tagsMUS     = ord.NewSliceSer[string](ord.String)
	vectorMUS   = ord.NewSliceSer[float32](varint.Float32)
	metadataMUS = ord.NewMapSer[string, string](ord.String, ord.String)
)

type idMUS struct{}

func (idMUS) Marshal(id ID, bs []byte) (n int) {
	return ord.String.Marshal(string(id), bs)
}

func (idMUS) Unmarshal(bs []byte) (id ID, n int, err error) {
	s, n, err := ord.String.Unmarshal(bs)
	return ID(s), n, err
}

func (idMUS) Size(id ID) (size int) {
	return ord.String.Size(string(id))
}

func (idMUS) Skip(bs []byte) (n int, err error) {
	return ord.String.Skip(bs)
}

type recordMUS struct{}

func (recordMUS) Marshal(r Record, bs []byte) (n int) {
	n = IDMUS.Marshal(r.ID, bs)
	n += ord.String.Marshal(r.Content, bs[n:])
	n += ord.String.Marshal(r.Title, bs[n:])
	n += ord.String.Marshal(r.Category, bs[n:])
	n += tagsMUS.Marshal(r.Tags, bs[n:])
	n += vectorMUS.Marshal(r.Vector, bs[n:])
	n += varint.Int64.Marshal(r.CreatedAt.UnixMicro(), bs[n:])
	n += varint.Int64.Marshal(r.UpdatedAt.UnixMicro(), bs[n:])
	n += metadataMUS.Marshal(r.Metadata, bs[n:])
	return n
}

func (recordMUS) Unmarshal(bs []byte) (r Record, n int, err error) {
	var n1 int
	r.ID, n, err = IDMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	r.Content, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	r.Title, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	r.Category, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	r.Tags, n1, err = tagsMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	r.Vector, n1, err = vectorMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	var createdAt int64
	createdAt, n1, err = varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	r.CreatedAt = time.UnixMicro(createdAt).UTC()
	var updatedAt int64
	updatedAt, n1, err = varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	r.UpdatedAt = time.UnixMicro(updatedAt).UTC()
	r.Metadata, n1, err = metadataMUS.Unmarshal(bs[n:])
	n += n1
	return
}

func (recordMUS) Size(r Record) (size int) {
	size = IDMUS.Size(r.ID)
	size += ord.String.Size(r.Content)
	size += ord.String.Size(r.Title)
	size += ord.String.Size(r.Category)
	size += tagsMUS.Size(r.Tags)
	size += vectorMUS.Size(r.Vector)
	size += varint.Int64.Size(r.CreatedAt.UnixMicro())
	size += varint.Int64.Size(r.UpdatedAt.UnixMicro())
	size += metadataMUS.Size(r.Metadata)
	return size
}
