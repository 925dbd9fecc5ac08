// Package headertest builds raw header records for tests.
package headertest

import (
	"bytes"
	"encoding/binary"
	"math"
)

// Chunk is one extension record. Length overrides the declared payload
// length when non-nil, which lets tests describe truncated chunks.
type Chunk struct {
	Kind    int32
	Payload []byte
	Length  *int32
}

// Record describes a raw header record field by field.
type Record struct {
	Order      binary.ByteOrder
	Channels   int32
	Samples    int32
	Events     int32
	SampleRate float32
	DataType   int32
	Chunks     []Chunk
	// ChunkBytes overrides the computed chunk table size when non-nil
	ChunkBytes *int32
}

// Int32 returns a pointer to v, for the override fields
func Int32(v int32) *int32 {
	return &v
}

// Names packs names into a channel-names payload
func Names(names ...string) []byte {
	var buf bytes.Buffer
	for _, n := range names {
		buf.WriteString(n)
		buf.WriteByte(0)
	}
	return buf.Bytes()
}

// Bytes lays the record out in wire format
func (r Record) Bytes() []byte {
	order := r.Order
	if order == nil {
		order = binary.LittleEndian
	}

	put := func(b []byte, v uint32) []byte {
		var tmp [4]byte
		order.PutUint32(tmp[:], v)
		return append(b, tmp[:]...)
	}

	var table []byte
	for _, c := range r.Chunks {
		length := int32(len(c.Payload))
		if c.Length != nil {
			length = *c.Length
		}
		table = put(table, uint32(c.Kind))
		table = put(table, uint32(length))
		table = append(table, c.Payload...)
	}

	total := int32(len(table))
	if r.ChunkBytes != nil {
		total = *r.ChunkBytes
	}

	buf := make([]byte, 0, 24+len(table))
	buf = put(buf, uint32(r.Channels))
	buf = put(buf, uint32(r.Samples))
	buf = put(buf, uint32(r.Events))
	buf = put(buf, math.Float32bits(r.SampleRate))
	buf = put(buf, uint32(r.DataType))
	buf = put(buf, uint32(total))
	return append(buf, table...)
}

// EEG returns a small well-formed record with labelled channels.
func EEG(names ...string) []byte {
	return Record{
		Channels:   int32(len(names)),
		Samples:    1024,
		Events:     3,
		SampleRate: 256,
		DataType:   9,
		Chunks: []Chunk{
			{Kind: 1, Payload: Names(names...)},
		},
	}.Bytes()
}
