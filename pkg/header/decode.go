package header

import (
	"encoding/binary"
	"math"
)

const (
	// FixedSize is the length of the fixed header prefix:
	// [Channels(4)][Samples(4)][Events(4)][SampleRate(4)][DataType(4)][ChunkBytes(4)]
	FixedSize = 24

	// chunkPrefixSize covers the kind and length fields of a chunk record
	chunkPrefixSize = 8
)

// DefaultByteOrder is the order the buffer server writes header records in.
// The server uses host order and acquisition hosts are little endian.
var DefaultByteOrder binary.ByteOrder = binary.LittleEndian

// Decoder decodes header records in a fixed byte order. A Decoder holds no
// mutable state and is safe for concurrent use.
type Decoder struct {
	order       binary.ByteOrder
	maxChannels int
}

// Option configures a Decoder
type Option func(*Decoder)

// WithMaxChannels rejects records declaring more than n channels before the
// label slice is allocated. Zero means no limit.
func WithMaxChannels(n int) Option {
	return func(d *Decoder) {
		d.maxChannels = n
	}
}

// NewDecoder creates a decoder for the given byte order. A nil order selects
// DefaultByteOrder.
func NewDecoder(order binary.ByteOrder, opts ...Option) *Decoder {
	if order == nil {
		order = DefaultByteOrder
	}
	d := &Decoder{order: order}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// ByteOrder returns the order the decoder reads fields in
func (d *Decoder) ByteOrder() binary.ByteOrder {
	return d.order
}

// Decode decodes buf with the DefaultByteOrder in effect at the time of the
// call
func Decode(buf []byte) (*Header, error) {
	d := Decoder{order: DefaultByteOrder}
	return d.Decode(buf)
}

// RecordLength returns the full length in bytes (fixed prefix plus chunk
// table) of the header record starting at prefix. Only the first FixedSize
// bytes of prefix are read.
func RecordLength(prefix []byte, order binary.ByteOrder) (int, error) {
	if order == nil {
		order = DefaultByteOrder
	}
	if len(prefix) < FixedSize {
		return 0, &DecodeError{Kind: TruncatedFixedFields, Value: int64(len(prefix))}
	}
	total := int32(order.Uint32(prefix[20:24]))
	if total < 0 {
		return 0, &DecodeError{Kind: NegativeLength, Field: "chunk table size", Offset: 20, Value: int64(total)}
	}
	return FixedSize + int(total), nil
}

// Decode reads one header record from the start of buf. Bytes past the end of
// the declared chunk table are ignored. buf is not retained.
func (d *Decoder) Decode(buf []byte) (*Header, error) {
	if len(buf) < FixedSize {
		return nil, &DecodeError{Kind: TruncatedFixedFields, Value: int64(len(buf))}
	}

	channels := d.int32At(buf, 0)
	if channels < 0 {
		return nil, &DecodeError{Kind: NegativeLength, Field: "channel count", Offset: 0, Value: int64(channels)}
	}
	if d.maxChannels > 0 && int(channels) > d.maxChannels {
		return nil, &DecodeError{Kind: TooManyChannels, Field: "channel count", Offset: 0, Value: int64(channels)}
	}

	h := &Header{
		Channels:   int(channels),
		Samples:    int(d.int32At(buf, 4)),
		Events:     int(d.int32At(buf, 8)),
		SampleRate: math.Float32frombits(d.order.Uint32(buf[12:16])),
		DataType:   DataType(d.int32At(buf, 16)),
		Labels:     make([]*string, channels),
	}

	remaining := int64(d.int32At(buf, 20))
	if remaining < 0 {
		return nil, &DecodeError{Kind: NegativeLength, Field: "chunk table size", Offset: 20, Value: remaining}
	}

	pos := FixedSize
	for remaining > 0 {
		if len(buf)-pos < chunkPrefixSize {
			return nil, &DecodeError{Kind: TruncatedChunk, Field: "prefix", Offset: pos, Value: chunkPrefixSize}
		}
		kind := ChunkKind(d.int32At(buf, pos))
		size := d.int32At(buf, pos+4)
		if size < 0 {
			return nil, &DecodeError{Kind: NegativeLength, Field: "chunk length", Offset: pos + 4, Value: int64(size)}
		}
		start := pos + chunkPrefixSize
		if int64(len(buf)-start) < int64(size) {
			return nil, &DecodeError{Kind: TruncatedChunk, Field: kind.String(), Offset: pos, Value: int64(size)}
		}
		payload := buf[start : start+int(size)]

		switch kind {
		case ChunkChannelNames:
			scanLabels(payload, h.Labels)
		default:
			// Other chunk kinds are carried for size accounting only.
		}

		remaining -= chunkPrefixSize + int64(size)
		if remaining < 0 {
			return nil, &DecodeError{Kind: MalformedChunkTable, Offset: pos, Value: -remaining}
		}
		pos = start + int(size)
	}

	return h, nil
}

func (d *Decoder) int32At(buf []byte, off int) int32 {
	return int32(d.order.Uint32(buf[off : off+4]))
}

// scanState is the label scanner's state between bytes
type scanState int

const (
	// at the start of the pool or just past a terminator
	scanIdle scanState = iota
	// inside a non-empty run of name bytes
	scanInsideLabel
)

// scanLabels fills labels from a pool of zero-terminated names packed back to
// back. An empty name leaves its slot nil. Scanning stops as soon as every
// slot has been visited; a short pool leaves the remaining slots nil.
func scanLabels(pool []byte, labels []*string) {
	next := 0
	state := scanIdle
	start := 0
	for pos := 0; pos < len(pool) && next < len(labels); pos++ {
		b := pool[pos]
		switch state {
		case scanIdle:
			if b == 0 {
				next++
				continue
			}
			state = scanInsideLabel
			start = pos
		case scanInsideLabel:
			if b != 0 {
				continue
			}
			name := string(pool[start:pos])
			labels[next] = &name
			next++
			state = scanIdle
		}
	}
}
