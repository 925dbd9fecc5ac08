// Package header decodes the header record of a FieldTrip realtime buffer.
//
// A buffer server describes its acquisition with a fixed-layout header
// followed by a table of self-describing extension records ("chunks"). This
// package turns the raw bytes of such a record into a Header.
//
// # Record Format
//
// All fields are 4 bytes and use a single byte order (see DefaultByteOrder):
//
//	[Channels][Samples][Events][SampleRate][DataType][ChunkBytes][Chunk...]
//
// Fields:
//   - Channels: int32 number of channels, must not be negative
//   - Samples: int32 number of samples buffered when the header was read
//   - Events: int32 number of events buffered when the header was read
//   - SampleRate: IEEE-754 float32 sampling frequency in Hz
//   - DataType: int32 sample type code, passed through as DataType
//   - ChunkBytes: int32 combined length of all chunk records that follow
//
// Each chunk record is
//
//	[Kind(4)][Length(4)][Length bytes of payload]
//
// and the chunk lengths plus their 8 byte prefixes must add up to ChunkBytes.
//
// # Channel Names
//
// Only ChunkChannelNames is interpreted. Its payload is one zero-terminated
// name per channel packed back to back:
//
//	"Fp1\x00Fp2\x00\x00"  ->  ["Fp1", "Fp2", absent]
//
// An empty name leaves the channel without a label (a nil entry in
// Header.Labels). A payload that ends early leaves the remaining channels
// unlabeled, and bytes after the last expected terminator are ignored. All
// other chunk kinds are skipped.
//
// # Usage
//
//	h, err := header.Decode(buf)
//	if err != nil {
//	    var derr *header.DecodeError
//	    if errors.As(err, &derr) {
//	        log.Printf("bad header: %s", derr.Kind)
//	    }
//	    return err
//	}
//	for i := 0; i < h.Channels; i++ {
//	    if name, ok := h.Label(i); ok {
//	        fmt.Println(i, name)
//	    }
//	}
//
// A header is never returned together with an error. Errors match the
// ErrTruncatedFixedFields, ErrTruncatedChunk, ErrNegativeLength,
// ErrMalformedChunkTable and ErrInvalidArgument sentinels with errors.Is.
//
// # Thread Safety
//
// Decode is a pure function of its input. Decoder values are immutable and
// safe for concurrent use, and the input buffer is never retained.
package header
