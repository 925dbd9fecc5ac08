package header

import "fmt"

// ErrorKind classifies why a header record could not be decoded
type ErrorKind int

const (
	TruncatedFixedFields ErrorKind = iota + 1
	TruncatedChunk
	NegativeLength
	MalformedChunkTable
	InvalidArgument
	TooManyChannels
)

func (k ErrorKind) String() string {
	switch k {
	case TruncatedFixedFields:
		return "truncated_fixed_fields"
	case TruncatedChunk:
		return "truncated_chunk"
	case NegativeLength:
		return "negative_length"
	case MalformedChunkTable:
		return "malformed_chunk_table"
	case InvalidArgument:
		return "invalid_argument"
	case TooManyChannels:
		return "too_many_channels"
	default:
		return "unknown"
	}
}

// Sentinels for errors.Is. A *DecodeError matches the sentinel of its kind.
var (
	ErrTruncatedFixedFields = &DecodeError{Kind: TruncatedFixedFields}
	ErrTruncatedChunk       = &DecodeError{Kind: TruncatedChunk}
	ErrNegativeLength       = &DecodeError{Kind: NegativeLength}
	ErrMalformedChunkTable  = &DecodeError{Kind: MalformedChunkTable}
	ErrInvalidArgument      = &DecodeError{Kind: InvalidArgument}
	ErrTooManyChannels      = &DecodeError{Kind: TooManyChannels}
)

// DecodeError reports a malformed header record or an invalid argument
type DecodeError struct {
	Kind   ErrorKind
	Field  string // Field being read when decoding failed
	Offset int    // Byte offset of that field in the record
	Value  int64  // Offending length or count, if any
}

func (e *DecodeError) Error() string {
	switch e.Kind {
	case TruncatedFixedFields:
		return fmt.Sprintf("header: truncated fixed fields: need %d bytes, have %d", FixedSize, e.Value)
	case TruncatedChunk:
		return fmt.Sprintf("header: truncated chunk %s at offset %d: need %d bytes", e.Field, e.Offset, e.Value)
	case NegativeLength:
		return fmt.Sprintf("header: negative %s at offset %d: %d", e.Field, e.Offset, e.Value)
	case MalformedChunkTable:
		return fmt.Sprintf("header: chunk at offset %d overruns chunk table by %d bytes", e.Offset, e.Value)
	case InvalidArgument:
		return fmt.Sprintf("header: invalid %s: %d", e.Field, e.Value)
	case TooManyChannels:
		return fmt.Sprintf("header: %d channels exceeds decoder limit", e.Value)
	default:
		return "header: decode error"
	}
}

// Is matches any *DecodeError of the same kind
func (e *DecodeError) Is(target error) bool {
	t, ok := target.(*DecodeError)
	return ok && t.Kind == e.Kind
}
