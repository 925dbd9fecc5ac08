package store

import (
	"encoding/binary"
	"time"

	"github.com/ssargent/ftbuffer/pkg/header"
)

// DefaultMaxRecordSize bounds a single header record when no limit is set
const DefaultMaxRecordSize = 1 << 20

// Record is one raw header record read from a capture file
type Record struct {
	Offset int64          // Byte offset of the record within the file
	Raw    []byte         // Raw record bytes, fixed prefix and chunk table
	Header *header.Header // Decoded header
}

// Size returns the length of the raw record in bytes
func (r *Record) Size() int {
	return len(r.Raw)
}

// RecordWriterConfig holds configuration for the record writer
type RecordWriterConfig struct {
	FilePath      string           // Path to the capture file
	FsyncInterval time.Duration    // How often to fsync (0 = every write)
	BufferSize    int              // Write buffer size
	ByteOrder     binary.ByteOrder // Byte order used to frame appended records
}

// RecordReaderConfig holds configuration for the record reader
type RecordReaderConfig struct {
	FilePath      string           // Path to the capture file
	StartOffset   int64            // Offset to start reading from
	ByteOrder     binary.ByteOrder // Byte order of the records (nil = header.DefaultByteOrder)
	MaxRecordSize int              // Largest record accepted (0 = DefaultMaxRecordSize)
	MaxChannels   int              // Largest channel count accepted (0 = no limit)
}

// Errors
var (
	ErrCorruption     = &StoreError{"truncated header record"}
	ErrRecordTooLarge = &StoreError{"header record exceeds size limit"}
)

// StoreError represents a capture file error
type StoreError struct {
	Message string
}

func (e *StoreError) Error() string {
	return e.Message
}
