package store

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/ssargent/ftbuffer/pkg/header"
)

// RecordReader provides sequential access to the header records of a
// capture file. Records are stored back to back; each one is framed by the
// chunk table size in its fixed prefix.
type RecordReader struct {
	file    *os.File
	reader  *bufio.Reader
	decoder *header.Decoder
	order   binary.ByteOrder
	offset  int64
	config  RecordReaderConfig
}

// NewRecordReader opens the capture file named in config
func NewRecordReader(config RecordReaderConfig) (*RecordReader, error) {
	if config.ByteOrder == nil {
		config.ByteOrder = header.DefaultByteOrder
	}
	if config.MaxRecordSize <= 0 {
		config.MaxRecordSize = DefaultMaxRecordSize
	}

	file, err := os.Open(config.FilePath)
	if err != nil {
		return nil, err
	}

	// Seek to start offset if specified
	if config.StartOffset > 0 {
		if _, err := file.Seek(config.StartOffset, io.SeekStart); err != nil {
			file.Close()
			return nil, err
		}
	}

	return &RecordReader{
		file:    file,
		reader:  bufio.NewReader(file),
		decoder: header.NewDecoder(config.ByteOrder, header.WithMaxChannels(config.MaxChannels)),
		order:   config.ByteOrder,
		offset:  config.StartOffset,
		config:  config,
	}, nil
}

// ReadNext reads and decodes the record at the current offset. It returns
// io.EOF at a clean record boundary and ErrCorruption when the file ends
// inside a record or the fixed prefix does not frame one. A record that is framed correctly but fails to decode is
// skipped over and its *header.DecodeError returned.
func (r *RecordReader) ReadNext() (*Record, error) {
	start := r.offset

	raw, err := r.readFrame(r.reader)
	if err != nil {
		return nil, err
	}
	r.offset += int64(len(raw))

	return r.decode(start, raw)
}

// ReadAt reads the record starting at offset without moving the sequential
// read position
func (r *RecordReader) ReadAt(offset int64) (*Record, error) {
	section := io.NewSectionReader(r.file, offset, math.MaxInt64-offset)
	raw, err := r.readFrame(section)
	if err != nil {
		return nil, err
	}
	return r.decode(offset, raw)
}

func (r *RecordReader) readFrame(src io.Reader) ([]byte, error) {
	prefix := make([]byte, header.FixedSize)
	if _, err := io.ReadFull(src, prefix); err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		if err == io.ErrUnexpectedEOF {
			return nil, ErrCorruption
		}
		return nil, err
	}

	// A prefix that does not frame a record leaves no way to find the next one.
	size, err := header.RecordLength(prefix, r.order)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruption, err)
	}
	if size > r.config.MaxRecordSize {
		return nil, fmt.Errorf("%w: %d > %d bytes", ErrRecordTooLarge, size, r.config.MaxRecordSize)
	}

	raw := make([]byte, size)
	copy(raw, prefix)
	if _, err := io.ReadFull(src, raw[header.FixedSize:]); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, ErrCorruption
		}
		return nil, err
	}
	return raw, nil
}

func (r *RecordReader) decode(offset int64, raw []byte) (*Record, error) {
	h, err := r.decoder.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("record at offset %d: %w", offset, err)
	}
	return &Record{Offset: offset, Raw: raw, Header: h}, nil
}

// Seek sets the read offset
func (r *RecordReader) Seek(offset int64) error {
	if _, err := r.file.Seek(offset, io.SeekStart); err != nil {
		return err
	}

	r.reader = bufio.NewReader(r.file) // Recreate reader to clear buffer
	r.offset = offset
	return nil
}

// Offset returns the current read offset
func (r *RecordReader) Offset() int64 {
	return r.offset
}

// Close closes the record reader
func (r *RecordReader) Close() error {
	return r.file.Close()
}
