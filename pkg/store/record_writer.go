package store

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/ssargent/ftbuffer/pkg/header"
)

// RecordWriter appends raw header records to a capture file. Records are
// written exactly as received; the writer only checks that each one is framed
// by its own chunk table size so the file stays readable by RecordReader.
type RecordWriter struct {
	file       *os.File
	writer     *bufio.Writer
	fsyncTimer *time.Timer
	config     RecordWriterConfig
	mutex      sync.Mutex
	offset     int64 // Current write offset
}

// NewRecordWriter creates a new record writer with the given configuration
func NewRecordWriter(config RecordWriterConfig) (*RecordWriter, error) {
	if config.ByteOrder == nil {
		config.ByteOrder = header.DefaultByteOrder
	}
	if config.BufferSize <= 0 {
		config.BufferSize = 4096
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(config.FilePath), 0750); err != nil {
		return nil, err
	}

	file, err := os.OpenFile(config.FilePath, os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return nil, err
	}

	// Seek to end for append behavior
	end, err := file.Seek(0, io.SeekEnd)
	if err != nil {
		file.Close()
		return nil, err
	}

	writer := &RecordWriter{
		file:   file,
		writer: bufio.NewWriterSize(file, config.BufferSize),
		config: config,
		offset: end,
	}

	// Set up fsync timer if interval is configured
	if config.FsyncInterval > 0 {
		writer.fsyncTimer = time.AfterFunc(config.FsyncInterval, func() {
			writer.mutex.Lock()
			defer writer.mutex.Unlock()
			writer.sync() // Ignore error in timer callback
		})
	}

	return writer, nil
}

// Append writes one raw header record and returns the offset it starts at.
// raw must hold exactly one record.
func (w *RecordWriter) Append(raw []byte) (int64, error) {
	size, err := header.RecordLength(raw, w.config.ByteOrder)
	if err != nil {
		return 0, err
	}
	if size != len(raw) {
		return 0, fmt.Errorf("record frames %d bytes, got %d", size, len(raw))
	}

	w.mutex.Lock()
	defer w.mutex.Unlock()

	n, err := w.writer.Write(raw)
	if err != nil {
		return 0, err
	}

	recordOffset := w.offset
	w.offset += int64(n)

	// Sync immediately if no fsync interval configured
	if w.config.FsyncInterval == 0 {
		if err := w.sync(); err != nil {
			return 0, err
		}
	} else if w.fsyncTimer != nil {
		w.fsyncTimer.Reset(w.config.FsyncInterval)
	}

	return recordOffset, nil
}

// Sync forces a fsync to disk
func (w *RecordWriter) Sync() error {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	return w.sync()
}

func (w *RecordWriter) sync() error {
	if err := w.writer.Flush(); err != nil {
		return err
	}
	return w.file.Sync()
}

// Close closes the record writer and ensures all data is synced
func (w *RecordWriter) Close() error {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	if w.fsyncTimer != nil {
		w.fsyncTimer.Stop()
	}

	if err := w.sync(); err != nil {
		w.file.Close()
		return err
	}

	return w.file.Close()
}

// Size returns the current size of the capture file
func (w *RecordWriter) Size() int64 {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	return w.offset
}

// Path returns the file path
func (w *RecordWriter) Path() string {
	return w.config.FilePath
}
