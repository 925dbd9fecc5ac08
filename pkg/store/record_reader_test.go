package store

import (
	"encoding/binary"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/ssargent/ftbuffer/pkg/header"
	"github.com/ssargent/ftbuffer/pkg/header/headertest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCapture(t *testing.T, records ...[]byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "capture.ftb")
	var data []byte
	for _, r := range records {
		data = append(data, r...)
	}
	require.NoError(t, os.WriteFile(path, data, 0600))
	return path
}

func TestNewRecordReader_NonExistentFile(t *testing.T) {
	reader, err := NewRecordReader(RecordReaderConfig{FilePath: "/non/existent/capture.ftb"})
	assert.Error(t, err)
	assert.Nil(t, reader)
}

func TestRecordReader_ReadNext(t *testing.T) {
	first := headertest.EEG("Fp1", "Fp2")
	second := headertest.Record{Channels: 4, Samples: 10, SampleRate: 100}.Bytes()
	path := writeCapture(t, first, second)

	reader, err := NewRecordReader(RecordReaderConfig{FilePath: path})
	require.NoError(t, err)
	defer reader.Close()

	rec, err := reader.ReadNext()
	require.NoError(t, err)
	assert.Equal(t, int64(0), rec.Offset)
	assert.Equal(t, first, rec.Raw)
	assert.Equal(t, 2, rec.Header.Channels)
	name, ok := rec.Header.Label(1)
	assert.True(t, ok)
	assert.Equal(t, "Fp2", name)

	rec, err = reader.ReadNext()
	require.NoError(t, err)
	assert.Equal(t, int64(len(first)), rec.Offset)
	assert.Equal(t, 4, rec.Header.Channels)
	assert.Equal(t, 10, rec.Header.Samples)
	assert.Equal(t, len(second), rec.Size())

	_, err = reader.ReadNext()
	assert.Equal(t, io.EOF, err)
	assert.Equal(t, int64(len(first)+len(second)), reader.Offset())
}

func TestRecordReader_TruncatedRecord(t *testing.T) {
	full := headertest.EEG("Cz", "Pz")

	t.Run("inside fixed prefix", func(t *testing.T) {
		path := writeCapture(t, full, full[:10])
		reader, err := NewRecordReader(RecordReaderConfig{FilePath: path})
		require.NoError(t, err)
		defer reader.Close()

		_, err = reader.ReadNext()
		require.NoError(t, err)
		_, err = reader.ReadNext()
		assert.Equal(t, ErrCorruption, err)
	})

	t.Run("inside chunk table", func(t *testing.T) {
		path := writeCapture(t, full[:len(full)-2])
		reader, err := NewRecordReader(RecordReaderConfig{FilePath: path})
		require.NoError(t, err)
		defer reader.Close()

		_, err = reader.ReadNext()
		assert.Equal(t, ErrCorruption, err)
	})
}

func TestRecordReader_DecodeErrorIsSkippable(t *testing.T) {
	bad := headertest.Record{
		Channels: 1,
		Chunks:   []headertest.Chunk{{Kind: 1, Length: headertest.Int32(-4)}},
	}.Bytes()
	good := headertest.EEG("Oz")
	path := writeCapture(t, bad, good)

	reader, err := NewRecordReader(RecordReaderConfig{FilePath: path})
	require.NoError(t, err)
	defer reader.Close()

	_, err = reader.ReadNext()
	require.Error(t, err)
	var derr *header.DecodeError
	require.True(t, errors.As(err, &derr))
	assert.Equal(t, header.NegativeLength, derr.Kind)
	assert.Contains(t, err.Error(), "record at offset 0")

	rec, err := reader.ReadNext()
	require.NoError(t, err)
	assert.Equal(t, int64(len(bad)), rec.Offset)
	assert.Equal(t, 1, rec.Header.Channels)
}

func TestRecordReader_RecordTooLarge(t *testing.T) {
	path := writeCapture(t, headertest.EEG("A", "B", "C"))

	reader, err := NewRecordReader(RecordReaderConfig{FilePath: path, MaxRecordSize: 30})
	require.NoError(t, err)
	defer reader.Close()

	_, err = reader.ReadNext()
	assert.ErrorIs(t, err, ErrRecordTooLarge)
}

func TestRecordReader_MaxChannels(t *testing.T) {
	path := writeCapture(t, headertest.Record{Channels: 64}.Bytes())

	reader, err := NewRecordReader(RecordReaderConfig{FilePath: path, MaxChannels: 32})
	require.NoError(t, err)
	defer reader.Close()

	_, err = reader.ReadNext()
	assert.ErrorIs(t, err, header.ErrTooManyChannels)
}

func TestRecordReader_BigEndian(t *testing.T) {
	raw := headertest.Record{
		Order:    binary.BigEndian,
		Channels: 2,
		Chunks:   []headertest.Chunk{{Kind: 1, Payload: headertest.Names("X", "Y")}},
	}.Bytes()
	path := writeCapture(t, raw)

	reader, err := NewRecordReader(RecordReaderConfig{FilePath: path, ByteOrder: binary.BigEndian})
	require.NoError(t, err)
	defer reader.Close()

	rec, err := reader.ReadNext()
	require.NoError(t, err)
	assert.Equal(t, []string{"X", "Y"}, rec.Header.LabelStrings())
}

func TestRecordReader_ReadAtAndSeek(t *testing.T) {
	first := headertest.EEG("One")
	second := headertest.EEG("Two", "Three")
	path := writeCapture(t, first, second)

	reader, err := NewRecordReader(RecordReaderConfig{FilePath: path})
	require.NoError(t, err)
	defer reader.Close()

	rec, err := reader.ReadAt(int64(len(first)))
	require.NoError(t, err)
	assert.Equal(t, 2, rec.Header.Channels)
	assert.Equal(t, int64(0), reader.Offset(), "ReadAt must not move the read position")

	rec, err = reader.ReadNext()
	require.NoError(t, err)
	assert.Equal(t, 1, rec.Header.Channels)

	require.NoError(t, reader.Seek(0))
	rec, err = reader.ReadNext()
	require.NoError(t, err)
	assert.Equal(t, int64(0), rec.Offset)

	_, err = reader.ReadAt(int64(len(first) + len(second)))
	assert.Equal(t, io.EOF, err)
}

func TestRecordReader_StartOffset(t *testing.T) {
	first := headertest.EEG("One")
	second := headertest.EEG("Two", "Three")
	path := writeCapture(t, first, second)

	reader, err := NewRecordReader(RecordReaderConfig{FilePath: path, StartOffset: int64(len(first))})
	require.NoError(t, err)
	defer reader.Close()

	rec, err := reader.ReadNext()
	require.NoError(t, err)
	assert.Equal(t, int64(len(first)), rec.Offset)
	assert.Equal(t, []string{"Two", "Three"}, rec.Header.LabelStrings())
}

func TestRecordReader_NegativeTableSizeStopsReading(t *testing.T) {
	bad := headertest.Record{Channels: 1, ChunkBytes: headertest.Int32(-1)}.Bytes()
	path := writeCapture(t, bad, headertest.EEG("Cz"))

	reader, err := NewRecordReader(RecordReaderConfig{FilePath: path})
	require.NoError(t, err)
	defer reader.Close()

	_, err = reader.ReadNext()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCorruption)
	assert.ErrorContains(t, err, "negative chunk table size")

	var derr *header.DecodeError
	assert.False(t, errors.As(err, &derr), "framing failures must not look like skippable decode errors")
	assert.Equal(t, int64(0), reader.Offset())

	_, err = reader.ReadAt(0)
	assert.ErrorIs(t, err, ErrCorruption)
}
