package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/segmentio/ksuid"
	"github.com/ssargent/ftbuffer/pkg/header/headertest"
	"github.com/ssargent/ftbuffer/pkg/storage"
	"github.com/ssargent/ftbuffer/pkg/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArchiveCapture(t *testing.T) {
	rt := testRuntime(t)
	archive, err := openArchive(rt)
	require.NoError(t, err)
	defer archive.Close()

	path := writeCaptureFile(t, headertest.EEG("Fz"), badRecord(), headertest.EEG("C3", "C4"))

	ids, err := archiveCapture(rt, archive, path)
	require.NoError(t, err)
	require.Len(t, ids, 2)

	listed, err := archive.List()
	require.NoError(t, err)
	assert.ElementsMatch(t, ids, listed)

	h, err := archive.Load(ids[1])
	require.NoError(t, err)
	assert.Equal(t, 2, h.Channels)
	name, ok := h.Label(1)
	assert.True(t, ok)
	assert.Equal(t, "C4", name)
}

func TestArchiveCapture_TruncatedFile(t *testing.T) {
	rt := testRuntime(t)
	archive, err := openArchive(rt)
	require.NoError(t, err)
	defer archive.Close()

	path := writeCaptureFile(t, headertest.EEG("Fz"), headertest.EEG("Pz")[:10])

	ids, err := archiveCapture(rt, archive, path)
	assert.Error(t, err)
	assert.Len(t, ids, 1)
}

func TestArchiveCapture_UnframedRecordStops(t *testing.T) {
	rt := testRuntime(t)
	archive, err := openArchive(rt)
	require.NoError(t, err)
	defer archive.Close()

	unframed := headertest.Record{Channels: 1, ChunkBytes: headertest.Int32(-1)}.Bytes()
	path := writeCaptureFile(t, unframed, headertest.EEG("Cz"))

	ids, err := archiveCapture(rt, archive, path)
	assert.ErrorIs(t, err, store.ErrCorruption)
	assert.Empty(t, ids)

	listed, err := archive.List()
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestArchiveRecordAt(t *testing.T) {
	rt := testRuntime(t)
	archive, err := openArchive(rt)
	require.NoError(t, err)
	defer archive.Close()

	first := headertest.EEG("Fp1")
	second := headertest.EEG("O1", "O2")
	path := writeCaptureFile(t, first, second)

	id, err := archiveRecordAt(rt, archive, path, int64(len(first)))
	require.NoError(t, err)

	raw, err := archive.Get(id)
	require.NoError(t, err)
	assert.Equal(t, second, raw)

	_, err = archiveRecordAt(rt, archive, path, int64(len(first)+len(second)))
	assert.ErrorContains(t, err, "no header record at offset")

	_, err = archiveRecordAt(rt, archive, path, 3)
	assert.Error(t, err)

	listed, err := archive.List()
	require.NoError(t, err)
	assert.Len(t, listed, 1)
}

func TestExportArchive_RoundTrip(t *testing.T) {
	rt := testRuntime(t)
	archive, err := openArchive(rt)
	require.NoError(t, err)
	defer archive.Close()

	first := headertest.EEG("Fp1", "Fp2")
	second := headertest.EEG("O1")
	ids, err := archiveCapture(rt, archive, writeCaptureFile(t, first, second))
	require.NoError(t, err)
	require.Len(t, ids, 2)

	out := filepath.Join(t.TempDir(), "export.hdr")
	n, err := exportArchive(rt, archive, out, []ksuid.KSUID{ids[1]})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, second, data)

	records, _, err := scanCapture(rt, out, scanOptions{})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 1, records[0].Header.Channels)
}

func TestExportArchive_UnknownID(t *testing.T) {
	rt := testRuntime(t)
	archive, err := openArchive(rt)
	require.NoError(t, err)
	defer archive.Close()

	out := filepath.Join(t.TempDir(), "export.hdr")
	n, err := exportArchive(rt, archive, out, []ksuid.KSUID{ksuid.New()})
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.Zero(t, n)
}
