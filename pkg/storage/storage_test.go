package storage

import (
	"encoding/binary"
	"testing"

	"github.com/segmentio/ksuid"
	"github.com/ssargent/ftbuffer/pkg/header"
	"github.com/ssargent/ftbuffer/pkg/header/headertest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openArchive(t *testing.T, decoder *header.Decoder) *Archive {
	t.Helper()
	a, err := Open(t.TempDir(), decoder)
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })
	return a
}

func TestArchive_PutGetLoad(t *testing.T) {
	a := openArchive(t, nil)
	raw := headertest.EEG("Fp1", "", "Cz")

	id, h, err := a.Put(raw)
	require.NoError(t, err)
	assert.False(t, id.IsNil())
	assert.Equal(t, 3, h.Channels)

	got, err := a.Get(id)
	require.NoError(t, err)
	assert.Equal(t, raw, got)

	loaded, err := a.Load(id)
	require.NoError(t, err)
	assert.Equal(t, h, loaded)
}

func TestArchive_PutRejectsMalformed(t *testing.T) {
	a := openArchive(t, nil)

	_, _, err := a.Put([]byte{1, 2, 3})
	assert.ErrorIs(t, err, header.ErrTruncatedFixedFields)

	ids, err := a.List()
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestArchive_NotFound(t *testing.T) {
	a := openArchive(t, nil)
	id := ksuid.New()

	_, err := a.Get(id)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = a.Load(id)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, a.Delete(id), ErrNotFound)
}

func TestArchive_ListAndDelete(t *testing.T) {
	a := openArchive(t, nil)

	var want []ksuid.KSUID
	for _, name := range []string{"A", "B", "C"} {
		id, _, err := a.Put(headertest.EEG(name))
		require.NoError(t, err)
		want = append(want, id)
	}

	ids, err := a.List()
	require.NoError(t, err)
	assert.ElementsMatch(t, want, ids)

	require.NoError(t, a.Delete(want[1]))

	ids, err = a.List()
	require.NoError(t, err)
	assert.Len(t, ids, 2)
	assert.NotContains(t, ids, want[1])
}

func TestArchive_DecoderByteOrder(t *testing.T) {
	a := openArchive(t, header.NewDecoder(binary.BigEndian))
	raw := headertest.Record{
		Order:    binary.BigEndian,
		Channels: 1,
		Chunks:   []headertest.Chunk{{Kind: 1, Payload: headertest.Names("Ref")}},
	}.Bytes()

	id, _, err := a.Put(raw)
	require.NoError(t, err)

	h, err := a.Load(id)
	require.NoError(t, err)
	assert.Equal(t, []string{"Ref"}, h.LabelStrings())
}
