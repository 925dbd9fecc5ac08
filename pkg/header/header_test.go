package header

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDescriptor(t *testing.T) {
	h, err := NewDescriptor(8, 1000.0, DataTypeFloat32)
	require.NoError(t, err)

	assert.Equal(t, 8, h.Channels)
	assert.Equal(t, 0, h.Samples)
	assert.Equal(t, 0, h.Events)
	assert.Equal(t, float32(1000.0), h.SampleRate)
	assert.Equal(t, DataTypeFloat32, h.DataType)
	require.Len(t, h.Labels, 8)
	for i := range h.Labels {
		assert.Nil(t, h.Labels[i])
	}
}

func TestNewDescriptor_ZeroChannels(t *testing.T) {
	h, err := NewDescriptor(0, 100, DataTypeInt32)
	require.NoError(t, err)
	assert.Empty(t, h.Labels)
}

func TestNewDescriptor_NegativeChannels(t *testing.T) {
	h, err := NewDescriptor(-1, 100, DataTypeInt32)
	assert.Nil(t, h)
	assert.True(t, errors.Is(err, ErrInvalidArgument))
}

func TestHeader_SetLabel(t *testing.T) {
	h, err := NewDescriptor(3, 250, DataTypeFloat64)
	require.NoError(t, err)

	require.NoError(t, h.SetLabel(0, "EOG"))
	require.NoError(t, h.SetLabel(2, ""))

	name, ok := h.Label(0)
	assert.True(t, ok)
	assert.Equal(t, "EOG", name)

	_, ok = h.Label(1)
	assert.False(t, ok)

	// An explicitly set empty name is present, unlike a decoded empty name.
	name, ok = h.Label(2)
	assert.True(t, ok)
	assert.Empty(t, name)
	assert.Equal(t, 2, h.LabelCount())

	assert.ErrorIs(t, h.SetLabel(3, "x"), ErrInvalidArgument)
	assert.ErrorIs(t, h.SetLabel(-1, "x"), ErrInvalidArgument)
}

func TestHeader_LabelOutOfRange(t *testing.T) {
	h, err := NewDescriptor(1, 1, DataTypeChar)
	require.NoError(t, err)

	_, ok := h.Label(5)
	assert.False(t, ok)
	_, ok = h.Label(-1)
	assert.False(t, ok)
}

func TestDataType_String(t *testing.T) {
	assert.Equal(t, "float32", DataTypeFloat32.String())
	assert.Equal(t, "uint8", DataTypeUint8.String())
	assert.Equal(t, "datatype(42)", DataType(42).String())
}

func TestChunkKind_String(t *testing.T) {
	testCases := map[ChunkKind]string{
		ChunkUnknown:       "unknown",
		ChunkChannelNames:  "channel_names",
		ChunkChannelFlags:  "channel_flags",
		ChunkResolutions:   "resolutions",
		ChunkASCIIKeyValue: "ascii_keyval",
		ChunkNIfTI1:        "nifti1",
		ChunkSiemensAP:     "siemens_ap",
		ChunkCTFRes4:       "ctf_res4",
		ChunkKind(12):      "chunk(12)",
	}
	for kind, want := range testCases {
		assert.Equal(t, want, kind.String())
	}
}

func TestDecodeError_Is(t *testing.T) {
	err := &DecodeError{Kind: TruncatedChunk, Offset: 40, Value: 12}

	assert.True(t, errors.Is(err, ErrTruncatedChunk))
	assert.False(t, errors.Is(err, ErrMalformedChunkTable))
	assert.False(t, errors.Is(err, errors.New("truncated_chunk")))
	assert.Equal(t, "truncated_chunk", err.Kind.String())
}
