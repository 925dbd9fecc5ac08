package header

import "fmt"

// DataType identifies the scalar type of the buffer's sample data. The decoder
// passes the code through untouched; the constants below only exist to give
// the well-known codes a readable name.
type DataType int32

const (
	DataTypeChar    DataType = 0
	DataTypeUint8   DataType = 1
	DataTypeUint16  DataType = 2
	DataTypeUint32  DataType = 3
	DataTypeUint64  DataType = 4
	DataTypeInt8    DataType = 5
	DataTypeInt16   DataType = 6
	DataTypeInt32   DataType = 7
	DataTypeInt64   DataType = 8
	DataTypeFloat32 DataType = 9
	DataTypeFloat64 DataType = 10
)

var dataTypeNames = map[DataType]string{
	DataTypeChar:    "char",
	DataTypeUint8:   "uint8",
	DataTypeUint16:  "uint16",
	DataTypeUint32:  "uint32",
	DataTypeUint64:  "uint64",
	DataTypeInt8:    "int8",
	DataTypeInt16:   "int16",
	DataTypeInt32:   "int32",
	DataTypeInt64:   "int64",
	DataTypeFloat32: "float32",
	DataTypeFloat64: "float64",
}

func (d DataType) String() string {
	if name, ok := dataTypeNames[d]; ok {
		return name
	}
	return fmt.Sprintf("datatype(%d)", int32(d))
}

// ChunkKind tags an extension record that follows the fixed header fields
type ChunkKind int32

const (
	ChunkUnknown       ChunkKind = 0
	ChunkChannelNames  ChunkKind = 1
	ChunkChannelFlags  ChunkKind = 2
	ChunkResolutions   ChunkKind = 3
	ChunkASCIIKeyValue ChunkKind = 4
	ChunkNIfTI1        ChunkKind = 5
	ChunkSiemensAP     ChunkKind = 6
	ChunkCTFRes4       ChunkKind = 7
)

func (k ChunkKind) String() string {
	switch k {
	case ChunkUnknown:
		return "unknown"
	case ChunkChannelNames:
		return "channel_names"
	case ChunkChannelFlags:
		return "channel_flags"
	case ChunkResolutions:
		return "resolutions"
	case ChunkASCIIKeyValue:
		return "ascii_keyval"
	case ChunkNIfTI1:
		return "nifti1"
	case ChunkSiemensAP:
		return "siemens_ap"
	case ChunkCTFRes4:
		return "ctf_res4"
	default:
		return fmt.Sprintf("chunk(%d)", int32(k))
	}
}

// Header is the acquisition metadata of a buffer: either decoded from a raw
// header record or built with NewDescriptor for outbound use.
type Header struct {
	Channels   int      // Number of data channels
	Samples    int      // Samples buffered when the header was read
	Events     int      // Events buffered when the header was read
	SampleRate float32  // Sampling frequency in Hz
	DataType   DataType // Scalar type of the sample data
	// Labels always has Channels entries. A nil entry means the channel has
	// no label, which is not the same as an empty name.
	Labels []*string
}

// NewDescriptor creates a header for metadata the caller is about to send.
// Sample and event counts are zero and every label is absent.
func NewDescriptor(channels int, sampleRate float32, dataType DataType) (*Header, error) {
	if channels < 0 {
		return nil, &DecodeError{Kind: InvalidArgument, Field: "channels", Value: int64(channels)}
	}
	return &Header{
		Channels:   channels,
		SampleRate: sampleRate,
		DataType:   dataType,
		Labels:     make([]*string, channels),
	}, nil
}

// Label returns the label of channel i and whether one is present
func (h *Header) Label(i int) (string, bool) {
	if i < 0 || i >= len(h.Labels) || h.Labels[i] == nil {
		return "", false
	}
	return *h.Labels[i], true
}

// SetLabel assigns the label of channel i. It is meant for descriptors that
// are being filled in before transmission.
func (h *Header) SetLabel(i int, name string) error {
	if i < 0 || i >= len(h.Labels) {
		return &DecodeError{Kind: InvalidArgument, Field: "channel", Value: int64(i)}
	}
	h.Labels[i] = &name
	return nil
}

// LabelStrings flattens Labels, rendering absent labels as "".
func (h *Header) LabelStrings() []string {
	out := make([]string, len(h.Labels))
	for i, l := range h.Labels {
		if l != nil {
			out[i] = *l
		}
	}
	return out
}

// LabelCount reports how many channels carry a label
func (h *Header) LabelCount() int {
	n := 0
	for _, l := range h.Labels {
		if l != nil {
			n++
		}
	}
	return n
}
