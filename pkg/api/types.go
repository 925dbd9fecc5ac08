package api

import (
	"github.com/segmentio/ksuid"
	"github.com/ssargent/ftbuffer/pkg/header"
)

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Code    string      `json:"code,omitempty"`
}

// ServerConfig holds configuration for the API server
type ServerConfig struct {
	Bind          string
	Port          int
	APIKey        string
	MaxRecordSize int // Largest request body accepted, in bytes
}

// HeaderArchive is the storage the server archives raw header records in
type HeaderArchive interface {
	Put(raw []byte) (ksuid.KSUID, *header.Header, error)
	Get(id ksuid.KSUID) ([]byte, error)
	Load(id ksuid.KSUID) (*header.Header, error)
	List() ([]ksuid.KSUID, error)
	Delete(id ksuid.KSUID) error
}

// HeaderResponse is the JSON form of a decoded header. Absent labels are
// encoded as null.
type HeaderResponse struct {
	Channels     int       `json:"channels"`
	Samples      int       `json:"samples"`
	Events       int       `json:"events"`
	SampleRate   float32   `json:"sample_rate"`
	DataType     int32     `json:"data_type"`
	DataTypeName string    `json:"data_type_name"`
	Labels       []*string `json:"labels"`
}

// ArchivedHeaderResponse is returned for headers held in the archive
type ArchivedHeaderResponse struct {
	ID     string          `json:"id"`
	Size   int             `json:"size,omitempty"`
	Header *HeaderResponse `json:"header"`
}

// NewHeaderResponse converts a decoded header for JSON output
func NewHeaderResponse(h *header.Header) *HeaderResponse {
	return &HeaderResponse{
		Channels:     h.Channels,
		Samples:      h.Samples,
		Events:       h.Events,
		SampleRate:   h.SampleRate,
		DataType:     int32(h.DataType),
		DataTypeName: h.DataType.String(),
		Labels:       h.Labels,
	}
}
