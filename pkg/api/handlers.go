package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/segmentio/ksuid"
	"github.com/sirupsen/logrus"
	"github.com/ssargent/ftbuffer/pkg/header"
	"github.com/ssargent/ftbuffer/pkg/storage"
	"github.com/ssargent/ftbuffer/pkg/store"
)

// Server holds the API server state
type Server struct {
	archive HeaderArchive
	decoder *header.Decoder
	config  ServerConfig
	metrics *Metrics
	logger  logrus.FieldLogger
}

// NewServer creates a new API server. metrics may be nil.
func NewServer(archive HeaderArchive, decoder *header.Decoder, config ServerConfig, metrics *Metrics, logger logrus.FieldLogger) *Server {
	if decoder == nil {
		decoder = header.NewDecoder(nil)
	}
	if config.MaxRecordSize <= 0 {
		config.MaxRecordSize = store.DefaultMaxRecordSize
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Server{
		archive: archive,
		decoder: decoder,
		config:  config,
		metrics: metrics,
		logger:  logger,
	}
}

// handleHealth reports that the server is up
//
//	@Summary		Health check
//	@Tags			health
//	@Produce		json
//	@Success		200	{object}	map[string]string
//	@Security		ApiKeyAuth
//	@Router			/health [get]
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.metrics.RecordHealthCheck(true)
	sendSuccess(w, map[string]string{"status": "healthy"})
}

// readRecord reads the request body, enforcing the record size limit
func (s *Server) readRecord(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, int64(s.config.MaxRecordSize)))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			sendError(w, "Header record exceeds size limit of "+strconv.Itoa(s.config.MaxRecordSize)+" bytes",
				http.StatusRequestEntityTooLarge)
			return nil, false
		}
		sendError(w, "Failed to read request body", http.StatusBadRequest)
		return nil, false
	}
	return body, true
}

// writeDecodeError maps a decode failure to a 422 response
func (s *Server) writeDecodeError(w http.ResponseWriter, err error, size int) bool {
	var derr *header.DecodeError
	if !errors.As(err, &derr) {
		return false
	}
	s.logger.WithFields(logrus.Fields{
		"kind":   derr.Kind.String(),
		"offset": derr.Offset,
		"size":   size,
	}).Warn("rejected malformed header record")
	sendDecodeError(w, derr.Error(), derr.Kind.String(), http.StatusUnprocessableEntity)
	return true
}

func decodeOutcome(err error) string {
	if err == nil {
		return outcomeOK
	}
	var derr *header.DecodeError
	if errors.As(err, &derr) {
		return derr.Kind.String()
	}
	return statusError
}

// handleDecode decodes the raw header record in the request body
//
//	@Summary		Decode a raw header record
//	@Tags			headers
//	@Accept			octet-stream
//	@Produce		json
//	@Param			body	body		[]byte	true	"Raw header record"
//	@Success		200		{object}	HeaderResponse
//	@Failure		413		{object}	APIResponse
//	@Failure		422		{object}	APIResponse
//	@Security		ApiKeyAuth
//	@Router			/headers/decode [post]
func (s *Server) handleDecode(w http.ResponseWriter, r *http.Request) {
	body, ok := s.readRecord(w, r)
	if !ok {
		return
	}

	start := time.Now()
	h, err := s.decoder.Decode(body)
	channels := 0
	if h != nil {
		channels = h.Channels
	}
	s.metrics.RecordDecode(decodeOutcome(err), len(body), channels, time.Since(start))
	if err != nil {
		if !s.writeDecodeError(w, err, len(body)) {
			sendError(w, "Failed to decode header", http.StatusInternalServerError)
		}
		return
	}

	sendSuccess(w, NewHeaderResponse(h))
}

// handleArchive decodes and archives the raw header record in the request body
//
//	@Summary		Decode and archive a raw header record
//	@Tags			archive
//	@Accept			octet-stream
//	@Produce		json
//	@Param			body	body		[]byte	true	"Raw header record"
//	@Success		201		{object}	ArchivedHeaderResponse
//	@Failure		422		{object}	APIResponse
//	@Security		ApiKeyAuth
//	@Router			/headers [post]
func (s *Server) handleArchive(w http.ResponseWriter, r *http.Request) {
	body, ok := s.readRecord(w, r)
	if !ok {
		return
	}

	start := time.Now()
	decoded, err := s.decoder.Decode(body)
	if err != nil {
		s.metrics.RecordDecode(decodeOutcome(err), len(body), 0, time.Since(start))
		s.metrics.RecordArchiveOperation("put", false)
		if !s.writeDecodeError(w, err, len(body)) {
			sendError(w, "Failed to decode header", http.StatusInternalServerError)
		}
		return
	}
	s.metrics.RecordDecode(outcomeOK, len(body), decoded.Channels, time.Since(start))

	start = time.Now()
	id, h, err := s.archive.Put(body)
	s.metrics.ObserveArchiveDuration("put", time.Since(start))
	if err != nil {
		s.metrics.RecordArchiveOperation("put", false)
		if s.writeDecodeError(w, err, len(body)) {
			return
		}
		s.logger.WithError(err).Error("failed to archive header")
		sendError(w, "Failed to archive header", http.StatusInternalServerError)
		return
	}
	s.metrics.RecordArchiveOperation("put", true)

	s.logger.WithFields(logrus.Fields{
		"id":       id.String(),
		"channels": h.Channels,
		"size":     len(body),
	}).Info("archived header")

	sendCreated(w, ArchivedHeaderResponse{
		ID:     id.String(),
		Size:   len(body),
		Header: NewHeaderResponse(h),
	})
}

// parseID parses the {id} URL parameter, writing a 400 when it is malformed
func parseID(w http.ResponseWriter, r *http.Request) (ksuid.KSUID, bool) {
	id, err := ksuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		sendError(w, "Invalid header id", http.StatusBadRequest)
		return ksuid.Nil, false
	}
	return id, true
}

// archiveError writes the response for a failed archive lookup
func (s *Server) archiveError(w http.ResponseWriter, operation string, err error) {
	s.metrics.RecordArchiveOperation(operation, false)
	if errors.Is(err, storage.ErrNotFound) {
		sendError(w, "Header not found", http.StatusNotFound)
		return
	}
	if s.writeDecodeError(w, err, 0) {
		return
	}
	s.logger.WithError(err).WithField("operation", operation).Error("archive operation failed")
	sendError(w, "Archive operation failed", http.StatusInternalServerError)
}

// handleGetHeader returns a decoded archived header
//
//	@Summary		Get a decoded archived header
//	@Tags			archive
//	@Produce		json
//	@Param			id	path		string	true	"Header id"
//	@Success		200	{object}	ArchivedHeaderResponse
//	@Failure		404	{object}	APIResponse
//	@Security		ApiKeyAuth
//	@Router			/headers/{id} [get]
func (s *Server) handleGetHeader(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	h, err := s.archive.Load(id)
	if err != nil {
		s.archiveError(w, "get", err)
		return
	}
	s.metrics.RecordArchiveOperation("get", true)

	sendSuccess(w, ArchivedHeaderResponse{ID: id.String(), Header: NewHeaderResponse(h)})
}

// handleGetRaw returns the raw bytes of an archived header
//
//	@Summary		Get the raw bytes of an archived header
//	@Tags			archive
//	@Produce		octet-stream
//	@Param			id	path		string	true	"Header id"
//	@Success		200	{string}	byte
//	@Failure		404	{object}	APIResponse
//	@Security		ApiKeyAuth
//	@Router			/headers/{id}/raw [get]
func (s *Server) handleGetRaw(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	raw, err := s.archive.Get(id)
	if err != nil {
		s.archiveError(w, "get_raw", err)
		return
	}
	s.metrics.RecordArchiveOperation("get_raw", true)

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Length", strconv.Itoa(len(raw)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(raw)
}

// handleListHeaders lists the ids of archived headers
//
//	@Summary		List archived header ids
//	@Tags			archive
//	@Produce		json
//	@Success		200	{object}	map[string]interface{}
//	@Security		ApiKeyAuth
//	@Router			/headers [get]
func (s *Server) handleListHeaders(w http.ResponseWriter, r *http.Request) {
	ids, err := s.archive.List()
	if err != nil {
		s.archiveError(w, "list", err)
		return
	}
	s.metrics.RecordArchiveOperation("list", true)

	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	sendSuccess(w, map[string]interface{}{
		"ids":   out,
		"count": len(out),
	})
}

// handleDeleteHeader removes an archived header
//
//	@Summary		Delete an archived header
//	@Tags			archive
//	@Param			id	path		string	true	"Header id"
//	@Success		200	{object}	map[string]string
//	@Failure		404	{object}	APIResponse
//	@Security		ApiKeyAuth
//	@Router			/headers/{id} [delete]
func (s *Server) handleDeleteHeader(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := s.archive.Delete(id); err != nil {
		s.archiveError(w, "delete", err)
		return
	}
	s.metrics.RecordArchiveOperation("delete", true)

	sendSuccess(w, map[string]string{"status": "deleted"})
}
