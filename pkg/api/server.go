// Package api serves the header decoder and archive over HTTP.
package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter builds the HTTP routes for s. gatherer backs the /metrics
// endpoint; nil selects the default Prometheus registry.
func NewRouter(s *Server, gatherer prometheus.Gatherer) http.Handler {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	metrics := s.metrics

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Prometheus metrics endpoint (unprotected for scraping)
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	r.Get("/swagger/doc.json", s.handleSwagger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(metrics.InstrumentAuthMiddleware(apiKeyMiddleware(s.config.APIKey)))

		r.Get("/health", metrics.InstrumentHandler("GET", "/api/v1/health", s.handleHealth))

		r.Post("/headers/decode", metrics.InstrumentHandler("POST", "/api/v1/headers/decode", s.handleDecode))
		r.Post("/headers", metrics.InstrumentHandler("POST", "/api/v1/headers", s.handleArchive))
		r.Get("/headers", metrics.InstrumentHandler("GET", "/api/v1/headers", s.handleListHeaders))
		r.Get("/headers/{id}", metrics.InstrumentHandler("GET", "/api/v1/headers/{id}", s.handleGetHeader))
		r.Get("/headers/{id}/raw", metrics.InstrumentHandler("GET", "/api/v1/headers/{id}/raw", s.handleGetRaw))
		r.Delete("/headers/{id}", metrics.InstrumentHandler("DELETE", "/api/v1/headers/{id}", s.handleDeleteHeader))
	})

	return r
}

// StartServer starts the HTTP server and blocks until it stops
func StartServer(s *Server) error {
	if s.metrics == nil {
		s.metrics = NewMetrics(prometheus.DefaultRegisterer)
	}

	addr := fmt.Sprintf("%s:%d", s.config.Bind, s.config.Port)
	s.logger.WithField("addr", addr).Info("starting ftbuffer API server")
	s.logger.Infof("metrics available at http://%s/metrics", addr)

	return http.ListenAndServe(addr, NewRouter(s, nil))
}
