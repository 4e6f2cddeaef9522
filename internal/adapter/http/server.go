package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/ev-charger-map/internal/domain"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// maxSelectionBytes bounds the request body of POST /api/markers.
const maxSelectionBytes = 1 << 20

// MapService is the rendering surface the map front end talks to.
type MapService interface {
	sharedobs.ReadinessChecker
	Dataset() *domain.Dataset
	RequireSelection() bool
	Snapshot(ctx context.Context, sel domain.FilterSelection) (domain.MarkerSet, error)
}

// Server exposes the map API plus health, readiness, and metrics endpoints.
type Server struct {
	httpServer *http.Server
	svc        MapService
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /healthz, /readyz, /metrics and the
// /api routes. Cross-origin requests are allowed from allowedOrigins.
func NewServer(addr string, svc MapService, allowedOrigins []string, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      corsHandler(allowedOrigins)(mux),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		svc:    svc,
		logger: logger,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(svc))
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /api/options", s.handleOptions)
	mux.HandleFunc("POST /api/markers", s.handleMarkers)

	return s
}

func corsHandler(allowedOrigins []string) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	})
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

type optionsResponse struct {
	Options          domain.FilterOptions `json:"options"`
	View             domain.MapView       `json:"view"`
	RequireSelection bool                 `json:"require_selection"`
}

func (s *Server) handleOptions(w http.ResponseWriter, _ *http.Request) {
	ds := s.svc.Dataset()
	if ds == nil {
		writeError(w, http.StatusServiceUnavailable, "no dataset loaded")
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, optionsResponse{
		Options:          ds.Options,
		View:             ds.View,
		RequireSelection: s.svc.RequireSelection(),
	})
}

func (s *Server) handleMarkers(w http.ResponseWriter, r *http.Request) {
	var sel domain.FilterSelection
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxSelectionBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&sel); err != nil {
		writeError(w, http.StatusBadRequest, "invalid selection: "+err.Error())
		return
	}

	set, err := s.svc.Snapshot(r.Context(), sel)
	switch {
	case err == nil:
		sharedobs.WriteJSON(w, http.StatusOK, set)
	case errors.Is(err, domain.ErrUnknownMetric):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		s.logger.Error("render markers failed", "error", err)
		writeError(w, http.StatusServiceUnavailable, err.Error())
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	sharedobs.WriteJSON(w, status, map[string]string{"error": msg})
}
