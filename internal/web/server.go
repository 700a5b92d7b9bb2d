// Package web exposes identity generation over a JSON API.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/zarlcorp/zident/internal/identity"
	"github.com/zarlcorp/zident/internal/refdata"
)

const shutdownTimeout = 5 * time.Second

// Server handles the HTTP API over one loaded table set.
type Server struct {
	version string
	tables  *refdata.Store
	metrics *Metrics
}

// NewServer builds a server. metrics may be nil.
func NewServer(version string, tables *refdata.Store, metrics *Metrics) *Server {
	return &Server{version: version, tables: tables, metrics: metrics}
}

// Router assembles the chi routing tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)
	r.Get("/api/fields", s.handleFields)
	r.Post("/api/generate", s.handleGenerate)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	return r
}

// Run serves the API until ctx is canceled, then shuts down gracefully.
func Run(ctx context.Context, addr, version string, tables *refdata.Store) error {
	s := NewServer(version, tables, NewMetrics())

	srv := &http.Server{
		Addr:    addr,
		Handler: s.Router(),
	}

	errc := make(chan error, 1)
	go func() {
		slog.Info("api listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": s.version,
	})
}

func (s *Server) handleFields(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"fields": identity.AllFields(),
	})
}

// generateResponse is the body of a successful POST /api/generate.
type generateResponse struct {
	Count      int                 `json:"count"`
	Identities []identity.Identity `json:"identities"`
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var cfg identity.Config
	// an empty body means "one record, all fields"
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		s.metrics.IncrementFailure("invalid_config")
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}

	if err := cfg.Validate(); err != nil {
		s.metrics.IncrementFailure("invalid_config")
		writeError(w, http.StatusBadRequest, err)
		return
	}

	start := time.Now()
	g := identity.NewGenerator(s.tables, cfg.Seed)
	batch, err := g.GenerateBatch(cfg)
	if err != nil {
		s.metrics.IncrementFailure("error")
		slog.Error("generate", "err", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.metrics.ObserveBatch(len(batch), time.Since(start))

	writeJSON(w, http.StatusOK, generateResponse{
		Count:      len(batch),
		Identities: batch,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "err", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
