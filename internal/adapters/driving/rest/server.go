package rest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/custodia-labs/clauseguard/internal/core/ports/driving"
	"github.com/custodia-labs/clauseguard/internal/logger"
)

// maxUploadBytes bounds request bodies, including multipart uploads.
const maxUploadBytes = 32 << 20

// Ports aggregates the driving ports served over HTTP.
type Ports struct {
	// Analysis runs the contract pipeline and manages stored analyses.
	Analysis driving.AnalysisService

	// Metrics serves /metrics. Optional.
	Metrics http.Handler

	// MCP serves the Model Context Protocol under /mcp. Optional.
	MCP http.Handler
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil || p.Analysis == nil {
		return ErrMissingAnalysisService
	}
	return nil
}

// Server is the REST API server.
type Server struct {
	ports  *Ports
	router *mux.Router
}

// NewServer builds the router for the given ports.
func NewServer(ports *Ports) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}

	s := &Server{ports: ports, router: mux.NewRouter()}
	s.routes()
	return s, nil
}

func (s *Server) routes() {
	r := s.router
	r.Use(limitBody, logRequests)

	r.HandleFunc("/health", s.health).Methods(http.MethodGet)
	if s.ports.Metrics != nil {
		r.Handle("/metrics", s.ports.Metrics).Methods(http.MethodGet)
	}
	if s.ports.MCP != nil {
		r.PathPrefix("/mcp").Handler(s.ports.MCP)
	}

	v1 := r.PathPrefix("/v1").Subrouter()
	v1.HandleFunc("/analyses", s.createAnalysis).Methods(http.MethodPost)
	v1.HandleFunc("/analyses", s.listAnalyses).Methods(http.MethodGet)
	v1.HandleFunc("/analyses/{id}", s.getAnalysis).Methods(http.MethodGet)
	v1.HandleFunc("/analyses/{id}", s.deleteAnalysis).Methods(http.MethodDelete)
	v1.HandleFunc("/analyses/{id}/clauses/{ordinal:[0-9]+}/comment", s.commentClause).Methods(http.MethodPut)

	v1.HandleFunc("/segment", s.segment).Methods(http.MethodPost)
	v1.HandleFunc("/score", s.score).Methods(http.MethodPost)
	v1.HandleFunc("/suggest", s.suggest).Methods(http.MethodPost)
	v1.HandleFunc("/plausibility", s.plausibility).Methods(http.MethodPost)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "route not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})
}

// Handler returns the HTTP handler for the API.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves the API on addr until the context is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		httpServer.Shutdown(shutdownCtx) //nolint:errcheck
	}()

	logger.Info("REST API listening on %s", addr)
	err := httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func limitBody(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
		next.ServeHTTP(w, r)
	})
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logger.Debug("%s %s (%s)", r.Method, r.URL.Path, time.Since(start).Round(time.Microsecond))
	})
}
