package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/semaphore"

	"github.com/veonlok/Your-Search-Wrapped/internal/analysis"
)

// Analyzer runs one analysis over an uploaded archive.
type Analyzer interface {
	AnalyzeHistory(ctx context.Context, archive []byte, targetYear int) (*analysis.Bundle, error)
}

// RunLister reads the run ledger.
type RunLister interface {
	RecentRuns(ctx context.Context, limit int) ([]analysis.Run, error)
}

type Options struct {
	Port           int
	DefaultYear    int
	MaxUploadBytes int64
	MaxConcurrent  int64
	AllowedOrigins []string
	// APIToken guards the run ledger routes. Empty disables them.
	APIToken string
}

type Server struct {
	router   *chi.Mux
	opts     Options
	analyzer Analyzer
	runs     RunLister
	slots    *semaphore.Weighted
	logger   *slog.Logger
	http     *http.Server
}

// NewServer wires the routes. runs may be nil when no ledger is configured.
func NewServer(opts Options, analyzer Analyzer, runs RunLister, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.MaxConcurrent <= 0 {
		opts.MaxConcurrent = 1
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 200 << 20
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(corsMiddleware(opts.AllowedOrigins))

	s := &Server{
		router:   router,
		opts:     opts,
		analyzer: analyzer,
		runs:     runs,
		slots:    semaphore.NewWeighted(opts.MaxConcurrent),
		logger:   logger,
	}

	router.Get("/health", s.health)
	router.Route("/api/v1/search", func(r chi.Router) {
		r.Post("/search-history", s.searchHistory)
		if runs != nil && opts.APIToken != "" {
			r.With(BearerAuthMiddleware(opts.APIToken)).Get("/runs", s.listRuns)
		}
	})

	return s
}

// Handler exposes the router, e.g. for httptest.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.opts.Port)
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("API server starting", "addr", addr)
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown waits for in-flight analyses up to the context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
