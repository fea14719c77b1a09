// Package api exposes the decision engine over HTTP for the barcode
// scanner client.
package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ncuskey/lothelper-engine/internal/api/handlers"
	"github.com/ncuskey/lothelper-engine/internal/api/middleware"
	"github.com/ncuskey/lothelper-engine/internal/application/scan"
)

// Config holds API server configuration.
type Config struct {
	Addr           string
	AllowedOrigins []string

	// DefaultAcquisitionCost is assumed when a scan omits the cost.
	DefaultAcquisitionCost float64
}

// DefaultConfig returns sensible defaults for the API server.
func DefaultConfig() Config {
	return Config{
		Addr:           ":8090",
		AllowedOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
	}
}

// Server is the HTTP API server.
type Server struct {
	config     Config
	router     chi.Router
	httpServer *http.Server
	logger     *slog.Logger
	scans      *scan.Service
}

// NewServer creates a new API server.
func NewServer(cfg Config, scans *scan.Service, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Addr == "" {
		cfg.Addr = DefaultConfig().Addr
	}

	s := &Server{
		config: cfg,
		router: chi.NewRouter(),
		logger: logger,
		scans:  scans,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// setupMiddleware configures global middleware.
func (s *Server) setupMiddleware() {
	corsConfig := middleware.CORSConfig{
		AllowedOrigins: s.config.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}
	s.router.Use(middleware.CORS(corsConfig))
	s.router.Use(middleware.Logging(s.logger))
}

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	// Health check (no /api prefix - for load balancers)
	healthHandler := handlers.NewHealthHandler()
	s.router.Get("/health", healthHandler.ServeHTTP)

	s.router.Route("/api", func(r chi.Router) {
		scansHandler := handlers.NewScansHandler(s.scans, s.config.DefaultAcquisitionCost)
		r.Post("/scans", scansHandler.Start)
		r.Get("/scans/{id}", scansHandler.Get)
		r.Post("/scans/{id}/resolve", scansHandler.Resolve)

		decisionsHandler := handlers.NewDecisionsHandler(s.scans)
		r.Post("/decisions", decisionsHandler.Create)

		booksHandler := handlers.NewBooksHandler(s.scans)
		r.Get("/books/{isbn}/duplicate", booksHandler.Duplicate)

		seriesHandler := handlers.NewSeriesHandler(s.scans)
		r.Get("/series/context", seriesHandler.Context)
	})
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:         s.config.Addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("starting API server", "addr", s.config.Addr)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down API server")

	if s.httpServer == nil {
		return nil
	}

	return s.httpServer.Shutdown(ctx)
}

// Router returns the chi router for testing.
func (s *Server) Router() chi.Router {
	return s.router
}
