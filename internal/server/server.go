package server

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/lmendo/tripdesk/internal/backend"
	"github.com/lmendo/tripdesk/internal/pkg/config"
)

// Server holds the dependencies for the HTTP server
type Server struct {
	cfg     *config.Config
	logger  *zap.Logger
	backend *backend.Client
	router  http.Handler
}

// New creates a new Server instance with all dependencies
func New(cfg *config.Config, logger *zap.Logger) (*Server, error) {
	s := &Server{
		cfg:    cfg,
		logger: logger,
	}

	s.backend = backend.NewClient(cfg.Backend, cfg.Cache.CatalogTTL, logger)
	logger.Info("Booking API client ready",
		zap.String("baseURL", cfg.Backend.BaseURL),
		zap.Duration("timeout", cfg.Backend.Timeout))

	return s, nil
}

// HTTPServer creates and configures the HTTP server
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:         ":" + s.cfg.ServerPort,
		Handler:      s.router,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}

// SetRouter sets the HTTP router/handler
func (s *Server) SetRouter(router http.Handler) {
	s.router = router
}

// Backend returns the booking API client
func (s *Server) Backend() *backend.Client {
	return s.backend
}
