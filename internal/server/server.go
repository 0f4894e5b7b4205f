// Package server wraps an http.Handler with the shared middleware chain
// and lifecycle management used by the backend binaries.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/apibridge/apibridge/internal/common"
)

// Server manages the HTTP server lifecycle.
type Server struct {
	server *http.Server
	logger *common.Logger
}

// New creates an HTTP server serving handler behind the middleware chain.
func New(host string, port int, handler http.Handler, logger *common.Logger) *Server {
	s := &Server{logger: logger}

	addr := fmt.Sprintf("%s:%d", host, port)
	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.withMiddleware(handler),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return s
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	s.logger.Info().
		Str("address", s.server.Addr).
		Str("url", fmt.Sprintf("http://%s", s.server.Addr)).
		Msg("HTTP server starting")

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("shutting down HTTP server")

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.logger.Info().Msg("HTTP server stopped")
	return nil
}

// Handler returns the HTTP handler for testing.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}
