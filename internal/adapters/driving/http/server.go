// Package http exposes the chat API over net/http.
package http

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/eulens/eulens/internal/core/ports/driven"
	"github.com/eulens/eulens/internal/core/ports/driving"
	"github.com/eulens/eulens/internal/runtime"
)

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	router     *http.ServeMux
	version    string

	chatService   driving.ChatService
	ingestService driving.IngestionService
	services      *runtime.Services

	corsOrigins []string
	verifier    driven.TokenVerifier // nil leaves the API open
}

// Config holds server configuration
type Config struct {
	Host        string
	Port        int
	Version     string
	CORSOrigins []string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Host:        "0.0.0.0",
		Port:        8080,
		Version:     "dev",
		CORSOrigins: []string{"*"},
	}
}

// NewServer creates a new HTTP server. verifier may be nil.
func NewServer(
	cfg Config,
	chatService driving.ChatService,
	ingestService driving.IngestionService,
	services *runtime.Services,
	verifier driven.TokenVerifier,
) *Server {
	s := &Server{
		router:        http.NewServeMux(),
		version:       cfg.Version,
		chatService:   chatService,
		ingestService: ingestService,
		services:      services,
		corsOrigins:   cfg.CORSOrigins,
		verifier:      verifier,
	}

	s.httpServer = &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler: s.Handler(),
		// Completions can take most of a minute
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 150 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	protect := func(h http.HandlerFunc) http.Handler { return h }
	if s.verifier != nil {
		authMiddleware := NewAuthMiddleware(s.verifier)
		protect = func(h http.HandlerFunc) http.Handler { return authMiddleware.Authenticate(h) }
	}

	// Health endpoints (no auth)
	s.router.HandleFunc("GET /health", s.handleHealth)
	s.router.HandleFunc("GET /ready", s.handleReady)
	s.router.HandleFunc("GET /version", s.handleVersion)
	s.router.HandleFunc("GET /swagger/doc.json", s.handleSwaggerDoc)

	s.router.Handle("POST /api/chat", protect(s.handleChat))
	s.router.Handle("GET /api/documents", protect(s.handleListDocuments))
}

// Handler returns the router wrapped in the middleware chain
func (s *Server) Handler() http.Handler {
	var h http.Handler = s.router
	h = NewCORSMiddleware(s.corsOrigins).Handler(h)
	h = NewLoggingMiddleware().Handler(h)
	h = NewRecoveryMiddleware().Handler(h)
	h = NewRequestIDMiddleware().Handler(h)
	return h
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting server on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Println("Server stopped")
	return nil
}
