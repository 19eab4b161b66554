// Package server provides the HTTP surface of the ask endpoint.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/at-ishikawa/ragask/internal/config"
)

const shutdownTimeout = 10 * time.Second

// NewRouter wires the routes and middleware around an ask service
func NewRouter(service asker, allowedOrigin string) http.Handler {
	askHandler := NewAskHandler(service)

	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(RequestID)
	r.Use(AccessLog)
	r.Use(CORS(allowedOrigin))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/rag/ask", askHandler.Ask)
	// Path of the web backend gateway, kept for existing frontends
	r.Post("/api/v1/rag/ask", askHandler.Ask)

	return r
}

type Server struct {
	httpServer *http.Server
}

func New(cfg config.ServerConfig, service asker) *Server {
	handler := NewRouter(service, cfg.AllowedOrigin)
	return &Server{
		httpServer: &http.Server{
			Addr:              cfg.Address(),
			Handler:           h2c.NewHandler(handler, &http2.Server{}),
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Run serves until ctx is cancelled and then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		slog.Default().Info("Starting server", "addr", s.httpServer.Addr)
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("httpServer.ListenAndServe() > %w", err)
	case <-ctx.Done():
	}

	slog.Default().Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("httpServer.Shutdown() > %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("httpServer.ListenAndServe() > %w", err)
	}
	return nil
}
