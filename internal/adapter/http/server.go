// Package http exposes a tickcache.Cache over a small gorilla/mux HTTP
// surface: key read/write/delete, a stats endpoint, a health check,
// and Prometheus metrics.
package http

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/arynux/tickcache"
	"github.com/arynux/tickcache/internal/adapter/http/handlers"
)

// ServerConfig holds the HTTP server's listen and timeout settings.
type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	EnableCORS   bool
}

// DefaultServerConfig returns the documented defaults.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Port:         8080,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
		EnableCORS:   true,
	}
}

// Server wraps a *tickcache.Cache[string, []byte] in an HTTP router.
type Server struct {
	router *mux.Router
	srv    *http.Server
}

// NewServer builds a Server with default configuration.
func NewServer(cache *tickcache.Cache[string, []byte]) *Server {
	return NewServerWithConfig(cache, DefaultServerConfig())
}

// NewServerWithConfig builds a Server with the given configuration.
func NewServerWithConfig(cache *tickcache.Cache[string, []byte], cfg ServerConfig) *Server {
	registry := prometheus.NewRegistry()
	registry.MustRegister(cache.Collector())

	s := &Server{router: mux.NewRouter()}
	s.setupRoutes(handlers.New(cache), registry)

	var handler http.Handler = s.router
	if cfg.EnableCORS {
		handler = CorsMiddleware(handler)
	}

	s.srv = &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.Port),
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return s
}

// Router returns the server's handler, CORS-wrapped if enabled.
func (s *Server) Router() http.Handler {
	return s.srv.Handler
}

// ListenAndServe starts serving, blocking until Shutdown or an error.
func (s *Server) ListenAndServe() error {
	return s.srv.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
