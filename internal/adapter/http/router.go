package http

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/arynux/tickcache/internal/adapter/http/handlers"
)

func (s *Server) setupRoutes(h *handlers.Handlers, registry *prometheus.Registry) {
	api := s.router.PathPrefix("/v1").Subrouter()

	api.HandleFunc("/stats", h.HandleStats).Methods("GET")
	api.HandleFunc("/keys/{key}", h.HandleGetKey).Methods("GET")
	api.HandleFunc("/keys/{key}", h.HandlePutKey).Methods("PUT")
	api.HandleFunc("/keys/{key}", h.HandleDeleteKey).Methods("DELETE")

	s.router.HandleFunc("/health", h.HandleHealth).Methods("GET")
	s.router.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{})).Methods("GET")
}
