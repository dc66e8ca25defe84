package handlers

import (
	"net/http"
	"time"

	json "github.com/goccy/go-json"
)

// HandleHealth reports basic liveness.
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	health := map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().Unix(),
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(health)
}

// HandleStats returns the cache's size and hit/miss/eviction counters.
func (h *Handlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(h.Cache.Stats())
}
