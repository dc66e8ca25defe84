// Package handlers implements the HTTP endpoints of the cache demo
// server.
package handlers

import (
	"net/http"
	"os"
	"time"

	"github.com/arynux/tickcache"
)

// Handlers holds the dependencies needed to serve requests.
type Handlers struct {
	Cache *tickcache.Cache[string, []byte]
}

// New builds a Handlers around cache.
func New(cache *tickcache.Cache[string, []byte]) *Handlers {
	return &Handlers{Cache: cache}
}

// getenvDuration reads a duration from the environment, falling back
// to def on absence or parse failure.
func getenvDuration(name string, def time.Duration) time.Duration {
	if v := os.Getenv(name); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func serveValue(w http.ResponseWriter, v []byte) {
	w.Header().Set("Content-Type", "application/octet-stream")
	_, _ = w.Write(v)
}
