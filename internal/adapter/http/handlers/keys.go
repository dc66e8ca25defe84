package handlers

import (
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

const defaultTTLEnv = "DEFAULT_TTL"

// HandleGetKey returns the raw value stored for {key}, or 404.
func (h *Handlers) HandleGetKey(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]
	v, ok := h.Cache.Get(key)
	if !ok {
		http.Error(w, "key not found", http.StatusNotFound)
		return
	}
	serveValue(w, v)
}

// HandlePutKey stores the request body as the value for {key}. The TTL
// is read from the ?ttl= query parameter (a Go duration string, e.g.
// "30s") and otherwise defaults to the DEFAULT_TTL environment
// variable or 5 minutes.
func (h *Handlers) HandlePutKey(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return
	}

	ttl := getenvDuration(defaultTTLEnv, 5*time.Minute)
	if q := r.URL.Query().Get("ttl"); q != "" {
		if d, err := time.ParseDuration(q); err == nil {
			ttl = d
		}
	}

	h.Cache.Set(key, body, ttl)
	w.WriteHeader(http.StatusNoContent)
}

// HandleDeleteKey removes {key}, reporting 404 if it was absent.
func (h *Handlers) HandleDeleteKey(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]
	if !h.Cache.Delete(key) {
		http.Error(w, "key not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
