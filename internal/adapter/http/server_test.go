package http

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	json "github.com/goccy/go-json"

	"github.com/arynux/tickcache"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	c, err := tickcache.New[string, []byte](64)
	if err != nil {
		t.Fatalf("tickcache.New: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return NewServer(c)
}

func TestHTTPKeyRoundTrip(t *testing.T) {
	s := newTestServer(t)
	router := s.Router()

	put := httptest.NewRequest(http.MethodPut, "/v1/keys/foo", bytes.NewReader([]byte("bar")))
	putResp := httptest.NewRecorder()
	router.ServeHTTP(putResp, put)
	if putResp.Code != http.StatusNoContent {
		t.Fatalf("PUT /v1/keys/foo = %d, want %d", putResp.Code, http.StatusNoContent)
	}

	get := httptest.NewRequest(http.MethodGet, "/v1/keys/foo", nil)
	getResp := httptest.NewRecorder()
	router.ServeHTTP(getResp, get)
	if getResp.Code != http.StatusOK {
		t.Fatalf("GET /v1/keys/foo = %d, want %d", getResp.Code, http.StatusOK)
	}
	if got := getResp.Body.String(); got != "bar" {
		t.Fatalf("GET /v1/keys/foo body = %q, want %q", got, "bar")
	}

	del := httptest.NewRequest(http.MethodDelete, "/v1/keys/foo", nil)
	delResp := httptest.NewRecorder()
	router.ServeHTTP(delResp, del)
	if delResp.Code != http.StatusNoContent {
		t.Fatalf("DELETE /v1/keys/foo = %d, want %d", delResp.Code, http.StatusNoContent)
	}

	getAfterDelete := httptest.NewRequest(http.MethodGet, "/v1/keys/foo", nil)
	getAfterDeleteResp := httptest.NewRecorder()
	router.ServeHTTP(getAfterDeleteResp, getAfterDelete)
	if getAfterDeleteResp.Code != http.StatusNotFound {
		t.Fatalf("GET /v1/keys/foo after delete = %d, want %d", getAfterDeleteResp.Code, http.StatusNotFound)
	}

	statsReq := httptest.NewRequest(http.MethodGet, "/v1/stats", nil)
	statsResp := httptest.NewRecorder()
	router.ServeHTTP(statsResp, statsReq)
	if statsResp.Code != http.StatusOK {
		t.Fatalf("GET /v1/stats = %d, want %d", statsResp.Code, http.StatusOK)
	}

	var stats tickcache.Stats
	if err := json.Unmarshal(statsResp.Body.Bytes(), &stats); err != nil {
		t.Fatalf("decode stats: %v", err)
	}
	if stats.Size != 0 {
		t.Fatalf("stats.Size = %d, want 0 after delete", stats.Size)
	}
}

func TestHTTPHealth(t *testing.T) {
	s := newTestServer(t)
	router := s.Router()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("GET /health = %d, want %d", resp.Code, http.StatusOK)
	}
}

func TestHTTPMetricsExposesCacheCounters(t *testing.T) {
	s := newTestServer(t)
	router := s.Router()

	put := httptest.NewRequest(http.MethodPut, "/v1/keys/foo", bytes.NewReader([]byte("bar")))
	putResp := httptest.NewRecorder()
	router.ServeHTTP(putResp, put)
	if putResp.Code != http.StatusNoContent {
		t.Fatalf("PUT /v1/keys/foo = %d, want %d", putResp.Code, http.StatusNoContent)
	}

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("GET /metrics = %d, want %d", resp.Code, http.StatusOK)
	}
	if !strings.Contains(resp.Body.String(), "tickcache_entries") {
		t.Fatalf("metrics output missing tickcache_entries gauge:\n%s", resp.Body.String())
	}
}

func TestHTTPGetMissingKeyIs404(t *testing.T) {
	s := newTestServer(t)
	router := s.Router()

	req := httptest.NewRequest(http.MethodGet, "/v1/keys/missing", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("GET /v1/keys/missing = %d, want %d", resp.Code, http.StatusNotFound)
	}
}
