package catalog

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"bookshelf/internal/platform/googlebooks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProxy(t *testing.T, upstream http.HandlerFunc) *ProxyHandler {
	t.Helper()
	srv := httptest.NewServer(upstream)
	t.Cleanup(srv.Close)
	return NewProxyHandler(googlebooks.NewClient(srv.URL, "server-key", 1000, time.Second), nil)
}

func TestProxyHandler_Forwards(t *testing.T) {
	proxy := newProxy(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/volumes", r.URL.Path)
		assert.Equal(t, "javascript", r.URL.Query().Get("q"))
		assert.Equal(t, "server-key", r.URL.Query().Get("key"))
		assert.Empty(t, r.URL.Query().Get("endpoint"))
		_, _ = w.Write([]byte(`{"totalItems":3}`))
	})

	w := httptest.NewRecorder()
	proxy.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/books?endpoint=volumes&q=javascript", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.JSONEq(t, `{"totalItems":3}`, w.Body.String())
}

func TestProxyHandler_UpstreamError(t *testing.T) {
	proxy := newProxy(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte("rate limited"))
	})

	w := httptest.NewRecorder()
	proxy.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/books?endpoint=volumes/abc", nil))

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "API error", body["error"])
	assert.Equal(t, float64(http.StatusTooManyRequests), body["status"])
	assert.Equal(t, "rate limited", body["message"])
}

func TestProxyHandler_InvalidUpstreamJSON(t *testing.T) {
	proxy := newProxy(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>not json</html>"))
	})

	w := httptest.NewRecorder()
	proxy.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/books?endpoint=volumes&q=x", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Failed to fetch data", body["error"])
	assert.NotContains(t, w.Body.String(), "<html>")
}

func TestProxyHandler_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()
	proxy := NewProxyHandler(googlebooks.NewClient(srv.URL, "server-key", 1000, time.Second), nil)

	w := httptest.NewRecorder()
	proxy.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/books?endpoint=volumes", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Failed to fetch data")
	assert.NotContains(t, w.Body.String(), "server-key")
}

func TestProxyHandler_RequestValidation(t *testing.T) {
	proxy := newProxy(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("upstream must not be called")
	})

	tests := []struct {
		name   string
		method string
		target string
		status int
		text   string
	}{
		{"preflight", http.MethodOptions, "/api/books", http.StatusOK, ""},
		{"post", http.MethodPost, "/api/books?endpoint=volumes", http.StatusMethodNotAllowed, "Method not allowed"},
		{"missing endpoint", http.MethodGet, "/api/books?q=go", http.StatusBadRequest, "Missing endpoint parameter"},
		{"traversal", http.MethodGet, "/api/books?endpoint=../admin", http.StatusBadRequest, "Invalid endpoint parameter"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			proxy.ServeHTTP(w, httptest.NewRequest(tt.method, tt.target, strings.NewReader("")))

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
			if tt.text != "" {
				assert.Contains(t, w.Body.String(), tt.text)
			}
		})
	}
}
