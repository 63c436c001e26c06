package catalog

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
)

// Fetcher forwards a raw GET to the catalog, returning status and body verbatim.
type Fetcher interface {
	RawGet(ctx context.Context, endpoint string, params url.Values) (int, []byte, error)
}

// ProxyHandler serves GET /api/books?endpoint=<path>&<params>, keeping the
// API key on the server side.
type ProxyHandler struct {
	fetcher Fetcher
	logger  *slog.Logger
}

func NewProxyHandler(fetcher Fetcher, logger *slog.Logger) *ProxyHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProxyHandler{fetcher: fetcher, logger: logger}
}

func (h *ProxyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != http.MethodGet {
		writeProxyJSON(w, http.StatusMethodNotAllowed, map[string]any{"error": "Method not allowed"})
		return
	}

	params := r.URL.Query()
	endpoint := strings.TrimLeft(params.Get("endpoint"), "/")
	if endpoint == "" {
		writeProxyJSON(w, http.StatusBadRequest, map[string]any{
			"error": "Missing endpoint parameter",
			"usage": "Example: /api/books?endpoint=volumes&q=javascript",
		})
		return
	}
	if strings.Contains(endpoint, "..") || strings.Contains(endpoint, "://") {
		writeProxyJSON(w, http.StatusBadRequest, map[string]any{"error": "Invalid endpoint parameter"})
		return
	}
	params.Del("endpoint")

	status, body, err := h.fetcher.RawGet(r.Context(), endpoint, params)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "proxy fetch failed", "endpoint", endpoint, "error", err)
		writeProxyJSON(w, http.StatusInternalServerError, map[string]any{
			"error":   "Failed to fetch data",
			"message": err.Error(),
		})
		return
	}

	if status < 200 || status >= 300 {
		h.logger.WarnContext(r.Context(), "proxy upstream error", "endpoint", endpoint, "status", status)
		writeProxyJSON(w, status, map[string]any{
			"error":   "API error",
			"status":  status,
			"message": string(body),
		})
		return
	}

	if !json.Valid(body) {
		h.logger.ErrorContext(r.Context(), "proxy upstream returned invalid json", "endpoint", endpoint, "bytes", len(body))
		writeProxyJSON(w, http.StatusInternalServerError, map[string]any{
			"error":   "Failed to fetch data",
			"message": "invalid JSON from upstream",
		})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func writeProxyJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
