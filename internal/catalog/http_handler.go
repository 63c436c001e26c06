package catalog

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"bookshelf/internal/httpx"

	"github.com/go-chi/chi/v5"
)

const maxPageSize = 40

type HTTPHandler struct {
	svc *Service
}

func NewHTTPHandler(svc *Service) *HTTPHandler {
	return &HTTPHandler{svc: svc}
}

// Search handles GET /v1/catalog/search
func (h *HTTPHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	q := strings.TrimSpace(query.Get("q"))
	if q == "" {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "q is required", nil)
		return
	}

	maxResults := pageSize(query.Get("max_results"))
	startIndex, _ := strconv.Atoi(query.Get("start_index"))
	if startIndex < 0 {
		startIndex = 0
	}

	page, err := h.svc.Search(r.Context(), q, maxResults, startIndex)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	httpx.JSONSuccess(w, r, page.Items, map[string]any{
		"total":       page.TotalItems,
		"max_results": maxResults,
		"start_index": startIndex,
	})
}

// Volume handles GET /v1/catalog/volumes/{id}
func (h *HTTPHandler) Volume(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "id is required", nil)
		return
	}

	details, err := h.svc.Details(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, details, nil)
}

// Category handles GET /v1/catalog/categories/{category}
func (h *HTTPHandler) Category(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")
	if category == "" {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "category is required", nil)
		return
	}

	maxResults := pageSize(r.URL.Query().Get("max_results"))
	page, err := h.svc.ByCategory(r.Context(), category, maxResults)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, page.Items, map[string]any{
		"total":    page.TotalItems,
		"category": category,
	})
}

// Trending handles GET /v1/catalog/trending
func (h *HTTPHandler) Trending(w http.ResponseWriter, r *http.Request) {
	page, err := h.svc.Trending(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, page.Items, map[string]any{"total": page.TotalItems})
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, ErrNotFound) {
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Book not found in catalog", nil)
		return
	}
	slog.WarnContext(r.Context(), "catalog request failed", "error", err)
	httpx.JSONError(w, r, http.StatusBadGateway, "UPSTREAM_ERROR", "Failed to fetch data from the catalog", nil)
}

func pageSize(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0
	}
	if n > maxPageSize {
		return maxPageSize
	}
	return n
}
