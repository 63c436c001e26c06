package library

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"bookshelf/internal/catalog"
	"bookshelf/internal/entity"
	"bookshelf/internal/httpx"

	"github.com/go-chi/chi/v5"
)

// Resolver looks up a catalog record by volume id.
type Resolver interface {
	Get(ctx context.Context, id string) (entity.Record, error)
}

type HTTPHandler struct {
	store    *Store
	resolver Resolver
}

func NewHTTPHandler(store *Store, resolver Resolver) *HTTPHandler {
	return &HTTPHandler{store: store, resolver: resolver}
}

// Register mounts the library, review, goal and stats routes on r.
func (h *HTTPHandler) Register(r chi.Router) {
	r.Get("/v1/library", h.GetLibrary)
	r.Post("/v1/library/shelves/{shelf}", h.AddToShelf)
	r.Get("/v1/library/books/{id}", h.GetEntry)
	r.Delete("/v1/library/books/{id}", h.Remove)
	r.Patch("/v1/library/books/{id}/progress", h.UpdateProgress)

	r.Get("/v1/reviews", h.ListReviews)
	r.Get("/v1/reviews/{id}", h.GetReview)
	r.Put("/v1/reviews/{id}", h.SaveReview)

	r.Get("/v1/goal", h.GetGoal)
	r.Put("/v1/goal", h.SaveGoal)
	r.Get("/v1/goal/progress", h.GetGoalProgress)

	r.Get("/v1/stats", h.GetStats)
}

type addToShelfRequest struct {
	Record *entity.Record `json:"record"`
	ID     string         `json:"id" validate:"required_without=Record"`
}

type progressRequest struct {
	Progress *int `json:"progress" validate:"omitempty,gte=0,lte=100"`
	Page     *int `json:"page" validate:"omitempty,gte=0"`
}

type goalRequest struct {
	Target int `json:"target" validate:"gte=1"`
}

// GetLibrary handles GET /v1/library
func (h *HTTPHandler) GetLibrary(w http.ResponseWriter, r *http.Request) {
	lib, err := h.store.Library(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, lib, nil)
}

// AddToShelf handles POST /v1/library/shelves/{shelf}. The body carries
// either a full record or a volume id to resolve through the catalog.
func (h *HTTPHandler) AddToShelf(w http.ResponseWriter, r *http.Request) {
	shelf, err := ParseShelf(chi.URLParam(r, "shelf"))
	if err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "shelf must be one of reading, wantToRead, read", nil)
		return
	}

	var req addToShelfRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}
	if details := httpx.ValidateStruct(req); details != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", details)
		return
	}

	var rec entity.Record
	if req.Record != nil {
		rec = *req.Record
	} else {
		rec, err = h.resolver.Get(r.Context(), req.ID)
		if err != nil {
			if errors.Is(err, catalog.ErrNotFound) {
				httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Book not found in catalog", nil)
				return
			}
			slog.WarnContext(r.Context(), "resolve catalog record", "id", req.ID, "error", err)
			httpx.JSONError(w, r, http.StatusBadGateway, "UPSTREAM_ERROR", "Failed to fetch data from the catalog", nil)
			return
		}
	}

	lib, err := h.store.AddToShelf(r.Context(), rec, shelf)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccessCreated(w, r, lib)
}

// GetEntry handles GET /v1/library/books/{id}
func (h *HTTPHandler) GetEntry(w http.ResponseWriter, r *http.Request) {
	entry, ok, err := h.store.Entry(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if !ok {
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Book is not in the library", nil)
		return
	}
	httpx.JSONSuccess(w, r, entry, map[string]any{"current_page": entry.CurrentPage()})
}

// Remove handles DELETE /v1/library/books/{id}
func (h *HTTPHandler) Remove(w http.ResponseWriter, r *http.Request) {
	lib, err := h.store.Remove(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, lib, nil)
}

// UpdateProgress handles PATCH /v1/library/books/{id}/progress
func (h *HTTPHandler) UpdateProgress(w http.ResponseWriter, r *http.Request) {
	var req progressRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}
	if (req.Progress == nil) == (req.Page == nil) {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", []httpx.ErrorDetail{
			{Field: "progress", Message: "exactly one of progress or page is required"},
		})
		return
	}
	if details := httpx.ValidateStruct(req); details != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", details)
		return
	}

	id := chi.URLParam(r, "id")
	var (
		lib Library
		err error
	)
	if req.Progress != nil {
		lib, err = h.store.UpdateProgress(r.Context(), id, *req.Progress)
	} else {
		lib, err = h.store.UpdatePageProgress(r.Context(), id, *req.Page)
	}
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, lib, nil)
}

// ListReviews handles GET /v1/reviews
func (h *HTTPHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.store.Reviews(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, reviews, map[string]any{"total": len(reviews)})
}

// GetReview handles GET /v1/reviews/{id}
func (h *HTTPHandler) GetReview(w http.ResponseWriter, r *http.Request) {
	review, ok, err := h.store.Review(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if !ok {
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "No review for this book", nil)
		return
	}
	httpx.JSONSuccess(w, r, review, nil)
}

// SaveReview handles PUT /v1/reviews/{id}
func (h *HTTPHandler) SaveReview(w http.ResponseWriter, r *http.Request) {
	var req ReviewInput
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}
	if details := httpx.ValidateStruct(req); details != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", details)
		return
	}

	review, err := h.store.SaveReview(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, review, nil)
}

// GetGoal handles GET /v1/goal
func (h *HTTPHandler) GetGoal(w http.ResponseWriter, r *http.Request) {
	goal, err := h.store.ReadingGoal(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, goal, nil)
}

// SaveGoal handles PUT /v1/goal
func (h *HTTPHandler) SaveGoal(w http.ResponseWriter, r *http.Request) {
	var req goalRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}
	if details := httpx.ValidateStruct(req); details != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", details)
		return
	}

	goal, err := h.store.SaveReadingGoal(r.Context(), req.Target)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, goal, nil)
}

// GetGoalProgress handles GET /v1/goal/progress
func (h *HTTPHandler) GetGoalProgress(w http.ResponseWriter, r *http.Request) {
	gp, err := h.store.GoalProgress(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, gp, nil)
}

// GetStats handles GET /v1/stats
func (h *HTTPHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.Statistics(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, stats, nil)
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Book is not in the library", nil)
	case errors.Is(err, ErrInvalidShelf), errors.Is(err, ErrInvalidProgress),
		errors.Is(err, ErrInvalidRating), errors.Is(err, ErrInvalidGoal),
		errors.Is(err, ErrInvalidRecord), errors.Is(err, ErrNoPageCount):
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
	case errors.Is(err, ErrCorruptState):
		slog.ErrorContext(r.Context(), "library state is corrupt", "error", err)
		httpx.JSONError(w, r, http.StatusInternalServerError, "CORRUPT_STATE", "Stored library data could not be read", nil)
	case errors.Is(err, ErrPersistence):
		slog.ErrorContext(r.Context(), "library storage failure", "error", err)
		httpx.JSONError(w, r, http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE", "Library storage is unavailable", nil)
	default:
		slog.ErrorContext(r.Context(), "library request failed", "error", err)
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
	}
}
