package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/streetbites/streetbites/internal/service"
	"github.com/streetbites/streetbites/pkg/httputil"
	"github.com/streetbites/streetbites/pkg/middleware"
	"github.com/streetbites/streetbites/pkg/validator"
)

// ReviewHandler handles HTTP requests for review endpoints.
type ReviewHandler struct {
	service *service.ReviewService
	logger  *slog.Logger
}

// NewReviewHandler creates a new review HTTP handler.
func NewReviewHandler(svc *service.ReviewService, logger *slog.Logger) *ReviewHandler {
	return &ReviewHandler{
		service: svc,
		logger:  logger,
	}
}

// CreateReviewRequest is the JSON request body for creating a review.
type CreateReviewRequest struct {
	VendorID      string   `json:"vendor_id" validate:"required"`
	Rating        int      `json:"rating" validate:"required,min=1,max=5"`
	HygieneRating *int     `json:"hygiene_rating" validate:"omitempty,min=1,max=5"`
	Body          string   `json:"body" validate:"max=2000"`
	Images        []string `json:"images" validate:"max=5,dive,url"`
}

// ListByVendor handles GET /api/v1/vendors/{id}/reviews.
func (h *ReviewHandler) ListByVendor(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.service.ListByVendor(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: reviews})
}

// Create handles POST /api/v1/reviews.
func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req CreateReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	review, err := h.service.Create(r.Context(), middleware.UserIDFromContext(r.Context()), &service.CreateReviewInput{
		VendorID:      req.VendorID,
		Rating:        req.Rating,
		HygieneRating: req.HygieneRating,
		Body:          req.Body,
		Images:        req.Images,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: review})
}

// Delete handles DELETE /api/v1/reviews/{id}.
func (h *ReviewHandler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.service.Delete(r.Context(), chi.URLParam(r, "id"), middleware.UserIDFromContext(r.Context()))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]bool{"deleted": true}})
}

// ToggleHelpful handles POST /api/v1/reviews/{id}/helpful.
func (h *ReviewHandler) ToggleHelpful(w http.ResponseWriter, r *http.Request) {
	helpful, err := h.service.ToggleHelpful(r.Context(), chi.URLParam(r, "id"), middleware.UserIDFromContext(r.Context()))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]bool{"helpful": helpful}})
}
