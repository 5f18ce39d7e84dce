package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/streetbites/streetbites/internal/service"
	"github.com/streetbites/streetbites/pkg/httputil"
	"github.com/streetbites/streetbites/pkg/middleware"
)

// TrailHandler handles HTTP requests for food trail endpoints.
type TrailHandler struct {
	service *service.TrailService
	logger  *slog.Logger
}

// NewTrailHandler creates a new trail HTTP handler.
func NewTrailHandler(svc *service.TrailService, logger *slog.Logger) *TrailHandler {
	return &TrailHandler{
		service: svc,
		logger:  logger,
	}
}

// List handles GET /api/v1/trails.
func (h *TrailHandler) List(w http.ResponseWriter, r *http.Request) {
	trails, err := h.service.List(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: trails})
}

// Get handles GET /api/v1/trails/{id}.
func (h *TrailHandler) Get(w http.ResponseWriter, r *http.Request) {
	detail, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: detail})
}

// Complete handles POST /api/v1/trails/{id}/complete.
func (h *TrailHandler) Complete(w http.ResponseWriter, r *http.Request) {
	err := h.service.Complete(r.Context(), chi.URLParam(r, "id"), middleware.UserIDFromContext(r.Context()))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]bool{"completed": true}})
}

// Favorite handles PUT /api/v1/trails/{id}/favorite.
func (h *TrailHandler) Favorite(w http.ResponseWriter, r *http.Request) {
	err := h.service.Favorite(r.Context(), chi.URLParam(r, "id"), middleware.UserIDFromContext(r.Context()))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]bool{"favorited": true}})
}

// Unfavorite handles DELETE /api/v1/trails/{id}/favorite.
func (h *TrailHandler) Unfavorite(w http.ResponseWriter, r *http.Request) {
	err := h.service.Unfavorite(r.Context(), chi.URLParam(r, "id"), middleware.UserIDFromContext(r.Context()))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]bool{"favorited": false}})
}
