package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/streetbites/streetbites/internal/service"
	"github.com/streetbites/streetbites/pkg/httputil"
	"github.com/streetbites/streetbites/pkg/middleware"
	"github.com/streetbites/streetbites/pkg/validator"
)

// ProfileHandler handles HTTP requests for the caller's profile and
// recommendations.
type ProfileHandler struct {
	profiles  *service.ProfileService
	recommend *service.RecommendService
	logger    *slog.Logger
}

// NewProfileHandler creates a new profile HTTP handler.
func NewProfileHandler(profiles *service.ProfileService, recommend *service.RecommendService, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{
		profiles:  profiles,
		recommend: recommend,
		logger:    logger,
	}
}

// UpdateProfileRequest is the JSON request body for profile updates. Review
// counts and timestamps are server-owned and not part of this schema.
type UpdateProfileRequest struct {
	DisplayName        string   `json:"display_name" validate:"required,max=80"`
	PhotoURL           string   `json:"photo_url" validate:"omitempty,url"`
	DietaryPreferences []string `json:"dietary_preferences" validate:"max=10,dive,max=40"`
	FavoriteCuisines   []string `json:"favorite_cuisines" validate:"max=10,dive,max=60"`
}

// Get handles GET /api/v1/profile.
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, err := h.profiles.Get(r.Context(), middleware.UserIDFromContext(r.Context()))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: user})
}

// Update handles PUT /api/v1/profile.
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req UpdateProfileRequest
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

	user, err := h.profiles.Update(r.Context(), middleware.UserIDFromContext(r.Context()), &service.UpdateProfileInput{
		DisplayName:        req.DisplayName,
		PhotoURL:           req.PhotoURL,
		DietaryPreferences: req.DietaryPreferences,
		FavoriteCuisines:   req.FavoriteCuisines,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: user})
}

// Recommendations handles GET /api/v1/recommendations.
func (h *ProfileHandler) Recommendations(w http.ResponseWriter, r *http.Request) {
	vendors, err := h.recommend.Recommend(r.Context(), middleware.UserIDFromContext(r.Context()), r.URL.Query().Get("category"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: vendors})
}
