package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/streetbites/streetbites/internal/domain"
	"github.com/streetbites/streetbites/internal/service"
	"github.com/streetbites/streetbites/pkg/httputil"
	"github.com/streetbites/streetbites/pkg/middleware"
	"github.com/streetbites/streetbites/pkg/validator"
)

// VendorHandler handles HTTP requests for vendor endpoints.
type VendorHandler struct {
	service *service.VendorService
	logger  *slog.Logger
}

// NewVendorHandler creates a new vendor HTTP handler.
func NewVendorHandler(svc *service.VendorService, logger *slog.Logger) *VendorHandler {
	return &VendorHandler{
		service: svc,
		logger:  logger,
	}
}

// --- Request DTOs ---

// VendorRequest is the JSON request body for creating or updating a vendor.
// Rating, hygiene-rating and favorite aggregates are server-owned and have
// no place in this schema.
type VendorRequest struct {
	Name         string   `json:"name" validate:"required,max=120"`
	Cuisine      string   `json:"cuisine" validate:"max=60"`
	Categories   []string `json:"categories" validate:"max=8,dive,max=40"`
	IsVegetarian bool     `json:"is_vegetarian"`
	Area         string   `json:"area" validate:"max=120"`
	Latitude     *float64 `json:"latitude" validate:"omitempty,latitude"`
	Longitude    *float64 `json:"longitude" validate:"omitempty,longitude"`
	Hygiene      struct {
		Cleanliness int `json:"cleanliness" validate:"min=0,max=5"`
		Ingredients int `json:"ingredients" validate:"min=0,max=5"`
		WaterSafety int `json:"water_safety" validate:"min=0,max=5"`
	} `json:"hygiene"`
	Price struct {
		Min int `json:"min" validate:"min=0"`
		Max int `json:"max" validate:"min=0"`
		Avg int `json:"avg" validate:"min=0"`
	} `json:"price"`
}

func (req *VendorRequest) toInput() *service.CreateVendorInput {
	return &service.CreateVendorInput{
		Name:         req.Name,
		Cuisine:      req.Cuisine,
		Categories:   req.Categories,
		IsVegetarian: req.IsVegetarian,
		Area:         req.Area,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		Hygiene: domain.HygieneScores{
			Cleanliness: req.Hygiene.Cleanliness,
			Ingredients: req.Hygiene.Ingredients,
			WaterSafety: req.Hygiene.WaterSafety,
		},
		Price: domain.PriceRange{
			Min: req.Price.Min,
			Max: req.Price.Max,
			Avg: req.Price.Avg,
		},
	}
}

// --- Handlers ---

// Search handles GET /api/v1/vendors.
func (h *VendorHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	params := service.SearchParams{
		Query:    q.Get("q"),
		Category: q.Get("category"),
		Cuisines: q["cuisine"],
		SortBy:   q.Get("sortBy"),
	}

	lat, latErr := parseFloat(q.Get("latitude"))
	lon, lonErr := parseFloat(q.Get("longitude"))
	if latErr != nil || lonErr != nil || (lat == nil) != (lon == nil) {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "latitude and longitude must both be valid numbers"},
		})
		return
	}
	params.Latitude = lat
	params.Longitude = lon

	if v := q.Get("radius"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			params.RadiusKm = f
		}
	}
	if v := q.Get("minHygieneRating"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			params.MinHygiene = f
		}
	}
	if v := q.Get("priceMin"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			params.PriceMin = n
		}
	}
	if v := q.Get("priceMax"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			params.PriceMax = n
		}
	}

	results, err := h.service.Search(r.Context(), params)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: results})
}

// Get handles GET /api/v1/vendors/{id}.
func (h *VendorHandler) Get(w http.ResponseWriter, r *http.Request) {
	vendor, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: vendor})
}

// Top handles GET /api/v1/vendors/top.
func (h *VendorHandler) Top(w http.ResponseWriter, r *http.Request) {
	vendors, err := h.service.TopRated(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: vendors})
}

// Create handles POST /api/v1/vendors.
func (h *VendorHandler) Create(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeVendorRequest(w, r)
	if !ok {
		return
	}

	vendor, err := h.service.Create(r.Context(), middleware.UserIDFromContext(r.Context()), req.toInput())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: vendor})
}

// Update handles PUT /api/v1/vendors/{id}.
func (h *VendorHandler) Update(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeVendorRequest(w, r)
	if !ok {
		return
	}

	vendor, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), req.toInput())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: vendor})
}

// Favorite handles PUT /api/v1/vendors/{id}/favorite.
func (h *VendorHandler) Favorite(w http.ResponseWriter, r *http.Request) {
	err := h.service.Favorite(r.Context(), chi.URLParam(r, "id"), middleware.UserIDFromContext(r.Context()))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]bool{"favorited": true}})
}

// Unfavorite handles DELETE /api/v1/vendors/{id}/favorite.
func (h *VendorHandler) Unfavorite(w http.ResponseWriter, r *http.Request) {
	err := h.service.Unfavorite(r.Context(), chi.URLParam(r, "id"), middleware.UserIDFromContext(r.Context()))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]bool{"favorited": false}})
}

func decodeVendorRequest(w http.ResponseWriter, r *http.Request) (*VendorRequest, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req VendorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return nil, false
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return nil, false
	}

	return &req, true
}

func parseFloat(s string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return &f, nil
}
