package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/streetbites/streetbites/internal/service"
	"github.com/streetbites/streetbites/pkg/health"
	"github.com/streetbites/streetbites/pkg/middleware"
)

// RouterConfig bundles the dependencies for the HTTP surface.
type RouterConfig struct {
	Vendors     *service.VendorService
	Reviews     *service.ReviewService
	Trails      *service.TrailService
	Profiles    *service.ProfileService
	Recommend   *service.RecommendService
	Health      *health.Handler
	Validate    middleware.TokenValidator
	CORS        middleware.CORSConfig
	CacheMaxAge int
	Logger      *slog.Logger
}

// NewRouter creates a chi router with all routes registered. Read endpoints
// are public; writes and profile reads sit behind bearer-token auth.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.CORS(cfg.CORS))
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.RequestLogging(cfg.Logger))
	r.Use(middleware.RequestLogger(cfg.Logger))
	r.Use(middleware.PrometheusMetrics("streetbites"))

	r.Get("/health/live", cfg.Health.LivenessHandler())
	r.Get("/health/ready", cfg.Health.ReadinessHandler())
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	vendorHandler := NewVendorHandler(cfg.Vendors, cfg.Logger)
	reviewHandler := NewReviewHandler(cfg.Reviews, cfg.Logger)
	trailHandler := NewTrailHandler(cfg.Trails, cfg.Logger)
	profileHandler := NewProfileHandler(cfg.Profiles, cfg.Recommend, cfg.Logger)

	// Public read surface.
	r.Group(func(r chi.Router) {
		if cfg.CacheMaxAge > 0 {
			r.Use(middleware.CacheControl(cfg.CacheMaxAge))
		}

		r.Get("/api/v1/vendors", vendorHandler.Search)
		r.Get("/api/v1/vendors/top", vendorHandler.Top)
		r.Get("/api/v1/vendors/{id}", vendorHandler.Get)
		r.Get("/api/v1/vendors/{id}/reviews", reviewHandler.ListByVendor)
		r.Get("/api/v1/trails", trailHandler.List)
		r.Get("/api/v1/trails/{id}", trailHandler.Get)
	})

	// Authenticated surface.
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(cfg.Validate))
		r.Use(ContentTypeJSON)

		r.Post("/api/v1/vendors", vendorHandler.Create)
		r.Put("/api/v1/vendors/{id}", vendorHandler.Update)
		r.Put("/api/v1/vendors/{id}/favorite", vendorHandler.Favorite)
		r.Delete("/api/v1/vendors/{id}/favorite", vendorHandler.Unfavorite)

		r.Post("/api/v1/reviews", reviewHandler.Create)
		r.Delete("/api/v1/reviews/{id}", reviewHandler.Delete)
		r.Post("/api/v1/reviews/{id}/helpful", reviewHandler.ToggleHelpful)

		r.Post("/api/v1/trails/{id}/complete", trailHandler.Complete)
		r.Put("/api/v1/trails/{id}/favorite", trailHandler.Favorite)
		r.Delete("/api/v1/trails/{id}/favorite", trailHandler.Unfavorite)

		r.Get("/api/v1/recommendations", profileHandler.Recommendations)
		r.Get("/api/v1/profile", profileHandler.Get)
		r.Put("/api/v1/profile", profileHandler.Update)
	})

	return r
}
