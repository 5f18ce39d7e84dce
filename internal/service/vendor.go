package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/streetbites/streetbites/internal/domain"
	"github.com/streetbites/streetbites/internal/repository"
	apperrors "github.com/streetbites/streetbites/pkg/errors"
	"github.com/streetbites/streetbites/pkg/geo"
)

// Search defaults.
const (
	DefaultRadiusKm = 5.0
	DefaultPriceMax = 1000
)

// Sort keys accepted by Search. Anything else falls back to distance.
const (
	SortByDistance = "distance"
	SortByRating   = "rating"
	SortByHygiene  = "hygieneRating"
)

// EventPublisher publishes domain events. Failures are logged by callers and
// never fail the originating request.
type EventPublisher interface {
	PublishVendorCreated(ctx context.Context, vendor *domain.Vendor) error
	PublishReviewCreated(ctx context.Context, review *domain.Review) error
	PublishReviewDeleted(ctx context.Context, review *domain.Review) error
	PublishTrailCompleted(ctx context.Context, trailID, userID string) error
}

// SearchParams holds the search criteria for vendor discovery. Zero values
// mean "not supplied"; defaults are applied by Search.
type SearchParams struct {
	Latitude   *float64
	Longitude  *float64
	RadiusKm   float64
	Query      string
	MinHygiene float64
	Cuisines   []string
	Category   string
	PriceMin   int
	PriceMax   int
	SortBy     string
}

// CreateVendorInput holds the client-suppliable fields for a new vendor.
// Rating, hygiene and favorite aggregates always start at zero.
type CreateVendorInput struct {
	Name         string
	Cuisine      string
	Categories   []string
	IsVegetarian bool
	Area         string
	Latitude     *float64
	Longitude    *float64
	Hygiene      domain.HygieneScores
	Price        domain.PriceRange
}

// VendorService implements the business logic for vendor operations.
type VendorService struct {
	repo     repository.VendorRepository
	producer EventPublisher
	logger   *slog.Logger
}

// NewVendorService creates a new vendor service.
func NewVendorService(repo repository.VendorRepository, producer EventPublisher, logger *slog.Logger) *VendorService {
	return &VendorService{
		repo:     repo,
		producer: producer,
		logger:   logger,
	}
}

// Create registers a new vendor with derived search keywords and zeroed
// aggregates.
func (s *VendorService) Create(ctx context.Context, userID string, input *CreateVendorInput) (*domain.Vendor, error) {
	if input.Name == "" {
		return nil, apperrors.InvalidInput("name is required")
	}
	if input.Latitude == nil != (input.Longitude == nil) {
		return nil, apperrors.InvalidInput("latitude and longitude must be supplied together")
	}

	now := time.Now().UTC()
	vendor := &domain.Vendor{
		ID:             uuid.New().String(),
		Name:           input.Name,
		Cuisine:        input.Cuisine,
		Categories:     input.Categories,
		IsVegetarian:   input.IsVegetarian,
		Area:           input.Area,
		Latitude:       input.Latitude,
		Longitude:      input.Longitude,
		Hygiene:        input.Hygiene,
		Price:          input.Price,
		SearchKeywords: domain.DeriveSearchKeywords(input.Name, input.Cuisine, input.Area),
		CreatedBy:      userID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.Create(ctx, vendor); err != nil {
		return nil, fmt.Errorf("create vendor: %w", err)
	}

	if err := s.producer.PublishVendorCreated(ctx, vendor); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish vendor.created event",
			slog.String("vendor_id", vendor.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "vendor created",
		slog.String("vendor_id", vendor.ID),
		slog.String("name", vendor.Name),
		slog.String("user_id", userID),
	)

	return vendor, nil
}

// Get retrieves a single vendor.
func (s *VendorService) Get(ctx context.Context, id string) (*domain.Vendor, error) {
	vendor, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get vendor: %w", err)
	}
	return vendor, nil
}

// Update modifies the descriptive fields of a vendor and re-derives its
// search keywords. Aggregates cannot be written through this path.
func (s *VendorService) Update(ctx context.Context, id string, input *CreateVendorInput) (*domain.Vendor, error) {
	if input.Name == "" {
		return nil, apperrors.InvalidInput("name is required")
	}
	if input.Latitude == nil != (input.Longitude == nil) {
		return nil, apperrors.InvalidInput("latitude and longitude must be supplied together")
	}

	vendor, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get vendor: %w", err)
	}

	vendor.Name = input.Name
	vendor.Cuisine = input.Cuisine
	vendor.Categories = input.Categories
	vendor.IsVegetarian = input.IsVegetarian
	vendor.Area = input.Area
	vendor.Latitude = input.Latitude
	vendor.Longitude = input.Longitude
	vendor.Hygiene = input.Hygiene
	vendor.Price = input.Price
	vendor.SearchKeywords = domain.DeriveSearchKeywords(input.Name, input.Cuisine, input.Area)
	vendor.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, vendor); err != nil {
		return nil, fmt.Errorf("update vendor: %w", err)
	}

	s.logger.InfoContext(ctx, "vendor updated", slog.String("vendor_id", id))

	return vendor, nil
}

// Search runs the vendor discovery pipeline: storage predicates, then the
// distance window when an origin is supplied, then the price window, then
// ordering. Vendors without a usable location are skipped from located
// searches rather than failing the whole result.
func (s *VendorService) Search(ctx context.Context, params SearchParams) ([]domain.VendorWithDistance, error) {
	radius := params.RadiusKm
	if radius <= 0 {
		radius = DefaultRadiusKm
	}
	priceMax := params.PriceMax
	if priceMax <= 0 {
		priceMax = DefaultPriceMax
	}

	vendors, err := s.repo.List(ctx, repository.VendorFilter{
		Query:      params.Query,
		MinHygiene: params.MinHygiene,
		Cuisines:   params.Cuisines,
		Category:   params.Category,
	})
	if err != nil {
		return nil, fmt.Errorf("search vendors: %w", err)
	}

	hasOrigin := params.Latitude != nil && params.Longitude != nil

	results := make([]domain.VendorWithDistance, 0, len(vendors))
	for _, v := range vendors {
		entry := domain.VendorWithDistance{Vendor: v}

		if hasOrigin {
			if !v.HasLocation() {
				continue
			}
			d := geo.Distance(*params.Latitude, *params.Longitude, *v.Latitude, *v.Longitude)
			if d > radius {
				continue
			}
			entry.DistanceKm = &d
		}

		if v.Price.Avg < params.PriceMin || v.Price.Avg > priceMax {
			continue
		}

		results = append(results, entry)
	}

	switch params.SortBy {
	case SortByRating:
		sort.SliceStable(results, func(i, j int) bool {
			return results[i].Rating > results[j].Rating
		})
	case SortByHygiene:
		sort.SliceStable(results, func(i, j int) bool {
			return results[i].HygieneRating > results[j].HygieneRating
		})
	default:
		// Distance order. Without an origin there are no distances and
		// storage order stands.
		if hasOrigin {
			sort.SliceStable(results, func(i, j int) bool {
				return *results[i].DistanceKm < *results[j].DistanceKm
			})
		}
	}

	return results, nil
}

// TopRated returns the highest-rated vendors, optionally narrowed to a
// category.
func (s *VendorService) TopRated(ctx context.Context, category string) ([]domain.Vendor, error) {
	vendors, err := s.repo.ListTop(ctx, category, 10)
	if err != nil {
		return nil, fmt.Errorf("top rated vendors: %w", err)
	}
	return vendors, nil
}

// Favorite adds the vendor to the user's favorites. Repeats are no-ops.
func (s *VendorService) Favorite(ctx context.Context, vendorID, userID string) error {
	if err := s.repo.AddFavorite(ctx, vendorID, userID); err != nil {
		return fmt.Errorf("favorite vendor: %w", err)
	}
	return nil
}

// Unfavorite removes the vendor from the user's favorites.
func (s *VendorService) Unfavorite(ctx context.Context, vendorID, userID string) error {
	if err := s.repo.RemoveFavorite(ctx, vendorID, userID); err != nil {
		return fmt.Errorf("unfavorite vendor: %w", err)
	}
	return nil
}
