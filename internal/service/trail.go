package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/streetbites/streetbites/internal/domain"
	"github.com/streetbites/streetbites/internal/repository"
)

// TrailService implements the business logic for food trail operations.
type TrailService struct {
	trails   repository.TrailRepository
	vendors  repository.VendorRepository
	producer EventPublisher
	logger   *slog.Logger
}

// NewTrailService creates a new trail service.
func NewTrailService(trails repository.TrailRepository, vendors repository.VendorRepository, producer EventPublisher, logger *slog.Logger) *TrailService {
	return &TrailService{
		trails:   trails,
		vendors:  vendors,
		producer: producer,
		logger:   logger,
	}
}

// List returns trails, optionally narrowed to a category.
func (s *TrailService) List(ctx context.Context, category string) ([]domain.FoodTrail, error) {
	trails, err := s.trails.List(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("list trails: %w", err)
	}
	return trails, nil
}

// Get returns a trail with its stops in order, each stop carrying its vendor
// fetched in a single batch. Stops whose stall has since been removed keep
// their place with no vendor attached.
func (s *TrailService) Get(ctx context.Context, id string) (*domain.FoodTrailDetail, error) {
	trail, err := s.trails.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get trail: %w", err)
	}

	stops, err := s.trails.ListStops(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list trail stops: %w", err)
	}

	ids := make([]string, 0, len(stops))
	for _, stop := range stops {
		ids = append(ids, stop.VendorID)
	}
	vendors, err := s.vendors.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("fetch stop vendors: %w", err)
	}

	detail := &domain.FoodTrailDetail{
		FoodTrail: *trail,
		Stops:     make([]domain.TrailStopDetail, 0, len(stops)),
	}
	for _, stop := range stops {
		detail.Stops = append(detail.Stops, domain.TrailStopDetail{
			TrailStop: stop,
			Vendor:    vendors[stop.VendorID],
		})
	}

	return detail, nil
}

// Complete records the user's completion of the trail. Only the first
// completion moves the counter and emits an event.
func (s *TrailService) Complete(ctx context.Context, trailID, userID string) error {
	first, err := s.trails.MarkCompleted(ctx, trailID, userID)
	if err != nil {
		return fmt.Errorf("complete trail: %w", err)
	}

	if first {
		if err := s.producer.PublishTrailCompleted(ctx, trailID, userID); err != nil {
			s.logger.ErrorContext(ctx, "failed to publish trail.completed event",
				slog.String("trail_id", trailID),
				slog.String("error", err.Error()),
			)
		}
		s.logger.InfoContext(ctx, "trail completed",
			slog.String("trail_id", trailID),
			slog.String("user_id", userID),
		)
	}

	return nil
}

// Favorite adds the trail to the user's favorites. Repeats are no-ops.
func (s *TrailService) Favorite(ctx context.Context, trailID, userID string) error {
	if err := s.trails.AddFavorite(ctx, trailID, userID); err != nil {
		return fmt.Errorf("favorite trail: %w", err)
	}
	return nil
}

// Unfavorite removes the trail from the user's favorites.
func (s *TrailService) Unfavorite(ctx context.Context, trailID, userID string) error {
	if err := s.trails.RemoveFavorite(ctx, trailID, userID); err != nil {
		return fmt.Errorf("unfavorite trail: %w", err)
	}
	return nil
}
