package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/streetbites/streetbites/internal/domain"
	"github.com/streetbites/streetbites/internal/repository"
)

// UpdateProfileInput holds the client-editable profile fields. Review counts
// and timestamps are server-owned and cannot be written through this path.
type UpdateProfileInput struct {
	DisplayName        string
	PhotoURL           string
	DietaryPreferences []string
	FavoriteCuisines   []string
}

// ProfileService implements the business logic for user profiles.
type ProfileService struct {
	users  repository.UserRepository
	cache  repository.RecommendationCache
	logger *slog.Logger
}

// NewProfileService creates a new profile service.
func NewProfileService(users repository.UserRepository, cache repository.RecommendationCache, logger *slog.Logger) *ProfileService {
	return &ProfileService{
		users:  users,
		cache:  cache,
		logger: logger,
	}
}

// Get retrieves the caller's profile.
func (s *ProfileService) Get(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return user, nil
}

// Update creates or updates the caller's profile. Cached recommendations are
// dropped since they depend on the stated preferences.
func (s *ProfileService) Update(ctx context.Context, userID string, input *UpdateProfileInput) (*domain.User, error) {
	user := &domain.User{
		ID:                 userID,
		DisplayName:        input.DisplayName,
		PhotoURL:           input.PhotoURL,
		DietaryPreferences: input.DietaryPreferences,
		FavoriteCuisines:   input.FavoriteCuisines,
		UpdatedAt:          time.Now().UTC(),
	}

	if err := s.users.Upsert(ctx, user); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}

	if err := s.cache.Invalidate(ctx, userID); err != nil {
		s.logger.WarnContext(ctx, "recommendation cache invalidation failed",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
	}

	updated, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("reload profile: %w", err)
	}

	s.logger.InfoContext(ctx, "profile updated", slog.String("user_id", userID))

	return updated, nil
}
