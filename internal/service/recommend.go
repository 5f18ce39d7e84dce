package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/streetbites/streetbites/internal/domain"
	"github.com/streetbites/streetbites/internal/repository"
	apperrors "github.com/streetbites/streetbites/pkg/errors"
)

// Recommendation tuning.
const (
	recommendCandidates = 20
	recommendLimit      = 10
	recommendCacheTTL   = 5 * time.Minute

	weightVegetarianMatch = 3.0
	weightCuisineMatch    = 2.0
)

// CategoryAll disables the category filter.
const CategoryAll = "All"

// RecommendService scores vendors against a user's stated preferences.
type RecommendService struct {
	vendors repository.VendorRepository
	users   repository.UserRepository
	cache   repository.RecommendationCache
	logger  *slog.Logger
}

// NewRecommendService creates a new recommendation service.
func NewRecommendService(vendors repository.VendorRepository, users repository.UserRepository, cache repository.RecommendationCache, logger *slog.Logger) *RecommendService {
	return &RecommendService{
		vendors: vendors,
		users:   users,
		cache:   cache,
		logger:  logger,
	}
}

// Recommend returns up to ten vendors ranked by a weighted preference score:
// a vegetarian match counts 3, a favorite-cuisine match counts 2, and the
// hygiene and overall ratings are added as-is. Ties keep candidate order.
// Cache failures degrade to a direct computation.
func (s *RecommendService) Recommend(ctx context.Context, userID, category string) ([]domain.Vendor, error) {
	if category == "" {
		category = CategoryAll
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}

	if cached, err := s.cache.Get(ctx, userID, category); err == nil {
		return cached, nil
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		s.logger.WarnContext(ctx, "recommendation cache read failed",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
	}

	filter := repository.VendorFilter{Limit: recommendCandidates}
	if category != CategoryAll {
		filter.Category = category
	}

	candidates, err := s.vendors.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("load candidates: %w", err)
	}

	scores := make([]float64, len(candidates))
	for i, v := range candidates {
		scores[i] = scoreVendor(user, &v)
	}

	order := make([]int, len(candidates))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return scores[order[i]] > scores[order[j]]
	})

	limit := len(order)
	if limit > recommendLimit {
		limit = recommendLimit
	}
	ranked := make([]domain.Vendor, 0, limit)
	for _, idx := range order[:limit] {
		ranked = append(ranked, candidates[idx])
	}

	if err := s.cache.Set(ctx, userID, category, ranked, recommendCacheTTL); err != nil {
		s.logger.WarnContext(ctx, "recommendation cache write failed",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
	}

	return ranked, nil
}

func scoreVendor(user *domain.User, v *domain.Vendor) float64 {
	score := v.HygieneRating + v.Rating
	if user.PrefersVegetarian() && v.IsVegetarian {
		score += weightVegetarianMatch
	}
	if user.FavorsCuisine(v.Cuisine) {
		score += weightCuisineMatch
	}
	return score
}
