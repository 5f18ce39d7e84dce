package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/streetbites/streetbites/internal/domain"
	"github.com/streetbites/streetbites/internal/repository"
	apperrors "github.com/streetbites/streetbites/pkg/errors"
)

func newTestRecommendService(vendors *mockVendorRepository, users *mockUserRepository, cache *mockRecommendationCache) *RecommendService {
	return NewRecommendService(vendors, users, cache, newTestLogger())
}

func vegUser() *domain.User {
	return &domain.User{
		ID:                 "user-1",
		DietaryPreferences: []string{"vegetarian"},
		FavoriteCuisines:   []string{"South Indian"},
	}
}

func TestRecommend_WeightedOrdering(t *testing.T) {
	vendors := new(mockVendorRepository)
	users := new(mockUserRepository)
	cache := new(mockRecommendationCache)
	svc := newTestRecommendService(vendors, users, cache)
	ctx := context.Background()

	users.On("GetByID", ctx, "user-1").Return(vegUser(), nil)
	cache.On("Get", ctx, "user-1", CategoryAll).Return(nil, apperrors.NotFound("recommendations", "user-1"))
	cache.On("Set", ctx, "user-1", CategoryAll, mock.Anything, recommendCacheTTL).Return(nil)

	// veg-dosa: 3 (veg) + 2 (cuisine) + 4.0 + 4.0 = 13.0
	// veg-chaat: 3 (veg) + 4.5 + 4.5 = 12.0
	// meat-rolls: 4.9 + 4.9 = 9.8
	candidates := []domain.Vendor{
		{ID: "meat-rolls", Cuisine: "Mughlai", Rating: 4.9, HygieneRating: 4.9},
		{ID: "veg-chaat", Cuisine: "North Indian", IsVegetarian: true, Rating: 4.5, HygieneRating: 4.5},
		{ID: "veg-dosa", Cuisine: "South Indian", IsVegetarian: true, Rating: 4.0, HygieneRating: 4.0},
	}
	vendors.On("List", ctx, repository.VendorFilter{Limit: recommendCandidates}).Return(candidates, nil)

	ranked, err := svc.Recommend(ctx, "user-1", "")
	require.NoError(t, err)
	require.Len(t, ranked, 3)
	assert.Equal(t, "veg-dosa", ranked[0].ID)
	assert.Equal(t, "veg-chaat", ranked[1].ID)
	assert.Equal(t, "meat-rolls", ranked[2].ID)
	vendors.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestRecommend_CapsAtTen(t *testing.T) {
	vendors := new(mockVendorRepository)
	users := new(mockUserRepository)
	cache := new(mockRecommendationCache)
	svc := newTestRecommendService(vendors, users, cache)
	ctx := context.Background()

	users.On("GetByID", ctx, "user-1").Return(vegUser(), nil)
	cache.On("Get", ctx, "user-1", CategoryAll).Return(nil, apperrors.NotFound("recommendations", "user-1"))
	cache.On("Set", ctx, "user-1", CategoryAll, mock.Anything, recommendCacheTTL).Return(nil)

	candidates := make([]domain.Vendor, recommendCandidates)
	for i := range candidates {
		candidates[i] = domain.Vendor{ID: fmt.Sprintf("vend-%d", i), Rating: float64(i % 5)}
	}
	vendors.On("List", ctx, repository.VendorFilter{Limit: recommendCandidates}).Return(candidates, nil)

	ranked, err := svc.Recommend(ctx, "user-1", "")
	require.NoError(t, err)
	assert.Len(t, ranked, recommendLimit)
}

func TestRecommend_TiesKeepCandidateOrder(t *testing.T) {
	vendors := new(mockVendorRepository)
	users := new(mockUserRepository)
	cache := new(mockRecommendationCache)
	svc := newTestRecommendService(vendors, users, cache)
	ctx := context.Background()

	users.On("GetByID", ctx, "user-1").Return(&domain.User{ID: "user-1"}, nil)
	cache.On("Get", ctx, "user-1", CategoryAll).Return(nil, apperrors.NotFound("recommendations", "user-1"))
	cache.On("Set", ctx, "user-1", CategoryAll, mock.Anything, recommendCacheTTL).Return(nil)

	candidates := []domain.Vendor{
		{ID: "first", Rating: 4.0},
		{ID: "second", Rating: 4.0},
		{ID: "third", Rating: 4.0},
	}
	vendors.On("List", ctx, repository.VendorFilter{Limit: recommendCandidates}).Return(candidates, nil)

	ranked, err := svc.Recommend(ctx, "user-1", "")
	require.NoError(t, err)
	require.Len(t, ranked, 3)
	assert.Equal(t, "first", ranked[0].ID)
	assert.Equal(t, "second", ranked[1].ID)
	assert.Equal(t, "third", ranked[2].ID)
}

func TestRecommend_CategoryFilterPassedThrough(t *testing.T) {
	vendors := new(mockVendorRepository)
	users := new(mockUserRepository)
	cache := new(mockRecommendationCache)
	svc := newTestRecommendService(vendors, users, cache)
	ctx := context.Background()

	users.On("GetByID", ctx, "user-1").Return(vegUser(), nil)
	cache.On("Get", ctx, "user-1", domain.CategoryDosa).Return(nil, apperrors.NotFound("recommendations", "user-1"))
	cache.On("Set", ctx, "user-1", domain.CategoryDosa, mock.Anything, recommendCacheTTL).Return(nil)
	vendors.On("List", ctx, repository.VendorFilter{Category: domain.CategoryDosa, Limit: recommendCandidates}).
		Return([]domain.Vendor{}, nil)

	ranked, err := svc.Recommend(ctx, "user-1", domain.CategoryDosa)
	require.NoError(t, err)
	assert.Empty(t, ranked)
	vendors.AssertExpectations(t)
}

func TestRecommend_UnknownProfile(t *testing.T) {
	vendors := new(mockVendorRepository)
	users := new(mockUserRepository)
	cache := new(mockRecommendationCache)
	svc := newTestRecommendService(vendors, users, cache)
	ctx := context.Background()

	users.On("GetByID", ctx, "user-missing").Return(nil, apperrors.NotFound("profile", "user-missing"))

	_, err := svc.Recommend(ctx, "user-missing", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	vendors.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestRecommend_CacheHitSkipsScoring(t *testing.T) {
	vendors := new(mockVendorRepository)
	users := new(mockUserRepository)
	cache := new(mockRecommendationCache)
	svc := newTestRecommendService(vendors, users, cache)
	ctx := context.Background()

	cached := []domain.Vendor{{ID: "vend-cached"}}
	users.On("GetByID", ctx, "user-1").Return(vegUser(), nil)
	cache.On("Get", ctx, "user-1", CategoryAll).Return(cached, nil)

	ranked, err := svc.Recommend(ctx, "user-1", "")
	require.NoError(t, err)
	assert.Equal(t, cached, ranked)
	vendors.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestRecommend_CacheFailureDegrades(t *testing.T) {
	vendors := new(mockVendorRepository)
	users := new(mockUserRepository)
	cache := new(mockRecommendationCache)
	svc := newTestRecommendService(vendors, users, cache)
	ctx := context.Background()

	users.On("GetByID", ctx, "user-1").Return(vegUser(), nil)
	cache.On("Get", ctx, "user-1", CategoryAll).Return(nil, errors.New("redis down"))
	cache.On("Set", ctx, "user-1", CategoryAll, mock.Anything, recommendCacheTTL).Return(errors.New("redis down"))
	vendors.On("List", ctx, repository.VendorFilter{Limit: recommendCandidates}).
		Return([]domain.Vendor{{ID: "vend-1"}}, nil)

	ranked, err := svc.Recommend(ctx, "user-1", "")
	require.NoError(t, err)
	require.Len(t, ranked, 1)
	assert.Equal(t, "vend-1", ranked[0].ID)
}
