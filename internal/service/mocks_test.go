package service

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/streetbites/streetbites/internal/domain"
	"github.com/streetbites/streetbites/internal/repository"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func floatPtr(f float64) *float64 { return &f }
func intPtr(n int) *int           { return &n }

// --- Mock Vendor Repository ---

type mockVendorRepository struct {
	mock.Mock
}

func (m *mockVendorRepository) Create(ctx context.Context, vendor *domain.Vendor) error {
	args := m.Called(ctx, vendor)
	return args.Error(0)
}

func (m *mockVendorRepository) GetByID(ctx context.Context, id string) (*domain.Vendor, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Vendor), args.Error(1)
}

func (m *mockVendorRepository) GetByIDs(ctx context.Context, ids []string) (map[string]*domain.Vendor, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]*domain.Vendor), args.Error(1)
}

func (m *mockVendorRepository) List(ctx context.Context, filter repository.VendorFilter) ([]domain.Vendor, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Vendor), args.Error(1)
}

func (m *mockVendorRepository) ListTop(ctx context.Context, category string, limit int) ([]domain.Vendor, error) {
	args := m.Called(ctx, category, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Vendor), args.Error(1)
}

func (m *mockVendorRepository) Update(ctx context.Context, vendor *domain.Vendor) error {
	args := m.Called(ctx, vendor)
	return args.Error(0)
}

func (m *mockVendorRepository) AddFavorite(ctx context.Context, vendorID, userID string) error {
	args := m.Called(ctx, vendorID, userID)
	return args.Error(0)
}

func (m *mockVendorRepository) RemoveFavorite(ctx context.Context, vendorID, userID string) error {
	args := m.Called(ctx, vendorID, userID)
	return args.Error(0)
}

// --- Mock Review Repository ---

type mockReviewRepository struct {
	mock.Mock
}

func (m *mockReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *mockReviewRepository) Delete(ctx context.Context, reviewID, userID string) (*domain.Review, error) {
	args := m.Called(ctx, reviewID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Review), args.Error(1)
}

func (m *mockReviewRepository) ListByVendor(ctx context.Context, vendorID string) ([]domain.Review, error) {
	args := m.Called(ctx, vendorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Review), args.Error(1)
}

func (m *mockReviewRepository) ToggleHelpful(ctx context.Context, reviewID, userID string) (bool, error) {
	args := m.Called(ctx, reviewID, userID)
	return args.Bool(0), args.Error(1)
}

// --- Mock User Repository ---

type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepository) GetByIDs(ctx context.Context, ids []string) (map[string]*domain.User, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]*domain.User), args.Error(1)
}

func (m *mockUserRepository) Upsert(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// --- Mock Trail Repository ---

type mockTrailRepository struct {
	mock.Mock
}

func (m *mockTrailRepository) List(ctx context.Context, category string) ([]domain.FoodTrail, error) {
	args := m.Called(ctx, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FoodTrail), args.Error(1)
}

func (m *mockTrailRepository) GetByID(ctx context.Context, id string) (*domain.FoodTrail, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FoodTrail), args.Error(1)
}

func (m *mockTrailRepository) ListStops(ctx context.Context, trailID string) ([]domain.TrailStop, error) {
	args := m.Called(ctx, trailID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TrailStop), args.Error(1)
}

func (m *mockTrailRepository) MarkCompleted(ctx context.Context, trailID, userID string) (bool, error) {
	args := m.Called(ctx, trailID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *mockTrailRepository) AddFavorite(ctx context.Context, trailID, userID string) error {
	args := m.Called(ctx, trailID, userID)
	return args.Error(0)
}

func (m *mockTrailRepository) RemoveFavorite(ctx context.Context, trailID, userID string) error {
	args := m.Called(ctx, trailID, userID)
	return args.Error(0)
}

// --- Mock Recommendation Cache ---

type mockRecommendationCache struct {
	mock.Mock
}

func (m *mockRecommendationCache) Get(ctx context.Context, userID, category string) ([]domain.Vendor, error) {
	args := m.Called(ctx, userID, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Vendor), args.Error(1)
}

func (m *mockRecommendationCache) Set(ctx context.Context, userID, category string, vendors []domain.Vendor, ttl time.Duration) error {
	args := m.Called(ctx, userID, category, vendors, ttl)
	return args.Error(0)
}

func (m *mockRecommendationCache) Invalidate(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// --- Mock Event Publisher ---

type mockEventPublisher struct {
	mock.Mock
}

func (m *mockEventPublisher) PublishVendorCreated(ctx context.Context, vendor *domain.Vendor) error {
	args := m.Called(ctx, vendor)
	return args.Error(0)
}

func (m *mockEventPublisher) PublishReviewCreated(ctx context.Context, review *domain.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *mockEventPublisher) PublishReviewDeleted(ctx context.Context, review *domain.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *mockEventPublisher) PublishTrailCompleted(ctx context.Context, trailID, userID string) error {
	args := m.Called(ctx, trailID, userID)
	return args.Error(0)
}
