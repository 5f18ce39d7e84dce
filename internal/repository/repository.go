package repository

import (
	"context"
	"time"

	"github.com/streetbites/streetbites/internal/domain"
)

// VendorFilter defines the storage-side predicates for vendor listing.
// Distance and price windows are applied by the service layer on top of the
// returned candidates.
type VendorFilter struct {
	// Query is matched as keyword overlap against search_keywords.
	Query string
	// MinHygiene keeps vendors whose hygiene_rating is at least this value.
	MinHygiene float64
	// Cuisines keeps vendors whose cuisine is any of the given values.
	Cuisines []string
	// Category keeps vendors whose categories contain the value.
	Category string
	// Limit caps the result set; zero means no cap.
	Limit int
}

// VendorRepository defines persistence operations for vendors.
type VendorRepository interface {
	// Create inserts a new vendor with zeroed aggregates.
	Create(ctx context.Context, vendor *domain.Vendor) error

	// GetByID retrieves a vendor by its identifier.
	GetByID(ctx context.Context, id string) (*domain.Vendor, error)

	// GetByIDs retrieves vendors in bulk, keyed by identifier. Missing
	// identifiers are absent from the map, not an error.
	GetByIDs(ctx context.Context, ids []string) (map[string]*domain.Vendor, error)

	// List returns vendors matching the filter in insertion order.
	List(ctx context.Context, filter VendorFilter) ([]domain.Vendor, error)

	// ListTop returns the highest-rated vendors, optionally narrowed to a
	// category.
	ListTop(ctx context.Context, category string, limit int) ([]domain.Vendor, error)

	// Update modifies the descriptive fields of a vendor. Aggregates are
	// untouched.
	Update(ctx context.Context, vendor *domain.Vendor) error

	// AddFavorite puts the user in the vendor's favorite set, bumping the
	// counter on first insertion. Repeats are no-ops.
	AddFavorite(ctx context.Context, vendorID, userID string) error

	// RemoveFavorite removes the user from the vendor's favorite set.
	RemoveFavorite(ctx context.Context, vendorID, userID string) error
}

// ReviewRepository defines persistence operations for reviews. Create and
// Delete also maintain the vendor rating aggregates and the author's review
// count, all inside a single transaction.
type ReviewRepository interface {
	// Create inserts the review and folds its ratings into the vendor
	// aggregates.
	Create(ctx context.Context, review *domain.Review) error

	// Delete removes the review, backing its ratings out of the vendor
	// aggregates. Only the author may delete; the removed review is
	// returned.
	Delete(ctx context.Context, reviewID, userID string) (*domain.Review, error)

	// ListByVendor returns a vendor's reviews, newest first.
	ListByVendor(ctx context.Context, vendorID string) ([]domain.Review, error)

	// ToggleHelpful flips the user's helpful vote on a review and reports
	// the resulting state.
	ToggleHelpful(ctx context.Context, reviewID, userID string) (bool, error)
}

// UserRepository defines persistence operations for profiles.
type UserRepository interface {
	// GetByID retrieves a profile by the identity provider uid.
	GetByID(ctx context.Context, id string) (*domain.User, error)

	// GetByIDs retrieves profiles in bulk, keyed by uid. Missing uids are
	// absent from the map.
	GetByIDs(ctx context.Context, ids []string) (map[string]*domain.User, error)

	// Upsert creates the profile or updates its editable fields.
	Upsert(ctx context.Context, user *domain.User) error
}

// TrailRepository defines persistence operations for food trails.
type TrailRepository interface {
	// List returns trails, optionally narrowed to a category.
	List(ctx context.Context, category string) ([]domain.FoodTrail, error)

	// GetByID retrieves a trail by its identifier.
	GetByID(ctx context.Context, id string) (*domain.FoodTrail, error)

	// ListStops returns a trail's stops in position order.
	ListStops(ctx context.Context, trailID string) ([]domain.TrailStop, error)

	// MarkCompleted records the user's completion of a trail. The first
	// completion bumps the counter and returns true; repeats return false.
	MarkCompleted(ctx context.Context, trailID, userID string) (bool, error)

	// AddFavorite puts the trail in the user's favorites. Repeats are
	// no-ops.
	AddFavorite(ctx context.Context, trailID, userID string) error

	// RemoveFavorite removes the trail from the user's favorites.
	RemoveFavorite(ctx context.Context, trailID, userID string) error
}

// RecommendationCache caches computed recommendation lists per user and
// category.
type RecommendationCache interface {
	// Get returns the cached recommendations, or errors.ErrNotFound on a
	// miss.
	Get(ctx context.Context, userID, category string) ([]domain.Vendor, error)

	// Set stores the recommendations with the given TTL.
	Set(ctx context.Context, userID, category string, vendors []domain.Vendor, ttl time.Duration) error

	// Invalidate drops all cached recommendations for a user.
	Invalidate(ctx context.Context, userID string) error
}
