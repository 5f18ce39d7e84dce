package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/streetbites/streetbites/internal/domain"
	"github.com/streetbites/streetbites/internal/repository"
	apperrors "github.com/streetbites/streetbites/pkg/errors"
)

// CreateReviewInput holds the parameters for creating a review.
type CreateReviewInput struct {
	VendorID      string
	Rating        int
	HygieneRating *int
	Body          string
	Images        []string
}

// ReviewService implements the business logic for review operations.
type ReviewService struct {
	reviews  repository.ReviewRepository
	users    repository.UserRepository
	producer EventPublisher
	logger   *slog.Logger
}

// NewReviewService creates a new review service.
func NewReviewService(reviews repository.ReviewRepository, users repository.UserRepository, producer EventPublisher, logger *slog.Logger) *ReviewService {
	return &ReviewService{
		reviews:  reviews,
		users:    users,
		producer: producer,
		logger:   logger,
	}
}

// Create records a review. The repository moves the vendor aggregates and
// the author's review count in the same transaction.
func (s *ReviewService) Create(ctx context.Context, userID string, input *CreateReviewInput) (*domain.Review, error) {
	if input.VendorID == "" {
		return nil, apperrors.InvalidInput("vendor_id is required")
	}
	if input.Rating < 1 || input.Rating > 5 {
		return nil, apperrors.InvalidInput("rating must be between 1 and 5")
	}
	if input.HygieneRating != nil && (*input.HygieneRating < 1 || *input.HygieneRating > 5) {
		return nil, apperrors.InvalidInput("hygiene_rating must be between 1 and 5")
	}

	review := &domain.Review{
		ID:            uuid.New().String(),
		VendorID:      input.VendorID,
		UserID:        userID,
		Rating:        input.Rating,
		HygieneRating: input.HygieneRating,
		Body:          input.Body,
		Images:        input.Images,
		CreatedAt:     time.Now().UTC(),
	}

	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}

	if err := s.producer.PublishReviewCreated(ctx, review); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish review.created event",
			slog.String("review_id", review.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "review created",
		slog.String("review_id", review.ID),
		slog.String("vendor_id", review.VendorID),
		slog.String("user_id", userID),
		slog.Int("rating", review.Rating),
	)

	return review, nil
}

// Delete removes the user's own review and restores the vendor aggregates.
func (s *ReviewService) Delete(ctx context.Context, reviewID, userID string) error {
	review, err := s.reviews.Delete(ctx, reviewID, userID)
	if err != nil {
		return fmt.Errorf("delete review: %w", err)
	}

	if err := s.producer.PublishReviewDeleted(ctx, review); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish review.deleted event",
			slog.String("review_id", reviewID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "review deleted",
		slog.String("review_id", reviewID),
		slog.String("user_id", userID),
	)

	return nil
}

// ListByVendor returns a vendor's reviews, newest first, each enriched with
// its author. Authors are fetched in one batch; reviews whose author no
// longer exists fall back to an anonymous byline.
func (s *ReviewService) ListByVendor(ctx context.Context, vendorID string) ([]domain.ReviewWithAuthor, error) {
	reviews, err := s.reviews.ListByVendor(ctx, vendorID)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}

	ids := make([]string, 0, len(reviews))
	seen := make(map[string]struct{}, len(reviews))
	for _, rv := range reviews {
		if _, ok := seen[rv.UserID]; ok {
			continue
		}
		seen[rv.UserID] = struct{}{}
		ids = append(ids, rv.UserID)
	}

	authors, err := s.users.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("fetch review authors: %w", err)
	}

	enriched := make([]domain.ReviewWithAuthor, 0, len(reviews))
	for _, rv := range reviews {
		entry := domain.ReviewWithAuthor{Review: rv}
		if author, ok := authors[rv.UserID]; ok {
			entry.User = domain.ReviewAuthor{
				UID:         author.ID,
				DisplayName: author.DisplayName,
				PhotoURL:    author.PhotoURL,
			}
		} else {
			entry.User = domain.AnonymousAuthor(rv.UserID)
		}
		enriched = append(enriched, entry)
	}

	return enriched, nil
}

// ToggleHelpful flips the user's helpful vote on a review and reports the
// resulting state.
func (s *ReviewService) ToggleHelpful(ctx context.Context, reviewID, userID string) (bool, error) {
	helpful, err := s.reviews.ToggleHelpful(ctx, reviewID, userID)
	if err != nil {
		return false, fmt.Errorf("toggle helpful vote: %w", err)
	}

	s.logger.DebugContext(ctx, "helpful vote toggled",
		slog.String("review_id", reviewID),
		slog.String("user_id", userID),
		slog.Bool("helpful", helpful),
	)

	return helpful, nil
}
