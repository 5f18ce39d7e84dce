package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/streetbites/streetbites/internal/domain"
	pkgkafka "github.com/streetbites/streetbites/pkg/kafka"
)

// Kafka topic constants for domain events.
const (
	TopicVendorCreated  = "streetbites.vendor.created"
	TopicReviewCreated  = "streetbites.review.created"
	TopicReviewDeleted  = "streetbites.review.deleted"
	TopicTrailCompleted = "streetbites.trail.completed"
)

// Aggregate type constants.
const (
	AggregateTypeVendor = "vendor"
	AggregateTypeReview = "review"
	AggregateTypeTrail  = "trail"
)

// Source identifier for events originating from this service.
const Source = "streetbites-api"

// VendorCreatedData is the payload for a vendor.created event.
type VendorCreatedData struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Cuisine   string `json:"cuisine"`
	Area      string `json:"area"`
	CreatedBy string `json:"created_by"`
}

// ReviewCreatedData is the payload for a review.created event.
type ReviewCreatedData struct {
	ID            string `json:"id"`
	VendorID      string `json:"vendor_id"`
	UserID        string `json:"user_id"`
	Rating        int    `json:"rating"`
	HygieneRating *int   `json:"hygiene_rating,omitempty"`
}

// ReviewDeletedData is the payload for a review.deleted event.
type ReviewDeletedData struct {
	ID       string `json:"id"`
	VendorID string `json:"vendor_id"`
	UserID   string `json:"user_id"`
}

// TrailCompletedData is the payload for a trail.completed event.
type TrailCompletedData struct {
	TrailID string `json:"trail_id"`
	UserID  string `json:"user_id"`
}

// Producer publishes domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishVendorCreated publishes a vendor.created event.
func (p *Producer) PublishVendorCreated(ctx context.Context, vendor *domain.Vendor) error {
	data := VendorCreatedData{
		ID:        vendor.ID,
		Name:      vendor.Name,
		Cuisine:   vendor.Cuisine,
		Area:      vendor.Area,
		CreatedBy: vendor.CreatedBy,
	}

	event, err := pkgkafka.NewEvent(TopicVendorCreated, vendor.ID, AggregateTypeVendor, Source, data)
	if err != nil {
		return fmt.Errorf("create vendor.created event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicVendorCreated, event); err != nil {
		return fmt.Errorf("publish vendor.created event: %w", err)
	}

	p.logger.DebugContext(ctx, "published vendor.created event",
		slog.String("vendor_id", vendor.ID),
	)

	return nil
}

// PublishReviewCreated publishes a review.created event.
func (p *Producer) PublishReviewCreated(ctx context.Context, review *domain.Review) error {
	data := ReviewCreatedData{
		ID:            review.ID,
		VendorID:      review.VendorID,
		UserID:        review.UserID,
		Rating:        review.Rating,
		HygieneRating: review.HygieneRating,
	}

	event, err := pkgkafka.NewEvent(TopicReviewCreated, review.VendorID, AggregateTypeReview, Source, data)
	if err != nil {
		return fmt.Errorf("create review.created event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicReviewCreated, event); err != nil {
		return fmt.Errorf("publish review.created event: %w", err)
	}

	p.logger.DebugContext(ctx, "published review.created event",
		slog.String("review_id", review.ID),
		slog.String("vendor_id", review.VendorID),
	)

	return nil
}

// PublishReviewDeleted publishes a review.deleted event.
func (p *Producer) PublishReviewDeleted(ctx context.Context, review *domain.Review) error {
	data := ReviewDeletedData{
		ID:       review.ID,
		VendorID: review.VendorID,
		UserID:   review.UserID,
	}

	event, err := pkgkafka.NewEvent(TopicReviewDeleted, review.VendorID, AggregateTypeReview, Source, data)
	if err != nil {
		return fmt.Errorf("create review.deleted event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicReviewDeleted, event); err != nil {
		return fmt.Errorf("publish review.deleted event: %w", err)
	}

	p.logger.DebugContext(ctx, "published review.deleted event",
		slog.String("review_id", review.ID),
		slog.String("vendor_id", review.VendorID),
	)

	return nil
}

// PublishTrailCompleted publishes a trail.completed event.
func (p *Producer) PublishTrailCompleted(ctx context.Context, trailID, userID string) error {
	data := TrailCompletedData{TrailID: trailID, UserID: userID}

	event, err := pkgkafka.NewEvent(TopicTrailCompleted, trailID, AggregateTypeTrail, Source, data)
	if err != nil {
		return fmt.Errorf("create trail.completed event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicTrailCompleted, event); err != nil {
		return fmt.Errorf("publish trail.completed event: %w", err)
	}

	p.logger.DebugContext(ctx, "published trail.completed event",
		slog.String("trail_id", trailID),
		slog.String("user_id", userID),
	)

	return nil
}
