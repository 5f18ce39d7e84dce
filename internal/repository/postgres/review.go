package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/streetbites/streetbites/internal/domain"
	"github.com/streetbites/streetbites/pkg/database"
	apperrors "github.com/streetbites/streetbites/pkg/errors"
)

const reviewColumns = `id, vendor_id, user_id, rating, hygiene_rating, body, images, helpful_count, created_at`

// ReviewRepository implements repository.ReviewRepository using PostgreSQL.
// Writes maintain the vendor rating aggregates and the author's review count
// in the same transaction, serialized by a row lock on the vendor.
type ReviewRepository struct {
	pool database.DBTX
}

// NewReviewRepository creates a new PostgreSQL-backed review repository.
func NewReviewRepository(pool database.DBTX) *ReviewRepository {
	return &ReviewRepository{pool: pool}
}

// Create inserts the review and folds its ratings into the vendor
// aggregates. The hygiene aggregate moves only when the review carries a
// hygiene rating.
func (r *ReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	rating, hygiene, err := lockVendorAggregates(ctx, tx, review.VendorID)
	if err != nil {
		return err
	}

	rating.Add(float64(review.Rating))
	if review.HygieneRating != nil {
		hygiene.Add(float64(*review.HygieneRating))
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO reviews (id, vendor_id, user_id, rating, hygiene_rating, body, images, helpful_count, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, 0, $8)`,
		review.ID,
		review.VendorID,
		review.UserID,
		review.Rating,
		review.HygieneRating,
		review.Body,
		review.Images,
		review.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert review: %w", err)
	}

	if err := writeVendorAggregates(ctx, tx, review.VendorID, rating, hygiene); err != nil {
		return err
	}

	_, err = tx.Exec(ctx,
		`UPDATE users SET review_count = review_count + 1, updated_at = $2 WHERE id = $1`,
		review.UserID, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("increment user review count: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// Delete removes the review and backs its ratings out of the vendor
// aggregates. Only the author may delete.
func (r *ReviewRepository) Delete(ctx context.Context, reviewID, userID string) (*domain.Review, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var rv domain.Review
	err = scanReview(tx.QueryRow(ctx,
		`SELECT `+reviewColumns+` FROM reviews WHERE id = $1 FOR UPDATE`,
		reviewID,
	), &rv)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("review", reviewID)
		}
		return nil, fmt.Errorf("get review: %w", err)
	}

	if rv.UserID != userID {
		return nil, apperrors.Forbidden("not the author of this review")
	}

	rating, hygiene, err := lockVendorAggregates(ctx, tx, rv.VendorID)
	switch {
	case err == nil:
		rating.Remove(float64(rv.Rating))
		if rv.HygieneRating != nil {
			hygiene.Remove(float64(*rv.HygieneRating))
		}
		if err := writeVendorAggregates(ctx, tx, rv.VendorID, rating, hygiene); err != nil {
			return nil, err
		}
	case errors.Is(err, apperrors.ErrNotFound):
		// The stall was removed; the orphaned review still goes away.
	default:
		return nil, err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, reviewID); err != nil {
		return nil, fmt.Errorf("delete review: %w", err)
	}

	_, err = tx.Exec(ctx,
		`UPDATE users SET review_count = GREATEST(review_count - 1, 0), updated_at = $2 WHERE id = $1`,
		userID, time.Now().UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("decrement user review count: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	return &rv, nil
}

// ListByVendor returns a vendor's reviews, newest first.
func (r *ReviewRepository) ListByVendor(ctx context.Context, vendorID string) ([]domain.Review, error) {
	ctx, end := database.TraceQuery(ctx, "review.list_by_vendor", "SELECT FROM reviews")

	query := `
		SELECT ` + reviewColumns + `
		FROM reviews
		WHERE vendor_id = $1
		ORDER BY created_at DESC, id`

	rows, err := r.pool.Query(ctx, query, vendorID)
	if err != nil {
		end(err)
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	reviews := []domain.Review{}
	for rows.Next() {
		var rv domain.Review
		if err := scanReview(rows, &rv); err != nil {
			end(err)
			return nil, fmt.Errorf("scan review row: %w", err)
		}
		reviews = append(reviews, rv)
	}

	err = rows.Err()
	end(err)
	if err != nil {
		return nil, fmt.Errorf("iterate review rows: %w", err)
	}

	return reviews, nil
}

// ToggleHelpful flips the user's helpful vote on a review. The membership
// row's primary key keeps each user at one vote at most; the count moves
// only with the membership row, under the review row lock.
func (r *ReviewRepository) ToggleHelpful(ctx context.Context, reviewID, userID string) (bool, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var id string
	err = tx.QueryRow(ctx, `SELECT id FROM reviews WHERE id = $1 FOR UPDATE`, reviewID).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, apperrors.NotFound("review", reviewID)
		}
		return false, fmt.Errorf("lock review: %w", err)
	}

	ct, err := tx.Exec(ctx,
		`DELETE FROM review_helpful_votes WHERE review_id = $1 AND user_id = $2`,
		reviewID, userID,
	)
	if err != nil {
		return false, fmt.Errorf("delete helpful vote: %w", err)
	}

	helpful := ct.RowsAffected() == 0
	if helpful {
		_, err = tx.Exec(ctx,
			`INSERT INTO review_helpful_votes (review_id, user_id, created_at) VALUES ($1, $2, $3)`,
			reviewID, userID, time.Now().UTC(),
		)
		if err != nil {
			return false, fmt.Errorf("insert helpful vote: %w", err)
		}
		_, err = tx.Exec(ctx,
			`UPDATE reviews SET helpful_count = helpful_count + 1 WHERE id = $1`,
			reviewID,
		)
	} else {
		_, err = tx.Exec(ctx,
			`UPDATE reviews SET helpful_count = GREATEST(helpful_count - 1, 0) WHERE id = $1`,
			reviewID,
		)
	}
	if err != nil {
		return false, fmt.Errorf("update helpful count: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("commit transaction: %w", err)
	}

	return helpful, nil
}

// lockVendorAggregates reads the vendor's rating aggregates under FOR UPDATE
// so concurrent review writes serialize on the vendor row.
func lockVendorAggregates(ctx context.Context, tx pgx.Tx, vendorID string) (rating, hygiene domain.RatingAggregate, err error) {
	err = tx.QueryRow(ctx,
		`SELECT rating, review_count, hygiene_rating, hygiene_review_count
		 FROM vendors WHERE id = $1 FOR UPDATE`,
		vendorID,
	).Scan(&rating.Rating, &rating.Count, &hygiene.Rating, &hygiene.Count)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return rating, hygiene, apperrors.NotFound("vendor", vendorID)
		}
		return rating, hygiene, fmt.Errorf("lock vendor: %w", err)
	}
	return rating, hygiene, nil
}

func writeVendorAggregates(ctx context.Context, tx pgx.Tx, vendorID string, rating, hygiene domain.RatingAggregate) error {
	_, err := tx.Exec(ctx,
		`UPDATE vendors
		 SET rating = $2, review_count = $3, hygiene_rating = $4, hygiene_review_count = $5, updated_at = $6
		 WHERE id = $1`,
		vendorID, rating.Rating, rating.Count, hygiene.Rating, hygiene.Count, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("update vendor aggregates: %w", err)
	}
	return nil
}

// scanReview scans a review row.
func scanReview(row pgx.Row, rv *domain.Review) error {
	return row.Scan(
		&rv.ID,
		&rv.VendorID,
		&rv.UserID,
		&rv.Rating,
		&rv.HygieneRating,
		&rv.Body,
		&rv.Images,
		&rv.HelpfulCount,
		&rv.CreatedAt,
	)
}
