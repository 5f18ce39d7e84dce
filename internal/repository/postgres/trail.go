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

// TrailRepository implements repository.TrailRepository using PostgreSQL.
type TrailRepository struct {
	pool database.DBTX
}

// NewTrailRepository creates a new PostgreSQL-backed trail repository.
func NewTrailRepository(pool database.DBTX) *TrailRepository {
	return &TrailRepository{pool: pool}
}

// List returns trails, optionally narrowed to a category.
func (r *TrailRepository) List(ctx context.Context, category string) ([]domain.FoodTrail, error) {
	var (
		args        []any
		whereClause string
	)
	if category != "" {
		whereClause = "WHERE category = $1"
		args = append(args, category)
	}

	query := fmt.Sprintf(`
		SELECT id, name, category, description, completion_count, created_at
		FROM food_trails
		%s
		ORDER BY created_at, id`, whereClause)

	ctx, end := database.TraceQuery(ctx, "trail.list", "SELECT FROM food_trails")

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		end(err)
		return nil, fmt.Errorf("list trails: %w", err)
	}
	defer rows.Close()

	trails := []domain.FoodTrail{}
	for rows.Next() {
		var t domain.FoodTrail
		if err := rows.Scan(&t.ID, &t.Name, &t.Category, &t.Description, &t.CompletionCount, &t.CreatedAt); err != nil {
			end(err)
			return nil, fmt.Errorf("scan trail row: %w", err)
		}
		trails = append(trails, t)
	}

	err = rows.Err()
	end(err)
	if err != nil {
		return nil, fmt.Errorf("iterate trail rows: %w", err)
	}

	return trails, nil
}

// GetByID retrieves a trail by its identifier.
func (r *TrailRepository) GetByID(ctx context.Context, id string) (*domain.FoodTrail, error) {
	ctx, end := database.TraceQuery(ctx, "trail.get_by_id", "SELECT FROM food_trails")

	var t domain.FoodTrail
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, category, description, completion_count, created_at
		 FROM food_trails WHERE id = $1`,
		id,
	).Scan(&t.ID, &t.Name, &t.Category, &t.Description, &t.CompletionCount, &t.CreatedAt)
	end(err)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("trail", id)
		}
		return nil, fmt.Errorf("get trail: %w", err)
	}

	return &t, nil
}

// ListStops returns a trail's stops in position order.
func (r *TrailRepository) ListStops(ctx context.Context, trailID string) ([]domain.TrailStop, error) {
	ctx, end := database.TraceQuery(ctx, "trail.list_stops", "SELECT FROM trail_stops")

	rows, err := r.pool.Query(ctx,
		`SELECT trail_id, position, vendor_id, note
		 FROM trail_stops
		 WHERE trail_id = $1
		 ORDER BY position`,
		trailID,
	)
	if err != nil {
		end(err)
		return nil, fmt.Errorf("list trail stops: %w", err)
	}
	defer rows.Close()

	stops := []domain.TrailStop{}
	for rows.Next() {
		var s domain.TrailStop
		if err := rows.Scan(&s.TrailID, &s.Position, &s.VendorID, &s.Note); err != nil {
			end(err)
			return nil, fmt.Errorf("scan trail stop row: %w", err)
		}
		stops = append(stops, s)
	}

	err = rows.Err()
	end(err)
	if err != nil {
		return nil, fmt.Errorf("iterate trail stop rows: %w", err)
	}

	return stops, nil
}

// MarkCompleted records the user's completion of a trail. The counter moves
// only with the first completion.
func (r *TrailRepository) MarkCompleted(ctx context.Context, trailID, userID string) (bool, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	ct, err := tx.Exec(ctx,
		`INSERT INTO user_trail_completions (user_id, trail_id, completed_at)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (user_id, trail_id) DO NOTHING`,
		userID, trailID, time.Now().UTC(),
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return false, apperrors.NotFound("trail", trailID)
		}
		return false, fmt.Errorf("insert trail completion: %w", err)
	}

	first := ct.RowsAffected() > 0
	if first {
		if _, err := tx.Exec(ctx,
			`UPDATE food_trails SET completion_count = completion_count + 1 WHERE id = $1`,
			trailID,
		); err != nil {
			return false, fmt.Errorf("increment completion count: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("commit transaction: %w", err)
	}

	return first, nil
}

// AddFavorite puts the trail in the user's favorites.
func (r *TrailRepository) AddFavorite(ctx context.Context, trailID, userID string) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO user_trail_favorites (user_id, trail_id, created_at)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (user_id, trail_id) DO NOTHING`,
		userID, trailID, time.Now().UTC(),
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperrors.NotFound("trail", trailID)
		}
		return fmt.Errorf("insert trail favorite: %w", err)
	}
	return nil
}

// RemoveFavorite removes the trail from the user's favorites.
func (r *TrailRepository) RemoveFavorite(ctx context.Context, trailID, userID string) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM user_trail_favorites WHERE user_id = $1 AND trail_id = $2`,
		userID, trailID,
	)
	if err != nil {
		return fmt.Errorf("delete trail favorite: %w", err)
	}
	return nil
}
