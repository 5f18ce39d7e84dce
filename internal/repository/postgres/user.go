package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/streetbites/streetbites/internal/domain"
	"github.com/streetbites/streetbites/pkg/database"
	apperrors "github.com/streetbites/streetbites/pkg/errors"
)

const userColumns = `id, display_name, photo_url, dietary_preferences, favorite_cuisines, review_count, created_at, updated_at`

// UserRepository implements repository.UserRepository using PostgreSQL.
type UserRepository struct {
	pool database.DBTX
}

// NewUserRepository creates a new PostgreSQL-backed user repository.
func NewUserRepository(pool database.DBTX) *UserRepository {
	return &UserRepository{pool: pool}
}

// GetByID retrieves a profile by the identity provider uid.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	ctx, end := database.TraceQuery(ctx, "user.get_by_id", "SELECT FROM users")

	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	var u domain.User
	err := scanUser(r.pool.QueryRow(ctx, query, id), &u)
	end(err)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("profile", id)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	return &u, nil
}

// GetByIDs retrieves profiles in bulk, keyed by uid.
func (r *UserRepository) GetByIDs(ctx context.Context, ids []string) (map[string]*domain.User, error) {
	if len(ids) == 0 {
		return map[string]*domain.User{}, nil
	}

	ctx, end := database.TraceQuery(ctx, "user.get_by_ids", "SELECT FROM users WHERE id = ANY")

	query := `SELECT ` + userColumns + ` FROM users WHERE id = ANY($1)`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		end(err)
		return nil, fmt.Errorf("get users: %w", err)
	}
	defer rows.Close()

	users := make(map[string]*domain.User, len(ids))
	for rows.Next() {
		var u domain.User
		if err := scanUser(rows, &u); err != nil {
			end(err)
			return nil, fmt.Errorf("scan user row: %w", err)
		}
		users[u.ID] = &u
	}

	err = rows.Err()
	end(err)
	if err != nil {
		return nil, fmt.Errorf("iterate user rows: %w", err)
	}

	return users, nil
}

// Upsert creates the profile or updates its editable fields. ReviewCount is
// owned by the review write path and survives updates untouched.
func (r *UserRepository) Upsert(ctx context.Context, user *domain.User) error {
	ctx, end := database.TraceQuery(ctx, "user.upsert", "INSERT INTO users ON CONFLICT")

	query := `
		INSERT INTO users (id, display_name, photo_url, dietary_preferences, favorite_cuisines, review_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, 0, $6, $6)
		ON CONFLICT (id) DO UPDATE
		SET display_name = EXCLUDED.display_name,
			photo_url = EXCLUDED.photo_url,
			dietary_preferences = EXCLUDED.dietary_preferences,
			favorite_cuisines = EXCLUDED.favorite_cuisines,
			updated_at = EXCLUDED.updated_at`

	_, err := r.pool.Exec(ctx, query,
		user.ID,
		user.DisplayName,
		user.PhotoURL,
		user.DietaryPreferences,
		user.FavoriteCuisines,
		user.UpdatedAt,
	)
	end(err)
	if err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}

	return nil
}

// scanUser scans a user row.
func scanUser(row pgx.Row, u *domain.User) error {
	return row.Scan(
		&u.ID,
		&u.DisplayName,
		&u.PhotoURL,
		&u.DietaryPreferences,
		&u.FavoriteCuisines,
		&u.ReviewCount,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
}
