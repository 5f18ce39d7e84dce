package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/streetbites/streetbites/internal/domain"
	"github.com/streetbites/streetbites/internal/repository"
	"github.com/streetbites/streetbites/pkg/database"
	apperrors "github.com/streetbites/streetbites/pkg/errors"
)

const vendorColumns = `id, name, cuisine, categories, is_vegetarian, area, latitude, longitude,
		cleanliness, ingredients, water_safety,
		rating, review_count, hygiene_rating, hygiene_review_count, favorite_count,
		price_min, price_max, price_avg, search_keywords, created_by, created_at, updated_at`

// VendorRepository implements repository.VendorRepository using PostgreSQL.
type VendorRepository struct {
	pool database.DBTX
}

// NewVendorRepository creates a new PostgreSQL-backed vendor repository.
func NewVendorRepository(pool database.DBTX) *VendorRepository {
	return &VendorRepository{pool: pool}
}

// Create inserts a new vendor into the database.
func (r *VendorRepository) Create(ctx context.Context, vendor *domain.Vendor) error {
	ctx, end := database.TraceQuery(ctx, "vendor.create", "INSERT INTO vendors")

	query := `
		INSERT INTO vendors (id, name, cuisine, categories, is_vegetarian, area, latitude, longitude,
			cleanliness, ingredients, water_safety,
			price_min, price_max, price_avg, search_keywords, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`

	_, err := r.pool.Exec(ctx, query,
		vendor.ID,
		vendor.Name,
		vendor.Cuisine,
		vendor.Categories,
		vendor.IsVegetarian,
		vendor.Area,
		vendor.Latitude,
		vendor.Longitude,
		vendor.Hygiene.Cleanliness,
		vendor.Hygiene.Ingredients,
		vendor.Hygiene.WaterSafety,
		vendor.Price.Min,
		vendor.Price.Max,
		vendor.Price.Avg,
		vendor.SearchKeywords,
		vendor.CreatedBy,
		vendor.CreatedAt,
		vendor.UpdatedAt,
	)
	end(err)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrAlreadyExists
		}
		return fmt.Errorf("insert vendor: %w", err)
	}

	return nil
}

// GetByID retrieves a vendor by its unique identifier.
func (r *VendorRepository) GetByID(ctx context.Context, id string) (*domain.Vendor, error) {
	ctx, end := database.TraceQuery(ctx, "vendor.get_by_id", "SELECT FROM vendors")

	query := `SELECT ` + vendorColumns + ` FROM vendors WHERE id = $1`

	var v domain.Vendor
	err := scanVendor(r.pool.QueryRow(ctx, query, id), &v)
	end(err)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("vendor", id)
		}
		return nil, fmt.Errorf("get vendor: %w", err)
	}

	return &v, nil
}

// GetByIDs retrieves vendors in bulk, keyed by identifier.
func (r *VendorRepository) GetByIDs(ctx context.Context, ids []string) (map[string]*domain.Vendor, error) {
	if len(ids) == 0 {
		return map[string]*domain.Vendor{}, nil
	}

	ctx, end := database.TraceQuery(ctx, "vendor.get_by_ids", "SELECT FROM vendors WHERE id = ANY")

	query := `SELECT ` + vendorColumns + ` FROM vendors WHERE id = ANY($1)`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		end(err)
		return nil, fmt.Errorf("get vendors: %w", err)
	}
	defer rows.Close()

	vendors := make(map[string]*domain.Vendor, len(ids))
	for rows.Next() {
		var v domain.Vendor
		if err := scanVendorRow(rows, &v); err != nil {
			end(err)
			return nil, fmt.Errorf("scan vendor row: %w", err)
		}
		vendors[v.ID] = &v
	}

	err = rows.Err()
	end(err)
	if err != nil {
		return nil, fmt.Errorf("iterate vendor rows: %w", err)
	}

	return vendors, nil
}

// List returns vendors matching the filter in insertion order. Keyword
// matching is array overlap against the derived search_keywords.
func (r *VendorRepository) List(ctx context.Context, filter repository.VendorFilter) ([]domain.Vendor, error) {
	var (
		conditions []string
		args       []any
		argIndex   = 1
	)

	if tokens := domain.DeriveSearchKeywords(filter.Query, "", ""); len(tokens) > 0 {
		conditions = append(conditions, fmt.Sprintf("search_keywords && $%d", argIndex))
		args = append(args, tokens)
		argIndex++
	}

	if filter.MinHygiene > 0 {
		conditions = append(conditions, fmt.Sprintf("hygiene_rating >= $%d", argIndex))
		args = append(args, filter.MinHygiene)
		argIndex++
	}

	if len(filter.Cuisines) > 0 {
		conditions = append(conditions, fmt.Sprintf("cuisine = ANY($%d)", argIndex))
		args = append(args, filter.Cuisines)
		argIndex++
	}

	if filter.Category != "" {
		conditions = append(conditions, fmt.Sprintf("$%d = ANY(categories)", argIndex))
		args = append(args, filter.Category)
		argIndex++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	limitClause := ""
	if filter.Limit > 0 {
		limitClause = fmt.Sprintf("LIMIT $%d", argIndex)
		args = append(args, filter.Limit)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM vendors
		%s
		ORDER BY created_at, id
		%s`,
		vendorColumns, whereClause, limitClause,
	)

	ctx, end := database.TraceQuery(ctx, "vendor.list", "SELECT FROM vendors")

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		end(err)
		return nil, fmt.Errorf("list vendors: %w", err)
	}
	defer rows.Close()

	vendors := []domain.Vendor{}
	for rows.Next() {
		var v domain.Vendor
		if err := scanVendorRow(rows, &v); err != nil {
			end(err)
			return nil, fmt.Errorf("scan vendor row: %w", err)
		}
		vendors = append(vendors, v)
	}

	err = rows.Err()
	end(err)
	if err != nil {
		return nil, fmt.Errorf("iterate vendor rows: %w", err)
	}

	return vendors, nil
}

// ListTop returns the highest-rated vendors, optionally narrowed to a
// category.
func (r *VendorRepository) ListTop(ctx context.Context, category string, limit int) ([]domain.Vendor, error) {
	if limit <= 0 {
		limit = 10
	}

	var (
		args        = []any{limit}
		whereClause string
	)
	if category != "" {
		whereClause = "WHERE $2 = ANY(categories)"
		args = append(args, category)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM vendors
		%s
		ORDER BY rating DESC, review_count DESC, id
		LIMIT $1`,
		vendorColumns, whereClause,
	)

	ctx, end := database.TraceQuery(ctx, "vendor.list_top", "SELECT FROM vendors ORDER BY rating")

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		end(err)
		return nil, fmt.Errorf("list top vendors: %w", err)
	}
	defer rows.Close()

	vendors := []domain.Vendor{}
	for rows.Next() {
		var v domain.Vendor
		if err := scanVendorRow(rows, &v); err != nil {
			end(err)
			return nil, fmt.Errorf("scan vendor row: %w", err)
		}
		vendors = append(vendors, v)
	}

	err = rows.Err()
	end(err)
	if err != nil {
		return nil, fmt.Errorf("iterate vendor rows: %w", err)
	}

	return vendors, nil
}

// Update modifies the descriptive fields of a vendor. The rating, hygiene
// and favorite aggregates belong to the review and favorite write paths and
// are never written here.
func (r *VendorRepository) Update(ctx context.Context, vendor *domain.Vendor) error {
	ctx, end := database.TraceQuery(ctx, "vendor.update", "UPDATE vendors")

	query := `
		UPDATE vendors
		SET name = $2, cuisine = $3, categories = $4, is_vegetarian = $5, area = $6,
			latitude = $7, longitude = $8,
			cleanliness = $9, ingredients = $10, water_safety = $11,
			price_min = $12, price_max = $13, price_avg = $14,
			search_keywords = $15, updated_at = $16
		WHERE id = $1`

	ct, err := r.pool.Exec(ctx, query,
		vendor.ID,
		vendor.Name,
		vendor.Cuisine,
		vendor.Categories,
		vendor.IsVegetarian,
		vendor.Area,
		vendor.Latitude,
		vendor.Longitude,
		vendor.Hygiene.Cleanliness,
		vendor.Hygiene.Ingredients,
		vendor.Hygiene.WaterSafety,
		vendor.Price.Min,
		vendor.Price.Max,
		vendor.Price.Avg,
		vendor.SearchKeywords,
		vendor.UpdatedAt,
	)
	end(err)
	if err != nil {
		return fmt.Errorf("update vendor: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("vendor", vendor.ID)
	}

	return nil
}

// AddFavorite puts the user in the vendor's favorite set. The counter is
// bumped only when the membership row is actually inserted, so repeated
// calls are no-ops.
func (r *VendorRepository) AddFavorite(ctx context.Context, vendorID, userID string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	ct, err := tx.Exec(ctx,
		`INSERT INTO vendor_favorites (vendor_id, user_id, created_at)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (vendor_id, user_id) DO NOTHING`,
		vendorID, userID, time.Now().UTC(),
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperrors.NotFound("vendor", vendorID)
		}
		return fmt.Errorf("insert favorite: %w", err)
	}

	if ct.RowsAffected() > 0 {
		if _, err := tx.Exec(ctx,
			`UPDATE vendors SET favorite_count = favorite_count + 1 WHERE id = $1`,
			vendorID,
		); err != nil {
			return fmt.Errorf("increment favorite count: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// RemoveFavorite removes the user from the vendor's favorite set.
func (r *VendorRepository) RemoveFavorite(ctx context.Context, vendorID, userID string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	ct, err := tx.Exec(ctx,
		`DELETE FROM vendor_favorites WHERE vendor_id = $1 AND user_id = $2`,
		vendorID, userID,
	)
	if err != nil {
		return fmt.Errorf("delete favorite: %w", err)
	}

	if ct.RowsAffected() > 0 {
		if _, err := tx.Exec(ctx,
			`UPDATE vendors SET favorite_count = GREATEST(favorite_count - 1, 0) WHERE id = $1`,
			vendorID,
		); err != nil {
			return fmt.Errorf("decrement favorite count: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// scanVendor scans a single-row result into a Vendor struct.
func scanVendor(row pgx.Row, v *domain.Vendor) error {
	return row.Scan(
		&v.ID,
		&v.Name,
		&v.Cuisine,
		&v.Categories,
		&v.IsVegetarian,
		&v.Area,
		&v.Latitude,
		&v.Longitude,
		&v.Hygiene.Cleanliness,
		&v.Hygiene.Ingredients,
		&v.Hygiene.WaterSafety,
		&v.Rating,
		&v.ReviewCount,
		&v.HygieneRating,
		&v.HygieneReviewCount,
		&v.FavoriteCount,
		&v.Price.Min,
		&v.Price.Max,
		&v.Price.Avg,
		&v.SearchKeywords,
		&v.CreatedBy,
		&v.CreatedAt,
		&v.UpdatedAt,
	)
}

// scanVendorRow scans a row from a rows iterator into a Vendor struct.
func scanVendorRow(rows pgx.Rows, v *domain.Vendor) error {
	return scanVendor(rows, v)
}

// isUniqueViolation checks if the error is a PostgreSQL unique constraint violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "23505")
}

// isForeignKeyViolation checks if the error is a PostgreSQL foreign key violation (SQLSTATE 23503).
func isForeignKeyViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "23503")
}
