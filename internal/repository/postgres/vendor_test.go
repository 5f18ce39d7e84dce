package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/streetbites/streetbites/internal/domain"
	"github.com/streetbites/streetbites/internal/repository"
	"github.com/streetbites/streetbites/pkg/database"
	apperrors "github.com/streetbites/streetbites/pkg/errors"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	return mock
}

func floatPtr(f float64) *float64 { return &f }
func intPtr(n int) *int           { return &n }

var now = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

var vendorCols = []string{
	"id", "name", "cuisine", "categories", "is_vegetarian", "area", "latitude", "longitude",
	"cleanliness", "ingredients", "water_safety",
	"rating", "review_count", "hygiene_rating", "hygiene_review_count", "favorite_count",
	"price_min", "price_max", "price_avg", "search_keywords", "created_by", "created_at", "updated_at",
}

func sampleVendor() domain.Vendor {
	return domain.Vendor{
		ID:             "vend-1",
		Name:           "Sharma Chaat Corner",
		Cuisine:        "North Indian",
		Categories:     []string{domain.CategoryChaat, domain.CategorySnacks},
		IsVegetarian:   true,
		Area:           "Karol Bagh",
		Latitude:       floatPtr(28.6519),
		Longitude:      floatPtr(77.1909),
		Hygiene:        domain.HygieneScores{Cleanliness: 4, Ingredients: 4, WaterSafety: 3},
		Rating:         4.2,
		ReviewCount:    17,
		HygieneRating:  3.8,
		Price:          domain.PriceRange{Min: 30, Max: 120, Avg: 60},
		SearchKeywords: domain.DeriveSearchKeywords("Sharma Chaat Corner", "North Indian", "Karol Bagh"),
		CreatedBy:      "user-1",
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func vendorRow(v domain.Vendor) []any {
	return []any{
		v.ID, v.Name, v.Cuisine, v.Categories, v.IsVegetarian, v.Area, v.Latitude, v.Longitude,
		v.Hygiene.Cleanliness, v.Hygiene.Ingredients, v.Hygiene.WaterSafety,
		v.Rating, v.ReviewCount, v.HygieneRating, v.HygieneReviewCount, v.FavoriteCount,
		v.Price.Min, v.Price.Max, v.Price.Avg, v.SearchKeywords, v.CreatedBy, v.CreatedAt, v.UpdatedAt,
	}
}

func TestVendorRepository_Create_Success(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewVendorRepository(mock)

	v := sampleVendor()

	mock.ExpectExec("INSERT INTO vendors").
		WithArgs(
			v.ID, v.Name, v.Cuisine, v.Categories, v.IsVegetarian, v.Area, v.Latitude, v.Longitude,
			v.Hygiene.Cleanliness, v.Hygiene.Ingredients, v.Hygiene.WaterSafety,
			v.Price.Min, v.Price.Max, v.Price.Avg, v.SearchKeywords, v.CreatedBy, v.CreatedAt, v.UpdatedAt,
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := repo.Create(context.Background(), &v)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVendorRepository_GetByID_Success(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewVendorRepository(mock)

	v := sampleVendor()
	mock.ExpectQuery("SELECT .+ FROM vendors WHERE id").
		WithArgs(v.ID).
		WillReturnRows(pgxmock.NewRows(vendorCols).AddRow(vendorRow(v)...))

	result, err := repo.GetByID(context.Background(), v.ID)
	require.NoError(t, err)
	assert.Equal(t, v.Name, result.Name)
	assert.Equal(t, v.Rating, result.Rating)
	assert.True(t, result.HasLocation())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVendorRepository_GetByID_NotFound(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewVendorRepository(mock)

	mock.ExpectQuery("SELECT .+ FROM vendors WHERE id").
		WithArgs("vend-missing").
		WillReturnRows(pgxmock.NewRows(vendorCols))

	_, err := repo.GetByID(context.Background(), "vend-missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVendorRepository_List_AllPredicates(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewVendorRepository(mock)

	v := sampleVendor()
	mock.ExpectQuery("SELECT .+ FROM vendors").
		WithArgs([]string{"chaat"}, 3.0, []string{"North Indian"}, domain.CategoryChaat).
		WillReturnRows(pgxmock.NewRows(vendorCols).AddRow(vendorRow(v)...))

	result, err := repo.List(context.Background(), repository.VendorFilter{
		Query:      "Chaat ok",
		MinHygiene: 3.0,
		Cuisines:   []string{"North Indian"},
		Category:   domain.CategoryChaat,
	})
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, v.ID, result[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVendorRepository_List_NoFilterEmptyResult(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewVendorRepository(mock)

	mock.ExpectQuery("SELECT .+ FROM vendors").
		WillReturnRows(pgxmock.NewRows(vendorCols))

	result, err := repo.List(context.Background(), repository.VendorFilter{})
	require.NoError(t, err)
	assert.Empty(t, result)
	assert.NotNil(t, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVendorRepository_ListTop(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewVendorRepository(mock)

	v := sampleVendor()
	mock.ExpectQuery("SELECT .+ FROM vendors .+ ORDER BY rating DESC").
		WithArgs(10, domain.CategoryChaat).
		WillReturnRows(pgxmock.NewRows(vendorCols).AddRow(vendorRow(v)...))

	result, err := repo.ListTop(context.Background(), domain.CategoryChaat, 10)
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVendorRepository_Update_NotFound(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewVendorRepository(mock)

	v := sampleVendor()
	mock.ExpectExec("UPDATE vendors").
		WithArgs(
			v.ID, v.Name, v.Cuisine, v.Categories, v.IsVegetarian, v.Area, v.Latitude, v.Longitude,
			v.Hygiene.Cleanliness, v.Hygiene.Ingredients, v.Hygiene.WaterSafety,
			v.Price.Min, v.Price.Max, v.Price.Avg, v.SearchKeywords, v.UpdatedAt,
		).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.Update(context.Background(), &v)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVendorRepository_AddFavorite_FirstTime(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewVendorRepository(mock)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO vendor_favorites").
		WithArgs("vend-1", "user-1", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("UPDATE vendors SET favorite_count = favorite_count \\+ 1").
		WithArgs("vend-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	err := repo.AddFavorite(context.Background(), "vend-1", "user-1")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVendorRepository_AddFavorite_Repeat(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewVendorRepository(mock)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO vendor_favorites").
		WithArgs("vend-1", "user-1", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 0))
	mock.ExpectCommit()

	err := repo.AddFavorite(context.Background(), "vend-1", "user-1")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVendorRepository_AddFavorite_UnknownVendor(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewVendorRepository(mock)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO vendor_favorites").
		WithArgs("vend-missing", "user-1", pgxmock.AnyArg()).
		WillReturnError(errors.New("ERROR: violates foreign key constraint (SQLSTATE 23503)"))
	mock.ExpectRollback()

	err := repo.AddFavorite(context.Background(), "vend-missing", "user-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVendorRepository_RemoveFavorite_Idempotent(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewVendorRepository(mock)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM vendor_favorites").
		WithArgs("vend-1", "user-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectCommit()

	err := repo.RemoveFavorite(context.Background(), "vend-1", "user-1")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
