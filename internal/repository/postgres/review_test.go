package postgres

import (
	"context"
	"testing"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/streetbites/streetbites/internal/domain"
	apperrors "github.com/streetbites/streetbites/pkg/errors"
)

var reviewCols = []string{
	"id", "vendor_id", "user_id", "rating", "hygiene_rating", "body", "images", "helpful_count", "created_at",
}

var aggregateCols = []string{"rating", "review_count", "hygiene_rating", "hygiene_review_count"}

func sampleReview() domain.Review {
	return domain.Review{
		ID:            "rev-1",
		VendorID:      "vend-1",
		UserID:        "user-1",
		Rating:        5,
		HygieneRating: intPtr(4),
		Body:          "Best golgappe in the area.",
		Images:        []string{"https://img.example.com/r1.jpg"},
		CreatedAt:     now,
	}
}

func reviewRow(rv domain.Review) []any {
	return []any{
		rv.ID, rv.VendorID, rv.UserID, rv.Rating, rv.HygieneRating, rv.Body, rv.Images, rv.HelpfulCount, rv.CreatedAt,
	}
}

func TestReviewRepository_Create_UpdatesAggregates(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewReviewRepository(mock)

	rv := sampleReview()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT rating, review_count, hygiene_rating, hygiene_review_count").
		WithArgs(rv.VendorID).
		WillReturnRows(pgxmock.NewRows(aggregateCols).AddRow(4.0, 1, 0.0, 0))
	mock.ExpectExec("INSERT INTO reviews").
		WithArgs(rv.ID, rv.VendorID, rv.UserID, rv.Rating, rv.HygieneRating, rv.Body, rv.Images, rv.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("UPDATE vendors").
		WithArgs(rv.VendorID, 4.5, 2, 4.0, 1, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec("UPDATE users SET review_count = review_count \\+ 1").
		WithArgs(rv.UserID, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	err := repo.Create(context.Background(), &rv)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_Create_NoHygieneLeavesHygieneAggregate(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewReviewRepository(mock)

	rv := sampleReview()
	rv.HygieneRating = nil

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT rating, review_count, hygiene_rating, hygiene_review_count").
		WithArgs(rv.VendorID).
		WillReturnRows(pgxmock.NewRows(aggregateCols).AddRow(4.0, 2, 3.5, 2))
	mock.ExpectExec("INSERT INTO reviews").
		WithArgs(rv.ID, rv.VendorID, rv.UserID, rv.Rating, (*int)(nil), rv.Body, rv.Images, rv.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("UPDATE vendors").
		WithArgs(rv.VendorID, 4.3, 3, 3.5, 2, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec("UPDATE users SET review_count = review_count \\+ 1").
		WithArgs(rv.UserID, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	err := repo.Create(context.Background(), &rv)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_Create_UnknownVendor(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewReviewRepository(mock)

	rv := sampleReview()
	rv.VendorID = "vend-missing"

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT rating, review_count, hygiene_rating, hygiene_review_count").
		WithArgs(rv.VendorID).
		WillReturnRows(pgxmock.NewRows(aggregateCols))
	mock.ExpectRollback()

	err := repo.Create(context.Background(), &rv)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_Delete_RestoresAggregates(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewReviewRepository(mock)

	rv := sampleReview()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .+ FROM reviews WHERE id .+ FOR UPDATE").
		WithArgs(rv.ID).
		WillReturnRows(pgxmock.NewRows(reviewCols).AddRow(reviewRow(rv)...))
	mock.ExpectQuery("SELECT rating, review_count, hygiene_rating, hygiene_review_count").
		WithArgs(rv.VendorID).
		WillReturnRows(pgxmock.NewRows(aggregateCols).AddRow(4.5, 2, 4.0, 1))
	mock.ExpectExec("UPDATE vendors").
		WithArgs(rv.VendorID, 4.0, 1, 0.0, 0, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec("DELETE FROM reviews").
		WithArgs(rv.ID).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec("UPDATE users SET review_count = GREATEST").
		WithArgs(rv.UserID, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	deleted, err := repo.Delete(context.Background(), rv.ID, rv.UserID)
	require.NoError(t, err)
	assert.Equal(t, rv.ID, deleted.ID)
	assert.Equal(t, rv.VendorID, deleted.VendorID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_Delete_NotAuthor(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewReviewRepository(mock)

	rv := sampleReview()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .+ FROM reviews WHERE id .+ FOR UPDATE").
		WithArgs(rv.ID).
		WillReturnRows(pgxmock.NewRows(reviewCols).AddRow(reviewRow(rv)...))
	mock.ExpectRollback()

	_, err := repo.Delete(context.Background(), rv.ID, "user-other")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_Delete_NotFound(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewReviewRepository(mock)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .+ FROM reviews WHERE id .+ FOR UPDATE").
		WithArgs("rev-missing").
		WillReturnRows(pgxmock.NewRows(reviewCols))
	mock.ExpectRollback()

	_, err := repo.Delete(context.Background(), "rev-missing", "user-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_ListByVendor(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewReviewRepository(mock)

	rv := sampleReview()
	mock.ExpectQuery("SELECT .+ FROM reviews WHERE vendor_id").
		WithArgs(rv.VendorID).
		WillReturnRows(pgxmock.NewRows(reviewCols).AddRow(reviewRow(rv)...))

	result, err := repo.ListByVendor(context.Background(), rv.VendorID)
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, rv.Body, result[0].Body)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_ToggleHelpful_On(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewReviewRepository(mock)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM reviews WHERE id .+ FOR UPDATE").
		WithArgs("rev-1").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow("rev-1"))
	mock.ExpectExec("DELETE FROM review_helpful_votes").
		WithArgs("rev-1", "user-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectExec("INSERT INTO review_helpful_votes").
		WithArgs("rev-1", "user-1", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("UPDATE reviews SET helpful_count = helpful_count \\+ 1").
		WithArgs("rev-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	helpful, err := repo.ToggleHelpful(context.Background(), "rev-1", "user-1")
	require.NoError(t, err)
	assert.True(t, helpful)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_ToggleHelpful_Off(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewReviewRepository(mock)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM reviews WHERE id .+ FOR UPDATE").
		WithArgs("rev-1").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow("rev-1"))
	mock.ExpectExec("DELETE FROM review_helpful_votes").
		WithArgs("rev-1", "user-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec("UPDATE reviews SET helpful_count = GREATEST").
		WithArgs("rev-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	helpful, err := repo.ToggleHelpful(context.Background(), "rev-1", "user-1")
	require.NoError(t, err)
	assert.False(t, helpful)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_ToggleHelpful_NotFound(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewReviewRepository(mock)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM reviews WHERE id .+ FOR UPDATE").
		WithArgs("rev-missing").
		WillReturnRows(pgxmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	_, err := repo.ToggleHelpful(context.Background(), "rev-missing", "user-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
