package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Anupmor1998/foodApp/internal/domain"
	"github.com/Anupmor1998/foodApp/pkg/database"
	apperrors "github.com/Anupmor1998/foodApp/pkg/errors"
)

func setupReviewRepo(t *testing.T) (*ReviewRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	repo := NewReviewRepository(mock)
	return repo, mock
}

func sampleReview() *domain.Review {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return &domain.Review{
		ID:        "rev-001",
		TourID:    "tour-001",
		UserID:    "user-001",
		Rating:    5,
		Text:      "Amazing experience",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// ---------------------------------------------------------------------------
// Create
// ---------------------------------------------------------------------------

func TestReviewRepository_Create_Success(t *testing.T) {
	repo, mock := setupReviewRepo(t)
	defer mock.Close()

	rev := sampleReview()

	mock.ExpectExec("INSERT INTO reviews").
		WithArgs(rev.ID, rev.TourID, rev.UserID, rev.Rating, rev.Text, rev.CreatedAt, rev.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := repo.Create(context.Background(), rev)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_Create_DuplicateTourAndUser(t *testing.T) {
	repo, mock := setupReviewRepo(t)
	defer mock.Close()

	rev := sampleReview()

	mock.ExpectExec("INSERT INTO reviews").
		WithArgs(rev.ID, rev.TourID, rev.UserID, rev.Rating, rev.Text, rev.CreatedAt, rev.UpdatedAt).
		WillReturnError(errors.New("ERROR: duplicate key value violates unique constraint (SQLSTATE 23505)"))

	err := repo.Create(context.Background(), rev)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ---------------------------------------------------------------------------
// Update / Delete
// ---------------------------------------------------------------------------

func TestReviewRepository_Update_NotFound(t *testing.T) {
	repo, mock := setupReviewRepo(t)
	defer mock.Close()

	rev := sampleReview()

	mock.ExpectExec("UPDATE reviews SET rating").
		WithArgs(rev.Rating, rev.Text, rev.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.Update(context.Background(), rev)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_Delete_Success(t *testing.T) {
	repo, mock := setupReviewRepo(t)
	defer mock.Close()

	mock.ExpectExec("DELETE FROM reviews WHERE id").
		WithArgs("rev-001").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	err := repo.Delete(context.Background(), "rev-001")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ---------------------------------------------------------------------------
// ListByTourID
// ---------------------------------------------------------------------------

func TestReviewRepository_ListByTourID_JoinsAuthor(t *testing.T) {
	repo, mock := setupReviewRepo(t)
	defer mock.Close()

	rev := sampleReview()
	rows := pgxmock.NewRows([]string{
		"id", "tour_id", "user_id", "rating", "review", "created_at", "updated_at",
		"name", "photo",
	}).AddRow(
		rev.ID, rev.TourID, rev.UserID, rev.Rating, rev.Text, rev.CreatedAt, rev.UpdatedAt,
		"Lourdes Browning", "user-2.jpg",
	)

	mock.ExpectQuery("SELECT .+ FROM reviews r JOIN users u").
		WithArgs(rev.TourID).
		WillReturnRows(rows)

	reviews, err := repo.ListByTourID(context.Background(), rev.TourID)
	require.NoError(t, err)
	require.Len(t, reviews, 1)

	require.NotNil(t, reviews[0].Author)
	assert.Equal(t, rev.UserID, reviews[0].Author.ID)
	assert.Equal(t, "Lourdes Browning", reviews[0].Author.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ---------------------------------------------------------------------------
// RatingStats
// ---------------------------------------------------------------------------

func TestReviewRepository_RatingStats(t *testing.T) {
	repo, mock := setupReviewRepo(t)
	defer mock.Close()

	rows := pgxmock.NewRows([]string{"count", "coalesce"}).AddRow(3, 4.666666666666667)

	mock.ExpectQuery(`SELECT COUNT\(\*\), COALESCE\(AVG\(rating\), 0\) FROM reviews`).
		WithArgs("tour-001").
		WillReturnRows(rows)

	stats, err := repo.RatingStats(context.Background(), "tour-001")
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Count)
	assert.InDelta(t, 4.666666666666667, stats.Average, 1e-12)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_RatingStats_EmptyTour(t *testing.T) {
	repo, mock := setupReviewRepo(t)
	defer mock.Close()

	rows := pgxmock.NewRows([]string{"count", "coalesce"}).AddRow(0, 0.0)

	mock.ExpectQuery(`SELECT COUNT\(\*\), COALESCE\(AVG\(rating\), 0\) FROM reviews`).
		WithArgs("tour-empty").
		WillReturnRows(rows)

	stats, err := repo.RatingStats(context.Background(), "tour-empty")
	require.NoError(t, err)
	assert.Zero(t, stats.Count)
	assert.Zero(t, stats.Average)
	assert.NoError(t, mock.ExpectationsWereMet())
}
