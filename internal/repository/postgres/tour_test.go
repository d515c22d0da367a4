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

// ---------------------------------------------------------------------------
// helpers
// ---------------------------------------------------------------------------

func setupTourRepo(t *testing.T) (*TourRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	repo := NewTourRepository(mock)
	return repo, mock
}

func sampleTour() *domain.Tour {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return &domain.Tour{
		ID:              "tour-001",
		Name:            "The Forest Hiker",
		Slug:            "the-forest-hiker",
		Price:           497,
		Duration:        5,
		Difficulty:      domain.DifficultyMedium,
		MaxGroupSize:    25,
		RatingsAverage:  4.7,
		RatingsQuantity: 37,
		Summary:         "Breathtaking hike through the Canadian Banff National Park",
		Description:     "A long description",
		ImageCover:      "tour-1-cover.jpg",
		StartLocation: domain.Location{
			Lat:         34.111745,
			Lng:         -118.113491,
			Address:     "224 Banff Ave, Banff, AB, Canada",
			Description: "Banff, CAN",
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func tourTestColumns() []string {
	return []string{
		"id", "name", "slug", "price", "duration", "difficulty", "max_group_size",
		"ratings_average", "ratings_quantity", "summary", "description", "image_cover",
		"start_lat", "start_lng", "start_address", "start_description", "secret_tour",
		"created_at", "updated_at",
	}
}

func tourRow(tour *domain.Tour) *pgxmock.Rows {
	return pgxmock.NewRows(tourTestColumns()).
		AddRow(
			tour.ID, tour.Name, tour.Slug, tour.Price, tour.Duration, tour.Difficulty,
			tour.MaxGroupSize, tour.RatingsAverage, tour.RatingsQuantity, tour.Summary,
			tour.Description, tour.ImageCover,
			tour.StartLocation.Lat, tour.StartLocation.Lng,
			tour.StartLocation.Address, tour.StartLocation.Description,
			tour.SecretTour, tour.CreatedAt, tour.UpdatedAt,
		)
}

// ---------------------------------------------------------------------------
// GetByID
// ---------------------------------------------------------------------------

func TestTourRepository_GetByID_Success(t *testing.T) {
	repo, mock := setupTourRepo(t)
	defer mock.Close()

	tour := sampleTour()

	mock.ExpectQuery("SELECT .+ FROM tours WHERE id").
		WithArgs(tour.ID).
		WillReturnRows(tourRow(tour))

	result, err := repo.GetByID(context.Background(), tour.ID)
	require.NoError(t, err)

	assert.Equal(t, tour.ID, result.ID)
	assert.Equal(t, tour.Name, result.Name)
	assert.Equal(t, tour.RatingsAverage, result.RatingsAverage)
	assert.Equal(t, tour.RatingsQuantity, result.RatingsQuantity)
	assert.Equal(t, tour.StartLocation, result.StartLocation)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTourRepository_GetByID_NotFound(t *testing.T) {
	repo, mock := setupTourRepo(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT .+ FROM tours WHERE id").
		WithArgs("missing").
		WillReturnRows(pgxmock.NewRows(tourTestColumns()))

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ---------------------------------------------------------------------------
// UpdateRatingStats
// ---------------------------------------------------------------------------

func TestTourRepository_UpdateRatingStats_Success(t *testing.T) {
	repo, mock := setupTourRepo(t)
	defer mock.Close()

	mock.ExpectExec("UPDATE tours SET ratings_average").
		WithArgs(4.7, 37, "tour-001").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	updated, err := repo.UpdateRatingStats(context.Background(), "tour-001", 4.7, 37)
	require.NoError(t, err)
	assert.True(t, updated)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTourRepository_UpdateRatingStats_MissingTour(t *testing.T) {
	repo, mock := setupTourRepo(t)
	defer mock.Close()

	mock.ExpectExec("UPDATE tours SET ratings_average").
		WithArgs(4.5, 0, "missing").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	updated, err := repo.UpdateRatingStats(context.Background(), "missing", 4.5, 0)
	require.NoError(t, err)
	assert.False(t, updated)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ---------------------------------------------------------------------------
// Geo queries
// ---------------------------------------------------------------------------

func TestTourRepository_WithinRadius(t *testing.T) {
	repo, mock := setupTourRepo(t)
	defer mock.Close()

	tour := sampleTour()
	radius := 200 / 3963.2

	mock.ExpectQuery("SELECT .+ FROM tours WHERE secret_tour = FALSE AND acos").
		WithArgs(34.111745, -118.113491, radius).
		WillReturnRows(tourRow(tour))

	tours, err := repo.WithinRadius(context.Background(), 34.111745, -118.113491, radius)
	require.NoError(t, err)
	require.Len(t, tours, 1)
	assert.Equal(t, tour.ID, tours[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTourRepository_DistancesFrom(t *testing.T) {
	repo, mock := setupTourRepo(t)
	defer mock.Close()

	rows := pgxmock.NewRows([]string{"id", "name", "distance"}).
		AddRow("tour-001", "The Forest Hiker", 123.4).
		AddRow("tour-002", "The Sea Explorer", 456.7)

	mock.ExpectQuery("SELECT id, name, acos.+ AS distance FROM tours").
		WithArgs(34.111745, -118.113491, 0.000621371).
		WillReturnRows(rows)

	distances, err := repo.DistancesFrom(context.Background(), 34.111745, -118.113491, 0.000621371)
	require.NoError(t, err)
	require.Len(t, distances, 2)
	assert.Equal(t, "tour-001", distances[0].TourID)
	assert.InDelta(t, 123.4, distances[0].Distance, 1e-9)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTourRepository_WithinRadius_QueryError(t *testing.T) {
	repo, mock := setupTourRepo(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT .+ FROM tours WHERE secret_tour = FALSE AND acos").
		WithArgs(0.0, 0.0, 0.1).
		WillReturnError(errors.New("connection refused"))

	_, err := repo.WithinRadius(context.Background(), 0, 0, 0.1)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "tours within radius")
	assert.NoError(t, mock.ExpectationsWereMet())
}
