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

func setupBookingRepo(t *testing.T) (*BookingRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	repo := NewBookingRepository(mock)
	return repo, mock
}

func sampleBooking() *domain.Booking {
	return &domain.Booking{
		ID:                "bk-001",
		TourID:            "tour-001",
		UserID:            "user-001",
		Price:             497,
		CheckoutSessionID: "cs_test_123",
		Paid:              true,
		CreatedAt:         time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func bookingColumns() []string {
	return []string{"id", "tour_id", "user_id", "price", "checkout_session_id", "paid", "created_at"}
}

func bookingRow(b *domain.Booking) *pgxmock.Rows {
	return pgxmock.NewRows(bookingColumns()).
		AddRow(b.ID, b.TourID, b.UserID, b.Price, b.CheckoutSessionID, b.Paid, b.CreatedAt)
}

func TestBookingRepository_Create_Success(t *testing.T) {
	repo, mock := setupBookingRepo(t)
	defer mock.Close()

	b := sampleBooking()

	mock.ExpectExec("INSERT INTO bookings").
		WithArgs(b.ID, b.TourID, b.UserID, b.Price, b.CheckoutSessionID, b.Paid, b.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := repo.Create(context.Background(), b)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRepository_Create_DuplicateSession(t *testing.T) {
	repo, mock := setupBookingRepo(t)
	defer mock.Close()

	b := sampleBooking()

	mock.ExpectExec("INSERT INTO bookings").
		WithArgs(b.ID, b.TourID, b.UserID, b.Price, b.CheckoutSessionID, b.Paid, b.CreatedAt).
		WillReturnError(errors.New("ERROR: duplicate key value violates unique constraint (SQLSTATE 23505)"))

	err := repo.Create(context.Background(), b)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRepository_GetByCheckoutSessionID_Success(t *testing.T) {
	repo, mock := setupBookingRepo(t)
	defer mock.Close()

	b := sampleBooking()

	mock.ExpectQuery("SELECT .+ FROM bookings WHERE checkout_session_id").
		WithArgs(b.CheckoutSessionID).
		WillReturnRows(bookingRow(b))

	result, err := repo.GetByCheckoutSessionID(context.Background(), b.CheckoutSessionID)
	require.NoError(t, err)
	assert.Equal(t, b.ID, result.ID)
	assert.True(t, result.Paid)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRepository_GetByCheckoutSessionID_NotFound(t *testing.T) {
	repo, mock := setupBookingRepo(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT .+ FROM bookings WHERE checkout_session_id").
		WithArgs("cs_missing").
		WillReturnRows(pgxmock.NewRows(bookingColumns()))

	_, err := repo.GetByCheckoutSessionID(context.Background(), "cs_missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRepository_ListByUserID(t *testing.T) {
	repo, mock := setupBookingRepo(t)
	defer mock.Close()

	b := sampleBooking()

	mock.ExpectQuery("SELECT .+ FROM bookings WHERE user_id").
		WithArgs(b.UserID).
		WillReturnRows(bookingRow(b))

	bookings, err := repo.ListByUserID(context.Background(), b.UserID)
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, b.ID, bookings[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
