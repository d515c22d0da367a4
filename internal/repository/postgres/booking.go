package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Anupmor1998/foodApp/internal/domain"
	"github.com/Anupmor1998/foodApp/pkg/database"
	apperrors "github.com/Anupmor1998/foodApp/pkg/errors"
)

// BookingRepository implements repository.BookingRepository using PostgreSQL.
type BookingRepository struct {
	db database.DBTX
}

// NewBookingRepository creates a new PostgreSQL-backed booking repository.
func NewBookingRepository(db database.DBTX) *BookingRepository {
	return &BookingRepository{db: db}
}

// Create inserts a new booking. The UNIQUE (checkout_session_id) constraint
// is the durable exactly-once guarantee for webhook fulfillment: a replayed
// session surfaces here as an AlreadyExists error.
func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	query := `
		INSERT INTO bookings (id, tour_id, user_id, price, checkout_session_id, paid, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.Exec(ctx, query,
		b.ID,
		b.TourID,
		b.UserID,
		b.Price,
		b.CheckoutSessionID,
		b.Paid,
		b.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("booking", "checkout_session_id", b.CheckoutSessionID)
		}
		return fmt.Errorf("insert booking: %w", err)
	}

	return nil
}

// GetByCheckoutSessionID retrieves the booking created for a checkout session.
func (r *BookingRepository) GetByCheckoutSessionID(ctx context.Context, sessionID string) (*domain.Booking, error) {
	query := `
		SELECT id, tour_id, user_id, price, checkout_session_id, paid, created_at
		FROM bookings
		WHERE checkout_session_id = $1`

	var b domain.Booking
	err := r.db.QueryRow(ctx, query, sessionID).Scan(
		&b.ID,
		&b.TourID,
		&b.UserID,
		&b.Price,
		&b.CheckoutSessionID,
		&b.Paid,
		&b.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("booking", sessionID)
		}
		return nil, fmt.Errorf("get booking by checkout session: %w", err)
	}

	return &b, nil
}

// ListByUserID returns all bookings for a user, newest first.
func (r *BookingRepository) ListByUserID(ctx context.Context, userID string) ([]domain.Booking, error) {
	query := `
		SELECT id, tour_id, user_id, price, checkout_session_id, paid, created_at
		FROM bookings
		WHERE user_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list bookings by user: %w", err)
	}
	defer rows.Close()

	var bookings []domain.Booking
	for rows.Next() {
		var b domain.Booking
		if err := rows.Scan(
			&b.ID,
			&b.TourID,
			&b.UserID,
			&b.Price,
			&b.CheckoutSessionID,
			&b.Paid,
			&b.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan booking row: %w", err)
		}
		bookings = append(bookings, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate booking rows: %w", err)
	}

	return bookings, nil
}
