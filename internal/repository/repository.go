package repository

import (
	"context"

	"github.com/Anupmor1998/foodApp/internal/domain"
)

// TourRepository defines persistence operations over tours.
type TourRepository interface {
	// GetByID retrieves a tour by its unique identifier.
	GetByID(ctx context.Context, id string) (*domain.Tour, error)

	// List returns all non-secret tours.
	List(ctx context.Context) ([]domain.Tour, error)

	// UpdateRatingStats writes the denormalized rating summary. A missing
	// tour is not an error; the update reports zero affected rows via the
	// returned bool.
	UpdateRatingStats(ctx context.Context, tourID string, average float64, quantity int) (bool, error)

	// WithinRadius returns tours whose start location lies within the given
	// angular radius (radians) of the center point.
	WithinRadius(ctx context.Context, lat, lng, radius float64) ([]domain.Tour, error)

	// DistancesFrom returns every tour annotated with its distance from the
	// center point, scaled by multiplier (meters to target unit), ascending.
	DistancesFrom(ctx context.Context, lat, lng, multiplier float64) ([]domain.TourDistance, error)
}

// ReviewRepository defines persistence operations over reviews.
type ReviewRepository interface {
	// Create inserts a new review. Violating the one-review-per-(tour,user)
	// constraint yields an AlreadyExists error.
	Create(ctx context.Context, review *domain.Review) error

	// GetByID retrieves a review by its unique identifier.
	GetByID(ctx context.Context, id string) (*domain.Review, error)

	// Update modifies the rating and text of an existing review.
	Update(ctx context.Context, review *domain.Review) error

	// Delete removes a review.
	Delete(ctx context.Context, id string) error

	// ListByTourID returns all reviews for a tour, newest first, with the
	// author's public profile joined in.
	ListByTourID(ctx context.Context, tourID string) ([]domain.Review, error)

	// RatingStats computes the review count and mean rating for a tour with
	// a single aggregate query over the current review set.
	RatingStats(ctx context.Context, tourID string) (domain.RatingStats, error)
}

// BookingRepository defines persistence operations over bookings.
type BookingRepository interface {
	// Create inserts a new booking. A duplicate checkout session id yields
	// an AlreadyExists error.
	Create(ctx context.Context, booking *domain.Booking) error

	// GetByCheckoutSessionID retrieves the booking created for a checkout
	// session, if any.
	GetByCheckoutSessionID(ctx context.Context, sessionID string) (*domain.Booking, error)

	// ListByUserID returns all bookings for a user, newest first.
	ListByUserID(ctx context.Context, userID string) ([]domain.Booking, error)
}

// UserRepository is the lookup surface this service needs from the user
// store; the full account lifecycle lives elsewhere.
type UserRepository interface {
	// GetByID retrieves a user by id.
	GetByID(ctx context.Context, id string) (*domain.User, error)

	// GetByEmail retrieves a user by exact, case-normalized email.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// SessionDedup is the fast-path guard against reprocessing a checkout
// session. MarkProcessed returns false when the session was already seen.
// The bookings table's unique constraint remains the durable guarantee.
type SessionDedup interface {
	MarkProcessed(ctx context.Context, sessionID string) (bool, error)
}
