package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Anupmor1998/foodApp/internal/domain"
	"github.com/Anupmor1998/foodApp/internal/event"
	"github.com/Anupmor1998/foodApp/internal/provider"
	"github.com/Anupmor1998/foodApp/internal/repository"
	apperrors "github.com/Anupmor1998/foodApp/pkg/errors"
)

// CheckoutURLs are the redirect targets handed to the payment provider when a
// checkout session is created.
type CheckoutURLs struct {
	SuccessURL string
	CancelURL  string
	Currency   string
}

// BookingService implements checkout session creation and webhook-driven
// booking fulfillment.
type BookingService struct {
	bookings repository.BookingRepository
	tours    repository.TourRepository
	users    repository.UserRepository
	dedup    repository.SessionDedup
	payments provider.Provider
	urls     CheckoutURLs

	publisher event.Publisher
	logger    *slog.Logger
}

// NewBookingService creates a new booking service.
func NewBookingService(
	bookings repository.BookingRepository,
	tours repository.TourRepository,
	users repository.UserRepository,
	dedup repository.SessionDedup,
	payments provider.Provider,
	urls CheckoutURLs,
	publisher event.Publisher,
	logger *slog.Logger,
) *BookingService {
	return &BookingService{
		bookings:  bookings,
		tours:     tours,
		users:     users,
		dedup:     dedup,
		payments:  payments,
		urls:      urls,
		publisher: publisher,
		logger:    logger,
	}
}

// CreateCheckoutSession creates a hosted checkout session for the given tour
// on behalf of the authenticated user. The tour id rides along as the
// session's client reference so the webhook can resolve it later.
func (s *BookingService) CreateCheckoutSession(ctx context.Context, tourID, userEmail string) (*provider.CheckoutSession, error) {
	tour, err := s.tours.GetByID(ctx, tourID)
	if err != nil {
		return nil, fmt.Errorf("get tour for checkout: %w", err)
	}

	session, err := s.payments.CreateCheckoutSession(ctx, &provider.CheckoutSessionInput{
		TourID:        tour.ID,
		TourName:      fmt.Sprintf("%s Tour", tour.Name),
		TourSummary:   tour.Summary,
		ImageURL:      tour.ImageCover,
		CustomerEmail: userEmail,
		UnitAmount:    int64(tour.Price * domain.MinorUnitScale),
		Currency:      s.urls.Currency,
		SuccessURL:    s.urls.SuccessURL,
		CancelURL:     s.urls.CancelURL,
	})
	if err != nil {
		return nil, fmt.Errorf("create checkout session: %w", err)
	}

	s.logger.InfoContext(ctx, "checkout session created",
		slog.String("tour_id", tour.ID),
		slog.String("session_id", session.ID),
		slog.String("provider", s.payments.Name()),
	)

	return session, nil
}

// HandleWebhookEvent reacts to an authenticated payment-provider event.
// Unrecognized event types are ignored; the handler still acknowledges them
// so the provider stops retrying.
func (s *BookingService) HandleWebhookEvent(ctx context.Context, evt *provider.WebhookEvent) error {
	if evt.Type != provider.EventTypeCheckoutCompleted || evt.Session == nil {
		s.logger.DebugContext(ctx, "ignoring webhook event",
			slog.String("event_id", evt.ID),
			slog.String("event_type", evt.Type),
		)
		return nil
	}
	return s.fulfillCheckout(ctx, evt.Session)
}

// fulfillCheckout turns a completed checkout session into a booking exactly
// once. The dedup store filters provider retries cheaply; the bookings
// table's unique session constraint is the durable guarantee behind it.
func (s *BookingService) fulfillCheckout(ctx context.Context, session *provider.CheckoutCompleted) error {
	fresh, err := s.dedup.MarkProcessed(ctx, session.SessionID)
	if err != nil {
		// The dedup store is an optimization; fall through to the database
		// constraint rather than dropping the event.
		s.logger.WarnContext(ctx, "session dedup unavailable, relying on unique constraint",
			slog.String("session_id", session.SessionID),
			slog.String("error", err.Error()),
		)
	} else if !fresh {
		s.logger.InfoContext(ctx, "checkout session already processed",
			slog.String("session_id", session.SessionID),
		)
		return nil
	}

	user, err := s.users.GetByEmail(ctx, session.CustomerEmail)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			// No local account for the payer. Nothing to attach the booking
			// to; acknowledge so the provider stops retrying.
			s.logger.WarnContext(ctx, "no user for checkout session, skipping fulfillment",
				slog.String("session_id", session.SessionID),
			)
			return nil
		}
		return fmt.Errorf("get user for fulfillment: %w", err)
	}

	booking := &domain.Booking{
		ID:                uuid.New().String(),
		TourID:            session.ClientReferenceID,
		UserID:            user.ID,
		Price:             float64(session.UnitAmount) / domain.MinorUnitScale,
		CheckoutSessionID: session.SessionID,
		Paid:              true,
		CreatedAt:         time.Now().UTC(),
	}

	if err := s.bookings.Create(ctx, booking); err != nil {
		if errors.Is(err, apperrors.ErrAlreadyExists) {
			s.logger.InfoContext(ctx, "booking already exists for checkout session",
				slog.String("session_id", session.SessionID),
			)
			return nil
		}
		return fmt.Errorf("create booking: %w", err)
	}

	if err := s.publisher.BookingCreated(ctx, event.BookingCreatedData{
		BookingID:         booking.ID,
		TourID:            booking.TourID,
		UserID:            booking.UserID,
		Price:             booking.Price,
		CheckoutSessionID: booking.CheckoutSessionID,
		CreatedAt:         booking.CreatedAt,
	}); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish booking.created event",
			slog.String("booking_id", booking.ID),
			slog.String("error", err.Error()),
		)
		// Do not fail fulfillment if event publishing fails.
	}

	s.logger.InfoContext(ctx, "booking fulfilled",
		slog.String("booking_id", booking.ID),
		slog.String("tour_id", booking.TourID),
		slog.String("user_id", booking.UserID),
		slog.Float64("price", booking.Price),
	)

	return nil
}

// ListBookingsByUser returns all bookings for a user, newest first.
func (s *BookingService) ListBookingsByUser(ctx context.Context, userID string) ([]domain.Booking, error) {
	bookings, err := s.bookings.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list bookings by user: %w", err)
	}
	return bookings, nil
}
