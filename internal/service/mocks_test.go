package service

import (
	"context"
	"log/slog"
	"os"

	"github.com/stretchr/testify/mock"

	"github.com/Anupmor1998/foodApp/internal/domain"
	"github.com/Anupmor1998/foodApp/internal/event"
	"github.com/Anupmor1998/foodApp/internal/provider"
)

// --- Mock repositories ---

type mockTourRepository struct {
	mock.Mock
}

func (m *mockTourRepository) GetByID(ctx context.Context, id string) (*domain.Tour, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Tour), args.Error(1)
}

func (m *mockTourRepository) List(ctx context.Context) ([]domain.Tour, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Tour), args.Error(1)
}

func (m *mockTourRepository) UpdateRatingStats(ctx context.Context, tourID string, average float64, quantity int) (bool, error) {
	args := m.Called(ctx, tourID, average, quantity)
	return args.Bool(0), args.Error(1)
}

func (m *mockTourRepository) WithinRadius(ctx context.Context, lat, lng, radius float64) ([]domain.Tour, error) {
	args := m.Called(ctx, lat, lng, radius)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Tour), args.Error(1)
}

func (m *mockTourRepository) DistancesFrom(ctx context.Context, lat, lng, multiplier float64) ([]domain.TourDistance, error) {
	args := m.Called(ctx, lat, lng, multiplier)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TourDistance), args.Error(1)
}

type mockReviewRepository struct {
	mock.Mock
}

func (m *mockReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *mockReviewRepository) GetByID(ctx context.Context, id string) (*domain.Review, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Review), args.Error(1)
}

func (m *mockReviewRepository) Update(ctx context.Context, review *domain.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *mockReviewRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockReviewRepository) ListByTourID(ctx context.Context, tourID string) ([]domain.Review, error) {
	args := m.Called(ctx, tourID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Review), args.Error(1)
}

func (m *mockReviewRepository) RatingStats(ctx context.Context, tourID string) (domain.RatingStats, error) {
	args := m.Called(ctx, tourID)
	return args.Get(0).(domain.RatingStats), args.Error(1)
}

type mockBookingRepository struct {
	mock.Mock
}

func (m *mockBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}

func (m *mockBookingRepository) GetByCheckoutSessionID(ctx context.Context, sessionID string) (*domain.Booking, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *mockBookingRepository) ListByUserID(ctx context.Context, userID string) ([]domain.Booking, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

type mockSessionDedup struct {
	mock.Mock
}

func (m *mockSessionDedup) MarkProcessed(ctx context.Context, sessionID string) (bool, error) {
	args := m.Called(ctx, sessionID)
	return args.Bool(0), args.Error(1)
}

// --- Mock event publisher ---

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) BookingCreated(ctx context.Context, data event.BookingCreatedData) error {
	args := m.Called(ctx, data)
	return args.Error(0)
}

func (m *mockPublisher) ReviewCreated(ctx context.Context, data event.ReviewCreatedData) error {
	args := m.Called(ctx, data)
	return args.Error(0)
}

func (m *mockPublisher) TourRatingsUpdated(ctx context.Context, data event.TourRatingsUpdatedData) error {
	args := m.Called(ctx, data)
	return args.Error(0)
}

// --- Mock payment provider ---

type mockPaymentProvider struct {
	mock.Mock
}

func (m *mockPaymentProvider) Name() string {
	return "mock"
}

func (m *mockPaymentProvider) CreateCheckoutSession(ctx context.Context, input *provider.CheckoutSessionInput) (*provider.CheckoutSession, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*provider.CheckoutSession), args.Error(1)
}

func (m *mockPaymentProvider) ConstructWebhookEvent(payload []byte, signatureHeader string) (*provider.WebhookEvent, error) {
	args := m.Called(payload, signatureHeader)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*provider.WebhookEvent), args.Error(1)
}

// --- Test helpers ---

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

// relaxedPublisher returns a publisher mock that accepts every event; tests
// that assert on publishing build their own expectations instead.
func relaxedPublisher() *mockPublisher {
	pub := new(mockPublisher)
	pub.On("BookingCreated", mock.Anything, mock.Anything).Return(nil).Maybe()
	pub.On("ReviewCreated", mock.Anything, mock.Anything).Return(nil).Maybe()
	pub.On("TourRatingsUpdated", mock.Anything, mock.Anything).Return(nil).Maybe()
	return pub
}
