package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Anupmor1998/foodApp/internal/domain"
	"github.com/Anupmor1998/foodApp/internal/event"
	"github.com/Anupmor1998/foodApp/internal/provider"
	"github.com/Anupmor1998/foodApp/internal/service"
	apperrors "github.com/Anupmor1998/foodApp/pkg/errors"
)

// --- Stubs ---

type stubProvider struct {
	event *provider.WebhookEvent
	err   error
}

func (s *stubProvider) Name() string { return "stub" }

func (s *stubProvider) CreateCheckoutSession(context.Context, *provider.CheckoutSessionInput) (*provider.CheckoutSession, error) {
	return nil, errors.New("not implemented")
}

func (s *stubProvider) ConstructWebhookEvent([]byte, string) (*provider.WebhookEvent, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.event, nil
}

type stubBookingRepo struct {
	created []*domain.Booking
	err     error
}

func (s *stubBookingRepo) Create(_ context.Context, b *domain.Booking) error {
	if s.err != nil {
		return s.err
	}
	s.created = append(s.created, b)
	return nil
}

func (s *stubBookingRepo) GetByCheckoutSessionID(context.Context, string) (*domain.Booking, error) {
	return nil, apperrors.NotFound("booking", "any")
}

func (s *stubBookingRepo) ListByUserID(context.Context, string) ([]domain.Booking, error) {
	return nil, nil
}

type stubUserRepo struct{ user *domain.User }

func (s *stubUserRepo) GetByID(context.Context, string) (*domain.User, error) {
	return s.user, nil
}

func (s *stubUserRepo) GetByEmail(context.Context, string) (*domain.User, error) {
	if s.user == nil {
		return nil, apperrors.NotFound("user", "unknown")
	}
	return s.user, nil
}

type stubDedup struct{}

func (stubDedup) MarkProcessed(context.Context, string) (bool, error) { return true, nil }

type stubTourRepo struct{}

func (stubTourRepo) GetByID(context.Context, string) (*domain.Tour, error) {
	return nil, apperrors.NotFound("tour", "any")
}
func (stubTourRepo) List(context.Context) ([]domain.Tour, error) { return nil, nil }
func (stubTourRepo) UpdateRatingStats(context.Context, string, float64, int) (bool, error) {
	return false, nil
}
func (stubTourRepo) WithinRadius(context.Context, float64, float64, float64) ([]domain.Tour, error) {
	return nil, nil
}
func (stubTourRepo) DistancesFrom(context.Context, float64, float64, float64) ([]domain.TourDistance, error) {
	return nil, nil
}

type dropPublisher struct{}

func (dropPublisher) BookingCreated(context.Context, event.BookingCreatedData) error     { return nil }
func (dropPublisher) ReviewCreated(context.Context, event.ReviewCreatedData) error       { return nil }
func (dropPublisher) TourRatingsUpdated(context.Context, event.TourRatingsUpdatedData) error {
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newWebhookHandler(p provider.Provider, bookings *stubBookingRepo, users *stubUserRepo) *WebhookHandler {
	svc := service.NewBookingService(
		bookings, stubTourRepo{}, users, stubDedup{}, p,
		service.CheckoutURLs{Currency: "usd"},
		dropPublisher{}, testLogger(),
	)
	return NewWebhookHandler(p, svc, testLogger())
}

func completedEvent() *provider.WebhookEvent {
	return &provider.WebhookEvent{
		ID:   "evt_001",
		Type: provider.EventTypeCheckoutCompleted,
		Session: &provider.CheckoutCompleted{
			SessionID:         "cs_test_123",
			ClientReferenceID: "tour-001",
			CustomerEmail:     "hiker@example.com",
			UnitAmount:        49700,
		},
	}
}

// --- Tests ---

func TestWebhook_InvalidSignatureRejected(t *testing.T) {
	bookings := &stubBookingRepo{}
	h := newWebhookHandler(&stubProvider{err: apperrors.SignatureInvalid()}, bookings, &stubUserRepo{})

	req := httptest.NewRequest(http.MethodPost, "/webhooks/stripe", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Stripe-Signature", "t=1,v1=deadbeef")
	rec := httptest.NewRecorder()

	h.HandleCheckout(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Webhook error")
	assert.Empty(t, bookings.created, "a rejected webhook must not create a booking")
}

func TestWebhook_ValidEventCreatesBooking(t *testing.T) {
	bookings := &stubBookingRepo{}
	users := &stubUserRepo{user: &domain.User{ID: "user-001", Email: "hiker@example.com"}}
	h := newWebhookHandler(&stubProvider{event: completedEvent()}, bookings, users)

	req := httptest.NewRequest(http.MethodPost, "/webhooks/stripe", bytes.NewReader([]byte(`{}`)))
	rec := httptest.NewRecorder()

	h.HandleCheckout(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]bool
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body["received"])

	require.Len(t, bookings.created, 1)
	assert.Equal(t, "tour-001", bookings.created[0].TourID)
	assert.InDelta(t, 497.0, bookings.created[0].Price, 1e-9)
}

func TestWebhook_FulfillmentFailureStillAcknowledged(t *testing.T) {
	bookings := &stubBookingRepo{err: errors.New("connection reset")}
	users := &stubUserRepo{user: &domain.User{ID: "user-001"}}
	h := newWebhookHandler(&stubProvider{event: completedEvent()}, bookings, users)

	req := httptest.NewRequest(http.MethodPost, "/webhooks/stripe", bytes.NewReader([]byte(`{}`)))
	rec := httptest.NewRecorder()

	h.HandleCheckout(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "received")
}

func TestWebhook_IgnoredEventTypeAcknowledged(t *testing.T) {
	bookings := &stubBookingRepo{}
	h := newWebhookHandler(&stubProvider{event: &provider.WebhookEvent{ID: "evt_002", Type: "invoice.paid"}}, bookings, &stubUserRepo{})

	req := httptest.NewRequest(http.MethodPost, "/webhooks/stripe", bytes.NewReader([]byte(`{}`)))
	rec := httptest.NewRecorder()

	h.HandleCheckout(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, bookings.created)
}
