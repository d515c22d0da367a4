package kafka

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bookingPayload struct {
	BookingID string  `json:"booking_id"`
	Price     float64 `json:"price"`
}

func TestNewEvent(t *testing.T) {
	evt, err := NewEvent("booking.created", "bk-001", "booking", "tour-booking-service",
		bookingPayload{BookingID: "bk-001", Price: 497})
	require.NoError(t, err)

	assert.NotEmpty(t, evt.EventID)
	assert.Equal(t, "booking.created", evt.EventType)
	assert.Equal(t, "bk-001", evt.AggregateID)
	assert.Equal(t, 1, evt.Version)
	assert.False(t, evt.Timestamp.IsZero())
}

func TestEvent_RoundTrip(t *testing.T) {
	evt, err := NewEvent("booking.created", "bk-001", "booking", "tour-booking-service",
		bookingPayload{BookingID: "bk-001", Price: 497})
	require.NoError(t, err)
	evt.WithCorrelationID("corr-123")

	data, err := evt.Marshal()
	require.NoError(t, err)

	decoded, err := UnmarshalEvent(data)
	require.NoError(t, err)
	assert.Equal(t, evt.EventID, decoded.EventID)
	assert.Equal(t, "corr-123", decoded.CorrelationID)

	var payload bookingPayload
	require.NoError(t, decoded.UnmarshalData(&payload))
	assert.Equal(t, "bk-001", payload.BookingID)
	assert.InDelta(t, 497.0, payload.Price, 1e-9)
}
