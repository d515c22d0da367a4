package domain

import "time"

// MinorUnitScale is the currency's smallest-unit divisor: payment providers
// report amounts in cents.
const MinorUnitScale = 100

// Booking records a paid reservation of a tour. Bookings are created only by
// the webhook fulfillment path, never from a direct client request.
type Booking struct {
	ID                string    `json:"id"`
	TourID            string    `json:"tour_id"`
	UserID            string    `json:"user_id"`
	Price             float64   `json:"price"`
	CheckoutSessionID string    `json:"-"`
	Paid              bool      `json:"paid"`
	CreatedAt         time.Time `json:"created_at"`
}
