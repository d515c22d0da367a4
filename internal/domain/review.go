package domain

import "time"

// Rating bounds for a review.
const (
	RatingMin = 1
	RatingMax = 5
)

// Review is a user's rating of a tour. A user may review a given tour at
// most once.
type Review struct {
	ID        string    `json:"id"`
	TourID    string    `json:"tour_id"`
	UserID    string    `json:"user_id"`
	Rating    int       `json:"rating"`
	Text      string    `json:"review"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Author is populated on read paths that join the reviewer's public
	// profile; it is never written through this struct.
	Author *UserRef `json:"user,omitempty"`
}

// RatingStats is the aggregate rating summary for a single tour, derived from
// a fresh scan over its reviews.
type RatingStats struct {
	Count   int
	Average float64
}

// IsValidRating checks that a rating is an integer within [1,5].
func IsValidRating(rating int) bool {
	return rating >= RatingMin && rating <= RatingMax
}
