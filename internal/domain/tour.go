package domain

import (
	"math"
	"time"
)

// Tour difficulty constants.
const (
	DifficultyEasy      = "easy"
	DifficultyMedium    = "medium"
	DifficultyDifficult = "difficult"
)

// Rating defaults applied to a tour with no reviews. These mirror the values
// a freshly created tour starts with.
const (
	DefaultRatingsAverage  = 4.5
	DefaultRatingsQuantity = 0
)

// Location is a geographic point with optional address metadata.
type Location struct {
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	Address     string  `json:"address,omitempty"`
	Description string  `json:"description,omitempty"`
}

// Tour represents a bookable tour, including the denormalized rating summary
// maintained by the rating aggregator.
type Tour struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Slug            string    `json:"slug"`
	Price           float64   `json:"price"`
	Duration        int       `json:"duration"`
	Difficulty      string    `json:"difficulty"`
	MaxGroupSize    int       `json:"max_group_size"`
	RatingsAverage  float64   `json:"ratings_average"`
	RatingsQuantity int       `json:"ratings_quantity"`
	Summary         string    `json:"summary"`
	Description     string    `json:"description,omitempty"`
	ImageCover      string    `json:"image_cover"`
	StartLocation   Location  `json:"start_location"`
	SecretTour      bool      `json:"-"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// TourDistance annotates a tour with its distance from a query point,
// expressed in the unit requested by the caller.
type TourDistance struct {
	TourID   string  `json:"id"`
	Name     string  `json:"name"`
	Distance float64 `json:"distance"`
}

// ValidDifficulties returns all valid tour difficulties.
func ValidDifficulties() []string {
	return []string{DifficultyEasy, DifficultyMedium, DifficultyDifficult}
}

// IsValidDifficulty checks whether the given difficulty is valid.
func IsValidDifficulty(difficulty string) bool {
	for _, d := range ValidDifficulties() {
		if d == difficulty {
			return true
		}
	}
	return false
}

// RoundRating rounds a raw rating mean to one decimal place, the precision
// stored on the tour.
func RoundRating(avg float64) float64 {
	return math.Round(avg*10) / 10
}
