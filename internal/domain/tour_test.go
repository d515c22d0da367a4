package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoundRating(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"already one decimal", 4.5, 4.5},
		{"rounds down", 4.6666666, 4.7},
		{"rounds half up", 4.25, 4.3},
		{"integer mean", 5.0, 5.0},
		{"low mean", 1.04, 1.0},
		{"zero", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, RoundRating(tt.in), 1e-9)
		})
	}
}

func TestIsValidDifficulty(t *testing.T) {
	assert.True(t, IsValidDifficulty(DifficultyEasy))
	assert.True(t, IsValidDifficulty(DifficultyMedium))
	assert.True(t, IsValidDifficulty(DifficultyDifficult))
	assert.False(t, IsValidDifficulty("extreme"))
	assert.False(t, IsValidDifficulty(""))
}

func TestIsValidRating(t *testing.T) {
	assert.True(t, IsValidRating(RatingMin))
	assert.True(t, IsValidRating(3))
	assert.True(t, IsValidRating(RatingMax))
	assert.False(t, IsValidRating(0))
	assert.False(t, IsValidRating(6))
	assert.False(t, IsValidRating(-1))
}
