package validator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type reviewPayload struct {
	Rating int    `validate:"required,gte=1,lte=5"`
	Review string `validate:"required,min=1,max=2000"`
}

func TestValidate_Success(t *testing.T) {
	err := Validate(reviewPayload{Rating: 4, Review: "great"})
	assert.NoError(t, err)
}

func TestValidate_FieldMessages(t *testing.T) {
	err := Validate(reviewPayload{Rating: 9})
	require.Error(t, err)

	var valErr *ValidationError
	require.True(t, errors.As(err, &valErr))

	fields := valErr.Fields()
	assert.Equal(t, "must be less than or equal to 5", fields["Rating"])
	assert.Equal(t, "is required", fields["Review"])
	assert.Contains(t, valErr.Error(), "Rating")
}
