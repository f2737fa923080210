package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleConfig struct {
	Name    string `validate:"required"`
	FeedURL string `validate:"omitempty,url"`
	Email   string `validate:"omitempty,email"`
	Port    int    `validate:"gte=1,lte=65535"`
}

func TestValidate_Valid(t *testing.T) {
	err := Validate(sampleConfig{
		Name:    "catalog",
		FeedURL: "https://example.com/feed.csv",
		Email:   "ops@example.com",
		Port:    8080,
	})
	assert.NoError(t, err)
}

func TestValidate_CollectsFieldErrors(t *testing.T) {
	err := Validate(sampleConfig{FeedURL: "not-a-url", Port: 0})
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)

	fields := valErr.Fields()
	assert.Equal(t, "is required", fields["Name"])
	assert.Equal(t, "must be a valid URL", fields["FeedURL"])
	assert.Contains(t, fields["Port"], "greater than or equal to 1")
}

func TestValidationError_Message(t *testing.T) {
	err := Validate(sampleConfig{Port: 8080})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "field 'Name' is required")
}
