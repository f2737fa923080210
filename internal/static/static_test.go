package static

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProducts_DatasetNeverEmpty(t *testing.T) {
	products := Products()
	require.NotEmpty(t, products)

	seen := make(map[string]struct{}, len(products))
	for _, p := range products {
		assert.NotEmpty(t, p.ID)
		assert.NotEmpty(t, p.Name)
		assert.Contains(t, p.Price, "₹")
		assert.NotEmpty(t, p.Sizes)
		assert.NotNil(t, p.Details)

		_, dup := seen[p.ID]
		assert.False(t, dup, "duplicate id %q", p.ID)
		seen[p.ID] = struct{}{}
	}
}

func TestProducts_ReturnsCopy(t *testing.T) {
	first := Products()
	first[0].Name = "mutated"

	second := Products()
	assert.NotEqual(t, "mutated", second[0].Name)
}

func TestSettings_Defaults(t *testing.T) {
	settings := Settings()
	assert.Equal(t, "House of Varsha", settings.StoreName)
	assert.NotEmpty(t, settings.Tagline)
	assert.NotEmpty(t, settings.WhatsAppNumber)
}
