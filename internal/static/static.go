// Package static carries the bundled fallback catalog. It is the last
// link in the fallback chain and must always yield data, so the
// dataset is embedded at build time and decoded once.
package static

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/housevarsha/catalog-service/internal/domain"
)

//go:embed products.json
var productsJSON []byte

var fallbackProducts []domain.Product

func init() {
	if err := json.Unmarshal(productsJSON, &fallbackProducts); err != nil {
		panic(fmt.Sprintf("static: decode embedded products: %v", err))
	}
}

// Products returns a copy of the bundled product list. Callers get
// their own slice so a snapshot can never be mutated in place.
func Products() []domain.Product {
	products := make([]domain.Product, len(fallbackProducts))
	copy(products, fallbackProducts)
	return products
}

// Settings returns the built-in site settings.
func Settings() domain.SiteSettings {
	return domain.DefaultSettings()
}
