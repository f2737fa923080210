package domain

// ColorVariant is an alternate color option for a product, carrying its own
// image set.
type ColorVariant struct {
	Color  string   `json:"color"`
	Images []string `json:"images"`
}

// Product is a normalized catalog record. Instances are value objects: they
// are built fresh on every successful fetch cycle and never mutated after
// construction.
type Product struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Price         string         `json:"price"`
	OriginalPrice string         `json:"original_price,omitempty"`
	Description   string         `json:"description"`
	Category      string         `json:"category"`
	Sizes         []string       `json:"sizes"`
	Color         string         `json:"color"`
	Code          string         `json:"code"`
	Image         string         `json:"image"`
	HoverImage    string         `json:"hover_image,omitempty"`
	Images        []string       `json:"images"`
	ColorVariants []ColorVariant `json:"color_variants,omitempty"`
	Featured      bool           `json:"featured"`
	InStock       bool           `json:"in_stock"`
	Details       []string       `json:"details"`
}
