package domain

// SiteSettings holds storefront-wide presentation settings sourced from the
// settings sheet. Like Product, it is an immutable value object rebuilt on
// every fetch cycle.
type SiteSettings struct {
	StoreName       string   `json:"store_name"`
	Tagline         string   `json:"tagline"`
	WhatsAppNumber  string   `json:"whatsapp_number"`
	InstagramHandle string   `json:"instagram_handle"`
	Email           string   `json:"email"`
	Logo            string   `json:"logo,omitempty"`
	HeroImages      []string `json:"hero_images"`
}

// DefaultSettings returns the built-in settings used when no configured
// source yields a settings sheet.
func DefaultSettings() SiteSettings {
	return SiteSettings{
		StoreName:       "House of Varsha",
		Tagline:         "Celebrating elegance and storytelling through premium handcrafted products.",
		WhatsAppNumber:  "917569619390",
		InstagramHandle: "houseofvarsha",
		Email:           "hello@houseofvarsha.com",
		HeroImages:      []string{},
	}
}
