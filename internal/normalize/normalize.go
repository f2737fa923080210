// Package normalize turns loosely-typed sheet rows into canonical
// catalog records. Headers arrive in many historical spellings, so
// every field goes through an alias table rather than per-field
// fallback chains.
package normalize

import (
	"fmt"
	"strings"

	"github.com/housevarsha/catalog-service/internal/domain"
	"github.com/housevarsha/catalog-service/internal/imageurl"
	"github.com/housevarsha/catalog-service/internal/sheet"
)

// productAliases maps each canonical product field to the header
// spellings seen across sheet revisions. Headers are already
// lower-cased and trimmed by the row layer.
var productAliases = map[string][]string{
	"id":            {"id", "product_id"},
	"name":          {"name", "product_name"},
	"price":         {"price"},
	"originalprice": {"originalprice", "original_price"},
	"description":   {"description"},
	"category":      {"category"},
	"sizes":         {"sizes"},
	"color":         {"color"},
	"code":          {"code", "product_code"},
	"image":         {"image", "image_url", "main_image"},
	"hoverimage":    {"hoverimage", "hover_image", "hover_image_url"},
	"imageid":       {"cloudinaryid", "cloudinary_id"},
	"imageids":      {"cloudinaryids", "cloudinary_ids", "images"},
	"colorvariants": {"colorvariants", "color_variants"},
	"featured":      {"featured"},
	"instock":       {"instock", "in_stock"},
	"details":       {"details"},
}

var settingsAliases = map[string][]string{
	"storename": {"storename", "store_name"},
	"tagline":   {"tagline"},
	"whatsapp":  {"whatsappnumber", "whatsapp_number", "whatsapp"},
	"instagram": {"instagramhandle", "instagram_handle", "instagram"},
	"email":     {"email"},
	"logoid":    {"logocloudinaryid", "logo_cloudinary_id"},
	"logo":      {"logo", "logo_url"},
	"heroids":   {"herocloudinaryids", "hero_cloudinary_ids"},
	"heroid":    {"herocloudinaryid", "hero_cloudinary_id"},
	"heroimage": {"heroimage", "hero_image"},
}

// defaultSizes keeps the sizes list non-empty when the sheet omits it.
var defaultSizes = []string{"M", "L", "XL", "XXL"}

// Normalizer converts raw rows into Product and SiteSettings records,
// resolving image references through the configured resolver.
type Normalizer struct {
	images *imageurl.Resolver
}

func New(images *imageurl.Resolver) *Normalizer {
	return &Normalizer{images: images}
}

// lookup returns the first non-empty value among the aliases for the
// canonical field.
func lookup(row sheet.Row, aliases map[string][]string, field string) string {
	for _, key := range aliases[field] {
		if v := row[key]; v != "" {
			return v
		}
	}
	return ""
}

// Products normalizes product rows. Rows missing a name or a price are
// dropped; everything else degrades to sensible defaults. Output is
// deterministic for identical input.
func (n *Normalizer) Products(rows []sheet.Row) []domain.Product {
	products := make([]domain.Product, 0, len(rows))
	seen := make(map[string]struct{}, len(rows))

	for i, row := range rows {
		name := lookup(row, productAliases, "name")
		price := lookup(row, productAliases, "price")
		if name == "" || price == "" {
			continue
		}

		id := lookup(row, productAliases, "id")
		if id == "" {
			id = strings.ToLower(lookup(row, productAliases, "code"))
		}
		if id == "" {
			id = fmt.Sprintf("sheet-%d", i+1)
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		variants := n.colorVariants(lookup(row, productAliases, "colorvariants"))

		code := lookup(row, productAliases, "code")
		if code == "" {
			code = strings.ToUpper(id)
		}

		color := lookup(row, productAliases, "color")
		if color == "" && len(variants) > 0 {
			color = variants[0].Color
		}

		image := n.primaryImage(row, variants)
		hover := n.resolveReference(lookup(row, productAliases, "hoverimage"))
		if hover == "" {
			hover = image
		}

		products = append(products, domain.Product{
			ID:            id,
			Name:          name,
			Price:         rupeePrefix(price),
			OriginalPrice: rupeePrefix(lookup(row, productAliases, "originalprice")),
			Description:   lookup(row, productAliases, "description"),
			Category:      lookup(row, productAliases, "category"),
			Sizes:         sizesList(lookup(row, productAliases, "sizes")),
			Color:         color,
			Code:          code,
			Image:         image,
			HoverImage:    hover,
			Images:        n.resolveAll(splitList(lookup(row, productAliases, "imageids"), ",")),
			ColorVariants: variants,
			Featured:      truthy(lookup(row, productAliases, "featured")),
			InStock:       inStock(lookup(row, productAliases, "instock")),
			Details:       splitList(lookup(row, productAliases, "details"), "|"),
		})
	}

	return products
}

// Settings collapses key/value rows into a SiteSettings record. Rows
// may come from a two-column range (setting, value) or a keyed CSV;
// both shapes carry "setting"/"key" and "value" columns.
func (n *Normalizer) Settings(rows []sheet.Row) domain.SiteSettings {
	kv := make(sheet.Row, len(rows))
	for _, row := range rows {
		key := row["setting"]
		if key == "" {
			key = row["key"]
		}
		value := row["value"]
		if key != "" && value != "" {
			kv[strings.ToLower(strings.TrimSpace(key))] = strings.TrimSpace(value)
		}
	}

	settings := domain.DefaultSettings()

	if v := lookup(kv, settingsAliases, "storename"); v != "" {
		settings.StoreName = v
	}
	if v := lookup(kv, settingsAliases, "tagline"); v != "" {
		settings.Tagline = v
	}
	if v := lookup(kv, settingsAliases, "whatsapp"); v != "" {
		settings.WhatsAppNumber = v
	}
	if v := lookup(kv, settingsAliases, "instagram"); v != "" {
		settings.InstagramHandle = v
	}
	if v := lookup(kv, settingsAliases, "email"); v != "" {
		settings.Email = v
	}

	if id := lookup(kv, settingsAliases, "logoid"); id != "" {
		settings.Logo = n.images.URL(id, imageurl.PresetLogo)
	} else if raw := lookup(kv, settingsAliases, "logo"); raw != "" {
		settings.Logo = imageurl.ConvertShareLink(raw)
	}

	settings.HeroImages = n.heroImages(kv)

	return settings
}

// heroImages accepts a comma list of identifiers, a single identifier,
// or a legacy direct URL, always returning a list.
func (n *Normalizer) heroImages(kv sheet.Row) []string {
	ids := splitList(lookup(kv, settingsAliases, "heroids"), ",")
	if len(ids) == 0 {
		if id := lookup(kv, settingsAliases, "heroid"); id != "" {
			ids = []string{id}
		}
	}
	if len(ids) == 0 {
		if raw := lookup(kv, settingsAliases, "heroimage"); raw != "" {
			return []string{imageurl.ConvertShareLink(raw)}
		}
		return []string{}
	}

	heroes := make([]string, 0, len(ids))
	for _, id := range ids {
		heroes = append(heroes, n.resolveWithPreset(id, imageurl.PresetFull))
	}
	return heroes
}

// primaryImage picks the main image: an explicit URL beats a bare
// identifier, which beats inference from the first color variant.
func (n *Normalizer) primaryImage(row sheet.Row, variants []domain.ColorVariant) string {
	raw := lookup(row, productAliases, "image")
	if isAbsolute(raw) {
		return imageurl.ConvertShareLink(raw)
	}
	if id := lookup(row, productAliases, "imageid"); id != "" {
		return n.images.URL(id, imageurl.PresetDetail)
	}
	if raw != "" {
		return n.images.URL(raw, imageurl.PresetDetail)
	}
	if len(variants) > 0 && len(variants[0].Images) > 0 {
		return variants[0].Images[0]
	}
	return ""
}

// colorVariants parses the "Color:id1,id2;Color2:id3" mini-language.
// Groups without a colon, a color, or any identifier are skipped.
func (n *Normalizer) colorVariants(raw string) []domain.ColorVariant {
	if raw == "" {
		return nil
	}

	var variants []domain.ColorVariant
	for _, group := range strings.Split(raw, ";") {
		colon := strings.Index(group, ":")
		if colon < 0 {
			continue
		}
		color := strings.TrimSpace(group[:colon])
		ids := splitList(group[colon+1:], ",")
		if color == "" || len(ids) == 0 {
			continue
		}
		variants = append(variants, domain.ColorVariant{
			Color:  color,
			Images: n.resolveAll(ids),
		})
	}
	return variants
}

// resolveReference turns one image reference into a URL: absolute URLs
// go through share-link conversion, identifiers through the detail
// preset. Empty input stays empty.
func (n *Normalizer) resolveReference(ref string) string {
	if ref == "" {
		return ""
	}
	if isAbsolute(ref) {
		return imageurl.ConvertShareLink(ref)
	}
	return n.images.URL(ref, imageurl.PresetDetail)
}

func (n *Normalizer) resolveWithPreset(ref string, preset imageurl.Preset) string {
	if isAbsolute(ref) {
		return imageurl.ConvertShareLink(ref)
	}
	return n.images.URL(ref, preset)
}

func (n *Normalizer) resolveAll(refs []string) []string {
	resolved := make([]string, 0, len(refs))
	for _, ref := range refs {
		resolved = append(resolved, n.resolveReference(ref))
	}
	return resolved
}

// rupeePrefix adds the currency marker exactly once. No numeric
// validation happens beyond that.
func rupeePrefix(price string) string {
	if price == "" || strings.Contains(price, "₹") {
		return price
	}
	return "₹" + price
}

// sizesList parses a comma list, falling back to the standard run of
// sizes so the list is never empty.
func sizesList(raw string) []string {
	if sizes := splitList(raw, ","); len(sizes) > 0 {
		return sizes
	}
	sizes := make([]string, len(defaultSizes))
	copy(sizes, defaultSizes)
	return sizes
}

// splitList splits on sep, trimming whitespace and dropping empty
// entries. Always returns a non-nil slice.
func splitList(raw, sep string) []string {
	items := make([]string, 0)
	for _, item := range strings.Split(raw, sep) {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

func truthy(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "1", "yes":
		return true
	}
	return false
}

// inStock defaults to available when the sheet omits the column.
func inStock(raw string) bool {
	if raw == "" {
		return true
	}
	return truthy(raw)
}

func isAbsolute(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
