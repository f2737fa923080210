// Package imageurl derives fully-qualified, transformed image URLs from the
// bare identifiers stored in catalog rows.
package imageurl

import (
	"fmt"
	"regexp"
	"strings"
)

const hostingBase = "https://res.cloudinary.com"

// PlaceholderDataURL is a tiny inline JPEG used as a blur placeholder when
// no real blurred variant can be derived.
const PlaceholderDataURL = "data:image/jpeg;base64,/9j/4AAQSkZJRgABAQAAAQABAAD/2wBDAAMCAgMCAgMDAwMEAwMEBQgFBQQEBQoHBwYIDAoMCwsLCgwMDQ8SDwsNEA4QDA0OExMUFBEVFREMDxcYFhQYEhT/wgARCAAKAAoDAREAAhEBAxEB/8QAFQABAQAAAAAAAAAAAAAAAAAAAAX/xAAUAQEAAAAAAAAAAAAAAAAAAAAA/9oADAMBAAIQAxAAAAGkAB//xAAUEAEAAAAAAAAAAAAAAAAAAAAQ/9oACAEBAAEFAn//2Q=="

// Options are explicit transform parameters used when no named preset fits.
type Options struct {
	Width      int
	Height     int
	Crop       string // fill, fit, limit, scale, pad, crop
	Quality    string // auto, auto:low, auto:eco, auto:good, auto:best, or a number
	Gravity    string
	Effect     string
	Background string
	Format     string // defaults to auto
}

// Preset names a fixed bundle of transform parameters.
type Preset string

const (
	PresetThumbnail Preset = "thumbnail"
	PresetCard      Preset = "card"
	PresetGallery   Preset = "gallery"
	PresetDetail    Preset = "detail"
	PresetFull      Preset = "full"
	PresetLogo      Preset = "logo"
)

var presets = map[Preset]Options{
	PresetThumbnail: {Width: 300, Height: 400, Crop: "fill", Quality: "auto"},
	PresetCard:      {Width: 400, Height: 500, Crop: "fill", Quality: "auto"},
	PresetGallery:   {Width: 600, Height: 800, Crop: "fill", Quality: "auto"},
	PresetDetail:    {Width: 800, Height: 1000, Crop: "fill", Quality: "auto"},
	PresetFull:      {Width: 1200, Height: 1500, Crop: "limit", Quality: "auto:best"},
	PresetLogo:      {Width: 200, Height: 80, Crop: "fit", Quality: "auto"},
}

// shareLinkID matches the file ID segment of a legacy drive share link.
var shareLinkID = regexp.MustCompile(`/d/([a-zA-Z0-9_-]+)`)

// Resolver builds image URLs for a single hosting account.
type Resolver struct {
	cloudName string
}

// NewResolver creates a resolver for the given hosting account. An empty
// cloud name disables transformation: identifiers are returned unchanged.
func NewResolver(cloudName string) *Resolver {
	return &Resolver{cloudName: cloudName}
}

// CloudName returns the configured hosting account identifier.
func (r *Resolver) CloudName() string {
	return r.cloudName
}

// URL resolves an identifier using a named preset. Unknown presets resolve
// with no sizing transforms (format only). Resolution never fails: the
// result is always a usable string.
func (r *Resolver) URL(publicID string, preset Preset) string {
	return r.URLWithOptions(publicID, presets[preset])
}

// URLWithOptions resolves an identifier using explicit transform options.
// Absolute URLs pass through unchanged.
func (r *Resolver) URLWithOptions(publicID string, opts Options) string {
	if publicID == "" {
		return ""
	}
	if isAbsolute(publicID) {
		return publicID
	}
	if r.cloudName == "" {
		return publicID
	}

	var transforms []string
	if opts.Width > 0 {
		transforms = append(transforms, fmt.Sprintf("w_%d", opts.Width))
	}
	if opts.Height > 0 {
		transforms = append(transforms, fmt.Sprintf("h_%d", opts.Height))
	}
	if opts.Crop != "" {
		transforms = append(transforms, "c_"+opts.Crop)
	}
	if opts.Quality != "" {
		transforms = append(transforms, "q_"+opts.Quality)
	}
	if opts.Gravity != "" {
		transforms = append(transforms, "g_"+opts.Gravity)
	}
	if opts.Effect != "" {
		transforms = append(transforms, "e_"+opts.Effect)
	}
	if opts.Background != "" {
		transforms = append(transforms, "b_"+opts.Background)
	}

	// Always request automatic format for best compression.
	format := opts.Format
	if format == "" {
		format = "auto"
	}
	transforms = append(transforms, "f_"+format)

	return fmt.Sprintf("%s/%s/image/upload/%s/%s",
		hostingBase, r.cloudName, strings.Join(transforms, ","), publicID)
}

// BlurDataURL derives a small, heavily compressed, blurred variant URL for
// progressive-loading placeholders. When the identifier cannot be
// transformed (empty, already a URL, or no hosting account configured) a
// fixed inline placeholder is returned instead.
func (r *Resolver) BlurDataURL(publicID string) string {
	if publicID == "" || isAbsolute(publicID) || r.cloudName == "" {
		return PlaceholderDataURL
	}
	return fmt.Sprintf("%s/%s/image/upload/w_10,q_auto:low,f_auto,e_blur:1000/%s",
		hostingBase, r.cloudName, publicID)
}

// ConvertShareLink rewrites a legacy drive share link into its direct-view
// form. Already-direct links and URLs from other hosts are returned
// unchanged.
func ConvertShareLink(url string) string {
	if url == "" {
		return ""
	}
	if strings.Contains(url, "uc?export=view") || !strings.Contains(url, "drive.google.com") {
		return url
	}
	if m := shareLinkID.FindStringSubmatch(url); m != nil {
		return "https://drive.google.com/uc?export=view&id=" + m[1]
	}
	return url
}

func isAbsolute(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
