// Package source provides the upstream row fetchers for the catalog
// pipeline. Each source yields raw sheet rows; the orchestrator decides
// ordering and fallback between them.
package source

import (
	"context"
	"net/http"

	"github.com/housevarsha/catalog-service/internal/sheet"
)

// RowSource fetches raw rows from a single upstream.
type RowSource interface {
	// Name identifies the source in logs, metrics and API responses.
	Name() string
	// Fetch retrieves the rows for the configured range or feed. It
	// returns an error from the pkg/errors availability taxonomy when
	// the upstream cannot be reached or refuses the request.
	Fetch(ctx context.Context) ([]sheet.Row, error)
}

// HTTPClient is the outbound client contract shared by the sources.
type HTTPClient interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}
