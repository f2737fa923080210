package source

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/housevarsha/catalog-service/internal/sheet"
	apperrors "github.com/housevarsha/catalog-service/pkg/errors"
)

// FeedSource reads a published CSV feed. No authentication is
// involved; the feed URL itself is the credential.
type FeedSource struct {
	name   string
	client HTTPClient
	url    string
}

// NewFeedSource builds a source for one published CSV URL. The name
// distinguishes the product and settings feeds in logs and responses.
func NewFeedSource(name string, client HTTPClient, feedURL string) *FeedSource {
	return &FeedSource{name: name, client: client, url: feedURL}
}

func (f *FeedSource) Name() string { return f.name }

// Fetch downloads the feed and parses it leniently: malformed cells
// degrade to odd values rather than failing the fetch.
func (f *FeedSource) Fetch(ctx context.Context) ([]sheet.Row, error) {
	if f.url == "" {
		return nil, fmt.Errorf("%w: feed url missing", apperrors.ErrSourceNotConfigured)
	}

	req, err := http.NewRequest(http.MethodGet, f.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build feed request: %w", err)
	}

	resp, err := f.client.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: feed returned %d", apperrors.ErrSourceUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read feed body: %v", apperrors.ErrSourceUnavailable, err)
	}

	return sheet.ParseCSV(string(body)), nil
}

var _ RowSource = (*FeedSource)(nil)
