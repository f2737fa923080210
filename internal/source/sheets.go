package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/housevarsha/catalog-service/internal/auth"
	"github.com/housevarsha/catalog-service/internal/sheet"
	apperrors "github.com/housevarsha/catalog-service/pkg/errors"
)

// SheetsSource reads a spreadsheet range through the authenticated
// values API. A fresh access token is exchanged on every fetch.
type SheetsSource struct {
	tokens     *auth.TokenSource
	client     HTTPClient
	baseURL    string
	sheetID    string
	valueRange string
}

// NewSheetsSource builds a source for one spreadsheet range.
func NewSheetsSource(tokens *auth.TokenSource, client HTTPClient, baseURL, sheetID, valueRange string) *SheetsSource {
	return &SheetsSource{
		tokens:     tokens,
		client:     client,
		baseURL:    baseURL,
		sheetID:    sheetID,
		valueRange: valueRange,
	}
}

func (s *SheetsSource) Name() string { return "sheets-api" }

type valuesResponse struct {
	Range          string     `json:"range"`
	MajorDimension string     `json:"majorDimension"`
	Values         [][]string `json:"values"`
}

// Fetch exchanges a token and reads the configured range. Rows come
// back keyed by the normalized header row.
func (s *SheetsSource) Fetch(ctx context.Context) ([]sheet.Row, error) {
	if s.tokens == nil || s.sheetID == "" {
		return nil, fmt.Errorf("%w: sheets api credentials or sheet id missing", apperrors.ErrSourceNotConfigured)
	}

	token, err := s.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/v4/spreadsheets/%s/values/%s",
		s.baseURL, url.PathEscape(s.sheetID), url.PathEscape(s.valueRange))

	req, err := http.NewRequest(http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build values request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := s.client.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, fmt.Errorf("%w: values request returned %d", apperrors.ErrAuthFailed, resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: values request returned %d", apperrors.ErrSourceUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read values response: %v", apperrors.ErrSourceUnavailable, err)
	}

	var decoded valuesResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("%w: decode values response: %v", apperrors.ErrSourceUnavailable, err)
	}

	return sheet.RowsFromValues(decoded.Values), nil
}

var _ RowSource = (*SheetsSource)(nil)
