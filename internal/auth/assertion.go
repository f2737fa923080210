// Package auth implements the service-account JWT-bearer OAuth exchange used
// by the authenticated spreadsheet transport.
package auth

import (
	"context"
	"crypto/rsa"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/housevarsha/catalog-service/pkg/errors"
)

const assertionLifetime = time.Hour

// grantType is the JWT-bearer grant per RFC 7523.
const grantType = "urn:ietf:params:oauth:grant-type:jwt-bearer"

// Signer builds short-lived RS256 bearer assertions for a service account.
type Signer struct {
	issuer   string
	key      *rsa.PrivateKey
	scope    string
	audience string
	nowFunc  func() time.Time
}

// NewSigner parses the PEM-encoded private key and returns a Signer.
// Literal `\n` sequences in the key are repaired first, since deployment
// environments commonly flatten multi-line secrets.
func NewSigner(issuerEmail, privateKeyPEM, scope, audience string) (*Signer, error) {
	if issuerEmail == "" || privateKeyPEM == "" {
		return nil, apperrors.ErrSourceNotConfigured
	}

	pem := strings.ReplaceAll(privateKeyPEM, `\n`, "\n")
	key, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(pem))
	if err != nil {
		return nil, fmt.Errorf("parse service account key: %w", err)
	}

	return &Signer{
		issuer:   issuerEmail,
		key:      key,
		scope:    scope,
		audience: audience,
		nowFunc:  time.Now,
	}, nil
}

// WithClock returns a copy of the Signer using the given clock. Test use.
func (s *Signer) WithClock(now func() time.Time) *Signer {
	cpy := *s
	cpy.nowFunc = now
	return &cpy
}

// Assertion produces a compact three-segment JWT: RS256-signed claims
// {iss, scope, aud, iat, exp: iat+1h}.
func (s *Signer) Assertion() (string, error) {
	now := s.nowFunc()
	claims := jwt.MapClaims{
		"iss":   s.issuer,
		"scope": s.scope,
		"aud":   s.audience,
		"iat":   now.Unix(),
		"exp":   now.Add(assertionLifetime).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	signed, err := token.SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("sign assertion: %w", err)
	}
	return signed, nil
}

// HTTPClient is the outbound transport dependency for the token exchange.
type HTTPClient interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// TokenSource exchanges signed assertions for short-lived access tokens.
// Every Token call performs a fresh exchange; the token is deliberately not
// reused across fetch cycles.
type TokenSource struct {
	signer   *Signer
	client   HTTPClient
	tokenURL string
}

// NewTokenSource creates a token source POSTing to the given OAuth token
// endpoint.
func NewTokenSource(signer *Signer, client HTTPClient, tokenURL string) *TokenSource {
	return &TokenSource{
		signer:   signer,
		client:   client,
		tokenURL: tokenURL,
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// Token signs a fresh assertion and exchanges it for a bearer access token.
// A rejected exchange (non-2xx) is classified as ErrAuthFailed and is not
// retried.
func (ts *TokenSource) Token(ctx context.Context) (string, error) {
	assertion, err := ts.signer.Assertion()
	if err != nil {
		return "", err
	}

	form := url.Values{}
	form.Set("grant_type", grantType)
	form.Set("assertion", assertion)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ts.tokenURL,
		strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := ts.client.Do(ctx, req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrSourceUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return "", fmt.Errorf("%w: status %d: %s", apperrors.ErrAuthFailed, resp.StatusCode, string(body))
	}

	var tok tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return "", fmt.Errorf("%w: decode token response: %v", apperrors.ErrAuthFailed, err)
	}
	if tok.AccessToken == "" {
		return "", fmt.Errorf("%w: empty access token", apperrors.ErrAuthFailed)
	}

	return tok.AccessToken, nil
}
