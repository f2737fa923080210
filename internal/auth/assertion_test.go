package auth

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/housevarsha/catalog-service/pkg/errors"
	"github.com/housevarsha/catalog-service/pkg/httpclient"
)

const (
	testScope    = "https://www.googleapis.com/auth/spreadsheets.readonly"
	testAudience = "https://oauth2.googleapis.com/token"
)

func testKeyPEM(t *testing.T) (string, *rsa.PrivateKey) {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	der, err := x509.MarshalPKCS8PrivateKey(key)
	require.NoError(t, err)

	block := pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der})
	return string(block), key
}

func TestNewSigner_MissingCredentials(t *testing.T) {
	_, err := NewSigner("", "key", testScope, testAudience)
	assert.ErrorIs(t, err, apperrors.ErrSourceNotConfigured)

	_, err = NewSigner("svc@example.iam", "", testScope, testAudience)
	assert.ErrorIs(t, err, apperrors.ErrSourceNotConfigured)
}

func TestNewSigner_BadKey(t *testing.T) {
	_, err := NewSigner("svc@example.iam", "not a pem", testScope, testAudience)
	assert.Error(t, err)
}

func TestAssertion_ClaimsAndSignature(t *testing.T) {
	pemKey, key := testKeyPEM(t)

	signer, err := NewSigner("svc@example.iam", pemKey, testScope, testAudience)
	require.NoError(t, err)

	issuedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	signer = signer.WithClock(func() time.Time { return issuedAt })

	assertion, err := signer.Assertion()
	require.NoError(t, err)

	parsed, err := jwt.Parse(assertion, func(token *jwt.Token) (any, error) {
		require.IsType(t, &jwt.SigningMethodRSA{}, token.Method)
		return &key.PublicKey, nil
	}, jwt.WithoutClaimsValidation())
	require.NoError(t, err)
	require.True(t, parsed.Valid)

	claims := parsed.Claims.(jwt.MapClaims)
	assert.Equal(t, "svc@example.iam", claims["iss"])
	assert.Equal(t, testScope, claims["scope"])
	assert.Equal(t, testAudience, claims["aud"])
	assert.EqualValues(t, issuedAt.Unix(), claims["iat"])
	assert.EqualValues(t, issuedAt.Add(time.Hour).Unix(), claims["exp"])
	assert.Equal(t, "RS256", parsed.Header["alg"])
	assert.Equal(t, "JWT", parsed.Header["typ"])
}

func TestNewSigner_RepairsEscapedNewlines(t *testing.T) {
	pemKey, _ := testKeyPEM(t)

	flattened := strings.ReplaceAll(pemKey, "\n", `\n`)

	signer, err := NewSigner("svc@example.iam", flattened, testScope, testAudience)
	require.NoError(t, err)

	_, err = signer.Assertion()
	assert.NoError(t, err)
}

func newTestHTTPClient() *httpclient.Client {
	cfg := httpclient.DefaultConfig()
	cfg.MaxRetries = 0
	return httpclient.New(cfg)
}

func TestToken_Exchange(t *testing.T) {
	pemKey, _ := testKeyPEM(t)

	var gotGrantType, gotAssertion string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotGrantType = r.PostFormValue("grant_type")
		gotAssertion = r.PostFormValue("assertion")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"tok-123","token_type":"Bearer","expires_in":3599}`))
	}))
	defer srv.Close()

	signer, err := NewSigner("svc@example.iam", pemKey, testScope, srv.URL)
	require.NoError(t, err)

	ts := NewTokenSource(signer, newTestHTTPClient(), srv.URL)

	token, err := ts.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-123", token)
	assert.Equal(t, "urn:ietf:params:oauth:grant-type:jwt-bearer", gotGrantType)
	assert.NotEmpty(t, gotAssertion)
	assert.Len(t, splitSegments(gotAssertion), 3)
}

func TestToken_RejectedExchange(t *testing.T) {
	pemKey, _ := testKeyPEM(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid_grant"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	signer, err := NewSigner("svc@example.iam", pemKey, testScope, srv.URL)
	require.NoError(t, err)

	ts := NewTokenSource(signer, newTestHTTPClient(), srv.URL)

	_, err = ts.Token(context.Background())
	assert.ErrorIs(t, err, apperrors.ErrAuthFailed)
}

func TestToken_NetworkFailure(t *testing.T) {
	pemKey, _ := testKeyPEM(t)

	signer, err := NewSigner("svc@example.iam", pemKey, testScope, testAudience)
	require.NoError(t, err)

	ts := NewTokenSource(signer, newTestHTTPClient(), "http://127.0.0.1:1")

	_, err = ts.Token(context.Background())
	assert.ErrorIs(t, err, apperrors.ErrSourceUnavailable)
}

func splitSegments(token string) []string {
	var segments []string
	start := 0
	for i := 0; i < len(token); i++ {
		if token[i] == '.' {
			segments = append(segments, token[start:i])
			start = i + 1
		}
	}
	return append(segments, token[start:])
}
