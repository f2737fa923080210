package httputil

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/housevarsha/catalog-service/pkg/errors"
	"github.com/housevarsha/catalog-service/pkg/logger"
)

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJSON(rec, http.StatusOK, Response{Data: map[string]string{"status": "ok"}})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var got Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Nil(t, got.Error)
}

func TestWriteError_AppError(t *testing.T) {
	log := logger.NewWithWriter("httputil-test", "error", io.Discard)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/p1", nil)

	rec := httptest.NewRecorder()
	WriteError(rec, req, apperrors.NotFound("product", "p1"), log)

	assert.Equal(t, http.StatusNotFound, rec.Code)

	var got Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	require.NotNil(t, got.Error)
	assert.Equal(t, "NOT_FOUND", got.Error.Code)
	assert.Contains(t, got.Error.Message, "p1")
}

func TestWriteError_SentinelMapping(t *testing.T) {
	log := logger.NewWithWriter("httputil-test", "error", io.Discard)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not found", apperrors.Wrap(apperrors.ErrNotFound, "lookup"), http.StatusNotFound, "NOT_FOUND"},
		{"invalid input", apperrors.Wrap(apperrors.ErrInvalidInput, "parse"), http.StatusBadRequest, "INVALID_INPUT"},
		{"unauthorized", apperrors.Wrap(apperrors.ErrUnauthorized, "secret"), http.StatusUnauthorized, "UNAUTHORIZED"},
		{"unknown", errors.New("disk on fire"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
			rec := httptest.NewRecorder()
			WriteError(rec, req, tt.err, log)

			assert.Equal(t, tt.wantStatus, rec.Code)

			var got Response
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
			require.NotNil(t, got.Error)
			assert.Equal(t, tt.wantCode, got.Error.Code)
		})
	}
}

func TestWriteError_InternalHidesDetail(t *testing.T) {
	log := logger.NewWithWriter("httputil-test", "error", io.Discard)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)

	rec := httptest.NewRecorder()
	WriteError(rec, req, errors.New("pg: connection refused"), log)

	var got Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	require.NotNil(t, got.Error)
	assert.Equal(t, "an internal error occurred", got.Error.Message)
	assert.NotContains(t, rec.Body.String(), "connection refused")
}

func TestWriteError_IncludesRequestID(t *testing.T) {
	log := logger.NewWithWriter("httputil-test", "error", io.Discard)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	req = req.WithContext(logger.WithCorrelationID(req.Context(), "corr-123"))

	rec := httptest.NewRecorder()
	WriteError(rec, req, apperrors.Unauthorized("bad secret"), log)

	var got Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	require.NotNil(t, got.Error)
	assert.Equal(t, "corr-123", got.Error.RequestID)
}
