package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/housevarsha/catalog-service/pkg/logger"
)

func newBreakerClient(cfg CircuitBreakerConfig) *CircuitBreakerClient {
	log := logger.New("httpclient-test", "error")
	return NewCircuitBreakerClient(New(fastRetryConfig(0)), cfg, log)
}

func tightBreakerConfig(name string) CircuitBreakerConfig {
	return CircuitBreakerConfig{
		Name:         name,
		MaxRequests:  1,
		Interval:     time.Minute,
		Timeout:      50 * time.Millisecond,
		FailureRatio: 0.5,
		MinRequests:  2,
	}
}

func TestCircuitBreaker_PassesThroughSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := newBreakerClient(tightBreakerConfig("cb-success"))

	resp, err := client.Get(context.Background(), server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, gobreaker.StateClosed, client.State())
}

func TestCircuitBreaker_ServerErrorsCountAsFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream degraded", http.StatusBadGateway)
	}))
	defer server.Close()

	client := newBreakerClient(tightBreakerConfig("cb-5xx"))

	_, err := client.Get(context.Background(), server.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server error 502")
}

func TestCircuitBreaker_TripsAfterRepeatedFailures(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newBreakerClient(tightBreakerConfig("cb-trip"))

	for i := 0; i < 3; i++ {
		_, _ = client.Get(context.Background(), server.URL)
	}

	assert.Equal(t, gobreaker.StateOpen, client.State())

	// open breaker fails fast without touching the upstream
	before := atomic.LoadInt32(&hits)
	_, err := client.Get(context.Background(), server.URL)
	require.ErrorIs(t, err, ErrCircuitOpen)
	assert.Equal(t, before, atomic.LoadInt32(&hits))
}

func TestCircuitBreaker_RecoversAfterTimeout(t *testing.T) {
	var failing atomic.Bool
	failing.Store(true)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if failing.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := newBreakerClient(tightBreakerConfig("cb-recover"))

	for i := 0; i < 3; i++ {
		_, _ = client.Get(context.Background(), server.URL)
	}
	require.Equal(t, gobreaker.StateOpen, client.State())

	failing.Store(false)
	time.Sleep(60 * time.Millisecond)

	resp, err := client.Get(context.Background(), server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, gobreaker.StateClosed, client.State())
}
