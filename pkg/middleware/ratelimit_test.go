package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/housevarsha/catalog-service/pkg/logger"
)

func TestRateLimit_AllowsWithinBurst(t *testing.T) {
	log := logger.NewWithWriter("middleware-test", "error", io.Discard)
	h := RateLimit(1, 3, log)(okHandler())

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/revalidate", nil))
		assert.Equal(t, http.StatusOK, rec.Code, "request %d should pass", i+1)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/revalidate", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), "RATE_LIMITED")
}

func TestRateLimit_TracksClientsSeparately(t *testing.T) {
	log := logger.NewWithWriter("middleware-test", "error", io.Discard)
	h := RateLimit(1, 1, log)(okHandler())

	first := httptest.NewRequest(http.MethodPost, "/api/v1/revalidate", nil)
	first.Header.Set("X-Forwarded-For", "10.0.0.1")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, first)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, first)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	second := httptest.NewRequest(http.MethodPost, "/api/v1/revalidate", nil)
	second.Header.Set("X-Forwarded-For", "10.0.0.2")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, second)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestVisitorStore_CleanupEvictsStale(t *testing.T) {
	now := time.Now()
	s := &visitorStore{
		visitors: make(map[string]*visitor),
		rps:      1,
		burst:    1,
		ttl:      time.Minute,
		nowFunc:  func() time.Time { return now },
	}

	s.getVisitor("10.0.0.1")
	s.getVisitor("10.0.0.2")
	assert.Equal(t, 2, s.len())

	now = now.Add(30 * time.Second)
	s.getVisitor("10.0.0.2")

	now = now.Add(45 * time.Second)
	s.cleanup()
	assert.Equal(t, 1, s.len())

	now = now.Add(2 * time.Minute)
	s.cleanup()
	assert.Equal(t, 0, s.len())
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		want       string
	}{
		{
			name:       "x-forwarded-for single",
			remoteAddr: "192.0.2.1:1234",
			headers:    map[string]string{"X-Forwarded-For": "10.0.0.1"},
			want:       "10.0.0.1",
		},
		{
			name:       "x-forwarded-for chain takes first valid",
			remoteAddr: "192.0.2.1:1234",
			headers:    map[string]string{"X-Forwarded-For": "10.0.0.1, 10.0.0.2"},
			want:       "10.0.0.1",
		},
		{
			name:       "x-real-ip fallback",
			remoteAddr: "192.0.2.1:1234",
			headers:    map[string]string{"X-Real-IP": "10.0.0.3"},
			want:       "10.0.0.3",
		},
		{
			name:       "remote addr fallback",
			remoteAddr: "192.0.2.1:1234",
			want:       "192.0.2.1",
		},
		{
			name:       "garbage forwarded header ignored",
			remoteAddr: "192.0.2.1:1234",
			headers:    map[string]string{"X-Forwarded-For": "not-an-ip"},
			want:       "192.0.2.1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, clientIP(req))
		})
	}
}
