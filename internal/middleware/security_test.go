package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func requestFrom(ip, path string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.RemoteAddr = ip + ":51234"
	return req
}

func TestGlobalRateLimit_HealthExempt(t *testing.T) {
	h := GlobalRateLimit(okHandler())

	// Far past the burst, the health check must never be throttled.
	for i := 0; i < 30; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, requestFrom("203.0.113.7", "/health"))
		assert.Equal(t, http.StatusOK, rec.Code, "request %d", i)
	}
}

func TestGlobalRateLimit_APIThrottledPastBurst(t *testing.T) {
	h := GlobalRateLimit(okHandler())

	var limited bool
	for i := 0; i < 30; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, requestFrom("203.0.113.8", "/api/therapists"))
		if rec.Code == http.StatusTooManyRequests {
			limited = true
		}
	}
	assert.True(t, limited, "same-IP burst on an API path must hit the limiter")
}

func TestRateLimitMiddleware_HealthExempt(t *testing.T) {
	// Redis is not connected in this test; the health path must pass
	// without the middleware ever touching it.
	h := RateLimitMiddleware(okHandler())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, requestFrom("203.0.113.9", "/health"))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSecurityHeaders(t *testing.T) {
	h := SecurityHeaders(okHandler())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, requestFrom("203.0.113.10", "/api/therapists"))

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.NotEmpty(t, rec.Header().Get("Content-Security-Policy"))
}
