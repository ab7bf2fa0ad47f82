package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestCompositeHealthChecker_NoChecks(t *testing.T) {
	status := NewCompositeHealthChecker("1.0").Check(context.Background())
	assert.True(t, status.Healthy)
	assert.True(t, status.Ready)
	assert.Equal(t, "1.0", status.Version)
}

func TestCompositeHealthChecker_AggregatesFailures(t *testing.T) {
	c := NewCompositeHealthChecker("1.0")
	c.AddCheck("storage", NewPingCheck(pingFunc(func(context.Context) error { return nil })))
	c.AddCheck("cache", NewPingCheck(pingFunc(func(context.Context) error { return errors.New("down") })))

	status := c.Check(context.Background())
	assert.False(t, status.Healthy)
	assert.False(t, status.Ready)
	assert.Equal(t, "Some checks failed: cache", status.Message)
	assert.True(t, status.Checks["storage"].Healthy)
	assert.Equal(t, "down", status.Checks["cache"].Message)

	c.AddCheck("cache", NewPingCheck(pingFunc(func(context.Context) error { return nil })))
	assert.True(t, c.Check(context.Background()).Healthy)
}

func TestCompositeHealthChecker_Timeout(t *testing.T) {
	c := NewCompositeHealthChecker("1.0")
	c.SetTimeout(0)
	c.SetTimeout(20 * time.Millisecond)
	c.AddCheck("slow", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})

	status := c.Check(context.Background())
	assert.False(t, status.Healthy)
	assert.Contains(t, status.Checks["slow"].Message, "deadline")
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestWriteTokenAuth(t *testing.T) {
	h := NewWriteTokenAuth("", "s3cret").Middleware(okHandler())

	tests := []struct {
		name   string
		method string
		header map[string]string
		want   int
	}{
		{"read is open", http.MethodGet, nil, http.StatusNoContent},
		{"missing token", http.MethodPut, nil, http.StatusUnauthorized},
		{"wrong token", http.MethodPut, map[string]string{"X-API-Key": "nope"}, http.StatusUnauthorized},
		{"header token", http.MethodPut, map[string]string{"X-API-Key": "s3cret"}, http.StatusNoContent},
		{"bearer token", http.MethodPost, map[string]string{"Authorization": "Bearer s3cret"}, http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/api/v1/roster", nil)
			for k, v := range tt.header {
				req.Header.Set(k, v)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestWriteTokenAuth_DisabledWithoutToken(t *testing.T) {
	auth := NewWriteTokenAuth("X-Token", "")
	assert.False(t, auth.Enabled())
	assert.False(t, auth.Valid(""))

	rec := httptest.NewRecorder()
	auth.Middleware(okHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRequestSizeLimit(t *testing.T) {
	h := RequestSizeLimit(8)(okHandler())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/", strings.NewReader("0123456789")))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Contains(t, rec.Body.String(), "payload_too_large")

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/", strings.NewReader("[]")))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestChainOrder(t *testing.T) {
	var order []string
	mark := func(name string) MiddlewareFunc {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	rec := httptest.NewRecorder()
	Chain(mark("a"), mark("b"), SecurityHeaders)(okHandler()).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, []string{"a", "b"}, order)
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
}

func TestRateLimiter_FixedWindow(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute)
	defer rl.Stop()

	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	ok, _ := rl.Allow("ip")
	assert.True(t, ok)
	ok, _ = rl.Allow("ip")
	assert.True(t, ok)

	now = now.Add(20 * time.Second)
	ok, wait := rl.Allow("ip")
	assert.False(t, ok)
	assert.Equal(t, 40*time.Second, wait)

	ok, _ = rl.Allow("other")
	assert.True(t, ok)

	now = now.Add(40 * time.Second)
	ok, _ = rl.Allow("ip")
	assert.True(t, ok)
}

func TestRateLimiter_Middleware(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)
	defer rl.Stop()
	h := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.9:5555"

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.Contains(t, rec.Body.String(), "rate_limit_exceeded")
}

func TestClientIP_UntrustedPeerIgnoresHeaders(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:1234"

	var none *ClientIPResolver
	assert.Equal(t, "10.0.0.1", none.ClientIP(req))

	req.RemoteAddr = "[::1]:8080"
	assert.Equal(t, "::1", none.ClientIP(req))

	req.Header.Set("X-Real-IP", "5.6.7.8")
	req.Header.Set("X-Forwarded-For", "1.2.3.4")
	assert.Equal(t, "::1", none.ClientIP(req))
	assert.Equal(t, "::1", NewClientIPResolver([]string{"10.0.0.0/8"}).ClientIP(req))
}

func TestClientIP_TrustedProxy(t *testing.T) {
	ips := NewClientIPResolver([]string{"10.0.0.0/8", " 192.168.1.5 ", "not-an-ip"})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.168.1.5:40000"
	assert.Equal(t, "192.168.1.5", ips.ClientIP(req))

	req.Header.Set("X-Real-IP", "5.6.7.8")
	assert.Equal(t, "5.6.7.8", ips.ClientIP(req))

	req.Header.Set("X-Forwarded-For", "9.9.9.9, 1.2.3.4, 10.0.0.1")
	assert.Equal(t, "1.2.3.4", ips.ClientIP(req))

	req.Header.Set("X-Forwarded-For", "10.1.1.1, 10.0.0.1")
	assert.Equal(t, "10.1.1.1", ips.ClientIP(req))

	assert.True(t, ips.Trusted("10.200.0.3"))
	assert.False(t, ips.Trusted("192.168.1.6"))
}

func TestRateLimiter_SpoofedForwardedFor(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute).KeyBy(NewClientIPResolver(nil).ClientIP)
	defer rl.Stop()
	h := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	for i, xff := range []string{"1.1.1.1", "2.2.2.2"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "203.0.113.7:5555"
		req.Header.Set("X-Forwarded-For", xff)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if i == 0 {
			assert.Equal(t, http.StatusOK, rec.Code)
		} else {
			assert.Equal(t, http.StatusTooManyRequests, rec.Code)
		}
	}
}

func TestCORS(t *testing.T) {
	h := CORS([]string{"http://allowed.test"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "http://allowed.test")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, "http://allowed.test", rec.Header().Get("Access-Control-Allow-Origin"))

	req.Header.Set("Origin", "http://other.test")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/", nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
