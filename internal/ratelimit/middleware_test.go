package ratelimit

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubAllower struct {
	allowed bool
	err     error
	lastKey string
}

func (s *stubAllower) Allow(_ context.Context, key string) (bool, error) {
	s.lastKey = key
	return s.allowed, s.err
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestMiddlewareAllows(t *testing.T) {
	limiter := &stubAllower{allowed: true}
	h := Middleware(limiter, testLogger())(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/identity/verify", nil)
	req.RemoteAddr = "10.1.2.3:51000"
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "10.1.2.3", limiter.lastKey)
}

func TestMiddlewareRejectsOverQuota(t *testing.T) {
	limiter := &stubAllower{allowed: false}
	h := Middleware(limiter, testLogger())(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/identity/verify", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.JSONEq(t, `{"error":"rate_limited"}`, w.Body.String())
}

func TestMiddlewareFailsOpen(t *testing.T) {
	limiter := &stubAllower{err: errors.New("redis down")}
	h := Middleware(limiter, testLogger())(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/identity/verify", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestClientIPPrefersForwardedFor(t *testing.T) {
	limiter := &stubAllower{allowed: true}
	h := Middleware(limiter, testLogger())(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/identity/verify", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, "203.0.113.9", limiter.lastKey)
}
