package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestLimiter(t *testing.T, limit int, now *time.Time) *Limiter {
	t.Helper()
	l := NewLimiter(Config{RequestsPerMinute: limit, Methods: []string{http.MethodPost}})
	l.now = func() time.Time { return *now }
	t.Cleanup(l.Stop)
	return l
}

func TestAllowWindow(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	l := newTestLimiter(t, 3, &now)

	for i := 0; i < 3; i++ {
		if !l.Allow("a") {
			t.Fatalf("request %d should pass", i+1)
		}
	}
	if l.Allow("a") {
		t.Fatal("4th request should be limited")
	}
	if !l.Allow("b") {
		t.Fatal("other clients are independent")
	}

	now = now.Add(time.Minute)
	if !l.Allow("a") {
		t.Fatal("new window should reset the counter")
	}
}

func TestCleanup(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	l := newTestLimiter(t, 3, &now)
	l.Allow("a")
	now = now.Add(11 * time.Minute)
	l.Allow("b")
	l.cleanup()
	if got := l.ActiveClients(); got != 1 {
		t.Fatalf("ActiveClients = %d, want 1", got)
	}
}

func TestMiddlewareLimitsOnlyPost(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	l := newTestLimiter(t, 1, &now)
	h := l.Middleware(func(*http.Request) string { return "1.1.1.1" })(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) }))

	do := func(method string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(method, "/", nil))
		return rec
	}

	if rec := do(http.MethodPost); rec.Code != http.StatusNoContent {
		t.Fatalf("first POST = %d", rec.Code)
	}
	rec := do(http.MethodPost)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second POST = %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") != "60" {
		t.Fatalf("Retry-After = %q", rec.Header().Get("Retry-After"))
	}
	for i := 0; i < 5; i++ {
		if rec := do(http.MethodGet); rec.Code != http.StatusNoContent {
			t.Fatalf("GET must not be limited, got %d", rec.Code)
		}
	}
}

func TestStopTwice(t *testing.T) {
	l := NewLimiter(DefaultConfig())
	l.Stop()
	l.Stop()
}
