package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func fakeClock(rl *RateLimiter) *time.Time {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }
	return &now
}

var fivePerMinute = Limit{Requests: 5, Per: time.Minute}

func TestRateLimiterAllow(t *testing.T) {
	rl := NewRateLimiter()

	for i := 0; i < 5; i++ {
		if ok, _ := rl.Allow("key", fivePerMinute); !ok {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if ok, _ := rl.Allow("key", fivePerMinute); ok {
		t.Error("6th request should be denied")
	}
	if ok, _ := rl.Allow("other", fivePerMinute); !ok {
		t.Error("keys should be limited independently")
	}
}

func TestRateLimiterWaitAndReset(t *testing.T) {
	rl := NewRateLimiter()
	now := fakeClock(rl)
	l := Limit{Requests: 3, Per: time.Minute}

	for i := 0; i < 3; i++ {
		rl.Allow("key", l)
	}
	*now = now.Add(20 * time.Second)
	ok, wait := rl.Allow("key", l)
	if ok {
		t.Fatal("should be blocked within window")
	}
	if wait != 40*time.Second {
		t.Errorf("wait = %v, want 40s", wait)
	}

	*now = now.Add(40 * time.Second)
	if ok, _ := rl.Allow("key", l); !ok {
		t.Error("should be allowed once the window ends")
	}
}

func TestRateLimiterDeniedHitsDoNotExtendWindow(t *testing.T) {
	rl := NewRateLimiter()
	now := fakeClock(rl)
	l := Limit{Requests: 1, Per: time.Minute}

	rl.Allow("key", l)
	for i := 0; i < 10; i++ {
		*now = now.Add(5 * time.Second)
		rl.Allow("key", l)
	}
	*now = now.Add(10 * time.Second)
	if ok, _ := rl.Allow("key", l); !ok {
		t.Error("window should reset a minute after the first hit")
	}
}

func TestRateLimiterCleanup(t *testing.T) {
	rl := NewRateLimiter()
	now := fakeClock(rl)

	rl.Allow("expired", Limit{Requests: 5, Per: time.Second})
	*now = now.Add(2 * time.Second)
	rl.Allow("active", fivePerMinute)

	rl.Cleanup()

	if rl.Len() != 1 {
		t.Errorf("Len = %d, want 1", rl.Len())
	}
	rl.mu.Lock()
	defer rl.mu.Unlock()
	if _, ok := rl.buckets["active"]; !ok {
		t.Error("active bucket should still exist")
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	rl := NewRateLimiter()
	now := fakeClock(rl)

	handler := RateLimit(rl, ByIP, Limit{Requests: 2, Per: time.Minute})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	send := func(path string) *httptest.ResponseRecorder {
		req := httptest.NewRequest("POST", path, nil)
		req.RemoteAddr = "203.0.113.7:5555"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	for i := 0; i < 2; i++ {
		if rec := send("/api/auth/login"); rec.Code != http.StatusOK {
			t.Errorf("request %d: status = %d, want %d", i+1, rec.Code, http.StatusOK)
		}
	}
	*now = now.Add(15500 * time.Millisecond)
	rec := send("/api/auth/login")
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("3rd request: status = %d, want %d", rec.Code, http.StatusTooManyRequests)
	}
	if got := rec.Header().Get("Retry-After"); got != "45" {
		t.Errorf("Retry-After = %q, want 45", got)
	}
	if rec := send("/api/auth/signup"); rec.Code != http.StatusOK {
		t.Errorf("other path: status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestRealIP(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	if got := RealIP(req); got != "10.0.0.1" {
		t.Errorf("RealIP = %q, want 10.0.0.1", got)
	}
	req.Header.Set("X-Forwarded-For", "198.51.100.2, 10.0.0.1")
	if got := RealIP(req); got != "198.51.100.2" {
		t.Errorf("RealIP = %q, want 198.51.100.2", got)
	}
	req.Header.Set("CF-Connecting-IP", "192.0.2.9")
	if got := RealIP(req); got != "192.0.2.9" {
		t.Errorf("RealIP = %q, want 192.0.2.9", got)
	}
}

func TestRealIPIgnoresGarbageHeaders(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	req.Header.Set("CF-Connecting-IP", "not-an-ip")
	req.Header.Set("X-Forwarded-For", "evil, 198.51.100.2")
	if got := RealIP(req); got != "10.0.0.1" {
		t.Errorf("RealIP = %q, want peer address 10.0.0.1", got)
	}
}
