package middleware

import (
	"math"
	"net"
	"net/http"
	"net/netip"
	"strconv"
	"strings"
	"sync"
	"time"
)

// RealIP returns the caller's address. Proxy headers are only believed when
// they hold a parseable IP; otherwise the peer address is used.
func RealIP(r *http.Request) string {
	if ip, ok := parseIP(r.Header.Get("CF-Connecting-IP")); ok {
		return ip
	}
	if first, _, _ := strings.Cut(r.Header.Get("X-Forwarded-For"), ","); first != "" {
		if ip, ok := parseIP(first); ok {
			return ip
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func parseIP(s string) (string, bool) {
	addr, err := netip.ParseAddr(strings.TrimSpace(s))
	if err != nil {
		return "", false
	}
	return addr.String(), true
}

// Limit is a request budget per fixed window.
type Limit struct {
	Requests int
	Per      time.Duration
}

type bucket struct {
	hits    int
	resetAt time.Time
}

// RateLimiter keeps one fixed-window bucket per key in memory. Buckets are
// dropped by Cleanup once their window has passed.
type RateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	now     func() time.Time
}

func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		buckets: make(map[string]*bucket),
		now:     time.Now,
	}
}

// Allow records a hit for key. When the budget is spent it reports false and
// how long until the window resets.
func (rl *RateLimiter) Allow(key string, l Limit) (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	b := rl.buckets[key]
	if b == nil || !now.Before(b.resetAt) {
		b = &bucket{resetAt: now.Add(l.Per)}
		rl.buckets[key] = b
	}
	if b.hits >= l.Requests {
		return false, b.resetAt.Sub(now)
	}
	b.hits++
	return true, 0
}

// Cleanup drops buckets whose window has ended.
func (rl *RateLimiter) Cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	for key, b := range rl.buckets {
		if !now.Before(b.resetAt) {
			delete(rl.buckets, key)
		}
	}
}

// Len returns the number of live buckets.
func (rl *RateLimiter) Len() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.buckets)
}

// ByIP keys requests by client address and path, so login and signup are
// limited independently.
func ByIP(r *http.Request) string {
	return RealIP(r) + " " + r.URL.Path
}

// RateLimit rejects requests over budget with 429 and a Retry-After of the
// seconds left in the caller's window.
func RateLimit(limiter *RateLimiter, keyFunc func(*http.Request) string, l Limit) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ok, wait := limiter.Allow(keyFunc(r), l)
			if !ok {
				secs := int(math.Ceil(wait.Seconds()))
				w.Header().Set("Retry-After", strconv.Itoa(max(secs, 1)))
				writeError(w, http.StatusTooManyRequests, "too many requests, try again later")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
