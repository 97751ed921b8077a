package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type RateLimit struct {
	Requests int
	Window   time.Duration
}

// Route classes, matched by path prefix.
var (
	AuthRateLimit    = RateLimit{Requests: 20, Window: 15 * time.Minute}
	APIRateLimit     = RateLimit{Requests: 200, Window: 15 * time.Minute}
	DefaultRateLimit = RateLimit{Requests: 100, Window: 15 * time.Minute}
)

func routeClass(path string) (string, RateLimit) {
	switch {
	case strings.HasPrefix(path, "/api/auth/"):
		return "auth", AuthRateLimit
	case strings.HasPrefix(path, "/api/"):
		return "api", APIRateLimit
	default:
		return "default", DefaultRateLimit
	}
}

// limiterEntry is one fixed window. The limiter never refills; a new one is
// made when the window ends.
type limiterEntry struct {
	limiter     *rate.Limiter
	windowStart time.Time
	lastSeen    time.Time
}

// RateLimiter allows limit.Requests per client and route class in each fixed
// window. Entries idle longer than ttl are dropped on the next sweep.
type RateLimiter struct {
	mu        sync.Mutex
	entries   map[string]*limiterEntry
	ttl       time.Duration
	lastSweep time.Time
	now       func() time.Time
}

func NewRateLimiter(ttl time.Duration) *RateLimiter {
	return &RateLimiter{
		entries:   make(map[string]*limiterEntry),
		ttl:       ttl,
		lastSweep: time.Now(),
		now:       time.Now,
	}
}

func (l *RateLimiter) Allow(clientIP, path string) bool {
	class, limit := routeClass(path)
	key := clientIP + ":" + class
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastSweep) > l.ttl {
		l.sweep(now)
	}

	e, ok := l.entries[key]
	if !ok || now.Sub(e.windowStart) >= limit.Window {
		e = &limiterEntry{
			limiter:     rate.NewLimiter(0, limit.Requests),
			windowStart: now,
		}
		l.entries[key] = e
	}
	e.lastSeen = now
	return e.limiter.AllowN(now, 1)
}

func (l *RateLimiter) sweep(now time.Time) {
	for key, e := range l.entries {
		if now.Sub(e.lastSeen) > l.ttl {
			delete(l.entries, key)
		}
	}
	l.lastSweep = now
}

func (l *RateLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

func RateLimitMiddleware(limiter *RateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow(clientIP(r), r.URL.Path) {
				writeJSONError(w, http.StatusTooManyRequests, "Too many requests. Please try again later.")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP relies on chi's RealIP having rewritten RemoteAddr.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
