package middleware

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"
)

type window struct {
	count int
	ends  time.Time
}

// KeyedRateLimiter allows limit requests per key within a fixed window. Keys
// come from the request's tenant and fall back to the client IP.
type KeyedRateLimiter struct {
	mu         sync.Mutex
	limit      int
	window     time.Duration
	maxEntries int
	now        func() time.Time
	entries    map[string]window
}

func NewKeyedRateLimiter(limit int, period time.Duration, maxEntries int) *KeyedRateLimiter {
	if limit <= 0 {
		limit = 1
	}
	if period <= 0 {
		period = time.Minute
	}
	if maxEntries <= 0 {
		maxEntries = 10000
	}
	return &KeyedRateLimiter{
		limit:      limit,
		window:     period,
		maxEntries: maxEntries,
		now:        time.Now,
		entries:    map[string]window{},
	}
}

// Allow records one request for key and reports whether it is within the
// limit, plus how long until the key's window resets.
func (rl *KeyedRateLimiter) Allow(key string) (bool, time.Duration) {
	now := rl.now()
	rl.mu.Lock()
	defer rl.mu.Unlock()

	entry, ok := rl.entries[key]
	if !ok || !entry.ends.After(now) {
		if !ok && len(rl.entries) >= rl.maxEntries {
			rl.evictExpired(now)
		}
		entry = window{ends: now.Add(rl.window)}
	}
	entry.count++
	rl.entries[key] = entry
	return entry.count <= rl.limit, entry.ends.Sub(now)
}

// evictExpired drops finished windows; when none have finished the table is
// reset rather than allowed to grow. Callers hold mu.
func (rl *KeyedRateLimiter) evictExpired(now time.Time) {
	for key, entry := range rl.entries {
		if !entry.ends.After(now) {
			delete(rl.entries, key)
		}
	}
	if len(rl.entries) >= rl.maxEntries {
		rl.entries = map[string]window{}
	}
}

func (rl *KeyedRateLimiter) Middleware(message string) func(http.Handler) http.Handler {
	if message == "" {
		message = "Rate limit exceeded"
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := "ip:" + clientIP(r.RemoteAddr)
			if tenantID, ok := TenantIDFromContext(r.Context()); ok {
				key = "tenant:" + tenantID.String()
			}
			allowed, retryAfter := rl.Allow(key)
			if !allowed {
				seconds := int(retryAfter.Round(time.Second) / time.Second)
				if seconds < 1 {
					seconds = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(seconds))
				reject(w, r, http.StatusTooManyRequests, "RATE_LIMITED", message)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(remoteAddr string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return remoteAddr
	}
	return host
}
