package api

import (
	"encoding/json"
	"log/slog"
	"math"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/researchconnect/profscout/internal/types"
)

const rateLimitMessage = "Too many search requests. Please wait before searching again."

// SlidingWindowLimiter is a per-key sliding-window request gate. It is
// the only shared mutable state in the pipeline; all access is
// mutex-guarded. The clock is injectable so tests can fabricate time.
type SlidingWindowLimiter struct {
	mu      sync.Mutex
	entries map[string][]time.Time
	max     int
	window  time.Duration
	now     func() time.Time
}

// NewSlidingWindowLimiter creates a limiter allowing max requests per
// key within the window.
func NewSlidingWindowLimiter(max int, window time.Duration) *SlidingWindowLimiter {
	return &SlidingWindowLimiter{
		entries: make(map[string][]time.Time),
		max:     max,
		window:  window,
		now:     time.Now,
	}
}

// Allow records a request for key if it is within budget. On rejection
// it returns the wait until the oldest recorded request exits the
// window. Each call also opportunistically purges keys whose entire
// timestamp list has expired, bounding memory.
func (l *SlidingWindowLimiter) Allow(key string) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	windowStart := now.Add(-l.window)

	l.sweepLocked(windowStart)

	// Prune this key's list to the current window.
	kept := l.entries[key][:0]
	for _, ts := range l.entries[key] {
		if !ts.Before(windowStart) {
			kept = append(kept, ts)
		}
	}

	if len(kept) >= l.max {
		l.entries[key] = kept
		retryAfter := kept[0].Add(l.window).Sub(now)
		return false, retryAfter
	}

	l.entries[key] = append(kept, now)
	return true, 0
}

// sweepLocked removes keys whose newest timestamp is outside the
// window. Caller must hold the mutex.
func (l *SlidingWindowLimiter) sweepLocked(windowStart time.Time) {
	for key, timestamps := range l.entries {
		if len(timestamps) == 0 || timestamps[len(timestamps)-1].Before(windowStart) {
			delete(l.entries, key)
		}
	}
}

// Middleware gates requests by client IP, answering 429 with a retry
// hint when the budget is exhausted.
func (l *SlidingWindowLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := clientKey(r)

		ok, retryAfter := l.Allow(key)
		if !ok {
			seconds := int(math.Ceil(retryAfter.Seconds()))
			if seconds < 1 {
				seconds = 1
			}
			slog.Warn("rate limit exceeded",
				"component", "api",
				"key", key,
				"retry_after_s", seconds,
			)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			if err := json.NewEncoder(w).Encode(types.RateLimitedResponse{
				Error:      rateLimitMessage,
				RetryAfter: seconds,
			}); err != nil {
				slog.Error("failed to encode rate limit response", "error", err)
			}
			return
		}

		next.ServeHTTP(w, r)
	})
}

// clientKey identifies the caller. RealIP middleware has already
// rewritten RemoteAddr when trusted forwarding headers are present.
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		if r.RemoteAddr != "" {
			return r.RemoteAddr
		}
		return "unknown"
	}
	return host
}
