package middleware

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"micasa-storefront/internal/logging"
)

// SubmitLimiter counts form submissions per client over a sliding window
type SubmitLimiter struct {
	attempts    map[string][]time.Time
	mutex       sync.Mutex
	maxAttempts int
	window      time.Duration
	now         func() time.Time
}

// NewSubmitLimiter creates a limiter allowing maxAttempts per window
func NewSubmitLimiter(maxAttempts int, window time.Duration) *SubmitLimiter {
	return &SubmitLimiter{
		attempts:    make(map[string][]time.Time),
		maxAttempts: maxAttempts,
		window:      window,
		now:         time.Now,
	}
}

// Allow records an attempt for key and reports whether it is within the limit.
// When it is not, the returned duration is the wait until the next slot frees.
func (rl *SubmitLimiter) Allow(key string) (bool, time.Duration) {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	now := rl.now()
	valid := rl.prune(rl.attempts[key], now)

	if len(valid) >= rl.maxAttempts {
		rl.attempts[key] = valid
		return false, valid[0].Add(rl.window).Sub(now)
	}

	rl.attempts[key] = append(valid, now)
	return true, 0
}

func (rl *SubmitLimiter) prune(attempts []time.Time, now time.Time) []time.Time {
	cutoff := now.Add(-rl.window)
	var valid []time.Time
	for _, attempt := range attempts {
		if attempt.After(cutoff) {
			valid = append(valid, attempt)
		}
	}
	return valid
}

// Cleanup drops expired entries every interval until ctx is done
func (rl *SubmitLimiter) Cleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.sweep()
		}
	}
}

func (rl *SubmitLimiter) sweep() {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	now := rl.now()
	for key, attempts := range rl.attempts {
		if valid := rl.prune(attempts, now); len(valid) == 0 {
			delete(rl.attempts, key)
		} else {
			rl.attempts[key] = valid
		}
	}
}

// Limit rejects POST requests from clients that exceeded the limiter
func Limit(rl *SubmitLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				next.ServeHTTP(w, r)
				return
			}

			ip := clientKey(r)
			if ok, wait := rl.Allow(ip); !ok {
				logging.FromContext(r.Context()).WithField("ip", ip).Warn("submission rate limit hit")
				w.Header().Set("Retry-After", fmt.Sprintf("%d", int(wait.Seconds())+1))
				WriteError(w, r, http.StatusTooManyRequests, "Too many attempts. Please wait a moment and try again.")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientKey is the client address without its port, so one visitor's
// connections share a bucket
func clientKey(r *http.Request) string {
	ip := getClientIP(r)
	if host, _, err := net.SplitHostPort(ip); err == nil {
		return host
	}
	return ip
}
