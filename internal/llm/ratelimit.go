package llm

import (
	"fmt"
	"math"
	"sync"
	"time"
)

const (
	DefaultRateLimit  = 9
	DefaultRateWindow = 60 * time.Second
)

// RateLimiter caps the number of calls inside a rolling window. It keeps the
// timestamp of every accepted call; rejected calls are not recorded.
type RateLimiter struct {
	mu     sync.Mutex
	limit  int
	window time.Duration
	calls  []time.Time
	now    func() time.Time // for testing
}

// NewRateLimiter creates a limiter accepting at most limit calls per window.
// Non-positive arguments fall back to the defaults.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	if limit <= 0 {
		limit = DefaultRateLimit
	}
	if window <= 0 {
		window = DefaultRateWindow
	}
	return &RateLimiter{limit: limit, window: window, now: time.Now}
}

// Allow records a call, or returns an error wrapping ErrRateLimited when the
// window is already full.
func (l *RateLimiter) Allow() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.prune(now)

	if len(l.calls) >= l.limit {
		wait := l.window - now.Sub(l.calls[0])
		secs := int(math.Ceil(wait.Seconds()))
		if secs < 1 {
			secs = 1
		}
		return fmt.Errorf("%w (retry in %ds)", ErrRateLimited, secs)
	}
	l.calls = append(l.calls, now)
	return nil
}

// Count returns the number of calls recorded inside the current window.
func (l *RateLimiter) Count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.prune(l.now())
	return len(l.calls)
}

// prune must be called with l.mu held.
func (l *RateLimiter) prune(now time.Time) {
	keep := l.calls[:0]
	for _, t := range l.calls {
		if now.Sub(t) < l.window {
			keep = append(keep, t)
		}
	}
	l.calls = keep
}
