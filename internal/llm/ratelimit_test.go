package llm

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClockLimiter(limit int, window time.Duration) (*RateLimiter, *time.Time) {
	now := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	l := NewRateLimiter(limit, window)
	l.now = func() time.Time { return now }
	return l, &now
}

func TestRateLimiter_RejectsAfterCap(t *testing.T) {
	l, _ := fixedClockLimiter(9, time.Minute)

	for i := 0; i < 9; i++ {
		require.NoError(t, l.Allow(), "call %d", i+1)
	}
	err := l.Allow()
	assert.ErrorIs(t, err, ErrRateLimited)
	assert.Equal(t, 9, l.Count(), "rejected call must not be recorded")

	err = l.Allow()
	assert.ErrorIs(t, err, ErrRateLimited)
	assert.Equal(t, 9, l.Count())
}

func TestRateLimiter_WindowElapses(t *testing.T) {
	l, now := fixedClockLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		require.NoError(t, l.Allow())
	}
	require.ErrorIs(t, l.Allow(), ErrRateLimited)

	*now = now.Add(61 * time.Second)
	assert.NoError(t, l.Allow())
	assert.Equal(t, 1, l.Count())
}

func TestRateLimiter_RollingWindow(t *testing.T) {
	l, now := fixedClockLimiter(2, time.Minute)

	require.NoError(t, l.Allow())
	*now = now.Add(30 * time.Second)
	require.NoError(t, l.Allow())
	require.ErrorIs(t, l.Allow(), ErrRateLimited)

	// first call ages out, second is still inside the window
	*now = now.Add(31 * time.Second)
	require.NoError(t, l.Allow())
	assert.ErrorIs(t, l.Allow(), ErrRateLimited)
}

func TestRateLimiter_RetryHint(t *testing.T) {
	l, now := fixedClockLimiter(1, time.Minute)
	require.NoError(t, l.Allow())
	*now = now.Add(45 * time.Second)

	err := l.Allow()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "retry in 15s")
}

func TestRateLimiter_Defaults(t *testing.T) {
	l := NewRateLimiter(0, 0)
	assert.Equal(t, DefaultRateLimit, l.limit)
	assert.Equal(t, DefaultRateWindow, l.window)
}

func TestRateLimiter_ConcurrentCallersShareCap(t *testing.T) {
	l := NewRateLimiter(15, time.Minute)

	var wg sync.WaitGroup
	var mu sync.Mutex
	accepted := 0
	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if l.Allow() == nil {
				mu.Lock()
				accepted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 15, accepted)
}
