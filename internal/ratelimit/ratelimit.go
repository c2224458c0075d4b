package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Limiter enforces a minimum delay between consecutive calls to the
// extraction backend. The delay is a deliberate throttle for the backend's
// rate limit, not adaptive to latency or error type.
type Limiter struct {
	mu       sync.Mutex
	last     time.Time
	minDelay time.Duration
}

// NewLimiter creates a limiter that enforces minDelay between consecutive
// calls. The first call never waits.
func NewLimiter(minDelay time.Duration) *Limiter {
	return &Limiter{minDelay: minDelay}
}

// Wait blocks until enough time has passed since the previous call.
// Returns an error if the context is cancelled while waiting.
func (l *Limiter) Wait(ctx context.Context) error {
	l.mu.Lock()
	now := time.Now()

	if l.last.IsZero() || now.Sub(l.last) >= l.minDelay {
		l.last = now
		l.mu.Unlock()
		return nil
	}

	remaining := l.minDelay - now.Sub(l.last)
	l.mu.Unlock()

	select {
	case <-ctx.Done():
		return fmt.Errorf("rate limiter wait: %w", ctx.Err())
	case <-time.After(remaining):
	}

	// Record the actual time after waiting.
	l.mu.Lock()
	l.last = time.Now()
	l.mu.Unlock()

	return nil
}
