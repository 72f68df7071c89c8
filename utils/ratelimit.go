package utils

import (
	"context"
	"sync"
	"time"
)

// RateLimiter spaces out page loads by a fixed delay.
// The first call to Wait returns immediately; each later call blocks until
// delay has passed since the previous one returned.
// A zero delay disables waiting.
type RateLimiter struct {
	delay time.Duration

	mu   sync.Mutex
	last time.Time
}

// NewRateLimiter creates a limiter for the given delay
func NewRateLimiter(delay time.Duration) *RateLimiter {
	return &RateLimiter{delay: delay}
}

// Wait blocks until the next load may start or ctx is done
func (r *RateLimiter) Wait(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if r.delay <= 0 {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.last.IsZero() {
		if wait := r.delay - time.Since(r.last); wait > 0 {
			timer := time.NewTimer(wait)
			defer timer.Stop()

			select {
			case <-timer.C:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}

	r.last = time.Now()
	return nil
}
