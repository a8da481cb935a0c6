package ratelimit

import (
	"context"
	"sync"
	"time"
)

// TokenLimiter enforces a tokens-per-minute budget across callers.
// It tracks consumption in a sliding one-minute window and blocks
// callers until enough budget is released.
type TokenLimiter struct {
	mu            sync.Mutex
	maxPerMinute  int
	consumed      int
	windowStart   time.Time
	checkInterval time.Duration
}

// NewTokenLimiter creates a TokenLimiter with the given per-minute budget.
func NewTokenLimiter(maxPerMinute int) *TokenLimiter {
	return &TokenLimiter{
		maxPerMinute:  maxPerMinute,
		windowStart:   time.Now(),
		checkInterval: time.Second,
	}
}

// Wait blocks until the given number of tokens can be consumed, or the
// context is canceled. Requests larger than the full budget are admitted
// once the window is empty rather than blocking forever.
func (l *TokenLimiter) Wait(ctx context.Context, tokens int) error {
	for {
		l.mu.Lock()
		l.rotateWindow()
		if l.consumed == 0 || l.consumed+tokens <= l.maxPerMinute {
			l.consumed += tokens
			l.mu.Unlock()
			return nil
		}
		l.mu.Unlock()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(l.checkInterval):
		}
	}
}

// GetRemaining returns the tokens still available in the current window.
func (l *TokenLimiter) GetRemaining() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.rotateWindow()
	remaining := l.maxPerMinute - l.consumed
	if remaining < 0 {
		return 0
	}
	return remaining
}

func (l *TokenLimiter) rotateWindow() {
	if time.Since(l.windowStart) >= time.Minute {
		l.windowStart = time.Now()
		l.consumed = 0
	}
}
