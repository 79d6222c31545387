// Package ratelimit counts requests per key in fixed windows. A window opens
// with the first counted request and is replaced by a new one (count 1) once
// more than the window length has passed, so a burst can straddle two windows.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Limiter decides whether one more request for key is allowed.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

type window struct {
	count int
	start time.Time
}

// MemoryLimiter keeps counters in process memory. Counters reset on restart
// and are not shared between processes.
type MemoryLimiter struct {
	mu      sync.Mutex
	max     int
	period  time.Duration
	now     func() time.Time
	windows map[string]*window
}

func NewMemoryLimiter(max int, period time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		max:     max,
		period:  period,
		now:     time.Now,
		windows: make(map[string]*window),
	}
}

// WithClock replaces the time source, for tests and replays.
func (l *MemoryLimiter) WithClock(now func() time.Time) *MemoryLimiter {
	l.now = now
	return l
}

// Allow counts the request, rejected ones included.
func (l *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, ok := l.windows[key]
	if !ok {
		w = &window{start: now}
		l.windows[key] = w
	}

	if now.Sub(w.start) > l.period {
		w.count = 1
		w.start = now
	} else {
		w.count++
	}
	return w.count <= l.max, nil
}
