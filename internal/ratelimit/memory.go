package ratelimit

import (
	"context"
	"sync"
	"time"
)

type counter struct {
	start time.Time
	count int
}

// MemoryLimiter is a single-process fixed-window limiter.
type MemoryLimiter struct {
	limit  int
	window time.Duration
	now    func() time.Time

	mu       sync.Mutex
	counters map[string]*counter
}

func NewMemory(limit int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		limit:    limit,
		window:   window,
		now:      time.Now,
		counters: make(map[string]*counter),
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (*Result, error) {
	now := l.now()
	start := window(now, l.window)

	l.mu.Lock()
	defer l.mu.Unlock()

	c, ok := l.counters[key]
	if !ok || !c.start.Equal(start) {
		l.evict(start)
		c = &counter{start: start}
		l.counters[key] = c
	}
	c.count++

	return result(c.count, l.limit, start.Add(l.window), now), nil
}

// evict drops counters from earlier windows. Caller holds mu.
func (l *MemoryLimiter) evict(current time.Time) {
	for k, c := range l.counters {
		if c.start.Before(current) {
			delete(l.counters, k)
		}
	}
}
