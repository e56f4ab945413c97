// Package ratelimit counts requests per client in fixed windows, in Redis
// when configured and in process memory otherwise.
package ratelimit

import (
	"context"
	"time"
)

// Result is the outcome of one Allow call.
type Result struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetAt    time.Time
	RetryAfter int // seconds
}

// Limiter admits or rejects a request for key.
type Limiter interface {
	Allow(ctx context.Context, key string) (*Result, error)
}

// window returns the start of the fixed window containing now.
func window(now time.Time, size time.Duration) time.Time {
	return now.Truncate(size)
}

func result(count, limit int, resetAt, now time.Time) *Result {
	r := &Result{
		Allowed:   count <= limit,
		Limit:     limit,
		Remaining: max(limit-count, 0),
		ResetAt:   resetAt,
	}
	if !r.Allowed {
		r.RetryAfter = max(int(resetAt.Sub(now).Seconds()+0.5), 1)
	}
	return r
}
