// Package ratelimit provides the process-wide gate in front of the OCR provider.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// Gate bounds both the call rate and the number of calls in flight.
// One Gate is shared by every pipeline run.
type Gate struct {
	limiter *rate.Limiter
	sem     *semaphore.Weighted
}

// NewGate allows burst calls per interval with at most concurrency in flight.
func NewGate(interval time.Duration, burst int, concurrency int64) *Gate {
	if burst < 1 {
		burst = 1
	}
	if concurrency < 1 {
		concurrency = 1
	}
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	return &Gate{
		limiter: rate.NewLimiter(limit, burst),
		sem:     semaphore.NewWeighted(concurrency),
	}
}

// Acquire blocks until a call may start. Release must be called afterwards.
func (g *Gate) Acquire(ctx context.Context) error {
	if err := g.sem.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("acquire ocr slot: %w", err)
	}
	if err := g.limiter.Wait(ctx); err != nil {
		g.sem.Release(1)
		return fmt.Errorf("wait for ocr rate limit: %w", err)
	}
	return nil
}

// Release frees the slot taken by Acquire.
func (g *Gate) Release() {
	g.sem.Release(1)
}

// Do runs fn inside the gate.
func (g *Gate) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := g.Acquire(ctx); err != nil {
		return err
	}
	defer g.Release()
	return fn(ctx)
}
