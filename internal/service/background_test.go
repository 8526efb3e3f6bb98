package service

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

type ctxKey struct{}

func TestBackgroundRunner_DetachesFromRequestContext(t *testing.T) {
	r := NewBackgroundRunner(NewMockLogger())

	reqCtx, cancel := context.WithCancel(context.WithValue(context.Background(), ctxKey{}, "req-1"))
	started := make(chan struct{})
	release := make(chan struct{})
	var sawCancel atomic.Bool
	var value atomic.Value

	r.Go(reqCtx, "job", func(ctx context.Context) {
		close(started)
		<-release
		sawCancel.Store(ctx.Err() != nil)
		value.Store(ctx.Value(ctxKey{}))
	})

	<-started
	cancel()
	close(release)

	if err := r.Wait(context.Background()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if sawCancel.Load() {
		t.Fatalf("job context must not be cancelled with the request")
	}
	if value.Load() != "req-1" {
		t.Fatalf("expected request values to be kept, got %v", value.Load())
	}
}

func TestBackgroundRunner_RecoversPanics(t *testing.T) {
	logger := NewMockLogger()
	r := NewBackgroundRunner(logger)

	r.Go(context.Background(), "panicky", func(ctx context.Context) { panic("boom") })

	if err := r.Wait(context.Background()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !logger.contains("Background job panicked") {
		t.Fatalf("expected panic to be logged")
	}
}

func TestBackgroundRunner_WaitHonoursDeadline(t *testing.T) {
	r := NewBackgroundRunner(NewMockLogger())
	release := make(chan struct{})
	defer close(release)

	r.Go(context.Background(), "slow", func(ctx context.Context) { <-release })

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := r.Wait(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}
