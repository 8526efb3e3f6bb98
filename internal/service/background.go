package service

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"

	"dojangkok-ai/internal/domain"
)

// BackgroundRunner runs jobs that outlive the request that started them.
type BackgroundRunner struct {
	wg     sync.WaitGroup
	logger domain.Logger
}

// NewBackgroundRunner creates an empty runner.
func NewBackgroundRunner(logger domain.Logger) *BackgroundRunner {
	return &BackgroundRunner{logger: logger}
}

// Go starts fn on a context that keeps ctx's values but ignores its
// cancellation. A panic in fn is logged and does not crash the process.
func (r *BackgroundRunner) Go(ctx context.Context, name string, fn func(ctx context.Context)) {
	jobCtx := context.WithoutCancel(ctx)
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer func() {
			if rec := recover(); rec != nil {
				r.logger.Error("Background job panicked", fmt.Errorf("panic: %v", rec),
					"job", name,
					"stack", string(debug.Stack()),
				)
			}
		}()
		fn(jobCtx)
	}()
}

// Wait blocks until every started job has returned or ctx is done.
func (r *BackgroundRunner) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		r.logger.Info("Background jobs still running at shutdown deadline")
		return ctx.Err()
	}
}
