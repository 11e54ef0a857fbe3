// Package asyncbridge runs external I/O (HTTP, DB, bcrypt, the stdlib
// adapters generally) on a bounded worker pool and hands completions back
// to the runtime's single-threaded scheduler as deferred resolutions:
// workers never touch the arena, they only post deferred resolutions for
// the scheduler to apply on its own thread.
//
// Grounded on original_source/crates/perry-stdlib/src/common/async_bridge.rs,
// which pairs a tokio multi-threaded runtime with two Mutex-protected
// pending queues (simple resolutions and converter-function "deferred"
// resolutions) drained by js_stdlib_process_pending on the main thread.
// Go has no tokio; the pack's own golang.org/x/sync/{errgroup,semaphore}
// pair is the idiomatic Go equivalent of "bounded concurrent workers plus
// a way to wait for them", so this bridges to *runtime.Scheduler's
// PostDeferred/ProcessPending instead of hand-rolling a second queue.
package asyncbridge

import (
	"context"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/skelpo/perryc/runtime"
)

// Bridge runs worker tasks with bounded concurrency and posts their
// results to a Scheduler as deferred resolutions.
type Bridge struct {
	sched *runtime.Scheduler
	sem   *semaphore.Weighted
	group *errgroup.Group
	ctx   context.Context
}

// New returns a Bridge that allows at most maxConcurrent worker tasks to
// run at once, using ctx as the lifetime for all spawned work.
func New(ctx context.Context, sched *runtime.Scheduler, maxConcurrent int64) *Bridge {
	group, gctx := errgroup.WithContext(ctx)
	return &Bridge{
		sched: sched,
		sem:   semaphore.NewWeighted(maxConcurrent),
		group: group,
		ctx:   gctx,
	}
}

// Task is the unit of work a stdlib adapter submits: it runs on a worker
// goroutine and must not touch the arena — it returns raw Go data, and build converts that data into
// a JSValue later, on the main thread.
type Task[T any] func(ctx context.Context) (T, error)

// Submit runs task on the worker pool and, on completion, posts a deferred
// resolution for promiseIdx: success with build(result) on success,
// rejection with errValue(err) on failure. Submit returns immediately;
// the caller's compiled code already has the pending promise to await.
func Submit[T any](b *Bridge, promiseIdx int, task Task[T], build func(T) runtime.JSValue, errValue func(error) runtime.JSValue) {
	b.group.Go(func() error {
		if err := b.sem.Acquire(b.ctx, 1); err != nil {
			b.sched.PostDeferred(runtime.DeferredResolution{
				PromiseIndex: promiseIdx,
				Success:      false,
				Build:        func() runtime.JSValue { return errValue(err) },
			})
			return nil
		}
		defer b.sem.Release(1)

		result, err := task(b.ctx)
		if err != nil {
			b.sched.PostDeferred(runtime.DeferredResolution{
				PromiseIndex: promiseIdx,
				Success:      false,
				Build:        func() runtime.JSValue { return errValue(err) },
			})
			return nil
		}
		b.sched.PostDeferred(runtime.DeferredResolution{
			PromiseIndex: promiseIdx,
			Success:      true,
			Build:        func() runtime.JSValue { return build(result) },
		})
		return nil
	})
}

// Wait blocks until every submitted task has completed. Its error is
// always nil: every worker reports failure, including a semaphore acquire
// that fails because the context was canceled, to the scheduler as a
// rejection instead.
func (b *Bridge) Wait() error {
	return b.group.Wait()
}
