// Package pool bounds concurrent calls to slow collaborators (embedding,
// question answering, translation). Callers submit a task and await its
// future; a cancelled context stops both the wait for a slot and the await.
package pool

import (
	"context"

	"golang.org/x/sync/semaphore"

	"github.com/alibaba/higress/plugins/golang-filter/mcp-server/servers/legal/metrics"
)

type Pool struct {
	sem *semaphore.Weighted
}

// New creates a pool that runs at most workers tasks at once.
func New(workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	return &Pool{sem: semaphore.NewWeighted(int64(workers))}
}

// Future is the pending result of a submitted task.
type Future[T any] struct {
	done chan struct{}
	val  T
	err  error
}

// Submit schedules fn on p. A nil pool runs fn without a bound.
func Submit[T any](ctx context.Context, p *Pool, fn func(context.Context) (T, error)) *Future[T] {
	f := &Future[T]{done: make(chan struct{})}
	go func() {
		defer close(f.done)
		if p != nil {
			if err := p.sem.Acquire(ctx, 1); err != nil {
				f.err = err
				return
			}
			metrics.AddPoolInFlight(1)
			defer func() {
				metrics.AddPoolInFlight(-1)
				p.sem.Release(1)
			}()
		}
		f.val, f.err = fn(ctx)
	}()
	return f
}

// Await blocks until the task finishes or ctx is done.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.val, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Run submits fn and waits for it.
func Run[T any](ctx context.Context, p *Pool, fn func(context.Context) (T, error)) (T, error) {
	return Submit(ctx, p, fn).Await(ctx)
}
