package bench

import (
	"context"
	"sync"
)

// Future is a one-shot handle for a submitted task's eventual TaskResult.
//
// Exactly one of complete or fail is called, exactly once, by the strategy
// that produced the future. A failure means the strategy could not run the
// task at all (an execution-context failure) and is distinct from the task's
// own LatencyInterrupted sentinel, which is a normal completion.
type Future struct {
	done chan struct{}
	once sync.Once

	result TaskResult
	err    error
}

func newFuture() *Future {
	return &Future{done: make(chan struct{})}
}

// complete resolves the future with a task result.
func (f *Future) complete(result TaskResult) {
	f.once.Do(func() {
		f.result = result
		close(f.done)
	})
}

// fail resolves the future with an execution-context failure.
func (f *Future) fail(err error) {
	f.once.Do(func() {
		f.err = err
		close(f.done)
	})
}

// Wait blocks until the future resolves or ctx expires.
//
// A ctx error here means the caller's await ceiling fired while the future
// was still pending; the future itself may resolve later, but the caller has
// given up on it.
func (f *Future) Wait(ctx context.Context) (TaskResult, error) {
	select {
	case <-f.done:
		return f.result, f.err
	case <-ctx.Done():
		// Prefer a resolution that raced with cancellation.
		select {
		case <-f.done:
			return f.result, f.err
		default:
		}
		return TaskResult{}, ctx.Err()
	}
}
