package bench

import (
	"context"
	"sync"
)

// PerTask spawns one goroutine per submitted task with no queuing ceiling:
// concurrency equals batch size. Goroutines are cheap enough that creation
// cost and idle footprint stay sublinear in practice, which is exactly the
// property the comparison against BoundedPool is meant to expose.
type PerTask struct {
	inflight sync.WaitGroup
}

// NewPerTask creates a per-task strategy. It holds no persistent workers.
func NewPerTask() *PerTask {
	return &PerTask{}
}

// Name returns the strategy label.
func (p *PerTask) Name() string {
	return "per-task"
}

// Submit spawns one goroutine per task and returns the futures in submission
// order. A panic inside a task goroutine resolves that task's future with an
// error rather than being dropped.
func (p *PerTask) Submit(ctx context.Context, tasks []Task) []*Future {
	futures := make([]*Future, len(tasks))

	for i, task := range tasks {
		future := newFuture()
		futures[i] = future

		p.inflight.Add(1)
		go func(task Task, future *Future) {
			defer p.inflight.Done()
			resolveTask(ctx, task, future)
		}(task, future)
	}

	return futures
}

// Shutdown waits for in-flight task goroutines to exit, bounded by ctx.
func (p *PerTask) Shutdown(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		p.inflight.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Ensure PerTask implements Strategy.
var _ Strategy = (*PerTask)(nil)
