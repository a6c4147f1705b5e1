package bench

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
)

// BoundedPool runs tasks on a fixed set of persistent workers.
//
// Tasks beyond the pool width queue in submission order (FIFO) and are
// dequeued as workers free up, so throughput is capacity-limited by the
// width. This is the baseline strategy in comparisons.
type BoundedPool struct {
	width int
	queue chan poolItem

	workers sync.WaitGroup
	feeders sync.WaitGroup
	closed  atomic.Bool
}

type poolItem struct {
	ctx    context.Context
	task   Task
	future *Future
}

// NewBoundedPool creates a pool with width persistent workers, started
// immediately. Callers own the pool and must Shutdown it when done.
func NewBoundedPool(width int) (*BoundedPool, error) {
	if width <= 0 {
		return nil, fmt.Errorf("bounded pool width must be > 0, got %d", width)
	}

	p := &BoundedPool{
		width: width,
		queue: make(chan poolItem, width),
	}

	p.workers.Add(width)
	for i := 0; i < width; i++ {
		go p.runWorker()
	}

	return p, nil
}

// Name returns the strategy label.
func (p *BoundedPool) Name() string {
	return fmt.Sprintf("bounded-pool(%d)", p.width)
}

// Width returns the worker count.
func (p *BoundedPool) Width() int {
	return p.width
}

// Submit enqueues the batch and returns its futures in submission order.
//
// A single feeder goroutine feeds the queue, which preserves FIFO order even
// when the batch is larger than the queue capacity. Submit itself never
// blocks on a full queue.
func (p *BoundedPool) Submit(ctx context.Context, tasks []Task) []*Future {
	futures := make([]*Future, len(tasks))
	for i := range futures {
		futures[i] = newFuture()
	}

	p.feeders.Add(1)
	go func() {
		defer p.feeders.Done()
		for i, task := range tasks {
			p.queue <- poolItem{ctx: ctx, task: task, future: futures[i]}
		}
	}()

	return futures
}

func (p *BoundedPool) runWorker() {
	defer p.workers.Done()
	for item := range p.queue {
		resolveTask(item.ctx, item.task, item.future)
	}
}

// Shutdown drains in-flight submissions, stops the workers, and waits for
// them to exit, bounded by ctx.
func (p *BoundedPool) Shutdown(ctx context.Context) error {
	if !p.closed.CompareAndSwap(false, true) {
		return nil
	}

	p.feeders.Wait()
	close(p.queue)

	done := make(chan struct{})
	go func() {
		p.workers.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("bounded pool shutdown: %w", ctx.Err())
	}
}

// resolveTask runs one task and resolves its future. A panic out of the task
// is an execution-context failure and resolves the future with an error, so
// no future is ever left hanging.
func resolveTask(ctx context.Context, task Task, future *Future) {
	defer func() {
		if r := recover(); r != nil {
			future.fail(fmt.Errorf("task %d: execution context failed: %v", task.ID, r))
		}
	}()

	future.complete(task.Run(ctx))
}

// Ensure BoundedPool implements Strategy.
var _ Strategy = (*BoundedPool)(nil)
