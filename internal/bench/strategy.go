package bench

import (
	"context"
	"fmt"
)

// StrategyKind identifies an execution strategy.
type StrategyKind string

const (
	// KindBoundedPool schedules tasks onto a fixed-size worker set;
	// tasks beyond the pool width queue in submission order.
	KindBoundedPool StrategyKind = "bounded-pool"

	// KindPerTask spawns one goroutine per task with no queuing ceiling.
	KindPerTask StrategyKind = "per-task"
)

// Strategy abstracts how a batch of tasks is scheduled.
//
// Submit returns one future per task, in submission order. Both variants
// guarantee that every future eventually resolves: with the task's result,
// with the LatencyInterrupted sentinel if the task's wait was cut short, or
// with an error if the strategy failed to run the task at all. Completion
// order is unconstrained and may race freely.
type Strategy interface {
	// Name returns a human-readable strategy label for reports.
	Name() string

	// Submit schedules every task in the batch and returns their futures
	// in submission order. It does not wait for any task to finish.
	Submit(ctx context.Context, tasks []Task) []*Future

	// Shutdown releases the strategy's workers. After Shutdown returns,
	// Submit must not be called again.
	Shutdown(ctx context.Context) error
}

// NewStrategy creates a strategy of the given kind.
//
// width is the worker count for bounded-pool and is ignored for per-task.
// Returns an error for an unknown kind or a non-positive bounded-pool width.
func NewStrategy(kind StrategyKind, width int) (Strategy, error) {
	switch kind {
	case KindBoundedPool:
		return NewBoundedPool(width)
	case KindPerTask:
		return NewPerTask(), nil
	default:
		return nil, fmt.Errorf("unknown strategy kind: %s", kind)
	}
}
