// Package bench implements the task-execution benchmarking harness: simulated
// I/O tasks, the two scheduling strategies under comparison, latency
// aggregation, and the cross-strategy comparison sweep.
package bench

import (
	"context"
	"time"
)

// LatencyInterrupted is the sentinel latency recorded when a task's wait was
// interrupted before completion. Sentinel results are counted toward the
// submitted total but excluded from all latency statistics.
const LatencyInterrupted int64 = -1

// TaskResult is the immutable outcome of one task. It is created once, at the
// moment the task finishes, and never mutated afterwards.
type TaskResult struct {
	TaskID    int   `json:"taskId"`
	LatencyMs int64 `json:"latencyMs"`
}

// Interrupted reports whether this result carries the sentinel latency.
func (r TaskResult) Interrupted() bool {
	return r.LatencyMs == LatencyInterrupted
}

// Task is a single unit of simulated I/O-bound work: it blocks for
// approximately Delay, then reports how long it actually waited.
//
// A Task has no side effects beyond the timed wait, so any number of tasks
// may run concurrently without coordination.
type Task struct {
	ID    int
	Delay time.Duration

	// interrupt, when non-nil, forces the wait to end early. Only tests
	// inject it; production tasks are interrupted through ctx.
	interrupt <-chan struct{}
}

// NewTask creates a task with the given id and simulated delay.
func NewTask(id int, delay time.Duration) Task {
	return Task{ID: id, Delay: delay}
}

// NewInterruptibleTask creates a task whose wait ends early once interrupt is
// closed. Used by tests to force the sentinel path deterministically.
func NewInterruptibleTask(id int, delay time.Duration, interrupt <-chan struct{}) Task {
	return Task{ID: id, Delay: delay, interrupt: interrupt}
}

// Run blocks for approximately t.Delay and returns the measured latency.
//
// Cancellation never escapes as an error: if the wait is cut short by ctx or
// by the task's interrupt channel, Run returns the LatencyInterrupted
// sentinel so the surrounding batch keeps going.
func (t Task) Run(ctx context.Context) TaskResult {
	start := time.Now()

	timer := time.NewTimer(t.Delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return TaskResult{TaskID: t.ID, LatencyMs: LatencyInterrupted}
	case <-t.interrupt:
		return TaskResult{TaskID: t.ID, LatencyMs: LatencyInterrupted}
	case <-timer.C:
	}

	return TaskResult{TaskID: t.ID, LatencyMs: time.Since(start).Milliseconds()}
}

// MakeBatch builds tasks with ids 0..count-1, all sharing the same simulated
// delay. Ids are assigned at creation time, independent of completion order.
func MakeBatch(count int, delay time.Duration) []Task {
	tasks := make([]Task, count)
	for i := range tasks {
		tasks[i] = NewTask(i, delay)
	}
	return tasks
}
