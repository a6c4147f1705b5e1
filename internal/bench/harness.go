package bench

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync/atomic"
	"time"
)

const (
	// DefaultDelay is the simulated I/O delay per task.
	DefaultDelay = 100 * time.Millisecond

	// DefaultAwaitCeiling bounds how long one run may wait for its batch.
	// A hung execution context past this ceiling is fatal for the
	// scenario, never a silent wedge of the whole process.
	DefaultAwaitCeiling = 5 * time.Minute
)

// MemoryProbe returns a snapshot of current process memory usage in MB.
// The harness probes before and after a batch and uses the difference, which
// can legitimately be negative when the runtime reclaimed memory in between.
type MemoryProbe func() int64

// RuntimeHeapProbe reads the live heap from the Go runtime.
func RuntimeHeapProbe() int64 {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	return int64(ms.HeapAlloc / (1024 * 1024))
}

// HarnessConfig configures a Harness. Zero values take defaults.
type HarnessConfig struct {
	// Delay is the simulated I/O delay per task.
	Delay time.Duration

	// AwaitCeiling bounds the fan-in wait for one batch.
	AwaitCeiling time.Duration

	// Probe supplies memory snapshots; defaults to RuntimeHeapProbe.
	Probe MemoryProbe

	// TaskFactory builds the task for a given id; defaults to a plain
	// task with the configured delay. Tests substitute factories that
	// force interruption or panics for specific ids.
	TaskFactory func(id int) Task

	// OnTaskFailure, when set, is invoked once per execution-context
	// failure with the failed task's position and error.
	OnTaskFailure func(taskID int, err error)
}

// Harness runs one batch of tasks through a strategy and measures it.
//
// The harness itself is sequential: it submits the whole batch, then blocks
// at a fan-in barrier until every future has resolved. Only the strategy
// layer underneath is parallel. Memory and time are measured strictly
// outside the barrier, never concurrently with task execution.
type Harness struct {
	delay     time.Duration
	ceiling   time.Duration
	probe     MemoryProbe
	factory   func(id int) Task
	onFailure func(taskID int, err error)

	completed atomic.Int64
}

// NewHarness creates a harness, applying defaults for zero config fields.
func NewHarness(cfg HarnessConfig) *Harness {
	h := &Harness{
		delay:     cfg.Delay,
		ceiling:   cfg.AwaitCeiling,
		probe:     cfg.Probe,
		factory:   cfg.TaskFactory,
		onFailure: cfg.OnTaskFailure,
	}
	if h.delay <= 0 {
		h.delay = DefaultDelay
	}
	if h.ceiling <= 0 {
		h.ceiling = DefaultAwaitCeiling
	}
	if h.probe == nil {
		h.probe = RuntimeHeapProbe
	}
	if h.factory == nil {
		h.factory = func(id int) Task { return NewTask(id, h.delay) }
	}
	return h
}

// Completed returns how many futures of the current run have resolved so
// far. Progress only; the authoritative counts live in the BenchmarkResult.
func (h *Harness) Completed() int64 {
	return h.completed.Load()
}

// Run submits taskCount tasks (ids 0..taskCount-1) to the strategy, awaits
// every future, and aggregates the batch into a BenchmarkResult.
//
// A future that resolves with an execution-context failure does not abort
// the run: the failure is reported through OnTaskFailure and that task is
// excluded from latency math while still counting toward TaskCount. The only
// fatal outcome is the await ceiling expiring while a future is still
// pending, which returns an error naming how far the batch got.
func (h *Harness) Run(ctx context.Context, strategy Strategy, taskCount int) (BenchmarkResult, error) {
	if taskCount < 0 {
		return BenchmarkResult{}, fmt.Errorf("task count must be >= 0, got %d", taskCount)
	}

	runCtx, cancel := context.WithTimeout(ctx, h.ceiling)
	defer cancel()

	tasks := make([]Task, taskCount)
	for i := range tasks {
		tasks[i] = h.factory(i)
	}

	recorder := NewLatencyRecorder()
	h.completed.Store(0)

	memBefore := h.probe()
	start := time.Now()

	futures := strategy.Submit(runCtx, tasks)

	// Fan-in barrier: arrival order is irrelevant, every future must
	// resolve before timing stops.
	results := make([]TaskResult, 0, taskCount)
	for i, future := range futures {
		result, err := future.Wait(runCtx)
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
				return BenchmarkResult{}, fmt.Errorf(
					"await ceiling %s exceeded with %d of %d tasks resolved: %w",
					h.ceiling, i, taskCount, err)
			}
			if h.onFailure != nil {
				h.onFailure(i, err)
			}
			h.completed.Add(1)
			continue
		}

		results = append(results, result)
		if !result.Interrupted() {
			recorder.Record(result.LatencyMs)
		}
		h.completed.Add(1)
	}

	elapsed := time.Since(start)
	memAfter := h.probe()

	benchmark := Aggregate(results, elapsed, memAfter-memBefore, taskCount)
	benchmark.Distribution = recorder.Stats()
	return benchmark, nil
}
