package bench

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStrategy(t *testing.T) {
	tests := []struct {
		name    string
		kind    StrategyKind
		width   int
		wantErr bool
	}{
		{name: "bounded pool", kind: KindBoundedPool, width: 4},
		{name: "bounded pool zero width", kind: KindBoundedPool, width: 0, wantErr: true},
		{name: "per task", kind: KindPerTask},
		{name: "unknown", kind: StrategyKind("mystery"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewStrategy(tt.kind, tt.width)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, s)
			assert.NoError(t, s.Shutdown(context.Background()))
		})
	}
}

func awaitAll(t *testing.T, futures []*Future) []TaskResult {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	results := make([]TaskResult, 0, len(futures))
	for i, f := range futures {
		result, err := f.Wait(ctx)
		require.NoError(t, err, "future %d did not resolve", i)
		results = append(results, result)
	}
	return results
}

func TestBoundedPool_SerialWidthOne(t *testing.T) {
	pool, err := NewBoundedPool(1)
	require.NoError(t, err)
	defer pool.Shutdown(context.Background())

	start := time.Now()
	futures := pool.Submit(context.Background(), MakeBatch(3, 10*time.Millisecond))
	results := awaitAll(t, futures)
	elapsed := time.Since(start)

	// Width 1 serializes the batch: total time is roughly 3x the delay.
	assert.GreaterOrEqual(t, elapsed, 28*time.Millisecond)
	assert.Less(t, elapsed, 2*time.Second)

	for i, r := range results {
		assert.Equal(t, i, r.TaskID, "futures resolve in submission order positions")
		assert.False(t, r.Interrupted())
	}
}

func TestBoundedPool_QueuesBeyondWidth(t *testing.T) {
	pool, err := NewBoundedPool(2)
	require.NoError(t, err)
	defer pool.Shutdown(context.Background())

	futures := pool.Submit(context.Background(), MakeBatch(10, 5*time.Millisecond))
	results := awaitAll(t, futures)

	assert.Len(t, results, 10)
	for _, r := range results {
		assert.False(t, r.Interrupted())
	}
}

func TestBoundedPool_InterruptedTasksStillResolve(t *testing.T) {
	pool, err := NewBoundedPool(4)
	require.NoError(t, err)
	defer pool.Shutdown(context.Background())

	interrupt := make(chan struct{})
	close(interrupt)

	tasks := []Task{
		NewTask(0, 5*time.Millisecond),
		NewInterruptibleTask(1, time.Hour, interrupt),
		NewTask(2, 5*time.Millisecond),
	}

	results := awaitAll(t, pool.Submit(context.Background(), tasks))

	assert.False(t, results[0].Interrupted())
	assert.True(t, results[1].Interrupted())
	assert.False(t, results[2].Interrupted())
}

func TestBoundedPool_ShutdownIdempotent(t *testing.T) {
	pool, err := NewBoundedPool(2)
	require.NoError(t, err)

	assert.NoError(t, pool.Shutdown(context.Background()))
	assert.NoError(t, pool.Shutdown(context.Background()))
}

func TestPerTask_RunsBatchConcurrently(t *testing.T) {
	strategy := NewPerTask()
	defer strategy.Shutdown(context.Background())

	start := time.Now()
	futures := strategy.Submit(context.Background(), MakeBatch(100, 50*time.Millisecond))
	results := awaitAll(t, futures)
	elapsed := time.Since(start)

	// 100 concurrent 50ms waits approximate one 50ms wait, nowhere near
	// the 5s a serial schedule would take.
	assert.GreaterOrEqual(t, elapsed, 45*time.Millisecond)
	assert.Less(t, elapsed, 2*time.Second)

	seen := make(map[int]bool)
	for _, r := range results {
		assert.False(t, r.Interrupted())
		seen[r.TaskID] = true
	}
	assert.Len(t, seen, 100, "every task id produced exactly one result")
}

func TestPerTask_CancelledContextResolvesAllFutures(t *testing.T) {
	strategy := NewPerTask()
	defer strategy.Shutdown(context.Background())

	ctx, cancel := context.WithCancel(context.Background())
	futures := strategy.Submit(ctx, MakeBatch(50, time.Hour))
	cancel()

	results := awaitAll(t, futures)
	for _, r := range results {
		assert.True(t, r.Interrupted())
	}
}

func TestBoundedPool_CancelledContextResolvesAllFutures(t *testing.T) {
	pool, err := NewBoundedPool(3)
	require.NoError(t, err)
	defer pool.Shutdown(context.Background())

	ctx, cancel := context.WithCancel(context.Background())
	futures := pool.Submit(ctx, MakeBatch(20, time.Hour))
	cancel()

	results := awaitAll(t, futures)
	assert.Len(t, results, 20)
	for _, r := range results {
		assert.True(t, r.Interrupted())
	}
}

func TestFuture_FailDistinctFromSentinel(t *testing.T) {
	f := newFuture()
	f.fail(assert.AnError)

	_, err := f.Wait(context.Background())
	assert.ErrorIs(t, err, assert.AnError)
}

func TestFuture_ResolvesOnlyOnce(t *testing.T) {
	f := newFuture()
	f.complete(TaskResult{TaskID: 1, LatencyMs: 10})
	f.fail(assert.AnError)

	result, err := f.Wait(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 1, result.TaskID)
}

func TestFuture_WaitHonorsContext(t *testing.T) {
	f := newFuture()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := f.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
