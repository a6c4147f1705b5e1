package bench

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTaskRun_MeasuresDelay(t *testing.T) {
	task := NewTask(7, 20*time.Millisecond)

	result := task.Run(context.Background())

	assert.Equal(t, 7, result.TaskID)
	assert.False(t, result.Interrupted())
	assert.GreaterOrEqual(t, result.LatencyMs, int64(18))
	assert.Less(t, result.LatencyMs, int64(500), "latency should be near the simulated delay")
}

func TestTaskRun_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	task := NewTask(3, time.Hour)

	done := make(chan TaskResult, 1)
	go func() { done <- task.Run(ctx) }()

	select {
	case result := <-done:
		assert.Equal(t, 3, result.TaskID)
		assert.Equal(t, LatencyInterrupted, result.LatencyMs)
	case <-time.After(2 * time.Second):
		t.Fatal("cancelled task did not return")
	}
}

func TestTaskRun_ForcedInterrupt(t *testing.T) {
	interrupt := make(chan struct{})
	close(interrupt)

	task := NewInterruptibleTask(12, time.Hour, interrupt)
	result := task.Run(context.Background())

	assert.True(t, result.Interrupted())
	assert.Equal(t, 12, result.TaskID)
}

func TestMakeBatch_AssignsSequentialIDs(t *testing.T) {
	tasks := MakeBatch(5, 10*time.Millisecond)

	assert.Len(t, tasks, 5)
	for i, task := range tasks {
		assert.Equal(t, i, task.ID)
		assert.Equal(t, 10*time.Millisecond, task.Delay)
	}
}
