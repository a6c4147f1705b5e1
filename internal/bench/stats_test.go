package bench

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func resultsFromLatencies(latencies ...int64) []TaskResult {
	results := make([]TaskResult, len(latencies))
	for i, l := range latencies {
		results[i] = TaskResult{TaskID: i, LatencyMs: l}
	}
	return results
}

func TestAggregate_BasicStats(t *testing.T) {
	results := resultsFromLatencies(10, 20, 30, 40)

	r := Aggregate(results, 2*time.Second, 5, 4)

	assert.Equal(t, int64(2000), r.TotalTimeMs)
	assert.Equal(t, int64(25), r.AvgLatencyMs)
	assert.Equal(t, 4, r.TaskCount)
	assert.Equal(t, 4, r.ValidCount)
	assert.Equal(t, int64(5), r.MemoryUsedMB)
	assert.True(t, r.ThroughputDefined)
	assert.InDelta(t, 2.0, r.Throughput, 0.001)
}

func TestAggregate_AverageTruncatesTowardZero(t *testing.T) {
	// (10+15)/2 = 12.5, integer division truncates to 12
	r := Aggregate(resultsFromLatencies(10, 15), time.Second, 0, 2)
	assert.Equal(t, int64(12), r.AvgLatencyMs)
}

func TestAggregate_PercentileIndexFormula(t *testing.T) {
	// 10 sorted values 1..10: p50 = sorted[5] = 6,
	// p95 = sorted[int(10*0.95)] = sorted[9] = 10, p99 likewise.
	r := Aggregate(resultsFromLatencies(1, 2, 3, 4, 5, 6, 7, 8, 9, 10), time.Second, 0, 10)

	assert.Equal(t, int64(6), r.P50LatencyMs)
	assert.Equal(t, int64(10), r.P95LatencyMs)
	assert.Equal(t, int64(10), r.P99LatencyMs)
}

func TestAggregate_PercentileMonotonicity(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for trial := 0; trial < 100; trial++ {
		n := 1 + rng.Intn(500)
		latencies := make([]int64, n)
		for i := range latencies {
			latencies[i] = int64(rng.Intn(10000))
		}

		r := Aggregate(resultsFromLatencies(latencies...), time.Second, 0, n)

		assert.LessOrEqual(t, r.P50LatencyMs, r.P95LatencyMs, "n=%d", n)
		assert.LessOrEqual(t, r.P95LatencyMs, r.P99LatencyMs, "n=%d", n)
	}
}

func TestAggregate_ExcludesInterrupted(t *testing.T) {
	// 10 submitted, ids 3 and 7 interrupted: n == 8, avg over the 8 valid
	latencies := []int64{10, 10, 10, LatencyInterrupted, 10, 10, 10, LatencyInterrupted, 10, 10}

	r := Aggregate(resultsFromLatencies(latencies...), time.Second, 0, 10)

	assert.Equal(t, 10, r.TaskCount)
	assert.Equal(t, 8, r.ValidCount)
	assert.Equal(t, 2, r.InterruptedCount)
	assert.Equal(t, int64(10), r.AvgLatencyMs)
}

func TestAggregate_EmptyResults(t *testing.T) {
	r := Aggregate(nil, time.Second, 0, 0)

	assert.Equal(t, int64(0), r.AvgLatencyMs)
	assert.Equal(t, int64(0), r.P50LatencyMs)
	assert.Equal(t, int64(0), r.P95LatencyMs)
	assert.Equal(t, int64(0), r.P99LatencyMs)
	assert.Equal(t, 0, r.ValidCount)
}

func TestAggregate_AllInterrupted(t *testing.T) {
	r := Aggregate(resultsFromLatencies(LatencyInterrupted, LatencyInterrupted), time.Second, 0, 2)

	assert.Equal(t, 2, r.TaskCount)
	assert.Equal(t, 0, r.ValidCount)
	assert.Equal(t, 2, r.InterruptedCount)
	assert.Equal(t, int64(0), r.AvgLatencyMs)
	assert.Equal(t, int64(0), r.P99LatencyMs)
}

func TestAggregate_ZeroElapsedGuardsThroughput(t *testing.T) {
	r := Aggregate(resultsFromLatencies(10), 0, 0, 1)

	assert.False(t, r.ThroughputDefined)
	assert.Equal(t, 0.0, r.Throughput)
}

func TestAggregate_NegativeMemoryDeltaPassesThrough(t *testing.T) {
	r := Aggregate(resultsFromLatencies(10), time.Second, -3, 1)
	assert.Equal(t, int64(-3), r.MemoryUsedMB)
}

func TestAggregate_CountsFailures(t *testing.T) {
	// 5 submitted but only 3 results collected: 2 execution-context failures
	r := Aggregate(resultsFromLatencies(10, 20, 30), time.Second, 0, 5)

	assert.Equal(t, 5, r.TaskCount)
	assert.Equal(t, 3, r.ValidCount)
	assert.Equal(t, 2, r.FailedCount)
}

func TestMemoryPerTaskKB(t *testing.T) {
	r := BenchmarkResult{MemoryUsedMB: 10, TaskCount: 1000}
	assert.InDelta(t, 10.24, r.MemoryPerTaskKB(), 0.001)

	empty := BenchmarkResult{}
	assert.Equal(t, 0.0, empty.MemoryPerTaskKB())
}

func TestScaledIndex_Clamped(t *testing.T) {
	assert.Equal(t, 0, scaledIndex(1, 0.95))
	assert.Equal(t, 19, scaledIndex(20, 0.99))
	assert.Equal(t, 95, scaledIndex(100, 0.95))
}

func TestLatencyRecorder_Stats(t *testing.T) {
	rec := NewLatencyRecorder()
	for _, l := range []int64{10, 20, 30, 40, 50} {
		rec.Record(l)
	}

	stats := rec.Stats()
	assert.Equal(t, int64(5), stats.Count)
	assert.Equal(t, int64(10), stats.MinMs)
	assert.Equal(t, int64(50), stats.MaxMs)
	assert.InDelta(t, 30.0, stats.MeanMs, 1.0)
}

func TestLatencyRecorder_Empty(t *testing.T) {
	rec := NewLatencyRecorder()
	assert.Equal(t, LatencyStats{}, rec.Stats())
}

func TestLatencyRecorder_ClampsOutOfRange(t *testing.T) {
	rec := NewLatencyRecorder()
	rec.Record(0)
	rec.Record(recorderMaxMs + 100)

	stats := rec.Stats()
	assert.Equal(t, int64(2), stats.Count)
	assert.Equal(t, int64(recorderMinMs), stats.MinMs)
}
