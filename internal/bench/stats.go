package bench

import (
	"sort"
	"sync"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

// BenchmarkResult summarizes one harness run. It is created by Aggregate from
// a completed set of task results and owned solely by the caller that
// requested the run; results are never shared across runs.
type BenchmarkResult struct {
	TotalTimeMs  int64   `json:"totalTimeMs"`
	Throughput   float64 `json:"throughputPerSec"`
	AvgLatencyMs int64   `json:"avgLatencyMs"`
	P50LatencyMs int64   `json:"p50LatencyMs"`
	P95LatencyMs int64   `json:"p95LatencyMs"`
	P99LatencyMs int64   `json:"p99LatencyMs"`
	MemoryUsedMB int64   `json:"memoryUsedMB"`

	// TaskCount is the number of tasks submitted; ValidCount is the number
	// of latencies that entered the statistics (interrupted and failed
	// tasks are excluded).
	TaskCount        int `json:"taskCount"`
	ValidCount       int `json:"validCount"`
	InterruptedCount int `json:"interruptedCount"`
	FailedCount      int `json:"failedCount"`

	// ThroughputDefined is false when the run elapsed less than a
	// millisecond, in which case Throughput is reported as 0 rather than
	// computed as infinity.
	ThroughputDefined bool `json:"throughputDefined"`

	// Distribution carries supplemental histogram statistics. The
	// comparability percentiles above come from the exact sorted-index
	// formula, not from the histogram.
	Distribution LatencyStats `json:"distribution"`
}

// MemoryPerTaskKB returns the memory delta amortized per submitted task.
func (r BenchmarkResult) MemoryPerTaskKB() float64 {
	if r.TaskCount == 0 {
		return 0
	}
	return float64(r.MemoryUsedMB) * 1024.0 / float64(r.TaskCount)
}

// LatencyStats contains histogram-derived latency statistics in milliseconds.
type LatencyStats struct {
	MinMs    int64   `json:"minMs"`
	MaxMs    int64   `json:"maxMs"`
	MeanMs   float64 `json:"meanMs"`
	StdDevMs float64 `json:"stdDevMs"`
	Count    int64   `json:"count"`
}

// Aggregate computes a BenchmarkResult from the collected task results.
//
// It is pure: no I/O, no global state, deterministic for a fixed input.
//
// Semantics, preserved exactly for comparability with historical reports:
//   - results with the LatencyInterrupted sentinel are excluded; n is the
//     count of valid entries
//   - avg is sum/n with integer division (truncation toward zero)
//   - valid latencies are sorted ascending and percentiles are read at
//     sorted[n/2], sorted[int(n*0.95)], sorted[int(n*0.99)] with the scaled
//     index truncated (and clamped to n-1 against float rounding)
//   - n == 0 defines avg and all percentiles as 0
//   - throughput is submitted/elapsedSeconds in floating point; a zero
//     elapsed time yields 0 with ThroughputDefined == false instead of Inf
//   - memDeltaMB passes through and may legitimately be negative
//
// submitted is the total task count handed to the strategy; the difference
// between submitted and len(results) is the number of execution-context
// failures.
func Aggregate(results []TaskResult, elapsed time.Duration, memDeltaMB int64, submitted int) BenchmarkResult {
	valid := make([]int64, 0, len(results))
	var sum int64
	interrupted := 0
	for _, r := range results {
		if r.Interrupted() {
			interrupted++
			continue
		}
		valid = append(valid, r.LatencyMs)
		sum += r.LatencyMs
	}

	n := len(valid)
	var avg, p50, p95, p99 int64
	if n > 0 {
		sort.Slice(valid, func(i, j int) bool { return valid[i] < valid[j] })
		avg = sum / int64(n)
		p50 = valid[n/2]
		p95 = valid[scaledIndex(n, 0.95)]
		p99 = valid[scaledIndex(n, 0.99)]
	}

	elapsedMs := elapsed.Milliseconds()
	elapsedSeconds := float64(elapsedMs) / 1000.0

	var throughput float64
	defined := elapsedSeconds > 0
	if defined {
		throughput = float64(submitted) / elapsedSeconds
	}

	failed := submitted - len(results)
	if failed < 0 {
		failed = 0
	}

	return BenchmarkResult{
		TotalTimeMs:       elapsedMs,
		Throughput:        throughput,
		AvgLatencyMs:      avg,
		P50LatencyMs:      p50,
		P95LatencyMs:      p95,
		P99LatencyMs:      p99,
		MemoryUsedMB:      memDeltaMB,
		TaskCount:         submitted,
		ValidCount:        n,
		InterruptedCount:  interrupted,
		FailedCount:       failed,
		ThroughputDefined: defined,
	}
}

// scaledIndex truncates n*q to an index, clamped into [0, n-1].
func scaledIndex(n int, q float64) int {
	idx := int(float64(n) * q)
	if idx >= n {
		idx = n - 1
	}
	return idx
}

// LatencyRecorder accumulates per-task latencies in an HDR histogram as
// futures resolve, supplying the min/max/mean/stddev block of the report.
//
// Safe for concurrent use; RecordValue is not thread-safe on its own, so
// every touch of the histogram holds the mutex.
type LatencyRecorder struct {
	mu   sync.Mutex
	hist *hdrhistogram.Histogram
}

// recorder range: 1ms to 1 hour, 3 significant figures.
const (
	recorderMinMs = 1
	recorderMaxMs = 3600000
)

// NewLatencyRecorder creates an empty recorder.
func NewLatencyRecorder() *LatencyRecorder {
	return &LatencyRecorder{
		hist: hdrhistogram.New(recorderMinMs, recorderMaxMs, 3),
	}
}

// Record adds one valid latency, clamped into the recordable range.
// Sentinel latencies must not be recorded.
func (r *LatencyRecorder) Record(latencyMs int64) {
	if latencyMs < recorderMinMs {
		latencyMs = recorderMinMs
	}
	if latencyMs > recorderMaxMs {
		latencyMs = recorderMaxMs
	}

	r.mu.Lock()
	r.hist.RecordValue(latencyMs)
	r.mu.Unlock()
}

// Stats returns the histogram statistics accumulated so far.
func (r *LatencyRecorder) Stats() LatencyStats {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.hist.TotalCount() == 0 {
		return LatencyStats{}
	}

	return LatencyStats{
		MinMs:    r.hist.Min(),
		MaxMs:    r.hist.Max(),
		MeanMs:   r.hist.Mean(),
		StdDevMs: r.hist.StdDev(),
		Count:    r.hist.TotalCount(),
	}
}
