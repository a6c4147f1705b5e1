package bench

// Delta is a signed percentage delta relative to a baseline value. Defined is
// false when the baseline denominator was zero, in which case the delta is
// reported as undefined rather than computed as Inf/NaN.
type Delta struct {
	Percent float64 `json:"percent"`
	Defined bool    `json:"defined"`
}

// ComparisonReport holds one baseline/candidate result pair and the four
// relative deltas between them. Ephemeral: it exists only to produce output.
//
// Delta signs all read "positive means the candidate did better": faster,
// higher throughput, lower latency, less memory.
type ComparisonReport struct {
	Baseline  BenchmarkResult `json:"baseline"`
	Candidate BenchmarkResult `json:"candidate"`

	TimeDelta       Delta `json:"timeDelta"`
	ThroughputDelta Delta `json:"throughputDelta"`
	LatencyDelta    Delta `json:"latencyDelta"`
	MemoryDelta     Delta `json:"memoryDelta"`
}

// Compare computes the four percentage deltas of candidate against baseline.
// Any zero baseline denominator yields an undefined delta.
func Compare(baseline, candidate BenchmarkResult) ComparisonReport {
	return ComparisonReport{
		Baseline:  baseline,
		Candidate: candidate,
		TimeDelta: relativeDelta(
			float64(baseline.TotalTimeMs)-float64(candidate.TotalTimeMs),
			float64(baseline.TotalTimeMs)),
		ThroughputDelta: relativeDelta(
			candidate.Throughput-baseline.Throughput,
			baseline.Throughput),
		LatencyDelta: relativeDelta(
			float64(baseline.AvgLatencyMs)-float64(candidate.AvgLatencyMs),
			float64(baseline.AvgLatencyMs)),
		MemoryDelta: relativeDelta(
			float64(baseline.MemoryUsedMB)-float64(candidate.MemoryUsedMB),
			float64(baseline.MemoryUsedMB)),
	}
}

func relativeDelta(diff, base float64) Delta {
	if base == 0 {
		return Delta{}
	}
	return Delta{Percent: diff / base * 100, Defined: true}
}
