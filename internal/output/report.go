package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/wesleyorama2/taskbench/internal/bench"
)

// Formatter renders sweep progress and results as a human-readable console
// report. It is consumed by a person, not parsed by machines; WriteJSON is
// the machine-readable surface.
type Formatter struct {
	writer io.Writer
	scheme *ColorScheme
	quiet  bool
}

// FormatterConfig configures a Formatter.
type FormatterConfig struct {
	// Writer defaults to os.Stdout.
	Writer io.Writer

	// NoColor disables colors regardless of terminal detection.
	NoColor bool

	// Quiet suppresses everything except comparisons and errors.
	Quiet bool
}

// NewFormatter creates a formatter. Colors are enabled only when the writer
// is a terminal, and NO_COLOR is honored.
func NewFormatter(cfg FormatterConfig) *Formatter {
	if cfg.Writer == nil {
		cfg.Writer = os.Stdout
	}

	useColors := !cfg.NoColor && os.Getenv("NO_COLOR") == ""
	if useColors {
		if f, ok := cfg.Writer.(*os.File); ok {
			useColors = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
		} else {
			useColors = false
		}
	}

	scheme := DefaultColorScheme()
	if !useColors {
		scheme = NoColorScheme()
	}

	return &Formatter{
		writer: cfg.Writer,
		scheme: scheme,
		quiet:  cfg.Quiet,
	}
}

// PrintHeader prints the sweep title banner.
func (f *Formatter) PrintHeader(name string) {
	if f.quiet {
		return
	}
	line := strings.Repeat("=", 3)
	fmt.Fprintf(f.writer, "%s\n\n", f.scheme.Header.Sprintf("%s %s %s", line, name, line))
}

// PrintScenario prints the scenario banner for one concurrency scale.
func (f *Formatter) PrintScenario(scenario bench.Scenario) {
	if f.quiet {
		return
	}
	fmt.Fprintf(f.writer, "%s\n",
		f.scheme.Scenario.Sprintf("=== Scenario: %s (%d tasks) ===", scenario.Name, scenario.Tasks))
}

// PrintResult prints one strategy's benchmark result.
func (f *Formatter) PrintResult(strategyName string, r bench.BenchmarkResult) {
	if f.quiet {
		return
	}

	fmt.Fprintf(f.writer, "\n%s\n", f.scheme.Strategy.Sprintf("%s:", strategyName))

	f.printLine("Total time", fmt.Sprintf("%d ms", r.TotalTimeMs))
	if r.ThroughputDefined {
		f.printLine("Throughput", fmt.Sprintf("%.2f tasks/sec", r.Throughput))
	} else {
		f.printLine("Throughput", f.scheme.Undefined.Sprint("undefined (elapsed < 1ms)"))
	}
	f.printLine("Latency (avg)", fmt.Sprintf("%d ms", r.AvgLatencyMs))
	f.printLine("Latency (p50)", fmt.Sprintf("%d ms", r.P50LatencyMs))
	f.printLine("Latency (p95)", fmt.Sprintf("%d ms", r.P95LatencyMs))
	f.printLine("Latency (p99)", fmt.Sprintf("%d ms", r.P99LatencyMs))
	if r.Distribution.Count > 0 {
		f.printLine("Latency (min/max)",
			fmt.Sprintf("%d/%d ms", r.Distribution.MinMs, r.Distribution.MaxMs))
		f.printLine("Latency (stddev)", fmt.Sprintf("%.2f ms", r.Distribution.StdDevMs))
	}
	f.printLine("Memory used", fmt.Sprintf("%d MB", r.MemoryUsedMB))
	f.printLine("Memory per task", fmt.Sprintf("%.2f KB", r.MemoryPerTaskKB()))

	if r.InterruptedCount > 0 || r.FailedCount > 0 {
		f.printLine("Excluded",
			fmt.Sprintf("%d interrupted, %d failed (of %d submitted)",
				r.InterruptedCount, r.FailedCount, r.TaskCount))
	}
}

// PrintComparison prints the four deltas of a comparison with directional
// qualifiers. Undefined deltas (zero baseline denominator) print as such
// rather than as a number.
func (f *Formatter) PrintComparison(report bench.ComparisonReport) {
	fmt.Fprintf(f.writer, "\n%s\n", f.scheme.Header.Sprint("=== Comparison ==="))

	f.printDelta("Time improvement", report.TimeDelta, "faster", "slower")
	f.printDelta("Throughput improvement", report.ThroughputDelta, "higher", "lower")
	f.printDelta("Latency improvement", report.LatencyDelta, "better", "worse")
	f.printDelta("Memory improvement", report.MemoryDelta, "less", "more")
	fmt.Fprintln(f.writer)
}

// PrintScenarioError reports a failed scenario with enough context to
// reproduce: scenario name, scale, and the error itself.
func (f *Formatter) PrintScenarioError(scenario bench.Scenario, err error) {
	fmt.Fprintf(f.writer, "%s\n",
		f.scheme.Error.Sprintf("scenario %q (%d tasks, pool width %d) failed: %v",
			scenario.Name, scenario.Tasks, scenario.PoolWidth, err))
}

// PrintTaskFailure reports one execution-context failure within a batch.
func (f *Formatter) PrintTaskFailure(taskID int, err error) {
	fmt.Fprintf(f.writer, "%s\n", f.scheme.Error.Sprintf("task %d failed: %v", taskID, err))
}

// PrintFooter prints the closing banner.
func (f *Formatter) PrintFooter() {
	if f.quiet {
		return
	}
	fmt.Fprintf(f.writer, "%s\n", f.scheme.Header.Sprint("=== Benchmark Complete ==="))
}

func (f *Formatter) printLine(label, value string) {
	fmt.Fprintf(f.writer, "  %s %s\n", f.scheme.Label.Sprintf("%-18s", label+":"), value)
}

func (f *Formatter) printDelta(label string, delta bench.Delta, positive, negative string) {
	if !delta.Defined {
		fmt.Fprintf(f.writer, "  %s %s\n",
			f.scheme.Label.Sprintf("%-23s", label+":"),
			f.scheme.Undefined.Sprint("undefined (zero baseline)"))
		return
	}

	qualifier := positive
	colored := f.scheme.Better
	if delta.Percent <= 0 {
		qualifier = negative
		colored = f.scheme.Worse
	}

	fmt.Fprintf(f.writer, "  %s %s\n",
		f.scheme.Label.Sprintf("%-23s", label+":"),
		colored.Sprintf("%.1f%% %s", delta.Percent, qualifier))
}

// SweepReport is the JSON shape of a full sweep.
type SweepReport struct {
	Name     string                  `json:"name"`
	Outcomes []bench.ScenarioOutcome `json:"outcomes"`
}

// WriteJSON writes the sweep outcomes as indented JSON.
func WriteJSON(w io.Writer, name string, outcomes []bench.ScenarioOutcome) error {
	report := SweepReport{Name: name, Outcomes: outcomes}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return nil
}
