package cli

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wesleyorama2/taskbench/internal/bench"
	"github.com/wesleyorama2/taskbench/internal/config"
	"github.com/wesleyorama2/taskbench/internal/output"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the strategy comparison sweep",
	Long: `Run the bounded-pool vs goroutine-per-task comparison across one or
more concurrency scales.

Default sweep (low/medium/high concurrency):
  taskbench run

Custom scales as poolWidth:tasks pairs:
  taskbench run --scales 100:1000,200:5000 --delay 50ms

From a configuration file:
  taskbench run --config sweep.yaml`,
	RunE: runSweep,
}

func init() {
	runCmd.Flags().StringP("config", "c", "", "sweep configuration file (YAML or JSON)")
	runCmd.Flags().String("scales", "", "comma-separated poolWidth:tasks pairs, e.g. 100:1000,200:5000")
	runCmd.Flags().Duration("delay", bench.DefaultDelay, "simulated I/O delay per task")
	runCmd.Flags().Int("warmup", 1000, "discarded warmup task count (0 disables warmup)")
	runCmd.Flags().Duration("await-ceiling", bench.DefaultAwaitCeiling, "upper bound on waiting for one batch")
	runCmd.Flags().String("on-timeout", string(bench.PolicyAbort), "policy when a scenario exceeds the ceiling: abort or skip")
	runCmd.Flags().Bool("json", false, "print the report as JSON instead of the console format")
	runCmd.Flags().StringP("output", "o", "", "also write the JSON report to a file")
	runCmd.Flags().BoolP("quiet", "q", false, "suppress per-strategy results, print only comparisons")
	runCmd.Flags().Bool("no-color", false, "disable colored output")
}

func runSweep(cmd *cobra.Command, args []string) error {
	configFile, _ := cmd.Flags().GetString("config")
	scales, _ := cmd.Flags().GetString("scales")
	delay, _ := cmd.Flags().GetDuration("delay")
	warmup, _ := cmd.Flags().GetInt("warmup")
	awaitCeiling, _ := cmd.Flags().GetDuration("await-ceiling")
	onTimeout, _ := cmd.Flags().GetString("on-timeout")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	outputPath, _ := cmd.Flags().GetString("output")
	quiet, _ := cmd.Flags().GetBool("quiet")
	noColor, _ := cmd.Flags().GetBool("no-color")

	var cfg *config.BenchConfig
	var err error
	if configFile != "" {
		cfg, err = config.LoadConfig(configFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
	} else {
		cfg = &config.BenchConfig{}
		cfg.Warmup = warmup
		if scales != "" {
			cfg.Scenarios, err = parseScales(scales)
			if err != nil {
				return err
			}
		}
		config.ApplyDefaults(cfg)
	}

	// Flags override the file for the knobs they name.
	if cmd.Flags().Changed("delay") {
		cfg.Delay = config.Duration(delay)
	}
	if cmd.Flags().Changed("warmup") {
		cfg.Warmup = warmup
	}
	if cmd.Flags().Changed("await-ceiling") {
		cfg.AwaitCeiling = config.Duration(awaitCeiling)
	}
	if cmd.Flags().Changed("on-timeout") {
		cfg.OnTimeout = onTimeout
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}

	formatter := output.NewFormatter(output.FormatterConfig{
		Writer:  cmd.OutOrStdout(),
		NoColor: noColor,
		Quiet:   quiet || jsonOutput,
	})

	sweepCfg := cfg.SweepConfig()
	sweepCfg.OnTaskFailure = formatter.PrintTaskFailure

	lastScenario := ""
	sweepCfg.OnResult = func(scenario bench.Scenario, strategyName string, result bench.BenchmarkResult) {
		if scenario.Name != lastScenario {
			formatter.PrintScenario(scenario)
			lastScenario = scenario.Name
		}
		formatter.PrintResult(strategyName, result)
	}
	if !jsonOutput {
		sweepCfg.OnOutcome = func(outcome bench.ScenarioOutcome) {
			if outcome.Err != nil {
				formatter.PrintScenarioError(outcome.Scenario, outcome.Err)
				return
			}
			formatter.PrintComparison(outcome.Report)
		}
	}

	sweep, err := bench.NewSweep(sweepCfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	formatter.PrintHeader(cfg.Name)
	start := time.Now()

	outcomes, runErr := sweep.Run(ctx)

	if outputPath != "" {
		file, err := os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("creating report file: %w", err)
		}
		defer file.Close()
		if err := output.WriteJSON(file, cfg.Name, outcomes); err != nil {
			return err
		}
	}

	if jsonOutput {
		if err := output.WriteJSON(cmd.OutOrStdout(), cfg.Name, outcomes); err != nil {
			return err
		}
	}

	if runErr != nil {
		return fmt.Errorf("sweep failed after %s: %w", time.Since(start).Round(time.Millisecond), runErr)
	}

	formatter.PrintFooter()
	return nil
}

// parseScales parses "poolWidth:tasks" pairs, e.g. "100:1000,200:5000".
func parseScales(s string) ([]config.ScenarioConfig, error) {
	var scenarios []config.ScenarioConfig
	for i, pair := range strings.Split(s, ",") {
		parts := strings.Split(strings.TrimSpace(pair), ":")
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid scale %q (expected poolWidth:tasks)", pair)
		}

		width, err := strconv.Atoi(parts[0])
		if err != nil {
			return nil, fmt.Errorf("invalid pool width in scale %q: %w", pair, err)
		}
		tasks, err := strconv.Atoi(parts[1])
		if err != nil {
			return nil, fmt.Errorf("invalid task count in scale %q: %w", pair, err)
		}

		scenarios = append(scenarios, config.ScenarioConfig{
			Name:      fmt.Sprintf("scale-%d", i+1),
			Tasks:     tasks,
			PoolWidth: width,
		})
	}
	return scenarios, nil
}
