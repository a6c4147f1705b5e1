package cli

import (
	"github.com/spf13/cobra"
)

var version = "0.1.0"

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:     "taskbench",
	Short:   "Benchmark bounded worker pools against goroutine-per-task scheduling",
	Version: version,
	Long: `Taskbench drives batches of simulated I/O-bound tasks through two
scheduling strategies - a bounded worker pool and one goroutine per task -
and reports throughput, latency percentiles, and memory usage for each,
plus the relative deltas between them at every concurrency scale.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// If no subcommand is provided, print help
		return cmd.Help()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return RootCmd.Execute()
}

func init() {
	RootCmd.AddCommand(runCmd)
}
