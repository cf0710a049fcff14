package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Set by the release build via -ldflags.
var (
	version = "0.1.0-dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "demodash",
		Short: "Population pyramid dashboard for demographic projections",
		Long: `demodash serves an interactive dashboard over precomputed population
projections: a population pyramid and an age-group statistics table for
every scenario and year, optionally overlaid with the official benchmark
projection and historical records.

The dataset is read from CSV files (or a SQLite import of them) once at
startup and never written.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON (for agent consumption)")
	rootCmd.PersistentFlags().String("config", "", "Config file (default ~/.demodash/config.yaml)")

	rootCmd.AddCommand(
		newVersionCmd(),
		newServeCmd(),
		newViewCmd(),
		newTableCmd(),
		newChartCmd(),
		newImportCmd(),
		newMCPServerCmd(),
		newConfigCmd(),
	)
	return rootCmd
}
