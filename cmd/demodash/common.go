package main

import (
	"context"
	"fmt"
	"os/signal"

	"github.com/kaleidemoskop/demodash/internal/config"
	"github.com/kaleidemoskop/demodash/internal/dataset"
	"github.com/kaleidemoskop/demodash/internal/pathutil"
	"github.com/kaleidemoskop/demodash/internal/selection"
	"github.com/spf13/cobra"
)

// loadConfig reads --config (or the default path) with env overrides applied.
func loadConfig(cmd *cobra.Command) (*config.DashboardConfig, error) {
	path, _ := cmd.Flags().GetString("config")
	var (
		cfg *config.DashboardConfig
		err error
	)
	if path != "" {
		cfg, err = config.LoadPath(path)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// configPath returns the file `config set` writes to.
func configPath(cmd *cobra.Command) (string, error) {
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		return path, nil
	}
	return config.DefaultPath()
}

// openTables loads the dataset. --data overrides the configured directory.
func openTables(cmd *cobra.Command, cfg *config.DashboardConfig) (*dataset.Tables, error) {
	if f := cmd.Flags().Lookup("data"); f != nil && f.Changed {
		cfg.Data.Dir = pathutil.ExpandHome(f.Value.String())
	}
	tables, err := dataset.Open(cmd.Context(), cfg.OpenOptions())
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}
	return tables, nil
}

func addDataFlag(cmd *cobra.Command) {
	cmd.Flags().String("data", "", "Dataset directory (overrides data.dir)")
}

// addSelectionFlags registers the flags that pick one dashboard view.
func addSelectionFlags(cmd *cobra.Command) {
	cmd.Flags().String("scenario", selection.DefaultScenario().Code(), "Scenario code, e.g. G2L1W3")
	cmd.Flags().Int("year", 0, "Year to show (default: first simulated year)")
	cmd.Flags().Bool("benchmark", false, "Overlay the benchmark projection")
	cmd.Flags().Bool("history", false, "Extend the year range back to 1950")
}

// selectionFromFlags builds the state described by the selection flags.
// The year is left as given; view derivation clamps it to the slider domain.
func selectionFromFlags(cmd *cobra.Command, startYear int) (selection.State, error) {
	st := selection.Default(startYear)

	code, _ := cmd.Flags().GetString("scenario")
	sc, err := selection.ParseScenario(code)
	if err != nil {
		return st, err
	}
	st.Scenario = sc

	if cmd.Flags().Changed("year") {
		st.Year, _ = cmd.Flags().GetInt("year")
	}
	st.BenchmarkOn, _ = cmd.Flags().GetBool("benchmark")
	st.HistoryOn, _ = cmd.Flags().GetBool("history")
	return st, nil
}

// signalContext is cancelled on the first shutdown signal.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, shutdownSignals...)
}
