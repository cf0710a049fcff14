package main

import (
	"fmt"
	"time"

	"github.com/kaleidemoskop/demodash/internal/config"
	"github.com/kaleidemoskop/demodash/internal/dashboard"
	"github.com/kaleidemoskop/demodash/internal/logging"
	"github.com/kaleidemoskop/demodash/internal/pathutil"
	"github.com/kaleidemoskop/demodash/internal/ratelimit"
	"github.com/kaleidemoskop/demodash/internal/selection"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the interactive dashboard",
		Long: `Load the dataset and serve the dashboard over HTTP until interrupted.

Examples:
  demodash serve                       # Random localhost port, opens the browser
  demodash serve --addr :8050 --no-open
  demodash serve --data ./output`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr, _ = cmd.Flags().GetString("addr")
			}
			if noOpen, _ := cmd.Flags().GetBool("no-open"); noOpen {
				cfg.Server.OpenBrowser = false
			}

			logger := logging.NewLogger(cfg.Logging.Level, cmd.ErrOrStderr())

			tables, err := openTables(cmd, cfg)
			if err != nil {
				return err
			}
			logger.Info("dataset loaded",
				"source", valueOrDefault(cfg.Data.Source, "csv"),
				"dir", pathutil.RedactPath(cfg.Data.Dir),
				"scenarios", len(tables.Scenarios()),
				"start_year", tables.SimulationStartYear(),
				"axis_max", tables.AxisMax())

			logDir := cfg.Logging.Dir
			if logDir == "" {
				if logDir, err = config.Dir(); err != nil {
					return err
				}
			}
			transitions := logging.OpenTransitionLogger(logDir, cfg.Logging.Level)
			defer transitions.Close()

			start := tables.SimulationStartYear()
			store := selection.NewStore(selection.Default(start), start)
			srv := dashboard.NewServer(tables, store, dashboard.Options{
				Addr:         cfg.Server.Addr,
				TickInterval: cfg.Server.TickInterval,
				Version:      version,
				Logger:       logger,
				AccessLog:    cmd.ErrOrStderr(),
				Transitions:  transitions,
				EventLimiter: ratelimit.NewLimiter(cfg.Server.EventRate, cfg.Server.EventBurst),
			})

			ctx, stop := signalContext(cmd.Context())
			defer stop()

			errCh := make(chan error, 1)
			go func() { errCh <- srv.ListenAndServe(ctx) }()

			// Wait for server to start
			deadline := time.Now().Add(3 * time.Second)
			for srv.Addr() == "" && time.Now().Before(deadline) {
				select {
				case err := <-errCh:
					if err != nil {
						return fmt.Errorf("server error: %w", err)
					}
					return nil
				case <-time.After(10 * time.Millisecond):
				}
			}
			if srv.Addr() == "" {
				return fmt.Errorf("server failed to start")
			}

			url := srv.URL()
			fmt.Fprintf(cmd.OutOrStdout(), "Dashboard running at %s\n", url)
			fmt.Fprintf(cmd.OutOrStdout(), "Press Ctrl-C to stop.\n")

			if cfg.Server.OpenBrowser {
				if err := dashboard.OpenBrowser(url); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "Could not open browser: %v\nOpen %s manually.\n", err, url)
				}
			}

			if err := <-errCh; err != nil {
				return fmt.Errorf("server error: %w", err)
			}
			return nil
		},
	}

	addDataFlag(cmd)
	cmd.Flags().String("addr", "", "Listen address (default: random localhost port)")
	cmd.Flags().Bool("no-open", false, "Don't open the browser")
	return cmd
}
