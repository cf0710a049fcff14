package main

import (
	"github.com/kaleidemoskop/demodash/internal/config"
	"github.com/kaleidemoskop/demodash/internal/logging"
	"github.com/kaleidemoskop/demodash/internal/mcp"
	"github.com/spf13/cobra"
)

func newMCPServerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "mcp",
		Aliases: []string{"mcp-server"},
		Short:   "Serve dashboard views to AI tools over MCP (stdio)",
		Long: `Run a Model Context Protocol server on stdin/stdout exposing the
dashboard derivations as tools: dashboard_view, pyramid_series,
stats_table and slider_range.

Tool calls are appended to ~/.demodash/audit.jsonl.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			// stdout carries the protocol, so logs go to stderr only.
			logger := logging.NewLogger(cfg.Logging.Level, cmd.ErrOrStderr())

			tables, err := openTables(cmd, cfg)
			if err != nil {
				return err
			}

			auditDir := cfg.Logging.Dir
			if auditDir == "" {
				if auditDir, err = config.Dir(); err != nil {
					return err
				}
			}

			server := mcp.NewServer(&mcp.Config{
				Name:     "demodash",
				Version:  version,
				Tables:   tables,
				AuditDir: auditDir,
				Logger:   logger,
			})
			defer server.Close()

			ctx, stop := signalContext(cmd.Context())
			defer stop()
			return server.Run(ctx)
		},
	}

	addDataFlag(cmd)
	return cmd
}
