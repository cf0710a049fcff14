package main

import (
	"encoding/json"
	"fmt"

	"github.com/kaleidemoskop/demodash/internal/dataset"
	"github.com/spf13/cobra"
)

func newImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import the CSV dataset into a SQLite database",
		Long: `Read the CSV tables and metadata from the data directory and write them
to a single SQLite file. Set data.source to sqlite to serve from it.

Examples:
  demodash import                          # data/ -> data/demodash.db
  demodash import --data ./output --db /tmp/pyramids.db`,
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("data") {
				cfg.Data.Dir, _ = cmd.Flags().GetString("data")
			}
			dbPath, _ := cmd.Flags().GetString("db")
			if dbPath == "" {
				dbPath = cfg.OpenOptions().DBPath
			}

			tables, err := dataset.LoadDir(cfg.Data.Dir, cfg.Data.Files)
			if err != nil {
				return fmt.Errorf("load dataset: %w", err)
			}
			if err := dataset.ExportSQLite(cmd.Context(), dbPath, tables); err != nil {
				return fmt.Errorf("export sqlite: %w", err)
			}

			counts := map[string]int{
				"sim_pyramid":   len(tables.PyramidRecords(dataset.Simulation)),
				"sim_stats":     len(tables.StatRecords(dataset.Simulation)),
				"bench_pyramid": len(tables.PyramidRecords(dataset.Benchmark)),
				"bench_stats":   len(tables.StatRecords(dataset.Benchmark)),
			}
			if jsonOut {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]any{
					"status": "imported",
					"db":     dbPath,
					"rows":   counts,
				})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %s into %s\n", cfg.Data.Dir, dbPath)
			for _, k := range []string{"sim_pyramid", "sim_stats", "bench_pyramid", "bench_stats"} {
				fmt.Fprintf(cmd.OutOrStdout(), "  %-14s %d rows\n", k+":", counts[k])
			}
			return nil
		},
	}

	addDataFlag(cmd)
	cmd.Flags().String("db", "", "SQLite file to write (default: data.sqlite_path)")
	return cmd
}
