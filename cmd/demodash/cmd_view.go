package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kaleidemoskop/demodash/internal/constants"
	"github.com/kaleidemoskop/demodash/internal/dataset"
	"github.com/kaleidemoskop/demodash/internal/statstable"
	"github.com/kaleidemoskop/demodash/internal/view"
	"github.com/spf13/cobra"
)

// deriveFromFlags loads config and dataset and derives the view for the
// selection flags.
func deriveFromFlags(cmd *cobra.Command) (*dataset.Tables, view.Snapshot, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, view.Snapshot{}, err
	}
	tables, err := openTables(cmd, cfg)
	if err != nil {
		return nil, view.Snapshot{}, err
	}
	st, err := selectionFromFlags(cmd, tables.SimulationStartYear())
	if err != nil {
		return nil, view.Snapshot{}, err
	}
	return tables, view.Derive(tables, st), nil
}

func newViewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view",
		Short: "Print the derived dashboard view for one selection",
		Long: `Derive the dashboard for a scenario and year without starting a server.

Examples:
  demodash view --scenario G2L1W3 --year 2040
  demodash view --history --year 1970 --benchmark
  demodash view --json | jq .table`,
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")

			tables, snap, err := deriveFromFlags(cmd)
			if err != nil {
				return err
			}

			if jsonOut {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(struct {
					view.Snapshot
					Note view.Note `json:"note"`
				}{snap, view.MethodologyNote(tables.Metadata(), version)})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Scenario: %s\n", snap.State.Scenario.Code())
			for _, row := range snap.Selector {
				var opts []string
				for _, o := range row.Options {
					mark := " "
					if o.Selected {
						mark = "*"
					}
					opts = append(opts, fmt.Sprintf("%s%s (%s)", mark, o.Code, o.Level))
				}
				fmt.Fprintf(out, "  %-22s %s\n", row.Title+":", strings.Join(opts, "  "))
			}
			fmt.Fprintln(out, snap.Caption)
			fmt.Fprintf(out, "Slider: %d..%d\n", snap.Slider.Min, snap.Slider.Max)
			fmt.Fprintf(out, "Pyramid: %d series, axis ±%s\n", len(snap.Pyramid.Series), formatPeople(snap.Pyramid.XRange[1]))
			for _, s := range snap.Pyramid.Series {
				fmt.Fprintf(out, "  %-10s %-6s %3d bars  %s\n", s.Layer, s.Gender, len(s.Ages), legendOrHidden(s.LegendLabel, s.ShowInLegend))
			}
			fmt.Fprintln(out)
			fmt.Fprintln(out, statstable.RenderTerminal(snap.Table))
			return nil
		},
	}

	addDataFlag(cmd)
	addSelectionFlags(cmd)
	return cmd
}

func legendOrHidden(label string, shown bool) string {
	if !shown {
		return "(" + constants.BenchmarkColumn + ", no legend)"
	}
	return label
}

func formatPeople(v float64) string {
	return statstable.FormatCount(v)
}
