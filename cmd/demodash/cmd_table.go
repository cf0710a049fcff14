package main

import (
	"encoding/json"
	"fmt"

	"github.com/kaleidemoskop/demodash/internal/statstable"
	"github.com/spf13/cobra"
)

func newTableCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "table",
		Short: "Print the age-group statistics table",
		Long: `Print the statistics table for one selection.

Examples:
  demodash table --scenario G3L3W3 --year 2070
  demodash table --benchmark --year 2040 --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")

			_, snap, err := deriveFromFlags(cmd)
			if err != nil {
				return err
			}

			if jsonOut {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(snap.Table)
			}
			fmt.Fprintln(cmd.OutOrStdout(), snap.Caption)
			fmt.Fprintln(cmd.OutOrStdout(), statstable.RenderTerminal(snap.Table))
			return nil
		},
	}

	addDataFlag(cmd)
	addSelectionFlags(cmd)
	return cmd
}
