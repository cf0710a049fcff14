package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kaleidemoskop/demodash/internal/pyramid"
	"github.com/spf13/cobra"
)

func newChartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Render the population pyramid to an image file",
		Long: `Render the pyramid for one selection as PNG or SVG.

The format follows --format, or the output file's extension when --format
is not given.

Examples:
  demodash chart -o pyramid.png --scenario G2L2W2 --year 2050
  demodash chart -o 1970.svg --history --year 1970 --benchmark`,
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			output, _ := cmd.Flags().GetString("output")

			format, err := chartFormat(cmd, output)
			if err != nil {
				return err
			}

			_, snap, err := deriveFromFlags(cmd)
			if err != nil {
				return err
			}

			if jsonOut {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(snap.Pyramid)
			}

			if err := writeChart(output, snap.Pyramid, format); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Pyramid for %s, %s written to %s\n",
				snap.State.Scenario.Code(), snap.Caption, output)
			return nil
		},
	}

	addDataFlag(cmd)
	addSelectionFlags(cmd)
	cmd.Flags().StringP("output", "o", "pyramid.png", "Output file path")
	cmd.Flags().String("format", "", "Image format: png or svg")
	return cmd
}

// writeChart renders c to path. A failed render leaves no partial file behind.
func writeChart(path string, c pyramid.Chart, format pyramid.Format) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := pyramid.Render(c, format, f); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func chartFormat(cmd *cobra.Command, output string) (pyramid.Format, error) {
	format, _ := cmd.Flags().GetString("format")
	if format == "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(output)), ".")
	}
	switch f := pyramid.Format(format); f {
	case pyramid.FormatPNG, pyramid.FormatSVG:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported format %q (use 'png' or 'svg')", format)
	}
}
