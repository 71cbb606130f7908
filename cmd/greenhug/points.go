package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/dangerclosesec/greenhug/internal/impact"
	"github.com/spf13/cobra"
)

type pointsReport struct {
	Bundle       impact.Bundle  `json:"bundle"`
	Points       int64          `json:"points"`
	Classified   int            `json:"classified"`
	Unclassified []impact.Entry `json:"unclassified"`
}

func newPointsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "points [entries.json]",
		Short: "Score a JSON array of impact entries without touching the database",
		Long: `Reads a JSON array of entries such as
  [{"metric": "Árboles plantados", "value": "1000"}, {"metric": "CO2 capturado", "value": "2", "unit": "toneladas"}]
from the given file, or from stdin, and prints the resulting counters and points.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := cmd.InOrStdin()
			if len(args) == 1 {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}
			return runPoints(in, cmd.OutOrStdout())
		},
	}

	return cmd
}

func runPoints(in io.Reader, out io.Writer) error {
	var entries []impact.Entry
	if err := json.NewDecoder(in).Decode(&entries); err != nil {
		return fmt.Errorf("reading entries: %w", err)
	}

	summary := impact.Summarize(entries)
	bundle := summary.Bundle.Clamp()

	report := pointsReport{
		Bundle:       bundle,
		Points:       impact.Points(bundle),
		Classified:   summary.Classified,
		Unclassified: summary.Unclassified,
	}
	if report.Unclassified == nil {
		report.Unclassified = []impact.Entry{}
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
