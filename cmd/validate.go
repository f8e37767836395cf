package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/openclimate/cfi-cli/internal/pipeline"
)

var validateLimit int

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Load and join the inputs without running the analysis",
	Long: `Dry run: reads the indicator datasets, resolves country names, and
performs the inner join, then prints the surviving countries and drop
counts. No artifacts are written and nothing is recorded in the registry.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ld, err := pipeline.New(cfg).Load()
		if err != nil {
			return err
		}

		join := ld.Join
		fmt.Fprintf(os.Stdout, "year %d: %d countries joined, %d dropped, %d unresolvable names\n",
			join.Year, len(join.Records), join.Dropped, join.Unresolved)

		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "COUNTRY\tCO2/CAPITA\tPOVERTY%\tREVENUE GAP%")
		for i, r := range join.Records {
			if validateLimit > 0 && i >= validateLimit {
				fmt.Fprintf(tw, "… and %d more\t\t\t\n", len(join.Records)-validateLimit)
				break
			}
			fmt.Fprintf(tw, "%s\t%.2f\t%.2f\t%.2f\n",
				r.Country, r.CO2PerCapita, r.PovertyPct, r.RevenueGapPct)
		}
		return tw.Flush()
	},
}

func init() {
	validateCmd.Flags().IntVar(&validateLimit, "limit", 20, "max countries to print (0 = all)")
	rootCmd.AddCommand(validateCmd)
}
