package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/openclimate/cfi-cli/internal/model"
	"github.com/openclimate/cfi-cli/internal/pipeline"
	"github.com/openclimate/cfi-cli/internal/store"
)

var (
	runCO2       string
	runPoverty   string
	runRevenue   string
	runFertility string
	runYear      int
	runK         int
	runSeed      int64
	runOutput    string
	runNoStore   bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full analysis pipeline once",
	Long: `Loads the indicator datasets, joins them on country, computes the
Climate Fairness Index with ranks and deciles, clusters countries into four
named groups, and writes the choropleth, bubble plot, and flat exports.

Examples:
  # Defaults: co2_emissions.csv, poverty.csv, revenue_gap.csv, output/
  cfi run

  # Explicit inputs and a fixed cross-section year
  cfi run --co2 data/co2.csv --poverty data/pov.csv --revenue data/rev.csv --year 2021`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		applyRunFlags(cmd)

		report, _, err := pipeline.New(cfg).Run()
		if err != nil {
			return err
		}

		if !runNoStore {
			if err := saveReport(cmd.Context(), report); err != nil {
				return err
			}
		}

		printReport(os.Stdout, report)
		return nil
	},
}

func applyRunFlags(cmd *cobra.Command) {
	if runCO2 != "" {
		cfg.Inputs.CO2.Path = runCO2
	}
	if runPoverty != "" {
		cfg.Inputs.Poverty.Path = runPoverty
	}
	if runRevenue != "" {
		cfg.Inputs.Revenue.Path = runRevenue
	}
	if runFertility != "" {
		cfg.Inputs.Fertility.Path = runFertility
	}
	if runYear != 0 {
		cfg.Inputs.CO2.Year = runYear
		cfg.Inputs.Poverty.Year = runYear
		cfg.Inputs.Revenue.Year = runYear
		cfg.Inputs.Fertility.Year = runYear
	}
	if runK != 0 {
		cfg.Cluster.K = runK
	}
	if cmd.Flags().Changed("seed") {
		cfg.Cluster.Seed = runSeed
	}
	if runOutput != "" {
		cfg.Output.Dir = runOutput
	}
}

func saveReport(ctx context.Context, report *model.RunReport) error {
	reg, err := store.Open(cfg.Store.Path)
	if err != nil {
		return err
	}
	defer reg.Close() //nolint:errcheck
	if err := reg.Migrate(ctx); err != nil {
		return err
	}
	return reg.SaveRun(ctx, report)
}

func printReport(w io.Writer, report *model.RunReport) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "run\t%s\n", report.ID)
	fmt.Fprintf(tw, "year\t%d\n", report.Year)
	fmt.Fprintf(tw, "countries joined\t%d\n", report.RowsJoined)
	fmt.Fprintf(tw, "countries ranked\t%d\n", report.RowsRanked)
	fmt.Fprintf(tw, "missing input files\t%d\n", report.MissingInputFiles)
	fmt.Fprintf(tw, "unresolvable names\t%d\n", report.UnresolvableNames)
	fmt.Fprintf(tw, "dropped join rows\t%d\n", report.DroppedJoinRows)
	fmt.Fprintf(tw, "degenerate columns\t%d\n", report.DegenerateColumns)
	fmt.Fprintf(tw, "undefined index rows\t%d\n", report.UndefinedIndexRows)
	fmt.Fprintf(tw, "geo mapping misses\t%d\n", report.GeoMappingMisses)
	for _, a := range report.Artifacts {
		fmt.Fprintf(tw, "artifact\t%s\n", a)
	}
	_ = tw.Flush()
}

func init() {
	runCmd.Flags().StringVar(&runCO2, "co2", "", "path to the CO2 per-capita CSV (overrides config)")
	runCmd.Flags().StringVar(&runPoverty, "poverty", "", "path to the extreme-poverty CSV (overrides config)")
	runCmd.Flags().StringVar(&runRevenue, "revenue", "", "path to the revenue-gap CSV (overrides config)")
	runCmd.Flags().StringVar(&runFertility, "fertility", "", "path to the optional fertility-rate CSV")
	runCmd.Flags().IntVar(&runYear, "year", 0, "cross-section year for all indicators (0 = latest common)")
	runCmd.Flags().IntVar(&runK, "k", 0, "cluster count (overrides config)")
	runCmd.Flags().Int64Var(&runSeed, "seed", 42, "k-means random seed")
	runCmd.Flags().StringVar(&runOutput, "output", "", "output directory (overrides config)")
	runCmd.Flags().BoolVar(&runNoStore, "no-store", false, "skip recording the run in the registry")
	rootCmd.AddCommand(runCmd)
}
