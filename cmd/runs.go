package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/openclimate/cfi-cli/internal/model"
	"github.com/openclimate/cfi-cli/internal/store"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect pipeline run history",
	Long:  "Commands for listing and viewing recorded analysis runs.",
}

// -- runs list --

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded runs",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		reg, err := store.Open(cfg.Store.Path)
		if err != nil {
			return err
		}
		defer reg.Close() //nolint:errcheck
		if err := reg.Migrate(ctx); err != nil {
			return err
		}

		limit, _ := cmd.Flags().GetInt("limit")
		runs, err := reg.ListRuns(ctx, limit)
		if err != nil {
			return eris.Wrap(err, "runs list")
		}

		if len(runs) == 0 {
			fmt.Fprintln(os.Stderr, "No runs found.")
			return nil
		}

		formatRunsList(os.Stdout, runs)
		return nil
	},
}

// -- runs show --

var runsShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show one run as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		reg, err := store.Open(cfg.Store.Path)
		if err != nil {
			return err
		}
		defer reg.Close() //nolint:errcheck
		if err := reg.Migrate(ctx); err != nil {
			return err
		}

		report, err := reg.GetRun(ctx, args[0])
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	},
}

func formatRunsList(w io.Writer, runs []model.RunReport) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tYEAR\tJOINED\tRANKED\tDROPPED\tSTARTED")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%s\n",
			r.ID, r.Year, r.RowsJoined, r.RowsRanked, r.DroppedJoinRows,
			r.StartedAt.Local().Format(time.RFC3339))
	}
	_ = tw.Flush()
}

func init() {
	runsListCmd.Flags().Int("limit", 20, "max runs to list (0 = all)")
	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsShowCmd)
	rootCmd.AddCommand(runsCmd)
}
