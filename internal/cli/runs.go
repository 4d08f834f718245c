package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/stockview/journal"
	"github.com/rustyeddy/stockview/market"
)

func newRunsCmd(rc *RootConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect the fetch-run journal",
		Long: `Query fetch runs recorded in the SQLite journal.

Subcommands:
  list  - List recent runs, newest first
  show  - Show one run by id

Examples:
  stockview runs list --symbol NVDA --limit 5
  stockview runs show 01HKZ3Q8W5E6R7T8Y9U0I1O2P3`,
	}

	cmd.AddCommand(
		newRunsListCmd(rc),
		newRunsShowCmd(rc),
	)

	return cmd
}

func newRunsListCmd(rc *RootConfig) *cobra.Command {
	var (
		symbol string
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent fetch runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			j, err := openJournal(rc.Config.Journal)
			if err != nil {
				return err
			}
			defer j.Close()

			runs, err := j.ListRuns(cmd.Context(), symbol, limit)
			if err != nil {
				return fmt.Errorf("query runs: %w", err)
			}
			if len(runs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no runs recorded")
				return nil
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "RUN ID\tSYMBOL\tSOURCE\tSTARTED\tSTATUS\tROWS\tLAST DATE")
			for _, r := range runs {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\t%s\n",
					r.RunID, r.Symbol, r.Source, r.Started.Format(time.RFC3339), r.Status, r.Rows, dateOrDash(r.LastDate))
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&symbol, "symbol", "", "Only runs for this symbol")
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum runs to list (0 = all)")

	return cmd
}

func newRunsShowCmd(rc *RootConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show details of a fetch run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			j, err := openJournal(rc.Config.Journal)
			if err != nil {
				return err
			}
			defer j.Close()

			r, err := j.GetRun(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			printRun(cmd, r)
			return nil
		},
	}
}

func printRun(cmd *cobra.Command, r journal.Run) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Run:      %s\n", r.RunID)
	fmt.Fprintf(out, "Symbol:   %s\n", r.Symbol)
	fmt.Fprintf(out, "Source:   %s\n", r.Source)
	fmt.Fprintf(out, "Status:   %s\n", r.Status)
	fmt.Fprintf(out, "Started:  %s\n", r.Started.Format(time.RFC3339))
	fmt.Fprintf(out, "Duration: %s\n", r.Duration().Round(time.Millisecond))
	fmt.Fprintf(out, "Path:     %s\n", r.Path)
	fmt.Fprintf(out, "Rows:     %d (%s .. %s)\n", r.Rows, dateOrDash(r.FirstDate), dateOrDash(r.LastDate))
	if r.Error != "" {
		fmt.Fprintf(out, "Error:    %s\n", r.Error)
	}
}

func dateOrDash(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(market.DateLayout)
}
