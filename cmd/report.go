package cmd

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/lehigh-university-libraries/htpubsum/internal/report"
	"github.com/spf13/cobra"
)

func newReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report <run-report.yaml>",
		Short: "Print a saved run report",
		Long: `Prints a run report written by "htpubsum summarize --report".

Shows the settings the run used, how many records and series passed through
each stage and the largest series found.`,
		Example: `  htpubsum report runs/umich.yaml`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rr, err := report.LoadRunReport(args[0])
			if err != nil {
				return err
			}
			printRunReport(cmd.OutOrStdout(), rr)
			return nil
		},
	}

	return cmd
}

func printRunReport(w io.Writer, rr *report.RunReport) {
	fmt.Fprintln(w, "========================================")
	fmt.Fprintln(w, "HathiTrust Series Summary Run")
	fmt.Fprintln(w, "========================================")
	fmt.Fprintf(w, "Run:       %s\n", rr.Config.Timestamp)
	fmt.Fprintf(w, "Input:     %s\n", rr.Config.Input)
	fmt.Fprintf(w, "Publisher: %s\n", rr.Config.Publisher)
	fmt.Fprintf(w, "Output:    %s\n", rr.Config.Output)
	if rr.Config.JSONOutput != "" {
		fmt.Fprintf(w, "JSON:      %s\n", rr.Config.JSONOutput)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Counts:")
	fmt.Fprintf(w, "  Records loaded: %s\n", humanize.Comma(int64(rr.Counts.Records)))
	fmt.Fprintf(w, "  Series:         %s\n", humanize.Comma(int64(rr.Counts.Series)))
	fmt.Fprintf(w, "  Rows written:   %s\n", humanize.Comma(int64(rr.Counts.RowsWritten)))
	if rr.Counts.RowsSkipped > 0 {
		fmt.Fprintf(w, "  Rows skipped:   %s\n", humanize.Comma(int64(rr.Counts.RowsSkipped)))
	}

	if len(rr.Largest) == 0 {
		return
	}
	fmt.Fprintln(w, "\nLargest series:")
	for i, s := range rr.Largest {
		fmt.Fprintf(w, "  [%d] %s items  %s  %s\n", i+1, humanize.Comma(int64(s.Items)), s.Key, s.Title)
	}
}
