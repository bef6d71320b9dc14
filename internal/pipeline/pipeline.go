// Package pipeline runs the summarizer end to end: load, group, summarize
// and write.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/cheggaaa/pb/v3"
	"github.com/dustin/go-humanize"
	"github.com/lehigh-university-libraries/htpubsum/internal/config"
	"github.com/lehigh-university-libraries/htpubsum/internal/hathitrust"
	"github.com/lehigh-university-libraries/htpubsum/internal/report"
	"github.com/lehigh-university-libraries/htpubsum/internal/series"
)

// largestInRunReport is how many of the biggest series the run report lists.
const largestInRunReport = 10

// Stats summarizes a completed run.
type Stats struct {
	Records     int
	Series      int
	RowsWritten int
	RowsSkipped int
}

// Run executes every stage with the given configuration. Progress messages
// go to out. The context is checked between stages.
func Run(ctx context.Context, cfg *config.Config, out io.Writer) (*Stats, error) {
	slog.Debug("Starting summarizer",
		"input", cfg.Input,
		"output", cfg.Output,
		"publisher", cfg.Publisher)

	stats := &Stats{}

	fmt.Fprintf(out, "\nLoading data from %s. Might take a few minutes...\n", cfg.Input)
	records, err := hathitrust.NewLoader(cfg.Input, cfg.Publisher).Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load records: %w", err)
	}
	stats.Records = len(records)
	fmt.Fprintf(out, "Loaded %s records\n", humanize.Comma(int64(len(records))))

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fmt.Fprintln(out, "Grouping publications by oclc identifier...")
	groups := series.Group(records)
	stats.Series = groups.Len()
	slog.Debug("Grouped records", "series", groups.Len())

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fmt.Fprintln(out, "Creating summaries...")
	var progressOut io.Writer
	if cfg.Progress {
		progressOut = os.Stderr
	}
	sums := summarize(groups, progressOut)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fmt.Fprintln(out, "Writing to file...")
	rows := report.NewRows(sums)
	report.SortDescending(rows)
	res, err := report.WriteCSVFile(cfg.Output, rows)
	if err != nil {
		return nil, fmt.Errorf("failed to write report: %w", err)
	}
	stats.RowsWritten = res.Written
	stats.RowsSkipped = res.Skipped
	if res.Skipped > 0 {
		fmt.Fprintf(out, "Skipped %d rows that could not be encoded\n", res.Skipped)
	}

	if cfg.JSONOutput != "" {
		if err := report.WriteJSONFile(cfg.JSONOutput, sums); err != nil {
			return nil, fmt.Errorf("failed to write JSON summaries: %w", err)
		}
		slog.Debug("Wrote JSON summaries", "path", cfg.JSONOutput)
	}

	if cfg.RunReport != "" {
		rr := report.NewRunReport(cfg.Input, cfg.Publisher, cfg.Output, cfg.JSONOutput)
		rr.Counts = report.RunCounts{
			Records:     stats.Records,
			Series:      stats.Series,
			RowsWritten: stats.RowsWritten,
			RowsSkipped: stats.RowsSkipped,
		}
		rr.AddLargest(rows, largestInRunReport)
		if err := rr.SaveToYAML(cfg.RunReport); err != nil {
			fmt.Fprintf(out, "Warning: Failed to save run report: %v\n", err)
		}
	}

	fmt.Fprintf(out, "Done! %s series written to %s\n", humanize.Comma(int64(stats.RowsWritten)), cfg.Output)
	return stats, nil
}

// summarize builds every summary, drawing a progress bar on progressOut
// when it is not nil.
func summarize(groups *series.Groups, progressOut io.Writer) []series.Summary {
	sums := make([]series.Summary, 0, groups.Len())

	if progressOut == nil {
		for _, s := range groups.Series {
			sums = append(sums, series.Summarize(s))
		}
		return sums
	}

	bar := pb.Full.New(groups.Len()).
		SetWriter(progressOut).
		Set("prefix", "Summarizing ").
		Set(pb.CleanOnFinish, true).
		Start()
	defer bar.Finish()
	for _, s := range groups.Series {
		sums = append(sums, series.Summarize(s))
		bar.Increment()
	}
	return sums
}
