package cmd

import (
	"fmt"
	"os"

	"github.com/lehigh-university-libraries/htpubsum/internal/config"
	"github.com/lehigh-university-libraries/htpubsum/internal/logging"
	"github.com/lehigh-university-libraries/htpubsum/internal/pipeline"
	"github.com/spf13/cobra"
)

func newSummarizeCmd() *cobra.Command {
	var configPath string
	var output string
	var jsonOutput string
	var runReport string
	var publisher string
	var progress bool
	var verbose bool

	cmd := &cobra.Command{
		Use:   "summarize [input]",
		Short: "Write the series summary report",
		Long: `Reads HathiTrust records and writes one CSV row per series.

The input format is picked by extension:
  .json     JSON array of records keyed by hathifile column names (not filtered)
  .gz       gzipped tab-delimited hathifile dump (filtered by --publisher)
  .parquet  Parquet export of the hathifile columns (filtered by --publisher)

The report is UTF-8 with a byte order mark, sorted with the largest series first.`,
		Example: `  # Summarize a pre-filtered JSON export
  htpubsum summarize ht_data.json

  # Summarize a full monthly hathifile
  htpubsum summarize hathi_full_20240101.txt.gz --output umich.csv --progress

  # Another publisher, with JSON output and a run report
  htpubsum summarize hathi_full_20240101.txt.gz --publisher "Wayne State" \
    --json-output wayne.json --report runs/wayne.yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			cfg := res.Config

			if len(args) == 1 {
				cfg.Input = args[0]
			}
			flags := cmd.Flags()
			if flags.Changed("output") {
				cfg.Output = output
			}
			if flags.Changed("json-output") {
				cfg.JSONOutput = jsonOutput
			}
			if flags.Changed("report") {
				cfg.RunReport = runReport
			}
			if flags.Changed("publisher") {
				cfg.Publisher = publisher
			}
			if flags.Changed("progress") {
				cfg.Progress = progress
			}
			if verbose {
				cfg.Log.Level = "debug"
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			logger := logging.Init(os.Stderr, cfg.Log.Level, cfg.Log.Format)
			logger.Debug("Configuration loaded", "source", res.Source, "path", res.SourcePath)

			_, err = pipeline.Run(cmd.Context(), cfg, cmd.OutOrStdout())
			return err
		},
	}

	defaults := config.New()
	cmd.Flags().StringVar(&configPath, "config", "", "Config file (default: ./"+config.DefaultFile+" if present)")
	cmd.Flags().StringVarP(&output, "output", "o", defaults.Output, "Path to output CSV report")
	cmd.Flags().StringVar(&jsonOutput, "json-output", "", "Also write the summaries as JSON to this path")
	cmd.Flags().StringVar(&runReport, "report", "", "Write a YAML run report to this path")
	cmd.Flags().StringVar(&publisher, "publisher", defaults.Publisher, "Imprint text that selects records from a hathifile")
	cmd.Flags().BoolVar(&progress, "progress", false, "Show a progress bar while summarizing")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "Verbose logging")

	return cmd
}
