package cmd

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "htpubsum",
		Short: "Summarize a publisher's serial runs in HathiTrust",
		Long: `htpubsum reads HathiTrust bibliographic records, keeps those from one publisher,
groups the items of each serial into a series and writes a CSV report with one row per
series: item counts, date ranges, volumes held and volumes missing.

Configuration precedence (highest to lowest):
  1. CLI flags
  2. Environment variables (HTPUBSUM_*, also read from .env)
  3. Config file (htpubsum.yaml)
  4. Built-in defaults`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
		},
	}

	cmd.AddCommand(newSummarizeCmd())
	cmd.AddCommand(newFetchCmd())
	cmd.AddCommand(newReportCmd())

	return cmd
}
