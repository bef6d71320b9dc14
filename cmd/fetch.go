package cmd

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/lehigh-university-libraries/htpubsum/internal/config"
	"github.com/lehigh-university-libraries/htpubsum/internal/hathitrust"
	"github.com/lehigh-university-libraries/htpubsum/internal/logging"
	"github.com/spf13/cobra"
)

func newFetchCmd() *cobra.Command {
	var configPath string
	var cacheDir string
	var filesURL string
	var force bool
	var list bool
	var progress bool

	cmd := &cobra.Command{
		Use:   "fetch [filename]",
		Short: "Download a hathifile from HathiTrust",
		Long: `Downloads a hathifile into the local cache and prints its path.

Without a filename the newest full hathifile is fetched. A cached copy is
reused unless --force is given.`,
		Example: `  # Download the newest full hathifile and summarize it
  htpubsum summarize "$(htpubsum fetch)"

  # See what is available
  htpubsum fetch --list`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			cfg := res.Config
			if cmd.Flags().Changed("cache-dir") {
				cfg.CacheDir = cacheDir
			}
			if cmd.Flags().Changed("files-url") {
				cfg.FilesURL = filesURL
			}
			if cmd.Flags().Changed("progress") {
				cfg.Progress = progress
			}

			logging.Init(os.Stderr, cfg.Log.Level, cfg.Log.Format)

			d := hathitrust.NewDownloader(hathitrust.DownloadConfig{
				CacheDir: cfg.CacheDir,
				BaseURL:  cfg.FilesURL,
				Force:    force,
				Progress: cfg.Progress,
			})

			out := cmd.OutOrStdout()
			if list {
				files, err := d.ListFiles(cmd.Context())
				if err != nil {
					return err
				}
				for _, f := range files {
					kind := "update"
					if f.Full {
						kind = "full"
					}
					fmt.Fprintf(out, "%-32s %-6s %10s\n", f.Filename, kind, humanize.Bytes(uint64(f.Size)))
				}
				return nil
			}

			var filename string
			if len(args) == 1 {
				filename = args[0]
			} else {
				files, err := d.ListFiles(cmd.Context())
				if err != nil {
					return err
				}
				latest, err := hathitrust.LatestFull(files)
				if err != nil {
					return err
				}
				filename = latest.Filename
			}

			path, err := d.Download(cmd.Context(), filename)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, path)
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Config file (default: ./"+config.DefaultFile+" if present)")
	cmd.Flags().StringVar(&cacheDir, "cache-dir", hathitrust.DefaultCacheDir, "Directory to store hathifiles in")
	cmd.Flags().StringVar(&filesURL, "files-url", hathitrust.DefaultFilesURL, "HathiTrust hathifiles directory")
	cmd.Flags().BoolVar(&force, "force", false, "Download even if the file is cached")
	cmd.Flags().BoolVar(&list, "list", false, "List available hathifiles instead of downloading")
	cmd.Flags().BoolVar(&progress, "progress", false, "Show a download progress bar")

	return cmd
}
