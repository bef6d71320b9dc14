// Package config holds the settings of a summarizer run.
//
// Precedence (highest to lowest): CLI flags > env vars > config file > defaults
//
// Environment variables use the HTPUBSUM_ prefix with underscores for nesting:
//
//	HTPUBSUM_INPUT=hathi_full_20240101.txt.gz
//	HTPUBSUM_PUBLISHER="University of Michigan"
//	HTPUBSUM_LOG_LEVEL=debug
package config

import (
	"errors"
	"fmt"
	"strings"
)

// Config represents the complete summarizer configuration.
type Config struct {
	// Input is the JSON export, gzipped hathifile or Parquet file to read.
	Input string `mapstructure:"input" yaml:"input"`

	// Output is the CSV report path.
	Output string `mapstructure:"output" yaml:"output"`

	// JSONOutput, when set, also writes the summaries as JSON.
	JSONOutput string `mapstructure:"json_output" yaml:"json_output"`

	// RunReport, when set, writes a YAML report of the run.
	RunReport string `mapstructure:"run_report" yaml:"run_report"`

	// Publisher is the imprint substring that selects records from a hathifile.
	Publisher string `mapstructure:"publisher" yaml:"publisher"`

	// Progress shows a progress bar while summarizing or downloading.
	Progress bool `mapstructure:"progress" yaml:"progress"`

	// CacheDir is where fetched hathifiles are stored.
	CacheDir string `mapstructure:"cache_dir" yaml:"cache_dir"`

	// FilesURL is the HathiTrust directory that lists the hathifiles.
	FilesURL string `mapstructure:"files_url" yaml:"files_url"`

	Log LogConfig `mapstructure:"log" yaml:"log"`
}

// LogConfig provides typical settings for application logs.
type LogConfig struct {
	// Format can be 'json' or 'text'
	Format string `mapstructure:"format" yaml:"format"`
	// Level of logging -- 'error', 'warn', 'info', 'debug'
	Level string `mapstructure:"level" yaml:"level"`
}

// New creates a Config with default values.
func New() *Config {
	return &Config{
		Input:     "ht_data.json",
		Output:    "summary.csv",
		Publisher: "University of Michigan",
		CacheDir:  "~/.cache/htpubsum",
		FilesURL:  "https://www.hathitrust.org/files/hathifiles/",
		Log: LogConfig{
			Format: "text",
			Level:  "info",
		},
	}
}

// Validate checks that the configuration can drive a run.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Input) == "" {
		errs = append(errs, errors.New("input path is empty"))
	}
	if strings.TrimSpace(c.Output) == "" {
		errs = append(errs, errors.New("output path is empty"))
	}
	if c.Publisher == "" {
		errs = append(errs, errors.New("publisher is empty"))
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("unknown log format %q", c.Log.Format))
	}
	return errors.Join(errs...)
}
