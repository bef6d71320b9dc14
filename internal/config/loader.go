package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variables read by Load.
const EnvPrefix = "HTPUBSUM"

// DefaultFile is the config file looked up in the working directory when
// no path is given.
const DefaultFile = "htpubsum.yaml"

// LoadResult contains the loaded configuration and where it came from.
type LoadResult struct {
	Config     *Config
	SourcePath string // Path to config file used, or empty if using defaults
	Source     string // "file", "defaults", or "defaults+env"
}

// Load reads configuration from a YAML file, environment variables and
// defaults. An empty path means DefaultFile if it exists. An explicit path
// that does not exist is an error.
func Load(path string) (*LoadResult, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults must be set so that AutomaticEnv knows which keys to look up
	defaults := New()
	v.SetDefault("input", defaults.Input)
	v.SetDefault("output", defaults.Output)
	v.SetDefault("json_output", defaults.JSONOutput)
	v.SetDefault("run_report", defaults.RunReport)
	v.SetDefault("publisher", defaults.Publisher)
	v.SetDefault("progress", defaults.Progress)
	v.SetDefault("cache_dir", defaults.CacheDir)
	v.SetDefault("files_url", defaults.FilesURL)
	v.SetDefault("log.format", defaults.Log.Format)
	v.SetDefault("log.level", defaults.Log.Level)

	switch {
	case path != "":
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config file not found: %s: %w", path, err)
		}
		v.SetConfigFile(path)
	default:
		if _, err := os.Stat(DefaultFile); err == nil {
			v.SetConfigFile(DefaultFile)
		}
	}

	fileRead := false
	if v.ConfigFileUsed() != "" {
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		} else {
			fileRead = true
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	res := &LoadResult{Config: &cfg, Source: "defaults"}
	switch {
	case fileRead:
		res.Source = "file"
		res.SourcePath = v.ConfigFileUsed()
	case hasEnvVars():
		res.Source = "defaults+env"
	}
	return res, nil
}

// hasEnvVars checks if any HTPUBSUM_* environment variables are set.
func hasEnvVars() bool {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, EnvPrefix+"_") {
			return true
		}
	}
	return false
}
