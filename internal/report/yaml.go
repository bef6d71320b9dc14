package report

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// RunConfig records the settings a run was made with.
type RunConfig struct {
	Input      string `yaml:"input"`
	Publisher  string `yaml:"publisher"`
	Output     string `yaml:"output"`
	JSONOutput string `yaml:"jsonoutput,omitempty"`
	Timestamp  string `yaml:"timestamp"`
}

// RunCounts records how many records and series passed through each stage.
type RunCounts struct {
	Records     int `yaml:"records"`
	Series      int `yaml:"series"`
	RowsWritten int `yaml:"rowswritten"`
	RowsSkipped int `yaml:"rowsskipped"`
}

// LargestSeries lists a few of the biggest series for a quick look.
type LargestSeries struct {
	Key   string `yaml:"key"`
	Title string `yaml:"title"`
	Items int    `yaml:"items"`
}

// RunReport is the complete run report.
type RunReport struct {
	Config  RunConfig       `yaml:"config"`
	Counts  RunCounts       `yaml:"counts"`
	Largest []LargestSeries `yaml:"largest,omitempty"`
}

// NewRunReport starts a report stamped with the current time.
func NewRunReport(input, publisher, output, jsonOutput string) *RunReport {
	return &RunReport{
		Config: RunConfig{
			Input:      input,
			Publisher:  publisher,
			Output:     output,
			JSONOutput: jsonOutput,
			Timestamp:  time.Now().Format("2006-01-02_15-04-05"),
		},
	}
}

// AddLargest records up to n rows from rows, which must already be sorted.
func (r *RunReport) AddLargest(rows []Row, n int) {
	for i, row := range rows {
		if i == n {
			break
		}
		r.Largest = append(r.Largest, LargestSeries{Key: row.Key, Title: row.Title, Items: row.Items})
	}
}

// SaveToYAML writes the run report to path, creating parent directories.
func (r *RunReport) SaveToYAML(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create report directory: %w", err)
		}
	}

	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write YAML file: %w", err)
	}

	return nil
}

// LoadRunReport reads a run report written by SaveToYAML.
func LoadRunReport(path string) (*RunReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read run report: %w", err)
	}

	var r RunReport
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to parse run report: %w", err)
	}
	return &r, nil
}
