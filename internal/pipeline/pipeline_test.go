package pipeline

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/lehigh-university-libraries/htpubsum/internal/config"
	"github.com/lehigh-university-libraries/htpubsum/internal/hathitrust"
	"github.com/lehigh-university-libraries/htpubsum/internal/report"
	"github.com/lehigh-university-libraries/htpubsum/internal/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// line builds a hathifile line from the few columns the tests care about.
func line(id, rights, enum, localID, oclc, title, imprint, date string) string {
	fields := make([]string, len(hathitrust.Columns))
	fields[0] = id
	fields[2] = rights
	fields[4] = enum
	fields[6] = localID
	fields[7] = oclc
	fields[11] = title
	fields[12] = imprint
	fields[16] = date
	return strings.Join(fields, "\t")
}

func writeHathifile(t *testing.T, path string, lines ...string) {
	t.Helper()

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	_, err := gz.Write([]byte(strings.Join(lines, "\n") + "\n"))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	return records
}

func testConfig(dir, input string) *config.Config {
	cfg := config.New()
	cfg.Input = input
	cfg.Output = filepath.Join(dir, "summary.csv")
	return cfg
}

func TestRunHathifile(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "hathi_full.txt.gz")
	um := "Ann Arbor : University of Michigan, 1901-"
	writeHathifile(t, input,
		line("mdp.39015001", "pd", "v.1", "001", "42", "Michigan alumnus.", um, "1901"),
		line("mdp.39015003", "pd", "v.3", "001", "42", "Michigan alumnus.", um, "1903"),
		line("mdp.39015004", "ic", "v.3", "001", "42", "Michigan alumnus.", um, "1903"),
		line("uc1.b0001", "pd", "v.2", "777", "", "Bulletin.", um, "9999"),
		line("uc1.b0002", "pd", "v.3", "777", "", "Bulletin.", um, "9999"),
		line("wu.8900001", "pd", "", "555", "99", "Not ours.", "Madison : University of Wisconsin", "1950"),
	)

	cfg := testConfig(dir, input)
	cfg.JSONOutput = filepath.Join(dir, "summary.json")
	cfg.RunReport = filepath.Join(dir, "run.yaml")

	var out bytes.Buffer
	stats, err := Run(context.Background(), cfg, &out)
	require.NoError(t, err)

	assert.Equal(t, &Stats{Records: 5, Series: 2, RowsWritten: 2}, stats)
	assert.Contains(t, out.String(), "Loading data from")
	assert.Contains(t, out.String(), "Grouping publications")
	assert.Contains(t, out.String(), "Creating summaries...")
	assert.Contains(t, out.String(), "Writing to file...")
	assert.Contains(t, out.String(), "Done!")

	records := readCSV(t, cfg.Output)
	require.Len(t, records, 3)
	assert.Equal(t, report.Header, records[0])
	assert.Equal(t, []string{
		"3", "42", "001", "mdp", "Michigan alumnus.", um,
		"ic and pd", "1901-1903", "1 and 3", "2", "1901", "1903",
	}, records[1])
	assert.Equal(t, []string{
		"2", "local (non-oclc): 777", "777", "uc1", "Bulletin.", um,
		"pd", "", "2-3", "", "", "",
	}, records[2])

	assert.FileExists(t, cfg.JSONOutput)

	rr, err := report.LoadRunReport(cfg.RunReport)
	require.NoError(t, err)
	assert.Equal(t, 5, rr.Counts.Records)
	require.Len(t, rr.Largest, 2)
	assert.Equal(t, "42", rr.Largest[0].Key)
}

func TestRunJSON(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "ht_data.json")
	data := `[
  {"ht identifier": "mdp.1", "oclc numbers": "42", "enumeration/chronology": "v.1", "title": "Series", "imprint": "Anywhere"},
  {"ht identifier": "mdp.2", "oclc numbers": "42", "enumeration/chronology": "v.3", "title": "Series", "imprint": "Anywhere"}
]`
	require.NoError(t, os.WriteFile(input, []byte(data), 0644))

	cfg := testConfig(dir, input)
	cfg.Progress = true

	stats, err := Run(context.Background(), cfg, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Series)

	records := readCSV(t, cfg.Output)
	require.Len(t, records, 2)
	assert.Equal(t, "2", records[1][0])
	assert.Equal(t, "1 and 3", records[1][8])
	assert.Equal(t, "2", records[1][9])
}

func TestRunUnsupportedFormat(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir, filepath.Join(dir, "ht_data.xml"))

	_, err := Run(context.Background(), cfg, &bytes.Buffer{})
	require.Error(t, err)
	assert.ErrorIs(t, err, hathitrust.ErrUnsupportedFormat)
	assert.NoFileExists(t, cfg.Output)
}

func TestRunCancelled(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "hathi_full.txt.gz")
	writeHathifile(t, input, line("mdp.1", "pd", "v.1", "1", "1", "T", "University of Michigan", "1900"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := testConfig(dir, input)
	_, err := Run(ctx, cfg, &bytes.Buffer{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.NoFileExists(t, cfg.Output)
}

func TestRunBadRunReportPathIsWarning(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "hathi_full.txt.gz")
	writeHathifile(t, input, line("mdp.1", "pd", "v.1", "1", "1", "T", "University of Michigan", "1900"))

	// A regular file where the report directory should be
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))

	cfg := testConfig(dir, input)
	cfg.RunReport = filepath.Join(blocker, "run.yaml")

	var out bytes.Buffer
	_, err := Run(context.Background(), cfg, &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Warning: Failed to save run report")
}

func TestSummarizeWithProgress(t *testing.T) {
	groups := series.Group([]hathitrust.Record{
		{OCLC: "1", EnumChron: "v.1"},
		{OCLC: "1", EnumChron: "v.2"},
		{OCLC: "2"},
	})

	plain := summarize(groups, nil)

	var bar bytes.Buffer
	withBar := summarize(groups, &bar)

	require.Len(t, plain, 2)
	assert.Equal(t, plain, withBar)
	assert.NotZero(t, bar.Len(), "bar is drawn to the given writer")
}

func TestRunLargestSeriesInRunReport(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "hathi_full.txt.gz")
	um := "University of Michigan"
	writeHathifile(t, input,
		line("mdp.1", "pd", "v.1", "1", "10", "Small", um, "1900"),
		line("mdp.2", "pd", "v.1", "2", "20", "Big", um, "1900"),
		line("mdp.3", "pd", "v.2", "2", "20", "Big", um, "1901"),
	)

	cfg := testConfig(dir, input)
	cfg.RunReport = filepath.Join(dir, "run.yaml")
	_, err := Run(context.Background(), cfg, &bytes.Buffer{})
	require.NoError(t, err)

	rr, err := report.LoadRunReport(cfg.RunReport)
	require.NoError(t, err)
	require.Len(t, rr.Largest, 2)
	assert.Equal(t, "20", rr.Largest[0].Key)
	assert.Equal(t, 2, rr.Largest[0].Items)
	assert.Equal(t, "10", rr.Largest[1].Key)
}
