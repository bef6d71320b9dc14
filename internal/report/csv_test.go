package report

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const bom = "\xef\xbb\xbf"

func readReport(t *testing.T, data []byte) [][]string {
	t.Helper()

	require.True(t, bytes.HasPrefix(data, []byte(bom)), "report must start with a UTF-8 byte order mark")
	records, err := csv.NewReader(bytes.NewReader(data[len(bom):])).ReadAll()
	require.NoError(t, err)
	return records
}

func TestWriteCSV(t *testing.T) {
	rows := []Row{
		{Items: 1, Key: "local (non-oclc): 9", Title: "Bulletin, new series"},
		{Items: 2, Key: "42", Title: "Michigan alumnus.", Enumerations: "1 and 3", Missing: "2", HasYears: true, Earliest: 1901, Latest: 1903},
		{Items: 1, Key: "77", Title: "Årsberättelse"},
	}

	var buf bytes.Buffer
	res, err := WriteCSV(&buf, rows)
	require.NoError(t, err)
	assert.Equal(t, WriteResult{Written: 3}, res)

	records := readReport(t, buf.Bytes())
	require.Len(t, records, 4)
	assert.Equal(t, Header, records[0])

	assert.Equal(t, []string{"2", "42", "", "", "Michigan alumnus.", "", "", "", "1 and 3", "2", "1901", "1903"}, records[1])
	assert.Equal(t, "local (non-oclc): 9", records[2][1])
	assert.Equal(t, "Bulletin, new series", records[2][4])
	assert.Equal(t, "77", records[3][1])
	assert.Equal(t, "Årsberättelse", records[3][4])

	assert.Contains(t, buf.String(), "\r\n")
}

func TestWriteCSVLeavesInputOrder(t *testing.T) {
	rows := []Row{{Items: 1, Key: "small"}, {Items: 9, Key: "big"}}

	var buf bytes.Buffer
	_, err := WriteCSV(&buf, rows)
	require.NoError(t, err)

	assert.Equal(t, "small", rows[0].Key)
	assert.Equal(t, "big", rows[1].Key)
	assert.Equal(t, "big", readReport(t, buf.Bytes())[1][1])
}

func TestWriteCSVLeadingSpaceIsQuoted(t *testing.T) {
	rows := []Row{{Items: 1, Key: "k", Title: " Annual report"}}

	var buf bytes.Buffer
	_, err := WriteCSV(&buf, rows)
	require.NoError(t, err)

	assert.Contains(t, buf.String(), `," Annual report",`)
	assert.Equal(t, " Annual report", readReport(t, buf.Bytes())[1][4])
}

func TestWriteCSVSkipsInvalidUTF8(t *testing.T) {
	rows := []Row{
		{Items: 5, Key: "good"},
		{Items: 4, Key: "bad", Title: "broken \xff title"},
		{Items: 3, Key: "also good"},
	}

	var buf bytes.Buffer
	res, err := WriteCSV(&buf, rows)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Written)
	assert.Equal(t, 1, res.Skipped)

	records := readReport(t, buf.Bytes())
	require.Len(t, records, 3)
	assert.Equal(t, "good", records[1][1])
	assert.Equal(t, "also good", records[2][1])
	assert.NotContains(t, buf.String(), "broken")
}

func TestWriteCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	res, err := WriteCSV(&buf, nil)
	require.NoError(t, err)
	assert.Zero(t, res.Written)

	assert.Equal(t, bom+strings.Join(Header, ",")+"\r\n", buf.String())
}

func TestEncodeRecordInvalid(t *testing.T) {
	_, err := encodeRecord([]string{"ok", "\xc3\x28"})
	assert.ErrorIs(t, err, ErrInvalidEncoding)
}

func TestWriteCSVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary.csv")

	res, err := WriteCSVFile(path, []Row{{Items: 1, Key: "k"}})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Written)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, readReport(t, data), 2)
}

func TestWriteCSVFileBadPath(t *testing.T) {
	_, err := WriteCSVFile(filepath.Join(t.TempDir(), "missing", "summary.csv"), nil)
	assert.Error(t, err)
}
