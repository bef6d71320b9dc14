package hathitrust

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/klauspost/compress/gzip"
	"github.com/parquet-go/parquet-go"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ErrUnsupportedFormat is returned for input files that are not .json, .gz or .parquet.
var ErrUnsupportedFormat = errors.New("unsupported input format")

// DefaultPublisher is the imprint substring used to pick records out of a full hathifile.
const DefaultPublisher = "University of Michigan"

// Loader reads HathiTrust records from a JSON export, a gzipped hathifile
// dump or a Parquet file.
type Loader struct {
	path      string
	publisher string
}

// NewLoader creates a loader for path. Records from hathifile dumps are
// kept only when their imprint contains publisher.
func NewLoader(path, publisher string) *Loader {
	return &Loader{
		path:      path,
		publisher: publisher,
	}
}

// Load reads every record from the input file, dispatching on its extension.
// JSON input is expected to be filtered already.
func (l *Loader) Load() ([]Record, error) {
	ext := strings.ToLower(filepath.Ext(l.path))

	switch ext {
	case ".json":
		return l.loadJSON()
	case ".gz":
		return l.loadHathifile()
	case ".parquet":
		return l.loadParquet()
	default:
		return nil, fmt.Errorf("%w: %q (supported: .json, .gz, .parquet)", ErrUnsupportedFormat, ext)
	}
}

// loadJSON loads a JSON array of records
func (l *Loader) loadJSON() ([]Record, error) {
	slog.Debug("Opening JSON file", "path", l.path)

	file, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer file.Close()

	var raw []Record
	decoder := json.NewDecoder(transform.NewReader(file, unicode.UTF8BOM.NewDecoder()))
	if err := decoder.Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}

	records := make([]Record, 0, len(raw))
	for _, r := range raw {
		records = append(records, r.Project())
	}

	slog.Debug("Finished reading JSON file", "total_records", len(records))

	return records, nil
}

// loadHathifile loads a gzipped, tab-delimited hathifile. Fields are never
// quoted, so lines are split on tabs directly.
func (l *Loader) loadHathifile() ([]Record, error) {
	slog.Debug("Opening hathifile", "path", l.path, "publisher", l.publisher)

	file, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer file.Close()

	gz, err := gzip.NewReader(file)
	if err != nil {
		return nil, fmt.Errorf("failed to open gzip stream: %w", err)
	}
	defer gz.Close()

	reader := bufio.NewReaderSize(transform.NewReader(gz, unicode.UTF8BOM.NewDecoder()), 64*1024)

	var records []Record
	lineNum := 0
	for {
		// Lines have no length limit
		raw, err := reader.ReadString('\n')
		if raw != "" {
			lineNum++
			if lineNum%1_000_000 == 0 {
				slog.Debug("Reading hathifile", "lines_read", humanize.Comma(int64(lineNum)), "kept", len(records))
			}

			line := strings.TrimRight(raw, "\r\n")
			if line != "" {
				record := RecordFromFields(strings.Split(line, "\t"))
				if record.PublishedBy(l.publisher) {
					records = append(records, record.Project())
				}
			}
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading hathifile at line %d: %w", lineNum+1, err)
		}
	}

	slog.Debug("Finished reading hathifile", "total_lines", lineNum, "kept", len(records))

	return records, nil
}

// loadParquet loads a Parquet export of the hathifile columns, applying the
// same publisher filter as the gzip dump.
func (l *Loader) loadParquet() ([]Record, error) {
	slog.Debug("Opening Parquet file", "path", l.path, "publisher", l.publisher)

	file, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	pf, err := parquet.OpenFile(file, info.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet: %w", err)
	}

	slog.Debug("Parquet file opened", "num_rows", pf.NumRows(), "num_row_groups", len(pf.RowGroups()))

	reader := parquet.NewGenericReader[Record](pf)
	defer reader.Close()

	var records []Record
	rows := make([]Record, 128)
	totalRead := 0

	for {
		n, err := reader.Read(rows)
		totalRead += n
		for _, r := range rows[:n] {
			if r.PublishedBy(l.publisher) {
				records = append(records, r.Project())
			}
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read parquet rows: %w", err)
		}
	}

	slog.Debug("Finished reading Parquet file", "total_rows", totalRead, "kept", len(records))

	return records, nil
}
