package report

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ErrInvalidEncoding marks a row that cannot be written as UTF-8.
var ErrInvalidEncoding = errors.New("row is not valid UTF-8")

// WriteResult counts what happened to the rows handed to the writer.
type WriteResult struct {
	Written int
	Skipped int
}

// WriteCSVFile writes the report to path, replacing any existing file.
func WriteCSVFile(path string, rows []Row) (WriteResult, error) {
	f, err := os.Create(path)
	if err != nil {
		return WriteResult{}, fmt.Errorf("failed to create report file: %w", err)
	}

	res, err := WriteCSV(f, rows)
	if closeErr := f.Close(); err == nil && closeErr != nil {
		err = fmt.Errorf("failed to close report file: %w", closeErr)
	}
	return res, err
}

// WriteCSV writes rows in descending order after the header as UTF-8 with a
// byte order mark. The rows slice itself is left untouched. Rows that are not valid UTF-8 are logged
// and skipped.
func WriteCSV(w io.Writer, rows []Row) (WriteResult, error) {
	var res WriteResult

	out := transform.NewWriter(w, unicode.UTF8BOM.NewEncoder())

	header, err := encodeRecord(Header)
	if err != nil {
		return res, err
	}
	if _, err := out.Write(header); err != nil {
		return res, fmt.Errorf("failed to write header: %w", err)
	}

	sorted := slices.Clone(rows)
	SortDescending(sorted)
	for _, row := range sorted {
		values := row.Values()
		line, err := encodeRecord(values)
		if errors.Is(err, ErrInvalidEncoding) {
			slog.Warn("Skipping row", "err", err, "row", values)
			res.Skipped++
			continue
		}
		if err != nil {
			return res, err
		}
		if _, err := out.Write(line); err != nil {
			return res, fmt.Errorf("failed to write row: %w", err)
		}
		res.Written++
	}

	if err := out.Close(); err != nil {
		return res, fmt.Errorf("failed to flush report: %w", err)
	}
	return res, nil
}

// encodeRecord renders one CSV record and checks that it is valid UTF-8.
func encodeRecord(values []string) ([]byte, error) {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)
	cw.UseCRLF = true
	if err := cw.Write(values); err != nil {
		return nil, fmt.Errorf("failed to encode row: %w", err)
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return nil, fmt.Errorf("failed to encode row: %w", err)
	}

	if _, _, err := transform.Bytes(encoding.UTF8Validator, buf.Bytes()); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidEncoding, err)
	}
	return buf.Bytes(), nil
}
