package series

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/lehigh-university-libraries/htpubsum/internal/hathitrust"
	"github.com/lehigh-university-libraries/htpubsum/internal/natsort"
	"github.com/lehigh-university-libraries/htpubsum/internal/ranges"
)

// Placeholders used when the representative record lacks a value.
const (
	NoTitle = "[no title]"
	None    = "[none]"
)

// Summary describes one series.
type Summary struct {
	Items int
	Key   string

	// Copied from the representative record, not aggregated
	SourceInstitutionID string
	Source              string
	Title               string
	Imprint             string

	// Distinct values across all items, sorted
	Copyrights   []string
	Enumerations []string
	Years        []int

	CopyrightSummary   string
	EnumerationSummary string
	MissingSummary     string

	// Earliest and Latest are only meaningful when Years is not empty
	Earliest       int
	Latest         int
	DateRange      string
	HumanizedYears string
}

// HasYears reports whether any item has a known publication year.
func (s Summary) HasYears() bool {
	return len(s.Years) > 0
}

// Summarize reduces a series to its summary.
func Summarize(s *Series) Summary {
	sum := Summary{
		Items: s.Items(),
		Key:   s.Key,
	}

	sum.setBaseMetadata(s.Representative())
	sum.collectItemMetadata(s)
	sum.summarizeYears()
	sum.CopyrightSummary = ranges.Humanize(sum.Copyrights)

	enums := SummarizeEnumerations(sum.Enumerations)
	sum.EnumerationSummary = enums.PresentString()
	sum.MissingSummary = enums.MissingString()

	return sum
}

func (sum *Summary) setBaseMetadata(r hathitrust.Record) {
	sum.Title = orDefault(r.Title, NoTitle)
	sum.Imprint = orDefault(r.Imprint, None)
	sum.Source = orDefault(r.SourcePrefix(), None)
	sum.SourceInstitutionID = orDefault(r.SourceRecordNumber, None)
}

func (sum *Summary) collectItemMetadata(s *Series) {
	years := make(map[int]struct{})
	copyrights := make(map[string]struct{})
	enums := make(map[string]struct{})

	for r := range s.Records {
		if year, ok := parseYear(r.PubDate); ok {
			years[year] = struct{}{}
		}
		if r.Rights != "" {
			copyrights[r.Rights] = struct{}{}
		}
		if r.EnumChron != "" {
			enums[r.EnumChron] = struct{}{}
		}
	}

	sum.Years = sortedKeys(years)
	sum.Copyrights = slices.SortedFunc(maps.Keys(copyrights), natsort.Compare)
	sum.Enumerations = slices.SortedFunc(maps.Keys(enums), natsort.Compare)
}

func (sum *Summary) summarizeYears() {
	if len(sum.Years) == 0 {
		return
	}

	sum.Earliest = sum.Years[0]
	sum.Latest = sum.Years[len(sum.Years)-1]
	sum.HumanizedYears = ranges.Summarize(sum.Years)
	if len(sum.Years) > 1 {
		sum.DateRange = fmt.Sprintf("%d-%d", sum.Earliest, sum.Latest)
	}
}

// parseYear reads a publication date, skipping blanks and the unknown-year marker.
func parseYear(raw string) (int, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == hathitrust.UnknownYear {
		return 0, false
	}
	year, err := strconv.Atoi(raw)
	if err != nil {
		slog.Debug("Skipping unparseable publication date", "value", raw)
		return 0, false
	}
	return year, true
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
