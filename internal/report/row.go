package report

import (
	"cmp"
	"slices"
	"strconv"
	"strings"

	"github.com/lehigh-university-libraries/htpubsum/internal/series"
)

// Header lists the report columns. Rows must stay aligned with it.
var Header = []string{
	"num_of_items",
	"oclc identifier",
	"source institution identifier",
	"source",
	"title",
	"imprint",
	"copyright statuses of publications in series",
	"publication date range",
	"enumerations",
	"missing enumerations",
	"earliest publication",
	"latest publication",
}

// Row is one line of the report.
type Row struct {
	Items               int
	Key                 string
	SourceInstitutionID string
	Source              string
	Title               string
	Imprint             string
	Copyrights          string
	DateRange           string
	Enumerations        string
	Missing             string

	// HasYears is false when no item had a known publication year
	HasYears bool
	Earliest int
	Latest   int
}

// NewRow builds a report row from a series summary.
func NewRow(s series.Summary) Row {
	return Row{
		Items:               s.Items,
		Key:                 s.Key,
		SourceInstitutionID: s.SourceInstitutionID,
		Source:              s.Source,
		Title:               s.Title,
		Imprint:             s.Imprint,
		Copyrights:          s.CopyrightSummary,
		DateRange:           s.DateRange,
		Enumerations:        s.EnumerationSummary,
		Missing:             s.MissingSummary,
		HasYears:            s.HasYears(),
		Earliest:            s.Earliest,
		Latest:              s.Latest,
	}
}

// NewRows converts summaries to rows.
func NewRows(sums []series.Summary) []Row {
	rows := make([]Row, 0, len(sums))
	for _, s := range sums {
		rows = append(rows, NewRow(s))
	}
	return rows
}

// Values returns the row's cells in Header order.
func (r Row) Values() []string {
	earliest, latest := "", ""
	if r.HasYears {
		earliest = strconv.Itoa(r.Earliest)
		latest = strconv.Itoa(r.Latest)
	}
	return []string{
		strconv.Itoa(r.Items),
		r.Key,
		r.SourceInstitutionID,
		r.Source,
		r.Title,
		r.Imprint,
		r.Copyrights,
		r.DateRange,
		r.Enumerations,
		r.Missing,
		earliest,
		latest,
	}
}

// Compare orders rows column by column: the item count numerically, text
// columns by code point, then the earliest and latest years. A missing year
// sorts after any known year.
func Compare(a, b Row) int {
	if c := cmp.Compare(a.Items, b.Items); c != 0 {
		return c
	}

	av, bv := a.Values(), b.Values()
	for i := 1; i < 10; i++ {
		if c := strings.Compare(av[i], bv[i]); c != 0 {
			return c
		}
	}

	if c := compareYear(a.HasYears, a.Earliest, b.HasYears, b.Earliest); c != 0 {
		return c
	}
	return compareYear(a.HasYears, a.Latest, b.HasYears, b.Latest)
}

func compareYear(aOK bool, a int, bOK bool, b int) int {
	switch {
	case aOK && bOK:
		return cmp.Compare(a, b)
	case aOK:
		return -1
	case bOK:
		return 1
	}
	return 0
}

// SortDescending orders rows from largest to smallest, so the series with
// the most items come first.
func SortDescending(rows []Row) {
	slices.SortStableFunc(rows, func(a, b Row) int {
		return Compare(b, a)
	})
}
