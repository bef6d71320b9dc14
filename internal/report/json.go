package report

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/lehigh-university-libraries/htpubsum/internal/series"
)

// SeriesJSON is the JSON form of a series summary.
type SeriesJSON struct {
	Items               int      `json:"num_of_items"`
	Key                 string   `json:"oclc identifier"`
	SourceInstitutionID string   `json:"source institution identifier"`
	Source              string   `json:"source"`
	Title               string   `json:"title"`
	Imprint             string   `json:"imprint"`
	Copyrights          []string `json:"copyrights"`
	Enumerations        []string `json:"enumeration values"`
	Years               []int    `json:"years"`
	CopyrightSummary    string   `json:"copyright statuses of publications in series"`
	DateRange           string   `json:"publication date range"`
	AllDates            string   `json:"all publication dates"`
	EnumerationSummary  string   `json:"enumerations"`
	MissingSummary      string   `json:"missing enumerations"`
	Earliest            *int     `json:"earliest publication,omitempty"`
	Latest              *int     `json:"latest publication,omitempty"`
}

// NewSeriesJSON converts a summary for JSON output.
func NewSeriesJSON(s series.Summary) SeriesJSON {
	res := SeriesJSON{
		Items:               s.Items,
		Key:                 s.Key,
		SourceInstitutionID: s.SourceInstitutionID,
		Source:              s.Source,
		Title:               s.Title,
		Imprint:             s.Imprint,
		Copyrights:          nonNil(s.Copyrights),
		Enumerations:        nonNil(s.Enumerations),
		Years:               nonNil(s.Years),
		CopyrightSummary:    s.CopyrightSummary,
		DateRange:           s.DateRange,
		AllDates:            s.HumanizedYears,
		EnumerationSummary:  s.EnumerationSummary,
		MissingSummary:      s.MissingSummary,
	}
	if s.HasYears() {
		earliest, latest := s.Earliest, s.Latest
		res.Earliest = &earliest
		res.Latest = &latest
	}
	return res
}

// WriteJSONFile writes the summaries to path as an indented JSON array.
// Non-ASCII text is written as is.
func WriteJSONFile(path string, sums []series.Summary) error {
	out := make([]SeriesJSON, 0, len(sums))
	for _, s := range sums {
		out = append(out, NewSeriesJSON(s))
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create JSON file: %w", err)
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	encoder.SetIndent("", "    ")
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(out); err != nil {
		return fmt.Errorf("failed to write JSON: %w", err)
	}
	return f.Close()
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
