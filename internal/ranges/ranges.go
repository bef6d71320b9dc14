// Package ranges renders integer sets and string lists for people:
// consecutive numbers collapse into "a-b" spans and lists are joined with "and".
package ranges

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize/english"
	"github.com/lehigh-university-libraries/htpubsum/internal/natsort"
)

// Collapse partitions sorted, distinct integers into maximal runs of
// consecutive values. Runs of two or more become "first-last", single values
// stay bare. The result is in natural order, so "2-10" precedes "11-19".
func Collapse(sorted []int) []string {
	var spans []string
	for i := 0; i < len(sorted); {
		j := i
		for j+1 < len(sorted) && sorted[j+1]-sorted[j] == 1 {
			j++
		}
		if j > i {
			spans = append(spans, fmt.Sprintf("%d-%d", sorted[i], sorted[j]))
		} else {
			spans = append(spans, strconv.Itoa(sorted[i]))
		}
		i = j + 1
	}

	natsort.Strings(spans)
	return spans
}

// Expand reverses Collapse, returning every integer covered by the spans.
func Expand(spans []string) ([]int, error) {
	var res []int
	for _, span := range spans {
		lo, hi, isRange := strings.Cut(span, "-")
		first, err := strconv.Atoi(lo)
		if err != nil {
			return nil, fmt.Errorf("invalid span %q: %w", span, err)
		}
		last := first
		if isRange {
			if last, err = strconv.Atoi(hi); err != nil {
				return nil, fmt.Errorf("invalid span %q: %w", span, err)
			}
		}
		for v := first; v <= last; v++ {
			res = append(res, v)
		}
	}
	return res, nil
}

// Humanize joins items the way a sentence would: "A", "A and B",
// "A, B, and C". An empty list gives an empty string.
func Humanize(items []string) string {
	return english.OxfordWordSeries(items, "and")
}

// Summarize collapses sorted integers and humanizes the spans,
// e.g. [1 2 3 7] becomes "1-3 and 7".
func Summarize(sorted []int) string {
	return Humanize(Collapse(sorted))
}
