package series

import (
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/lehigh-university-libraries/htpubsum/internal/ranges"
)

var (
	// v.12, pt.3, no.4 1987
	volumeRe = regexp.MustCompile(`^(?:v|pt|no)\.(\d\d?\d?)[ \d]{0,5}$`)
	// 1987, 1987-88, 1987/1990
	yearRe = regexp.MustCompile(`^(\d{4})[-/]?(\d{2,4})?$`)
)

// ParseVolume extracts the volume number from designations like "v.12".
func ParseVolume(enum string) (int, bool) {
	m := volumeRe.FindStringSubmatch(strings.TrimSpace(enum))
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// ParseYears extracts the years from chronologies like "1987" or "1987-88".
// A two digit end year takes the century of the start year.
func ParseYears(enum string) ([]int, bool) {
	m := yearRe.FindStringSubmatch(strings.TrimSpace(enum))
	if m == nil {
		return nil, false
	}

	start, err := strconv.Atoi(m[1])
	if err != nil {
		return nil, false
	}
	if m[2] == "" {
		return []int{start}, true
	}

	endStr := m[2]
	if len(endStr) == 2 {
		endStr = m[1][:2] + endStr
	}
	end, err := strconv.Atoi(endStr)
	if err != nil {
		return nil, false
	}
	return []int{start, end}, true
}

// EnumerationSummary describes which parts of a series are held.
type EnumerationSummary struct {
	// Present holds the volume numbers, or years when no volume numbers were found.
	Present []int
	// Missing holds the values between the lowest and highest present value
	// that are not present. The highest value is never reported.
	Missing []int
}

// SummarizeEnumerations parses every enumeration both as a volume number and
// as a chronology. Volume numbers win whenever any were found.
func SummarizeEnumerations(enums []string) EnumerationSummary {
	numbers := make(map[int]struct{})
	years := make(map[int]struct{})

	for _, enum := range enums {
		if n, ok := ParseVolume(enum); ok {
			numbers[n] = struct{}{}
		}
		if yy, ok := ParseYears(enum); ok {
			for _, y := range yy {
				years[y] = struct{}{}
			}
		}
	}

	results := numbers
	if len(numbers) == 0 {
		results = years
	}
	if len(results) == 0 {
		return EnumerationSummary{}
	}

	present := sortedKeys(results)
	var missing []int
	for i := present[0]; i < present[len(present)-1]; i++ {
		if _, ok := results[i]; !ok {
			missing = append(missing, i)
		}
	}

	return EnumerationSummary{Present: present, Missing: missing}
}

// PresentString renders the held values, e.g. "1-3 and 7".
func (e EnumerationSummary) PresentString() string {
	return ranges.Summarize(e.Present)
}

// MissingString renders the gaps, e.g. "4-6".
func (e EnumerationSummary) MissingString() string {
	return ranges.Summarize(e.Missing)
}

func sortedKeys(set map[int]struct{}) []int {
	return slices.Sorted(maps.Keys(set))
}
