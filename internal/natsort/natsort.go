// Package natsort orders strings the way people read them, so "2-10" sorts
// before "11-19".
//
//	natsort.Strings([]string{"11-19", "2-10", "20"}) // ["2-10", "11-19", "20"]
package natsort

import (
	"slices"
	"strings"

	"github.com/maruel/natural"
)

// Compare returns -1, 0 or +1 depending on whether a sorts before, equal to,
// or after b in natural order. Strings that compare equal naturally but
// differ in bytes (leading zeros) fall back to byte order.
func Compare(a, b string) int {
	switch {
	case natural.Less(a, b):
		return -1
	case natural.Less(b, a):
		return 1
	}
	return strings.Compare(a, b)
}

// Strings sorts ss in place in natural order.
func Strings(ss []string) {
	slices.SortFunc(ss, Compare)
}
