package natsort

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompare(t *testing.T) {
	tests := []struct {
		a, b     string
		expected int
	}{
		{"2-10", "11-19", -1},
		{"11-19", "2-10", 1},
		{"7", "7", 0},
		{"v.2", "v.10", -1},
		{"v.10", "v.9", 1},
		{"abc", "abd", -1},
		{"1", "a", -1},
		{"a", "1", 1},
		{"1", "1-3", -1},
		{"", "a", -1},
		{"a", "", 1},
		{"007", "7", -1},
		{"7", "007", 1},
		{"123456789012345678901234567890", "123456789012345678901234567891", -1},
		{"1987-1988", "1990", -1},
		{"ic", "pd", -1},
	}

	for _, tt := range tests {
		t.Run(tt.a+"_vs_"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.expected, Compare(tt.a, tt.b))
			assert.Equal(t, -tt.expected, Compare(tt.b, tt.a), "order must be antisymmetric")
		})
	}
}

func TestStrings(t *testing.T) {
	ss := []string{"20", "11-19", "2-10", "1", "pt.3", "pt.12", "no.1"}
	Strings(ss)

	assert.Equal(t, []string{"1", "2-10", "11-19", "20", "no.1", "pt.3", "pt.12"}, ss)
}
