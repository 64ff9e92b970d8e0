package parse

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseMoney(t *testing.T) {
	tests := []struct {
		name     string
		raw      any
		expected float64
	}{
		{"float passthrough", 1234.5, 1234.5},
		{"int passthrough", 42, 42},
		{"negative number", -7.25, -7.25},
		{"json number", json.Number("99.5"), 99.5},
		{"nil", nil, 0},
		{"empty string", "", 0},
		{"bool", true, 0},
		{"currency symbol", "$1,200.50", 1200.5},
		{"trailing text", "1500 USD", 1500},
		{"negative text", "-300", -300},
		{"second dot ends prefix", "12.3.4", 12.3},
		{"dash inside ends prefix", "10-20", 10},
		{"leading dot", ".5", 0.5},
		{"letters only", "N/A", 0},
		{"double dash", "--5", 0},
		{"lone dash", "-", 0},
		{"exponent is stripped", "1e3", 13},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseMoney(tt.raw))
		})
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		name     string
		raw      any
		expected float64
	}{
		{"plain", "3", 3},
		{"fraction", "2.5", 2.5},
		{"units suffix", "4 days", 4},
		{"leading spaces", "  6", 6},
		{"currency prefix is not stripped", "$3", 0},
		{"exponent", "1e2", 100},
		{"number passthrough", 1.5, 1.5},
		{"nil", nil, 0},
		{"garbage", "abc", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseNumber(tt.raw))
		})
	}
}

func TestParseSheetDate(t *testing.T) {
	jan2024 := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	sep2023 := time.Date(2023, time.September, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		label    string
		expected time.Time
		ok       bool
	}{
		{"Jan 2024", jan2024, true},
		{"January 2024", jan2024, true},
		{"Jan-2024", jan2024, true},
		{"January-2024", jan2024, true},
		{"Jan 24", jan2024, true},
		{"January 24", jan2024, true},
		{"2024-01", jan2024, true},
		{"1-2024", jan2024, true},
		{"  Sep 2023  ", sep2023, true},
		{"9-2023", sep2023, true},
		{"Summary", time.Time{}, false},
		{"Notes 2024", time.Time{}, false},
		{"", time.Time{}, false},
		{"2024/01", time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			got, ok := ParseSheetDate(tt.label)
			assert.Equal(t, tt.ok, ok)
			assert.True(t, tt.expected.Equal(got), "expected %v, got %v", tt.expected, got)
		})
	}
}
