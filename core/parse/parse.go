// Package parse normalizes raw spreadsheet cell values.
package parse

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// sheetLayouts are tried in order against a trimmed sheet name.
var sheetLayouts = []string{
	"Jan 2006",
	"January 2006",
	"Jan-2006",
	"January-2006",
	"Jan 06",
	"January 06",
	"2006-01",
	"1-2006",
}

// ParseMoney converts a raw cell into an amount. Numbers pass through; text is
// stripped of everything except digits, '.' and '-' and parsed as the longest
// valid float prefix. Anything unparseable yields 0.
func ParseMoney(raw any) float64 {
	if v, ok := numeric(raw); ok {
		return v
	}
	s, ok := raw.(string)
	if !ok || s == "" {
		return 0
	}
	cleaned := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			return r
		}
		return -1
	}, s)
	return floatPrefix(cleaned)
}

// ParseNumber converts a raw cell into a number without stripping currency
// decorations first. "3 days" parses as 3, "$3" as 0.
func ParseNumber(raw any) float64 {
	if v, ok := numeric(raw); ok {
		return v
	}
	s, ok := raw.(string)
	if !ok {
		return 0
	}
	return floatPrefix(strings.TrimLeftFunc(s, unicode.IsSpace))
}

// ParseSheetDate resolves a sheet name to the first day of its month.
func ParseSheetDate(label string) (time.Time, bool) {
	trimmed := strings.TrimSpace(label)
	if trimmed == "" {
		return time.Time{}, false
	}
	for _, layout := range sheetLayouts {
		t, err := time.Parse(layout, trimmed)
		if err == nil {
			return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

// numeric reports the value of raw when it is already a number.
func numeric(raw any) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, true
		}
		return f, true
	}
	return 0, false
}

// floatPrefix parses the longest prefix of s that forms a decimal number:
// an optional sign, digits with at most one '.', and an optional exponent.
func floatPrefix(s string) float64 {
	i := 0
	if i < len(s) && (s[i] == '-' || s[i] == '+') {
		i++
	}
	digits := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
			digits++
		}
	}
	if digits == 0 {
		return 0
	}
	end := i
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '-' || s[j] == '+') {
			j++
		}
		expDigits := 0
		for j < len(s) && s[j] >= '0' && s[j] <= '9' {
			j++
			expDigits++
		}
		if expDigits > 0 {
			end = j
		}
	}
	// Out of range values come back as ±Inf alongside the error.
	v, _ := strconv.ParseFloat(s[:end], 64)
	return v
}
