package core

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/huangsam/paysheet/schema"
)

// ErrUnknownMonth is returned when a selection names a month the workbook does not contain.
var ErrUnknownMonth = errors.New("unknown month")

// Period presets accepted by ResolvePeriod besides years and quarters.
const (
	LatestPeriod = "latest"
	AllPeriod    = "all"
)

// ResolvePeriod turns an explicit month list or a period preset into month labels
// in chronological order without duplicates. Explicit entries may be labels
// ("Jan 2024") or keys ("2024-01"). Presets are latest, all, a year ("2024") or a
// quarter ("Q1" to "Q4", across every year). When neither is given the latest month is
// selected. An empty month list resolves to an empty selection.
func ResolvePeriod(months []schema.MonthRef, explicit []string, preset string) ([]string, error) {
	if len(explicit) > 0 && preset != "" {
		return nil, fmt.Errorf("explicit months and a period preset cannot be combined")
	}
	if len(explicit) > 0 {
		return resolveExplicit(months, explicit)
	}

	preset = strings.ToLower(strings.TrimSpace(preset))
	var keep func(schema.MonthRef) bool
	switch {
	case preset == "" || preset == LatestPeriod:
		if len(months) == 0 {
			return []string{}, nil
		}
		return []string{months[len(months)-1].Label}, nil
	case preset == AllPeriod:
		keep = func(schema.MonthRef) bool { return true }
	case isYear(preset):
		year, _ := strconv.Atoi(preset)
		keep = func(m schema.MonthRef) bool { return m.Date.Year() == year }
	case isQuarter(preset):
		q := int(preset[1] - '0')
		keep = func(m schema.MonthRef) bool { return (int(m.Date.Month())-1)/3+1 == q }
	default:
		return nil, fmt.Errorf("invalid period '%s'. must be latest, all, a year like 2024 or a quarter Q1-Q4", preset)
	}

	selected := []string{}
	for _, m := range months {
		if keep(m) {
			selected = append(selected, m.Label)
		}
	}
	if len(selected) == 0 && preset != AllPeriod {
		return nil, fmt.Errorf("%w: no months match period %s", ErrUnknownMonth, preset)
	}
	return selected, nil
}

func resolveExplicit(months []schema.MonthRef, explicit []string) ([]string, error) {
	picked := make(map[string]struct{}, len(explicit))
	for _, raw := range explicit {
		want := strings.TrimSpace(raw)
		idx := slices.IndexFunc(months, func(m schema.MonthRef) bool {
			return m.Key == want || strings.EqualFold(m.Label, want)
		})
		if idx < 0 {
			return nil, fmt.Errorf("%w: %q", ErrUnknownMonth, raw)
		}
		picked[months[idx].Key] = struct{}{}
	}

	selected := make([]string, 0, len(picked))
	for _, m := range months {
		if _, ok := picked[m.Key]; ok {
			selected = append(selected, m.Label)
		}
	}
	return selected, nil
}

func isYear(s string) bool {
	if len(s) != 4 {
		return false
	}
	_, err := strconv.Atoi(s)
	return err == nil
}

func isQuarter(s string) bool {
	return len(s) == 2 && s[0] == 'q' && s[1] >= '1' && s[1] <= '4'
}

// Resolve selects months of this dataset, see ResolvePeriod.
func (d *Dataset) Resolve(explicit []string, preset string) ([]string, error) {
	return ResolvePeriod(d.months, explicit, preset)
}
