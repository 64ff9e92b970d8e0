package core

import (
	"slices"
	"strings"

	"github.com/huangsam/paysheet/internal/contract"
	"github.com/huangsam/paysheet/schema"
)

// RecordFilter selects records for the explorer views. Zero fields match everything.
type RecordFilter struct {
	Months       []string // month labels
	Department   string
	Status       schema.Status
	IDs          []string
	Category     schema.Category
	HasBonus     bool
	Search       string // case-insensitive substring of name or id
	SortByLeaves bool
}

// NewRecordFilter builds the filter described by cfg over the resolved months.
func NewRecordFilter(cfg *contract.Config, months []string) RecordFilter {
	return RecordFilter{
		Months:       months,
		Department:   cfg.Department,
		Status:       cfg.Status,
		IDs:          cfg.IDs,
		Category:     cfg.Category,
		HasBonus:     cfg.HasBonus,
		Search:       cfg.Search,
		SortByLeaves: cfg.SortBy == contract.SortByLeaves,
	}
}

// Apply returns the matching views in input order, or by leave taken descending when requested.
func (f RecordFilter) Apply(views []schema.RecordView) []schema.RecordView {
	search := strings.ToLower(f.Search)
	out := make([]schema.RecordView, 0, len(views))
	for _, v := range views {
		if f.matches(v, search) {
			out = append(out, v)
		}
	}
	if f.SortByLeaves {
		slices.SortStableFunc(out, func(a, b schema.RecordView) int {
			switch {
			case a.LeaveTaken > b.LeaveTaken:
				return -1
			case a.LeaveTaken < b.LeaveTaken:
				return 1
			default:
				return 0
			}
		})
	}
	return out
}

func (f RecordFilter) matches(v schema.RecordView, search string) bool {
	if len(f.Months) > 0 && !slices.Contains(f.Months, v.MonthStr) {
		return false
	}
	if f.Department != "" && v.Department != f.Department {
		return false
	}
	if f.Status != "" && v.Status != f.Status {
		return false
	}
	if len(f.IDs) > 0 && !slices.Contains(f.IDs, v.EmployeeID) {
		return false
	}
	if !matchesCategory(v, f.Category) {
		return false
	}
	if f.HasBonus && v.Bonus == 0 {
		return false
	}
	if search != "" &&
		!strings.Contains(strings.ToLower(v.Name), search) &&
		!strings.Contains(strings.ToLower(v.EmployeeID), search) {
		return false
	}
	return true
}

func matchesCategory(v schema.RecordView, c schema.Category) bool {
	switch c {
	case schema.JoinersCategory:
		return v.IsJoiner
	case schema.ExitsCategory:
		return v.IsExiter
	case schema.GrowthCategory:
		return v.HasIncrement
	case schema.HighRiskCategory:
		return v.LeaveSeverity == schema.HighSeverity
	default:
		return true
	}
}
