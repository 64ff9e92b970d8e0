// Package agg computes period analytics over an enriched record stream.
package agg

import (
	"fmt"
	"slices"

	"github.com/huangsam/paysheet/schema"
	"github.com/shopspring/decimal"
)

// Fixed detector thresholds. Leave thresholds scale with the number of selected months.
const (
	StagnantMonths       = 12
	TopEarnerCount       = 5
	RiskLeavePerMonth    = 2
	OutlierLeavePerMonth = 5
)

var hundred = decimal.NewFromInt(100)

// period is the resolved view of one selection over the stream.
type period struct {
	selected []string
	latest   string
	current  []schema.EmployeeRecord            // records whose month is selected
	byMonth  map[string][]schema.EmployeeRecord // full stream keyed by month label
}

// Aggregate computes the analytics snapshot of the selected month labels.
// The last selected label is treated as the latest month of the period, and
// chronological is the ordered list of all month labels used for trend lookback.
// An empty selection yields an empty result.
func Aggregate(stream []schema.EmployeeRecord, selected []string, chronological []string) *schema.AggregationResult {
	p := newPeriod(stream, selected)

	depts := foldBy(p.current, byDepartment,
		func(r schema.EmployeeRecord) deptAcc { return deptAcc{name: r.Department} },
		func(d deptAcc, r schema.EmployeeRecord) deptAcc {
			pay := r.Pay()
			d.cost = d.cost.Add(amount(pay.TotalSalary))
			d.bonus = d.bonus.Add(amount(pay.Bonus))
			d.leave = d.leave.Add(amount(pay.LeaveTaken))
			if r.Month.Label == p.latest && r.Status() == schema.ActiveStatus {
				d.active++
			}
			return d
		})

	result := &schema.AggregationResult{
		Period:          periodLabel(selected),
		SelectedMonths:  slices.Clone(selected),
		Snapshot:        p.snapshot(chronological),
		DepartmentCosts: costOrdering(depts),
		DepartmentBonus: bonusOrdering(depts),
		MonthlyTrend:    p.series(),
		Anomalies: schema.Anomalies{
			Stagnant:        p.stagnant(stream),
			TopEarners:      topEarners(p.current),
			RiskDepartments: riskDepartments(depts, len(selected)),
			LeaveOutliers:   leaveOutliers(p.current, len(selected)),
		},
	}
	if result.SelectedMonths == nil {
		result.SelectedMonths = []string{}
	}
	return result
}

func newPeriod(stream []schema.EmployeeRecord, selected []string) period {
	p := period{selected: selected, byMonth: make(map[string][]schema.EmployeeRecord)}
	if len(selected) > 0 {
		p.latest = selected[len(selected)-1]
	}

	inScope := make(map[string]struct{}, len(selected))
	for _, m := range selected {
		inScope[m] = struct{}{}
	}
	for _, r := range stream {
		p.byMonth[r.Month.Label] = append(p.byMonth[r.Month.Label], r)
		if _, ok := inScope[r.Month.Label]; ok {
			p.current = append(p.current, r)
		}
	}
	return p
}

// periodLabel names the selection for display.
func periodLabel(selected []string) string {
	switch len(selected) {
	case 0:
		return ""
	case 1:
		return selected[0]
	default:
		return fmt.Sprintf(schema.MultiplePeriodLabel, len(selected))
	}
}

// snapshot computes the headline KPIs including single-month trend deltas.
func (p period) snapshot(chronological []string) schema.Snapshot {
	var snap schema.Snapshot
	total := totalCost(p.current)
	snap.TotalCost = total.InexactFloat64()
	snap.ActiveHeadcount = activeCount(p.byMonth[p.latest])

	for _, r := range p.current {
		pay := r.Pay()
		if pay.IsJoiner {
			snap.Joiners++
		}
		if r.IsExiter() {
			snap.Exits++
		}
		if pay.HasIncrement {
			snap.Increments++
		}
	}

	if len(p.selected) != 1 {
		return snap
	}
	idx := slices.Index(chronological, p.selected[0])
	if idx <= 0 {
		return snap
	}
	prev := p.byMonth[chronological[idx-1]]
	snap.CostTrend = percentChange(total, totalCost(prev))
	snap.HeadcountTrend = percentChange(
		decimal.NewFromInt(int64(snap.ActiveHeadcount)),
		decimal.NewFromInt(int64(activeCount(prev))),
	)
	return snap
}

// series returns one trend point per selected month from the full stream.
func (p period) series() []schema.MonthPoint {
	points := make([]schema.MonthPoint, 0, len(p.selected))
	for _, m := range p.selected {
		var basic, taxes, bonus, ctc decimal.Decimal
		point := schema.MonthPoint{Month: m}
		records := p.byMonth[m]
		for _, r := range records {
			pay := r.Pay()
			basic = basic.Add(amount(pay.BasicSalary))
			taxes = taxes.Add(amount(pay.Taxes))
			bonus = bonus.Add(amount(pay.Bonus))
			ctc = ctc.Add(amount(pay.CTC))
			if pay.IsJoiner {
				point.Joiners++
			}
			if r.IsExiter() {
				point.Exits++
			}
		}
		point.TotalCost = totalCost(records).InexactFloat64()
		point.Basic = basic.InexactFloat64()
		point.Taxes = taxes.InexactFloat64()
		point.Bonus = bonus.InexactFloat64()
		point.CTC = ctc.InexactFloat64()
		point.Headcount = activeCount(records)
		points = append(points, point)
	}
	return points
}

// costOrdering lists every department by cost, highest first.
func costOrdering(depts []deptAcc) []schema.DeptStat {
	sorted := slices.Clone(depts)
	slices.SortStableFunc(sorted, func(a, b deptAcc) int { return b.cost.Cmp(a.cost) })
	return stats(sorted)
}

// bonusOrdering lists departments that paid any bonus, highest first.
func bonusOrdering(depts []deptAcc) []schema.DeptStat {
	paid := make([]deptAcc, 0, len(depts))
	for _, d := range depts {
		if d.bonus.IsPositive() {
			paid = append(paid, d)
		}
	}
	slices.SortStableFunc(paid, func(a, b deptAcc) int { return b.bonus.Cmp(a.bonus) })
	return stats(paid)
}

func stats(depts []deptAcc) []schema.DeptStat {
	out := make([]schema.DeptStat, 0, len(depts))
	for _, d := range depts {
		out = append(out, d.stat())
	}
	return out
}

func totalCost(records []schema.EmployeeRecord) decimal.Decimal {
	total := decimal.Zero
	for _, r := range records {
		total = total.Add(amount(r.Pay().TotalSalary))
	}
	return total
}

func activeCount(records []schema.EmployeeRecord) int {
	n := 0
	for _, r := range records {
		if r.Status() == schema.ActiveStatus {
			n++
		}
	}
	return n
}

// percentChange returns the change from prev to cur in percent, or nil when prev is not positive.
func percentChange(cur, prev decimal.Decimal) *float64 {
	if !prev.IsPositive() {
		return nil
	}
	pct := cur.Sub(prev).Mul(hundred).Div(prev).InexactFloat64()
	return &pct
}
