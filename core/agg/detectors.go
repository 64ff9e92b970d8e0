package agg

import (
	"slices"
	"strings"

	"github.com/huangsam/paysheet/schema"
	"github.com/shopspring/decimal"
)

// stagnant flags employees active in the latest month whose recent history shows
// no increment for at least StagnantMonths observed months. The count walks back
// from the newest observation and stops at the first increment or after the most
// recent join month, so months before a rejoin never count.
func (p period) stagnant(stream []schema.EmployeeRecord) []schema.StagnantEmployee {
	out := []schema.StagnantEmployee{}

	active := make(map[string]struct{})
	for _, r := range p.byMonth[p.latest] {
		if r.Status() == schema.ActiveStatus {
			active[r.EmployeeID] = struct{}{}
		}
	}
	if len(active) == 0 {
		return out
	}

	var observed []schema.EmployeeRecord
	for _, r := range stream {
		if _, ok := active[r.EmployeeID]; ok && !r.IsGhost() {
			observed = append(observed, r)
		}
	}

	histories := foldBy(observed, byEmployee,
		func(r schema.EmployeeRecord) historyAcc { return historyAcc{id: r.EmployeeID} },
		func(h historyAcc, r schema.EmployeeRecord) historyAcc {
			h.records = append(h.records, r)
			return h
		})

	for _, h := range histories {
		recent := slices.Clone(h.records)
		slices.SortStableFunc(recent, func(a, b schema.EmployeeRecord) int {
			return strings.Compare(b.Month.Key, a.Month.Key)
		})

		months := 0
		for _, r := range recent {
			pay := r.Pay()
			if pay.HasIncrement {
				break
			}
			months++
			if pay.IsJoiner {
				break
			}
		}
		if months >= StagnantMonths {
			out = append(out, schema.StagnantEmployee{
				EmployeeID: h.id,
				Name:       recent[0].Name,
				Department: recent[0].Department,
				Months:     months,
			})
		}
	}
	return out
}

// topEarners ranks employees by total pay over the period.
func topEarners(current []schema.EmployeeRecord) []schema.Earner {
	earners := foldBy(current, byEmployee,
		func(r schema.EmployeeRecord) earnerAcc { return earnerAcc{id: r.EmployeeID, name: r.Name} },
		func(e earnerAcc, r schema.EmployeeRecord) earnerAcc {
			e.amount = e.amount.Add(amount(r.Pay().TotalSalary))
			return e
		})
	slices.SortStableFunc(earners, func(a, b earnerAcc) int { return b.amount.Cmp(a.amount) })

	n := min(len(earners), TopEarnerCount)
	out := make([]schema.Earner, 0, n)
	for _, e := range earners[:n] {
		out = append(out, schema.Earner{EmployeeID: e.id, Name: e.name, Amount: e.amount.InexactFloat64()})
	}
	return out
}

// riskDepartments flags departments whose leave per active head exceeds
// RiskLeavePerMonth for every selected month.
func riskDepartments(depts []deptAcc, months int) []schema.RiskDepartment {
	out := []schema.RiskDepartment{}
	limit := decimal.NewFromInt(int64(RiskLeavePerMonth * months))
	for _, d := range depts {
		heads := int64(max(d.active, 1))
		ratio := d.leave.Div(decimal.NewFromInt(heads))
		if ratio.GreaterThan(limit) {
			out = append(out, schema.RiskDepartment{Name: d.name, Ratio: ratio.InexactFloat64()})
		}
	}
	return out
}

// leaveOutliers flags employees whose leave over the period exceeds
// OutlierLeavePerMonth for every selected month.
func leaveOutliers(current []schema.EmployeeRecord, months int) []schema.LeaveOutlier {
	sums := foldBy(current, byEmployee,
		func(r schema.EmployeeRecord) leaveAcc { return leaveAcc{id: r.EmployeeID, name: r.Name} },
		func(l leaveAcc, r schema.EmployeeRecord) leaveAcc {
			l.days = l.days.Add(amount(r.Pay().LeaveTaken))
			return l
		})

	out := []schema.LeaveOutlier{}
	limit := decimal.NewFromInt(int64(OutlierLeavePerMonth * months))
	for _, l := range sums {
		if l.days.GreaterThan(limit) {
			out = append(out, schema.LeaveOutlier{EmployeeID: l.id, Name: l.name, Days: l.days.InexactFloat64()})
		}
	}
	return out
}
