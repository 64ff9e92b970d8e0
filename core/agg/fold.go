package agg

import (
	"math"

	"github.com/huangsam/paysheet/schema"
	"github.com/shopspring/decimal"
)

// foldBy groups records by key in first-seen order and folds every record of a
// group into that group's accumulator. The returned slice is not shared with
// any later computation.
func foldBy[A any](
	records []schema.EmployeeRecord,
	key func(schema.EmployeeRecord) string,
	init func(schema.EmployeeRecord) A,
	step func(A, schema.EmployeeRecord) A,
) []A {
	index := make(map[string]int)
	var accs []A
	for _, r := range records {
		k := key(r)
		i, ok := index[k]
		if !ok {
			i = len(accs)
			index[k] = i
			accs = append(accs, init(r))
		}
		accs[i] = step(accs[i], r)
	}
	return accs
}

func byDepartment(r schema.EmployeeRecord) string { return r.Department }

func byEmployee(r schema.EmployeeRecord) string { return r.EmployeeID }

// deptAcc accumulates one department over the selected period.
type deptAcc struct {
	name   string
	cost   decimal.Decimal
	bonus  decimal.Decimal
	leave  decimal.Decimal
	active int
}

func (d deptAcc) stat() schema.DeptStat {
	return schema.DeptStat{
		Name:   d.name,
		Cost:   d.cost.InexactFloat64(),
		Bonus:  d.bonus.InexactFloat64(),
		Leave:  d.leave.InexactFloat64(),
		Active: d.active,
	}
}

// earnerAcc accumulates total pay per employee.
type earnerAcc struct {
	id     string
	name   string
	amount decimal.Decimal
}

// leaveAcc accumulates leave days per employee.
type leaveAcc struct {
	id   string
	name string
	days decimal.Decimal
}

// historyAcc collects the observations of one employee in stream order.
type historyAcc struct {
	id      string
	records []schema.EmployeeRecord
}

// amount converts a float cell value into an exact decimal for summation.
// Non-finite values contribute nothing.
func amount(v float64) decimal.Decimal {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(v)
}
