package agg

import (
	"fmt"
	"testing"
	"time"

	"github.com/huangsam/paysheet/core/enrich"
	"github.com/huangsam/paysheet/core/ingest"
	"github.com/huangsam/paysheet/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row = schema.Row

func staff(id, dept, basic string) row {
	return row{"ID": id, "Name": "Emp " + id, "Department": dept, "Basic Salary": basic}
}

func with(r row, header, value string) row {
	out := row{}
	for k, v := range r {
		out[k] = v
	}
	out[header] = value
	return out
}

// build ingests and enriches the sheets and returns the stream plus the chronological labels.
func build(sheets ...schema.Sheet) ([]schema.EmployeeRecord, []string) {
	res := ingest.Ingest(schema.Workbook{Sheets: sheets})
	stream := enrich.Enrich(res.Buckets, res.Keys)
	labels := make([]string, 0, len(res.Keys))
	for _, k := range res.Keys {
		labels = append(labels, res.Buckets[k].Month.Label)
	}
	return stream, labels
}

func label(i int) string {
	return schema.NewMonthRef(time.Date(2023, time.Month(1+i), 1, 0, 0, 0, 0, time.UTC)).Label
}

func sheetAt(i int, rows ...row) schema.Sheet {
	return schema.Sheet{Name: label(i), Rows: rows}
}

func TestAggregateScope(t *testing.T) {
	stream, months := build(
		schema.Sheet{Name: "Jan 2024", Rows: []row{staff("E", "Eng", "1000"), staff("F", "Ops", "500")}},
		schema.Sheet{Name: "Feb 2024", Rows: []row{staff("E", "Eng", "1200"), staff("F", "Ops", "500")}},
		schema.Sheet{Name: "Mar 2024", Rows: []row{staff("F", "Ops", "400")}},
	)
	require.Equal(t, []string{"Jan 2024", "Feb 2024", "Mar 2024"}, months)

	t.Run("february", func(t *testing.T) {
		res := Aggregate(stream, []string{"Feb 2024"}, months)
		snap := res.Snapshot
		assert.Equal(t, "Feb 2024", res.Period)
		assert.Equal(t, 1700.0, snap.TotalCost)
		assert.Equal(t, 2, snap.ActiveHeadcount)
		assert.Equal(t, 1, snap.Increments)
		assert.Zero(t, snap.Joiners)
		assert.Zero(t, snap.Exits)
		require.NotNil(t, snap.CostTrend)
		assert.InDelta(t, 13.3333, *snap.CostTrend, 0.001)
		require.NotNil(t, snap.HeadcountTrend)
		assert.Zero(t, *snap.HeadcountTrend)
	})

	t.Run("march", func(t *testing.T) {
		res := Aggregate(stream, []string{"Mar 2024"}, months)
		snap := res.Snapshot
		assert.Equal(t, 400.0, snap.TotalCost)
		assert.Equal(t, 1, snap.ActiveHeadcount)
		assert.Equal(t, 1, snap.Exits)
		require.NotNil(t, snap.HeadcountTrend)
		assert.InDelta(t, -50.0, *snap.HeadcountTrend, 1e-9)

		// The exit record keeps its department but contributes no cost.
		require.Len(t, res.DepartmentCosts, 2)
		assert.Equal(t, schema.DeptStat{Name: "Ops", Cost: 400, Active: 1}, res.DepartmentCosts[0])
		assert.Equal(t, schema.DeptStat{Name: "Eng"}, res.DepartmentCosts[1])
	})

	t.Run("whole period", func(t *testing.T) {
		res := Aggregate(stream, months, months)
		assert.Equal(t, "Multiple (3 Months)", res.Period)
		assert.Equal(t, 1500.0+1700.0+400.0, res.Snapshot.TotalCost)
		assert.Equal(t, 1, res.Snapshot.ActiveHeadcount)
		require.Len(t, res.MonthlyTrend, 3)
		assert.Equal(t, schema.MonthPoint{
			Month: "Jan 2024", TotalCost: 1500, Basic: 1500, CTC: 1500, Headcount: 2,
		}, res.MonthlyTrend[0])
		assert.Equal(t, 1, res.MonthlyTrend[2].Exits)
		assert.Equal(t, 1, res.MonthlyTrend[2].Headcount)
	})
}

func TestAggregateTrendAbsence(t *testing.T) {
	stream, months := build(
		schema.Sheet{Name: "Jan 2024", Rows: []row{staff("E", "Eng", "0")}},
		schema.Sheet{Name: "Feb 2024", Rows: []row{staff("E", "Eng", "900")}},
		schema.Sheet{Name: "Mar 2024", Rows: []row{staff("E", "Eng", "900")}},
	)

	tests := []struct {
		name          string
		selected      []string
		wantCost      bool
		wantHeadcount bool
	}{
		{"first month has no predecessor", []string{"Jan 2024"}, false, false},
		{"zero previous cost", []string{"Feb 2024"}, false, true},
		{"single month with predecessor", []string{"Mar 2024"}, true, true},
		{"multiple months", []string{"Feb 2024", "Mar 2024"}, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := Aggregate(stream, tt.selected, months).Snapshot
			assert.Equal(t, tt.wantCost, snap.CostTrend != nil)
			assert.Equal(t, tt.wantHeadcount, snap.HeadcountTrend != nil)
		})
	}
}

func TestAggregateLeaveThresholdsScale(t *testing.T) {
	stream, months := build(
		sheetAt(0, with(staff("A", "Ops", "100"), schema.HeaderLeaveTaken, "10"), staff("B", "Ops", "100")),
		sheetAt(1, staff("A", "Ops", "100"), staff("B", "Ops", "100")),
		sheetAt(2, staff("A", "Ops", "100"), staff("B", "Ops", "100")),
	)

	single := Aggregate(stream, months[:1], months).Anomalies
	require.Len(t, single.RiskDepartments, 1)
	assert.Equal(t, schema.RiskDepartment{Name: "Ops", Ratio: 5}, single.RiskDepartments[0])
	require.Len(t, single.LeaveOutliers, 1)
	assert.Equal(t, schema.LeaveOutlier{EmployeeID: "A", Name: "Emp A", Days: 10}, single.LeaveOutliers[0])

	quarter := Aggregate(stream, months, months).Anomalies
	assert.Empty(t, quarter.RiskDepartments)
	assert.Empty(t, quarter.LeaveOutliers)
}

func TestAggregateRiskWithoutActiveHeads(t *testing.T) {
	stream, months := build(
		sheetAt(0, with(staff("A", "Ops", "100"), schema.HeaderLeaveTaken, "3")),
		sheetAt(1, staff("B", "Eng", "100")),
	)

	// Ops has no active head in the latest month so its leave is divided by one.
	res := Aggregate(stream, months, months)
	assert.Empty(t, res.Anomalies.RiskDepartments)

	res = Aggregate(stream, months[:1], months)
	require.Len(t, res.Anomalies.RiskDepartments, 1)
	assert.Equal(t, 3.0, res.Anomalies.RiskDepartments[0].Ratio)
}

func TestAggregateDepartmentOrderings(t *testing.T) {
	stream, months := build(sheetAt(0,
		staff("A", "Ops", "100"),
		with(staff("B", "Eng", "300"), schema.HeaderBonus, "50"),
		with(staff("C", "Sales", "200"), schema.HeaderBonus, "80"),
		staff("D", "Ops", "150"),
	))

	res := Aggregate(stream, months, months)

	var costOrder []string
	for _, d := range res.DepartmentCosts {
		costOrder = append(costOrder, d.Name)
	}
	assert.Equal(t, []string{"Eng", "Sales", "Ops"}, costOrder)
	assert.Equal(t, 2, res.DepartmentCosts[2].Active)

	require.Len(t, res.DepartmentBonus, 2)
	assert.Equal(t, "Sales", res.DepartmentBonus[0].Name)
	assert.Equal(t, 80.0, res.DepartmentBonus[0].Bonus)
	assert.Equal(t, "Eng", res.DepartmentBonus[1].Name)
}

func TestAggregateTopEarners(t *testing.T) {
	var rows []row
	for i := 1; i <= 7; i++ {
		rows = append(rows, staff(fmt.Sprintf("E%d", i), "Eng", fmt.Sprint(i*100)))
	}
	stream, months := build(sheetAt(0, rows...), sheetAt(1, rows...))

	earners := Aggregate(stream, months, months).Anomalies.TopEarners
	require.Len(t, earners, TopEarnerCount)
	assert.Equal(t, schema.Earner{EmployeeID: "E7", Name: "Emp E7", Amount: 1400}, earners[0])
	assert.Equal(t, "E3", earners[4].EmployeeID)
}

func TestAggregateStagnant(t *testing.T) {
	steady := func(n int, id string) []schema.Sheet {
		var sheets []schema.Sheet
		for i := range n {
			sheets = append(sheets, sheetAt(i, staff(id, "Eng", "1000")))
		}
		return sheets
	}
	latest := func(months []string) []string { return months[len(months)-1:] }

	t.Run("twelve months without increment", func(t *testing.T) {
		stream, months := build(steady(StagnantMonths, "E")...)
		got := Aggregate(stream, latest(months), months).Anomalies.Stagnant
		require.Len(t, got, 1)
		assert.Equal(t, schema.StagnantEmployee{EmployeeID: "E", Name: "Emp E", Department: "Eng", Months: 12}, got[0])
	})

	t.Run("eleven months", func(t *testing.T) {
		stream, months := build(steady(StagnantMonths-1, "E")...)
		assert.Empty(t, Aggregate(stream, latest(months), months).Anomalies.Stagnant)
	})

	t.Run("increment resets the count", func(t *testing.T) {
		sheets := steady(14, "E")
		sheets[4] = sheetAt(4, staff("E", "Eng", "1100"))
		for i := 5; i < 14; i++ {
			sheets[i] = sheetAt(i, staff("E", "Eng", "1100"))
		}
		stream, months := build(sheets...)
		assert.Empty(t, Aggregate(stream, latest(months), months).Anomalies.Stagnant)
	})

	t.Run("rejoin starts a new tenure", func(t *testing.T) {
		var sheets []schema.Sheet
		for i := range 15 {
			if i == 5 {
				sheets = append(sheets, sheetAt(i, staff("X", "Ops", "500")))
				continue
			}
			sheets = append(sheets, sheetAt(i, staff("E", "Eng", "1000"), staff("X", "Ops", "500")))
		}
		stream, months := build(sheets...)
		got := Aggregate(stream, latest(months), months).Anomalies.Stagnant
		require.Len(t, got, 1)
		assert.Equal(t, "X", got[0].EmployeeID)
		assert.Equal(t, 15, got[0].Months)
	})

	t.Run("exited employees are ignored", func(t *testing.T) {
		sheets := append(steady(StagnantMonths, "E"), sheetAt(StagnantMonths, staff("Z", "Ops", "1")))
		stream, months := build(sheets...)
		assert.Empty(t, Aggregate(stream, latest(months), months).Anomalies.Stagnant)
	})
}

func TestAggregateEmptySelection(t *testing.T) {
	stream, months := build(sheetAt(0, staff("A", "Ops", "100")))

	res := Aggregate(stream, nil, months)
	assert.Empty(t, res.Period)
	assert.NotNil(t, res.SelectedMonths)
	assert.NotNil(t, res.DepartmentCosts)
	assert.NotNil(t, res.DepartmentBonus)
	assert.NotNil(t, res.MonthlyTrend)
	assert.NotNil(t, res.Anomalies.Stagnant)
	assert.NotNil(t, res.Anomalies.TopEarners)
	assert.NotNil(t, res.Anomalies.RiskDepartments)
	assert.NotNil(t, res.Anomalies.LeaveOutliers)
	assert.Zero(t, res.Snapshot.TotalCost)
	assert.Zero(t, res.Snapshot.ActiveHeadcount)
}

func TestAggregateUnknownLabelsMatchNothing(t *testing.T) {
	stream, months := build(sheetAt(0, staff("A", "Ops", "100")))
	res := Aggregate(stream, []string{"Dec 1999"}, months)
	assert.Zero(t, res.Snapshot.TotalCost)
	assert.Nil(t, res.Snapshot.CostTrend)
	require.Len(t, res.MonthlyTrend, 1)
	assert.Zero(t, res.MonthlyTrend[0].Headcount)
}
