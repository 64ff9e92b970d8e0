package outwriter

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/huangsam/paysheet/internal/contract"
	"github.com/huangsam/paysheet/internal/workbook"
	"github.com/huangsam/paysheet/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v float64) *float64 { return &v }

func sampleSummary() schema.DatasetSummary {
	return schema.DatasetSummary{
		Workbook:    "payroll.xlsx",
		LatestMonth: "Mar 2024",
		AllMonths:   []string{"Jan 2024", "Feb 2024", "Mar 2024"},
		Departments: []string{"Eng", "Ops"},
		Records:     1234,
		Exits:       2,
		Report: schema.IngestReport{
			SheetsRead:        3,
			SheetsSkipped:     []string{"Notes"},
			RowsRead:          1240,
			RowsSkipped:       4,
			DuplicatesDropped: 2,
		},
	}
}

func sampleAggregation() *schema.AggregationResult {
	return &schema.AggregationResult{
		Period:         "Feb 2024",
		SelectedMonths: []string{"Feb 2024"},
		Snapshot: schema.Snapshot{
			TotalCost:       1200,
			ActiveHeadcount: 2,
			CostTrend:       ptr(20),
			HeadcountTrend:  ptr(0),
			Joiners:         1,
			Increments:      1,
		},
		DepartmentCosts: []schema.DeptStat{{Name: "Eng", Cost: 1200, Bonus: 100, Leave: 10, Active: 2}},
		DepartmentBonus: []schema.DeptStat{{Name: "Eng", Cost: 1200, Bonus: 100, Leave: 10, Active: 2}},
		MonthlyTrend:    []schema.MonthPoint{{Month: "Feb 2024", TotalCost: 1200, Basic: 1100, Bonus: 100, CTC: 1296, Headcount: 2, Joiners: 1}},
		Anomalies: schema.Anomalies{
			TopEarners:      []schema.Earner{{EmployeeID: "E1", Name: "Asha", Amount: 1200}},
			RiskDepartments: []schema.RiskDepartment{{Name: "Eng", Ratio: 5}},
			LeaveOutliers:   []schema.LeaveOutlier{{EmployeeID: "E1", Name: "Asha", Days: 10}},
		},
	}
}

func sampleViews() []schema.RecordView {
	jan := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return []schema.RecordView{
		{
			EmployeeID: "E1", Name: "Asha", Position: "Engineer", Department: "Eng",
			BasicSalary: 1000, TotalSalary: 1000, CTC: 1080, LeaveTaken: 7,
			MonthDate: jan, MonthStr: "Jan 2024", MonthKey: "2024-01",
			LeaveSeverity: schema.HighSeverity, Status: schema.ActiveStatus, IsJoiner: true,
		},
		{
			EmployeeID: "E1", Name: "Asha", Position: "Engineer", Department: "Eng",
			BasicSalary: 1200, TotalSalary: 1200, CTC: 1296,
			MonthDate: jan.AddDate(0, 1, 0), MonthStr: "Feb 2024", MonthKey: "2024-02",
			LeaveSeverity: schema.LowSeverity, Status: schema.ActiveStatus, HasIncrement: true, SalaryGrowthPct: 20,
		},
	}
}

func readCSV(t *testing.T, data string) [][]string {
	t.Helper()
	rows, err := csv.NewReader(strings.NewReader(data)).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestWriteSummaryTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeSummaryTable(&buf, sampleSummary(), 5*time.Millisecond))

	out := buf.String()
	assert.Contains(t, out, "payroll.xlsx")
	assert.Contains(t, out, "Mar 2024")
	assert.Contains(t, out, "Eng|Ops")
	assert.Contains(t, out, "Notes")
	assert.Contains(t, out, "Ingested 1,234 records across 3 months in 5ms")
}

func TestWriteSummaryCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeSummaryCSV(&buf, sampleSummary()))

	rows := readCSV(t, buf.String())
	require.Len(t, rows, 13)
	assert.Equal(t, []string{"field", "value"}, rows[0])
	assert.Equal(t, []string{"workbook", "payroll.xlsx"}, rows[1])
	assert.Equal(t, []string{"first_month", "Jan 2024"}, rows[4])
	assert.Equal(t, []string{"duplicates_dropped", "2"}, rows[12])
}

func TestSummaryFieldsEmpty(t *testing.T) {
	fields := summaryFields(schema.DatasetSummary{LatestMonth: schema.NoDataLabel})
	assert.Equal(t, [2]string{"latest_month", schema.NoDataLabel}, fields[1])
	assert.Equal(t, [2]string{"first_month", schema.NoDataLabel}, fields[3])
}

func TestWriteAggregationTables(t *testing.T) {
	cfg := &contract.Config{Precision: 1, Width: 120, CacheBackend: schema.NoneBackend}
	_, fmtMoney := createFormatters(cfg)

	var buf bytes.Buffer
	require.NoError(t, writeAggregationTables(&buf, sampleAggregation(), cfg, fmtMoney, time.Millisecond))

	out := buf.String()
	assert.Contains(t, out, "Snapshot: Feb 2024")
	assert.Contains(t, out, "+20.0%")
	assert.Contains(t, out, "+0.0%")
	assert.Contains(t, out, "1,200.0")
	assert.Contains(t, out, "Department Costs")
	assert.Contains(t, out, "Department Bonus")
	assert.Contains(t, out, "Monthly Trend")
	assert.Contains(t, out, "Top Earners")
	assert.Contains(t, out, "Leave Risk Departments")
	assert.Contains(t, out, "Leave Outliers")
	assert.NotContains(t, out, "Stagnant Pay")
	assert.Contains(t, out, "Aggregated 1 months")
}

func TestWriteAggregationTablesMultiMonth(t *testing.T) {
	cfg := &contract.Config{Precision: 1}
	_, fmtMoney := createFormatters(cfg)
	result := &schema.AggregationResult{
		Period:         "Multiple (2 Months)",
		SelectedMonths: []string{"Jan 2024", "Feb 2024"},
	}

	var buf bytes.Buffer
	require.NoError(t, writeAggregationTables(&buf, result, cfg, fmtMoney, time.Millisecond))

	out := buf.String()
	assert.Contains(t, out, "Multiple (2 Months)")
	assert.Contains(t, out, contract.NotApplicable)
	assert.Contains(t, out, "No anomalies detected.")
}

func TestWriteAggregationCSV(t *testing.T) {
	fmtFloat, _ := createFormatters(&contract.Config{Precision: 1})

	var buf bytes.Buffer
	require.NoError(t, writeAggregationCSV(&buf, sampleAggregation(), fmtFloat))

	rows := readCSV(t, buf.String())
	assert.Equal(t, aggregationCSVHeader, rows[0])
	assert.Contains(t, rows, []string{"snapshot", "Feb 2024", "total_cost", "1200.0"})
	assert.Contains(t, rows, []string{"snapshot", "Feb 2024", "cost_trend", "20.0"})
	assert.Contains(t, rows, []string{"department_cost", "Eng", "active", "2"})
	assert.Contains(t, rows, []string{"department_bonus", "Eng", "bonus", "100.0"})
	assert.Contains(t, rows, []string{"trend", "Feb 2024", "ctc", "1296.0"})
	assert.Contains(t, rows, []string{"top_earner", "E1", "amount", "1200.0"})
	assert.Contains(t, rows, []string{"risk_department", "Eng", "leave_ratio", "5.0"})
	assert.Contains(t, rows, []string{"leave_outlier", "E1", "days", "10.0"})
}

func TestWriteAggregationCSVTrendAbsent(t *testing.T) {
	fmtFloat, _ := createFormatters(&contract.Config{Precision: 1})

	var buf bytes.Buffer
	require.NoError(t, writeAggregationCSV(&buf, &schema.AggregationResult{}, fmtFloat))

	rows := readCSV(t, buf.String())
	assert.Contains(t, rows, []string{"snapshot", "", "cost_trend", ""})
}

func TestWriteRecordsTable(t *testing.T) {
	cfg := &contract.Config{Precision: 1, Width: 120, Currency: "$"}
	_, fmtMoney := createFormatters(cfg)

	var buf bytes.Buffer
	require.NoError(t, writeRecordsTable(&buf, sampleViews(), cfg, fmtMoney, time.Millisecond))

	out := buf.String()
	assert.Contains(t, out, "Records: 2")
	assert.Contains(t, out, "Asha")
	assert.Contains(t, out, "$1,080.0")
	assert.Contains(t, out, "High")
	assert.Contains(t, out, "yes")
}

func TestWriteHistoryTable(t *testing.T) {
	cfg := &contract.Config{Precision: 1}
	_, fmtMoney := createFormatters(cfg)

	t.Run("with records", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeHistoryTable(&buf, "E1", sampleViews(), cfg, fmtMoney, time.Millisecond))
		out := buf.String()
		assert.Contains(t, out, "History of Asha (E1)")
		assert.Contains(t, out, "Feb 2024")
		assert.Contains(t, out, "20.0")
		assert.Contains(t, out, "2 months in")
	})

	t.Run("unknown employee", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeHistoryTable(&buf, "E9", nil, cfg, fmtMoney, time.Millisecond))
		assert.Contains(t, buf.String(), "History of Unknown (E9)")
	})
}

func TestWriteRecordsCSV(t *testing.T) {
	fmtFloat, _ := createFormatters(&contract.Config{Precision: 2})

	var buf bytes.Buffer
	require.NoError(t, writeRecordsCSV(&buf, sampleViews(), fmtFloat))

	rows := readCSV(t, buf.String())
	require.Len(t, rows, 3)
	assert.Equal(t, recordCSVHeader, rows[0])
	assert.Len(t, rows[1], len(recordCSVHeader))
	assert.Equal(t, "E1", rows[1][0])
	assert.Equal(t, "2024-02", rows[2][4])
	assert.Equal(t, "1296.00", rows[2][18])
	assert.Equal(t, "true", rows[2][22])
}

func TestWriteRecordsFormats(t *testing.T) {
	dir := t.TempDir()

	t.Run("json file", func(t *testing.T) {
		path := filepath.Join(dir, "records.json")
		cfg := &contract.Config{Output: schema.JSONOut, OutputFile: path, Precision: 1}
		require.NoError(t, NewOutWriter().WriteRecords(sampleViews(), cfg, time.Millisecond))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		var got []schema.RecordView
		require.NoError(t, json.Unmarshal(data, &got))
		require.Len(t, got, 2)
		assert.Equal(t, "Feb 2024", got[1].MonthStr)
	})

	t.Run("xlsx file", func(t *testing.T) {
		path := filepath.Join(dir, "records.xlsx")
		cfg := &contract.Config{Output: schema.XLSXOut, OutputFile: path, Precision: 1}
		require.NoError(t, NewOutWriter().WriteRecords(sampleViews(), cfg, time.Millisecond))

		wb, err := workbook.Open(context.Background(), path)
		require.NoError(t, err)
		require.Len(t, wb.Sheets, 1)
		assert.Equal(t, workbook.RecordsSheet, wb.Sheets[0].Name)
		assert.Len(t, wb.Sheets[0].Rows, 2)
	})

	t.Run("parquet file", func(t *testing.T) {
		path := filepath.Join(dir, "records.parquet")
		cfg := &contract.Config{Output: schema.ParquetOut, OutputFile: path, Precision: 1}
		require.NoError(t, NewOutWriter().WriteHistory("E1", sampleViews(), cfg, time.Millisecond))

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Positive(t, info.Size())
	})

	t.Run("binary formats need a file", func(t *testing.T) {
		for _, mode := range []schema.OutputMode{schema.ParquetOut, schema.XLSXOut} {
			err := NewOutWriter().WriteRecords(sampleViews(), &contract.Config{Output: mode}, time.Millisecond)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "--output-file is required")
		}
	})
}

func TestUnsupportedModes(t *testing.T) {
	ow := NewOutWriter()
	for _, mode := range []schema.OutputMode{schema.ParquetOut, schema.XLSXOut} {
		cfg := &contract.Config{Output: mode}
		assert.Error(t, ow.WriteSummary(sampleSummary(), cfg, 0))
		assert.Error(t, ow.WriteAggregation(sampleAggregation(), cfg, 0))
		assert.Error(t, ow.WriteAnomalies(sampleAggregation(), cfg, 0))
	}
}

func TestWriteAnomaliesJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "anomalies.json")
	cfg := &contract.Config{Output: schema.JSONOut, OutputFile: path}
	require.NoError(t, NewOutWriter().WriteAnomalies(sampleAggregation(), cfg, time.Millisecond))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var got schema.Anomalies
	require.NoError(t, json.Unmarshal(data, &got))
	require.Len(t, got.TopEarners, 1)
	assert.Equal(t, "E1", got.TopEarners[0].EmployeeID)
	assert.Empty(t, got.Stagnant)
}
