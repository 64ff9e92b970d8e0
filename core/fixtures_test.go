package core

import (
	"path/filepath"
	"testing"

	"github.com/huangsam/paysheet/schema"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var payrollHeader = []string{"Employee ID", "Name", "Department", "Basic Salary", "Bonus", "Leave Taken"}

// payrollSheets spans Dec 2023 to Mar 2024: E3 joins in Feb, E2 is gone in Mar
// and E1 gets a 20% increment in Feb.
func payrollSheets() []schema.Sheet {
	emp := func(id, name, dept string, basic, bonus, leave float64) schema.Row {
		return schema.Row{
			"Employee ID": id, "Name": name, "Department": dept,
			"Basic Salary": basic, "Bonus": bonus, "Leave Taken": leave,
		}
	}
	return []schema.Sheet{
		{Name: "Dec 2023", Rows: []schema.Row{
			emp("E1", "Asha", "Eng", 1000, 0, 0),
			emp("E2", "Ravi", "Ops", 800, 0, 1),
		}},
		{Name: "Jan 2024", Rows: []schema.Row{
			emp("E1", "Asha", "Eng", 1000, 0, 7),
			emp("E2", "Ravi", "Ops", 800, 0, 2),
		}},
		{Name: "Notes", Rows: []schema.Row{{"Employee ID": "ignored"}}},
		{Name: "Feb 2024", Rows: []schema.Row{
			emp("E1", "Asha", "Eng", 1200, 100, 1),
			emp("E2", "Ravi", "Ops", 800, 0, 0),
			emp("E3", "Mei", "Eng", 900, 0, 4),
		}},
		{Name: "Mar 2024", Rows: []schema.Row{
			emp("E1", "Asha", "Eng", 1200, 0, 0),
			emp("E3", "Mei", "Eng", 900, 0, 0),
		}},
	}
}

func payrollDataset() *Dataset {
	return FromWorkbook(schema.Workbook{Name: "payroll.xlsx", Digest: "digest", Sheets: payrollSheets()})
}

// writeWorkbook saves sheets into an xlsx file under a temp dir and returns its path.
func writeWorkbook(t *testing.T, sheets []schema.Sheet) string {
	t.Helper()
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	for i, sheet := range sheets {
		if i == 0 {
			require.NoError(t, f.SetSheetName(f.GetSheetName(0), sheet.Name))
		} else {
			_, err := f.NewSheet(sheet.Name)
			require.NoError(t, err)
		}
		for c, h := range payrollHeader {
			cell, err := excelize.CoordinatesToCellName(c+1, 1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheet.Name, cell, h))
		}
		for r, row := range sheet.Rows {
			for c, h := range payrollHeader {
				value, ok := row[h]
				if !ok {
					continue
				}
				cell, err := excelize.CoordinatesToCellName(c+1, r+2)
				require.NoError(t, err)
				require.NoError(t, f.SetCellValue(sheet.Name, cell, value))
			}
		}
	}

	path := filepath.Join(t.TempDir(), "payroll.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}
