package workbook

import (
	"fmt"
	"io"

	"github.com/huangsam/paysheet/schema"
	"github.com/xuri/excelize/v2"
)

// RecordsSheet is the sheet name used for record exports.
const RecordsSheet = "Records"

// recordHeaders is the column order of a record export.
var recordHeaders = []string{
	schema.HeaderEmployeeID, schema.HeaderName, schema.HeaderPosition, schema.HeaderDepartment,
	"Month", "Month Key", "Status",
	schema.HeaderBasicSalary, schema.HeaderOtherAllowance, schema.HeaderBonus, schema.HeaderBonusType,
	schema.HeaderLeaveTaken, "Leave Severity", schema.HeaderLeaveCost,
	schema.HeaderPFEmployee, schema.HeaderPFEmployer, schema.HeaderTotalSalary, schema.HeaderTaxes,
	schema.HeaderNetSalary, "CTC",
	"Joiner", "Exiter", "Increment", "Salary Growth %", "Synthesized",
}

// WriteRecords writes views to a single-sheet xlsx document on w.
func WriteRecords(w io.Writer, views []schema.RecordView) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), RecordsSheet); err != nil {
		return fmt.Errorf("failed to name export sheet: %w", err)
	}

	header := make([]any, len(recordHeaders))
	for i, h := range recordHeaders {
		header[i] = h
	}
	if err := f.SetSheetRow(RecordsSheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write export header: %w", err)
	}

	for i, v := range views {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{
			v.EmployeeID, v.Name, v.Position, v.Department,
			v.MonthStr, v.MonthKey, string(v.Status),
			v.BasicSalary, v.OtherAllowance, v.Bonus, v.BonusType,
			v.LeaveTaken, string(v.LeaveSeverity), v.LeaveCost,
			v.PFEmployee, v.PFEmployer, v.TotalSalary, v.Taxes,
			v.NetSalary, v.CTC,
			v.IsJoiner, v.IsExiter, v.HasIncrement, v.SalaryGrowthPct, v.IsGhost,
		}
		if err := f.SetSheetRow(RecordsSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write export row %d: %w", i+1, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write xlsx: %w", err)
	}
	return nil
}
