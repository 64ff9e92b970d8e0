package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/paysheet/internal/contract"
	"github.com/huangsam/paysheet/internal/parquet"
	"github.com/huangsam/paysheet/internal/workbook"
	"github.com/huangsam/paysheet/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// recordCSVHeader is the column order of record CSV exports.
var recordCSVHeader = []string{
	"employee_id", "name", "position", "department", "month_key", "month_str", "status",
	"basic_salary", "other_allowance", "bonus", "bonus_type", "leave_taken", "leave_cost",
	"pf_employee", "pf_employer", "total_salary", "taxes", "net_salary", "ctc",
	"leave_severity", "is_joiner", "is_exiter", "has_increment", "salary_growth_pct", "is_ghost",
}

// WriteRecords outputs a filtered record view, dispatching based on the output format configured.
func WriteRecords(views []schema.RecordView, cfg *contract.Config, duration time.Duration) error {
	return writeRecordViews(views, cfg, func(w io.Writer, fmtMoney func(float64) string) error {
		return writeRecordsTable(w, views, cfg, fmtMoney, duration)
	})
}

// WriteHistory outputs the month-by-month records of one employee.
func WriteHistory(employeeID string, views []schema.RecordView, cfg *contract.Config, duration time.Duration) error {
	return writeRecordViews(views, cfg, func(w io.Writer, fmtMoney func(float64) string) error {
		return writeHistoryTable(w, employeeID, views, cfg, fmtMoney, duration)
	})
}

func writeRecordViews(views []schema.RecordView, cfg *contract.Config, table func(io.Writer, func(float64) string) error) error {
	fmtFloat, fmtMoney := createFormatters(cfg)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, views)
		}, "Wrote JSON records"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeRecordsCSV(w, views, fmtFloat)
		}, "Wrote CSV records"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if cfg.OutputFile == "" {
			return fmt.Errorf("--output-file is required for %s output", cfg.Output)
		}
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return parquet.WriteRecords(w, parquet.ConvertRecordViews(views))
		}, "Wrote Parquet records"); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
	case schema.XLSXOut:
		if cfg.OutputFile == "" {
			return fmt.Errorf("--output-file is required for %s output", cfg.Output)
		}
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return workbook.WriteRecords(w, views)
		}, "Wrote XLSX records"); err != nil {
			return fmt.Errorf("error writing XLSX output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return table(w, fmtMoney)
		}, "Wrote records table")
	}
	return nil
}

// writeRecordsCSV writes every field of every view.
func writeRecordsCSV(w io.Writer, views []schema.RecordView, fmtFloat func(float64) string) error {
	return writeCSVWithHeader(w, recordCSVHeader, func(cw *csv.Writer) error {
		for _, v := range views {
			rec := []string{
				v.EmployeeID, v.Name, v.Position, v.Department, v.MonthKey, v.MonthStr, string(v.Status),
				fmtFloat(v.BasicSalary), fmtFloat(v.OtherAllowance), fmtFloat(v.Bonus), v.BonusType,
				fmtFloat(v.LeaveTaken), fmtFloat(v.LeaveCost), fmtFloat(v.PFEmployee), fmtFloat(v.PFEmployer),
				fmtFloat(v.TotalSalary), fmtFloat(v.Taxes), fmtFloat(v.NetSalary), fmtFloat(v.CTC),
				string(v.LeaveSeverity), strconv.FormatBool(v.IsJoiner), strconv.FormatBool(v.IsExiter),
				strconv.FormatBool(v.HasIncrement), fmtFloat(v.SalaryGrowthPct), strconv.FormatBool(v.IsGhost),
			}
			if err := cw.Write(rec); err != nil {
				return fmt.Errorf("failed to write CSV record for %s: %w", v.EmployeeID, err)
			}
		}
		return nil
	})
}

func severityLabel(sev schema.LeaveSeverity, useColors bool) string {
	if useColors {
		return contract.GetColorSeverity(sev)
	}
	return string(sev)
}

func newRecordTable(w io.Writer, headers []string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.Header(headers)
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})
	return table
}

// writeRecordsTable renders the explorer view, one row per employee-month.
func writeRecordsTable(w io.Writer, views []schema.RecordView, cfg *contract.Config, fmtMoney func(float64) string, duration time.Duration) error {
	if _, err := fmt.Fprintf(w, "Records: %s\n", formatCount(len(views))); err != nil {
		return err
	}
	table := newRecordTable(w, []string{"ID", "Name", "Month", "Department", "Status", "Total", "CTC", "Leave", "Severity", "Joiner", "Increment"})

	nameWidth := getMaxTableNameWidth(cfg)
	data := make([][]string, 0, len(views))
	for _, v := range views {
		data = append(data, []string{
			v.EmployeeID,
			truncateName(v.Name, nameWidth),
			v.MonthStr,
			v.Department,
			string(v.Status),
			fmtMoney(v.TotalSalary),
			fmtMoney(v.CTC),
			fmtNumber(v.LeaveTaken, cfg.Precision),
			severityLabel(v.LeaveSeverity, cfg.UseColors),
			formatBool(v.IsJoiner),
			formatBool(v.HasIncrement),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Filtered in %v\n", duration)
	return err
}

// writeHistoryTable renders the profile view of one employee.
func writeHistoryTable(w io.Writer, employeeID string, views []schema.RecordView, cfg *contract.Config, fmtMoney func(float64) string, duration time.Duration) error {
	name := schema.UnknownName
	if len(views) > 0 {
		name = views[len(views)-1].Name
	}
	if _, err := fmt.Fprintf(w, "History of %s (%s)\n", name, employeeID); err != nil {
		return err
	}
	table := newRecordTable(w, []string{"Month", "Position", "Department", "Status", "Basic", "Total", "CTC", "Growth %", "Leave", "Severity"})

	data := make([][]string, 0, len(views))
	for _, v := range views {
		data = append(data, []string{
			v.MonthStr,
			v.Position,
			v.Department,
			string(v.Status),
			fmtMoney(v.BasicSalary),
			fmtMoney(v.TotalSalary),
			fmtMoney(v.CTC),
			fmtNumber(v.SalaryGrowthPct, cfg.Precision),
			fmtNumber(v.LeaveTaken, cfg.Precision),
			severityLabel(v.LeaveSeverity, cfg.UseColors),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%d months in %v\n", len(views), duration)
	return err
}
