// Package parquet provides data structures and functions for exporting payroll
// records and ingestion-run history to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/huangsam/paysheet/schema"
	"github.com/parquet-go/parquet-go"
)

// Record is one flattened employee-month record.
type Record struct {
	EmployeeID     string  `parquet:"employee_id,snappy"`
	Name           string  `parquet:"name,snappy"`
	Position       string  `parquet:"position,snappy"`
	Department     string  `parquet:"department,snappy"`
	BasicSalary    float64 `parquet:"basic_salary,snappy"`
	OtherAllowance float64 `parquet:"other_allowance,snappy"`
	Bonus          float64 `parquet:"bonus,snappy"`
	BonusType      string  `parquet:"bonus_type,snappy"`
	LeaveTaken     float64 `parquet:"leave_taken,snappy"`
	LeaveCost      float64 `parquet:"leave_cost,snappy"`
	PFEmployee     float64 `parquet:"pf_employee,snappy"`
	PFEmployer     float64 `parquet:"pf_employer,snappy"`
	TotalSalary    float64 `parquet:"total_salary,snappy"`
	Taxes          float64 `parquet:"taxes,snappy"`
	NetSalary      float64 `parquet:"net_salary,snappy"`
	CTC            float64 `parquet:"ctc,snappy"`

	// MonthDate is the first day of the month (stored as TIMESTAMP with nanosecond precision)
	MonthDate     time.Time `parquet:"month_date,snappy"`
	MonthStr      string    `parquet:"month_str,snappy"`
	MonthKey      string    `parquet:"month_key,snappy"`
	LeaveSeverity string    `parquet:"leave_severity,snappy"`
	Status        string    `parquet:"status,snappy"`

	IsJoiner        bool    `parquet:"is_joiner,snappy"`
	IsExiter        bool    `parquet:"is_exiter,snappy"`
	HasIncrement    bool    `parquet:"has_increment,snappy"`
	SalaryGrowthPct float64 `parquet:"salary_growth_pct,snappy"`
	IsGhost         bool    `parquet:"is_ghost,snappy"`
}

// Run represents a single workbook ingestion run with metadata.
// This struct maps to the paysheet_runs database table.
type Run struct {
	// RunID is the unique identifier for this run
	RunID int64 `parquet:"run_id,snappy"`

	// StartTime is when ingestion began (stored as TIMESTAMP with nanosecond precision)
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is when ingestion completed (nullable)
	EndTime *time.Time `parquet:"end_time,optional,snappy"`

	// RunDurationMs is the duration of the run in milliseconds (nullable)
	RunDurationMs *int32 `parquet:"run_duration_ms,optional,snappy"`

	WorkbookName string `parquet:"workbook_name,snappy"`

	// WorkbookHash is the sha256 of the workbook bytes
	WorkbookHash string `parquet:"workbook_hash,snappy"`

	TotalMonths  int32 `parquet:"total_months,snappy"`
	TotalRecords int32 `parquet:"total_records,snappy"`
}

// RunMonth is the per-month rollup recorded for a run.
// This struct maps to the paysheet_run_months database table.
type RunMonth struct {
	RunID      int64   `parquet:"run_id,snappy"`
	MonthKey   string  `parquet:"month_key,snappy"`
	MonthLabel string  `parquet:"month_label,snappy"`
	Headcount  int32   `parquet:"headcount,snappy"`
	Joiners    int32   `parquet:"joiners,snappy"`
	Exits      int32   `parquet:"exits,snappy"`
	Increments int32   `parquet:"increments,snappy"`
	TotalCost  float64 `parquet:"total_cost,snappy"`
	TotalCTC   float64 `parquet:"total_ctc,snappy"`
}

// write encodes data with a schema derived from the struct tags of T.
func write[T any](w io.Writer, data []T) error {
	writer := parquet.NewGenericWriter[T](w)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// writeFile creates outputPath and encodes data into it.
func writeFile[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := write(file, data); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

// WriteRecords writes records as a Parquet stream to w.
func WriteRecords(w io.Writer, data []Record) error {
	return write(w, data)
}

// WriteRecordsParquet writes a slice of Record structs to a Parquet file.
func WriteRecordsParquet(data []Record, outputPath string) error {
	return writeFile(data, outputPath)
}

// WriteRunsParquet writes a slice of Run structs to a Parquet file.
func WriteRunsParquet(data []Run, outputPath string) error {
	return writeFile(data, outputPath)
}

// WriteRunMonthsParquet writes a slice of RunMonth structs to a Parquet file.
func WriteRunMonthsParquet(data []RunMonth, outputPath string) error {
	return writeFile(data, outputPath)
}

// ConvertRecordViews converts schema.RecordView to Record for Parquet export.
func ConvertRecordViews(views []schema.RecordView) []Record {
	result := make([]Record, len(views))
	for i, v := range views {
		result[i] = Record{
			EmployeeID:      v.EmployeeID,
			Name:            v.Name,
			Position:        v.Position,
			Department:      v.Department,
			BasicSalary:     v.BasicSalary,
			OtherAllowance:  v.OtherAllowance,
			Bonus:           v.Bonus,
			BonusType:       v.BonusType,
			LeaveTaken:      v.LeaveTaken,
			LeaveCost:       v.LeaveCost,
			PFEmployee:      v.PFEmployee,
			PFEmployer:      v.PFEmployer,
			TotalSalary:     v.TotalSalary,
			Taxes:           v.Taxes,
			NetSalary:       v.NetSalary,
			CTC:             v.CTC,
			MonthDate:       v.MonthDate,
			MonthStr:        v.MonthStr,
			MonthKey:        v.MonthKey,
			LeaveSeverity:   string(v.LeaveSeverity),
			Status:          string(v.Status),
			IsJoiner:        v.IsJoiner,
			IsExiter:        v.IsExiter,
			HasIncrement:    v.HasIncrement,
			SalaryGrowthPct: v.SalaryGrowthPct,
			IsGhost:         v.IsGhost,
		}
	}
	return result
}

// ConvertRunRecords converts schema.RunRecord to Run for Parquet export.
func ConvertRunRecords(records []schema.RunRecord) []Run {
	result := make([]Run, len(records))
	for i, record := range records {
		result[i] = Run{
			RunID:         record.RunID,
			StartTime:     record.StartTime,
			EndTime:       record.EndTime,
			RunDurationMs: record.RunDurationMs,
			WorkbookName:  record.WorkbookName,
			WorkbookHash:  record.WorkbookHash,
			TotalMonths:   record.TotalMonths,
			TotalRecords:  record.TotalRecords,
		}
	}
	return result
}

// ConvertRunMonthRecords converts schema.RunMonthRecord to RunMonth for Parquet export.
func ConvertRunMonthRecords(records []schema.RunMonthRecord) []RunMonth {
	result := make([]RunMonth, len(records))
	for i, record := range records {
		result[i] = RunMonth(record)
	}
	return result
}
