package schema

import "time"

// RunRecord represents a row from the paysheet_runs table.
type RunRecord struct {
	RunID         int64
	StartTime     time.Time
	EndTime       *time.Time
	RunDurationMs *int32
	WorkbookName  string
	WorkbookHash  string
	TotalMonths   int32
	TotalRecords  int32
}

// RunMonthRecord represents a row from the paysheet_run_months table.
type RunMonthRecord struct {
	RunID      int64
	MonthKey   string
	MonthLabel string
	Headcount  int32
	Joiners    int32
	Exits      int32
	Increments int32
	TotalCost  float64
	TotalCTC   float64
}
