package schema

// Summary holds dataset-level facts independent of any period selection.
type Summary struct {
	LatestMonth string `json:"latest_month"`
}

// IngestReport counts what ingestion kept and dropped.
type IngestReport struct {
	SheetsRead        int      `json:"sheets_read"`
	SheetsSkipped     []string `json:"sheets_skipped"`
	RowsRead          int      `json:"rows_read"`
	RowsSkipped       int      `json:"rows_skipped"`
	DuplicatesDropped int      `json:"duplicates_dropped"`
}

// Snapshot holds the headline KPIs of a period. Trend fields are nil when
// no single-month predecessor comparison applies.
type Snapshot struct {
	TotalCost       float64  `json:"total_cost"`
	ActiveHeadcount int      `json:"active_headcount"`
	CostTrend       *float64 `json:"cost_trend,omitempty"`
	HeadcountTrend  *float64 `json:"headcount_trend,omitempty"`
	Joiners         int      `json:"joiners"`
	Exits           int      `json:"exits"`
	Increments      int      `json:"increments"`
}

// DeptStat is the rollup of one department over the selected period.
type DeptStat struct {
	Name   string  `json:"name"`
	Cost   float64 `json:"cost"`
	Bonus  float64 `json:"bonus"`
	Leave  float64 `json:"leave"`
	Active int     `json:"active"`
}

// MonthPoint is one month of the trend series.
type MonthPoint struct {
	Month     string  `json:"month"`
	TotalCost float64 `json:"total_cost"`
	Basic     float64 `json:"basic"`
	Taxes     float64 `json:"taxes"`
	Bonus     float64 `json:"bonus"`
	CTC       float64 `json:"ctc"`
	Headcount int     `json:"headcount"`
	Joiners   int     `json:"joiners"`
	Exits     int     `json:"exits"`
}

// StagnantEmployee is an active employee without an increment for many months.
type StagnantEmployee struct {
	EmployeeID string `json:"employee_id"`
	Name       string `json:"name"`
	Department string `json:"department"`
	Months     int    `json:"months"`
}

// Earner is an employee ranked by total pay over the period.
type Earner struct {
	EmployeeID string  `json:"employee_id"`
	Name       string  `json:"name"`
	Amount     float64 `json:"amount"`
}

// RiskDepartment is a department whose leave per active head exceeds the threshold.
type RiskDepartment struct {
	Name  string  `json:"name"`
	Ratio float64 `json:"ratio"`
}

// LeaveOutlier is an employee whose leave over the period exceeds the threshold.
type LeaveOutlier struct {
	EmployeeID string  `json:"employee_id"`
	Name       string  `json:"name"`
	Days       float64 `json:"days"`
}

// Anomalies groups the detector outputs.
type Anomalies struct {
	Stagnant        []StagnantEmployee `json:"stagnant"`
	TopEarners      []Earner           `json:"top_earners"`
	RiskDepartments []RiskDepartment   `json:"risk_departments"`
	LeaveOutliers   []LeaveOutlier     `json:"leave_outliers"`
}

// AggregationResult is the analytics snapshot for one period selection.
type AggregationResult struct {
	Period          string       `json:"period"`
	SelectedMonths  []string     `json:"selected_months"`
	Snapshot        Snapshot     `json:"snapshot"`
	DepartmentCosts []DeptStat   `json:"department_costs"`
	DepartmentBonus []DeptStat   `json:"department_bonus"`
	MonthlyTrend    []MonthPoint `json:"monthly_trend"`
	Anomalies       Anomalies    `json:"anomalies"`
}

// DatasetSummary is the overview of an ingested workbook.
type DatasetSummary struct {
	Workbook    string       `json:"workbook"`
	LatestMonth string       `json:"latest_month"`
	AllMonths   []string     `json:"all_months"`
	Departments []string     `json:"departments"`
	Records     int          `json:"records"`
	Exits       int          `json:"exits"`
	Report      IngestReport `json:"report"`
}
