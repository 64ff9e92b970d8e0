// Package schema has the models and constants shared by all parts of paysheet.
package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// Status represents the employment status carried by a record.
	Status string

	// LeaveSeverity bands the leave days taken in one month.
	LeaveSeverity string

	// RecordKind tags the variant of an EmployeeRecord.
	RecordKind string

	// Category selects records by the KPI they contribute to.
	Category string

	// DatabaseBackend represents the database backend for caching and run history.
	DatabaseBackend string
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
	XLSXOut    OutputMode = "xlsx"
)

// All statuses supported.
const (
	ActiveStatus Status = "Active"
	ExitedStatus Status = "Exited"
)

// Leave severity bands.
const (
	LowSeverity    LeaveSeverity = "Low"
	MediumSeverity LeaveSeverity = "Medium"
	HighSeverity   LeaveSeverity = "High"
)

// Record variants.
const (
	ObservationKind RecordKind = "observation" // a row read from a month sheet
	ExitKind        RecordKind = "exit"        // synthesized from absence in the next month
)

// Record explorer categories.
const (
	JoinersCategory  Category = "joiners"
	ExitsCategory    Category = "exits"
	GrowthCategory   Category = "growth"
	HighRiskCategory Category = "high_risk"
)

// All database backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite"
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none" // default
)

// Sentinels and defaults used while normalizing sheets.
const (
	NoDataLabel         = "No Data"
	UnassignedDept      = "Unassigned"
	UnknownName         = "Unknown"
	NoBonusType         = "None"
	MonthKeyLayout      = "2006-01"
	MonthLabelLayout    = "Jan 2006"
	MultiplePeriodLabel = "Multiple (%d Months)"
)

// Leave thresholds in days for LeaveSeverity banding.
const (
	HighLeaveDays   = 6
	MediumLeaveDays = 3
)

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
	XLSXOut:    {},
}

// ValidStatuses lists all valid record statuses.
var ValidStatuses = map[Status]struct{}{
	ActiveStatus: {},
	ExitedStatus: {},
}

// ValidCategories lists all valid record explorer categories.
var ValidCategories = map[Category]struct{}{
	JoinersCategory:  {},
	ExitsCategory:    {},
	GrowthCategory:   {},
	HighRiskCategory: {},
}

// ValidDatabaseBackends lists all valid database backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// SeverityFor returns the leave severity band for the given number of days.
func SeverityFor(leaveTaken float64) LeaveSeverity {
	switch {
	case leaveTaken >= HighLeaveDays:
		return HighSeverity
	case leaveTaken >= MediumLeaveDays:
		return MediumSeverity
	default:
		return LowSeverity
	}
}
