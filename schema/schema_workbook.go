package schema

// Row maps a column header to a raw cell value (string or number).
type Row map[string]any

// Sheet is one named worksheet with its data rows in order.
type Sheet struct {
	Name string `json:"name"`
	Rows []Row  `json:"rows"`
}

// Workbook is an ordered list of sheets as handed over by the loader.
type Workbook struct {
	Name   string  `json:"name"`
	Digest string  `json:"digest"` // sha256 of the source bytes, empty for in-memory workbooks
	Sheets []Sheet `json:"sheets"`
}

// Recognized column headers. Alias groups are tried in order.
const (
	HeaderEmployeeID     = "Employee ID"
	HeaderID             = "ID"
	HeaderName           = "Name"
	HeaderEmployeeName   = "Employee Name"
	HeaderPosition       = "Position"
	HeaderDesignation    = "Designation"
	HeaderDepartment     = "Department"
	HeaderDept           = "Dept"
	HeaderBasicSalary    = "Basic Salary"
	HeaderOtherAllowance = "Other Allowance"
	HeaderBonus          = "Bonus"
	HeaderBonusType      = "Bonus Type"
	HeaderLeaveTaken     = "Leave Taken"
	HeaderLeaveCost      = "Unpaid Leave Deduction"
	HeaderPFEmployee     = "PF Employee"
	HeaderPFEmployer     = "PF Employer"
	HeaderTotalSalary    = "Total Salary"
	HeaderTaxes          = "Taxes"
	HeaderNetSalary      = "Net Salary"
)

// Header alias groups, first non-empty value wins.
var (
	IDHeaders         = []string{HeaderEmployeeID, HeaderID}
	NameHeaders       = []string{HeaderName, HeaderEmployeeName}
	PositionHeaders   = []string{HeaderPosition, HeaderDesignation}
	DepartmentHeaders = []string{HeaderDepartment, HeaderDept}
)
