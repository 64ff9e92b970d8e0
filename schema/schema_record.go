package schema

import "time"

// MonthRef identifies one reporting month.
type MonthRef struct {
	Date  time.Time `json:"month_date"`
	Label string    `json:"month_str"` // e.g. "Jan 2024"
	Key   string    `json:"month_key"` // e.g. "2024-01", sorts chronologically
}

// NewMonthRef normalizes t to the first day of its month in UTC.
func NewMonthRef(t time.Time) MonthRef {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return MonthRef{
		Date:  first,
		Label: first.Format(MonthLabelLayout),
		Key:   first.Format(MonthKeyLayout),
	}
}

// Identity holds the descriptive fields shared by every record variant.
type Identity struct {
	EmployeeID string `json:"employee_id"`
	Name       string `json:"name"`
	Position   string `json:"position"`
	Department string `json:"department"`
}

// Signals are the cross-month flags computed once during enrichment.
type Signals struct {
	IsJoiner        bool    `json:"is_joiner"`
	HasIncrement    bool    `json:"has_increment"`
	SalaryGrowthPct float64 `json:"salary_growth_pct"`
}

// Observation is the payroll payload of a row read from a month sheet.
type Observation struct {
	BasicSalary    float64       `json:"basic_salary"`
	OtherAllowance float64       `json:"other_allowance"`
	Bonus          float64       `json:"bonus"`
	BonusType      string        `json:"bonus_type"`
	LeaveTaken     float64       `json:"leave_taken"`
	LeaveCost      float64       `json:"leave_cost"`
	PFEmployee     float64       `json:"pf_employee"`
	PFEmployer     float64       `json:"pf_employer"`
	TotalSalary    float64       `json:"total_salary"`
	Taxes          float64       `json:"taxes"`
	NetSalary      float64       `json:"net_salary"`
	CTC            float64       `json:"ctc"`
	LeaveSeverity  LeaveSeverity `json:"leave_severity"`
	Signals
}

// EmployeeRecord is one employee in one month. Observed is set only for
// ObservationKind; an ExitKind record marks the month an employee vanished.
type EmployeeRecord struct {
	Kind RecordKind `json:"kind"`
	Identity
	Month    MonthRef     `json:"month"`
	Observed *Observation `json:"observed,omitempty"`
}

// NewObservation builds an observation record owning a copy of obs.
func NewObservation(id Identity, month MonthRef, obs Observation) EmployeeRecord {
	return EmployeeRecord{Kind: ObservationKind, Identity: id, Month: month, Observed: &obs}
}

// NewExit builds the exit record for an employee last seen in prev.
func NewExit(prev EmployeeRecord, month MonthRef) EmployeeRecord {
	return EmployeeRecord{Kind: ExitKind, Identity: prev.Identity, Month: month}
}

// WithSignals returns a copy of r carrying s. Exit records have no signals and are returned as is.
func (r EmployeeRecord) WithSignals(s Signals) EmployeeRecord {
	if r.Observed == nil {
		return r
	}
	obs := *r.Observed
	obs.Signals = s
	r.Observed = &obs
	return r
}

// IsGhost reports whether r was synthesized rather than read from a sheet.
func (r EmployeeRecord) IsGhost() bool { return r.Kind == ExitKind }

// IsExiter is true for exit records.
func (r EmployeeRecord) IsExiter() bool { return r.Kind == ExitKind }

// Status returns Active for observations and Exited for exit records.
func (r EmployeeRecord) Status() Status {
	if r.Kind == ExitKind {
		return ExitedStatus
	}
	return ActiveStatus
}

// Pay returns the payroll payload, zero for exit records.
func (r EmployeeRecord) Pay() Observation {
	if r.Observed == nil {
		return Observation{LeaveSeverity: SeverityFor(0)}
	}
	return *r.Observed
}

// View flattens r into the stable record shape consumed by outputs and filters.
func (r EmployeeRecord) View() RecordView {
	pay := r.Pay()
	return RecordView{
		EmployeeID:      r.EmployeeID,
		Name:            r.Name,
		Position:        r.Position,
		Department:      r.Department,
		BasicSalary:     pay.BasicSalary,
		OtherAllowance:  pay.OtherAllowance,
		Bonus:           pay.Bonus,
		BonusType:       pay.BonusType,
		LeaveTaken:      pay.LeaveTaken,
		LeaveCost:       pay.LeaveCost,
		PFEmployee:      pay.PFEmployee,
		PFEmployer:      pay.PFEmployer,
		TotalSalary:     pay.TotalSalary,
		Taxes:           pay.Taxes,
		NetSalary:       pay.NetSalary,
		CTC:             pay.CTC,
		MonthDate:       r.Month.Date,
		MonthStr:        r.Month.Label,
		MonthKey:        r.Month.Key,
		LeaveSeverity:   pay.LeaveSeverity,
		Status:          r.Status(),
		IsJoiner:        pay.IsJoiner,
		IsExiter:        r.IsExiter(),
		HasIncrement:    pay.HasIncrement,
		SalaryGrowthPct: pay.SalaryGrowthPct,
		IsGhost:         r.IsGhost(),
	}
}

// RecordView is the flat employee-month record.
type RecordView struct {
	EmployeeID      string        `json:"employee_id"`
	Name            string        `json:"name"`
	Position        string        `json:"position"`
	Department      string        `json:"department"`
	BasicSalary     float64       `json:"basic_salary"`
	OtherAllowance  float64       `json:"other_allowance"`
	Bonus           float64       `json:"bonus"`
	BonusType       string        `json:"bonus_type"`
	LeaveTaken      float64       `json:"leave_taken"`
	LeaveCost       float64       `json:"leave_cost"`
	PFEmployee      float64       `json:"pf_employee"`
	PFEmployer      float64       `json:"pf_employer"`
	TotalSalary     float64       `json:"total_salary"`
	Taxes           float64       `json:"taxes"`
	NetSalary       float64       `json:"net_salary"`
	CTC             float64       `json:"ctc"`
	MonthDate       time.Time     `json:"month_date"`
	MonthStr        string        `json:"month_str"`
	MonthKey        string        `json:"month_key"`
	LeaveSeverity   LeaveSeverity `json:"leave_severity"`
	Status          Status        `json:"status"`
	IsJoiner        bool          `json:"is_joiner"`
	IsExiter        bool          `json:"is_exiter"`
	HasIncrement    bool          `json:"has_increment"`
	SalaryGrowthPct float64       `json:"salary_growth_pct"`
	IsGhost         bool          `json:"is_ghost"`
}

// Views flattens a record slice in order.
func Views(records []EmployeeRecord) []RecordView {
	views := make([]RecordView, 0, len(records))
	for _, r := range records {
		views = append(views, r.View())
	}
	return views
}
