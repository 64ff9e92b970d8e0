// Package ingest turns workbook sheets into month buckets of observation records.
package ingest

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/huangsam/paysheet/core/parse"
	"github.com/huangsam/paysheet/schema"
)

// Bucket groups the observations of one calendar month.
type Bucket struct {
	Month   schema.MonthRef
	Records []schema.EmployeeRecord
	IDs     map[string]struct{}
}

// Has reports whether the employee has a record in this month.
func (b *Bucket) Has(id string) bool {
	_, ok := b.IDs[id]
	return ok
}

// Result is the output of one ingestion run.
type Result struct {
	Buckets     map[string]*Bucket
	Keys        []string // month keys ascending
	Departments []string // first-seen order
	Report      schema.IngestReport
}

// Ingest maps every recognized sheet to its month and normalizes its rows.
// Sheets whose names are not month labels and rows without an employee id are
// skipped. Sheets resolving to the same month share one bucket, and only the
// first row per employee id is kept in a month.
func Ingest(wb schema.Workbook) *Result {
	res := &Result{Buckets: make(map[string]*Bucket)}
	seenDept := make(map[string]struct{})

	for _, sheet := range wb.Sheets {
		date, ok := parse.ParseSheetDate(sheet.Name)
		if !ok {
			res.Report.SheetsSkipped = append(res.Report.SheetsSkipped, sheet.Name)
			continue
		}
		res.Report.SheetsRead++

		month := schema.NewMonthRef(date)
		bucket, ok := res.Buckets[month.Key]
		if !ok {
			bucket = &Bucket{Month: month, IDs: make(map[string]struct{})}
			res.Buckets[month.Key] = bucket
			res.Keys = append(res.Keys, month.Key)
		}

		for _, row := range sheet.Rows {
			res.Report.RowsRead++
			rec, ok := normalizeRow(row, month)
			if !ok {
				res.Report.RowsSkipped++
				continue
			}
			if _, seen := seenDept[rec.Department]; !seen {
				seenDept[rec.Department] = struct{}{}
				res.Departments = append(res.Departments, rec.Department)
			}
			if bucket.Has(rec.EmployeeID) {
				res.Report.DuplicatesDropped++
				continue
			}
			bucket.Records = append(bucket.Records, rec)
			bucket.IDs[rec.EmployeeID] = struct{}{}
		}
	}

	slices.Sort(res.Keys)
	return res
}

// normalizeRow converts a raw row into an observation for month.
func normalizeRow(row schema.Row, month schema.MonthRef) (schema.EmployeeRecord, bool) {
	id, ok := firstText(row, schema.IDHeaders...)
	if !ok {
		return schema.EmployeeRecord{}, false
	}

	identity := schema.Identity{
		EmployeeID: id,
		Name:       textOr(row, schema.UnknownName, schema.NameHeaders...),
		Position:   textOr(row, "", schema.PositionHeaders...),
		Department: textOr(row, schema.UnassignedDept, schema.DepartmentHeaders...),
	}

	obs := schema.Observation{
		BasicSalary:    parse.ParseMoney(row[schema.HeaderBasicSalary]),
		OtherAllowance: parse.ParseMoney(row[schema.HeaderOtherAllowance]),
		Bonus:          parse.ParseMoney(row[schema.HeaderBonus]),
		BonusType:      textOr(row, schema.NoBonusType, schema.HeaderBonusType),
		LeaveTaken:     parse.ParseNumber(row[schema.HeaderLeaveTaken]),
		LeaveCost:      parse.ParseMoney(row[schema.HeaderLeaveCost]),
		PFEmployee:     parse.ParseMoney(row[schema.HeaderPFEmployee]),
		PFEmployer:     parse.ParseMoney(row[schema.HeaderPFEmployer]),
		TotalSalary:    parse.ParseMoney(row[schema.HeaderTotalSalary]),
		Taxes:          parse.ParseMoney(row[schema.HeaderTaxes]),
		NetSalary:      parse.ParseMoney(row[schema.HeaderNetSalary]),
	}
	if obs.TotalSalary == 0 && obs.BasicSalary > 0 {
		obs.TotalSalary = obs.BasicSalary + obs.OtherAllowance + obs.Bonus
	}
	obs.CTC = obs.TotalSalary + obs.PFEmployer
	obs.LeaveSeverity = schema.SeverityFor(obs.LeaveTaken)

	return schema.NewObservation(identity, month, obs), true
}

// firstText returns the first non-empty value among the given headers.
func firstText(row schema.Row, headers ...string) (string, bool) {
	for _, h := range headers {
		if s, ok := cellText(row[h]); ok {
			return s, true
		}
	}
	return "", false
}

func textOr(row schema.Row, fallback string, headers ...string) string {
	if s, ok := firstText(row, headers...); ok {
		return s
	}
	return fallback
}

// cellText renders a cell as text. Missing cells, empty strings and numeric
// zero count as empty.
func cellText(v any) (string, bool) {
	switch x := v.(type) {
	case nil:
		return "", false
	case string:
		return x, x != ""
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), x != 0
	case int:
		return strconv.Itoa(x), x != 0
	case int64:
		return strconv.FormatInt(x, 10), x != 0
	case bool:
		return strconv.FormatBool(x), x
	default:
		s := fmt.Sprint(x)
		return s, s != ""
	}
}
