package core

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/huangsam/paysheet/core/agg"
	"github.com/huangsam/paysheet/core/enrich"
	"github.com/huangsam/paysheet/core/ingest"
	"github.com/huangsam/paysheet/internal/contract"
	"github.com/huangsam/paysheet/internal/workbook"
	"github.com/huangsam/paysheet/schema"
	"go.uber.org/zap"
)

// Dataset is the enriched record stream of one workbook. It is immutable once built.
type Dataset struct {
	name        string
	digest      string
	records     []schema.EmployeeRecord
	months      []schema.MonthRef // chronological
	departments []string
	report      schema.IngestReport
}

// Load reads the workbook at path and builds its dataset. Any failure is
// returned as a single wrapped error and no partial dataset is produced.
func Load(ctx context.Context, path string) (*Dataset, error) {
	wb, err := workbook.Open(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("could not process file: %w", err)
	}
	return FromWorkbook(wb), nil
}

// FromWorkbook runs ingestion and enrichment over an already loaded workbook.
func FromWorkbook(wb schema.Workbook) *Dataset {
	res := ingest.Ingest(wb)
	stream := enrich.Enrich(res.Buckets, res.Keys)

	months := make([]schema.MonthRef, 0, len(res.Keys))
	for _, key := range res.Keys {
		months = append(months, res.Buckets[key].Month)
	}

	logger := contract.Logger()
	logger.Debug("ingested workbook",
		zap.String("workbook", wb.Name),
		zap.Int("sheets_read", res.Report.SheetsRead),
		zap.Strings("sheets_skipped", res.Report.SheetsSkipped),
		zap.Int("rows_read", res.Report.RowsRead),
		zap.Int("rows_skipped", res.Report.RowsSkipped),
		zap.Int("records", len(stream)),
	)
	if res.Report.DuplicatesDropped > 0 {
		logger.Warn("dropped duplicate employee rows within a month",
			zap.String("workbook", wb.Name),
			zap.Int("duplicates", res.Report.DuplicatesDropped),
		)
	}

	return &Dataset{
		name:        wb.Name,
		digest:      wb.Digest,
		records:     stream,
		months:      months,
		departments: res.Departments,
		report:      res.Report,
	}
}

// Name is the workbook file name.
func (d *Dataset) Name() string { return d.name }

// Digest is the sha256 of the workbook bytes, empty for in-memory workbooks.
func (d *Dataset) Digest() string { return d.digest }

// Records returns a copy of the full record stream ordered by month.
func (d *Dataset) Records() []schema.EmployeeRecord {
	return slices.Clone(d.records)
}

// Views flattens the full record stream.
func (d *Dataset) Views() []schema.RecordView {
	return schema.Views(d.records)
}

// Months returns the month references in chronological order.
func (d *Dataset) Months() []schema.MonthRef {
	return slices.Clone(d.months)
}

// AllMonths returns the month labels in chronological order.
func (d *Dataset) AllMonths() []string {
	labels := make([]string, 0, len(d.months))
	for _, m := range d.months {
		labels = append(labels, m.Label)
	}
	return labels
}

// Departments returns every department in first-seen order.
func (d *Dataset) Departments() []string {
	return slices.Clone(d.departments)
}

// Report returns the ingestion counters.
func (d *Dataset) Report() schema.IngestReport {
	return d.report
}

// Summary returns the dataset-level facts.
func (d *Dataset) Summary() schema.Summary {
	if len(d.months) == 0 {
		return schema.Summary{LatestMonth: schema.NoDataLabel}
	}
	return schema.Summary{LatestMonth: d.months[len(d.months)-1].Label}
}

// DatasetSummary returns the overview printed by the summary command.
func (d *Dataset) DatasetSummary() schema.DatasetSummary {
	exits := 0
	for _, r := range d.records {
		if r.IsExiter() {
			exits++
		}
	}
	report := d.report
	report.SheetsSkipped = slices.Clone(report.SheetsSkipped)
	if report.SheetsSkipped == nil {
		report.SheetsSkipped = []string{}
	}
	return schema.DatasetSummary{
		Workbook:    d.name,
		LatestMonth: d.Summary().LatestMonth,
		AllMonths:   d.AllMonths(),
		Departments: d.nonNilDepartments(),
		Records:     len(d.records),
		Exits:       exits,
		Report:      report,
	}
}

func (d *Dataset) nonNilDepartments() []string {
	if d.departments == nil {
		return []string{}
	}
	return d.Departments()
}

// Aggregate computes the analytics of the selected month labels.
func (d *Dataset) Aggregate(selected []string) *schema.AggregationResult {
	return agg.Aggregate(d.records, selected, d.AllMonths())
}

// History returns every record of one employee ascending by month key.
func (d *Dataset) History(employeeID string) []schema.RecordView {
	id := strings.TrimSpace(employeeID)
	var views []schema.RecordView
	for _, r := range d.records {
		if r.EmployeeID == id {
			views = append(views, r.View())
		}
	}
	slices.SortStableFunc(views, func(a, b schema.RecordView) int {
		return strings.Compare(a.MonthKey, b.MonthKey)
	})
	return views
}
