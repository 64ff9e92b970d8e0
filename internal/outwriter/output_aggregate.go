package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/paysheet/internal/contract"
	"github.com/huangsam/paysheet/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteAggregation outputs the period analytics, dispatching based on the output format configured.
func WriteAggregation(result *schema.AggregationResult, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, fmtMoney := createFormatters(cfg)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, result)
		}, "Wrote JSON aggregation"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeAggregationCSV(w, result, fmtFloat)
		}, "Wrote CSV aggregation"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut, schema.XLSXOut:
		return unsupportedMode(cfg.Output, "aggregations")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeAggregationTables(w, result, cfg, fmtMoney, duration)
		}, "Wrote aggregation tables")
	}
	return nil
}

// WriteAnomalies outputs only the anomaly lists of an aggregation.
func WriteAnomalies(result *schema.AggregationResult, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, fmtMoney := createFormatters(cfg)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, result.Anomalies)
		}, "Wrote JSON anomalies"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, aggregationCSVHeader, func(cw *csv.Writer) error {
				return writeAnomalyRows(cw, result.Anomalies, fmtFloat)
			})
		}, "Wrote CSV anomalies"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut, schema.XLSXOut:
		return unsupportedMode(cfg.Output, "anomalies")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			if _, err := fmt.Fprintf(w, "Anomalies for %s\n", periodOrNone(result.Period)); err != nil {
				return err
			}
			if err := writeAnomalyTables(w, result.Anomalies, fmtMoney, cfg.Precision); err != nil {
				return err
			}
			_, err := fmt.Fprintf(w, "Computed in %v\n", duration)
			return err
		}, "Wrote anomaly tables")
	}
	return nil
}

// aggregationCSVHeader is the long-format header shared by aggregation and anomaly CSVs.
var aggregationCSVHeader = []string{"section", "subject", "metric", "value"}

// writeAggregationCSV writes every part of the result as section/subject/metric/value rows.
func writeAggregationCSV(w io.Writer, r *schema.AggregationResult, fmtFloat func(float64) string) error {
	trend := func(p *float64) string {
		if p == nil {
			return ""
		}
		return fmtFloat(*p)
	}
	return writeCSVWithHeader(w, aggregationCSVHeader, func(cw *csv.Writer) error {
		s := r.Snapshot
		rows := [][]string{
			{"snapshot", r.Period, "total_cost", fmtFloat(s.TotalCost)},
			{"snapshot", r.Period, "active_headcount", strconv.Itoa(s.ActiveHeadcount)},
			{"snapshot", r.Period, "cost_trend", trend(s.CostTrend)},
			{"snapshot", r.Period, "headcount_trend", trend(s.HeadcountTrend)},
			{"snapshot", r.Period, "joiners", strconv.Itoa(s.Joiners)},
			{"snapshot", r.Period, "exits", strconv.Itoa(s.Exits)},
			{"snapshot", r.Period, "increments", strconv.Itoa(s.Increments)},
		}
		for _, d := range r.DepartmentCosts {
			rows = append(rows,
				[]string{"department_cost", d.Name, "cost", fmtFloat(d.Cost)},
				[]string{"department_cost", d.Name, "leave", fmtFloat(d.Leave)},
				[]string{"department_cost", d.Name, "active", strconv.Itoa(d.Active)},
			)
		}
		for _, d := range r.DepartmentBonus {
			rows = append(rows, []string{"department_bonus", d.Name, "bonus", fmtFloat(d.Bonus)})
		}
		for _, m := range r.MonthlyTrend {
			rows = append(rows,
				[]string{"trend", m.Month, "total_cost", fmtFloat(m.TotalCost)},
				[]string{"trend", m.Month, "basic", fmtFloat(m.Basic)},
				[]string{"trend", m.Month, "taxes", fmtFloat(m.Taxes)},
				[]string{"trend", m.Month, "bonus", fmtFloat(m.Bonus)},
				[]string{"trend", m.Month, "ctc", fmtFloat(m.CTC)},
				[]string{"trend", m.Month, "headcount", strconv.Itoa(m.Headcount)},
				[]string{"trend", m.Month, "joiners", strconv.Itoa(m.Joiners)},
				[]string{"trend", m.Month, "exits", strconv.Itoa(m.Exits)},
			)
		}
		if err := cw.WriteAll(rows); err != nil {
			return err
		}
		return writeAnomalyRows(cw, r.Anomalies, fmtFloat)
	})
}

// writeAnomalyRows appends the four detector outputs in long format.
func writeAnomalyRows(cw *csv.Writer, a schema.Anomalies, fmtFloat func(float64) string) error {
	var rows [][]string
	for _, s := range a.Stagnant {
		rows = append(rows, []string{"stagnant", s.EmployeeID, "months", strconv.Itoa(s.Months)})
	}
	for _, e := range a.TopEarners {
		rows = append(rows, []string{"top_earner", e.EmployeeID, "amount", fmtFloat(e.Amount)})
	}
	for _, d := range a.RiskDepartments {
		rows = append(rows, []string{"risk_department", d.Name, "leave_ratio", fmtFloat(d.Ratio)})
	}
	for _, o := range a.LeaveOutliers {
		rows = append(rows, []string{"leave_outlier", o.EmployeeID, "days", fmtFloat(o.Days)})
	}
	for _, row := range rows {
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func periodOrNone(label string) string {
	if label == "" {
		return "no selected months"
	}
	return label
}

// renderTable writes one titled table.
func renderTable(w io.Writer, title string, headers []string, data [][]string) error {
	if _, err := fmt.Fprintf(w, "\n%s\n", title); err != nil {
		return err
	}
	table := tablewriter.NewWriter(w)
	table.Header(headers)
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// writeAggregationTables renders the snapshot, department splits, trend series and anomalies.
func writeAggregationTables(w io.Writer, r *schema.AggregationResult, cfg *contract.Config, fmtMoney func(float64) string, duration time.Duration) error {
	trend := contract.GetPlainTrend
	if cfg.UseColors {
		trend = contract.GetColorTrend
	}

	s := r.Snapshot
	snapshot := [][]string{
		{"Total Cost", fmtMoney(s.TotalCost)},
		{"Cost Trend", trend(s.CostTrend, cfg.Precision)},
		{"Active Headcount", formatCount(s.ActiveHeadcount)},
		{"Headcount Trend", trend(s.HeadcountTrend, cfg.Precision)},
		{"Joiners", formatCount(s.Joiners)},
		{"Exits", formatCount(s.Exits)},
		{"Increments", formatCount(s.Increments)},
	}
	if err := renderTable(w, "Snapshot: "+periodOrNone(r.Period), []string{"Metric", "Value"}, snapshot); err != nil {
		return err
	}

	var costs [][]string
	for _, d := range r.DepartmentCosts {
		costs = append(costs, []string{d.Name, fmtMoney(d.Cost), fmtMoney(d.Bonus), fmtNumber(d.Leave, cfg.Precision), formatCount(d.Active)})
	}
	if err := renderTable(w, "Department Costs", []string{"Department", "Cost", "Bonus", "Leave", "Active"}, costs); err != nil {
		return err
	}

	var bonus [][]string
	for _, d := range r.DepartmentBonus {
		bonus = append(bonus, []string{d.Name, fmtMoney(d.Bonus)})
	}
	if err := renderTable(w, "Department Bonus", []string{"Department", "Bonus"}, bonus); err != nil {
		return err
	}

	var series [][]string
	for _, m := range r.MonthlyTrend {
		series = append(series, []string{
			m.Month, fmtMoney(m.TotalCost), fmtMoney(m.Basic), fmtMoney(m.Taxes), fmtMoney(m.Bonus), fmtMoney(m.CTC),
			formatCount(m.Headcount), formatCount(m.Joiners), formatCount(m.Exits),
		})
	}
	if err := renderTable(w, "Monthly Trend", []string{"Month", "Total Cost", "Basic", "Taxes", "Bonus", "CTC", "Headcount", "Joiners", "Exits"}, series); err != nil {
		return err
	}

	if err := writeAnomalyTables(w, r.Anomalies, fmtMoney, cfg.Precision); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Aggregated %d months in %v. Cache backend: %s\n", len(r.SelectedMonths), duration, cfg.CacheBackend)
	return err
}

// writeAnomalyTables renders one table per non-empty detector.
func writeAnomalyTables(w io.Writer, a schema.Anomalies, fmtMoney func(float64) string, precision int) error {
	if len(a.Stagnant) > 0 {
		var data [][]string
		for _, s := range a.Stagnant {
			data = append(data, []string{s.EmployeeID, s.Name, s.Department, strconv.Itoa(s.Months)})
		}
		if err := renderTable(w, "Stagnant Pay", []string{"ID", "Name", "Department", "Months"}, data); err != nil {
			return err
		}
	}
	if len(a.TopEarners) > 0 {
		var data [][]string
		for i, e := range a.TopEarners {
			data = append(data, []string{strconv.Itoa(i + 1), e.EmployeeID, e.Name, fmtMoney(e.Amount)})
		}
		if err := renderTable(w, "Top Earners", []string{"Rank", "ID", "Name", "Total Pay"}, data); err != nil {
			return err
		}
	}
	if len(a.RiskDepartments) > 0 {
		var data [][]string
		for _, d := range a.RiskDepartments {
			data = append(data, []string{d.Name, fmtNumber(d.Ratio, precision)})
		}
		if err := renderTable(w, "Leave Risk Departments", []string{"Department", "Leave per Head"}, data); err != nil {
			return err
		}
	}
	if len(a.LeaveOutliers) > 0 {
		var data [][]string
		for _, o := range a.LeaveOutliers {
			data = append(data, []string{o.EmployeeID, o.Name, fmtNumber(o.Days, precision)})
		}
		if err := renderTable(w, "Leave Outliers", []string{"ID", "Name", "Days"}, data); err != nil {
			return err
		}
	}
	if len(a.Stagnant)+len(a.TopEarners)+len(a.RiskDepartments)+len(a.LeaveOutliers) == 0 {
		_, err := fmt.Fprintln(w, "\nNo anomalies detected.")
		return err
	}
	return nil
}

// fmtNumber groups thousands without a currency prefix.
func fmtNumber(v float64, precision int) string {
	return displayPrinter.Sprintf("%."+strconv.Itoa(precision)+"f", v)
}
