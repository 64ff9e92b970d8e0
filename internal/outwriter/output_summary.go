package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/paysheet/internal/contract"
	"github.com/huangsam/paysheet/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteSummary outputs the dataset overview, dispatching based on the output format configured.
func WriteSummary(summary schema.DatasetSummary, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, summary)
		}, "Wrote JSON summary"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeSummaryCSV(w, summary)
		}, "Wrote CSV summary"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut, schema.XLSXOut:
		return unsupportedMode(cfg.Output, "summary")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeSummaryTable(w, summary, duration)
		}, "Wrote summary table")
	}
	return nil
}

// summaryFields flattens the summary into ordered key/value pairs.
func summaryFields(s schema.DatasetSummary) [][2]string {
	return [][2]string{
		{"workbook", s.Workbook},
		{"latest_month", s.LatestMonth},
		{"months", strconv.Itoa(len(s.AllMonths))},
		{"first_month", first(s.AllMonths)},
		{"departments", strings.Join(s.Departments, "|")},
		{"records", strconv.Itoa(s.Records)},
		{"exits", strconv.Itoa(s.Exits)},
		{"sheets_read", strconv.Itoa(s.Report.SheetsRead)},
		{"sheets_skipped", strings.Join(s.Report.SheetsSkipped, "|")},
		{"rows_read", strconv.Itoa(s.Report.RowsRead)},
		{"rows_skipped", strconv.Itoa(s.Report.RowsSkipped)},
		{"duplicates_dropped", strconv.Itoa(s.Report.DuplicatesDropped)},
	}
}

func first(labels []string) string {
	if len(labels) == 0 {
		return schema.NoDataLabel
	}
	return labels[0]
}

// writeSummaryCSV writes the summary as key,value rows.
func writeSummaryCSV(w io.Writer, s schema.DatasetSummary) error {
	return writeCSVWithHeader(w, []string{"field", "value"}, func(cw *csv.Writer) error {
		for _, kv := range summaryFields(s) {
			if err := cw.Write(kv[:]); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeSummaryTable renders the summary as a two-column table.
func writeSummaryTable(w io.Writer, s schema.DatasetSummary, duration time.Duration) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Field", "Value"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignLeft
	})

	var data [][]string
	for _, kv := range summaryFields(s) {
		data = append(data, []string{strings.ReplaceAll(kv[0], "_", " "), kv[1]})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Ingested %s records across %d months in %v\n", formatCount(s.Records), len(s.AllMonths), duration)
	return err
}

// unsupportedMode reports an output mode reserved for record exports.
func unsupportedMode(mode schema.OutputMode, what string) error {
	return fmt.Errorf("output %s is not supported for %s; use text, csv or json", mode, what)
}
