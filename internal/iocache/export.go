package iocache

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/huangsam/paysheet/internal/contract"
	"github.com/huangsam/paysheet/internal/parquet"
)

// ExecuteRunsExport performs the export of run history to Parquet files.
func ExecuteRunsExport(outputFile string) error {
	store := Manager.GetRunStore()
	if store == nil {
		return errors.New("run store is not initialized")
	}
	return exportRuns(os.Stdout, store, outputFile)
}

// exportRuns writes <outputFile>.runs.parquet and <outputFile>.run_months.parquet.
func exportRuns(out io.Writer, store contract.RunStore, outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get run status: %w", err)
	}

	if status.TotalRuns == 0 {
		return errors.New("no run data found to export")
	}

	_, _ = fmt.Fprintf(out, "Exporting data from %s backend...\n", status.Backend)
	_, _ = fmt.Fprintf(out, "Total runs: %d\n", status.TotalRuns)
	_, _ = fmt.Fprintf(out, "Total month rollups: %d\n", status.TableSizes[runMonthsTable])

	runs, err := store.GetAllRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve runs: %w", err)
	}

	months, err := store.GetAllRunMonths()
	if err != nil {
		return fmt.Errorf("failed to retrieve run months: %w", err)
	}

	parquetRuns := parquet.ConvertRunRecords(runs)
	parquetMonths := parquet.ConvertRunMonthRecords(months)

	runsFile := outputFile + ".runs.parquet"
	if err := parquet.WriteRunsParquet(parquetRuns, runsFile); err != nil {
		return fmt.Errorf("failed to write runs: %w", err)
	}
	_, _ = fmt.Fprintf(out, "Exported %d runs to: %s\n", len(parquetRuns), runsFile)

	monthsFile := outputFile + ".run_months.parquet"
	if err := parquet.WriteRunMonthsParquet(parquetMonths, monthsFile); err != nil {
		return fmt.Errorf("failed to write run months: %w", err)
	}
	_, _ = fmt.Fprintf(out, "Exported %d month rollups to: %s\n", len(parquetMonths), monthsFile)

	_, _ = fmt.Fprintln(out, "\nExport complete! The Parquet files can be used with:")
	_, _ = fmt.Fprintln(out, "  - Pandas (via pyarrow)")
	_, _ = fmt.Fprintln(out, "  - DuckDB")
	_, _ = fmt.Fprintln(out, "  - Any other Parquet-compatible tool")

	return nil
}
