// Package core has core logic for ingestion, enrichment, period selection and analytics.
package core

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/huangsam/paysheet/internal/contract"
	"github.com/huangsam/paysheet/internal/outwriter"
	"github.com/huangsam/paysheet/schema"
)

// ErrNoData is returned when a command needs records the workbook does not have.
var ErrNoData = errors.New("no data")

// ExecutorFunc defines the function signature for executing the different commands.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error

var writer = outwriter.NewOutWriter()

// ExecuteSummary loads the workbook and prints its overview.
func ExecuteSummary(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	summary, err := GetSummaryResult(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return writer.WriteSummary(summary, cfg, time.Since(start))
}

// ExecuteAggregate prints the analytics of the selected period.
func ExecuteAggregate(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	result, err := GetAggregationResult(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return writer.WriteAggregation(result, cfg, time.Since(start))
}

// ExecuteAnomalies prints only the anomaly lists of the selected period.
func ExecuteAnomalies(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	result, err := GetAggregationResult(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return writer.WriteAnomalies(result, cfg, time.Since(start))
}

// ExecuteRecords prints the filtered record view, limited by the result limit.
func ExecuteRecords(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	views, err := GetRecordsResult(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	if cfg.ResultLimit > 0 && len(views) > cfg.ResultLimit {
		views = views[:cfg.ResultLimit]
	}
	return writer.WriteRecords(views, cfg, time.Since(start))
}

// ExecuteHistory prints the month-by-month records of one employee.
func ExecuteHistory(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	views, err := GetHistoryResult(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return writer.WriteHistory(cfg.EmployeeID, views, cfg, time.Since(start))
}

// ExecuteExport writes every filtered record to the output file. The format is
// taken from --output, or from the file extension when --output is text.
func ExecuteExport(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	if cfg.OutputFile == "" {
		return fmt.Errorf("--output-file is required for export command")
	}
	mode, err := exportMode(cfg)
	if err != nil {
		return err
	}
	views, err := GetRecordsResult(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	exportCfg := cfg.Clone()
	exportCfg.Output = mode
	return writer.WriteRecords(views, exportCfg, time.Since(start))
}

// GetSummaryResult loads the workbook and returns its overview.
func GetSummaryResult(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) (schema.DatasetSummary, error) {
	ds, err := loadDataset(ctx, cfg, mgr)
	if err != nil {
		return schema.DatasetSummary{}, err
	}
	return ds.DatasetSummary(), nil
}

// GetAggregationResult loads the workbook and aggregates the configured period,
// defaulting to the latest month.
func GetAggregationResult(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) (*schema.AggregationResult, error) {
	ds, err := loadDataset(ctx, cfg, mgr)
	if err != nil {
		return nil, err
	}
	if len(ds.months) == 0 {
		return nil, fmt.Errorf("%w: %s has no month sheets", ErrNoData, ds.Name())
	}
	selected, err := ds.Resolve(cfg.Months, cfg.Period)
	if err != nil {
		return nil, err
	}
	return CachedAggregate(ds, selected, cfg.CacheTTL, mgr), nil
}

// GetRecordsResult loads the workbook and applies the record filter. Without
// a month list or period every month is searched.
func GetRecordsResult(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) ([]schema.RecordView, error) {
	ds, err := loadDataset(ctx, cfg, mgr)
	if err != nil {
		return nil, err
	}
	var months []string
	if len(cfg.Months) > 0 || cfg.Period != "" {
		if months, err = ds.Resolve(cfg.Months, cfg.Period); err != nil {
			return nil, err
		}
	}
	return NewRecordFilter(cfg, months).Apply(ds.Views()), nil
}

// GetHistoryResult loads the workbook and returns one employee's records.
func GetHistoryResult(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) ([]schema.RecordView, error) {
	if cfg.EmployeeID == "" {
		return nil, fmt.Errorf("--employee is required for history command")
	}
	ds, err := loadDataset(ctx, cfg, mgr)
	if err != nil {
		return nil, err
	}
	views := ds.History(cfg.EmployeeID)
	if len(views) == 0 {
		return nil, fmt.Errorf("%w: employee %s not found", ErrNoData, cfg.EmployeeID)
	}
	return views, nil
}

// loadDataset reads the configured workbook and records the ingestion run.
func loadDataset(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) (*Dataset, error) {
	if cfg.WorkbookPath == "" {
		return nil, fmt.Errorf("a workbook path is required")
	}
	start := time.Now()
	ds, err := Load(ctx, cfg.WorkbookPath)
	if err != nil {
		return nil, err
	}
	recordRun(ds, start, mgr)
	return ds, nil
}

var exportExtensions = map[string]schema.OutputMode{
	".xlsx":    schema.XLSXOut,
	".csv":     schema.CSVOut,
	".json":    schema.JSONOut,
	".parquet": schema.ParquetOut,
}

func exportMode(cfg *contract.Config) (schema.OutputMode, error) {
	if cfg.Output != "" && cfg.Output != schema.TextOut {
		return cfg.Output, nil
	}
	ext := strings.ToLower(filepath.Ext(cfg.OutputFile))
	if mode, ok := exportExtensions[ext]; ok {
		return mode, nil
	}
	return "", fmt.Errorf("cannot infer export format from %q; use --output xlsx, csv, json or parquet", cfg.OutputFile)
}
