// Package outwriter has output and writer logic.
package outwriter

import (
	"time"

	"github.com/huangsam/paysheet/internal/contract"
	"github.com/huangsam/paysheet/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteSummary prints the dataset overview using the configured output format.
func (ow *OutWriter) WriteSummary(summary schema.DatasetSummary, cfg *contract.Config, duration time.Duration) error {
	return WriteSummary(summary, cfg, duration)
}

// WriteAggregation prints period analytics using the configured output format.
func (ow *OutWriter) WriteAggregation(result *schema.AggregationResult, cfg *contract.Config, duration time.Duration) error {
	return WriteAggregation(result, cfg, duration)
}

// WriteAnomalies prints the anomaly lists of a period using the configured output format.
func (ow *OutWriter) WriteAnomalies(result *schema.AggregationResult, cfg *contract.Config, duration time.Duration) error {
	return WriteAnomalies(result, cfg, duration)
}

// WriteRecords prints filtered employee-month records using the configured output format.
func (ow *OutWriter) WriteRecords(views []schema.RecordView, cfg *contract.Config, duration time.Duration) error {
	return WriteRecords(views, cfg, duration)
}

// WriteHistory prints one employee's records using the configured output format.
func (ow *OutWriter) WriteHistory(employeeID string, views []schema.RecordView, cfg *contract.Config, duration time.Duration) error {
	return WriteHistory(employeeID, views, cfg, duration)
}
