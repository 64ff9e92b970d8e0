// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"time"

	"github.com/huangsam/paysheet/schema"
)

// CacheManager defines the interface for managing cache stores.
// This allows the cache layer to be mocked for testing.
type CacheManager interface {
	GetCacheStore() CacheStore
	GetRunStore() RunStore
}

// CacheStore defines the interface for cache data storage.
// This allows mocking the store for testing.
type CacheStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	GetStatus() (schema.CacheStatus, error)
	Close() error
}

// RunStore defines the interface for tracking ingestion runs and their monthly rollups.
type RunStore interface {
	// BeginRun creates a new ingestion run and returns its unique ID
	BeginRun(startTime time.Time, workbookName, workbookHash string) (int64, error)

	// EndRun updates the run with completion data
	EndRun(runID int64, endTime time.Time, totalMonths, totalRecords int) error

	// RecordMonth stores the headline figures of one month of a run
	RecordMonth(month schema.RunMonthRecord) error

	// GetStatus returns status information about the run store
	GetStatus() (schema.RunStatus, error)

	// GetAllRuns returns every run ordered by ID
	GetAllRuns() ([]schema.RunRecord, error)

	// GetAllRunMonths returns every month rollup ordered by run ID and month key
	GetAllRunMonths() ([]schema.RunMonthRecord, error)

	// Close closes the underlying connection
	Close() error
}
