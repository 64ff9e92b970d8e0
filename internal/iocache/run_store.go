package iocache

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/huangsam/paysheet/internal/contract"
	"github.com/huangsam/paysheet/schema"
)

// Table names for run tracking.
const (
	runsTable       = "paysheet_runs"
	runMonthsTable  = "paysheet_run_months"
	migrationsTable = "paysheet_schema_migrations"
)

// mysqlDateTimeLayout is how DATETIME(6) columns come back without parseTime.
const mysqlDateTimeLayout = "2006-01-02 15:04:05.999999"

// RunStoreImpl implements the RunStore interface.
type RunStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.RunStore = &RunStoreImpl{} // Compile-time check

// NewRunStore creates a new RunStore with the specified backend.
func NewRunStore(backend schema.DatabaseBackend, connStr string) (contract.RunStore, error) {
	if backend == schema.NoneBackend {
		// Return a no-op store for disabled tracking
		return &RunStoreImpl{backend: backend}, nil
	}

	db, err := openDB(backend, connStr, GetRunsDBFilePath())
	if err != nil {
		return nil, err
	}

	if err := createRunTables(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create run tables: %w", err)
	}

	return &RunStoreImpl{db: db, backend: backend}, nil
}

// createRunTables creates the run tracking tables.
func createRunTables(db *sql.DB, backend schema.DatabaseBackend) error {
	tables := []struct {
		name  string
		query string
	}{
		{runsTable, getCreateRunsQuery(backend)},
		{runMonthsTable, getCreateRunMonthsQuery(backend)},
	}

	for _, table := range tables {
		if _, err := db.Exec(table.query); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table.name, err)
		}
	}
	return nil
}

// getCreateRunsQuery returns the CREATE TABLE query for paysheet_runs.
func getCreateRunsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(runsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT AUTO_INCREMENT PRIMARY KEY,
				start_time DATETIME(6) NOT NULL,
				end_time DATETIME(6),
				run_duration_ms INT,
				workbook_name VARCHAR(512) NOT NULL,
				workbook_hash VARCHAR(64) NOT NULL,
				total_months INT NOT NULL DEFAULT 0,
				total_records INT NOT NULL DEFAULT 0
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGSERIAL PRIMARY KEY,
				start_time TIMESTAMPTZ NOT NULL,
				end_time TIMESTAMPTZ,
				run_duration_ms INT,
				workbook_name TEXT NOT NULL,
				workbook_hash TEXT NOT NULL,
				total_months INT NOT NULL DEFAULT 0,
				total_records INT NOT NULL DEFAULT 0
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id INTEGER PRIMARY KEY AUTOINCREMENT,
				start_time TEXT NOT NULL,
				end_time TEXT,
				run_duration_ms INTEGER,
				workbook_name TEXT NOT NULL,
				workbook_hash TEXT NOT NULL,
				total_months INTEGER NOT NULL DEFAULT 0,
				total_records INTEGER NOT NULL DEFAULT 0
			);
		`, quotedTableName)
	}
}

// getCreateRunMonthsQuery returns the CREATE TABLE query for paysheet_run_months.
func getCreateRunMonthsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(runMonthsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT NOT NULL,
				month_key CHAR(7) NOT NULL,
				month_label VARCHAR(16) NOT NULL,
				headcount INT NOT NULL,
				joiners INT NOT NULL,
				exits INT NOT NULL,
				increments INT NOT NULL,
				total_cost DOUBLE NOT NULL,
				total_ctc DOUBLE NOT NULL,
				PRIMARY KEY (run_id, month_key)
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT NOT NULL,
				month_key TEXT NOT NULL,
				month_label TEXT NOT NULL,
				headcount INT NOT NULL,
				joiners INT NOT NULL,
				exits INT NOT NULL,
				increments INT NOT NULL,
				total_cost DOUBLE PRECISION NOT NULL,
				total_ctc DOUBLE PRECISION NOT NULL,
				PRIMARY KEY (run_id, month_key)
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id INTEGER NOT NULL,
				month_key TEXT NOT NULL,
				month_label TEXT NOT NULL,
				headcount INTEGER NOT NULL,
				joiners INTEGER NOT NULL,
				exits INTEGER NOT NULL,
				increments INTEGER NOT NULL,
				total_cost REAL NOT NULL,
				total_ctc REAL NOT NULL,
				PRIMARY KEY (run_id, month_key)
			);
		`, quotedTableName)
	}
}

// BeginRun creates a new ingestion run and returns its unique ID.
func (rs *RunStoreImpl) BeginRun(startTime time.Time, workbookName, workbookHash string) (int64, error) {
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return 0, nil
	}

	quotedTableName := quoteTableName(runsTable, rs.backend)

	var runID int64
	var err error
	switch rs.backend {
	case schema.PostgreSQLBackend:
		query := fmt.Sprintf(`INSERT INTO %s (start_time, workbook_name, workbook_hash) VALUES ($1, $2, $3) RETURNING run_id`, quotedTableName)
		err = rs.db.QueryRow(query, startTime, workbookName, workbookHash).Scan(&runID)
	default: // SQLite and MySQL
		query := fmt.Sprintf(`INSERT INTO %s (start_time, workbook_name, workbook_hash) VALUES (?, ?, ?)`, quotedTableName)
		var result sql.Result
		result, err = rs.db.Exec(query, formatTime(startTime, rs.backend), workbookName, workbookHash)
		if err == nil {
			runID, err = result.LastInsertId()
		}
	}

	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}
	return runID, nil
}

// EndRun updates the run with completion data.
func (rs *RunStoreImpl) EndRun(runID int64, endTime time.Time, totalMonths, totalRecords int) error {
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return nil
	}

	quotedTableName := quoteTableName(runsTable, rs.backend)
	ph := placeholders(rs.backend, 5)

	query := fmt.Sprintf(`SELECT start_time FROM %s WHERE run_id = %s`, quotedTableName, ph[0])
	startTime, err := rs.scanTime(rs.db.QueryRow(query, runID))
	if err != nil {
		return fmt.Errorf("failed to get start_time for run %d: %w", runID, err)
	}

	durationMs := endTime.Sub(startTime).Milliseconds()

	updateQuery := fmt.Sprintf(`UPDATE %s SET end_time = %s, run_duration_ms = %s, total_months = %s, total_records = %s WHERE run_id = %s`,
		quotedTableName, ph[0], ph[1], ph[2], ph[3], ph[4])
	if _, err := rs.db.Exec(updateQuery, formatTime(endTime, rs.backend), durationMs, totalMonths, totalRecords, runID); err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}
	return nil
}

// RecordMonth stores the headline figures of one month of a run.
func (rs *RunStoreImpl) RecordMonth(month schema.RunMonthRecord) error {
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return nil
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (run_id, month_key, month_label, headcount, joiners, exits, increments, total_cost, total_ctc)
		VALUES (%s)
	`, quoteTableName(runMonthsTable, rs.backend), strings.Join(placeholders(rs.backend, 9), ", "))

	_, err := rs.db.Exec(query,
		month.RunID, month.MonthKey, month.MonthLabel, month.Headcount, month.Joiners,
		month.Exits, month.Increments, month.TotalCost, month.TotalCTC,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run month %s: %w", month.MonthKey, err)
	}
	return nil
}

// Close closes the underlying connection.
func (rs *RunStoreImpl) Close() error {
	if rs.db != nil {
		return rs.db.Close()
	}
	return nil
}

// GetStatus returns status information about the run store.
func (rs *RunStoreImpl) GetStatus() (schema.RunStatus, error) {
	status := schema.RunStatus{
		Backend:    string(rs.backend),
		Connected:  rs.db != nil,
		TableSizes: make(map[string]int64),
	}

	if rs.backend == schema.NoneBackend || rs.db == nil {
		return status, nil
	}

	quotedRuns := quoteTableName(runsTable, rs.backend)

	if err := rs.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", quotedRuns)).Scan(&status.TotalRuns); err != nil {
		return status, fmt.Errorf("failed to get total runs: %w", err)
	}

	if status.TotalRuns > 0 {
		lastRunQuery := fmt.Sprintf("SELECT run_id, start_time FROM %s ORDER BY run_id DESC LIMIT 1", quotedRuns)
		var lastStart any
		if err := rs.db.QueryRow(lastRunQuery).Scan(&status.LastRunID, &lastStart); err != nil {
			return status, fmt.Errorf("failed to get last run info: %w", err)
		}
		lastRunTime, err := rs.parseTime(lastStart)
		if err != nil {
			return status, fmt.Errorf("failed to parse last run time: %w", err)
		}
		status.LastRunTime = lastRunTime

		oldestRunQuery := fmt.Sprintf("SELECT start_time FROM %s ORDER BY run_id ASC LIMIT 1", quotedRuns)
		oldestRunTime, err := rs.scanTime(rs.db.QueryRow(oldestRunQuery))
		if err != nil {
			return status, fmt.Errorf("failed to get oldest run time: %w", err)
		}
		status.OldestRunTime = oldestRunTime

		recordsQuery := fmt.Sprintf("SELECT COALESCE(SUM(total_records), 0) FROM %s", quotedRuns)
		if err := rs.db.QueryRow(recordsQuery).Scan(&status.TotalRecords); err != nil {
			return status, fmt.Errorf("failed to get total records: %w", err)
		}
	}

	for _, table := range []string{runsTable, runMonthsTable} {
		countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(table, rs.backend))
		var count int64
		if err := rs.db.QueryRow(countQuery).Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}

	return status, nil
}

// GetAllRuns retrieves all runs from the store.
func (rs *RunStoreImpl) GetAllRuns() ([]schema.RunRecord, error) {
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, start_time, end_time, run_duration_ms, workbook_name, workbook_hash, total_months, total_records
		FROM %s ORDER BY run_id`, quoteTableName(runsTable, rs.backend))

	rows, err := rs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.RunRecord
	for rows.Next() {
		var record schema.RunRecord
		var start, end any
		if err := rows.Scan(&record.RunID, &start, &end, &record.RunDurationMs,
			&record.WorkbookName, &record.WorkbookHash, &record.TotalMonths, &record.TotalRecords); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}

		if record.StartTime, err = rs.parseTime(start); err != nil {
			return nil, fmt.Errorf("failed to parse start_time: %w", err)
		}
		if end != nil {
			endTime, err := rs.parseTime(end)
			if err != nil {
				return nil, fmt.Errorf("failed to parse end_time: %w", err)
			}
			record.EndTime = &endTime
		}
		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}
	return results, nil
}

// GetAllRunMonths retrieves all month rollups from the store.
func (rs *RunStoreImpl) GetAllRunMonths() ([]schema.RunMonthRecord, error) {
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, month_key, month_label, headcount, joiners, exits, increments, total_cost, total_ctc
		FROM %s ORDER BY run_id, month_key`, quoteTableName(runMonthsTable, rs.backend))

	rows, err := rs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query run months: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.RunMonthRecord
	for rows.Next() {
		var m schema.RunMonthRecord
		if err := rows.Scan(&m.RunID, &m.MonthKey, &m.MonthLabel, &m.Headcount, &m.Joiners,
			&m.Exits, &m.Increments, &m.TotalCost, &m.TotalCTC); err != nil {
			return nil, fmt.Errorf("failed to scan run month: %w", err)
		}
		results = append(results, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating run months: %w", err)
	}
	return results, nil
}

// scanTime reads a single timestamp column.
func (rs *RunStoreImpl) scanTime(row *sql.Row) (time.Time, error) {
	var v any
	if err := row.Scan(&v); err != nil {
		return time.Time{}, err
	}
	return rs.parseTime(v)
}

// parseTime converts a scanned timestamp into time.Time. SQLite stores RFC3339
// text, PostgreSQL returns native timestamps, and MySQL returns either
// depending on the parseTime DSN option.
func (rs *RunStoreImpl) parseTime(v any) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t, nil
	case string:
		return parseTimeText(t)
	case []byte:
		return parseTimeText(string(t))
	default:
		return time.Time{}, fmt.Errorf("unexpected time value %T", v)
	}
}

func parseTimeText(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	return time.Parse(mysqlDateTimeLayout, s)
}

// formatTime converts a time.Time to the appropriate format for the backend.
func formatTime(t time.Time, backend schema.DatabaseBackend) any {
	switch backend {
	case schema.SQLiteBackend:
		return t.Format(time.RFC3339Nano)
	default:
		return t
	}
}
