package iocache

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/paysheet/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLiteRunStore(t *testing.T) *RunStoreImpl {
	t.Helper()
	store, err := NewRunStore(schema.SQLiteBackend, filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store.(*RunStoreImpl)
}

func TestRunStoreLifecycle(t *testing.T) {
	store := newSQLiteRunStore(t)
	start := time.Date(2024, 4, 1, 10, 0, 0, 0, time.UTC)

	runID, err := store.BeginRun(start, "payroll.xlsx", "deadbeef")
	require.NoError(t, err)
	assert.Positive(t, runID)

	months := []schema.RunMonthRecord{
		{RunID: runID, MonthKey: "2024-01", MonthLabel: "Jan 2024", Headcount: 3, Joiners: 3, TotalCost: 3000, TotalCTC: 3240},
		{RunID: runID, MonthKey: "2024-02", MonthLabel: "Feb 2024", Headcount: 2, Exits: 1, Increments: 1, TotalCost: 2200, TotalCTC: 2376},
	}
	for _, m := range months {
		require.NoError(t, store.RecordMonth(m))
	}
	require.NoError(t, store.EndRun(runID, start.Add(2*time.Second), 2, 6))

	runs, err := store.GetAllRuns()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, runID, runs[0].RunID)
	assert.True(t, start.Equal(runs[0].StartTime))
	require.NotNil(t, runs[0].EndTime)
	assert.True(t, start.Add(2*time.Second).Equal(*runs[0].EndTime))
	require.NotNil(t, runs[0].RunDurationMs)
	assert.Equal(t, int32(2000), *runs[0].RunDurationMs)
	assert.Equal(t, "deadbeef", runs[0].WorkbookHash)
	assert.Equal(t, int32(2), runs[0].TotalMonths)
	assert.Equal(t, int32(6), runs[0].TotalRecords)

	gotMonths, err := store.GetAllRunMonths()
	require.NoError(t, err)
	assert.Equal(t, months, gotMonths)
}

func TestRunStoreDuplicateMonth(t *testing.T) {
	store := newSQLiteRunStore(t)
	runID, err := store.BeginRun(time.Now(), "w.xlsx", "h")
	require.NoError(t, err)

	month := schema.RunMonthRecord{RunID: runID, MonthKey: "2024-01", MonthLabel: "Jan 2024"}
	require.NoError(t, store.RecordMonth(month))
	assert.Error(t, store.RecordMonth(month))
}

func TestRunStoreEndUnknownRun(t *testing.T) {
	store := newSQLiteRunStore(t)
	assert.Error(t, store.EndRun(42, time.Now(), 0, 0))
}

func TestRunStoreGetStatus(t *testing.T) {
	t.Run("sqlite", func(t *testing.T) {
		store := newSQLiteRunStore(t)

		status, err := store.GetStatus()
		require.NoError(t, err)
		assert.Equal(t, "sqlite", status.Backend)
		assert.True(t, status.Connected)
		assert.Zero(t, status.TotalRuns)

		first := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		id1, err := store.BeginRun(first, "a.xlsx", "a")
		require.NoError(t, err)
		require.NoError(t, store.EndRun(id1, first.Add(time.Second), 1, 4))
		id2, err := store.BeginRun(first.Add(time.Hour), "b.xlsx", "b")
		require.NoError(t, err)
		require.NoError(t, store.RecordMonth(schema.RunMonthRecord{RunID: id2, MonthKey: "2024-01", MonthLabel: "Jan 2024"}))

		status, err = store.GetStatus()
		require.NoError(t, err)
		assert.Equal(t, 2, status.TotalRuns)
		assert.Equal(t, id2, status.LastRunID)
		assert.True(t, first.Add(time.Hour).Equal(status.LastRunTime))
		assert.True(t, first.Equal(status.OldestRunTime))
		assert.Equal(t, 4, status.TotalRecords)
		assert.Equal(t, map[string]int64{runsTable: 2, runMonthsTable: 1}, status.TableSizes)
	})

	t.Run("none", func(t *testing.T) {
		store, err := NewRunStore(schema.NoneBackend, "")
		require.NoError(t, err)

		status, err := store.GetStatus()
		require.NoError(t, err)
		assert.False(t, status.Connected)
		assert.Empty(t, status.TableSizes)

		runs, err := store.GetAllRuns()
		assert.NoError(t, err)
		assert.Nil(t, runs)
		assert.NoError(t, store.RecordMonth(schema.RunMonthRecord{}))
		assert.NoError(t, store.EndRun(1, time.Now(), 0, 0))
		assert.NoError(t, store.Close())
	})
}

func TestParseTime(t *testing.T) {
	want := time.Date(2024, 5, 6, 7, 8, 9, 123456000, time.UTC)
	store := &RunStoreImpl{}

	tests := []struct {
		name    string
		value   any
		wantErr bool
	}{
		{"native", want, false},
		{"rfc3339 text", want.Format(time.RFC3339Nano), false},
		{"mysql bytes", []byte(want.Format(mysqlDateTimeLayout)), false},
		{"garbage", "yesterday", true},
		{"unsupported type", 42, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := store.parseTime(tt.value)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, want.Equal(got), "got %v", got)
		})
	}
}

func TestClearRunsSQLite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "runs.db")
	store, err := NewRunStore(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	require.NoError(t, ClearRuns(schema.SQLiteBackend, dbPath, ""))
	assert.NoFileExists(t, dbPath)
}
