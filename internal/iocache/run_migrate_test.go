package iocache

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/paysheet/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tableExists(t *testing.T, dbPath, table string) bool {
	t.Helper()
	db, err := sql.Open("sqlite", dbPath)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	var name string
	err = db.QueryRow("SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", table).Scan(&name)
	if err == sql.ErrNoRows {
		return false
	}
	require.NoError(t, err)
	return true
}

func TestMigrateRunsSQLite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "runs.db")

	require.NoError(t, MigrateRuns(schema.SQLiteBackend, dbPath, -1))
	assert.True(t, tableExists(t, dbPath, runsTable))
	assert.True(t, tableExists(t, dbPath, runMonthsTable))
	assert.True(t, tableExists(t, dbPath, migrationsTable))

	// Already at latest
	require.NoError(t, MigrateRuns(schema.SQLiteBackend, dbPath, -1))

	require.NoError(t, MigrateRuns(schema.SQLiteBackend, dbPath, 1))
	assert.True(t, tableExists(t, dbPath, runsTable))
	assert.False(t, tableExists(t, dbPath, runMonthsTable))

	require.NoError(t, MigrateRuns(schema.SQLiteBackend, dbPath, 0))
	assert.False(t, tableExists(t, dbPath, runsTable))

	require.NoError(t, MigrateRuns(schema.SQLiteBackend, dbPath, 0))
}

func TestMigrateRunsThenStore(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "runs.db")
	require.NoError(t, MigrateRuns(schema.SQLiteBackend, dbPath, -1))

	store, err := NewRunStore(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	_, err = store.BeginRun(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), "w.xlsx", "h")
	assert.NoError(t, err)
}

func TestMigrateRunsErrors(t *testing.T) {
	assert.Error(t, MigrateRuns(schema.NoneBackend, "", -1))
	assert.Error(t, MigrateRuns("oracle", "", -1))
	assert.Error(t, MigrateRuns(schema.SQLiteBackend, filepath.Join(t.TempDir(), "runs.db"), 99))
}

func TestMigrationDirs(t *testing.T) {
	for _, backend := range []schema.DatabaseBackend{schema.SQLiteBackend, schema.MySQLBackend, schema.PostgreSQLBackend} {
		t.Run(string(backend), func(t *testing.T) {
			dir, err := migrationDir(backend)
			require.NoError(t, err)
			entries, err := migrationsFS.ReadDir(dir)
			require.NoError(t, err)
			assert.Len(t, entries, 6, "three up/down pairs")
		})
	}
}
