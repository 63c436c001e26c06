package main

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// loadMigrations returns every .sql file under db/migrations keyed by name.
func loadMigrations(t *testing.T) map[string]string {
	t.Helper()
	_, thisFile, _, ok := runtime.Caller(0)
	require.True(t, ok, "runtime.Caller failed")
	dir := filepath.Join(filepath.Dir(thisFile), "..", "..", "db", "migrations")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	out := make(map[string]string)
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".sql" {
			continue
		}
		b, err := os.ReadFile(filepath.Join(dir, e.Name()))
		require.NoError(t, err)
		out[e.Name()] = string(b)
	}
	require.NotEmpty(t, out, "no migrations found")
	return out
}

func TestMigrations_UpPrecedesDown(t *testing.T) {
	for name, sql := range loadMigrations(t) {
		up := strings.Index(sql, "-- +goose Up")
		down := strings.Index(sql, "-- +goose Down")
		require.GreaterOrEqual(t, up, 0, "%s missing Up section", name)
		require.GreaterOrEqual(t, down, 0, "%s missing Down section", name)
		assert.Less(t, up, down, "%s has Down before Up", name)
	}
}

func TestMigrations_CreateKVTable(t *testing.T) {
	var found bool
	for name, sql := range loadMigrations(t) {
		if !strings.Contains(sql, "CREATE TABLE IF NOT EXISTS kv_entries") {
			continue
		}
		found = true
		i := strings.Index(sql, "-- +goose Down")
		require.GreaterOrEqual(t, i, 0, "%s missing Down section", name)
		assert.Contains(t, sql[i:], "DROP TABLE IF EXISTS kv_entries", "%s does not drop kv_entries on rollback", name)
	}
	assert.True(t, found, "no migration creates kv_entries")
}
