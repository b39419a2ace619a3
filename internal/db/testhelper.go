package db

import (
	"database/sql"
	"path/filepath"
	"testing"
)

// OpenTest opens a hardened SQLite pool in t.TempDir(), runs all pending
// migrations, and registers cleanup.
func OpenTest(t *testing.T) *sql.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.sqlite")

	pool, err := Open(path)
	if err != nil {
		t.Fatalf("open test sqlite: %v", err)
	}
	t.Cleanup(func() {
		_ = pool.Close()
	})

	if err := RunMigrations(pool); err != nil {
		t.Fatalf("run migrations: %v", err)
	}

	return pool
}
