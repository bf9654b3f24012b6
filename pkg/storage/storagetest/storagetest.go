// Package storagetest provides shared database helpers for tests.
package storagetest

import (
	"database/sql"
	"testing"

	"github.com/minicrm-io/minicrm/pkg/storage"
)

// NewDB returns a migrated in-memory SQLite database. Each call creates an
// isolated database; it is closed automatically when the test finishes.
func NewDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open(storage.DriverSQLite, "file::memory:?_foreign_keys=on")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	// An in-memory SQLite database exists per connection; keep a single one
	// so every statement sees the same schema.
	db.SetMaxOpenConns(1)

	if err := storage.Migrate(db, storage.DriverSQLite); err != nil {
		db.Close()
		t.Fatalf("failed to migrate test database: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}
