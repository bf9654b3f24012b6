package storage

import (
	"database/sql"
	"fmt"
)

// Migrate creates the CRM tables if they do not exist. The primary key
// column type is the only driver-specific piece of DDL.
func Migrate(db *sql.DB, driver string) error {
	pk := "INTEGER PRIMARY KEY AUTOINCREMENT"
	ts := "TIMESTAMP"
	if driver == DriverPostgres {
		pk = "BIGSERIAL PRIMARY KEY"
		ts = "TIMESTAMPTZ"
	}

	statements := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS users (
			id %s,
			name TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			password TEXT NOT NULL,
			role TEXT NOT NULL,
			created_at %s NOT NULL,
			updated_at %s NOT NULL
		)`, pk, ts, ts),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS customers (
			id %s,
			name TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			phone TEXT NOT NULL UNIQUE,
			company TEXT,
			created_at %s NOT NULL,
			updated_at %s NOT NULL
		)`, pk, ts, ts),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS tasks (
			id %s,
			title TEXT NOT NULL,
			description TEXT,
			status TEXT NOT NULL,
			assigned_to BIGINT NOT NULL REFERENCES users(id),
			customer_id BIGINT NOT NULL REFERENCES customers(id),
			created_at %s NOT NULL,
			updated_at %s NOT NULL
		)`, pk, ts, ts),
		`CREATE INDEX IF NOT EXISTS idx_tasks_assigned_to ON tasks(assigned_to)`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_customer_id ON tasks(customer_id)`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	return nil
}
