package store

import (
	"context"
	"database/sql"
)

// schema contains the DDL for all BlogFront tables.
// Each statement uses IF NOT EXISTS for idempotency.
var schema = []string{
	// One row per browser context. The credential and the profile share a row
	// so they are always written and deleted together.
	`CREATE TABLE IF NOT EXISTS sessions (
		id         TEXT PRIMARY KEY,
		token      TEXT NOT NULL,
		profile    TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		expires_at INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_sessions_expires_at ON sessions(expires_at)`,
}

// migrate executes all schema DDL statements.
func migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
