// Package audit records every mutating timeline operation in a local
// SQLite database. The trail exists for the security and log-analysis
// tooling that references snapshot ids long after they may have been
// pruned; rows are append-only and never deleted by the engine.
package audit

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// Log provides SQLite operations for the audit trail.
type Log struct {
	db *sql.DB
}

// Open creates a Log backed by the database at path. Use ":memory:"
// for in-memory databases (useful for testing). The schema is created
// on open if missing.
func Open(path string) (*Log, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit database: %w", err)
	}

	// SQLite only allows one writer at a time.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create audit schema: %w", err)
	}
	return &Log{db: db}, nil
}

// Close closes the database connection.
func (l *Log) Close() error {
	if l.db != nil {
		return l.db.Close()
	}
	return nil
}
