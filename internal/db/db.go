package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// Open opens (or creates) the SQLite database at path and applies pending
// migrations from the embedded migrations directory.
func Open(path string) (*sql.DB, error) {
	return OpenContext(context.Background(), path)
}

// OpenContext is Open bounded by ctx for the ping and migration steps.
func OpenContext(ctx context.Context, path string) (*sql.DB, error) {
	if path == "" {
		path = "sweetshop.db"
	}
	d, err := sql.Open("sqlite3", withConnParams(path))
	if err != nil {
		return nil, err
	}
	if err := d.PingContext(ctx); err != nil {
		_ = d.Close()
		return nil, fmt.Errorf("ping %s: %w", path, err)
	}
	// journal_mode may not be supported in some contexts (e.g., in-memory). Ignore errors.
	_, _ = d.ExecContext(ctx, `PRAGMA journal_mode=WAL`)
	if err := Migrate(ctx, d); err != nil {
		_ = d.Close()
		return nil, err
	}
	return d, nil
}

// withConnParams appends the go-sqlite3 DSN pragmas that must hold on every
// pooled connection.
func withConnParams(dsn string) string {
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_busy_timeout=5000&_foreign_keys=on"
}
