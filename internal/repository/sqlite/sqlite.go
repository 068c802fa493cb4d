// Package sqlite implements the conversation store on SQLite through the pure
// Go modernc.org/sqlite driver. It backs local development and tests.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"javis/internal/repository/migrations"
)

// timeLayout is fixed-width so text ordering matches time ordering
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Open opens (creating if needed) the database at path and applies the schema.
// path may be ":memory:". Foreign keys are enforced so room deletion cascades.
func Open(ctx context.Context, path string, logger *slog.Logger) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// One connection: SQLite serializes writers anyway, and an in-memory
	// database exists only inside the connection that created it.
	db.SetMaxOpenConns(1)

	if err := migrations.Up(ctx, db, migrations.SQLite, logger); err != nil {
		db.Close()
		return nil, fmt.Errorf("running schema migration: %w", err)
	}
	return db, nil
}

// PathFromURL strips the sqlite: / file: scheme from a DATABASE_URL
func PathFromURL(databaseURL string) string {
	path := strings.TrimPrefix(databaseURL, "sqlite://")
	path = strings.TrimPrefix(path, "sqlite:")
	return strings.TrimPrefix(path, "file:")
}

func dsn(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	pragmas := "_pragma=foreign_keys(on)"
	if path != ":memory:" {
		pragmas += "&_pragma=journal_mode(wal)"
	}
	return path + sep + pragmas
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return t, nil
}
