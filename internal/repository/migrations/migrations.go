// Package migrations holds the conversation store schema for each supported
// database and applies it with goose.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/pressly/goose/v3"
)

//go:embed postgres/*.sql sqlite/*.sql
var migrationFiles embed.FS

// Dialect selects the migration set
type Dialect string

const (
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite"
)

func (d Dialect) gooseDialect() (goose.Dialect, error) {
	switch d {
	case Postgres:
		return goose.DialectPostgres, nil
	case SQLite:
		return goose.DialectSQLite3, nil
	default:
		return "", fmt.Errorf("unsupported migration dialect %q", d)
	}
}

// Up applies all pending migrations for the dialect
func Up(ctx context.Context, db *sql.DB, dialect Dialect, logger *slog.Logger) error {
	gooseDialect, err := dialect.gooseDialect()
	if err != nil {
		return err
	}

	fsys, err := fs.Sub(migrationFiles, string(dialect))
	if err != nil {
		return fmt.Errorf("open %s migrations: %w", dialect, err)
	}

	provider, err := goose.NewProvider(gooseDialect, db, fsys)
	if err != nil {
		return fmt.Errorf("create migration provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	for _, result := range results {
		logger.Info("migration applied",
			"dialect", dialect,
			"version", result.Source.Version,
			"duration", result.Duration,
		)
	}

	return nil
}
