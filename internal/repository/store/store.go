// Package store selects and opens the conversation store named by
// DATABASE_URL.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5/stdlib"

	"javis/internal/domain/repositories"
	chatRepo "javis/internal/domain/repositories/chat"
	"javis/internal/repository/migrations"
	"javis/internal/repository/postgres"
	postgresChat "javis/internal/repository/postgres/chat"
	"javis/internal/repository/sqlite"
)

// Store bundles the repositories of one open database
type Store struct {
	Rooms    chatRepo.RoomRepository
	Messages chatRepo.MessageRepository
	Tx       repositories.TransactionManager
	// Ping checks the database is reachable
	Ping func(ctx context.Context) error
	// Close releases the connection or pool
	Close func()
	// Driver is "postgres" or "sqlite"
	Driver string
}

// IsPostgresURL reports whether databaseURL names a Postgres server
func IsPostgresURL(databaseURL string) bool {
	return strings.HasPrefix(databaseURL, "postgres://") || strings.HasPrefix(databaseURL, "postgresql://")
}

// Open connects to Postgres for postgres:// URLs and to SQLite otherwise.
// Pending migrations are applied before the store is returned.
func Open(ctx context.Context, databaseURL string, logger *slog.Logger) (*Store, error) {
	if !IsPostgresURL(databaseURL) {
		path := sqlite.PathFromURL(databaseURL)
		db, err := sqlite.Open(ctx, path, logger)
		if err != nil {
			return nil, err
		}
		logger.Info("database connected", "driver", "sqlite", "path", path)
		return &Store{
			Driver:   "sqlite",
			Rooms:    sqlite.NewRoomRepository(db, logger),
			Messages: sqlite.NewMessageRepository(db, logger),
			Tx:       sqlite.NewTransactionManager(db, logger),
			Ping:     db.PingContext,
			Close:    func() { _ = db.Close() },
		}, nil
	}

	pool, err := postgres.CreateConnectionPool(ctx, databaseURL)
	if err != nil {
		return nil, err
	}

	// goose works on database/sql; borrow a handle backed by the same pool
	sqlDB := stdlib.OpenDBFromPool(pool)
	err = migrations.Up(ctx, sqlDB, migrations.Postgres, logger)
	_ = sqlDB.Close()
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("running schema migration: %w", err)
	}

	logger.Info("database connected",
		"driver", "postgres",
		"max_conns", pool.Config().MaxConns,
		"min_conns", pool.Config().MinConns,
	)

	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: postgres.NewTableNames(),
		Logger: logger,
	}
	return &Store{
		Driver:   "postgres",
		Rooms:    postgresChat.NewRoomRepository(repoConfig),
		Messages: postgresChat.NewMessageRepository(repoConfig),
		Tx:       postgres.NewTransactionManager(pool, logger),
		Ping:     pool.Ping,
		Close:    pool.Close,
	}, nil
}
