package chat

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"javis/internal/domain"
	chatModels "javis/internal/domain/models/chat"
	chatRepo "javis/internal/domain/repositories/chat"
	"javis/internal/repository/postgres"
)

// PostgresRoomRepository implements chatRepo.RoomRepository using PostgreSQL
type PostgresRoomRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
	logger *slog.Logger
}

// NewRoomRepository creates a new PostgresRoomRepository
func NewRoomRepository(config *postgres.RepositoryConfig) chatRepo.RoomRepository {
	return &PostgresRoomRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Create inserts a room
func (r *PostgresRoomRepository) Create(ctx context.Context, room *chatModels.Room) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (name, repo_url)
		VALUES ($1, $2)
		RETURNING id, created_at
	`, r.tables.ChatRooms)

	executor := postgres.GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query, room.Name, room.RepoURL).Scan(&room.ID, &room.CreatedAt); err != nil {
		return fmt.Errorf("create room: %w", err)
	}

	return nil
}

// Get retrieves a room by ID
func (r *PostgresRoomRepository) Get(ctx context.Context, id int64) (*chatModels.Room, error) {
	query := fmt.Sprintf(`
		SELECT id, name, repo_url, created_at
		FROM %s
		WHERE id = $1
	`, r.tables.ChatRooms)

	var room chatModels.Room
	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, id).Scan(
		&room.ID,
		&room.Name,
		&room.RepoURL,
		&room.CreatedAt,
	)
	if err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, fmt.Errorf("room %d: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get room: %w", err)
	}

	return &room, nil
}

// List retrieves all rooms, oldest first
func (r *PostgresRoomRepository) List(ctx context.Context) ([]chatModels.Room, error) {
	query := fmt.Sprintf(`
		SELECT id, name, repo_url, created_at
		FROM %s
		ORDER BY created_at ASC, id ASC
	`, r.tables.ChatRooms)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	defer rows.Close()

	rooms := []chatModels.Room{}
	for rows.Next() {
		var room chatModels.Room
		if err := rows.Scan(&room.ID, &room.Name, &room.RepoURL, &room.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan room: %w", err)
		}
		rooms = append(rooms, room)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rooms: %w", err)
	}

	return rooms, nil
}

// Delete removes a room; messages go with it through ON DELETE CASCADE
func (r *PostgresRoomRepository) Delete(ctx context.Context, id int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.ChatRooms)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete room: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("room %d: %w", id, domain.ErrNotFound)
	}

	return nil
}
