package chat

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"javis/internal/domain"
	chatModels "javis/internal/domain/models/chat"
	chatRepo "javis/internal/domain/repositories/chat"
	"javis/internal/repository/postgres"
)

// PostgresMessageRepository implements chatRepo.MessageRepository using PostgreSQL
type PostgresMessageRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
	logger *slog.Logger
}

// NewMessageRepository creates a new PostgresMessageRepository
func NewMessageRepository(config *postgres.RepositoryConfig) chatRepo.MessageRepository {
	return &PostgresMessageRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Create inserts a message
func (r *PostgresMessageRepository) Create(ctx context.Context, msg *chatModels.Message) error {
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (chat_room_id, content, is_system, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, r.tables.Messages)

	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		msg.RoomID,
		msg.Content,
		msg.IsSystem,
		msg.CreatedAt,
	).Scan(&msg.ID)
	if err != nil {
		if postgres.IsPgForeignKeyError(err) {
			return fmt.Errorf("room %d: %w", msg.RoomID, domain.ErrNotFound)
		}
		return fmt.Errorf("create message: %w", err)
	}

	return nil
}

// ListByRoom retrieves a room's messages in conversation order
func (r *PostgresMessageRepository) ListByRoom(ctx context.Context, roomID int64) ([]chatModels.Message, error) {
	query := fmt.Sprintf(`
		SELECT id, chat_room_id, content, is_system, created_at
		FROM %s
		WHERE chat_room_id = $1
		ORDER BY created_at ASC, id ASC
	`, r.tables.Messages)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, roomID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	messages := []chatModels.Message{}
	for rows.Next() {
		var msg chatModels.Message
		if err := rows.Scan(&msg.ID, &msg.RoomID, &msg.Content, &msg.IsSystem, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		messages = append(messages, msg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate messages: %w", err)
	}

	return messages, nil
}
