package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"javis/internal/domain"
	chatModels "javis/internal/domain/models/chat"
	chatRepo "javis/internal/domain/repositories/chat"
)

// MessageRepository implements chatRepo.MessageRepository on SQLite
type MessageRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewMessageRepository creates a new MessageRepository
func NewMessageRepository(db *sql.DB, logger *slog.Logger) chatRepo.MessageRepository {
	return &MessageRepository{db: db, logger: logger}
}

// Create inserts a message
func (r *MessageRepository) Create(ctx context.Context, msg *chatModels.Message) error {
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}

	result, err := GetExecutor(ctx, r.db).ExecContext(ctx,
		`INSERT INTO messages (chat_room_id, content, is_system, created_at) VALUES (?, ?, ?, ?)`,
		msg.RoomID, msg.Content, msg.IsSystem, formatTime(msg.CreatedAt),
	)
	if err != nil {
		if isForeignKeyError(err) {
			return fmt.Errorf("room %d: %w", msg.RoomID, domain.ErrNotFound)
		}
		return fmt.Errorf("create message: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("create message: %w", err)
	}
	msg.ID = id

	return nil
}

// ListByRoom retrieves a room's messages in conversation order
func (r *MessageRepository) ListByRoom(ctx context.Context, roomID int64) ([]chatModels.Message, error) {
	rows, err := GetExecutor(ctx, r.db).QueryContext(ctx, `
		SELECT id, chat_room_id, content, is_system, created_at
		FROM messages
		WHERE chat_room_id = ?
		ORDER BY created_at ASC, id ASC
	`, roomID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	messages := []chatModels.Message{}
	for rows.Next() {
		var (
			msg       chatModels.Message
			createdAt string
		)
		if err := rows.Scan(&msg.ID, &msg.RoomID, &msg.Content, &msg.IsSystem, &createdAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		if msg.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		messages = append(messages, msg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate messages: %w", err)
	}

	return messages, nil
}

// isForeignKeyError matches SQLITE_CONSTRAINT_FOREIGNKEY by message; the
// driver's error codes are not exported through database/sql.
func isForeignKeyError(err error) bool {
	return strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}
