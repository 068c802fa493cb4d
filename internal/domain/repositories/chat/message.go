package chat

import (
	"context"

	"javis/internal/domain/models/chat"
)

// MessageRepository defines data access for room messages.
// Messages are append-only.
type MessageRepository interface {
	// Create inserts a message and fills in its ID.
	// A zero CreatedAt is set to the current UTC time.
	Create(ctx context.Context, msg *chat.Message) error

	// ListByRoom returns a room's messages in conversation order
	// (created_at ascending, ties broken by ID). Returns empty slice if none.
	ListByRoom(ctx context.Context, roomID int64) ([]chat.Message, error)
}
