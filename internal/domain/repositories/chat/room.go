package chat

import (
	"context"

	"javis/internal/domain/models/chat"
)

// RoomRepository defines data access for chat rooms
type RoomRepository interface {
	// Create inserts a room and fills in its ID and CreatedAt
	Create(ctx context.Context, room *chat.Room) error

	// Get retrieves a room by ID
	// Returns domain.ErrNotFound if not found
	Get(ctx context.Context, id int64) (*chat.Room, error)

	// List returns all rooms ordered by creation time
	// Returns empty slice if there are none
	List(ctx context.Context) ([]chat.Room, error)

	// Delete removes a room and, through the foreign key cascade, its messages
	// Returns domain.ErrNotFound if not found
	Delete(ctx context.Context, id int64) error
}
