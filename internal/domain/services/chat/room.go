package chat

import (
	"context"

	"javis/internal/domain/models/chat"
)

// CreateRoomRequest represents a request to create a room. Both fields are optional.
type CreateRoomRequest struct {
	Name    *string `json:"name"`
	RepoURL *string `json:"repo_url"`
}

// RoomService defines business logic operations for chat rooms
type RoomService interface {
	// CreateRoom creates a new room
	CreateRoom(ctx context.Context, req *CreateRoomRequest) (*chat.Room, error)

	// GetRoom retrieves a room by ID
	GetRoom(ctx context.Context, id int64) (*chat.Room, error)

	// ListRooms retrieves all rooms
	ListRooms(ctx context.Context) ([]chat.Room, error)

	// DeleteRoom deletes a room together with its messages
	DeleteRoom(ctx context.Context, id int64) error
}
