package chat

import (
	"fmt"
	"time"
)

const (
	SenderUser   = "user"
	SenderSystem = "system"
)

// GeneratedRepoPrefix prefixes repository names derived from room IDs.
const GeneratedRepoPrefix = "auto-repo-"

// Message is one line of a room's conversation. IsSystem is false for the
// human user and true for the assistant. Messages are never updated; they are
// removed only through the room cascade.
type Message struct {
	ID        int64     `json:"message_id" db:"id"`
	RoomID    int64     `json:"-" db:"chat_room_id"`
	Content   string    `json:"content" db:"content"`
	IsSystem  bool      `json:"is_system" db:"is_system"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Sender returns "system" for assistant messages and "user" otherwise
func (m *Message) Sender() string {
	if m.IsSystem {
		return SenderSystem
	}
	return SenderUser
}

// GeneratedRepoName derives the deterministic repository name for a room
func GeneratedRepoName(roomID int64) string {
	return fmt.Sprintf("%s%d", GeneratedRepoPrefix, roomID)
}
