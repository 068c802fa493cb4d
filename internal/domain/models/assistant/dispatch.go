package assistant

import (
	"time"

	"javis/internal/domain/models/chat"
)

// DispatchRequest is the payload posted to the generate-code endpoint.
type DispatchRequest struct {
	Room           RoomInfo       `json:"room"`
	MessageHistory []HistoryEntry `json:"message_history"`
	NewMessage     NewMessage     `json:"new_message"`
}

// RoomInfo identifies the conversation
type RoomInfo struct {
	ID        int64      `json:"id"`
	Name      *string    `json:"name"`
	CreatedAt *time.Time `json:"created_at"`
}

// HistoryEntry is one prior message, oldest first
type HistoryEntry struct {
	Content   string    `json:"content"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// NewMessage is the message being sent; Role is always "user"
type NewMessage struct {
	Content string `json:"content"`
	Role    string `json:"role"`
}

// BuildDispatchRequest assembles the payload. history must already be in
// ascending creation order and must not contain the new message.
func BuildDispatchRequest(room *chat.Room, history []chat.Message, content string) *DispatchRequest {
	entries := make([]HistoryEntry, len(history))
	for i := range history {
		entries[i] = HistoryEntry{
			Content:   history[i].Content,
			Role:      history[i].Sender(),
			CreatedAt: history[i].CreatedAt,
		}
	}

	info := RoomInfo{ID: room.ID, Name: room.Name}
	if !room.CreatedAt.IsZero() {
		createdAt := room.CreatedAt
		info.CreatedAt = &createdAt
	}

	return &DispatchRequest{
		Room:           info,
		MessageHistory: entries,
		NewMessage: NewMessage{
			Content: content,
			Role:    chat.SenderUser,
		},
	}
}
