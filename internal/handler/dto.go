package handler

import (
	"time"

	"javis/internal/domain/models/chat"
)

type roomResponse struct {
	RoomID    int64     `json:"room_id"`
	Name      *string   `json:"name"`
	RepoURL   *string   `json:"repo_url"`
	CreatedAt time.Time `json:"created_at"`
}

func newRoomResponse(room *chat.Room) roomResponse {
	return roomResponse{
		RoomID:    room.ID,
		Name:      room.Name,
		RepoURL:   room.RepoURL,
		CreatedAt: room.CreatedAt,
	}
}

type messageResponse struct {
	MessageID int64     `json:"message_id"`
	Content   string    `json:"content"`
	Sender    string    `json:"sender"`
	IsSystem  bool      `json:"is_system"`
	CreatedAt time.Time `json:"created_at"`
}

func newMessageResponse(msg *chat.Message) messageResponse {
	return messageResponse{
		MessageID: msg.ID,
		Content:   msg.Content,
		Sender:    msg.Sender(),
		IsSystem:  msg.IsSystem,
		CreatedAt: msg.CreatedAt,
	}
}

// messageBody is the {"message": ...} envelope used for confirmations
type messageBody struct {
	Message string `json:"message"`
}
