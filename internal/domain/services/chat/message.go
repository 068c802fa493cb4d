package chat

import (
	"context"
	"iter"

	"javis/internal/domain/models/chat"
	"javis/internal/domain/models/publish"
)

// SendMessageRequest carries the user's new message
type SendMessageRequest struct {
	Content string `json:"content"`
}

// SendMessageResult holds exactly one of the two outcomes of a message exchange.
type SendMessageResult struct {
	// Clarification is the persisted system message when the AI asked a follow-up question
	Clarification *chat.Message

	// Stream is the lazy publishing progress feed when the AI produced files.
	// Ranging over it performs the GitHub calls; it can be consumed once.
	Stream iter.Seq[publish.Event]

	// RepoName is the repository the stream publishes to
	RepoName string
}

// IsStream reports whether the result is a publishing stream
func (r *SendMessageResult) IsStream() bool { return r.Stream != nil }

// MessageService defines the conversational operations of a room
type MessageService interface {
	// ListMessages returns the room's messages in conversation order.
	// Returns domain.ErrNotFound if the room does not exist.
	ListMessages(ctx context.Context, roomID int64) ([]chat.Message, error)

	// SendMessage persists the user's message, forwards the conversation to
	// the AI service and acts on its answer. Errors are returned before any
	// streaming begins.
	SendMessage(ctx context.Context, roomID int64, req *SendMessageRequest) (*SendMessageResult, error)
}
