package handler

import (
	"log/slog"
	"net/http"

	chatSvc "javis/internal/domain/services/chat"
	"javis/internal/handler/sse"
	"javis/internal/httputil"
)

// MessageHandler handles the conversation endpoints of a room
type MessageHandler struct {
	messageService chatSvc.MessageService
	sseConfig      *sse.Config
	logger         *slog.Logger
}

// NewMessageHandler creates a new message handler
func NewMessageHandler(messageService chatSvc.MessageService, sseConfig *sse.Config, logger *slog.Logger) *MessageHandler {
	return &MessageHandler{
		messageService: messageService,
		sseConfig:      sseConfig,
		logger:         logger,
	}
}

// ListMessages returns the room's messages oldest first
// GET /chat/rooms/{room_id}/messages
func (h *MessageHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	roomID, ok := roomIDParam(w, r)
	if !ok {
		return
	}

	msgs, err := h.messageService.ListMessages(r.Context(), roomID)
	if err != nil {
		handleError(w, err)
		return
	}

	resp := make([]messageResponse, len(msgs))
	for i := range msgs {
		resp[i] = newMessageResponse(&msgs[i])
	}
	httputil.RespondJSON(w, http.StatusOK, resp)
}

// SendMessage sends a user message. A clarifying question comes back as
// JSON; generated files are published while progress streams as SSE.
// POST /chat/rooms/{room_id}/messages
func (h *MessageHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	roomID, ok := roomIDParam(w, r)
	if !ok {
		return
	}

	var req chatSvc.SendMessageRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.messageService.SendMessage(r.Context(), roomID, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	if !result.IsStream() {
		httputil.RespondJSON(w, http.StatusOK, messageBody{Message: result.Clarification.Content})
		return
	}

	sse.Stream(w, r, result.Stream, h.sseConfig, h.logger.With("room_id", roomID, "repo_name", result.RepoName))
}
