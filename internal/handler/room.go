package handler

import (
	"log/slog"
	"net/http"

	chatSvc "javis/internal/domain/services/chat"
	"javis/internal/httputil"
)

// RoomHandler handles chat room HTTP requests
type RoomHandler struct {
	roomService chatSvc.RoomService
	logger      *slog.Logger
}

// NewRoomHandler creates a new room handler
func NewRoomHandler(roomService chatSvc.RoomService, logger *slog.Logger) *RoomHandler {
	return &RoomHandler{
		roomService: roomService,
		logger:      logger,
	}
}

// CreateRoom creates a room. name and repo_url may come from the query
// string or an optional JSON body; the query wins.
// POST /chat/rooms
func (h *RoomHandler) CreateRoom(w http.ResponseWriter, r *http.Request) {
	var body chatSvc.CreateRoomRequest
	if err := httputil.ParseOptionalJSON(w, r, &body); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req := &chatSvc.CreateRoomRequest{
		Name:    firstNonNil(httputil.QueryString(r, "name"), body.Name),
		RepoURL: firstNonNil(httputil.QueryString(r, "repo_url"), body.RepoURL),
	}

	room, err := h.roomService.CreateRoom(r.Context(), req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]int64{"room_id": room.ID})
}

// ListRooms lists all rooms
// GET /chat/rooms
func (h *RoomHandler) ListRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.roomService.ListRooms(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}

	resp := make([]roomResponse, len(rooms))
	for i := range rooms {
		resp[i] = newRoomResponse(&rooms[i])
	}
	httputil.RespondJSON(w, http.StatusOK, resp)
}

// DeleteRoom deletes a room and its messages
// DELETE /chat/rooms/{room_id}
func (h *RoomHandler) DeleteRoom(w http.ResponseWriter, r *http.Request) {
	roomID, ok := roomIDParam(w, r)
	if !ok {
		return
	}

	if err := h.roomService.DeleteRoom(r.Context(), roomID); err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, messageBody{Message: "Room deleted"})
}
