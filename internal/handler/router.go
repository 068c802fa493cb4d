package handler

import "net/http"

// Handlers groups every route handler of the server
type Handlers struct {
	Health   *HealthHandler
	Rooms    *RoomHandler
	Messages *MessageHandler
	GitHub   *GitHubHandler
	CICD     *CICDHandler
}

// NewRouter registers all routes (Go 1.22+ method patterns)
func NewRouter(h *Handlers) *http.ServeMux {
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", h.Health.Health)

	// Chat rooms
	mux.HandleFunc("POST /chat/rooms", h.Rooms.CreateRoom)
	mux.HandleFunc("GET /chat/rooms", h.Rooms.ListRooms)
	mux.HandleFunc("DELETE /chat/rooms/{room_id}", h.Rooms.DeleteRoom)

	// Conversation
	mux.HandleFunc("GET /chat/rooms/{room_id}/messages", h.Messages.ListMessages)
	mux.HandleFunc("POST /chat/rooms/{room_id}/messages", h.Messages.SendMessage)

	// Deployment provisioning
	mux.HandleFunc("POST /cicd/publish-repo", h.CICD.PublishRepo)

	// GitHub helpers
	mux.HandleFunc("POST /github/create-repo", h.GitHub.CreateRepo)
	mux.HandleFunc("POST /github/repos/{repo_name}/commit", h.GitHub.CommitFile)
	mux.HandleFunc("POST /github/push-to-new-repo/{$}", h.GitHub.PushToNewRepo)
	mux.HandleFunc("POST /github/check-files/{$}", h.GitHub.CheckFiles)

	return mux
}
