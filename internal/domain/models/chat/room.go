package chat

import "time"

// Room is a conversation scope grouping ordered messages and, eventually,
// one generated repository. Rooms are never updated after creation.
type Room struct {
	ID        int64     `json:"room_id" db:"id"`
	Name      *string   `json:"name" db:"name"`
	RepoURL   *string   `json:"repo_url" db:"repo_url"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// GeneratedRepoName is the repository name used when the room's conversation
// ends in a publish plan.
func (r *Room) GeneratedRepoName() string {
	return GeneratedRepoName(r.ID)
}
