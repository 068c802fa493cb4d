package config

const (
	// MaxRoomNameLength is the maximum length for chat room names.
	// Limited to 255 to fit in VARCHAR(255).
	MaxRoomNameLength = 255

	// MaxRepoURLLength is the maximum length for a room's source repository URL.
	MaxRepoURLLength = 255

	// MaxMessageContentLength is the maximum length for message content.
	// Matches the messages.content column width.
	MaxMessageContentLength = 500

	// MaxRepoNameLength is GitHub's limit for repository names.
	MaxRepoNameLength = 100

	// MaxPublishFiles caps how many files one publish request may commit.
	MaxPublishFiles = 200
)
