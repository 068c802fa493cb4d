package sse

import "time"

// Config holds configuration for SSE responses
type Config struct {
	// KeepAliveInterval is how often a comment line is sent while the
	// producer is blocked on a slow call. Zero disables keep-alive.
	KeepAliveInterval time.Duration

	// EventIDs adds an "id:" line before each event (debug aid for clients)
	EventIDs bool
}

// DefaultConfig returns the default SSE configuration.
// 10 seconds is safe for most proxies.
func DefaultConfig() *Config {
	return &Config{
		KeepAliveInterval: 10 * time.Second,
	}
}
