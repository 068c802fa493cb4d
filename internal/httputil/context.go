package httputil

import (
	"context"
	"net/http"
)

// Context key type to avoid collisions
type contextKey string

const (
	userIDKey  contextKey = "userID"
	requestKey contextKey = "request"
)

// requestInfo is shared by every request derived from the same incoming one,
// so outer middleware can read values set further in.
type requestInfo struct {
	id     string
	userID string
}

// WithRequestID tags the request with a correlation ID
func WithRequestID(r *http.Request, requestID string) *http.Request {
	ctx := context.WithValue(r.Context(), requestKey, &requestInfo{id: requestID})
	return r.WithContext(ctx)
}

// GetRequestID returns the request's correlation ID, or empty string
func GetRequestID(r *http.Request) string {
	if info, ok := r.Context().Value(requestKey).(*requestInfo); ok {
		return info.id
	}
	return ""
}

// WithUserID adds the authenticated subject to the request context
func WithUserID(r *http.Request, userID string) *http.Request {
	if info, ok := r.Context().Value(requestKey).(*requestInfo); ok {
		info.userID = userID
	}
	ctx := context.WithValue(r.Context(), userIDKey, userID)
	return r.WithContext(ctx)
}

// GetUserID retrieves userID from context, returns empty string if not found
func GetUserID(r *http.Request) string {
	if userID, ok := r.Context().Value(userIDKey).(string); ok {
		return userID
	}
	if info, ok := r.Context().Value(requestKey).(*requestInfo); ok {
		return info.userID
	}
	return ""
}
