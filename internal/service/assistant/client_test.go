package assistant

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"javis/internal/domain"
	"javis/internal/domain/models/assistant"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewClient(server.URL, 0, logger).(*Client)
}

func TestDispatch_PostsPayload(t *testing.T) {
	var (
		gotPath    string
		gotPayload map[string]any
	)
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))
		_, _ = w.Write([]byte(`{"Sub_question": "Which language?"}`))
	})

	created := time.Date(2024, 11, 2, 9, 0, 0, 0, time.UTC)
	req := &assistant.DispatchRequest{
		Room: assistant.RoomInfo{ID: 4, CreatedAt: &created},
		MessageHistory: []assistant.HistoryEntry{
			{Content: "make a blog", Role: "user", CreatedAt: created},
		},
		NewMessage: assistant.NewMessage{Content: "with comments", Role: "user"},
	}

	resp, err := client.Dispatch(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, assistant.Clarification{Text: "Which language?"}, resp)

	assert.Equal(t, "/generate-code/", gotPath)
	room := gotPayload["room"].(map[string]any)
	assert.EqualValues(t, 4, room["id"])
	assert.Nil(t, room["name"])
	history := gotPayload["message_history"].([]any)
	require.Len(t, history, 1)
	assert.Equal(t, "make a blog", history[0].(map[string]any)["content"])
	assert.Equal(t, map[string]any{"content": "with comments", "role": "user"}, gotPayload["new_message"])
}

func TestDispatch_PublishPlan(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"project_folder_list": ["out/main.py", "out/requirements.txt"]}`))
	})

	resp, err := client.Dispatch(context.Background(), &assistant.DispatchRequest{})
	require.NoError(t, err)
	assert.Equal(t, assistant.PublishPlan{FilePaths: []string{"out/main.py", "out/requirements.txt"}}, resp)
}

func TestDispatch_UpstreamErrorKeepsStatusAndBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("model overloaded"))
	})

	_, err := client.Dispatch(context.Background(), &assistant.DispatchRequest{})

	var upstream *domain.UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, http.StatusServiceUnavailable, upstream.Status)
	assert.Equal(t, "model overloaded", upstream.Body)
}

func TestDispatch_InvalidShapes(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr error
	}{
		{"unknown key", `{"weird_key": 1}`, domain.ErrUnknownResponseKind},
		{"empty object", `{}`, domain.ErrInvalidResponseShape},
		{"list body", `[]`, domain.ErrInvalidResponseShape},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := client.Dispatch(context.Background(), &assistant.DispatchRequest{})
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestDispatch_ConnectionFailure(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	client := NewClient("http://127.0.0.1:1", 0, logger)

	_, err := client.Dispatch(context.Background(), &assistant.DispatchRequest{})

	var upstream *domain.UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, http.StatusBadGateway, upstream.StatusCode())
	assert.Contains(t, upstream.Body, "failed to connect to generate-code")
}
