package assistant

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"javis/internal/domain"
	"javis/internal/domain/models/chat"
)

func TestParseResponse(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    Response
		wantErr error
	}{
		{
			name: "clarification",
			body: `{"Sub_question": "Which framework should the API use?"}`,
			want: Clarification{Text: "Which framework should the API use?"},
		},
		{
			name: "publish plan keeps order",
			body: `{"project_folder_list": ["app/main.py", "app/models.py"]}`,
			want: PublishPlan{FilePaths: []string{"app/main.py", "app/models.py"}},
		},
		{
			name: "empty publish plan",
			body: `{"project_folder_list": []}`,
			want: PublishPlan{FilePaths: []string{}},
		},
		{name: "unknown key", body: `{"weird_key": 1}`, wantErr: domain.ErrUnknownResponseKind},
		{name: "empty object", body: `{}`, wantErr: domain.ErrInvalidResponseShape},
		{name: "two keys", body: `{"Sub_question": "a", "project_folder_list": []}`, wantErr: domain.ErrInvalidResponseShape},
		{name: "array body", body: `["a.py"]`, wantErr: domain.ErrInvalidResponseShape},
		{name: "empty body", body: ``, wantErr: domain.ErrInvalidResponseShape},
		{name: "not json", body: `<html>`, wantErr: domain.ErrInvalidResponseShape},
		{name: "question not a string", body: `{"Sub_question": 3}`, wantErr: domain.ErrInvalidResponseShape},
		{name: "question null", body: `{"Sub_question": null}`, wantErr: domain.ErrInvalidResponseShape},
		{name: "file list not strings", body: `{"project_folder_list": [1, 2]}`, wantErr: domain.ErrInvalidResponseShape},
		{name: "file list null", body: `{"project_folder_list": null}`, wantErr: domain.ErrInvalidResponseShape},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseResponse([]byte(tt.body))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseResponse_UnknownKeyIsNamed(t *testing.T) {
	_, err := ParseResponse([]byte(`{"weird_key": 1}`))

	var kindErr *domain.UnknownResponseKindError
	require.ErrorAs(t, err, &kindErr)
	assert.Equal(t, "weird_key", kindErr.Key)
}

func TestBuildDispatchRequest(t *testing.T) {
	name := "todo api"
	created := time.Date(2024, 11, 2, 9, 0, 0, 0, time.UTC)
	room := &chat.Room{ID: 7, Name: &name, CreatedAt: created}
	history := []chat.Message{
		{ID: 1, RoomID: 7, Content: "build me a todo api", CreatedAt: created.Add(time.Minute)},
		{ID: 2, RoomID: 7, Content: "Which database?", IsSystem: true, CreatedAt: created.Add(2 * time.Minute)},
	}

	req := BuildDispatchRequest(room, history, "postgres please")

	assert.Equal(t, int64(7), req.Room.ID)
	assert.Equal(t, &name, req.Room.Name)
	require.NotNil(t, req.Room.CreatedAt)
	assert.True(t, created.Equal(*req.Room.CreatedAt))

	require.Len(t, req.MessageHistory, 2)
	assert.Equal(t, "build me a todo api", req.MessageHistory[0].Content)
	assert.Equal(t, "user", req.MessageHistory[0].Role)
	assert.Equal(t, "Which database?", req.MessageHistory[1].Content)
	assert.Equal(t, "system", req.MessageHistory[1].Role)

	assert.Equal(t, NewMessage{Content: "postgres please", Role: "user"}, req.NewMessage)
}

func TestBuildDispatchRequest_EmptyHistoryEncodesAsArray(t *testing.T) {
	req := BuildDispatchRequest(&chat.Room{ID: 1}, nil, "hello")

	assert.NotNil(t, req.MessageHistory)
	assert.Empty(t, req.MessageHistory)
	assert.Nil(t, req.Room.CreatedAt)
}
