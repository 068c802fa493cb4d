package handler

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/nacl/box"

	"javis/internal/handler/sse"
	"javis/internal/repository/sqlite"
	assistantService "javis/internal/service/assistant"
	chatService "javis/internal/service/chat"
	cicdService "javis/internal/service/cicd"
	githubService "javis/internal/service/github"
)

// fakeGitHubAPI is an in-process stand-in for the GitHub endpoints the server calls
type fakeGitHubAPI struct {
	mu      sync.Mutex
	repos   map[string]bool
	files   []string
	secrets []string
	pub     *[32]byte
}

func newFakeGitHubAPI(t *testing.T) (*fakeGitHubAPI, *httptest.Server) {
	t.Helper()
	pub, _, err := box.GenerateKey(rand.Reader)
	require.NoError(t, err)
	api := &fakeGitHubAPI{repos: map[string]bool{}, pub: pub}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /user", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"login":"octo"}`))
	})
	mux.HandleFunc("POST /user/repos", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Name string `json:"name"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		api.mu.Lock()
		defer api.mu.Unlock()
		if api.repos[body.Name] {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = w.Write([]byte(`{"message":"name already exists on this account"}`))
			return
		}
		api.repos[body.Name] = true
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"name":"` + body.Name + `","html_url":"https://github.com/octo/` + body.Name + `"}`))
	})
	mux.HandleFunc("GET /repos/{owner}/{repo}", func(w http.ResponseWriter, r *http.Request) {
		api.mu.Lock()
		defer api.mu.Unlock()
		if !api.repos[r.PathValue("repo")] {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`{"name":"` + r.PathValue("repo") + `"}`))
	})
	mux.HandleFunc("PUT /repos/{owner}/{repo}/contents/{path...}", func(w http.ResponseWriter, r *http.Request) {
		api.mu.Lock()
		api.files = append(api.files, r.PathValue("repo")+"/"+r.PathValue("path"))
		api.mu.Unlock()
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"commit":{"sha":"1","html_url":"https://github.com/octo/x/commit/1"}}`))
	})
	mux.HandleFunc("GET /repos/{owner}/{repo}/actions/secrets/public-key", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"key_id": "k", "key": api.pub[:]})
	})
	mux.HandleFunc("PUT /repos/{owner}/{repo}/actions/secrets/{name}", func(w http.ResponseWriter, r *http.Request) {
		api.mu.Lock()
		api.secrets = append(api.secrets, r.PathValue("name"))
		api.mu.Unlock()
		w.WriteHeader(http.StatusCreated)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return api, server
}

func (a *fakeGitHubAPI) snapshot() (files, secrets []string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.files...), append([]string(nil), a.secrets...)
}

type deploySecrets map[string]string

func (d deploySecrets) DeploySecretValue(key string) (string, bool) {
	v, ok := d[key]
	return v, ok
}

type testServer struct {
	handler http.Handler
	github  *fakeGitHubAPI
	// aiReply is served by the fake AI service: status and raw body
	aiStatus int
	aiBody   string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ts := &testServer{aiStatus: http.StatusOK}

	ai := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(ts.aiStatus)
		_, _ = w.Write([]byte(ts.aiBody))
	}))
	t.Cleanup(ai.Close)

	gh, ghServer := newFakeGitHubAPI(t)
	ts.github = gh

	db, err := sqlite.Open(context.Background(), ":memory:", logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	roomRepo := sqlite.NewRoomRepository(db, logger)
	msgRepo := sqlite.NewMessageRepository(db, logger)
	txManager := sqlite.NewTransactionManager(db, logger)

	ghClient := githubService.NewClient(ghServer.URL, "tok", logger)
	publisher := githubService.NewPublisher(ghClient, t.TempDir(), logger)
	templates, err := cicdService.LoadTemplates()
	require.NoError(t, err)
	secrets := deploySecrets{
		"NCP_REGISTRY_USER": "u", "NCP_REGISTRY_PASSWORD": "p", "JARVIS_DOMAIN": "d",
		"NCP_DEV_SERVER_IP": "1.2.3.4", "NCP_DEV_SSH_PASSWORD": "s",
		"GITHUB_TOKEN": "tok", "GITHUB_USERNAME": "octo",
	}
	provisioner := cicdService.NewProvisioner(ghClient, "octo", secrets, templates, logger)

	dispatcher := assistantService.NewClient(ai.URL, 0, logger)
	sseConfig := &sse.Config{}

	ts.handler = NewRouter(&Handlers{
		Health:   NewHealthHandler(db.PingContext, logger),
		Rooms:    NewRoomHandler(chatService.NewRoomService(roomRepo, logger), logger),
		Messages: NewMessageHandler(chatService.NewMessageService(roomRepo, msgRepo, txManager, dispatcher, publisher, "tok", logger), sseConfig, logger),
		GitHub:   NewGitHubHandler(ghClient, publisher, "tok", sseConfig, logger),
		CICD:     NewCICDHandler(provisioner, logger),
	})
	return ts
}

func (ts *testServer) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	r := httptest.NewRequest(method, path, reader)
	if body != "" {
		r.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, r)
	return rec
}

func (ts *testServer) createRoom(t *testing.T) int64 {
	t.Helper()
	rec := ts.do(t, http.MethodPost, "/chat/rooms", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp struct {
		RoomID int64 `json:"room_id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.RoomID
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func roomPath(id int64, suffix string) string {
	return "/chat/rooms/" + strconv.FormatInt(id, 10) + suffix
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestRooms_CreateListDelete(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/chat/rooms?repo_url=https://github.com/octo/a", `{"name":"first"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	id := decode[map[string]int64](t, rec)["room_id"]

	rec = ts.do(t, http.MethodGet, "/chat/rooms", "")
	require.Equal(t, http.StatusOK, rec.Code)
	rooms := decode[[]map[string]any](t, rec)
	require.Len(t, rooms, 1)
	assert.EqualValues(t, id, rooms[0]["room_id"])
	assert.Equal(t, "first", rooms[0]["name"])
	assert.Equal(t, "https://github.com/octo/a", rooms[0]["repo_url"])
	assert.NotEmpty(t, rooms[0]["created_at"])

	rec = ts.do(t, http.MethodDelete, roomPath(id, ""), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Room deleted"}`, rec.Body.String())

	rec = ts.do(t, http.MethodDelete, roomPath(id, ""), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.do(t, http.MethodGet, roomPath(id, "/messages"), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.do(t, http.MethodDelete, "/chat/rooms/abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(t, http.MethodPost, "/chat/rooms?name=", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec = ts.do(t, http.MethodGet, "/chat/rooms", "")
	rooms = decode[[]map[string]any](t, rec)
	require.Len(t, rooms, 1)
	assert.Nil(t, rooms[0]["name"])
}

func TestSendMessage_Clarification(t *testing.T) {
	ts := newTestServer(t)
	id := ts.createRoom(t)
	ts.aiBody = `{"Sub_question":"Which framework?"}`

	rec := ts.do(t, http.MethodPost, roomPath(id, "/messages"), `{"content":"make a blog"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"message":"Which framework?"}`, rec.Body.String())

	rec = ts.do(t, http.MethodGet, roomPath(id, "/messages"), "")
	require.Equal(t, http.StatusOK, rec.Code)
	msgs := decode[[]map[string]any](t, rec)
	require.Len(t, msgs, 2)
	assert.Equal(t, "make a blog", msgs[0]["content"])
	assert.Equal(t, "user", msgs[0]["sender"])
	assert.Equal(t, false, msgs[0]["is_system"])
	assert.Equal(t, "Which framework?", msgs[1]["content"])
	assert.Equal(t, "system", msgs[1]["sender"])
	assert.Equal(t, true, msgs[1]["is_system"])

	again := ts.do(t, http.MethodGet, roomPath(id, "/messages"), "")
	assert.Equal(t, rec.Body.String(), again.Body.String())
}

func TestSendMessage_PublishStream(t *testing.T) {
	ts := newTestServer(t)
	id := ts.createRoom(t)

	dir := t.TempDir()
	present := filepath.Join(dir, "a.py")
	require.NoError(t, os.WriteFile(present, []byte("print('a')"), 0o644))
	missing := filepath.Join(dir, "b.py")

	plan, err := json.Marshal(map[string][]string{"project_folder_list": {present, missing}})
	require.NoError(t, err)
	ts.aiBody = string(plan)

	rec := ts.do(t, http.MethodPost, roomPath(id, "/messages"), `{"content":"ship it"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))

	repo := "auto-repo-" + strconv.FormatInt(id, 10)
	assert.Equal(t, strings.Join([]string{
		"data: Starting GitHub repository creation",
		"data: Repository '" + repo + "' created successfully for user 'octo'",
		"data: Starting file commit process",
		"data: Successfully committed '" + present + "' to '" + repo + "'",
		"data: Error: File '" + missing + "' does not exist",
		"data: File commit process completed",
	}, "\n\n")+"\n\n", rec.Body.String())

	files, _ := ts.github.snapshot()
	assert.Equal(t, []string{repo + "/a.py"}, files)
}

func TestSendMessage_Errors(t *testing.T) {
	tests := []struct {
		name     string
		aiStatus int
		aiBody   string
		status   int
		detail   string
	}{
		{name: "unknown key", aiStatus: 200, aiBody: `{"weird_key":1}`, status: 500, detail: "unknown response key: weird_key"},
		{name: "two keys", aiStatus: 200, aiBody: `{"a":1,"b":2}`, status: 500},
		{name: "upstream status forwarded", aiStatus: 503, aiBody: "overloaded", status: 503, detail: "overloaded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t)
			id := ts.createRoom(t)
			ts.aiStatus, ts.aiBody = tt.aiStatus, tt.aiBody

			rec := ts.do(t, http.MethodPost, roomPath(id, "/messages"), `{"content":"hello"}`)
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
			if tt.detail != "" {
				assert.Equal(t, tt.detail, decode[map[string]any](t, rec)["detail"])
			}

			rec = ts.do(t, http.MethodGet, roomPath(id, "/messages"), "")
			assert.JSONEq(t, `[]`, rec.Body.String())
		})
	}

	t.Run("unknown room", func(t *testing.T) {
		ts := newTestServer(t)
		rec := ts.do(t, http.MethodPost, "/chat/rooms/777/messages", `{"content":"hello"}`)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("empty content", func(t *testing.T) {
		ts := newTestServer(t)
		id := ts.createRoom(t)
		rec := ts.do(t, http.MethodPost, roomPath(id, "/messages"), `{"content":""}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestCICD_PublishRepo(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/cicd/publish-repo", `{"repo_name":"missing"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Repository not found", decode[map[string]any](t, rec)["detail"])

	rec = ts.do(t, http.MethodPost, "/github/create-repo?repo_name=svc", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"repo_url":"https://github.com/octo/svc"}`, rec.Body.String())

	rec = ts.do(t, http.MethodPost, "/cicd/publish-repo", `{"repo_name":"svc"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"message":"Successfully published svc"}`, rec.Body.String())

	files, secrets := ts.github.snapshot()
	assert.Equal(t, []string{"svc/Dockerfile", "svc/.github/workflows/main.yml"}, files)
	assert.Len(t, secrets, 7)
}

func TestGitHub_CreateRepoConflictForwarded(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/github/create-repo", `{"repo_name":"dup"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodPost, "/github/create-repo", `{"repo_name":"dup"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, `{"message":"name already exists on this account"}`, decode[map[string]any](t, rec)["detail"])

	rec = ts.do(t, http.MethodPost, "/github/create-repo", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGitHub_CheckFiles(t *testing.T) {
	ts := newTestServer(t)
	dir := t.TempDir()
	present := filepath.Join(dir, "x.txt")
	require.NoError(t, os.WriteFile(present, []byte("abc"), 0o644))

	body, err := json.Marshal(map[string][]string{"file_paths": {present}})
	require.NoError(t, err)

	rec := ts.do(t, http.MethodPost, "/github/check-files/", string(body))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t,
		"data: File '"+present+"' exists (3 bytes)\n\ndata: File check completed\n\n",
		rec.Body.String(),
	)

	rec = ts.do(t, http.MethodPost, "/github/check-files/", `{"file_paths":[]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGitHub_PushToNewRepoMissingProject(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.do(t, http.MethodPost, "/github/push-to-new-repo/", `{"repo_name":"nothing-here"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
}
