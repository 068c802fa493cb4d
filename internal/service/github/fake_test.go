package github

import (
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

type commit struct {
	Owner   string
	Repo    string
	Path    string
	Message string
	Branch  string
	Content []byte
}

// fakeGitHub records calls against an in-process GitHub REST stand-in.
type fakeGitHub struct {
	mu sync.Mutex

	login        string
	userStatus   int
	createStatus int
	// failCommits maps a contents path to a status returned instead of 201
	failCommits map[string]int

	calls   []string
	created []map[string]any
	commits []commit
}

func newFakeGitHub(t *testing.T) (*fakeGitHub, *Client) {
	t.Helper()
	fake := &fakeGitHub{
		login:        "octo",
		userStatus:   http.StatusOK,
		createStatus: http.StatusCreated,
		failCommits:  map[string]int{},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /user", fake.handleUser)
	mux.HandleFunc("POST /user/repos", fake.handleCreate)
	mux.HandleFunc("PUT /repos/{owner}/{repo}/contents/{path...}", fake.handleContents)

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return fake, NewClient(server.URL, "test-token", logger)
}

func (f *fakeGitHub) record(r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, r.Method+" "+r.URL.Path)
}

func (f *fakeGitHub) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeGitHub) committed() []commit {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]commit(nil), f.commits...)
}

func (f *fakeGitHub) createdRepos() []map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]map[string]any(nil), f.created...)
}

func (f *fakeGitHub) handleUser(w http.ResponseWriter, r *http.Request) {
	f.record(r)
	if f.userStatus != http.StatusOK {
		w.WriteHeader(f.userStatus)
		_, _ = w.Write([]byte(`{"message":"Bad credentials"}`))
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]string{"login": f.login})
}

func (f *fakeGitHub) handleCreate(w http.ResponseWriter, r *http.Request) {
	f.record(r)
	var body map[string]any
	_ = json.NewDecoder(r.Body).Decode(&body)
	f.mu.Lock()
	f.created = append(f.created, body)
	f.mu.Unlock()

	if f.createStatus != http.StatusCreated {
		w.WriteHeader(f.createStatus)
		_, _ = w.Write([]byte(`{"message":"name already exists on this account"}`))
		return
	}
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"name":      body["name"],
		"full_name": f.login + "/" + body["name"].(string),
		"html_url":  "https://github.com/" + f.login + "/" + body["name"].(string),
	})
}

func (f *fakeGitHub) handleContents(w http.ResponseWriter, r *http.Request) {
	f.record(r)
	var body struct {
		Message string `json:"message"`
		Content string `json:"content"`
		Branch  string `json:"branch"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	path := r.PathValue("path")
	if status, ok := f.failCommits[path]; ok {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"message":"Invalid request"}`))
		return
	}
	content, err := base64.StdEncoding.DecodeString(body.Content)
	if err != nil {
		w.WriteHeader(http.StatusUnprocessableEntity)
		return
	}

	f.mu.Lock()
	f.commits = append(f.commits, commit{
		Owner:   r.PathValue("owner"),
		Repo:    r.PathValue("repo"),
		Path:    path,
		Message: body.Message,
		Branch:  body.Branch,
		Content: content,
	})
	f.mu.Unlock()
	w.WriteHeader(http.StatusCreated)
	_, _ = w.Write([]byte(`{"commit":{"sha":"c0ffee","html_url":"https://github.com/` + r.PathValue("owner") + `/` + r.PathValue("repo") + `/commit/c0ffee"}}`))
}
