package handler

import (
	"fmt"
	"log/slog"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"javis/internal/config"
	"javis/internal/domain"
	githubSvc "javis/internal/domain/services/github"
	"javis/internal/handler/sse"
	"javis/internal/httputil"
)

// GitHubHandler exposes repository helpers backed by the publisher
type GitHubHandler struct {
	client      githubSvc.Client
	publisher   githubSvc.Publisher
	githubToken string
	sseConfig   *sse.Config
	logger      *slog.Logger
}

// NewGitHubHandler creates a new GitHub handler
func NewGitHubHandler(
	client githubSvc.Client,
	publisher githubSvc.Publisher,
	githubToken string,
	sseConfig *sse.Config,
	logger *slog.Logger,
) *GitHubHandler {
	return &GitHubHandler{
		client:      client,
		publisher:   publisher,
		githubToken: githubToken,
		sseConfig:   sseConfig,
		logger:      logger,
	}
}

type createRepoRequest struct {
	RepoName    *string `json:"repo_name"`
	Description *string `json:"description"`
}

func (r createRepoRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.RepoName, validation.Required, validation.Length(1, config.MaxRepoNameLength)),
	)
}

type commitFileRequest struct {
	FilePath      *string `json:"file_path"`
	CommitMessage *string `json:"commit_message"`
}

func (r commitFileRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FilePath, validation.Required),
		validation.Field(&r.CommitMessage, validation.Required),
	)
}

type pushRequest struct {
	RepoName    string   `json:"repo_name"`
	Description string   `json:"description"`
	FilePaths   []string `json:"file_paths"`
}

func (r pushRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.RepoName, validation.Required, validation.Length(1, config.MaxRepoNameLength)),
		validation.Field(&r.FilePaths, validation.Length(0, config.MaxPublishFiles)),
	)
}

type checkFilesRequest struct {
	FilePaths []string `json:"file_paths"`
}

func (r checkFilesRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FilePaths, validation.Required, validation.Length(1, config.MaxPublishFiles)),
	)
}

// CreateRepo creates a public repository for the authenticated user.
// repo_name comes from the query string or the JSON body.
// POST /github/create-repo
func (h *GitHubHandler) CreateRepo(w http.ResponseWriter, r *http.Request) {
	var body createRepoRequest
	if err := httputil.ParseOptionalJSON(w, r, &body); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req := createRepoRequest{
		RepoName:    firstNonNil(httputil.QueryString(r, "repo_name"), body.RepoName),
		Description: firstNonNil(httputil.QueryString(r, "description"), body.Description),
	}
	if err := req.Validate(); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !h.requireToken(w) {
		return
	}

	repo, err := h.client.CreateRepository(r.Context(), &githubSvc.CreateRepositoryRequest{
		Name:        *req.RepoName,
		Description: deref(req.Description),
		Private:     false,
	})
	if err != nil {
		handleError(w, err)
		return
	}

	h.logger.Info("repository created", "repo_name", repo.Name, "url", repo.HTMLURL)
	httputil.RespondJSON(w, http.StatusOK, map[string]string{"repo_url": repo.HTMLURL})
}

// CommitFile commits one local file into an existing repository
// POST /github/repos/{repo_name}/commit
func (h *GitHubHandler) CommitFile(w http.ResponseWriter, r *http.Request) {
	var body commitFileRequest
	if err := httputil.ParseOptionalJSON(w, r, &body); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req := commitFileRequest{
		FilePath:      firstNonNil(httputil.QueryString(r, "file_path"), body.FilePath),
		CommitMessage: firstNonNil(httputil.QueryString(r, "commit_message"), body.CommitMessage),
	}
	if err := req.Validate(); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !h.requireToken(w) {
		return
	}

	result, err := h.publisher.CommitFile(r.Context(), &githubSvc.CommitFileRequest{
		RepoName: r.PathValue("repo_name"),
		FilePath: *req.FilePath,
		Message:  *req.CommitMessage,
	})
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, result)
}

// PushToNewRepo creates a repository and streams the commit of each file.
// Without file_paths, every file of the generated project directory
// named after the repository is pushed.
// POST /github/push-to-new-repo/
func (h *GitHubHandler) PushToNewRepo(w http.ResponseWriter, r *http.Request) {
	var req pushRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !h.requireToken(w) {
		return
	}

	files := req.FilePaths
	if len(files) == 0 {
		var err error
		files, err = h.publisher.ProjectFiles(req.RepoName)
		if err != nil {
			handleError(w, err)
			return
		}
	}

	description := req.Description
	if description == "" {
		description = fmt.Sprintf("Repository for %s", req.RepoName)
	}

	stream := h.publisher.Publish(r.Context(), &githubSvc.PublishRequest{
		RepoName:    req.RepoName,
		Description: description,
		FilePaths:   files,
	})
	sse.Stream(w, r, stream, h.sseConfig, h.logger.With("repo_name", req.RepoName))
}

// CheckFiles streams whether each local path exists
// POST /github/check-files/
func (h *GitHubHandler) CheckFiles(w http.ResponseWriter, r *http.Request) {
	var req checkFilesRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	sse.Stream(w, r, h.publisher.CheckFiles(req.FilePaths), h.sseConfig, h.logger)
}

// requireToken rejects the request before any GitHub call when no token is set
func (h *GitHubHandler) requireToken(w http.ResponseWriter) bool {
	if h.githubToken == "" {
		handleError(w, &domain.MissingConfigurationError{Setting: "GITHUB_TOKEN"})
		return false
	}
	return true
}
