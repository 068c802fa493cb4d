package github

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strings"

	"javis/internal/domain"
	githubSvc "javis/internal/domain/services/github"
)

const (
	// DefaultBaseURL is the public GitHub REST endpoint
	DefaultBaseURL = "https://api.github.com"

	serviceName = "github"
	acceptV3    = "application/vnd.github.v3+json"
)

// Client implements githubSvc.Client with token authentication.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a GitHub REST client. An empty baseURL uses DefaultBaseURL.
func NewClient(baseURL, token string, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{},
		logger:     logger,
	}
}

var _ githubSvc.Client = (*Client)(nil)

// AuthenticatedUser resolves the token's account (GET /user)
func (c *Client) AuthenticatedUser(ctx context.Context) (*githubSvc.User, error) {
	var user githubSvc.User
	if err := c.do(ctx, http.MethodGet, "/user", nil, &user, http.StatusOK); err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateRepository creates a repository for the authenticated user (POST /user/repos)
func (c *Client) CreateRepository(ctx context.Context, req *githubSvc.CreateRepositoryRequest) (*githubSvc.Repository, error) {
	var repo githubSvc.Repository
	if err := c.do(ctx, http.MethodPost, "/user/repos", req, &repo, http.StatusCreated); err != nil {
		return nil, err
	}
	return &repo, nil
}

// GetRepository fetches a repository (GET /repos/{owner}/{repo})
func (c *Client) GetRepository(ctx context.Context, owner, repo string) (*githubSvc.Repository, error) {
	var repository githubSvc.Repository
	err := c.do(ctx, http.MethodGet, repoPath(owner, repo), nil, &repository, http.StatusOK)
	if err != nil {
		var upstream *domain.UpstreamError
		if errors.As(err, &upstream) && upstream.Status == http.StatusNotFound {
			return nil, &domain.NotFoundError{Message: "Repository not found"}
		}
		return nil, err
	}
	return &repository, nil
}

// PutContents creates or updates one file (PUT /repos/{owner}/{repo}/contents/{path})
func (c *Client) PutContents(ctx context.Context, owner, repo, path string, req *githubSvc.PutContentsRequest) (*githubSvc.Commit, error) {
	body := struct {
		Message string `json:"message"`
		Content string `json:"content"`
		Branch  string `json:"branch,omitempty"`
	}{
		Message: req.Message,
		Content: base64.StdEncoding.EncodeToString(req.Content),
		Branch:  req.Branch,
	}

	var out struct {
		Commit githubSvc.Commit `json:"commit"`
	}
	endpoint := repoPath(owner, repo) + "/contents/" + escapePath(path)
	if err := c.do(ctx, http.MethodPut, endpoint, body, &out, http.StatusOK, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out.Commit, nil
}

// ActionsPublicKey fetches the key used to seal secrets
// (GET /repos/{owner}/{repo}/actions/secrets/public-key)
func (c *Client) ActionsPublicKey(ctx context.Context, owner, repo string) (*githubSvc.PublicKey, error) {
	var key githubSvc.PublicKey
	endpoint := repoPath(owner, repo) + "/actions/secrets/public-key"
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &key, http.StatusOK); err != nil {
		return nil, err
	}
	return &key, nil
}

// PutActionsSecret creates or updates a sealed secret
// (PUT /repos/{owner}/{repo}/actions/secrets/{name})
func (c *Client) PutActionsSecret(ctx context.Context, owner, repo, name string, secret *githubSvc.EncryptedSecret) error {
	endpoint := repoPath(owner, repo) + "/actions/secrets/" + url.PathEscape(name)
	return c.do(ctx, http.MethodPut, endpoint, secret, nil, http.StatusCreated, http.StatusNoContent)
}

// do sends one request. Statuses outside expected become *domain.UpstreamError
// carrying the raw body. out may be nil.
func (c *Client) do(ctx context.Context, method, endpoint string, in, out any, expected ...int) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", acceptV3)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, endpoint, err)
	}
	defer func() { _ = resp.Body.Close() }() // Error ignored: response consumed

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	c.logger.Debug("github call",
		"method", method,
		"endpoint", endpoint,
		"status", resp.StatusCode,
	)

	if !slices.Contains(expected, resp.StatusCode) {
		return &domain.UpstreamError{
			Service: serviceName,
			Status:  resp.StatusCode,
			Body:    string(respBody),
		}
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("parse %s response: %w", endpoint, err)
		}
	}

	return nil
}

func repoPath(owner, repo string) string {
	return "/repos/" + url.PathEscape(owner) + "/" + url.PathEscape(repo)
}

// escapePath escapes each segment of a repository file path
func escapePath(path string) string {
	segments := strings.Split(strings.TrimLeft(path, "/"), "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}
