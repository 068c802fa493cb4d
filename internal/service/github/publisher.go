package github

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"javis/internal/domain"
	"javis/internal/domain/models/publish"
	githubSvc "javis/internal/domain/services/github"
)

// DefaultBranch is the branch generated files are committed to
const DefaultBranch = "main"

// Publisher implements githubSvc.Publisher
type Publisher struct {
	client  githubSvc.Client
	baseDir string
	logger  *slog.Logger
}

// NewPublisher creates a publisher. baseDir is where generated projects live;
// relative file paths that do not exist as given are looked up there.
func NewPublisher(client githubSvc.Client, baseDir string, logger *slog.Logger) *Publisher {
	return &Publisher{
		client:  client,
		baseDir: baseDir,
		logger:  logger,
	}
}

var _ githubSvc.Publisher = (*Publisher)(nil)

// Publish creates the repository, then commits each file in order.
// Per-file failures are reported and skipped. Nothing is retried or rolled back.
func (p *Publisher) Publish(ctx context.Context, req *githubSvc.PublishRequest) iter.Seq[publish.Event] {
	return func(yield func(publish.Event) bool) {
		if !yield(publish.Info("Starting GitHub repository creation")) {
			return
		}
		if ctx.Err() != nil {
			return
		}

		user, err := p.client.AuthenticatedUser(ctx)
		if err != nil {
			p.logger.Error("github identity lookup failed", "repo_name", req.RepoName, "error", err)
			yield(publish.Error("Error: Failed to get GitHub user info - " + errorBody(err)))
			return
		}
		if ctx.Err() != nil {
			return
		}

		_, err = p.client.CreateRepository(ctx, &githubSvc.CreateRepositoryRequest{
			Name:        req.RepoName,
			Description: req.Description,
			Private:     false,
		})
		if err != nil {
			p.logger.Error("repository creation failed", "repo_name", req.RepoName, "error", err)
			yield(publish.Error("Error: Failed to create repository - " + errorBody(err)))
			return
		}
		p.logger.Info("repository created", "repo_name", req.RepoName, "owner", user.Login)

		if !yield(publish.Success(fmt.Sprintf("Repository '%s' created successfully for user '%s'", req.RepoName, user.Login))) {
			return
		}
		if !yield(publish.Info("Starting file commit process")) {
			return
		}

		for _, path := range req.FilePaths {
			if ctx.Err() != nil {
				return
			}
			if !yield(p.commitFile(ctx, user.Login, req.RepoName, path)) {
				return
			}
		}

		yield(publish.Done("File commit process completed"))
	}
}

// commitFile uploads one local file to the repository root and describes the outcome
func (p *Publisher) commitFile(ctx context.Context, owner, repo, path string) publish.Event {
	local, ok := p.resolve(path)
	if !ok {
		return publish.Error(fmt.Sprintf("Error: File '%s' does not exist", path))
	}

	content, err := os.ReadFile(local)
	if err != nil {
		return publish.Error(fmt.Sprintf("Error: Failed to read '%s': %v", path, err))
	}

	name := filepath.Base(local)
	_, err = p.client.PutContents(ctx, owner, repo, name, &githubSvc.PutContentsRequest{
		Message: fmt.Sprintf("Add %s via API", name),
		Content: content,
		Branch:  DefaultBranch,
	})
	if err != nil {
		p.logger.Warn("file commit failed", "repo_name", repo, "file", path, "error", err)
		return publish.Error(fmt.Sprintf("Error committing '%s': %s", path, errorBody(err)))
	}

	p.logger.Debug("file committed", "repo_name", repo, "file", path)
	return publish.Success(fmt.Sprintf("Successfully committed '%s' to '%s'", path, repo))
}

// CommitFile commits a single file with a caller-chosen message. Unlike
// Publish, failures are returned as errors.
func (p *Publisher) CommitFile(ctx context.Context, req *githubSvc.CommitFileRequest) (*githubSvc.CommitFileResult, error) {
	local, ok := p.resolve(req.FilePath)
	if !ok {
		return nil, &domain.ValidationError{Message: fmt.Sprintf("File '%s' does not exist", req.FilePath)}
	}
	content, err := os.ReadFile(local)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", req.FilePath, err)
	}

	user, err := p.client.AuthenticatedUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("get github user: %w", err)
	}

	target := repoFilePath(req.FilePath)
	commit, err := p.client.PutContents(ctx, user.Login, req.RepoName, target, &githubSvc.PutContentsRequest{
		Message: req.Message,
		Content: content,
	})
	if err != nil {
		return nil, fmt.Errorf("commit %s: %w", target, err)
	}

	p.logger.Info("file committed", "repo_name", req.RepoName, "file", target)
	return &githubSvc.CommitFileResult{
		Message:   fmt.Sprintf("Committed %s to %s", target, req.RepoName),
		CommitURL: commit.HTMLURL,
	}, nil
}

// repoFilePath maps a local path to its location in the repository.
// Absolute or parent-escaping paths keep only the base name.
func repoFilePath(path string) string {
	clean := filepath.Clean(path)
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return filepath.Base(clean)
	}
	return filepath.ToSlash(clean)
}

// CheckFiles reports whether each path exists locally, without touching GitHub.
func (p *Publisher) CheckFiles(paths []string) iter.Seq[publish.Event] {
	return func(yield func(publish.Event) bool) {
		for _, path := range paths {
			var ev publish.Event
			if info, ok := p.stat(path); ok {
				ev = publish.Success(fmt.Sprintf("File '%s' exists (%d bytes)", path, info.Size()))
			} else {
				ev = publish.Error(fmt.Sprintf("Error: File '%s' does not exist", path))
			}
			if !yield(ev) {
				return
			}
		}
		yield(publish.Done("File check completed"))
	}
}

// ProjectFiles lists the regular files directly under <baseDir>/<repoName>, sorted.
func (p *Publisher) ProjectFiles(repoName string) ([]string, error) {
	if repoName == "" || repoName != filepath.Base(repoName) || repoName == "." || repoName == ".." {
		return nil, &domain.ValidationError{Message: "invalid repository name"}
	}

	dir := filepath.Join(p.baseDir, repoName)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &domain.ValidationError{Message: fmt.Sprintf("Folder not found: %s", dir)}
		}
		return nil, fmt.Errorf("read project dir: %w", err)
	}

	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.Type().IsRegular() {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

// resolve returns the on-disk location of path
func (p *Publisher) resolve(path string) (string, bool) {
	if isRegularFile(path) {
		return path, true
	}
	if p.baseDir != "" && !filepath.IsAbs(path) {
		candidate := filepath.Join(p.baseDir, path)
		if isRegularFile(candidate) {
			return candidate, true
		}
	}
	return "", false
}

func (p *Publisher) stat(path string) (fs.FileInfo, bool) {
	local, ok := p.resolve(path)
	if !ok {
		return nil, false
	}
	info, err := os.Stat(local)
	if err != nil {
		return nil, false
	}
	return info, true
}

func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// errorBody is the text shown to users for a failed GitHub call:
// the raw response body when GitHub answered, the error otherwise.
func errorBody(err error) string {
	var upstream *domain.UpstreamError
	if errors.As(err, &upstream) {
		return upstream.Body
	}
	return err.Error()
}
