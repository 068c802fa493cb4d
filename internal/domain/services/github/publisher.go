package github

import (
	"context"
	"iter"

	"javis/internal/domain/models/publish"
)

// PublishRequest describes a repository to create and the local files to commit
type PublishRequest struct {
	RepoName    string   `json:"repo_name"`
	Description string   `json:"description,omitempty"`
	FilePaths   []string `json:"file_paths"`
}

// CommitFileRequest commits one local file into an existing repository
type CommitFileRequest struct {
	RepoName string `json:"repo_name"`
	FilePath string `json:"file_path"`
	Message  string `json:"commit_message"`
}

// CommitFileResult describes a single-file commit
type CommitFileResult struct {
	Message   string `json:"message"`
	CommitURL string `json:"commit_url"`
}

// Publisher creates repositories and commits local files into them,
// reporting each step as a progress event.
type Publisher interface {
	// Publish returns a lazy, single-use sequence. Each GitHub call happens
	// right before the event describing it is yielded; stopping the range
	// stops the remaining calls, and so does cancelling ctx.
	Publish(ctx context.Context, req *PublishRequest) iter.Seq[publish.Event]

	// CheckFiles reports, per path, whether the local file exists
	CheckFiles(paths []string) iter.Seq[publish.Event]

	// CommitFile commits one local file into a repository owned by the
	// authenticated user, at the file's repository-relative path
	CommitFile(ctx context.Context, req *CommitFileRequest) (*CommitFileResult, error)

	// ProjectFiles lists the generated files for a repository name
	ProjectFiles(repoName string) ([]string, error)
}
