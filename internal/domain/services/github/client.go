package github

import "context"

// User is the authenticated GitHub account
type User struct {
	Login string `json:"login"`
}

// Repository is the subset of GitHub's repository object the app reads
type Repository struct {
	Name     string `json:"name"`
	FullName string `json:"full_name"`
	HTMLURL  string `json:"html_url"`
	SSHURL   string `json:"ssh_url"`
	Private  bool   `json:"private"`
}

// CreateRepositoryRequest is the body of POST /user/repos
type CreateRepositoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Private     bool   `json:"private"`
}

// PutContentsRequest commits one file. Content holds raw bytes; the client
// base64-encodes it.
type PutContentsRequest struct {
	Message string
	Content []byte
	Branch  string
}

// Commit identifies the commit created by a contents write
type Commit struct {
	SHA     string `json:"sha"`
	HTMLURL string `json:"html_url"`
}

// PublicKey is a repository's Actions secrets public key
type PublicKey struct {
	KeyID string `json:"key_id"`
	Key   string `json:"key"`
}

// EncryptedSecret is the body of PUT /repos/{owner}/{repo}/actions/secrets/{name}
type EncryptedSecret struct {
	EncryptedValue string `json:"encrypted_value"`
	KeyID          string `json:"key_id"`
}

// Client is the GitHub REST surface used by the publisher and the CI/CD provisioner.
// Unexpected statuses are returned as *domain.UpstreamError.
type Client interface {
	AuthenticatedUser(ctx context.Context) (*User, error)
	CreateRepository(ctx context.Context, req *CreateRepositoryRequest) (*Repository, error)
	// GetRepository returns *domain.NotFoundError when the repository does not exist
	GetRepository(ctx context.Context, owner, repo string) (*Repository, error)
	PutContents(ctx context.Context, owner, repo, path string, req *PutContentsRequest) (*Commit, error)
	ActionsPublicKey(ctx context.Context, owner, repo string) (*PublicKey, error)
	PutActionsSecret(ctx context.Context, owner, repo, name string, secret *EncryptedSecret) error
}
