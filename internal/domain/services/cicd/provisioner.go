package cicd

import "context"

// Result confirms a provisioned repository
type Result struct {
	Message string `json:"message"`
	// Secrets lists the uploaded secret names in upload order
	Secrets []string `json:"secrets"`
}

// Provisioner pushes the deployment Dockerfile and workflow into an existing
// repository and registers the deployment secrets.
type Provisioner interface {
	// Provision returns *domain.NotFoundError when the repository is absent and
	// *domain.SecretProvisionError naming the first secret that failed.
	// Completed steps are not rolled back.
	Provision(ctx context.Context, repoName string) (*Result, error)
}
