package cicd

import (
	"context"
	"fmt"
	"log/slog"

	"javis/internal/domain"
	cicdSvc "javis/internal/domain/services/cicd"
	githubSvc "javis/internal/domain/services/github"
	"javis/internal/service/github"
)

// SecretSource resolves the value of a server setting named in the secrets manifest
type SecretSource interface {
	DeploySecretValue(key string) (string, bool)
}

// Provisioner implements cicdSvc.Provisioner
type Provisioner struct {
	client    githubSvc.Client
	owner     string
	source    SecretSource
	templates *Templates
	logger    *slog.Logger
}

// NewProvisioner creates a provisioner acting on repositories owned by owner
func NewProvisioner(client githubSvc.Client, owner string, source SecretSource, templates *Templates, logger *slog.Logger) *Provisioner {
	return &Provisioner{
		client:    client,
		owner:     owner,
		source:    source,
		templates: templates,
		logger:    logger,
	}
}

var _ cicdSvc.Provisioner = (*Provisioner)(nil)

// Provision commits the Dockerfile, uploads each deployment secret and commits
// the workflow, in that order. The first failure aborts; earlier steps stand.
func (p *Provisioner) Provision(ctx context.Context, repoName string) (*cicdSvc.Result, error) {
	values, err := p.resolveSecrets()
	if err != nil {
		return nil, err
	}

	if _, err := p.client.GetRepository(ctx, p.owner, repoName); err != nil {
		p.logger.Warn("repository lookup failed", "repo_name", repoName, "error", err)
		return nil, &domain.NotFoundError{Message: "Repository not found"}
	}

	if _, err := p.client.PutContents(ctx, p.owner, repoName, dockerfilePath, &githubSvc.PutContentsRequest{
		Message: "Add Dockerfile from local",
		Content: p.templates.Dockerfile,
	}); err != nil {
		return nil, fmt.Errorf("failed to upload %s: %w", dockerfilePath, err)
	}
	p.logger.Info("dockerfile committed", "repo_name", repoName)

	uploaded := make([]string, 0, len(p.templates.Secrets))
	for i, entry := range p.templates.Secrets {
		if err := p.putSecret(ctx, repoName, entry.Name, values[i]); err != nil {
			p.logger.Error("secret upload failed",
				"repo_name", repoName,
				"secret", entry.Name,
				"uploaded", uploaded,
				"error", err,
			)
			return nil, &domain.SecretProvisionError{Secret: entry.Name, Err: err}
		}
		uploaded = append(uploaded, entry.Name)
	}
	p.logger.Info("secrets registered", "repo_name", repoName, "count", len(uploaded))

	if _, err := p.client.PutContents(ctx, p.owner, repoName, workflowPath, &githubSvc.PutContentsRequest{
		Message: "Add Docker CI/CD Workflow from local",
		Content: p.templates.Workflow,
	}); err != nil {
		return nil, fmt.Errorf("failed to upload %s: %w", workflowPath, err)
	}

	return &cicdSvc.Result{
		Message: fmt.Sprintf("Successfully published %s", repoName),
		Secrets: uploaded,
	}, nil
}

// resolveSecrets looks up every manifest value before any outbound call,
// returning them in manifest order.
func (p *Provisioner) resolveSecrets() ([]string, error) {
	if p.owner == "" {
		return nil, &domain.MissingConfigurationError{Setting: "GITHUB_USERNAME"}
	}

	values := make([]string, len(p.templates.Secrets))
	for i, entry := range p.templates.Secrets {
		value, ok := p.source.DeploySecretValue(entry.Source)
		if !ok {
			return nil, fmt.Errorf("secret %s: unknown source %s", entry.Name, entry.Source)
		}
		if value == "" {
			return nil, &domain.MissingConfigurationError{Setting: entry.Source}
		}
		values[i] = value
	}
	return values, nil
}

// putSecret fetches the repository key fresh for every secret, seals value and uploads it
func (p *Provisioner) putSecret(ctx context.Context, repoName, name, value string) error {
	key, err := p.client.ActionsPublicKey(ctx, p.owner, repoName)
	if err != nil {
		return fmt.Errorf("fetch public key: %w", err)
	}

	sealed, err := github.SealSecret(key.Key, value)
	if err != nil {
		return err
	}

	return p.client.PutActionsSecret(ctx, p.owner, repoName, name, &githubSvc.EncryptedSecret{
		EncryptedValue: sealed,
		KeyID:          key.KeyID,
	})
}
