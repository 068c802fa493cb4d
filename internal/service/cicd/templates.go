package cicd

import (
	"embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed templates/Dockerfile templates/main.yml templates/secrets.yaml
var templateFiles embed.FS

const (
	dockerfilePath = "Dockerfile"
	workflowPath   = ".github/workflows/main.yml"
)

// SecretSpec maps a repository secret to the server setting holding its value
type SecretSpec struct {
	Name   string `yaml:"name"`
	Source string `yaml:"source"`
}

type secretsManifest struct {
	Secrets []SecretSpec `yaml:"secrets"`
}

// Templates holds the files pushed into every provisioned repository
type Templates struct {
	Dockerfile []byte
	Workflow   []byte
	Secrets    []SecretSpec
}

// LoadTemplates reads the embedded templates. The workflow must be valid YAML
// and the manifest must name at least one secret.
func LoadTemplates() (*Templates, error) {
	dockerfile, err := templateFiles.ReadFile("templates/Dockerfile")
	if err != nil {
		return nil, fmt.Errorf("failed to read Dockerfile template: %w", err)
	}

	workflow, err := templateFiles.ReadFile("templates/main.yml")
	if err != nil {
		return nil, fmt.Errorf("failed to read workflow template: %w", err)
	}
	var parsed map[string]any
	if err := yaml.Unmarshal(workflow, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse workflow template: %w", err)
	}
	if _, ok := parsed["jobs"]; !ok {
		return nil, fmt.Errorf("workflow template has no jobs")
	}

	data, err := templateFiles.ReadFile("templates/secrets.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to read secrets manifest: %w", err)
	}
	var manifest secretsManifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("failed to unmarshal secrets manifest: %w", err)
	}
	if len(manifest.Secrets) == 0 {
		return nil, fmt.Errorf("secrets manifest is empty")
	}
	for i, s := range manifest.Secrets {
		if s.Name == "" || s.Source == "" {
			return nil, fmt.Errorf("secrets manifest entry %d needs name and source", i)
		}
	}

	return &Templates{
		Dockerfile: dockerfile,
		Workflow:   workflow,
		Secrets:    manifest.Secrets,
	}, nil
}
