package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port        string
	Environment string
	DatabaseURL string
	CORSOrigins []string
	// AI service
	AIServiceURL string
	AITimeout    time.Duration // 0 keeps the HTTP client default (no timeout)
	// GitHub
	GitHubAPIURL         string
	GitHubToken          string
	GitHubUsername       string
	GeneratedProjectsDir string
	// Deployment secrets pushed into generated repositories
	Deploy DeployConfig
	// Auth gate, disabled when empty
	JWKSURL string
	// Logging
	LogDir      string
	LogMaxFiles int
	// Debug flags
	Debug bool // Enables DEBUG features
	// SSEEventIDs adds an id: line to every streamed event; off keeps the
	// bare data: wire format
	SSEEventIDs bool
}

// DeployConfig holds the values uploaded as GitHub Actions secrets.
type DeployConfig struct {
	RegistryUser     string
	RegistryPassword string
	Domain           string
	DevServerIP      string
	DevSSHPassword   string
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")
	aiURL := strings.TrimRight(getEnv("AI_LANGCHAIN_URL", "http://localhost:8001"), "/")

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: env,
		DatabaseURL: getEnv("DATABASE_URL", "sqlite:javis.db"),
		CORSOrigins: corsOrigins(aiURL),
		// AI service
		AIServiceURL: aiURL,
		AITimeout:    getDuration("AI_TIMEOUT", 0),
		// GitHub
		GitHubAPIURL:         strings.TrimRight(getEnv("GITHUB_API_URL", "https://api.github.com"), "/"),
		GitHubToken:          getEnv("GITHUB_TOKEN", ""),
		GitHubUsername:       getEnv("GITHUB_USERNAME", ""),
		GeneratedProjectsDir: getEnv("GENERATED_PROJECTS_DIR", "app/data/generate_projects"),
		Deploy: DeployConfig{
			RegistryUser:     getEnv("NCP_REGISTRY_USER", ""),
			RegistryPassword: getEnv("NCP_REGISTRY_PASSWORD", ""),
			Domain:           getEnv("JARVIS_DOMAIN", ""),
			DevServerIP:      getEnv("NCP_DEV_SERVER_IP", ""),
			DevSSHPassword:   getEnv("NCP_DEV_SSH_PASSWORD", ""),
		},
		JWKSURL:     getEnv("AUTH_JWKS_URL", ""),
		LogDir:      getEnv("LOG_DIR", ""),
		LogMaxFiles: getInt("LOG_MAX_FILES", 10),
		// Debug flags - default to true in dev/test, false in production
		Debug:       getEnv("DEBUG", getDefaultDebug(env)) == "true",
		SSEEventIDs: getEnv("SSE_EVENT_IDS", "false") == "true",
	}
}

// DeploySecretValue resolves a value named in the secrets manifest.
// Returns false for unknown keys.
func (c *Config) DeploySecretValue(key string) (string, bool) {
	switch key {
	case "NCP_REGISTRY_USER":
		return c.Deploy.RegistryUser, true
	case "NCP_REGISTRY_PASSWORD":
		return c.Deploy.RegistryPassword, true
	case "JARVIS_DOMAIN":
		return c.Deploy.Domain, true
	case "NCP_DEV_SERVER_IP":
		return c.Deploy.DevServerIP, true
	case "NCP_DEV_SSH_PASSWORD":
		return c.Deploy.DevSSHPassword, true
	case "GITHUB_TOKEN":
		return c.GitHubToken, true
	case "GITHUB_USERNAME":
		return c.GitHubUsername, true
	default:
		return "", false
	}
}

// corsOrigins merges the frontend URLs, CORS_ORIGINS and the AI service URL
func corsOrigins(aiURL string) []string {
	seen := make(map[string]bool)
	var origins []string
	add := func(origin string) {
		origin = strings.TrimRight(strings.TrimSpace(origin), "/")
		if origin == "" || seen[origin] {
			return
		}
		seen[origin] = true
		origins = append(origins, origin)
	}

	add(os.Getenv("FRONTEND_URL"))
	add(os.Getenv("FRONTEND_PROD_URL"))
	for _, origin := range strings.Split(getEnv("CORS_ORIGINS", "http://localhost:3000"), ",") {
		add(origin)
	}
	add(aiURL)

	return origins
}

// getDefaultDebug returns the default debug setting based on environment
func getDefaultDebug(env string) string {
	if env == "prod" {
		return "false"
	}
	return "true" // Enable DEBUG in dev/test by default
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}
