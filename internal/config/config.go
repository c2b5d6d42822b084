package config

import (
	"os"
	"strconv"
	"strings"
)

// ModelConfig holds credentials for the two supported LLM backends.
// Azure is the managed-endpoint provider; OpenAI is the key-based SaaS one.
type ModelConfig struct {
	AzureEndpoint   string
	AzureKey        string
	AzureDeployment string
	AzureAPIVersion string

	OpenAIKey   string
	OpenAIModel string

	MaxTokens      int
	TimeoutSeconds int
}

// HasAzure reports whether the managed-endpoint provider is fully configured.
func (m ModelConfig) HasAzure() bool {
	return m.AzureEndpoint != "" && m.AzureKey != "" && m.AzureDeployment != ""
}

func (m ModelConfig) HasOpenAI() bool {
	return m.OpenAIKey != ""
}

// HasCredentials reports whether at least one provider can be attempted.
func (m ModelConfig) HasCredentials() bool {
	return m.HasAzure() || m.HasOpenAI()
}

// SplunkConfig configures the external search-index adapter. When BaseURL or
// Token are empty the adapter falls back to a local simulation.
type SplunkConfig struct {
	BaseURL      string
	Token        string
	DefaultIndex string
}

type Config struct {
	MongoURI  string
	MongoDB   string
	RedisURI  string
	JWTSecret string

	Model  ModelConfig
	Splunk SplunkConfig

	// MaxItems caps the evidence list after deduplication.
	MaxItems int
}

// Load reads configuration from the environment, applying defaults.
func Load() Config {
	return Config{
		MongoURI:  getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:   getEnv("MONGO_DB", "sherlock"),
		RedisURI:  getEnv("REDIS_URI", "localhost:6379"),
		JWTSecret: getEnv("JWT_SECRET", "your_jwt_secret_key"),
		Model: ModelConfig{
			AzureEndpoint:   normalizeEndpoint(firstEnv("AZURE_OPENAI_ENDPOINT")),
			AzureKey:        firstEnv("AZURE_OPENAI_API_KEY", "AZURE_OPENAI_KEY"),
			AzureDeployment: firstEnv("AZURE_OPENAI_DEPLOYMENT_NAME", "AZURE_OPENAI_DEPLOYMENT"),
			AzureAPIVersion: getEnv("AZURE_OPENAI_API_VERSION", "2024-02-15-preview"),
			OpenAIKey:       firstEnv("OPENAI_API_KEY", "OPENAI_KEY"),
			OpenAIModel:     getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			MaxTokens:       getEnvInt("LLM_MAX_TOKENS", 900),
			TimeoutSeconds:  getEnvInt("LLM_TIMEOUT_SECONDS", 60),
		},
		Splunk: SplunkConfig{
			BaseURL:      firstEnv("SPLUNK_BASE_URL"),
			Token:        firstEnv("SPLUNK_TOKEN"),
			DefaultIndex: firstEnv("SPLUNK_DEFAULT_INDEX"),
		},
		MaxItems: getEnvInt("MAX_EVIDENCE_ITEMS", 50),
	}
}

func getEnv(name, fallback string) string {
	if v := sanitize(os.Getenv(name)); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(name string, fallback int) int {
	if v := sanitize(os.Getenv(name)); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

// firstEnv returns the first non-empty variable among names. Several settings
// historically have two accepted names.
func firstEnv(names ...string) string {
	for _, n := range names {
		if v := sanitize(os.Getenv(n)); v != "" {
			return v
		}
	}
	return ""
}

// sanitize strips CR/LF that sneak in when keys are pasted into .env files.
func sanitize(v string) string {
	v = strings.ReplaceAll(v, "\r", "")
	v = strings.ReplaceAll(v, "\n", "")
	return strings.TrimSpace(v)
}

// normalizeEndpoint forces an https scheme and strips a trailing slash.
func normalizeEndpoint(endpoint string) string {
	if endpoint == "" {
		return ""
	}
	endpoint = strings.TrimRight(endpoint, "/")
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		endpoint = "https://" + endpoint
	}
	return endpoint
}
