package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeEndpoint(t *testing.T) {
	assert.Equal(t, "", normalizeEndpoint(""))
	assert.Equal(t, "https://foo.openai.azure.com", normalizeEndpoint("foo.openai.azure.com"))
	assert.Equal(t, "https://foo.openai.azure.com", normalizeEndpoint("https://foo.openai.azure.com/"))
	assert.Equal(t, "http://localhost:8080", normalizeEndpoint("http://localhost:8080/"))
}

func TestSanitizeStripsPastedLineBreaks(t *testing.T) {
	assert.Equal(t, "sk-abc123", sanitize(" sk-abc123\r\n"))
	assert.Equal(t, "ab", sanitize("a\rb\n"))
}

func TestFirstEnvHonorsLegacyNames(t *testing.T) {
	t.Setenv("AZURE_OPENAI_API_KEY", "")
	t.Setenv("AZURE_OPENAI_KEY", "legacy-key\n")
	assert.Equal(t, "legacy-key", firstEnv("AZURE_OPENAI_API_KEY", "AZURE_OPENAI_KEY"))

	t.Setenv("AZURE_OPENAI_API_KEY", "new-key")
	assert.Equal(t, "new-key", firstEnv("AZURE_OPENAI_API_KEY", "AZURE_OPENAI_KEY"))
}

func TestGetEnvIntRejectsNonPositive(t *testing.T) {
	t.Setenv("LLM_MAX_TOKENS", "0")
	assert.Equal(t, 900, getEnvInt("LLM_MAX_TOKENS", 900))

	t.Setenv("LLM_MAX_TOKENS", "not-a-number")
	assert.Equal(t, 900, getEnvInt("LLM_MAX_TOKENS", 900))

	t.Setenv("LLM_MAX_TOKENS", "1200")
	assert.Equal(t, 1200, getEnvInt("LLM_MAX_TOKENS", 900))
}

func TestHasCredentials(t *testing.T) {
	var m ModelConfig
	assert.False(t, m.HasCredentials())

	m.OpenAIKey = "sk-x"
	assert.True(t, m.HasCredentials())

	m = ModelConfig{AzureEndpoint: "https://x", AzureKey: "k"}
	assert.False(t, m.HasAzure()) // deployment still missing

	m.AzureDeployment = "gpt-4o"
	assert.True(t, m.HasAzure())
	assert.True(t, m.HasCredentials())
}
