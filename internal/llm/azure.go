package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// AzureOpenAI is the managed-endpoint provider: the deployment name selects
// the model, the api-key header authenticates.
type AzureOpenAI struct {
	endpoint   string
	apiKey     string
	deployment string
	apiVersion string
	maxTokens  int
	client     *http.Client
}

func NewAzureOpenAI(endpoint, apiKey, deployment, apiVersion string, maxTokens, timeoutSeconds int) *AzureOpenAI {
	return &AzureOpenAI{
		endpoint:   endpoint,
		apiKey:     apiKey,
		deployment: deployment,
		apiVersion: apiVersion,
		maxTokens:  maxTokens,
		client:     &http.Client{Timeout: time.Duration(timeoutSeconds) * time.Second},
	}
}

func (a *AzureOpenAI) Name() string { return "azure" }

// Hostname returns the endpoint host for DNS pre-checking.
func (a *AzureOpenAI) Hostname() string {
	parsed, err := url.Parse(a.endpoint)
	if err != nil {
		return ""
	}
	return parsed.Hostname()
}

func (a *AzureOpenAI) Chat(ctx context.Context, messages []ChatMessage) (string, error) {
	// Deployment is addressed in the path, not the body.
	body := chatRequest{
		Messages:    messages,
		Temperature: 0,
		MaxTokens:   a.maxTokens,
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return "", err
	}

	endpoint := fmt.Sprintf("%s/openai/deployments/%s/chat/completions?api-version=%s",
		a.endpoint, a.deployment, a.apiVersion)
	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", a.apiKey)

	resp, err := a.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return "", fmt.Errorf("%w: status %d", ErrAuth, resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("Azure OpenAI error (status %d): %s", resp.StatusCode, string(respBytes))
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBytes, &parsed); err != nil {
		return "", err
	}
	if parsed.Error.Message != "" {
		return "", fmt.Errorf("Azure OpenAI error: %s", parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("empty response from Azure OpenAI")
	}
	return parsed.Choices[0].Message.Content, nil
}
