package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// OpenAI is the direct key-based SaaS provider.
type OpenAI struct {
	apiKey    string
	model     string
	maxTokens int
	baseURL   string
	client    *http.Client
}

func NewOpenAI(apiKey, model string, maxTokens, timeoutSeconds int) *OpenAI {
	return &OpenAI{
		apiKey:    apiKey,
		model:     model,
		maxTokens: maxTokens,
		baseURL:   "https://api.openai.com",
		client:    &http.Client{Timeout: time.Duration(timeoutSeconds) * time.Second},
	}
}

func (o *OpenAI) Name() string { return "openai" }

func (o *OpenAI) Chat(ctx context.Context, messages []ChatMessage) (string, error) {
	body := chatRequest{
		Model:       o.model,
		Messages:    messages,
		Temperature: 0,
		MaxTokens:   o.maxTokens,
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", o.baseURL+"/v1/chat/completions", bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+o.apiKey)

	resp, err := o.client.Do(req)
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
		return "", fmt.Errorf("OpenAI API error (status %d): %s", resp.StatusCode, string(respBytes))
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBytes, &parsed); err != nil {
		return "", err
	}
	if parsed.Error.Message != "" {
		return "", fmt.Errorf("OpenAI API error: %s", parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("empty response from OpenAI")
	}
	return parsed.Choices[0].Message.Content, nil
}
