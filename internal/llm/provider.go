package llm

import "context"

// ChatMessage is one entry in an ordered chat transcript.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Provider is a chat-style model backend. Implementations return the raw
// completion text; parsing and validation happen in the gateway.
type Provider interface {
	Chat(ctx context.Context, messages []ChatMessage) (string, error)
	Name() string
}

// chatRequest is the request body shared by both OpenAI-compatible backends.
type chatRequest struct {
	Model       string        `json:"model,omitempty"`
	Messages    []ChatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

// chatResponse is the minimal slice of the completion payload we read.
type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}
