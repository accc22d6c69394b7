// Package llm defines the completion client the composer and summary
// services phrase text with.
package llm

import "context"

// Chat roles for completion messages.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single chat message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request is a completion request.
type Request struct {
	System      string    `json:"system,omitempty"`
	Messages    []Message `json:"messages"`
	MaxTokens   int32     `json:"max_tokens,omitempty"`
	Temperature float32   `json:"temperature,omitempty"`
	TopP        float64   `json:"top_p,omitempty"`
}

// TokenUsage reports token consumption for a completion.
type TokenUsage struct {
	InputTokens  int32 `json:"input_tokens"`
	OutputTokens int32 `json:"output_tokens"`
	TotalTokens  int32 `json:"total_tokens"`
}

// Response is a completion response.
type Response struct {
	Text       string     `json:"text"`
	Usage      TokenUsage `json:"usage"`
	StopReason string     `json:"stop_reason,omitempty"`
}

// Client is implemented by LLM providers. Callers must tolerate errors
// and fall back to deterministic templates.
type Client interface {
	Complete(ctx context.Context, req Request) (Response, error)
}
