package ai

import (
	"context"

	"google.golang.org/genai"
)

// ProviderName identifies a supported LLM backend.
type ProviderName string

const (
	ProviderNameOpenAI ProviderName = "openai"
	ProviderNameGoogle ProviderName = "gemini"
)

// ChatProvider is the contract each LLM backend implements. Specialists
// compose a system prompt plus a user message and expect a single JSON
// completion back; no tool calling or streaming is involved.
type ChatProvider interface {
	Name() ProviderName

	// Chat sends a completion request and returns the model's response.
	Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error)
}

// ChatRequest represents a chat completion request.
type ChatRequest struct {
	Model       string
	Messages    []Message
	Temperature float64
	MaxTokens   int

	// ResponseSchema constrains the model to structured JSON output.
	// Gemini enforces it natively; OpenAI falls back to JSON mode with
	// the shape described in the prompt.
	ResponseSchema *genai.Schema
}

// Message is a single message in the conversation.
type Message struct {
	Role    MessageRole
	Content string
}

// MessageRole defines the role of a message sender.
type MessageRole string

const (
	RoleSystem    MessageRole = "system"
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// ChatResponse represents the response from a chat completion.
type ChatResponse struct {
	Content string
	Model   string
	Usage   Usage
}

// Usage tracks token consumption.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}
