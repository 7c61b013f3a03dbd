package llm

import (
	"context"
	"encoding/json"
)

// Provider is the core abstraction for generative text model interaction.
// Replies are untrusted text; callers that need an object wrap the provider
// with WithJSONRecovery (NewProvider does this).
type Provider interface {
	// Generate sends a prompt to the model and returns its reply.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

// Request describes what to send to the model.
type Request struct {
	// System is the system prompt.
	System string

	// Messages is the conversation. Assessments send a single user message.
	Messages []Message

	// Schema, when set, asks the provider for JSON output. Adapters pass the
	// definition to their native structured-output mechanism as a hint.
	Schema *Schema

	// MaxTokens is the maximum number of tokens in the response.
	// Zero leaves the provider default.
	MaxTokens int

	// Temperature controls randomness. Range: 0.0 - 1.0.
	Temperature float64
}

// Message represents a single message in the conversation.
type Message struct {
	Role    Role
	Content string
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// UserPrompt builds a single-turn request.
func UserPrompt(prompt string) []Message {
	return []Message{{Role: RoleUser, Content: prompt}}
}

// Schema defines the JSON structure expected from the model.
type Schema struct {
	// Name identifies this schema (schema name for OpenAI, cache key for
	// validation). Kebab-case, e.g. "writing-assessment".
	Name string

	// Description is a human-readable description of what this schema
	// represents.
	Description string

	// Definition is the JSON Schema definition as a map.
	Definition map[string]any

	// Strict makes WithJSONRecovery reject replies that do not validate
	// against Definition. Non-strict schemas are only a generation hint.
	Strict bool
}

// Response holds the model's output.
type Response struct {
	// Content is the reply. Adapters return the raw text as produced by the
	// model; after WithJSONRecovery it is a canonical JSON object.
	Content json.RawMessage

	// Usage reports token consumption for this request.
	Usage Usage

	// Model is the actual model that served the request.
	Model string

	// StopReason indicates why generation stopped.
	// Normalized to: "end", "max_tokens", "error"
	StopReason string
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
