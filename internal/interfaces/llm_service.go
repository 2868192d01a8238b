package interfaces

import (
	"context"
)

// Message represents a single message in a chat conversation
type Message struct {
	// Role identifies the message sender: "user", "assistant", or "system"
	Role string

	// Content contains the text content of the message
	Content string
}

// ContentRequest represents a provider-agnostic content generation request
type ContentRequest struct {
	Messages          []Message
	Model             string // Empty uses the default provider's model; "claude/..." or "gemini/..." selects a provider
	Temperature       float32
	MaxTokens         int
	SystemInstruction string
}

// ContentResponse represents a provider-agnostic content generation response
type ContentResponse struct {
	Text     string
	Provider string
	Model    string
}

// TextGenerator produces a single completion for a request. Implementations
// make exactly one upstream call per invocation; retrying is the caller's concern.
type TextGenerator interface {
	GenerateContent(ctx context.Context, request *ContentRequest) (*ContentResponse, error)

	// AvailableFor reports whether credentials are configured for the provider
	// that serves model. An empty model means the default provider.
	AvailableFor(model string) bool
}
