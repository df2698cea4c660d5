package models

// Message roles accepted from callers and forwarded upstream.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the payload forwarded to the completions gateway.
type ChatRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	Stream      bool          `json:"stream,omitempty"`
	MaxTokens   *int32        `json:"max_tokens,omitempty"`
	Temperature *float32      `json:"temperature,omitempty"`
}

// KnownRole reports whether role is one of the accepted message roles.
func KnownRole(role string) bool {
	switch role {
	case RoleUser, RoleAssistant, RoleSystem:
		return true
	}
	return false
}
