package llm

import (
	"context"
	"errors"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is one entry of the prompt transcript sent to the backend.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// DeltaHandler receives streaming text fragments as they arrive.
type DeltaHandler func(delta string) error

// Client produces model turns for a prompt transcript.
type Client interface {
	// StreamChat opens a streaming completion, invokes onDelta (when non-nil)
	// for every fragment, and returns the fully accumulated text.
	StreamChat(ctx context.Context, messages []ChatMessage, onDelta DeltaHandler) (string, error)
	// Complete runs a non-streaming completion and returns the full text.
	Complete(ctx context.Context, messages []ChatMessage) (string, error)
}

var (
	// ErrMissingAPIKey means no credential is configured at all.
	ErrMissingAPIKey = errors.New("llm: missing api key")
	// ErrInvalidToken means the backend rejected the configured credential.
	ErrInvalidToken = errors.New("llm: invalid api token")
)

// IsCredentialError reports whether err maps to the credential-entry UX
// rather than a generic retry-later message.
func IsCredentialError(err error) bool {
	return errors.Is(err, ErrMissingAPIKey) || errors.Is(err, ErrInvalidToken)
}
