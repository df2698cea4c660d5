package validate

import (
	"encoding/base64"
	"fmt"
	"regexp"

	"github.com/asktrevor/trevor-backend/internal/models"
)

// ValidationError names the first violated constraint. Safe to expose to
// callers since the cause is under their control.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func fieldError(field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// MessageBounds constrains a caller-supplied conversation history.
type MessageBounds struct {
	MinCount      int
	MaxCount      int
	MinContentLen int
	MaxContentLen int
}

// DefaultMessageBounds matches the document-drafting assistant contract.
var DefaultMessageBounds = MessageBounds{
	MinCount:      1,
	MaxCount:      50,
	MinContentLen: 1,
	MaxContentLen: 10_000,
}

// Messages checks count bounds, per-message content bounds, and role membership.
func Messages(msgs []models.ChatMessage, bounds MessageBounds) error {
	if len(msgs) < bounds.MinCount {
		return fieldError("messages", "messages must contain at least %d entry", bounds.MinCount)
	}
	if bounds.MaxCount > 0 && len(msgs) > bounds.MaxCount {
		return fieldError("messages", "messages must contain at most %d entries", bounds.MaxCount)
	}
	for i, m := range msgs {
		if !models.KnownRole(m.Role) {
			return fieldError("messages", "messages[%d].role must be one of user, assistant, system", i)
		}
		if len(m.Content) < bounds.MinContentLen {
			return fieldError("messages", "messages[%d].content must be at least %d character", i, bounds.MinContentLen)
		}
		if bounds.MaxContentLen > 0 && len(m.Content) > bounds.MaxContentLen {
			return fieldError("messages", "messages[%d].content must be at most %d characters", i, bounds.MaxContentLen)
		}
	}
	return nil
}

// base64Pattern accepts the standard alphabet with optional trailing padding.
var base64Pattern = regexp.MustCompile(`^[A-Za-z0-9+/]+={0,2}$`)

// AudioPayload checks the base64 payload's charset and length bounds, then
// decodes it. The returned byte count is what gets logged as audio_size.
func AudioPayload(payload string, minChars, maxChars int) ([]byte, error) {
	if len(payload) < minChars {
		return nil, fieldError("audio", "audio must be at least %d characters of base64 data", minChars)
	}
	if len(payload) > maxChars {
		return nil, fieldError("audio", "audio exceeds the maximum size of %d characters", maxChars)
	}
	if !base64Pattern.MatchString(payload) {
		return nil, fieldError("audio", "audio must be base64 encoded")
	}
	decoded, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fieldError("audio", "audio must be base64 encoded")
	}
	return decoded, nil
}

// RequiredString rejects empty required fields by name.
func RequiredString(field, value string) error {
	if value == "" {
		return fieldError(field, "%s is required", field)
	}
	return nil
}
