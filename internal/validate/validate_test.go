package validate

import (
	"encoding/base64"
	"errors"
	"strings"
	"testing"

	"github.com/asktrevor/trevor-backend/internal/models"
)

func userMessage(content string) models.ChatMessage {
	return models.ChatMessage{Role: models.RoleUser, Content: content}
}

func TestMessagesBounds(t *testing.T) {
	bounds := DefaultMessageBounds

	tests := []struct {
		name    string
		msgs    []models.ChatMessage
		wantErr string
	}{
		{"empty history", nil, "at least 1 entry"},
		{"single valid", []models.ChatMessage{userMessage("hello")}, ""},
		{"too many entries", manyMessages(51), "at most 50 entries"},
		{"exactly max entries", manyMessages(50), ""},
		{"empty content", []models.ChatMessage{userMessage("")}, "at least 1 character"},
		{"oversized content", []models.ChatMessage{userMessage(strings.Repeat("a", 10_001))}, "at most 10000 characters"},
		{"content at limit", []models.ChatMessage{userMessage(strings.Repeat("a", 10_000))}, ""},
		{"unknown role", []models.ChatMessage{{Role: "tool", Content: "hi"}}, "role must be one of"},
		{"assistant role accepted", []models.ChatMessage{{Role: models.RoleAssistant, Content: "hi"}}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Messages(tt.msgs, bounds)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("want no error, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("want error containing %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("want error containing %q, got %q", tt.wantErr, err.Error())
			}
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("want *ValidationError, got %T", err)
			}
		})
	}
}

func manyMessages(n int) []models.ChatMessage {
	out := make([]models.ChatMessage, n)
	for i := range out {
		out[i] = userMessage("m")
	}
	return out
}

func TestAudioPayloadDecodedSizeMatches(t *testing.T) {
	raw := make([]byte, 300)
	for i := range raw {
		raw[i] = byte(i % 251)
	}
	payload := base64.StdEncoding.EncodeToString(raw)

	decoded, err := AudioPayload(payload, 100, 15_000_000)
	if err != nil {
		t.Fatalf("valid payload rejected: %v", err)
	}
	if len(decoded) != len(raw) {
		t.Fatalf("decoded byte count %d != original %d", len(decoded), len(raw))
	}
}

func TestAudioPayloadBounds(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		wantErr string
	}{
		{"too short", strings.Repeat("A", 99), "at least 100 characters"},
		{"at minimum length", strings.Repeat("A", 100), ""},
		{"invalid charset", strings.Repeat("A", 99) + "!", "must be base64"},
		{"padding accepted", strings.Repeat("A", 102) + "==", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := AudioPayload(tt.payload, 100, 15_000_000)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("want no error, got %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("want error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestAudioPayloadMaxBound(t *testing.T) {
	payload := strings.Repeat("A", 200)
	if _, err := AudioPayload(payload, 100, 150); err == nil || !strings.Contains(err.Error(), "maximum size") {
		t.Fatalf("want maximum size error, got %v", err)
	}
}

func TestRequiredString(t *testing.T) {
	if err := RequiredString("documentType", ""); err == nil {
		t.Fatal("want error for empty required field")
	}
	if err := RequiredString("documentType", "contract"); err != nil {
		t.Fatalf("want no error, got %v", err)
	}
}
