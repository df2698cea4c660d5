package upstream

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/asktrevor/trevor-backend/internal/config"
	"github.com/asktrevor/trevor-backend/internal/models"
)

func testConfig(baseURL string) config.UpstreamConfig {
	return config.UpstreamConfig{
		BaseURL:         baseURL,
		APIKey:          "test-key",
		ChatModel:       "google/gemini-2.5-flash",
		TranscribeModel: "whisper-1",
		Timeout:         5 * time.Second,
	}
}

func TestStreamChatRelaysBodyUnaltered(t *testing.T) {
	const streamBody = "data: {\"choices\":[{\"delta\":{\"content\":\"G'\"}}]}\n\n" +
		"data: {\"choices\":[{\"delta\":{\"content\":\"day\"}}]}\n\n" +
		"data: [DONE]\n\n"

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected authorization header %q", got)
		}
		w.Header().Set("Content-Type", "text/event-stream")
		io.WriteString(w, streamBody)
	}))
	defer server.Close()

	client, err := New(testConfig(server.URL))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	body, err := client.StreamChat(context.Background(), []models.ChatMessage{
		{Role: models.RoleUser, Content: "hello"},
	})
	if err != nil {
		t.Fatalf("stream chat: %v", err)
	}
	defer body.Close()

	relayed, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("read stream: %v", err)
	}
	if string(relayed) != streamBody {
		t.Fatalf("stream altered in transit:\nwant %q\ngot  %q", streamBody, relayed)
	}
}

func TestStreamChatSendsStreamFlagOnce(t *testing.T) {
	var captured string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		captured = string(raw)
		io.WriteString(w, "data: [DONE]\n\n")
	}))
	defer server.Close()

	client, err := New(testConfig(server.URL))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	body, err := client.StreamChat(context.Background(), []models.ChatMessage{
		{Role: models.RoleUser, Content: "hi"},
	})
	if err != nil {
		t.Fatalf("stream chat: %v", err)
	}
	body.Close()

	if !strings.Contains(captured, `"stream":true`) {
		t.Errorf("request body missing stream flag: %s", captured)
	}
	if !strings.Contains(captured, `"model":"google/gemini-2.5-flash"`) {
		t.Errorf("request body missing model: %s", captured)
	}
}

func TestStreamChatClassifiesFailures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"rate limited", http.StatusTooManyRequests, `{"error":"slow down"}`, ErrRateLimited},
		{"quota exhausted", http.StatusPaymentRequired, `{"error":"billing hold on account 991"}`, ErrQuotaExhausted},
		{"server error", http.StatusInternalServerError, `{"error":"internal"}`, ErrUnavailable},
		{"bad gateway", http.StatusBadGateway, "upstream exploded", ErrUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			}))
			defer server.Close()

			client, err := New(testConfig(server.URL))
			if err != nil {
				t.Fatalf("new client: %v", err)
			}
			_, err = client.StreamChat(context.Background(), []models.ChatMessage{
				{Role: models.RoleUser, Content: "hi"},
			})
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("want %v, got %v", tt.wantErr, err)
			}
			// Upstream error bodies stay server-side.
			if err != nil && strings.Contains(err.Error(), "billing hold") {
				t.Fatalf("error leaks upstream body: %v", err)
			}
		})
	}
}

func TestCompleteReturnsFirstChoice(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{
			"id": "cmpl-1",
			"object": "chat.completion",
			"created": 1710000000,
			"model": "google/gemini-2.5-flash",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "Hi Dana,"}, "finish_reason": "stop"}],
			"usage": {"prompt_tokens": 12, "completion_tokens": 4, "total_tokens": 16}
		}`)
	}))
	defer server.Close()

	client, err := New(testConfig(server.URL))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	text, err := client.Complete(context.Background(), []models.ChatMessage{
		{Role: models.RoleSystem, Content: "draft an email"},
		{Role: models.RoleUser, Content: "quote follow-up"},
	})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if text != "Hi Dana," {
		t.Fatalf("want first choice content, got %q", text)
	}
}

func TestNewRequiresCredentials(t *testing.T) {
	if _, err := New(config.UpstreamConfig{APIKey: "k"}); err == nil {
		t.Fatal("want error for missing base url")
	}
	if _, err := New(config.UpstreamConfig{BaseURL: "https://gw.example.com"}); err == nil {
		t.Fatal("want error for missing api key")
	}
}
