// Package upstream issues single-attempt requests to the hosted completions
// gateway. Failures are classified and propagated, never retried or masked.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/asktrevor/trevor-backend/internal/config"
	"github.com/asktrevor/trevor-backend/internal/models"
)

// errorBodyCap bounds how much of an upstream error body is read for logging.
const errorBodyCap = 8 * 1024

// Client talks to the completions gateway. The streaming path uses a raw
// HTTP request so the response body can be relayed to callers untouched; the
// non-streaming and transcription paths go through the OpenAI SDK.
type Client struct {
	baseURL         string
	apiKey          string
	chatModel       string
	transcribeModel string
	maxTokens       int32
	temperature     float32

	httpClient *http.Client
	sdk        *openai.Client
}

func New(cfg config.UpstreamConfig) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("upstream: base url required")
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("upstream: api key required")
	}

	sdk := openai.NewClient(
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(baseURL),
	)

	return &Client{
		baseURL:         baseURL,
		apiKey:          cfg.APIKey,
		chatModel:       cfg.ChatModel,
		transcribeModel: cfg.TranscribeModel,
		maxTokens:       cfg.MaxTokens,
		temperature:     cfg.Temperature,
		httpClient:      &http.Client{Timeout: cfg.Timeout},
		sdk:             &sdk,
	}, nil
}

// StreamChat posts the message list with stream enabled and returns the raw
// response body for byte-for-byte relay. The caller must close the reader.
func (c *Client) StreamChat(ctx context.Context, messages []models.ChatMessage) (io.ReadCloser, error) {
	req := models.ChatRequest{
		Model:    c.chatModel,
		Messages: messages,
		Stream:   true,
	}
	if c.maxTokens > 0 {
		tokens := c.maxTokens
		req.MaxTokens = &tokens
	}
	if c.temperature > 0 {
		temp := c.temperature
		req.Temperature = &temp
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode chat request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build chat request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		return nil, classify(resp)
	}

	return resp.Body, nil
}

// Complete runs a non-streaming completion and returns the first choice's text.
func (c *Client) Complete(ctx context.Context, messages []models.ChatMessage) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(c.chatModel),
		Messages: buildSDKMessages(messages),
	}

	resp, err := c.sdk.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", classifySDKError(err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: empty completion", ErrUnavailable)
	}
	return resp.Choices[0].Message.Content, nil
}

// Transcribe sends decoded audio bytes to the gateway's transcription endpoint.
func (c *Client) Transcribe(ctx context.Context, audio []byte, filename string) (string, error) {
	if len(audio) == 0 {
		return "", errors.New("upstream: audio payload required")
	}
	params := openai.AudioTranscriptionNewParams{
		File:  openai.File(bytes.NewReader(audio), filename, "application/octet-stream"),
		Model: openai.AudioModel(c.transcribeModel),
	}
	resp, err := c.sdk.Audio.Transcriptions.New(ctx, params)
	if err != nil {
		return "", classifySDKError(err)
	}
	return resp.Text, nil
}

// classify reads the capped error body, logs it server-side, and maps the
// status to a taxonomy error. The body never reaches the returned error.
func classify(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyCap))
	slog.Error("upstream request failed",
		slog.Int("status", resp.StatusCode),
		slog.String("body", string(body)),
	)
	return statusError(resp.StatusCode)
}

func classifySDKError(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		slog.Error("upstream request failed",
			slog.Int("status", apiErr.StatusCode),
			slog.String("body", apiErr.RawJSON()),
		)
		return statusError(apiErr.StatusCode)
	}
	slog.Error("upstream request failed", slog.String("error", err.Error()))
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}

func statusError(status int) error {
	switch status {
	case http.StatusTooManyRequests:
		return ErrRateLimited
	case http.StatusPaymentRequired:
		return ErrQuotaExhausted
	default:
		return fmt.Errorf("%w: status %d", ErrUnavailable, status)
	}
}

func buildSDKMessages(messages []models.ChatMessage) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, msg := range messages {
		switch msg.Role {
		case models.RoleSystem:
			out = append(out, openai.SystemMessage(msg.Content))
		case models.RoleAssistant:
			out = append(out, openai.ChatCompletionMessageParamOfAssistant(msg.Content))
		default:
			out = append(out, openai.UserMessage(msg.Content))
		}
	}
	return out
}
