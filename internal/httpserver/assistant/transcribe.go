package assistant

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/asktrevor/trevor-backend/internal/httpserver/authmw"
	"github.com/asktrevor/trevor-backend/internal/httpserver/httputil"
	"github.com/asktrevor/trevor-backend/internal/limits"
	"github.com/asktrevor/trevor-backend/internal/upstream"
	"github.com/asktrevor/trevor-backend/internal/validate"
)

type transcribeRequest struct {
	Audio string `json:"audio"`
}

func (h *assistantHandler) transcribe(c *fiber.Ctx) error {
	rc, ok := authmw.Identity(c)
	if !ok {
		return httputil.WriteError(c, fiber.StatusUnauthorized, "authorization header required")
	}

	var req transcribeRequest
	if err := c.BodyParser(&req); err != nil {
		return httputil.WriteError(c, fiber.StatusBadRequest, "invalid request body")
	}

	audioCfg := h.container.Config.Audio
	audio, err := validate.AudioPayload(req.Audio, audioCfg.MinBase64Chars, audioCfg.MaxBase64Chars)
	if err != nil {
		return httputil.WriteError(c, fiber.StatusBadRequest, err.Error())
	}

	policy := h.container.TranscriptionPolicy()
	subject := "user:" + rc.UserID.String()
	if err := h.container.RateLimiter.Allow(c.UserContext(), subject, policy); err != nil {
		if errors.Is(err, limits.ErrLimitExceeded) {
			h.container.Observability.RecordRateLimitRejection("transcription")
			return httputil.WriteError(c, fiber.StatusTooManyRequests,
				fmt.Sprintf("transcription limit reached: at most %s, please try again later", policy))
		}
		return httputil.WriteError(c, fiber.StatusInternalServerError, "rate limit check failed")
	}

	if err := h.container.RateLog.RecordTranscription(c.UserContext(), rc.UserID, int64(len(audio))); err != nil {
		slog.Error("record transcription request",
			slog.String("user_id", rc.UserID.String()),
			slog.String("error", err.Error()),
		)
	}

	start := time.Now()
	text, err := h.container.Upstream.Transcribe(c.UserContext(), audio, "voice-note.webm")
	h.container.Observability.RecordAssistantRequest("transcribe", upstreamStatus(err), time.Since(start))
	if err != nil {
		return httputil.WriteUpstreamError(c, err)
	}

	return c.JSON(fiber.Map{"text": text})
}

// upstreamStatus maps a classified upstream error to the status recorded in
// metrics. A nil error is a successful call.
func upstreamStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, upstream.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, upstream.ErrQuotaExhausted):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
