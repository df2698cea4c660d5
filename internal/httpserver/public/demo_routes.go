package public

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/asktrevor/trevor-backend/internal/httpserver/httputil"
	"github.com/asktrevor/trevor-backend/internal/limits"
	"github.com/asktrevor/trevor-backend/internal/models"
	"github.com/asktrevor/trevor-backend/internal/prompts"
	"github.com/asktrevor/trevor-backend/internal/upstream"
	"github.com/asktrevor/trevor-backend/internal/validate"
)

// demoBounds caps a demo conversation well below the workspace limit.
var demoBounds = validate.MessageBounds{
	MinCount:      1,
	MaxCount:      10,
	MinContentLen: 1,
	MaxContentLen: 10_000,
}

type demoChatRequest struct {
	Messages []models.ChatMessage `json:"messages"`
	// CaptchaToken is accepted for forward compatibility but not verified.
	CaptchaToken string `json:"captchaToken"`
}

func (h *demoHandler) chat(c *fiber.Ctx) error {
	var req demoChatRequest
	if err := c.BodyParser(&req); err != nil {
		return httputil.WriteError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := validate.Messages(req.Messages, demoBounds); err != nil {
		return httputil.WriteError(c, fiber.StatusBadRequest, err.Error())
	}

	ip := c.IP()
	policy := h.container.DemoPolicy()
	if err := h.container.RateLimiter.Allow(c.UserContext(), "ip:"+ip, policy); err != nil {
		if errors.Is(err, limits.ErrLimitExceeded) {
			h.container.Observability.RecordRateLimitRejection("demo")
			return httputil.WriteError(c, fiber.StatusTooManyRequests,
				fmt.Sprintf("demo limit reached: at most %s, sign up for the full workspace to keep going", policy))
		}
		return httputil.WriteError(c, fiber.StatusInternalServerError, "rate limit check failed")
	}

	if err := h.container.RateLog.RecordDemoChat(c.UserContext(), ip, c.Get(fiber.HeaderUserAgent), len(req.Messages)); err != nil {
		slog.Error("record demo chat request",
			slog.String("ip", ip),
			slog.String("error", err.Error()),
		)
	}

	start := time.Now()
	body, err := h.container.Upstream.StreamChat(c.UserContext(), prompts.Compose(prompts.Demo(), req.Messages))
	if err != nil {
		status := fiber.StatusInternalServerError
		if errors.Is(err, upstream.ErrRateLimited) {
			status = fiber.StatusTooManyRequests
		} else if errors.Is(err, upstream.ErrQuotaExhausted) {
			status = fiber.StatusServiceUnavailable
		}
		h.container.Observability.RecordAssistantRequest("demo", status, time.Since(start))
		return httputil.WriteUpstreamError(c, err)
	}

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set("Connection", "keep-alive")

	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		defer body.Close()
		if _, err := io.Copy(w, body); err != nil {
			slog.Warn("demo stream interrupted", slog.String("error", err.Error()))
		}
		_ = w.Flush()
		h.container.Observability.RecordAssistantRequest("demo", fiber.StatusOK, time.Since(start))
	})
	return nil
}
