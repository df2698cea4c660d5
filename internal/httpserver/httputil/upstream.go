package httputil

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/asktrevor/trevor-backend/internal/upstream"
)

// WriteUpstreamError maps a classified upstream failure to a client response.
// Messages stay generic; the full upstream body is only ever logged
// server-side by the upstream client.
func WriteUpstreamError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, upstream.ErrRateLimited):
		return WriteError(c, fiber.StatusTooManyRequests, "the assistant is handling too many requests right now, please try again shortly")
	case errors.Is(err, upstream.ErrQuotaExhausted):
		return WriteError(c, fiber.StatusServiceUnavailable, "the assistant is temporarily unavailable")
	default:
		return WriteError(c, fiber.StatusInternalServerError, "the assistant could not process the request")
	}
}
