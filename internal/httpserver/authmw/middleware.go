// Package authmw resolves bearer tokens to request identities for the
// authenticated route groups.
package authmw

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/asktrevor/trevor-backend/internal/auth"
	"github.com/asktrevor/trevor-backend/internal/httpserver/httputil"
	"github.com/asktrevor/trevor-backend/internal/requestctx"
)

const authBearerPrefix = "bearer "

// RequireUser validates the Authorization bearer token and injects the
// resolved identity into the request context.
func RequireUser(verifier *auth.Verifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := extractBearer(c)
		if token == "" {
			return httputil.WriteError(c, fiber.StatusUnauthorized, "authorization header required")
		}

		rc, err := verifier.Verify(token)
		if err != nil {
			return httputil.WriteError(c, fiber.StatusUnauthorized, "invalid or expired token")
		}

		c.SetUserContext(requestctx.WithContext(userContext(c), rc))
		return c.Next()
	}
}

// Identity returns the verified identity attached by RequireUser.
func Identity(c *fiber.Ctx) (*requestctx.Context, bool) {
	rc, ok := requestctx.FromContext(c.UserContext())
	return rc, ok && rc != nil
}

func extractBearer(c *fiber.Ctx) string {
	raw := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	if raw == "" {
		return ""
	}
	if !strings.HasPrefix(strings.ToLower(raw), authBearerPrefix) {
		return ""
	}
	return strings.TrimSpace(raw[len(authBearerPrefix):])
}

func userContext(c *fiber.Ctx) context.Context {
	if uc := c.UserContext(); uc != nil {
		return uc
	}
	return context.Background()
}
