// Package public serves the unauthenticated demo endpoint.
package public

import (
	"github.com/gofiber/fiber/v2"

	"github.com/asktrevor/trevor-backend/internal/app"
)

// Register wires up the public demo routes.
func Register(router fiber.Router, container *app.Container) {
	if router == nil || container == nil {
		return
	}

	handler := &demoHandler{container: container}
	router.Post("/demo/chat", handler.chat)
}

type demoHandler struct {
	container *app.Container
}
