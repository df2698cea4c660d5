// Package assistant serves the authenticated assistant endpoints: compliance
// chat, document drafting, voice transcription, and email drafting.
package assistant

import (
	"github.com/gofiber/fiber/v2"

	"github.com/asktrevor/trevor-backend/internal/app"
	"github.com/asktrevor/trevor-backend/internal/httpserver/authmw"
)

// Register wires up the authenticated assistant endpoints.
func Register(router fiber.Router, container *app.Container) {
	if router == nil || container == nil {
		return
	}

	handler := &assistantHandler{container: container}

	group := router.Group("/assistant", authmw.RequireUser(container.Verifier))
	group.Post("/compliance", handler.compliance)
	group.Post("/documents", handler.documents)
	group.Post("/transcribe", handler.transcribe)

	emailGroup := router.Group("/email", authmw.RequireUser(container.Verifier))
	emailGroup.Post("/followup", handler.draftFollowUp)
	emailGroup.Post("/quote", handler.sendQuote)
}

type assistantHandler struct {
	container *app.Container
}
