// Package workspace serves the authenticated CRM and document endpoints.
package workspace

import (
	"github.com/gofiber/fiber/v2"

	"github.com/asktrevor/trevor-backend/internal/app"
	"github.com/asktrevor/trevor-backend/internal/httpserver/authmw"
)

// Register wires up the authenticated workspace endpoints.
func Register(router fiber.Router, container *app.Container) {
	if router == nil || container == nil {
		return
	}

	handler := &workspaceHandler{container: container}

	docs := router.Group("/documents", authmw.RequireUser(container.Verifier))
	docs.Get("/", handler.listDocuments)
	docs.Post("/", handler.createDocument)
	docs.Patch("/:id/tag", handler.retagDocument)
	docs.Delete("/:id", handler.deleteDocument)

	crmGroup := router.Group("/crm", authmw.RequireUser(container.Verifier))
	crmGroup.Get("/contacts", handler.listContacts)
	crmGroup.Post("/contacts", handler.createContact)
	crmGroup.Delete("/contacts/:id", handler.deleteContact)

	crmGroup.Get("/deals", handler.listDeals)
	crmGroup.Post("/deals", handler.createDeal)
	crmGroup.Patch("/deals/:id/stage", handler.updateDealStage)
	crmGroup.Get("/deals/summary/monthly", handler.dealsByMonth)
	crmGroup.Get("/deals/summary/pipeline", handler.pipelineSummary)

	crmGroup.Get("/activities", handler.listActivities)
	crmGroup.Post("/activities", handler.createActivity)
	crmGroup.Patch("/activities/:id/complete", handler.completeActivity)
	crmGroup.Get("/activities/hours", handler.activityHours)
	crmGroup.Get("/activities/due", handler.activitiesDue)
}

type workspaceHandler struct {
	container *app.Container
}
