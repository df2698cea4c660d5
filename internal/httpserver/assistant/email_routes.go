package assistant

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/asktrevor/trevor-backend/internal/httpserver/httputil"
	"github.com/asktrevor/trevor-backend/internal/prompts"
	"github.com/asktrevor/trevor-backend/internal/services/email"
	"github.com/asktrevor/trevor-backend/internal/validate"
)

type followUpRequest struct {
	ProjectTitle  string `json:"projectTitle"`
	ProjectName   string `json:"projectName"`
	ContactName   string `json:"contactName"`
	ContactEmail  string `json:"contactEmail"`
	MyQuote       string `json:"myQuote"`
	SubmittedDate string `json:"submittedDate"`
}

func (h *assistantHandler) draftFollowUp(c *fiber.Ctx) error {
	var req followUpRequest
	if err := c.BodyParser(&req); err != nil {
		return httputil.WriteError(c, fiber.StatusBadRequest, "invalid request body")
	}
	required := []struct {
		field string
		value string
	}{
		{"projectTitle", req.ProjectTitle},
		{"projectName", req.ProjectName},
		{"contactName", req.ContactName},
		{"contactEmail", req.ContactEmail},
		{"myQuote", req.MyQuote},
		{"submittedDate", req.SubmittedDate},
	}
	for _, r := range required {
		if err := validate.RequiredString(r.field, r.value); err != nil {
			return httputil.WriteError(c, fiber.StatusBadRequest, err.Error())
		}
	}

	start := time.Now()
	body, err := h.container.Email.DraftFollowUp(c.UserContext(), prompts.FollowUpContext{
		ProjectTitle:  req.ProjectTitle,
		ProjectName:   req.ProjectName,
		ContactName:   req.ContactName,
		ContactEmail:  req.ContactEmail,
		MyQuote:       req.MyQuote,
		SubmittedDate: req.SubmittedDate,
	})
	h.container.Observability.RecordAssistantRequest("email", upstreamStatus(err), time.Since(start))
	if err != nil {
		return httputil.WriteUpstreamError(c, err)
	}

	return c.JSON(fiber.Map{
		"success":      true,
		"emailContent": body,
		"message":      "follow-up email drafted",
	})
}

type quoteSendRequest struct {
	ProjectID      string `json:"projectId"`
	DraftQuote     string `json:"draftQuote"`
	RecipientEmail string `json:"recipientEmail"`
	SenderName     string `json:"senderName"`
	SenderEmail    string `json:"senderEmail"`
}

func (h *assistantHandler) sendQuote(c *fiber.Ctx) error {
	var req quoteSendRequest
	if err := c.BodyParser(&req); err != nil {
		return httputil.WriteError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := validate.RequiredString("recipientEmail", req.RecipientEmail); err != nil {
		return httputil.WriteError(c, fiber.StatusBadRequest, err.Error())
	}
	if err := validate.RequiredString("projectId", req.ProjectID); err != nil {
		return httputil.WriteError(c, fiber.StatusBadRequest, err.Error())
	}

	send := h.container.Email.SendQuote(c.UserContext(), email.QuoteSendInput{
		ProjectID:      req.ProjectID,
		DraftQuote:     req.DraftQuote,
		RecipientEmail: req.RecipientEmail,
		SenderName:     req.SenderName,
		SenderEmail:    req.SenderEmail,
	})
	return c.JSON(send)
}
