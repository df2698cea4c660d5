package assistant

import (
	"bufio"
	"io"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/asktrevor/trevor-backend/internal/httpserver/httputil"
	"github.com/asktrevor/trevor-backend/internal/models"
	"github.com/asktrevor/trevor-backend/internal/prompts"
	"github.com/asktrevor/trevor-backend/internal/validate"
)

type complianceRequest struct {
	Messages          []models.ChatMessage      `json:"messages"`
	ProjectContext    string                    `json:"projectContext"`
	UploadedDocuments []prompts.DocumentSummary `json:"uploadedDocuments"`
}

func (h *assistantHandler) compliance(c *fiber.Ctx) error {
	var req complianceRequest
	if err := c.BodyParser(&req); err != nil {
		return httputil.WriteError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := validate.Messages(req.Messages, validate.DefaultMessageBounds); err != nil {
		return httputil.WriteError(c, fiber.StatusBadRequest, err.Error())
	}

	system := prompts.Compliance(prompts.ComplianceContext{
		ProjectContext:    req.ProjectContext,
		UploadedDocuments: req.UploadedDocuments,
	})
	return h.relay(c, "compliance", prompts.Compose(system, req.Messages))
}

type documentsRequest struct {
	Messages      []models.ChatMessage `json:"messages"`
	DocumentType  string               `json:"documentType"`
	DocumentTitle string               `json:"documentTitle"`
}

func (h *assistantHandler) documents(c *fiber.Ctx) error {
	var req documentsRequest
	if err := c.BodyParser(&req); err != nil {
		return httputil.WriteError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := validate.RequiredString("documentType", req.DocumentType); err != nil {
		return httputil.WriteError(c, fiber.StatusBadRequest, err.Error())
	}
	if err := validate.RequiredString("documentTitle", req.DocumentTitle); err != nil {
		return httputil.WriteError(c, fiber.StatusBadRequest, err.Error())
	}
	if err := validate.Messages(req.Messages, validate.DefaultMessageBounds); err != nil {
		return httputil.WriteError(c, fiber.StatusBadRequest, err.Error())
	}

	system := prompts.DocumentDraft(prompts.DocumentContext{
		DocumentType:  req.DocumentType,
		DocumentTitle: req.DocumentTitle,
	})
	return h.relay(c, "documents", prompts.Compose(system, req.Messages))
}

// relay opens the upstream stream and copies it to the client byte for byte.
func (h *assistantHandler) relay(c *fiber.Ctx, operation string, messages []models.ChatMessage) error {
	start := time.Now()

	body, err := h.container.Upstream.StreamChat(c.UserContext(), messages)
	if err != nil {
		h.container.Observability.RecordAssistantRequest(operation, upstreamStatus(err), time.Since(start))
		return httputil.WriteUpstreamError(c, err)
	}

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set("Connection", "keep-alive")

	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		defer body.Close()
		if _, err := io.Copy(w, body); err != nil {
			slog.Warn("assistant stream interrupted",
				slog.String("operation", operation),
				slog.String("error", err.Error()),
			)
		}
		_ = w.Flush()
		h.container.Observability.RecordAssistantRequest(operation, fiber.StatusOK, time.Since(start))
	})
	return nil
}
