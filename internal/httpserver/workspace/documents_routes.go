package workspace

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/asktrevor/trevor-backend/internal/httpserver/authmw"
	"github.com/asktrevor/trevor-backend/internal/httpserver/httputil"
	"github.com/asktrevor/trevor-backend/internal/requestctx"
	"github.com/asktrevor/trevor-backend/internal/services/documents"
	"github.com/asktrevor/trevor-backend/internal/validate"
)

func identity(c *fiber.Ctx) (*requestctx.Context, error) {
	rc, ok := authmw.Identity(c)
	if !ok {
		return nil, errors.New("missing identity")
	}
	return rc, nil
}

func parseIDParam(c *fiber.Ctx) (uuid.UUID, error) {
	return uuid.Parse(c.Params("id"))
}

func (h *workspaceHandler) listDocuments(c *fiber.Ctx) error {
	rc, err := identity(c)
	if err != nil {
		return httputil.WriteError(c, fiber.StatusUnauthorized, "authorization header required")
	}
	docs, err := h.container.Documents.ListByOwner(c.UserContext(), rc.UserID)
	if err != nil {
		return httputil.WriteError(c, fiber.StatusInternalServerError, "failed to list documents")
	}
	if docs == nil {
		docs = []documents.Document{}
	}
	return c.JSON(fiber.Map{"documents": docs})
}

type createDocumentRequest struct {
	DisplayName string  `json:"displayName"`
	Tag         *string `json:"tag"`
}

func (h *workspaceHandler) createDocument(c *fiber.Ctx) error {
	rc, err := identity(c)
	if err != nil {
		return httputil.WriteError(c, fiber.StatusUnauthorized, "authorization header required")
	}
	var req createDocumentRequest
	if err := c.BodyParser(&req); err != nil {
		return httputil.WriteError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := validate.RequiredString("displayName", req.DisplayName); err != nil {
		return httputil.WriteError(c, fiber.StatusBadRequest, err.Error())
	}

	doc, err := h.container.Documents.Create(c.UserContext(), rc.UserID, req.DisplayName, req.Tag)
	if err != nil {
		if errors.Is(err, documents.ErrInvalidTag) {
			return httputil.WriteError(c, fiber.StatusBadRequest, err.Error())
		}
		return httputil.WriteError(c, fiber.StatusInternalServerError, "failed to create document")
	}
	return c.Status(fiber.StatusCreated).JSON(doc)
}

type retagRequest struct {
	Tag *string `json:"tag"`
}

func (h *workspaceHandler) retagDocument(c *fiber.Ctx) error {
	rc, err := identity(c)
	if err != nil {
		return httputil.WriteError(c, fiber.StatusUnauthorized, "authorization header required")
	}
	docID, err := parseIDParam(c)
	if err != nil {
		return httputil.WriteError(c, fiber.StatusBadRequest, "invalid document id")
	}
	var req retagRequest
	if err := c.BodyParser(&req); err != nil {
		return httputil.WriteError(c, fiber.StatusBadRequest, "invalid request body")
	}

	doc, err := h.container.Documents.Retag(c.UserContext(), rc.UserID, docID, req.Tag)
	if err != nil {
		switch {
		case errors.Is(err, documents.ErrInvalidTag):
			return httputil.WriteError(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, documents.ErrNotFound):
			return httputil.WriteError(c, fiber.StatusNotFound, err.Error())
		default:
			return httputil.WriteError(c, fiber.StatusInternalServerError, "failed to update document")
		}
	}
	return c.JSON(doc)
}

func (h *workspaceHandler) deleteDocument(c *fiber.Ctx) error {
	rc, err := identity(c)
	if err != nil {
		return httputil.WriteError(c, fiber.StatusUnauthorized, "authorization header required")
	}
	docID, err := parseIDParam(c)
	if err != nil {
		return httputil.WriteError(c, fiber.StatusBadRequest, "invalid document id")
	}
	if err := h.container.Documents.Delete(c.UserContext(), rc.UserID, docID); err != nil {
		if errors.Is(err, documents.ErrNotFound) {
			return httputil.WriteError(c, fiber.StatusNotFound, err.Error())
		}
		return httputil.WriteError(c, fiber.StatusInternalServerError, "failed to delete document")
	}
	return c.SendStatus(fiber.StatusNoContent)
}
