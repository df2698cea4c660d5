package workspace

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/asktrevor/trevor-backend/internal/httpserver/httputil"
	"github.com/asktrevor/trevor-backend/internal/services/crm"
)

func writeCRMError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, crm.ErrNotFound):
		return httputil.WriteError(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, crm.ErrInvalidStage),
		errors.Is(err, crm.ErrInvalidType),
		errors.Is(err, crm.ErrEmptySubject),
		errors.Is(err, crm.ErrEmptyName),
		errors.Is(err, crm.ErrEmptyTitle),
		errors.Is(err, crm.ErrNegativeValue):
		return httputil.WriteError(c, fiber.StatusBadRequest, err.Error())
	default:
		return httputil.WriteError(c, fiber.StatusInternalServerError, fallback)
	}
}

func (h *workspaceHandler) listContacts(c *fiber.Ctx) error {
	rc, err := identity(c)
	if err != nil {
		return httputil.WriteError(c, fiber.StatusUnauthorized, "authorization header required")
	}
	contacts, err := h.container.CRM.ListContacts(c.UserContext(), rc.UserID)
	if err != nil {
		return writeCRMError(c, err, "failed to list contacts")
	}
	if contacts == nil {
		contacts = []crm.Contact{}
	}
	return c.JSON(fiber.Map{"contacts": contacts})
}

type createContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Company string `json:"company"`
}

func (h *workspaceHandler) createContact(c *fiber.Ctx) error {
	rc, err := identity(c)
	if err != nil {
		return httputil.WriteError(c, fiber.StatusUnauthorized, "authorization header required")
	}
	var req createContactRequest
	if err := c.BodyParser(&req); err != nil {
		return httputil.WriteError(c, fiber.StatusBadRequest, "invalid request body")
	}
	contact, err := h.container.CRM.CreateContact(c.UserContext(), rc.UserID, crm.Contact{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Company: req.Company,
	})
	if err != nil {
		return writeCRMError(c, err, "failed to create contact")
	}
	return c.Status(fiber.StatusCreated).JSON(contact)
}

func (h *workspaceHandler) deleteContact(c *fiber.Ctx) error {
	rc, err := identity(c)
	if err != nil {
		return httputil.WriteError(c, fiber.StatusUnauthorized, "authorization header required")
	}
	contactID, err := parseIDParam(c)
	if err != nil {
		return httputil.WriteError(c, fiber.StatusBadRequest, "invalid contact id")
	}
	if err := h.container.CRM.DeleteContact(c.UserContext(), rc.UserID, contactID); err != nil {
		return writeCRMError(c, err, "failed to delete contact")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *workspaceHandler) listDeals(c *fiber.Ctx) error {
	rc, err := identity(c)
	if err != nil {
		return httputil.WriteError(c, fiber.StatusUnauthorized, "authorization header required")
	}
	deals, err := h.container.CRM.ListDeals(c.UserContext(), rc.UserID)
	if err != nil {
		return writeCRMError(c, err, "failed to list deals")
	}
	if deals == nil {
		deals = []crm.Deal{}
	}
	return c.JSON(fiber.Map{"deals": deals})
}

type createDealRequest struct {
	ContactID     *uuid.UUID `json:"contactId"`
	Title         string     `json:"title"`
	Stage         string     `json:"stage"`
	Value         string     `json:"value"`
	ExpectedClose *time.Time `json:"expectedClose"`
}

func (h *workspaceHandler) createDeal(c *fiber.Ctx) error {
	rc, err := identity(c)
	if err != nil {
		return httputil.WriteError(c, fiber.StatusUnauthorized, "authorization header required")
	}
	var req createDealRequest
	if err := c.BodyParser(&req); err != nil {
		return httputil.WriteError(c, fiber.StatusBadRequest, "invalid request body")
	}

	value := decimal.Zero
	if req.Value != "" {
		value, err = decimal.NewFromString(req.Value)
		if err != nil {
			return httputil.WriteError(c, fiber.StatusBadRequest, "value must be a decimal number")
		}
	}

	deal, err := h.container.CRM.CreateDeal(c.UserContext(), rc.UserID, crm.Deal{
		ContactID:     req.ContactID,
		Title:         req.Title,
		Stage:         req.Stage,
		Value:         value,
		ExpectedClose: req.ExpectedClose,
	})
	if err != nil {
		return writeCRMError(c, err, "failed to create deal")
	}
	return c.Status(fiber.StatusCreated).JSON(deal)
}

type updateStageRequest struct {
	Stage string `json:"stage"`
}

func (h *workspaceHandler) updateDealStage(c *fiber.Ctx) error {
	rc, err := identity(c)
	if err != nil {
		return httputil.WriteError(c, fiber.StatusUnauthorized, "authorization header required")
	}
	dealID, err := parseIDParam(c)
	if err != nil {
		return httputil.WriteError(c, fiber.StatusBadRequest, "invalid deal id")
	}
	var req updateStageRequest
	if err := c.BodyParser(&req); err != nil {
		return httputil.WriteError(c, fiber.StatusBadRequest, "invalid request body")
	}
	deal, err := h.container.CRM.UpdateDealStage(c.UserContext(), rc.UserID, dealID, req.Stage)
	if err != nil {
		return writeCRMError(c, err, "failed to update deal")
	}
	return c.JSON(deal)
}

func (h *workspaceHandler) dealsByMonth(c *fiber.Ctx) error {
	rc, err := identity(c)
	if err != nil {
		return httputil.WriteError(c, fiber.StatusUnauthorized, "authorization header required")
	}
	deals, err := h.container.CRM.ListDeals(c.UserContext(), rc.UserID)
	if err != nil {
		return writeCRMError(c, err, "failed to summarize deals")
	}
	return c.JSON(fiber.Map{"months": crm.GroupDealsByMonth(deals)})
}

func (h *workspaceHandler) pipelineSummary(c *fiber.Ctx) error {
	rc, err := identity(c)
	if err != nil {
		return httputil.WriteError(c, fiber.StatusUnauthorized, "authorization header required")
	}
	deals, err := h.container.CRM.ListDeals(c.UserContext(), rc.UserID)
	if err != nil {
		return writeCRMError(c, err, "failed to summarize pipeline")
	}
	return c.JSON(fiber.Map{"stages": crm.PipelineSummary(deals)})
}

func (h *workspaceHandler) listActivities(c *fiber.Ctx) error {
	rc, err := identity(c)
	if err != nil {
		return httputil.WriteError(c, fiber.StatusUnauthorized, "authorization header required")
	}
	activities, err := h.container.CRM.ListActivities(c.UserContext(), rc.UserID)
	if err != nil {
		return writeCRMError(c, err, "failed to list activities")
	}
	if activities == nil {
		activities = []crm.Activity{}
	}
	return c.JSON(fiber.Map{"activities": activities})
}

type createActivityRequest struct {
	ContactID       *uuid.UUID `json:"contactId"`
	DealID          *uuid.UUID `json:"dealId"`
	Type            string     `json:"type"`
	Subject         string     `json:"subject"`
	DueAt           *time.Time `json:"dueAt"`
	DurationMinutes int        `json:"durationMinutes"`
}

func (h *workspaceHandler) createActivity(c *fiber.Ctx) error {
	rc, err := identity(c)
	if err != nil {
		return httputil.WriteError(c, fiber.StatusUnauthorized, "authorization header required")
	}
	var req createActivityRequest
	if err := c.BodyParser(&req); err != nil {
		return httputil.WriteError(c, fiber.StatusBadRequest, "invalid request body")
	}
	activity, err := h.container.CRM.CreateActivity(c.UserContext(), rc.UserID, crm.Activity{
		ContactID:       req.ContactID,
		DealID:          req.DealID,
		Type:            req.Type,
		Subject:         req.Subject,
		DueAt:           req.DueAt,
		DurationMinutes: req.DurationMinutes,
	})
	if err != nil {
		return writeCRMError(c, err, "failed to create activity")
	}
	return c.Status(fiber.StatusCreated).JSON(activity)
}

func (h *workspaceHandler) completeActivity(c *fiber.Ctx) error {
	rc, err := identity(c)
	if err != nil {
		return httputil.WriteError(c, fiber.StatusUnauthorized, "authorization header required")
	}
	activityID, err := parseIDParam(c)
	if err != nil {
		return httputil.WriteError(c, fiber.StatusBadRequest, "invalid activity id")
	}
	if err := h.container.CRM.CompleteActivity(c.UserContext(), rc.UserID, activityID); err != nil {
		return writeCRMError(c, err, "failed to complete activity")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// activityHours sums logged hours between the from and to query parameters
// (RFC 3339). Defaults to the trailing seven days.
func (h *workspaceHandler) activityHours(c *fiber.Ctx) error {
	rc, err := identity(c)
	if err != nil {
		return httputil.WriteError(c, fiber.StatusUnauthorized, "authorization header required")
	}

	now := time.Now().UTC()
	from := now.AddDate(0, 0, -7)
	to := now
	if raw := c.Query("from"); raw != "" {
		from, err = time.Parse(time.RFC3339, raw)
		if err != nil {
			return httputil.WriteError(c, fiber.StatusBadRequest, "from must be an RFC 3339 timestamp")
		}
	}
	if raw := c.Query("to"); raw != "" {
		to, err = time.Parse(time.RFC3339, raw)
		if err != nil {
			return httputil.WriteError(c, fiber.StatusBadRequest, "to must be an RFC 3339 timestamp")
		}
	}

	activities, err := h.container.CRM.ListActivities(c.UserContext(), rc.UserID)
	if err != nil {
		return writeCRMError(c, err, "failed to sum activity hours")
	}
	return c.JSON(fiber.Map{
		"from":  from,
		"to":    to,
		"hours": crm.SumActivityHours(activities, from, to),
	})
}

// activitiesDue lists incomplete activities due before the before query
// parameter (RFC 3339). Defaults to seven days out.
func (h *workspaceHandler) activitiesDue(c *fiber.Ctx) error {
	rc, err := identity(c)
	if err != nil {
		return httputil.WriteError(c, fiber.StatusUnauthorized, "authorization header required")
	}

	deadline := time.Now().UTC().AddDate(0, 0, 7)
	if raw := c.Query("before"); raw != "" {
		deadline, err = time.Parse(time.RFC3339, raw)
		if err != nil {
			return httputil.WriteError(c, fiber.StatusBadRequest, "before must be an RFC 3339 timestamp")
		}
	}

	activities, err := h.container.CRM.ListActivities(c.UserContext(), rc.UserID)
	if err != nil {
		return writeCRMError(c, err, "failed to list due activities")
	}
	due := crm.DueBefore(activities, deadline)
	if due == nil {
		due = []crm.Activity{}
	}
	return c.JSON(fiber.Map{"activities": due})
}
