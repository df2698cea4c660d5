package crm

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Deal stages form a fixed progression; membership is enforced at the edge
// and by a database check constraint.
var DealStages = []string{"lead", "qualified", "proposal", "negotiation", "won", "lost"}

// Activity types match the CRM activity log.
var ActivityTypes = []string{"call", "email", "meeting", "task", "note"}

func ValidDealStage(stage string) bool {
	for _, s := range DealStages {
		if s == stage {
			return true
		}
	}
	return false
}

func ValidActivityType(kind string) bool {
	for _, t := range ActivityTypes {
		if t == kind {
			return true
		}
	}
	return false
}

type Contact struct {
	ID        uuid.UUID `json:"id"`
	OwnerID   uuid.UUID `json:"-"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Company   string    `json:"company,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type Deal struct {
	ID            uuid.UUID       `json:"id"`
	OwnerID       uuid.UUID       `json:"-"`
	ContactID     *uuid.UUID      `json:"contactId,omitempty"`
	Title         string          `json:"title"`
	Stage         string          `json:"stage"`
	Value         decimal.Decimal `json:"value"`
	ExpectedClose *time.Time      `json:"expectedClose,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

type Activity struct {
	ID              uuid.UUID  `json:"id"`
	OwnerID         uuid.UUID  `json:"-"`
	ContactID       *uuid.UUID `json:"contactId,omitempty"`
	DealID          *uuid.UUID `json:"dealId,omitempty"`
	Type            string     `json:"type"`
	Subject         string     `json:"subject"`
	DueAt           *time.Time `json:"dueAt,omitempty"`
	DurationMinutes int        `json:"durationMinutes"`
	Completed       bool       `json:"completed"`
	CreatedAt       time.Time  `json:"createdAt"`
}
