// Package crm persists contacts, deals, and activities, and computes the
// aggregations the dashboards display. Records are owner-scoped; there is no
// sharing model.
package crm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound      = errors.New("record not found")
	ErrInvalidStage  = errors.New("invalid deal stage")
	ErrInvalidType   = errors.New("invalid activity type")
	ErrEmptySubject  = errors.New("subject is required")
	ErrEmptyName     = errors.New("name is required")
	ErrEmptyTitle    = errors.New("title is required")
	ErrNegativeValue = errors.New("deal value cannot be negative")
)

type Service struct {
	pool *pgxpool.Pool
}

func NewService(pool *pgxpool.Pool) *Service {
	return &Service{pool: pool}
}

// CreateContact inserts a contact owned by the caller.
func (s *Service) CreateContact(ctx context.Context, ownerID uuid.UUID, c Contact) (Contact, error) {
	if c.Name == "" {
		return Contact{}, ErrEmptyName
	}
	c.ID = uuid.New()
	c.OwnerID = ownerID
	c.CreatedAt = time.Now().UTC()
	_, err := s.pool.Exec(ctx,
		`INSERT INTO crm_contacts (id, owner_id, name, email, phone, company, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		c.ID, c.OwnerID, c.Name, c.Email, c.Phone, c.Company, c.CreatedAt,
	)
	if err != nil {
		return Contact{}, fmt.Errorf("create contact: %w", err)
	}
	return c, nil
}

// ListContacts returns the caller's contacts, alphabetically.
func (s *Service) ListContacts(ctx context.Context, ownerID uuid.UUID) ([]Contact, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, owner_id, name, email, phone, company, created_at
		 FROM crm_contacts WHERE owner_id = $1 ORDER BY name`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	defer rows.Close()

	var contacts []Contact
	for rows.Next() {
		var c Contact
		if err := rows.Scan(&c.ID, &c.OwnerID, &c.Name, &c.Email, &c.Phone, &c.Company, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan contact: %w", err)
		}
		contacts = append(contacts, c)
	}
	return contacts, rows.Err()
}

// DeleteContact removes a contact owned by the caller.
func (s *Service) DeleteContact(ctx context.Context, ownerID, contactID uuid.UUID) error {
	ct, err := s.pool.Exec(ctx,
		`DELETE FROM crm_contacts WHERE id = $1 AND owner_id = $2`, contactID, ownerID)
	if err != nil {
		return fmt.Errorf("delete contact: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateDeal inserts a deal; stage must be a member of the fixed progression.
func (s *Service) CreateDeal(ctx context.Context, ownerID uuid.UUID, d Deal) (Deal, error) {
	if d.Title == "" {
		return Deal{}, ErrEmptyTitle
	}
	if !ValidDealStage(d.Stage) {
		return Deal{}, ErrInvalidStage
	}
	if d.Value.LessThan(decimal.Zero) {
		return Deal{}, ErrNegativeValue
	}
	now := time.Now().UTC()
	d.ID = uuid.New()
	d.OwnerID = ownerID
	d.CreatedAt = now
	d.UpdatedAt = now
	_, err := s.pool.Exec(ctx,
		`INSERT INTO crm_deals (id, owner_id, contact_id, title, stage, value, expected_close, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		d.ID, d.OwnerID, d.ContactID, d.Title, d.Stage, d.Value, d.ExpectedClose, d.CreatedAt, d.UpdatedAt,
	)
	if err != nil {
		return Deal{}, fmt.Errorf("create deal: %w", err)
	}
	return d, nil
}

// UpdateDealStage moves a deal along the pipeline.
func (s *Service) UpdateDealStage(ctx context.Context, ownerID, dealID uuid.UUID, stage string) (Deal, error) {
	if !ValidDealStage(stage) {
		return Deal{}, ErrInvalidStage
	}
	var d Deal
	err := s.pool.QueryRow(ctx,
		`UPDATE crm_deals SET stage = $1, updated_at = now() WHERE id = $2 AND owner_id = $3
		 RETURNING id, owner_id, contact_id, title, stage, value, expected_close, created_at, updated_at`,
		stage, dealID, ownerID,
	).Scan(&d.ID, &d.OwnerID, &d.ContactID, &d.Title, &d.Stage, &d.Value, &d.ExpectedClose, &d.CreatedAt, &d.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Deal{}, ErrNotFound
	}
	if err != nil {
		return Deal{}, fmt.Errorf("update deal stage: %w", err)
	}
	return d, nil
}

// ListDeals returns the caller's deals, newest first.
func (s *Service) ListDeals(ctx context.Context, ownerID uuid.UUID) ([]Deal, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, owner_id, contact_id, title, stage, value, expected_close, created_at, updated_at
		 FROM crm_deals WHERE owner_id = $1 ORDER BY created_at DESC`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("list deals: %w", err)
	}
	defer rows.Close()

	var deals []Deal
	for rows.Next() {
		var d Deal
		if err := rows.Scan(&d.ID, &d.OwnerID, &d.ContactID, &d.Title, &d.Stage, &d.Value, &d.ExpectedClose, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan deal: %w", err)
		}
		deals = append(deals, d)
	}
	return deals, rows.Err()
}

// CreateActivity logs a CRM activity; type must be a member of the fixed set.
func (s *Service) CreateActivity(ctx context.Context, ownerID uuid.UUID, a Activity) (Activity, error) {
	if a.Subject == "" {
		return Activity{}, ErrEmptySubject
	}
	if !ValidActivityType(a.Type) {
		return Activity{}, ErrInvalidType
	}
	a.ID = uuid.New()
	a.OwnerID = ownerID
	a.CreatedAt = time.Now().UTC()
	_, err := s.pool.Exec(ctx,
		`INSERT INTO crm_activities (id, owner_id, contact_id, deal_id, type, subject, due_at, duration_minutes, completed, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		a.ID, a.OwnerID, a.ContactID, a.DealID, a.Type, a.Subject, a.DueAt, a.DurationMinutes, a.Completed, a.CreatedAt,
	)
	if err != nil {
		return Activity{}, fmt.Errorf("create activity: %w", err)
	}
	return a, nil
}

// ListActivities returns the caller's activities, newest first.
func (s *Service) ListActivities(ctx context.Context, ownerID uuid.UUID) ([]Activity, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, owner_id, contact_id, deal_id, type, subject, due_at, duration_minutes, completed, created_at
		 FROM crm_activities WHERE owner_id = $1 ORDER BY created_at DESC`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	defer rows.Close()

	var activities []Activity
	for rows.Next() {
		var a Activity
		if err := rows.Scan(&a.ID, &a.OwnerID, &a.ContactID, &a.DealID, &a.Type, &a.Subject, &a.DueAt, &a.DurationMinutes, &a.Completed, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		activities = append(activities, a)
	}
	return activities, rows.Err()
}

// CompleteActivity marks an activity done.
func (s *Service) CompleteActivity(ctx context.Context, ownerID, activityID uuid.UUID) error {
	ct, err := s.pool.Exec(ctx,
		`UPDATE crm_activities SET completed = true WHERE id = $1 AND owner_id = $2`,
		activityID, ownerID,
	)
	if err != nil {
		return fmt.Errorf("complete activity: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
