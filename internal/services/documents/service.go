// Package documents manages uploaded-document metadata. File contents live in
// the platform's storage bucket; only the records are kept here.
package documents

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound   = errors.New("document not found")
	ErrInvalidTag = errors.New("invalid document tag")
)

// Tags classify a document against the approval paperwork it belongs to.
var Tags = []string{"da", "cc", "oc", "plans", "report", "contract", "other"}

func ValidTag(tag string) bool {
	for _, t := range Tags {
		if t == tag {
			return true
		}
	}
	return false
}

type Document struct {
	ID          uuid.UUID `json:"id"`
	OwnerID     uuid.UUID `json:"-"`
	DisplayName string    `json:"displayName"`
	Tag         *string   `json:"tag,omitempty"`
	UploadedAt  time.Time `json:"uploadedAt"`
}

type Service struct {
	pool *pgxpool.Pool
}

func NewService(pool *pgxpool.Pool) *Service {
	return &Service{pool: pool}
}

// Create registers metadata for a freshly uploaded file.
func (s *Service) Create(ctx context.Context, ownerID uuid.UUID, displayName string, tag *string) (Document, error) {
	if tag != nil && !ValidTag(*tag) {
		return Document{}, ErrInvalidTag
	}
	doc := Document{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		DisplayName: displayName,
		Tag:         tag,
		UploadedAt:  time.Now().UTC(),
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO documents (id, owner_id, display_name, tag, uploaded_at) VALUES ($1, $2, $3, $4, $5)`,
		doc.ID, doc.OwnerID, doc.DisplayName, doc.Tag, doc.UploadedAt,
	)
	if err != nil {
		return Document{}, fmt.Errorf("create document: %w", err)
	}
	return doc, nil
}

// ListByOwner returns the owner's documents, newest first.
func (s *Service) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]Document, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, owner_id, display_name, tag, uploaded_at
		 FROM documents WHERE owner_id = $1 ORDER BY uploaded_at DESC`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var doc Document
		if err := rows.Scan(&doc.ID, &doc.OwnerID, &doc.DisplayName, &doc.Tag, &doc.UploadedAt); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// Retag reassigns a document's classification. A nil tag clears it.
func (s *Service) Retag(ctx context.Context, ownerID, docID uuid.UUID, tag *string) (Document, error) {
	if tag != nil && !ValidTag(*tag) {
		return Document{}, ErrInvalidTag
	}
	var doc Document
	err := s.pool.QueryRow(ctx,
		`UPDATE documents SET tag = $1 WHERE id = $2 AND owner_id = $3
		 RETURNING id, owner_id, display_name, tag, uploaded_at`,
		tag, docID, ownerID,
	).Scan(&doc.ID, &doc.OwnerID, &doc.DisplayName, &doc.Tag, &doc.UploadedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Document{}, ErrNotFound
	}
	if err != nil {
		return Document{}, fmt.Errorf("retag document: %w", err)
	}
	return doc, nil
}

// Delete removes a document record owned by the caller.
func (s *Service) Delete(ctx context.Context, ownerID, docID uuid.UUID) error {
	ct, err := s.pool.Exec(ctx,
		`DELETE FROM documents WHERE id = $1 AND owner_id = $2`,
		docID, ownerID,
	)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
