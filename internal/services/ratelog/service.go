// Package ratelog persists insert-only request accounting rows. Admission
// decisions live in the limits package; these tables keep the audit trail.
package ratelog

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Service struct {
	pool *pgxpool.Pool
}

func NewService(pool *pgxpool.Pool) *Service {
	return &Service{pool: pool}
}

// RecordTranscription logs one accepted transcription request with the
// decoded audio byte count.
func (s *Service) RecordTranscription(ctx context.Context, userID uuid.UUID, audioSize int64) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO transcription_requests (user_id, audio_size, created_at) VALUES ($1, $2, now())`,
		userID, audioSize,
	)
	if err != nil {
		return fmt.Errorf("record transcription request: %w", err)
	}
	return nil
}

// RecordDemoChat logs one accepted public demo request keyed by network address.
func (s *Service) RecordDemoChat(ctx context.Context, ip, userAgent string, messageCount int) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO demo_chat_requests (ip_address, user_agent, message_count, created_at) VALUES ($1, $2, $3, now())`,
		ip, userAgent, messageCount,
	)
	if err != nil {
		return fmt.Errorf("record demo chat request: %w", err)
	}
	return nil
}
