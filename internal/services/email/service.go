// Package email drafts follow-up emails through the completions gateway and
// simulates quote sends. No mail is ever delivered from this service.
package email

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/asktrevor/trevor-backend/internal/models"
	"github.com/asktrevor/trevor-backend/internal/prompts"
)

// Completer is the slice of the upstream client the drafting path needs.
type Completer interface {
	Complete(ctx context.Context, messages []models.ChatMessage) (string, error)
}

type Service struct {
	completer   Completer
	fromName    string
	fromAddress string
}

func NewService(completer Completer, fromName, fromAddress string) *Service {
	return &Service{completer: completer, fromName: fromName, fromAddress: fromAddress}
}

// DraftFollowUp asks the assistant for a follow-up email body.
func (s *Service) DraftFollowUp(ctx context.Context, fctx prompts.FollowUpContext) (string, error) {
	content, err := s.completer.Complete(ctx, prompts.FollowUpEmail(fctx))
	if err != nil {
		return "", err
	}
	return content, nil
}

// SimulatedSend describes a quote email that would have been sent.
type SimulatedSend struct {
	ID      string `json:"id"`
	To      string `json:"to"`
	From    string `json:"from"`
	Subject string `json:"subject"`
	Status  string `json:"status"`
}

// QuoteSendInput carries the caller's quote email fields.
type QuoteSendInput struct {
	ProjectID      string
	DraftQuote     string
	RecipientEmail string
	SenderName     string
	SenderEmail    string
}

// SendQuote simulates dispatching a quote email and returns the envelope the
// real provider would have produced.
func (s *Service) SendQuote(ctx context.Context, in QuoteSendInput) SimulatedSend {
	from := in.SenderEmail
	if from == "" {
		from = s.fromAddress
	}
	senderName := in.SenderName
	if senderName == "" {
		senderName = s.fromName
	}

	send := SimulatedSend{
		ID:      "sim-" + uuid.NewString(),
		To:      in.RecipientEmail,
		From:    fmt.Sprintf("%s <%s>", senderName, from),
		Subject: fmt.Sprintf("Quote for project %s", in.ProjectID),
		Status:  "simulated",
	}

	slog.Info("simulated quote email",
		slog.String("id", send.ID),
		slog.String("to", send.To),
		slog.String("project_id", in.ProjectID),
		slog.Int("draft_bytes", len(in.DraftQuote)),
	)
	return send
}
