package email

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/asktrevor/trevor-backend/internal/models"
	"github.com/asktrevor/trevor-backend/internal/prompts"
)

type fakeCompleter struct {
	got  []models.ChatMessage
	text string
	err  error
}

func (f *fakeCompleter) Complete(_ context.Context, messages []models.ChatMessage) (string, error) {
	f.got = messages
	return f.text, f.err
}

func TestDraftFollowUpForwardsPromptAndReturnsBody(t *testing.T) {
	completer := &fakeCompleter{text: "Hi Dana, just following up on the quote..."}
	svc := NewService(completer, "Ask Trevor", "trevor@asktrevor.au")

	body, err := svc.DraftFollowUp(context.Background(), prompts.FollowUpContext{
		ProjectTitle:  "Deck Build",
		ProjectName:   "12 Wattle St",
		ContactName:   "Dana",
		ContactEmail:  "dana@example.com",
		MyQuote:       "$18,400",
		SubmittedDate: "2025-06-02",
	})
	if err != nil {
		t.Fatalf("draft follow up: %v", err)
	}
	if body != completer.text {
		t.Fatalf("want completion text back, got %q", body)
	}
	if len(completer.got) != 2 || completer.got[0].Role != models.RoleSystem {
		t.Fatalf("prompt not composed as system+user: %+v", completer.got)
	}
	if !strings.Contains(completer.got[1].Content, "$18,400") {
		t.Fatalf("quote amount missing from prompt: %s", completer.got[1].Content)
	}
}

func TestDraftFollowUpPropagatesUpstreamError(t *testing.T) {
	wantErr := errors.New("upstream down")
	svc := NewService(&fakeCompleter{err: wantErr}, "Ask Trevor", "trevor@asktrevor.au")

	if _, err := svc.DraftFollowUp(context.Background(), prompts.FollowUpContext{}); !errors.Is(err, wantErr) {
		t.Fatalf("want upstream error, got %v", err)
	}
}

func TestSendQuoteIsSimulated(t *testing.T) {
	svc := NewService(&fakeCompleter{}, "Ask Trevor", "trevor@asktrevor.au")

	send := svc.SendQuote(context.Background(), QuoteSendInput{
		ProjectID:      "proj-42",
		DraftQuote:     "Supply and install...",
		RecipientEmail: "client@example.com",
		SenderName:     "Sam Builder",
		SenderEmail:    "sam@buildco.au",
	})

	if send.Status != "simulated" {
		t.Fatalf("want simulated status, got %q", send.Status)
	}
	if !strings.HasPrefix(send.ID, "sim-") {
		t.Fatalf("want sim- id prefix, got %q", send.ID)
	}
	if send.To != "client@example.com" {
		t.Errorf("to: got %q", send.To)
	}
	if send.From != "Sam Builder <sam@buildco.au>" {
		t.Errorf("from: got %q", send.From)
	}
	if !strings.Contains(send.Subject, "proj-42") {
		t.Errorf("subject missing project id: %q", send.Subject)
	}
}

func TestSendQuoteFallsBackToServiceSender(t *testing.T) {
	svc := NewService(&fakeCompleter{}, "Ask Trevor", "trevor@asktrevor.au")
	send := svc.SendQuote(context.Background(), QuoteSendInput{
		ProjectID:      "proj-7",
		RecipientEmail: "client@example.com",
	})
	if send.From != "Ask Trevor <trevor@asktrevor.au>" {
		t.Fatalf("want service sender fallback, got %q", send.From)
	}
}
