package prompts

import (
	"strings"
	"testing"

	"github.com/asktrevor/trevor-backend/internal/models"
)

func TestComposeKeepsHistoryVerbatim(t *testing.T) {
	history := []models.ChatMessage{
		{Role: models.RoleUser, Content: "do I need a DA for a carport?"},
		{Role: models.RoleAssistant, Content: "It depends on your zone."},
		{Role: models.RoleUser, Content: "R2 low density"},
	}

	out := Compose(Demo(), history)

	if len(out) != 4 {
		t.Fatalf("want 4 messages, got %d", len(out))
	}
	if out[0].Role != models.RoleSystem {
		t.Fatalf("first message must be the system message, got role %s", out[0].Role)
	}
	for i, msg := range history {
		if out[i+1] != msg {
			t.Errorf("history[%d] altered: want %+v, got %+v", i, msg, out[i+1])
		}
	}
}

func TestComplianceInterpolatesContext(t *testing.T) {
	msg := Compliance(ComplianceContext{
		ProjectContext: "Two-storey extension in Lane Cove, DA approved.",
		UploadedDocuments: []DocumentSummary{
			{Name: "site-plan.pdf", Tag: "plans"},
			{Name: "da-consent.pdf"},
		},
	})

	if msg.Role != models.RoleSystem {
		t.Fatalf("want system role, got %s", msg.Role)
	}
	for _, want := range []string{
		"Lane Cove",
		"site-plan.pdf (plans)",
		"da-consent.pdf",
		"Principal Certifying Authority",
	} {
		if !strings.Contains(msg.Content, want) {
			t.Errorf("system message missing %q", want)
		}
	}
}

func TestComplianceWithoutContextOmitsSections(t *testing.T) {
	msg := Compliance(ComplianceContext{})
	if strings.Contains(msg.Content, "Current project") {
		t.Error("empty project context must not render a project section")
	}
	if strings.Contains(msg.Content, "Documents the user has uploaded") {
		t.Error("empty document list must not render a documents section")
	}
}

func TestDocumentDraftNamesDocument(t *testing.T) {
	msg := DocumentDraft(DocumentContext{DocumentType: "scope of works", DocumentTitle: "Rear Deck Build"})
	if !strings.Contains(msg.Content, `a scope of works titled "Rear Deck Build"`) {
		t.Fatalf("system message missing document identity: %s", msg.Content)
	}
}

func TestRenderingIsDeterministic(t *testing.T) {
	ctx := ComplianceContext{ProjectContext: "granny flat, CDC pathway"}
	if Compliance(ctx) != Compliance(ctx) {
		t.Fatal("same context must render the same system message")
	}
}

func TestFollowUpEmailShape(t *testing.T) {
	msgs := FollowUpEmail(FollowUpContext{
		ProjectTitle:  "Bathroom Renovation",
		ProjectName:   "12 Wattle St",
		ContactName:   "Dana",
		ContactEmail:  "dana@example.com",
		MyQuote:       "$18,400",
		SubmittedDate: "2025-06-02",
	})

	if len(msgs) != 2 {
		t.Fatalf("want system + user messages, got %d", len(msgs))
	}
	if msgs[0].Role != models.RoleSystem || msgs[1].Role != models.RoleUser {
		t.Fatalf("unexpected roles: %s, %s", msgs[0].Role, msgs[1].Role)
	}
	for _, want := range []string{"$18,400", "2025-06-02", "dana@example.com"} {
		if !strings.Contains(msgs[1].Content, want) {
			t.Errorf("user message missing %q", want)
		}
	}
}
