// Package prompts renders the fixed system instructions for each assistant.
// Rendering is a pure function of the typed context; the caller-supplied
// history is always appended verbatim after the system message.
package prompts

import (
	"fmt"
	"strings"

	"github.com/asktrevor/trevor-backend/internal/models"
)

const complianceBase = `You are Trevor, a friendly and knowledgeable construction compliance assistant for the Australian residential building industry. You help builders, owner-builders, and homeowners navigate council approvals in New South Wales.

You know the approval pathway inside out: Development Applications (DA), Complying Development Certificates (CDC), Construction Certificates (CC), and Occupation Certificates (OC). You understand the role of the Principal Certifying Authority (PCA), mandatory critical stage inspections, and the documents councils expect at each stage.

Guidelines:
- Give practical, step-by-step guidance grounded in the NSW approval process.
- When a question depends on the local council or the certifier, say so explicitly.
- Recommend consulting the PCA or a private certifier for determinations you cannot make.
- Keep answers concise and in plain language; avoid legalese.
- Never invent clause numbers or legislation references you are not sure about.`

const documentDraftBase = `You are Trevor, an assistant that helps builders draft construction documents. You produce clear, professionally structured drafts: scopes of works, variations, quotes, site instructions, and handover documents.

Guidelines:
- Ask clarifying questions when the request is missing details a real document would need.
- Use Australian construction terminology and trade names.
- Structure output with headings and numbered items where it helps readability.
- Flag any section the builder must review with their certifier or lawyer.`

const demoBase = `You are Trevor, a construction compliance assistant for the Australian building industry, answering in demo mode. Give genuinely helpful answers about council approvals, DAs, CCs, OCs, and certifier requirements, but keep responses brief. If a question needs project-specific documents or council records, explain that the full Ask Trevor workspace handles that.`

const followUpEmailBase = `You are an assistant that drafts short, courteous follow-up emails for builders chasing quotes they have submitted. Write in a professional but warm Australian business tone. Keep the email under 150 words, reference the quoted amount and submission date, and close with a clear call to action. Output only the email body, no subject line.`

// DocumentSummary is the caller-visible slice of an uploaded document used
// for prompt interpolation.
type DocumentSummary struct {
	Name string `json:"name"`
	Tag  string `json:"tag,omitempty"`
}

// ComplianceContext carries the optional project fields interpolated into the
// compliance assistant's system message.
type ComplianceContext struct {
	ProjectContext    string
	UploadedDocuments []DocumentSummary
}

// Compliance renders the compliance assistant's system message.
func Compliance(ctx ComplianceContext) models.ChatMessage {
	var b strings.Builder
	b.WriteString(complianceBase)
	if strings.TrimSpace(ctx.ProjectContext) != "" {
		b.WriteString("\n\nCurrent project:\n")
		b.WriteString(strings.TrimSpace(ctx.ProjectContext))
	}
	if len(ctx.UploadedDocuments) > 0 {
		b.WriteString("\n\nDocuments the user has uploaded:\n")
		for _, doc := range ctx.UploadedDocuments {
			if doc.Tag != "" {
				fmt.Fprintf(&b, "- %s (%s)\n", doc.Name, doc.Tag)
			} else {
				fmt.Fprintf(&b, "- %s\n", doc.Name)
			}
		}
	}
	return models.ChatMessage{Role: models.RoleSystem, Content: b.String()}
}

// DocumentContext identifies the document being drafted.
type DocumentContext struct {
	DocumentType  string
	DocumentTitle string
}

// DocumentDraft renders the document-drafting assistant's system message.
func DocumentDraft(ctx DocumentContext) models.ChatMessage {
	var b strings.Builder
	b.WriteString(documentDraftBase)
	fmt.Fprintf(&b, "\n\nThe user is drafting a %s titled %q. Keep every response focused on this document.", ctx.DocumentType, ctx.DocumentTitle)
	return models.ChatMessage{Role: models.RoleSystem, Content: b.String()}
}

// Demo renders the public demo assistant's system message.
func Demo() models.ChatMessage {
	return models.ChatMessage{Role: models.RoleSystem, Content: demoBase}
}

// FollowUpContext carries the quote fields interpolated into the follow-up
// email prompt.
type FollowUpContext struct {
	ProjectTitle  string
	ProjectName   string
	ContactName   string
	ContactEmail  string
	MyQuote       string
	SubmittedDate string
}

// FollowUpEmail renders the system message and the single user message that
// drive the follow-up email draft.
func FollowUpEmail(ctx FollowUpContext) []models.ChatMessage {
	user := fmt.Sprintf(
		"Draft a follow-up email for this quote.\nProject: %s (%s)\nRecipient: %s <%s>\nQuoted amount: %s\nSubmitted: %s",
		ctx.ProjectTitle, ctx.ProjectName, ctx.ContactName, ctx.ContactEmail, ctx.MyQuote, ctx.SubmittedDate,
	)
	return []models.ChatMessage{
		{Role: models.RoleSystem, Content: followUpEmailBase},
		{Role: models.RoleUser, Content: user},
	}
}

// Compose prepends the system message to the caller-supplied history,
// preserving the history's order verbatim.
func Compose(system models.ChatMessage, history []models.ChatMessage) []models.ChatMessage {
	out := make([]models.ChatMessage, 0, len(history)+1)
	out = append(out, system)
	out = append(out, history...)
	return out
}
