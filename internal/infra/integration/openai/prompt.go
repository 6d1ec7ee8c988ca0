package openai

import (
	"fmt"
	"strings"
)

// systemPrompt pins tone, constraints and output shape. The persona and the
// single-call-to-action rule are deliberate: one warm nudge, not a pitch
// deck.
const systemPrompt = `You are Lloyd, founder of Pixelmojo, a product design and AI studio.
You are writing ONE short follow-up email to a prospect who chatted with the
assistant on the website but did not book a call.

Rules:
- Reference at least one specific thing the prospect said in the conversation.
- Warm, direct, no marketing fluff, no fabricated claims or numbers.
- At most 120 words of body text.
- Exactly one call to action: invite them to book a 20-minute intro call.
- Sign off as "Lloyd" from Pixelmojo.

Respond ONLY with a JSON object:
{"subject": "...", "html_body": "<p>...</p>", "text_body": "...", "reasoning": "one line on why this angle"}`

func buildUserPrompt(req GenerationRequest) string {
	var b strings.Builder

	b.WriteString("Lead details:\n")
	writeAttr(&b, "Name", req.Lead.Name)
	writeAttr(&b, "Company", req.Lead.Company)
	writeAttr(&b, "Project type", req.Lead.ProjectType)
	writeAttr(&b, "Industry", req.Lead.Industry)
	writeAttr(&b, "Budget range", req.Lead.BudgetRange)
	writeAttr(&b, "Timeline", req.Lead.Timeline)
	writeAttr(&b, "Notes", req.Lead.Notes)
	fmt.Fprintf(&b, "- Qualification score: %d/100\n", req.Lead.QualificationScore)

	b.WriteString("\nConversation transcript (oldest first):\n")
	for _, m := range req.Transcript {
		fmt.Fprintf(&b, "[%s] %s\n", m.Role, m.Content)
	}

	b.WriteString("\nWrite the follow-up email now.")
	return b.String()
}

func writeAttr(b *strings.Builder, label, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(b, "- %s: %s\n", label, value)
}
