package usecase

import (
	"context"

	"github.com/lloydpilapil/pixelmojo-leads/internal/infra/integration/openai"
	"github.com/lloydpilapil/pixelmojo-leads/internal/infra/queue"
)

type CaptureLeadInput struct {
	SessionID   string `json:"session_id"`
	Email       string `json:"email"`
	Name        string `json:"name"`
	Company     string `json:"company"`
	ProjectType string `json:"project_type"`
	Industry    string `json:"industry"`
	BudgetRange string `json:"budget_range"`
	Timeline    string `json:"timeline"`
	Notes       string `json:"notes"`
}

type CaptureLeadOutput struct {
	ID          string `json:"id"`
	Score       int    `json:"score"`
	Status      string `json:"status"`
	AlertQueued bool   `json:"alert_queued"`
	AlertKind   string `json:"alert_kind,omitempty"`
}

type TriggerFollowUpOutput struct {
	Success   bool   `json:"success"`
	EmailID   string `json:"emailId"`
	Subject   string `json:"subject"`
	Reasoning string `json:"reasoning,omitempty"`
}

type BatchResult struct {
	Total   int      `json:"total"`
	Sent    int      `json:"sent"`
	Failed  int      `json:"failed"`
	Skipped int      `json:"skipped"`
	Errors  []string `json:"errors"`
}

type FollowUpGenerator interface {
	GenerateFollowUp(ctx context.Context, req openai.GenerationRequest) (*openai.FollowUpDraft, error)
}

// FollowUpSender delivers the generated email and returns the provider
// message id.
type FollowUpSender interface {
	SendFollowUp(to, subject, html, text string) (string, error)
}

type AlertPublisherInterface interface {
	PublishLeadAlert(ctx context.Context, payload queue.LeadAlertPayload) error
}
