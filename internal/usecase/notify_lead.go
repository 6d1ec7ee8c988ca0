package usecase

import (
	"context"
	"log"

	"github.com/lloydpilapil/pixelmojo-leads/internal/entity"
	"github.com/lloydpilapil/pixelmojo-leads/internal/infra/queue"
)

// AlertKind picks the sales-alert template for a freshly saved lead.
type AlertKind string

const (
	AlertNone      AlertKind = ""
	AlertQualified AlertKind = "qualified"
	AlertHighValue AlertKind = "high_value"
)

type NotifyPolicy struct {
	QualifiedThreshold int // inclusive
	HighValueThreshold int // inclusive
}

func (p NotifyPolicy) AlertFor(score int) AlertKind {
	switch {
	case score >= p.HighValueThreshold:
		return AlertHighValue
	case score >= p.QualifiedThreshold:
		return AlertQualified
	}
	return AlertNone
}

// NotifyLeadUseCase decides at lead-save time whether the sales inbox gets
// an alert about the lead and queues it. Best-effort on purpose: a publish
// failure is logged and never rolls back the lead write.
type NotifyLeadUseCase struct {
	Policy    NotifyPolicy
	Publisher AlertPublisherInterface
}

func NewNotifyLeadUseCase(policy NotifyPolicy, publisher AlertPublisherInterface) *NotifyLeadUseCase {
	return &NotifyLeadUseCase{Policy: policy, Publisher: publisher}
}

// Execute returns the alert kind actually queued (AlertNone when the score
// is below threshold or the lead has no email to reference).
func (uc *NotifyLeadUseCase) Execute(ctx context.Context, lead *entity.Lead) AlertKind {
	if !lead.HasEmail() {
		return AlertNone
	}

	kind := uc.Policy.AlertFor(lead.QualificationScore)
	if kind == AlertNone {
		return AlertNone
	}

	payload := queue.LeadAlertPayload{
		LeadID:      lead.ID,
		Kind:        string(kind),
		Email:       lead.Email,
		Name:        lead.Name,
		Company:     lead.Company,
		ProjectType: lead.ProjectType,
		BudgetRange: lead.BudgetRange,
		Timeline:    lead.Timeline,
		Score:       lead.QualificationScore,
	}

	if err := uc.Publisher.PublishLeadAlert(ctx, payload); err != nil {
		log.Printf("⚠️ lead alert publish failed for %s: %v", lead.ID, err)
		return AlertNone
	}

	return kind
}
