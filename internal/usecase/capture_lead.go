package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lloydpilapil/pixelmojo-leads/internal/entity"
)

// CaptureLeadUseCase is the chat subsystem's write path: it persists the
// lead attributes extracted from a conversation, recomputes the score on
// every save and fires the sales alert when the score crosses threshold.
type CaptureLeadUseCase struct {
	Repo               entity.LeadRepositoryInterface
	Notifier           *NotifyLeadUseCase
	QualifiedThreshold int
}

func NewCaptureLeadUseCase(repo entity.LeadRepositoryInterface, notifier *NotifyLeadUseCase, qualifiedThreshold int) *CaptureLeadUseCase {
	return &CaptureLeadUseCase{
		Repo:               repo,
		Notifier:           notifier,
		QualifiedThreshold: qualifiedThreshold,
	}
}

func (uc *CaptureLeadUseCase) Execute(ctx context.Context, input CaptureLeadInput) (*CaptureLeadOutput, error) {
	validationErrors := ValidateCaptureLeadInput(input)
	if len(validationErrors) > 0 {
		errMsg := "validation failed: "
		for _, e := range validationErrors {
			errMsg += e.Field + " (" + e.Message + "), "
		}
		return nil, &DomainError{
			Code:    "VALIDATION_ERROR",
			Message: errMsg,
		}
	}

	now := time.Now()
	lead := &entity.Lead{
		ID:          uuid.New().String(),
		SessionID:   input.SessionID,
		Email:       input.Email,
		Name:        input.Name,
		Company:     input.Company,
		ProjectType: input.ProjectType,
		Industry:    input.Industry,
		BudgetRange: input.BudgetRange,
		Timeline:    input.Timeline,
		Notes:       input.Notes,
		Status:      entity.StatusNew,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	// Upsert merges this save with anything the session captured earlier and
	// fills lead back in with the merged row.
	if err := uc.Repo.UpsertBySession(ctx, lead); err != nil {
		return nil, &TechnicalError{
			Code:    "DATABASE_ERROR",
			Message: "failed to persist lead: " + err.Error(),
		}
	}

	// Score is recomputed on every save, over the merged attributes.
	lead.QualificationScore = ScoreLead(lead)

	// Status only ever upgrades from "new" here; contacted/converted/lost are
	// set by humans downstream and this path never touches them.
	if lead.Status == entity.StatusNew && lead.QualificationScore >= uc.QualifiedThreshold {
		lead.Status = entity.StatusQualified
	}

	if err := uc.Repo.UpdateQualification(ctx, lead.ID, lead.QualificationScore, lead.Status); err != nil {
		return nil, &TechnicalError{
			Code:    "DATABASE_ERROR",
			Message: "failed to update qualification: " + err.Error(),
		}
	}

	// Best-effort: the lead row persists whatever happens to the alert.
	kind := uc.Notifier.Execute(ctx, lead)

	return &CaptureLeadOutput{
		ID:          lead.ID,
		Score:       lead.QualificationScore,
		Status:      string(lead.Status),
		AlertQueued: kind != AlertNone,
		AlertKind:   string(kind),
	}, nil
}
