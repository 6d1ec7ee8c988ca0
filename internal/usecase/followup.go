package usecase

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/lloydpilapil/pixelmojo-leads/internal/entity"
	"github.com/lloydpilapil/pixelmojo-leads/internal/infra/integration/openai"
)

// errClaimLost means a concurrent run claimed the lead first. A skip, not a
// failure.
var errClaimLost = errors.New("follow-up claim lost to a concurrent run")

// FollowUpUseCase re-engages warm-but-unqualified leads: for each eligible
// lead it generates one personalized email from the conversation transcript,
// sends it, and durably records that it was sent.
//
// Per-lead write path is two-phase: a conditional claim is taken before any
// external call, and follow_up_sent_at is stamped only after send
// confirmation. Overlapping scheduler runs therefore never double-send; a
// crash between send and stamp re-opens the lead once the claim lease
// expires (accepted at-least-once residue).
type FollowUpUseCase struct {
	Leads       entity.LeadRepositoryInterface
	Transcripts entity.ChatTranscriptInterface
	Generator   FollowUpGenerator
	Sender      FollowUpSender
	Policy      EligibilityPolicy
	BatchCap    int
	ClaimLease  time.Duration

	// Now is the clock; tests pin it.
	Now func() time.Time
}

func NewFollowUpUseCase(
	leads entity.LeadRepositoryInterface,
	transcripts entity.ChatTranscriptInterface,
	generator FollowUpGenerator,
	sender FollowUpSender,
	policy EligibilityPolicy,
	batchCap int,
	claimLease time.Duration,
) *FollowUpUseCase {
	return &FollowUpUseCase{
		Leads:       leads,
		Transcripts: transcripts,
		Generator:   generator,
		Sender:      sender,
		Policy:      policy,
		BatchCap:    batchCap,
		ClaimLease:  claimLease,
		Now:         time.Now,
	}
}

type EligibleLeadView struct {
	ID                 string  `json:"id"`
	Email              string  `json:"email"`
	Name               string  `json:"name,omitempty"`
	Score              int     `json:"score"`
	CreatedAt          string  `json:"createdAt"`
	HoursSinceCreation float64 `json:"hoursSinceCreation"`
}

// ListEligible is the read-only admin view of everything currently inside
// the follow-up window.
func (uc *FollowUpUseCase) ListEligible(ctx context.Context) ([]EligibleLeadView, error) {
	leads, err := uc.Leads.ListEligibleForFollowUp(
		ctx,
		uc.Policy.WarmBandMin, uc.Policy.WarmBandMax,
		uc.Policy.MinAge, uc.Policy.MaxAge,
		0, // unlimited: listing is a view, the cap only bounds processing
	)
	if err != nil {
		return nil, &TechnicalError{Code: "DATABASE_ERROR", Message: "failed to list eligible leads: " + err.Error()}
	}

	now := uc.Now()
	views := make([]EligibleLeadView, 0, len(leads))
	for _, l := range leads {
		views = append(views, EligibleLeadView{
			ID:                 l.ID,
			Email:              l.Email,
			Name:               l.Name,
			Score:              l.QualificationScore,
			CreatedAt:          l.CreatedAt.Format(time.RFC3339),
			HoursSinceCreation: l.Age(now).Hours(),
		})
	}
	return views, nil
}

// TriggerOne runs the full per-lead path for a manually selected lead and
// surfaces a precise reason when it declines.
func (uc *FollowUpUseCase) TriggerOne(ctx context.Context, leadID string) (*TriggerFollowUpOutput, error) {
	lead, err := uc.Leads.FindByID(ctx, leadID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &DomainError{Code: "LEAD_NOT_FOUND", Message: "Lead not found"}
		}
		return nil, &TechnicalError{Code: "DATABASE_ERROR", Message: "failed to load lead: " + err.Error()}
	}

	if ok, reason := uc.Policy.Check(lead, uc.Now()); !ok {
		return nil, &IneligibleError{Reason: reason}
	}

	out, err := uc.deliver(ctx, lead)
	if err != nil {
		if errors.Is(err, errClaimLost) {
			// Another run got there between our read and our claim.
			return nil, &IneligibleError{Reason: ReasonAlreadySent}
		}
		return nil, err
	}
	return out, nil
}

// RunBatch processes up to BatchCap eligible leads oldest-first, strictly
// sequentially. Per-lead failures are counted and recorded; only a failed
// lead-list read aborts the run.
func (uc *FollowUpUseCase) RunBatch(ctx context.Context) (*BatchResult, error) {
	leads, err := uc.Leads.ListEligibleForFollowUp(
		ctx,
		uc.Policy.WarmBandMin, uc.Policy.WarmBandMax,
		uc.Policy.MinAge, uc.Policy.MaxAge,
		uc.BatchCap,
	)
	if err != nil {
		return nil, &TechnicalError{Code: "DATABASE_ERROR", Message: "failed to list eligible leads: " + err.Error()}
	}

	result := &BatchResult{Total: len(leads), Errors: []string{}}

	for _, lead := range leads {
		// Re-check against the current clock: a lead read at the window edge
		// may have aged out while earlier leads were processed.
		if ok, reason := uc.Policy.Check(lead, uc.Now()); !ok {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("%s: skipped (%s)", lead.ID, reason))
			continue
		}

		if _, err := uc.deliver(ctx, lead); err != nil {
			if errors.Is(err, errClaimLost) {
				result.Skipped++
				result.Errors = append(result.Errors, fmt.Sprintf("%s: skipped (claimed by concurrent run)", lead.ID))
				continue
			}
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", lead.ID, err))
			log.Printf("⚠️ follow-up failed for lead %s: %v", lead.ID, err)
			continue
		}
		result.Sent++
	}

	return result, nil
}

// deliver runs claim → transcript → generate → send, then stamps the row.
// The claim is released again when any later step fails.
func (uc *FollowUpUseCase) deliver(ctx context.Context, lead *entity.Lead) (*TriggerFollowUpOutput, error) {
	var (
		transcript []entity.ChatMessage
		draft      *openai.FollowUpDraft
		emailID    string
	)

	txn := NewTransaction()

	txn.AddOperation("claim_lead", func(ctx context.Context) error {
		claimed, err := uc.Leads.ClaimForFollowUp(ctx, lead.ID, uc.ClaimLease)
		if err != nil {
			return err
		}
		if !claimed {
			return errClaimLost
		}
		return nil
	})
	txn.AddCompensation("release_claim", func(ctx context.Context) error {
		return uc.Leads.ReleaseFollowUpClaim(ctx, lead.ID)
	})

	txn.AddOperation("fetch_transcript", func(ctx context.Context) error {
		msgs, err := uc.Transcripts.ListBySession(ctx, lead.SessionID)
		if err != nil {
			return fmt.Errorf("transcript unavailable: %w", err)
		}
		if len(msgs) == 0 {
			return fmt.Errorf("transcript empty for session %s", lead.SessionID)
		}
		transcript = msgs
		return nil
	})
	txn.AddCompensation("none", nil)

	txn.AddOperation("generate_email", func(ctx context.Context) error {
		d, err := uc.Generator.GenerateFollowUp(ctx, openai.GenerationRequest{Lead: lead, Transcript: transcript})
		if err != nil {
			return fmt.Errorf("generation failed: %w", err)
		}
		draft = d
		return nil
	})
	txn.AddCompensation("none", nil)

	txn.AddOperation("send_email", func(ctx context.Context) error {
		id, err := uc.Sender.SendFollowUp(lead.Email, draft.Subject, draft.HTMLBody, draft.TextBody)
		if err != nil {
			return fmt.Errorf("send failed: %w", err)
		}
		emailID = id
		return nil
	})

	if err := txn.Execute(ctx); err != nil {
		return nil, err
	}

	// The email is out; the stamp must not be rolled back. A failure here is
	// logged and left for the claim lease to age out.
	sentAt := uc.Now()
	if err := uc.Leads.FinalizeFollowUp(ctx, lead.ID, sentAt, draft.Subject); err != nil {
		log.Printf("⚠️ sent follow-up to lead %s but failed to stamp it: %v", lead.ID, err)
	} else {
		ts := sentAt
		lead.FollowUpSentAt = &ts
		lead.FollowUpSubject = draft.Subject
	}

	return &TriggerFollowUpOutput{
		Success:   true,
		EmailID:   emailID,
		Subject:   draft.Subject,
		Reasoning: draft.Reasoning,
	}, nil
}
