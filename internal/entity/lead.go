package entity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type LeadStatus string

const (
	StatusNew       LeadStatus = "new"
	StatusQualified LeadStatus = "qualified"
	StatusContacted LeadStatus = "contacted"
	StatusConverted LeadStatus = "converted"
	StatusLost      LeadStatus = "lost"
)

func ParseLeadStatus(s string) (LeadStatus, error) {
	switch LeadStatus(s) {
	case StatusNew, StatusQualified, StatusContacted, StatusConverted, StatusLost:
		return LeadStatus(s), nil
	}
	return "", fmt.Errorf("unknown lead status %q", s)
}

func (s LeadStatus) Valid() bool {
	_, err := ParseLeadStatus(string(s))
	return err == nil
}

// Lead is one prospective client captured during a chat conversation.
type Lead struct {
	ID                 string     `json:"id"`
	SessionID          string     `json:"session_id"`
	Email              string     `json:"email,omitempty"` // optional at capture, required for any outbound send
	Name               string     `json:"name,omitempty"`
	Company            string     `json:"company,omitempty"`
	ProjectType        string     `json:"project_type,omitempty"`
	Industry           string     `json:"industry,omitempty"`
	BudgetRange        string     `json:"budget_range,omitempty"`
	Timeline           string     `json:"timeline,omitempty"`
	Notes              string     `json:"notes,omitempty"`
	QualificationScore int        `json:"qualification_score"`
	Status             LeadStatus `json:"status"`
	FollowUpSentAt     *time.Time `json:"follow_up_sent_at,omitempty"`
	FollowUpSubject    string     `json:"follow_up_subject,omitempty"`
	FollowUpClaimedAt  *time.Time `json:"follow_up_claimed_at,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// Factory
func NewLead(sessionID string) (*Lead, error) {
	if sessionID == "" {
		return nil, errors.New("session id is required")
	}

	now := time.Now()
	return &Lead{
		ID:        uuid.New().String(),
		SessionID: sessionID,
		Status:    StatusNew,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (l *Lead) Validate() error {
	if l.SessionID == "" {
		return errors.New("session id is required")
	}
	if l.QualificationScore < 0 || l.QualificationScore > 100 {
		return fmt.Errorf("qualification score %d out of range [0,100]", l.QualificationScore)
	}
	if !l.Status.Valid() {
		return fmt.Errorf("invalid status %q", l.Status)
	}
	return nil
}

func (l *Lead) HasEmail() bool {
	return l.Email != ""
}

// Age is the time elapsed since the lead was captured.
func (l *Lead) Age(now time.Time) time.Duration {
	return now.Sub(l.CreatedAt)
}

type LeadRepositoryInterface interface {
	UpsertBySession(ctx context.Context, lead *Lead) error
	FindByID(ctx context.Context, id string) (*Lead, error)

	// UpdateQualification persists the recomputed score and the (possibly
	// upgraded) status after a save.
	UpdateQualification(ctx context.Context, id string, score int, status LeadStatus) error

	// ListEligibleForFollowUp returns unsent warm-band leads inside the age
	// window, oldest first, at most limit rows.
	ListEligibleForFollowUp(ctx context.Context, minScore, maxScore int, minAge, maxAge time.Duration, limit int) ([]*Lead, error)

	// ClaimForFollowUp conditionally marks the lead in-flight. It returns
	// false when the lead is already sent or already claimed inside the
	// lease window.
	ClaimForFollowUp(ctx context.Context, id string, lease time.Duration) (bool, error)

	ReleaseFollowUpClaim(ctx context.Context, id string) error

	// FinalizeFollowUp stamps follow_up_sent_at and the subject actually
	// sent; it only ever runs after send confirmation.
	FinalizeFollowUp(ctx context.Context, id string, sentAt time.Time, subject string) error

	ListAll(ctx context.Context, limit int) ([]*Lead, error)
}
