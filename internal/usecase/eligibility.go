package usecase

import (
	"time"

	"github.com/lloydpilapil/pixelmojo-leads/internal/entity"
)

type IneligibilityReason string

const (
	ReasonNoEmail          IneligibilityReason = "no-email"
	ReasonScoreTooLow      IneligibilityReason = "score-too-low"
	ReasonAlreadyQualified IneligibilityReason = "already-qualified"
	ReasonAlreadySent      IneligibilityReason = "already-sent"
	ReasonTooRecent        IneligibilityReason = "too-recent"
	ReasonTooOld           IneligibilityReason = "too-old"
)

// EligibilityPolicy decides whether a lead may receive a re-engagement
// email. Pure function of lead state and the supplied clock reading.
type EligibilityPolicy struct {
	WarmBandMin int // inclusive
	WarmBandMax int // exclusive: leads at or above are already notified
	MinAge      time.Duration
	MaxAge      time.Duration
}

// Check returns (true, "") for an eligible lead, otherwise the first
// failing criterion as an enumerated reason.
func (p EligibilityPolicy) Check(l *entity.Lead, now time.Time) (bool, IneligibilityReason) {
	if !l.HasEmail() {
		return false, ReasonNoEmail
	}
	if l.FollowUpSentAt != nil {
		return false, ReasonAlreadySent
	}
	if l.QualificationScore < p.WarmBandMin {
		return false, ReasonScoreTooLow
	}
	if l.QualificationScore >= p.WarmBandMax {
		return false, ReasonAlreadyQualified
	}

	// Window is inclusive at both ends: exactly 2h old is eligible, exactly
	// 48h old is eligible, one second either side is not.
	age := l.Age(now)
	if age < p.MinAge {
		return false, ReasonTooRecent
	}
	if age > p.MaxAge {
		return false, ReasonTooOld
	}

	return true, ""
}
