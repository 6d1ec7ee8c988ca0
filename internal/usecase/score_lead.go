package usecase

import (
	"strings"

	"github.com/lloydpilapil/pixelmojo-leads/internal/entity"
)

// Component weights. They sum to 100 so a fully-filled, urgent,
// budget-confirmed lead lands exactly on the ceiling.
const (
	maxBudgetPoints   = 30
	maxTimelinePoints = 25
	maxProjectPoints  = 15
	emailPoints       = 10
	namePoints        = 5
	companyPoints     = 5
	urgencyPoints     = 5
	budgetOKPoints    = 5
)

// ScoreLead maps a lead's captured attributes to a 0-100 sales-readiness
// score. Deterministic, no side effects; missing attributes contribute zero
// rather than failing.
func ScoreLead(l *entity.Lead) int {
	score := budgetPoints(l.BudgetRange) +
		timelinePoints(l.Timeline) +
		projectPoints(l.ProjectType) +
		contactPoints(l) +
		signalPoints(l.Notes)

	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// budgetPoints scores the free-text budget bucket the chat widget captures.
// Unrecognized but present text still earns a floor: the prospect at least
// talked numbers.
func budgetPoints(raw string) int {
	b := normalize(raw)
	if b == "" {
		return 0
	}

	switch {
	case strings.Contains(b, "100k") || strings.Contains(b, "50k+") || strings.Contains(b, "over50k"):
		return maxBudgetPoints
	case strings.Contains(b, "30k-50k") || strings.Contains(b, "30kto50k"):
		return 26
	case strings.Contains(b, "15k-30k") || strings.Contains(b, "15kto30k"):
		return 22
	case strings.Contains(b, "5k-15k") || strings.Contains(b, "5kto15k"):
		return 15
	case strings.Contains(b, "under5k") || strings.Contains(b, "<5k") || strings.Contains(b, "below5k"):
		return 5
	}
	return 8
}

func timelinePoints(raw string) int {
	t := normalize(raw)
	if t == "" {
		return 0
	}

	switch {
	case strings.Contains(t, "asap") || strings.Contains(t, "immediately") || strings.Contains(t, "urgent"):
		return maxTimelinePoints
	case strings.Contains(t, "1-3month") || strings.Contains(t, "thisquarter") || strings.Contains(t, "1to3month"):
		return 18
	case strings.Contains(t, "3-6month") || strings.Contains(t, "3to6month"):
		return 12
	case strings.Contains(t, "6+month") || strings.Contains(t, "nextyear") || strings.Contains(t, "someday"):
		return 5
	}
	return 6
}

func projectPoints(raw string) int {
	p := normalize(raw)
	if p == "" {
		return 0
	}

	// Retainer-shaped work the studio actively sells. "ai" alone would match
	// inside words like "maintenance", so it only counts as an exact value.
	if p == "ai" {
		return maxProjectPoints
	}
	for _, core := range []string{"webapp", "web-app", "saas", "aiproduct", "aiintegration", "productdesign", "branding", "website"} {
		if strings.Contains(p, core) {
			return maxProjectPoints
		}
	}
	return 10
}

func contactPoints(l *entity.Lead) int {
	pts := 0
	if l.HasEmail() {
		pts += emailPoints
	}
	if l.Name != "" {
		pts += namePoints
	}
	if l.Company != "" {
		pts += companyPoints
	}
	return pts
}

// signalPoints scans conversation notes for explicit urgency or
// budget-alignment surfaced during the chat.
func signalPoints(notes string) int {
	n := strings.ToLower(notes)
	pts := 0

	for _, kw := range []string{"urgent", "asap", "deadline", "launch date"} {
		if strings.Contains(n, kw) {
			pts += urgencyPoints
			break
		}
	}
	for _, kw := range []string{"budget approved", "budget confirmed", "ready to start", "signed off"} {
		if strings.Contains(n, kw) {
			pts += budgetOKPoints
			break
		}
	}
	return pts
}

func normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, cut := range []string{" ", "$", "usd", ","} {
		s = strings.ReplaceAll(s, cut, "")
	}
	return s
}
