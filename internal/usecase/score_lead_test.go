package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lloydpilapil/pixelmojo-leads/internal/entity"
)

func TestScoreLeadEmptyLead(t *testing.T) {
	score := ScoreLead(&entity.Lead{})
	assert.Equal(t, 0, score)
}

func TestScoreLeadMissingAttributesContributeZero(t *testing.T) {
	// Only an email: nothing else should add points, and nothing should fail.
	lead := &entity.Lead{Email: "maria@example.com"}
	assert.Equal(t, 10, ScoreLead(lead))
}

func TestScoreLeadFullySignaledLeadHitsCeiling(t *testing.T) {
	lead := &entity.Lead{
		Email:       "ceo@acme.io",
		Name:        "Maria Santos",
		Company:     "Acme",
		ProjectType: "Web App",
		BudgetRange: "50k+",
		Timeline:    "ASAP",
		Notes:       "urgent launch, budget approved by the board",
	}

	score := ScoreLead(lead)
	assert.Equal(t, 100, score)
	assert.LessOrEqual(t, score, 100)
}

func TestScoreLeadDeterministic(t *testing.T) {
	lead := &entity.Lead{
		Email:       "dev@startup.co",
		ProjectType: "branding",
		BudgetRange: "15k-30k",
		Timeline:    "1-3 months",
	}

	first := ScoreLead(lead)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, ScoreLead(lead))
	}
}

func TestScoreLeadBudgetBuckets(t *testing.T) {
	tests := []struct {
		budget string
		want   int
	}{
		{"", 0},
		{"under 5k", 5},
		{"5k-15k", 15},
		{"15k-30k", 22},
		{"30k-50k", 26},
		{"50k+", 30},
		{"$100k", 30},
		{"we have some money", 8}, // present but unrecognized
	}

	for _, tt := range tests {
		lead := &entity.Lead{BudgetRange: tt.budget}
		assert.Equal(t, tt.want, ScoreLead(lead), "budget %q", tt.budget)
	}
}

func TestScoreLeadTimelineBuckets(t *testing.T) {
	tests := []struct {
		timeline string
		want     int
	}{
		{"", 0},
		{"ASAP", 25},
		{"1-3 months", 18},
		{"3-6 months", 12},
		{"6+ months", 5},
		{"whenever it fits", 6},
	}

	for _, tt := range tests {
		lead := &entity.Lead{Timeline: tt.timeline}
		assert.Equal(t, tt.want, ScoreLead(lead), "timeline %q", tt.timeline)
	}
}

func TestScoreLeadContactCompleteness(t *testing.T) {
	lead := &entity.Lead{Email: "a@b.co", Name: "A", Company: "B"}
	assert.Equal(t, 20, ScoreLead(lead))
}

func TestScoreLeadConversationSignals(t *testing.T) {
	urgent := &entity.Lead{Notes: "they mentioned a hard deadline next month"}
	assert.Equal(t, 5, ScoreLead(urgent))

	both := &entity.Lead{Notes: "urgent, budget approved last week"}
	assert.Equal(t, 10, ScoreLead(both))

	// Repeated keywords in the same category only count once.
	repeated := &entity.Lead{Notes: "urgent urgent asap deadline"}
	assert.Equal(t, 5, ScoreLead(repeated))
}

func TestScoreLeadAlwaysInRange(t *testing.T) {
	leads := []*entity.Lead{
		{},
		{Email: "x@y.z", Name: "X", Company: "Y", ProjectType: "saas",
			BudgetRange: "100k", Timeline: "asap", Notes: "urgent budget approved ready to start"},
		{BudgetRange: "garbage", Timeline: "garbage", ProjectType: "garbage"},
	}

	for _, l := range leads {
		score := ScoreLead(l)
		assert.GreaterOrEqual(t, score, 0)
		assert.LessOrEqual(t, score, 100)
	}
}
