package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseLeadStatus(t *testing.T) {
	for _, valid := range []string{"new", "qualified", "contacted", "converted", "lost"} {
		status, err := ParseLeadStatus(valid)
		assert.NoError(t, err)
		assert.Equal(t, LeadStatus(valid), status)
	}

	_, err := ParseLeadStatus("recovered")
	assert.Error(t, err)

	_, err = ParseLeadStatus("")
	assert.Error(t, err)
}

func TestNewLead(t *testing.T) {
	lead, err := NewLead("sess-1")
	assert.NoError(t, err)
	assert.NotEmpty(t, lead.ID)
	assert.Equal(t, StatusNew, lead.Status)

	_, err = NewLead("")
	assert.Error(t, err)
}

func TestLeadValidateScoreBounds(t *testing.T) {
	lead, _ := NewLead("sess-1")

	lead.QualificationScore = 100
	assert.NoError(t, lead.Validate())

	lead.QualificationScore = 101
	assert.Error(t, lead.Validate())

	lead.QualificationScore = -1
	assert.Error(t, lead.Validate())
}

func TestLeadAge(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	lead := &Lead{CreatedAt: now.Add(-10 * time.Hour)}
	assert.Equal(t, 10*time.Hour, lead.Age(now))
}

func TestLeadHasEmail(t *testing.T) {
	assert.False(t, (&Lead{}).HasEmail())
	assert.True(t, (&Lead{Email: "a@b.co"}).HasEmail())
}
