package handlers

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/lloydpilapil/pixelmojo-leads/internal/entity"
	"github.com/lloydpilapil/pixelmojo-leads/internal/infra/integration/openai"
	"github.com/lloydpilapil/pixelmojo-leads/internal/usecase"
)

type mockLeadRepo struct {
	mock.Mock
}

func (m *mockLeadRepo) UpsertBySession(ctx context.Context, lead *entity.Lead) error {
	args := m.Called(ctx, lead)
	return args.Error(0)
}

func (m *mockLeadRepo) FindByID(ctx context.Context, id string) (*entity.Lead, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

func (m *mockLeadRepo) UpdateQualification(ctx context.Context, id string, score int, status entity.LeadStatus) error {
	args := m.Called(ctx, id, score, status)
	return args.Error(0)
}

func (m *mockLeadRepo) ListEligibleForFollowUp(ctx context.Context, minScore, maxScore int, minAge, maxAge time.Duration, limit int) ([]*entity.Lead, error) {
	args := m.Called(ctx, minScore, maxScore, minAge, maxAge, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Lead), args.Error(1)
}

func (m *mockLeadRepo) ClaimForFollowUp(ctx context.Context, id string, lease time.Duration) (bool, error) {
	args := m.Called(ctx, id, lease)
	return args.Bool(0), args.Error(1)
}

func (m *mockLeadRepo) ReleaseFollowUpClaim(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockLeadRepo) FinalizeFollowUp(ctx context.Context, id string, sentAt time.Time, subject string) error {
	args := m.Called(ctx, id, sentAt, subject)
	return args.Error(0)
}

func (m *mockLeadRepo) ListAll(ctx context.Context, limit int) ([]*entity.Lead, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Lead), args.Error(1)
}

type mockTranscripts struct {
	mock.Mock
}

func (m *mockTranscripts) ListBySession(ctx context.Context, sessionID string) ([]entity.ChatMessage, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.ChatMessage), args.Error(1)
}

type mockGenerator struct {
	mock.Mock
}

func (m *mockGenerator) GenerateFollowUp(ctx context.Context, req openai.GenerationRequest) (*openai.FollowUpDraft, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*openai.FollowUpDraft), args.Error(1)
}

type mockSender struct {
	mock.Mock
}

func (m *mockSender) SendFollowUp(to, subject, html, text string) (string, error) {
	args := m.Called(to, subject, html, text)
	return args.String(0), args.Error(1)
}

var handlerFixedNow = time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)

func newHandlerFixture() (*FollowUpHandler, *mockLeadRepo, *mockTranscripts, *mockGenerator, *mockSender) {
	leads := new(mockLeadRepo)
	transcripts := new(mockTranscripts)
	generator := new(mockGenerator)
	sender := new(mockSender)

	uc := usecase.NewFollowUpUseCase(
		leads, transcripts, generator, sender,
		usecase.EligibilityPolicy{WarmBandMin: 40, WarmBandMax: 60, MinAge: 2 * time.Hour, MaxAge: 48 * time.Hour},
		10, 10*time.Minute,
	)
	uc.Now = func() time.Time { return handlerFixedNow }

	return NewFollowUpHandler(uc), leads, transcripts, generator, sender
}

func handlerEligibleLead(id string) *entity.Lead {
	return &entity.Lead{
		ID:                 id,
		SessionID:          "sess-" + id,
		Email:              id + "@example.com",
		QualificationScore: 45,
		Status:             entity.StatusNew,
		CreatedAt:          handlerFixedNow.Add(-10 * time.Hour),
	}
}

func TestTriggerEndpointLeadNotFound(t *testing.T) {
	handler, leads, _, _, _ := newHandlerFixture()
	leads.On("FindByID", mock.Anything, "missing").Return(nil, sql.ErrNoRows)

	body, _ := json.Marshal(map[string]string{"leadId": "missing"})
	req := httptest.NewRequest("POST", "/api/followups/trigger", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	handler.HandleTriggerOne(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)

	var resp map[string]string
	json.Unmarshal(rec.Body.Bytes(), &resp)
	assert.Equal(t, "Lead not found", resp["error"])
}

func TestTriggerEndpointMissingLeadID(t *testing.T) {
	handler, _, _, _, _ := newHandlerFixture()

	req := httptest.NewRequest("POST", "/api/followups/trigger", bytes.NewReader([]byte(`{}`)))
	rec := httptest.NewRecorder()
	handler.HandleTriggerOne(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTriggerEndpointIneligibleReturnsReason(t *testing.T) {
	handler, leads, _, _, _ := newHandlerFixture()

	sentAt := handlerFixedNow.Add(-1 * time.Hour)
	lead := handlerEligibleLead("l1")
	lead.FollowUpSentAt = &sentAt
	leads.On("FindByID", mock.Anything, "l1").Return(lead, nil)

	body, _ := json.Marshal(map[string]string{"leadId": "l1"})
	req := httptest.NewRequest("POST", "/api/followups/trigger", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	handler.HandleTriggerOne(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp map[string]string
	json.Unmarshal(rec.Body.Bytes(), &resp)
	assert.Equal(t, "Follow-up criteria not met", resp["error"])
	assert.Equal(t, "already-sent", resp["reason"])
}

func TestTriggerEndpointSuccess(t *testing.T) {
	handler, leads, transcripts, generator, sender := newHandlerFixture()

	lead := handlerEligibleLead("l1")
	draft := &openai.FollowUpDraft{
		Subject:  "Still thinking about that web app?",
		HTMLBody: "<p>Hi</p>",
		TextBody: "Hi",
	}

	leads.On("FindByID", mock.Anything, "l1").Return(lead, nil)
	leads.On("ClaimForFollowUp", mock.Anything, "l1", mock.Anything).Return(true, nil)
	transcripts.On("ListBySession", mock.Anything, "sess-l1").Return([]entity.ChatMessage{{Role: "user", Content: "hi"}}, nil)
	generator.On("GenerateFollowUp", mock.Anything, mock.Anything).Return(draft, nil)
	sender.On("SendFollowUp", "l1@example.com", draft.Subject, draft.HTMLBody, draft.TextBody).Return("email-9", nil)
	leads.On("FinalizeFollowUp", mock.Anything, "l1", handlerFixedNow, draft.Subject).Return(nil)

	body, _ := json.Marshal(map[string]string{"leadId": "l1"})
	req := httptest.NewRequest("POST", "/api/followups/trigger", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	handler.HandleTriggerOne(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp usecase.TriggerFollowUpOutput
	json.Unmarshal(rec.Body.Bytes(), &resp)
	assert.True(t, resp.Success)
	assert.Equal(t, "email-9", resp.EmailID)
	assert.Equal(t, draft.Subject, resp.Subject)
}

func TestTriggerEndpointUpstreamFailureIs500(t *testing.T) {
	handler, leads, transcripts, generator, _ := newHandlerFixture()

	lead := handlerEligibleLead("l1")
	leads.On("FindByID", mock.Anything, "l1").Return(lead, nil)
	leads.On("ClaimForFollowUp", mock.Anything, "l1", mock.Anything).Return(true, nil)
	transcripts.On("ListBySession", mock.Anything, "sess-l1").Return([]entity.ChatMessage{{Role: "user", Content: "hi"}}, nil)
	generator.On("GenerateFollowUp", mock.Anything, mock.Anything).Return(nil, assertError("model down"))
	leads.On("ReleaseFollowUpClaim", mock.Anything, "l1").Return(nil)

	body, _ := json.Marshal(map[string]string{"leadId": "l1"})
	req := httptest.NewRequest("POST", "/api/followups/trigger", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	handler.HandleTriggerOne(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestEligibleEndpoint(t *testing.T) {
	handler, leads, _, _, _ := newHandlerFixture()

	leads.On("ListEligibleForFollowUp", mock.Anything, 40, 60, 2*time.Hour, 48*time.Hour, 0).
		Return([]*entity.Lead{handlerEligibleLead("l1"), handlerEligibleLead("l2")}, nil)

	req := httptest.NewRequest("GET", "/api/followups/eligible", nil)
	rec := httptest.NewRecorder()
	handler.HandleListEligible(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp eligibleResponse
	json.Unmarshal(rec.Body.Bytes(), &resp)
	assert.Equal(t, 2, resp.Total)
	assert.Len(t, resp.Leads, 2)
}

func TestBatchEndpointAlwaysReturnsResultsOnPartialFailure(t *testing.T) {
	handler, leads, transcripts, generator, sender := newHandlerFixture()

	batch := []*entity.Lead{handlerEligibleLead("l1"), handlerEligibleLead("l2")}
	leads.On("ListEligibleForFollowUp", mock.Anything, 40, 60, 2*time.Hour, 48*time.Hour, 10).Return(batch, nil)
	leads.On("ClaimForFollowUp", mock.Anything, mock.Anything, mock.Anything).Return(true, nil)
	transcripts.On("ListBySession", mock.Anything, "sess-l1").Return([]entity.ChatMessage{{Role: "user", Content: "hi"}}, nil)
	transcripts.On("ListBySession", mock.Anything, "sess-l2").Return(nil, assertError("store down"))
	generator.On("GenerateFollowUp", mock.Anything, mock.Anything).Return(&openai.FollowUpDraft{
		Subject: "s", HTMLBody: "<p>h</p>", TextBody: "t",
	}, nil)
	sender.On("SendFollowUp", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("email-1", nil)
	leads.On("FinalizeFollowUp", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	leads.On("ReleaseFollowUpClaim", mock.Anything, "l2").Return(nil)

	req := httptest.NewRequest("POST", "/api/followups/run", nil)
	rec := httptest.NewRecorder()
	handler.HandleRunBatch(rec, req)

	// Partial failure never bubbles to the scheduler as an error.
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp batchResponse
	json.Unmarshal(rec.Body.Bytes(), &resp)
	assert.True(t, resp.Success)
	assert.Equal(t, 2, resp.Results.Total)
	assert.Equal(t, 1, resp.Results.Sent)
	assert.Equal(t, 1, resp.Results.Failed)
}

func TestBatchEndpointListFailureIs500(t *testing.T) {
	handler, leads, _, _, _ := newHandlerFixture()

	leads.On("ListEligibleForFollowUp", mock.Anything, 40, 60, 2*time.Hour, 48*time.Hour, 10).
		Return(nil, assertError("connection refused"))

	req := httptest.NewRequest("GET", "/api/followups/run", nil)
	rec := httptest.NewRecorder()
	handler.HandleRunBatch(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

type assertError string

func (e assertError) Error() string { return string(e) }
