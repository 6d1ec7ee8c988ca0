package usecase

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/lloydpilapil/pixelmojo-leads/internal/entity"
	"github.com/lloydpilapil/pixelmojo-leads/internal/infra/integration/openai"
	"github.com/lloydpilapil/pixelmojo-leads/internal/infra/queue"
)

// MockLeadRepository
type MockLeadRepository struct {
	mock.Mock
}

func (m *MockLeadRepository) UpsertBySession(ctx context.Context, lead *entity.Lead) error {
	args := m.Called(ctx, lead)
	return args.Error(0)
}

func (m *MockLeadRepository) FindByID(ctx context.Context, id string) (*entity.Lead, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) UpdateQualification(ctx context.Context, id string, score int, status entity.LeadStatus) error {
	args := m.Called(ctx, id, score, status)
	return args.Error(0)
}

func (m *MockLeadRepository) ListEligibleForFollowUp(ctx context.Context, minScore, maxScore int, minAge, maxAge time.Duration, limit int) ([]*entity.Lead, error) {
	args := m.Called(ctx, minScore, maxScore, minAge, maxAge, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) ClaimForFollowUp(ctx context.Context, id string, lease time.Duration) (bool, error) {
	args := m.Called(ctx, id, lease)
	return args.Bool(0), args.Error(1)
}

func (m *MockLeadRepository) ReleaseFollowUpClaim(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockLeadRepository) FinalizeFollowUp(ctx context.Context, id string, sentAt time.Time, subject string) error {
	args := m.Called(ctx, id, sentAt, subject)
	return args.Error(0)
}

func (m *MockLeadRepository) ListAll(ctx context.Context, limit int) ([]*entity.Lead, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Lead), args.Error(1)
}

// MockTranscriptRepository
type MockTranscriptRepository struct {
	mock.Mock
}

func (m *MockTranscriptRepository) ListBySession(ctx context.Context, sessionID string) ([]entity.ChatMessage, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.ChatMessage), args.Error(1)
}

// MockGenerator
type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) GenerateFollowUp(ctx context.Context, req openai.GenerationRequest) (*openai.FollowUpDraft, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*openai.FollowUpDraft), args.Error(1)
}

// MockSender
type MockSender struct {
	mock.Mock
}

func (m *MockSender) SendFollowUp(to, subject, html, text string) (string, error) {
	args := m.Called(to, subject, html, text)
	return args.String(0), args.Error(1)
}

// MockAlertPublisher
type MockAlertPublisher struct {
	mock.Mock
}

func (m *MockAlertPublisher) PublishLeadAlert(ctx context.Context, payload queue.LeadAlertPayload) error {
	args := m.Called(ctx, payload)
	return args.Error(0)
}
