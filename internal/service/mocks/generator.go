package mocks

import (
	"context"
	"errors"

	"github.com/rapidoqa/coach-server/internal/coach"
	"github.com/rapidoqa/coach-server/internal/domain"
)

// MockGenerator is a mock implementation of the Generator interface for
// testing the service layer.
type MockGenerator struct {
	CoachingTipsFunc func(ctx context.Context, feedback string) (string, error)
	DailyMissionFunc func(ctx context.Context, audits []domain.Audit) (*coach.MissionResult, error)
	ProTipFunc       func(ctx context.Context, milestoneName string) (string, error)
}

// CoachingTips implements the Generator interface
func (m *MockGenerator) CoachingTips(ctx context.Context, feedback string) (string, error) {
	if m.CoachingTipsFunc != nil {
		return m.CoachingTipsFunc(ctx, feedback)
	}
	return "", errors.New("CoachingTipsFunc not implemented")
}

// DailyMission implements the Generator interface
func (m *MockGenerator) DailyMission(ctx context.Context, audits []domain.Audit) (*coach.MissionResult, error) {
	if m.DailyMissionFunc != nil {
		return m.DailyMissionFunc(ctx, audits)
	}
	return nil, errors.New("DailyMissionFunc not implemented")
}

// ProTip implements the Generator interface
func (m *MockGenerator) ProTip(ctx context.Context, milestoneName string) (string, error) {
	if m.ProTipFunc != nil {
		return m.ProTipFunc(ctx, milestoneName)
	}
	return "", errors.New("ProTipFunc not implemented")
}
