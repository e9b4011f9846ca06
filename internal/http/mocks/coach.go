package mocks

import (
	"context"

	"github.com/rapidoqa/coach-server/internal/domain"
	"github.com/rapidoqa/coach-server/internal/service"
)

// MockCoachService is a function-field test double for the handler-facing
// service interface.
type MockCoachService struct {
	FindAgentByEmailFunc   func(ctx context.Context, email string) (domain.Agent, error)
	GetAllAgentsFunc       func(ctx context.Context) ([]domain.Agent, error)
	GetDashboardDataFunc   func(ctx context.Context, agentEmail string) (service.DashboardData, error)
	GetLeaderboardDataFunc func(ctx context.Context) ([]domain.LeaderboardEntry, error)
	GetSkillUpDataFunc     func(ctx context.Context, agentEmail string) (service.SkillUpData, error)
	SubmitNewAuditFunc     func(ctx context.Context, input service.NewAuditInput) (domain.Audit, error)
}

func (m *MockCoachService) FindAgentByEmail(ctx context.Context, email string) (domain.Agent, error) {
	return m.FindAgentByEmailFunc(ctx, email)
}

func (m *MockCoachService) GetAllAgents(ctx context.Context) ([]domain.Agent, error) {
	return m.GetAllAgentsFunc(ctx)
}

func (m *MockCoachService) GetDashboardData(ctx context.Context, agentEmail string) (service.DashboardData, error) {
	return m.GetDashboardDataFunc(ctx, agentEmail)
}

func (m *MockCoachService) GetLeaderboardData(ctx context.Context) ([]domain.LeaderboardEntry, error) {
	return m.GetLeaderboardDataFunc(ctx)
}

func (m *MockCoachService) GetSkillUpData(ctx context.Context, agentEmail string) (service.SkillUpData, error) {
	return m.GetSkillUpDataFunc(ctx, agentEmail)
}

func (m *MockCoachService) SubmitNewAudit(ctx context.Context, input service.NewAuditInput) (domain.Audit, error) {
	return m.SubmitNewAuditFunc(ctx, input)
}
