package handlers

import (
	"context"

	"github.com/rapidoqa/coach-server/internal/domain"
	"github.com/rapidoqa/coach-server/internal/service"
)

// CoachService defines the operations the handlers need from the service
// layer.
type CoachService interface {
	FindAgentByEmail(ctx context.Context, email string) (domain.Agent, error)
	GetAllAgents(ctx context.Context) ([]domain.Agent, error)
	GetDashboardData(ctx context.Context, agentEmail string) (service.DashboardData, error)
	GetLeaderboardData(ctx context.Context) ([]domain.LeaderboardEntry, error)
	GetSkillUpData(ctx context.Context, agentEmail string) (service.SkillUpData, error)
	SubmitNewAudit(ctx context.Context, input service.NewAuditInput) (domain.Audit, error)
}

// SessionStore defines the session operations the auth handler and
// middleware need.
type SessionStore interface {
	Create(ctx context.Context, agent domain.Agent) (string, error)
	Get(ctx context.Context, token string) (domain.Agent, error)
	Delete(ctx context.Context, token string) error
}
