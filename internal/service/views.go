package service

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/rapidoqa/coach-server/internal/domain"
	"github.com/rapidoqa/coach-server/internal/normalize"
	"go.uber.org/zap"
)

// FindAgentByEmail looks an agent up for login. It deliberately bypasses the
// session cache and fetches the agent table fresh, so a login attempt made
// before any dashboard view has triggered the cache still succeeds.
// Concurrent lookups share a single fetch.
func (s *CoachService) FindAgentByEmail(ctx context.Context, email string) (domain.Agent, error) {
	v, err, _ := s.sf.Do("login-agents", func() (any, error) {
		grid, fetchErr := s.source.Fetch(ctx, s.cfg.AgentsTable)
		if fetchErr != nil {
			return nil, fetchErr
		}
		return normalize.Agents(grid), nil
	})
	if err != nil {
		return domain.Agent{}, err
	}

	wanted := strings.ToLower(strings.TrimSpace(email))
	for _, agent := range v.([]domain.Agent) {
		if agent.AgentEmail == wanted {
			return agent, nil
		}
	}
	s.logger.Info("login lookup missed", zap.String("email", wanted))
	return domain.Agent{}, ErrAgentNotFound
}

// GetAllAgents returns every agent except the auditor account.
func (s *CoachService) GetAllAgents(ctx context.Context) ([]domain.Agent, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	agents := make([]domain.Agent, 0)
	for _, a := range s.store.Agents() {
		if s.cfg.AuditorEmail != "" && a.AgentEmail == s.cfg.AuditorEmail {
			continue
		}
		agents = append(agents, a)
	}
	return agents, nil
}

// GetDashboardData returns one agent's audits and coaching tips, both sorted
// most recent first.
func (s *CoachService) GetDashboardData(ctx context.Context, agentEmail string) (DashboardData, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return DashboardData{}, err
	}

	wanted := strings.ToLower(strings.TrimSpace(agentEmail))

	audits := make([]domain.Audit, 0)
	auditIDs := make(map[string]bool)
	for _, a := range s.store.Audits() {
		if a.AgentEmail == wanted {
			audits = append(audits, a)
			auditIDs[a.AuditID] = true
		}
	}
	sort.SliceStable(audits, func(i, j int) bool {
		return audits[i].Timestamp.After(audits[j].Timestamp)
	})

	coaching := make([]domain.CoachingTip, 0)
	for _, t := range s.store.CoachingTips() {
		if t.AuditID != "" && auditIDs[t.AuditID] {
			coaching = append(coaching, t)
		}
	}
	sort.SliceStable(coaching, func(i, j int) bool {
		return coaching[i].Timestamp.After(coaching[j].Timestamp)
	})

	return DashboardData{Audits: audits, Coaching: coaching}, nil
}

// SubmitNewAudit records a new audit, prepending it to the audit collection,
// and synchronously generates coaching when the audit qualifies. The caller
// observes the coaching outcome, successful or captured as an error-tip,
// before this returns.
func (s *CoachService) SubmitNewAudit(ctx context.Context, input NewAuditInput) (domain.Audit, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return domain.Audit{}, err
	}

	audit := domain.Audit{
		AuditID:      "aud_" + uuid.NewString(),
		Timestamp:    s.now().UTC(),
		AgentEmail:   strings.ToLower(strings.TrimSpace(input.AgentEmail)),
		AuditorEmail: strings.ToLower(strings.TrimSpace(input.AuditorEmail)),
		TicketID:     input.TicketID,
		OverallScore: input.OverallScore,
		Feedback:     input.Feedback,
	}
	s.store.PrependAudit(audit)

	if s.qualifies(audit) {
		s.logger.Info("score below coaching threshold, generating coaching",
			zap.String("auditId", audit.AuditID),
			zap.Float64("score", audit.OverallScore))
		s.store.PrependTip(s.generateTip(ctx, audit))
	}

	return audit, nil
}
