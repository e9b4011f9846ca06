package service

import (
	"github.com/rapidoqa/coach-server/internal/coach"
	"github.com/rapidoqa/coach-server/internal/domain"
)

// DashboardData is one agent's audits and coaching, most recent first.
type DashboardData struct {
	Audits   []domain.Audit       `json:"audits"`
	Coaching []domain.CoachingTip `json:"coaching"`
}

// RankData is an agent's current leaderboard position plus the entry directly
// above them, when one exists.
type RankData struct {
	CurrentRank int                      `json:"currentRank"`
	AgentAbove  *domain.LeaderboardEntry `json:"agentAbove"`
}

// SkillUpData is the combined payload backing the skill-up view.
type SkillUpData struct {
	MissionData            *coach.MissionResult      `json:"missionData"`
	MissionError           string                    `json:"missionError,omitempty"`
	YesterdayScore         *float64                  `json:"yesterdayScore"`
	HasAuditsFromYesterday bool                      `json:"hasAuditsFromYesterday"`
	RankData               RankData                  `json:"rankData"`
	JourneyData            []domain.JourneyMilestone `json:"journeyData"`
}

// NewAuditInput is a submitted audit before the service assigns its id and
// timestamp.
type NewAuditInput struct {
	AgentEmail   string  `json:"agentEmail"`
	AuditorEmail string  `json:"auditorEmail"`
	TicketID     string  `json:"ticketId"`
	OverallScore float64 `json:"overallScore"`
	Feedback     string  `json:"feedback"`
}
