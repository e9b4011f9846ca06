package domain

import (
	"time"
)

// Agent is one support agent row from the agents table. The email is the
// unique key and is always stored lower-cased and trimmed.
type Agent struct {
	AgentEmail string `json:"agentEmail"`
	AgentName  string `json:"agentName"`
	TeamLead   string `json:"teamLead"`
}

// Audit is a single scored evaluation of an agent's customer interaction.
// Immutable once created.
type Audit struct {
	AuditID      string    `json:"auditId"`
	Timestamp    time.Time `json:"timestamp"`
	AgentEmail   string    `json:"agentEmail"`
	AuditorEmail string    `json:"auditorEmail"`
	TicketID     string    `json:"ticketId"`
	OverallScore float64   `json:"overallScore"`
	Feedback     string    `json:"feedback"`
}

// CoachingTip is the generated remediation text tied to a single low-scoring
// audit. It is a tagged result: either Tips holds the generated coaching text
// ('*'-delimited items) or ErrorMessage holds the generation failure, never
// both. Consumers must branch on IsError rather than assume coaching content.
type CoachingTip struct {
	CoachingID   string    `json:"coachingId"`
	AuditID      string    `json:"auditId"`
	Tips         string    `json:"generatedCoachingTips,omitempty"`
	ErrorMessage string    `json:"generationError,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

// IsError reports whether the tip records a generation failure instead of
// coaching content.
func (t CoachingTip) IsError() bool {
	return t.ErrorMessage != ""
}
