package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rapidoqa/coach-server/internal/http/middleware"
	"github.com/rapidoqa/coach-server/internal/http/response"
	"github.com/rapidoqa/coach-server/internal/service"
	"github.com/rapidoqa/coach-server/internal/source"
	"go.uber.org/zap"
)

// AuditsHandler serves the auditor-facing endpoints: listing agents for the
// new-audit form and submitting a new audit.
type AuditsHandler struct {
	coach        CoachService
	auditorEmail string
	logger       *zap.Logger
}

func NewAuditsHandler(coach CoachService, auditorEmail string, logger *zap.Logger) *AuditsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditsHandler{coach: coach, auditorEmail: auditorEmail, logger: logger.Named("audits-handler")}
}

func (h *AuditsHandler) ListAgents(c *gin.Context) {
	agents, err := h.coach.GetAllAgents(c.Request.Context())
	if err != nil {
		if errors.Is(err, source.ErrDataSource) {
			response.RespondError(c, http.StatusBadGateway, "data_source_unavailable", errors.New("agent directory unavailable"))
			return
		}
		h.logger.Error("list agents failed", zap.Error(err))
		response.RespondError(c, http.StatusInternalServerError, "internal_error", errors.New("list agents failed"))
		return
	}
	response.RespondOK(c, gin.H{"agents": agents})
}

// SubmitAudit records a new audit. Only the auditor account may submit; the
// auditor email on the stored audit is always the session's, not the
// request's.
func (h *AuditsHandler) SubmitAudit(c *gin.Context) {
	auditor, ok := middleware.AgentFrom(c)
	if !ok {
		response.RespondError(c, http.StatusUnauthorized, "no_session", errors.New("no session"))
		return
	}
	if h.auditorEmail != "" && auditor.AgentEmail != h.auditorEmail {
		response.RespondError(c, http.StatusForbidden, "not_auditor", errors.New("only the auditor account can submit audits"))
		return
	}

	var req struct {
		AgentEmail   string  `json:"agentEmail" binding:"required"`
		TicketID     string  `json:"ticketId" binding:"required"`
		OverallScore float64 `json:"overallScore"`
		Feedback     string  `json:"feedback" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if req.OverallScore < 0 || req.OverallScore > 100 {
		response.RespondError(c, http.StatusBadRequest, "invalid_score", errors.New("overallScore must be between 0 and 100"))
		return
	}

	audit, err := h.coach.SubmitNewAudit(c.Request.Context(), service.NewAuditInput{
		AgentEmail:   req.AgentEmail,
		AuditorEmail: auditor.AgentEmail,
		TicketID:     req.TicketID,
		OverallScore: req.OverallScore,
		Feedback:     req.Feedback,
	})
	if err != nil {
		if errors.Is(err, source.ErrDataSource) {
			response.RespondError(c, http.StatusBadGateway, "data_source_unavailable", errors.New("audit data unavailable"))
			return
		}
		h.logger.Error("submit audit failed", zap.Error(err))
		response.RespondError(c, http.StatusInternalServerError, "internal_error", errors.New("submit audit failed"))
		return
	}
	response.RespondOK(c, audit)
}
