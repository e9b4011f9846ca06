package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rapidoqa/coach-server/internal/http/middleware"
	"github.com/rapidoqa/coach-server/internal/http/response"
	"github.com/rapidoqa/coach-server/internal/source"
	"go.uber.org/zap"
)

// ViewsHandler serves the read-only dashboard, leaderboard and skill-up
// payloads for the logged-in agent.
type ViewsHandler struct {
	coach  CoachService
	logger *zap.Logger
}

func NewViewsHandler(coach CoachService, logger *zap.Logger) *ViewsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ViewsHandler{coach: coach, logger: logger.Named("views-handler")}
}

func (h *ViewsHandler) respondViewError(c *gin.Context, op string, err error) {
	if errors.Is(err, source.ErrDataSource) {
		h.logger.Error("data source failure", zap.String("op", op), zap.Error(err))
		response.RespondError(c, http.StatusBadGateway, "data_source_unavailable", errors.New("audit data unavailable"))
		return
	}
	h.logger.Error("unexpected error", zap.String("op", op), zap.Error(err))
	response.RespondError(c, http.StatusInternalServerError, "internal_error", errors.New(op+" failed"))
}

func (h *ViewsHandler) GetDashboard(c *gin.Context) {
	agent, ok := middleware.AgentFrom(c)
	if !ok {
		response.RespondError(c, http.StatusUnauthorized, "no_session", errors.New("no session"))
		return
	}
	data, err := h.coach.GetDashboardData(c.Request.Context(), agent.AgentEmail)
	if err != nil {
		h.respondViewError(c, "GetDashboard", err)
		return
	}
	response.RespondOK(c, data)
}

func (h *ViewsHandler) GetLeaderboard(c *gin.Context) {
	entries, err := h.coach.GetLeaderboardData(c.Request.Context())
	if err != nil {
		h.respondViewError(c, "GetLeaderboard", err)
		return
	}
	response.RespondOK(c, gin.H{"leaderboard": entries})
}

func (h *ViewsHandler) GetSkillUp(c *gin.Context) {
	agent, ok := middleware.AgentFrom(c)
	if !ok {
		response.RespondError(c, http.StatusUnauthorized, "no_session", errors.New("no session"))
		return
	}
	data, err := h.coach.GetSkillUpData(c.Request.Context(), agent.AgentEmail)
	if err != nil {
		h.respondViewError(c, "GetSkillUp", err)
		return
	}
	response.RespondOK(c, data)
}
