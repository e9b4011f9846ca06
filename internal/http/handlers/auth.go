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

type AuthHandler struct {
	coach    CoachService
	sessions SessionStore
	logger   *zap.Logger
}

func NewAuthHandler(coach CoachService, sessions SessionStore, logger *zap.Logger) *AuthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthHandler{coach: coach, sessions: sessions, logger: logger.Named("auth-handler")}
}

// Login matches the submitted email against the agent table. Authentication
// is email matching only; on success an opaque session token is issued.
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	agent, err := h.coach.FindAgentByEmail(c.Request.Context(), req.Email)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAgentNotFound):
			response.RespondError(c, http.StatusUnauthorized, "agent_not_found", errors.New("agent not found"))
		case errors.Is(err, source.ErrDataSource):
			h.logger.Error("login data source failure", zap.Error(err))
			response.RespondError(c, http.StatusBadGateway, "data_source_unavailable", errors.New("agent directory unavailable"))
		default:
			h.logger.Error("login failed", zap.Error(err))
			response.RespondError(c, http.StatusInternalServerError, "login_failed", errors.New("login failed"))
		}
		return
	}

	token, err := h.sessions.Create(c.Request.Context(), agent)
	if err != nil {
		h.logger.Error("session create failed", zap.Error(err))
		response.RespondError(c, http.StatusInternalServerError, "session_failed", errors.New("could not create session"))
		return
	}

	response.RespondOK(c, gin.H{
		"token": token,
		"agent": agent,
	})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	token := c.GetHeader("Authorization")
	const prefix = "Bearer "
	if len(token) > len(prefix) {
		token = token[len(prefix):]
	}
	if err := h.sessions.Delete(c.Request.Context(), token); err != nil {
		h.logger.Warn("session delete failed", zap.Error(err))
	}
	response.RespondOK(c, gin.H{"ok": true})
}

func (h *AuthHandler) Me(c *gin.Context) {
	agent, ok := middleware.AgentFrom(c)
	if !ok {
		response.RespondError(c, http.StatusUnauthorized, "no_session", errors.New("no session"))
		return
	}
	response.RespondOK(c, agent)
}
