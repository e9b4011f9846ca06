package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rapidoqa/coach-server/internal/domain"
	"github.com/rapidoqa/coach-server/internal/http/response"
	"github.com/rapidoqa/coach-server/internal/session"
	"go.uber.org/zap"
)

const agentContextKey = "authedAgent"

// SessionResolver resolves a session token to its agent.
type SessionResolver interface {
	Get(ctx context.Context, token string) (domain.Agent, error)
}

type AuthMiddleware struct {
	sessions SessionResolver
	logger   *zap.Logger
}

func NewAuthMiddleware(sessions SessionResolver, logger *zap.Logger) *AuthMiddleware {
	if sessions == nil {
		panic("sessions must not be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthMiddleware{sessions: sessions, logger: logger.Named("auth")}
}

// RequireSession resolves the bearer token and attaches the agent to the
// request context, rejecting the request when the session is missing or
// expired.
func (m *AuthMiddleware) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			response.RespondError(c, http.StatusUnauthorized, "missing_token", errors.New("missing bearer token"))
			c.Abort()
			return
		}

		agent, err := m.sessions.Get(c.Request.Context(), token)
		if err != nil {
			if !errors.Is(err, session.ErrNotFound) {
				m.logger.Error("session lookup failed", zap.Error(err))
			}
			response.RespondError(c, http.StatusUnauthorized, "invalid_session", errors.New("invalid or expired session"))
			c.Abort()
			return
		}

		c.Set(agentContextKey, agent)
		c.Next()
	}
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, prefix))
}

// AgentFrom returns the agent attached by RequireSession.
func AgentFrom(c *gin.Context) (domain.Agent, bool) {
	v, ok := c.Get(agentContextKey)
	if !ok {
		return domain.Agent{}, false
	}
	agent, ok := v.(domain.Agent)
	return agent, ok
}
