package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rapidoqa/coach-server/internal/domain"
	httpH "github.com/rapidoqa/coach-server/internal/http/handlers"
	httpMW "github.com/rapidoqa/coach-server/internal/http/middleware"
	"github.com/rapidoqa/coach-server/internal/http/mocks"
	"github.com/rapidoqa/coach-server/internal/service"
	"github.com/rapidoqa/coach-server/internal/session"
	"github.com/rapidoqa/coach-server/internal/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const auditorEmail = "auditor@rapido.com"

var (
	janeAgent    = domain.Agent{AgentEmail: "jane@rapido.com", AgentName: "Jane Doe", TeamLead: "Lead A"}
	auditorAgent = domain.Agent{AgentEmail: auditorEmail, AgentName: "Auditor"}
)

// testRouter wires the full engine the way the app does, over mocks. Tokens
// "agent-token" and "auditor-token" resolve to a normal agent and the auditor
// account.
func testRouter(coach *mocks.MockCoachService) *gin.Engine {
	sessions := &mocks.MockSessionStore{
		CreateFunc: func(ctx context.Context, agent domain.Agent) (string, error) {
			return "fresh-token", nil
		},
		GetFunc: func(ctx context.Context, token string) (domain.Agent, error) {
			switch token {
			case "agent-token":
				return janeAgent, nil
			case "auditor-token":
				return auditorAgent, nil
			default:
				return domain.Agent{}, session.ErrNotFound
			}
		},
		DeleteFunc: func(ctx context.Context, token string) error { return nil },
	}

	return NewRouter(RouterConfig{
		HealthHandler:  httpH.NewHealthHandler(),
		AuthHandler:    httpH.NewAuthHandler(coach, sessions, zap.NewNop()),
		ViewsHandler:   httpH.NewViewsHandler(coach, zap.NewNop()),
		AuditsHandler:  httpH.NewAuditsHandler(coach, auditorEmail, zap.NewNop()),
		AuthMiddleware: httpMW.NewAuthMiddleware(sessions, zap.NewNop()),
	})
}

func doJSON(r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	return envelope.Error.Code
}

func TestHealthcheck(t *testing.T) {
	r := testRouter(&mocks.MockCoachService{})
	w := doJSON(r, http.MethodGet, "/healthcheck", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestLogin(t *testing.T) {
	t.Run("known email returns token and agent", func(t *testing.T) {
		coach := &mocks.MockCoachService{
			FindAgentByEmailFunc: func(ctx context.Context, email string) (domain.Agent, error) {
				assert.Equal(t, "jane@rapido.com", email)
				return janeAgent, nil
			},
		}
		w := doJSON(testRouter(coach), http.MethodPost, "/api/login", "", gin.H{"email": "jane@rapido.com"})

		assert.Equal(t, http.StatusOK, w.Code)
		var resp struct {
			Token string       `json:"token"`
			Agent domain.Agent `json:"agent"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "fresh-token", resp.Token)
		assert.Equal(t, janeAgent, resp.Agent)
	})

	t.Run("unknown email is unauthorized", func(t *testing.T) {
		coach := &mocks.MockCoachService{
			FindAgentByEmailFunc: func(ctx context.Context, email string) (domain.Agent, error) {
				return domain.Agent{}, service.ErrAgentNotFound
			},
		}
		w := doJSON(testRouter(coach), http.MethodPost, "/api/login", "", gin.H{"email": "nobody@rapido.com"})

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "agent_not_found", errorCode(t, w))
	})

	t.Run("data source failure maps to bad gateway", func(t *testing.T) {
		coach := &mocks.MockCoachService{
			FindAgentByEmailFunc: func(ctx context.Context, email string) (domain.Agent, error) {
				return domain.Agent{}, fmt.Errorf("%w: upstream 500", source.ErrDataSource)
			},
		}
		w := doJSON(testRouter(coach), http.MethodPost, "/api/login", "", gin.H{"email": "jane@rapido.com"})

		assert.Equal(t, http.StatusBadGateway, w.Code)
		assert.Equal(t, "data_source_unavailable", errorCode(t, w))
	})

	t.Run("missing email is a bad request", func(t *testing.T) {
		w := doJSON(testRouter(&mocks.MockCoachService{}), http.MethodPost, "/api/login", "", gin.H{})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestRequireSession(t *testing.T) {
	coach := &mocks.MockCoachService{
		GetDashboardDataFunc: func(ctx context.Context, agentEmail string) (service.DashboardData, error) {
			return service.DashboardData{}, nil
		},
	}
	r := testRouter(coach)

	t.Run("missing token", func(t *testing.T) {
		w := doJSON(r, http.MethodGet, "/api/dashboard", "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "missing_token", errorCode(t, w))
	})

	t.Run("unknown token", func(t *testing.T) {
		w := doJSON(r, http.MethodGet, "/api/dashboard", "stale-token", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "invalid_session", errorCode(t, w))
	})

	t.Run("valid token passes through", func(t *testing.T) {
		w := doJSON(r, http.MethodGet, "/api/dashboard", "agent-token", nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestMe(t *testing.T) {
	r := testRouter(&mocks.MockCoachService{})
	w := doJSON(r, http.MethodGet, "/api/me", "agent-token", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	var agent domain.Agent
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &agent))
	assert.Equal(t, janeAgent, agent)
}

func TestDashboardRoute(t *testing.T) {
	t.Run("serves the session agent's data", func(t *testing.T) {
		coach := &mocks.MockCoachService{
			GetDashboardDataFunc: func(ctx context.Context, agentEmail string) (service.DashboardData, error) {
				assert.Equal(t, "jane@rapido.com", agentEmail)
				return service.DashboardData{
					Audits: []domain.Audit{{AuditID: "aud_1", AgentEmail: agentEmail, OverallScore: 72}},
					Coaching: []domain.CoachingTip{
						{CoachingID: "coach_1", AuditID: "aud_1", Tips: "* Slow down."},
					},
				}, nil
			},
		}
		w := doJSON(testRouter(coach), http.MethodGet, "/api/dashboard", "agent-token", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		var resp struct {
			Audits   []domain.Audit       `json:"audits"`
			Coaching []domain.CoachingTip `json:"coaching"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp.Audits, 1)
		assert.Equal(t, "aud_1", resp.Audits[0].AuditID)
		require.Len(t, resp.Coaching, 1)
		assert.Equal(t, "* Slow down.", resp.Coaching[0].Tips)
	})

	t.Run("data source failure maps to bad gateway", func(t *testing.T) {
		coach := &mocks.MockCoachService{
			GetDashboardDataFunc: func(ctx context.Context, agentEmail string) (service.DashboardData, error) {
				return service.DashboardData{}, fmt.Errorf("%w: quota", source.ErrDataSource)
			},
		}
		w := doJSON(testRouter(coach), http.MethodGet, "/api/dashboard", "agent-token", nil)
		assert.Equal(t, http.StatusBadGateway, w.Code)
	})
}

func TestLeaderboardRoute(t *testing.T) {
	coach := &mocks.MockCoachService{
		GetLeaderboardDataFunc: func(ctx context.Context) ([]domain.LeaderboardEntry, error) {
			return []domain.LeaderboardEntry{
				{Rank: 1, AgentName: "Omar N", AverageScore: 95, AuditsCompleted: 2},
				{Rank: 2, AgentName: "Jane Doe", AverageScore: 80, AuditsCompleted: 3},
			}, nil
		},
	}
	w := doJSON(testRouter(coach), http.MethodGet, "/api/leaderboard", "agent-token", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Leaderboard []domain.LeaderboardEntry `json:"leaderboard"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Leaderboard, 2)
	assert.Equal(t, 1, resp.Leaderboard[0].Rank)
}

func TestListAgentsRoute(t *testing.T) {
	coach := &mocks.MockCoachService{
		GetAllAgentsFunc: func(ctx context.Context) ([]domain.Agent, error) {
			return []domain.Agent{janeAgent}, nil
		},
	}
	w := doJSON(testRouter(coach), http.MethodGet, "/api/agents", "auditor-token", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Agents []domain.Agent `json:"agents"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Agents, 1)
	assert.Equal(t, janeAgent, resp.Agents[0])
}

func TestSubmitAuditRoute(t *testing.T) {
	body := gin.H{
		"agentEmail":   "jane@rapido.com",
		"ticketId":     "T-7",
		"overallScore": 55,
		"feedback":     "Needs stronger closings",
	}

	t.Run("auditor submission succeeds", func(t *testing.T) {
		coach := &mocks.MockCoachService{
			SubmitNewAuditFunc: func(ctx context.Context, input service.NewAuditInput) (domain.Audit, error) {
				assert.Equal(t, "jane@rapido.com", input.AgentEmail)
				assert.Equal(t, auditorEmail, input.AuditorEmail)
				assert.Equal(t, 55.0, input.OverallScore)
				return domain.Audit{AuditID: "aud_new", AgentEmail: input.AgentEmail}, nil
			},
		}
		w := doJSON(testRouter(coach), http.MethodPost, "/api/audits", "auditor-token", body)

		assert.Equal(t, http.StatusOK, w.Code)
		var audit domain.Audit
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &audit))
		assert.Equal(t, "aud_new", audit.AuditID)
	})

	t.Run("non-auditor session is forbidden", func(t *testing.T) {
		w := doJSON(testRouter(&mocks.MockCoachService{}), http.MethodPost, "/api/audits", "agent-token", body)
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, "not_auditor", errorCode(t, w))
	})

	t.Run("out-of-range score is rejected", func(t *testing.T) {
		bad := gin.H{
			"agentEmail":   "jane@rapido.com",
			"ticketId":     "T-7",
			"overallScore": 120,
			"feedback":     "x",
		}
		w := doJSON(testRouter(&mocks.MockCoachService{}), http.MethodPost, "/api/audits", "auditor-token", bad)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "invalid_score", errorCode(t, w))
	})

	t.Run("missing fields are rejected", func(t *testing.T) {
		w := doJSON(testRouter(&mocks.MockCoachService{}), http.MethodPost, "/api/audits", "auditor-token", gin.H{"agentEmail": "jane@rapido.com"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestLogoutRoute(t *testing.T) {
	r := testRouter(&mocks.MockCoachService{})
	w := doJSON(r, http.MethodPost, "/api/logout", "agent-token", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok":true}`, w.Body.String())
}
