package http

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	httpH "github.com/rapidoqa/coach-server/internal/http/handlers"
	httpMW "github.com/rapidoqa/coach-server/internal/http/middleware"
	"go.uber.org/zap"
)

type RouterConfig struct {
	Logger *zap.Logger

	HealthHandler *httpH.HealthHandler
	AuthHandler   *httpH.AuthHandler
	ViewsHandler  *httpH.ViewsHandler
	AuditsHandler *httpH.AuditsHandler

	AuthMiddleware *httpMW.AuthMiddleware

	AllowedOrigins []string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.Logger != nil {
		r.Use(httpMW.RequestLog(cfg.Logger))
	}

	corsCfg := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsCfg.AllowAllOrigins = true
	}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	corsCfg.MaxAge = 12 * time.Hour
	r.Use(cors.New(corsCfg))

	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	{
		if cfg.AuthHandler != nil {
			api.POST("/login", cfg.AuthHandler.Login)
		}
	}

	protected := api.Group("/")
	{
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireSession())
		}

		if cfg.AuthHandler != nil {
			protected.POST("/logout", cfg.AuthHandler.Logout)
			protected.GET("/me", cfg.AuthHandler.Me)
		}

		if cfg.ViewsHandler != nil {
			protected.GET("/dashboard", cfg.ViewsHandler.GetDashboard)
			protected.GET("/leaderboard", cfg.ViewsHandler.GetLeaderboard)
			protected.GET("/skill-up", cfg.ViewsHandler.GetSkillUp)
		}

		if cfg.AuditsHandler != nil {
			protected.GET("/agents", cfg.AuditsHandler.ListAgents)
			protected.POST("/audits", cfg.AuditsHandler.SubmitAudit)
		}
	}

	return r
}
