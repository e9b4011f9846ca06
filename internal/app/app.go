package app

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rapidoqa/coach-server/internal/coach"
	"github.com/rapidoqa/coach-server/internal/config"
	apphttp "github.com/rapidoqa/coach-server/internal/http"
	httpH "github.com/rapidoqa/coach-server/internal/http/handlers"
	httpMW "github.com/rapidoqa/coach-server/internal/http/middleware"
	"github.com/rapidoqa/coach-server/internal/service"
	"github.com/rapidoqa/coach-server/internal/session"
	"github.com/rapidoqa/coach-server/internal/source"
	"github.com/rapidoqa/coach-server/internal/store"
	"github.com/rapidoqa/coach-server/pkg/cache"
	dbbuilder "github.com/rapidoqa/coach-server/pkg/database"
	"github.com/rapidoqa/coach-server/pkg/httpserver"

	"go.uber.org/zap"
)

type App struct {
	logger     *zap.Logger
	dbPool     *sql.DB
	cache      *cache.Cache
	httpServer *httpserver.Server
}

func NewApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	var (
		tabular service.TabularSource
		dbPool  *sql.DB
	)
	switch cfg.SourceKind {
	case "sqlite":
		pool, err := dbbuilder.New(
			dbbuilder.WithDriver(cfg.DBDriver),
			dbbuilder.WithDataSource(cfg.DBPath),
		)
		if err != nil {
			return nil, fmt.Errorf("database init failed: %w", err)
		}
		dbPool = pool
		tabular = source.NewSQLiteSource(pool, logger)
		logger.Info("sqlite tabular source initialized", zap.String("path", cfg.DBPath))
	default:
		src, err := source.NewSheetsSource(source.SheetsOptions{
			SpreadsheetID: cfg.SpreadsheetID,
			APIKey:        cfg.SheetsAPIKey,
			Logger:        logger,
		})
		if err != nil {
			return nil, fmt.Errorf("sheets source init failed: %w", err)
		}
		tabular = src
		logger.Info("sheets tabular source initialized", zap.String("spreadsheet", cfg.SpreadsheetID))
	}

	generator, err := coach.NewGeminiGenerator(ctx, coach.GeminiOptions{
		APIKey:   cfg.GeminiAPIKey,
		Model:    cfg.GeminiModel,
		Attempts: cfg.GenerationAttempts,
		Logger:   logger,
	})
	if err != nil {
		return nil, fmt.Errorf("generator init failed: %w", err)
	}
	logger.Info("generator initialized", zap.String("model", cfg.GeminiModel))

	cacheClient, err := cache.New(ctx,
		cache.WithAddress(cfg.RedisAddr),
	)
	if err != nil {
		return nil, fmt.Errorf("cache init failed: %w", err)
	}
	logger.Info("session cache initialized", zap.String("addr", cfg.RedisAddr))

	coachService := service.NewCoachService(tabular, generator, store.New(), logger, service.Config{
		AuditorEmail:          cfg.AuditorEmail,
		GenerationConcurrency: cfg.GenerationConcurrency,
	})

	sessions := session.NewStore(cacheClient, cfg.SessionTTL, logger)

	router := apphttp.NewRouter(apphttp.RouterConfig{
		Logger:         logger,
		HealthHandler:  httpH.NewHealthHandler(),
		AuthHandler:    httpH.NewAuthHandler(coachService, sessions, logger),
		ViewsHandler:   httpH.NewViewsHandler(coachService, logger),
		AuditsHandler:  httpH.NewAuditsHandler(coachService, cfg.AuditorEmail, logger),
		AuthMiddleware: httpMW.NewAuthMiddleware(sessions, logger),
		AllowedOrigins: cfg.AllowedOrigins,
	})

	httpServer, err := httpserver.New(
		httpserver.WithPort(cfg.HTTPPort),
		httpserver.WithLogger(logger),
		httpserver.WithHandler(router),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP server: %w", err)
	}

	return &App{
		logger:     logger,
		dbPool:     dbPool,
		cache:      cacheClient,
		httpServer: httpServer,
	}, nil
}

// Run starts the application and blocks until a shutdown signal is received.
func (a *App) Run() error {
	a.logger.Info("application starting")

	a.httpServer.Start()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	a.logger.Info("application shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(ctx); err != nil {
		a.logger.Error("http shutdown error", zap.Error(err))
	}

	if err := a.cache.Close(); err != nil {
		a.logger.Error("cache shutdown error", zap.Error(err))
	}
	if a.dbPool != nil {
		if err := a.dbPool.Close(); err != nil {
			a.logger.Error("database shutdown error", zap.Error(err))
		}
	}

	a.logger.Info("graceful shutdown completed")

	_ = a.logger.Sync()
	return nil
}
