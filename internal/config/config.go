package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Config holds all configuration for the application.
type Config struct {
	AppEnv   string
	HTTPPort int
	// AllowedOrigins restricts CORS; empty means allow all.
	AllowedOrigins []string

	// SourceKind selects the tabular backend: "sheets" or "sqlite".
	SourceKind    string
	SpreadsheetID string
	SheetsAPIKey  string
	DBPath        string
	DBDriver      string

	RedisAddr  string
	SessionTTL time.Duration

	GeminiAPIKey       string
	GeminiModel        string
	GenerationAttempts int
	// GenerationConcurrency caps concurrent coaching generations during the
	// backfill pass; 0 means unbounded.
	GenerationConcurrency int

	AuditorEmail string
}

// LoadFromEnv loads configuration from environment variables.
func LoadFromEnv() *Config {
	return &Config{
		AppEnv:                getEnv("APP_ENV", "development"),
		HTTPPort:              getEnvInt("HTTP_PORT", 8080),
		AllowedOrigins:        splitList(getEnv("CORS_ALLOWED_ORIGINS", "")),
		SourceKind:            getEnv("SOURCE_KIND", "sheets"),
		SpreadsheetID:         getEnv("SHEETS_SPREADSHEET_ID", ""),
		SheetsAPIKey:          getEnv("SHEETS_API_KEY", ""),
		DBPath:                getEnv("DB_PATH", "./data/database.db"),
		DBDriver:              getEnv("DB_DRIVER", "sqlite3"),
		RedisAddr:             getEnv("REDIS_ADDR", "localhost:6379"),
		SessionTTL:            getEnvDuration("SESSION_TTL", 12*time.Hour),
		GeminiAPIKey:          getEnv("GEMINI_API_KEY", ""),
		GeminiModel:           getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		GenerationAttempts:    getEnvInt("GENERATION_ATTEMPTS", 1),
		GenerationConcurrency: getEnvInt("GENERATION_CONCURRENCY", 0),
		AuditorEmail:          getEnv("AUDITOR_EMAIL", "auditor@rapido.com"),
	}
}

// NewLogger creates a new Zap logger based on the config.
func NewLogger(cfg *Config) (*zap.Logger, error) {
	if cfg.AppEnv == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	val, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return val
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	val, err := time.ParseDuration(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return val
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
