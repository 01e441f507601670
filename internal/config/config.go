package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application-wide configuration loaded from environment variables.
type Config struct {
	AppEnv    string
	Port      string
	SentryDSN string

	// Model backends. The advisor degrades to its deterministic calculator
	// when AIAPIKey or LLMURL is empty, so neither is required at startup.
	AIAPIKey            string
	LLMURL              string
	LLMModel            string
	EmbeddingServiceURL string

	// CatalogPath overrides the embedded product catalog when set.
	CatalogPath string
	OutputDir   string
	ReportPath  string

	// RedisAddr selects the Redis result cache; empty means in-memory.
	RedisAddr string
	CacheTTL  time.Duration

	AllowedOrigins []string
}

// LoadConfig reads configuration from environment variables or a .env file.
// It is the single source of truth for application configuration.
func LoadConfig() (*Config, error) {
	// Load .env file if it exists. This is great for local development.
	// In production, these will be set directly in the environment.
	_ = godotenv.Load()

	appEnv := os.Getenv("APP_ENV")
	if appEnv == "" {
		appEnv = "development"
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	model := os.Getenv("LLM_MODEL")
	if model == "" {
		model = "gpt-4o"
	}

	outputDir := os.Getenv("OUTPUT_DIR")
	if outputDir == "" {
		outputDir = "output"
	}

	reportPath := os.Getenv("REPORT_PATH")
	if reportPath == "" {
		reportPath = "output/insurance_recommendations.txt"
	}

	cacheTTL := time.Hour
	if raw := os.Getenv("CACHE_TTL"); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("FATAL: invalid CACHE_TTL %q: %w", raw, err)
		}
		cacheTTL = parsed
	}

	origins := []string{"http://localhost:5173"}
	if raw := os.Getenv("ALLOWED_ORIGIN"); raw != "" {
		origins = []string{raw}
	}

	return &Config{
		AppEnv:              appEnv,
		Port:                port,
		SentryDSN:           os.Getenv("SENTRY_DSN"),
		AIAPIKey:            os.Getenv("AI_API_KEY"),
		LLMURL:              os.Getenv("LLM_URL"),
		LLMModel:            model,
		EmbeddingServiceURL: os.Getenv("EMBEDDING_SERVICE_URL"),
		CatalogPath:         os.Getenv("CATALOG_PATH"),
		OutputDir:           outputDir,
		ReportPath:          reportPath,
		RedisAddr:           os.Getenv("REDIS_ADDR"),
		CacheTTL:            cacheTTL,
		AllowedOrigins:      origins,
	}, nil
}
