package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"runtime/debug"
	"time"

	"github.com/getsentry/sentry-go"
	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/policymitra/backend/internal/advisor"
	"github.com/policymitra/backend/internal/api"
	"github.com/policymitra/backend/internal/cache"
	"github.com/policymitra/backend/internal/catalog"
	"github.com/policymitra/backend/internal/charts"
	"github.com/policymitra/backend/internal/config"
	"github.com/policymitra/backend/internal/llm"
	"github.com/policymitra/backend/internal/logger"
	"github.com/policymitra/backend/internal/whatif"
)

func slogPanicRecoverMiddleware(logger *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			defer func() {
				if r := recover(); r != nil {
					err, ok := r.(error)
					if !ok {
						err = fmt.Errorf("%v", r)
					}
					reqLogger := logger.With("request_id", c.Get("requestID"))
					reqLogger.ErrorContext(c.Request().Context(), "PANIC recovered",
						slog.Any("error", err),
						slog.String("stack", string(debug.Stack())),
					)
					c.Error(err)
				}
			}()
			return next(c)
		}
	}
}

func main() {
	// 1. Load application configuration FIRST.
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Initialize Sentry. An empty DSN disables reporting.
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.SentryDSN,
		Environment:      cfg.AppEnv,
		TracesSampleRate: 1.0,
		Debug:            false,
	}); err != nil {
		fmt.Printf("Sentry initialization failed: %v\n", err)
	}
	defer sentry.Flush(2 * time.Second)

	// 3. Initialize the Logger.
	logger.InitLogger(cfg.AppEnv)
	appLogger := logger.L()

	appLogger.Info("Application starting up...", "environment", cfg.AppEnv)

	// 4. Load the product catalog.
	cat, err := catalog.Load(cfg.CatalogPath, appLogger)
	if err != nil {
		appLogger.Error("Failed to load product catalog", slog.Any("error", err))
		os.Exit(1)
	}
	appLogger.Info("Product catalog loaded.", "insurers", cat.Len())

	// 5. Initialize Core Application Components.
	llmClient := llm.NewClient(cfg.AIAPIKey, cfg.LLMURL, cfg.LLMModel, cfg.EmbeddingServiceURL, appLogger)
	if !llmClient.Enabled() {
		appLogger.Warn("No model backend configured; recommendations will use the built-in calculator")
	}

	var resultCache cache.Store
	if cfg.RedisAddr != "" {
		redisStore := cache.NewRedisStore(cfg.RedisAddr)
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := redisStore.Ping(pingCtx); err != nil {
			cancel()
			appLogger.Error("Failed to connect to Redis", slog.Any("error", err))
			os.Exit(1)
		}
		cancel()
		resultCache = redisStore
		appLogger.Info("Redis result cache connected.", "addr", cfg.RedisAddr)
	} else {
		resultCache = cache.NewMemoryStore()
		appLogger.Info("Using in-memory result cache.")
	}

	renderer, err := charts.NewRenderer(cfg.OutputDir, appLogger)
	if err != nil {
		appLogger.Error("Failed to prepare chart output directory", slog.Any("error", err))
		os.Exit(1)
	}

	reportWriter := advisor.NewReportWriter(cfg.ReportPath)

	advisorService := advisor.NewService(llmClient, cat, renderer, reportWriter, resultCache, cfg.CacheTTL, appLogger)
	responder := whatif.NewResponder(llmClient, cat, appLogger)

	apiLogger := appLogger.With("service", "api_handlers")
	advisorHandler := api.NewAdvisorHandler(advisorService, apiLogger)
	whatIfHandler := api.NewWhatIfHandler(responder, apiLogger)

	appLogger.Info("API handlers initialized.")

	// 6. Initialize Echo.
	e := echo.New()

	// Echo's own logger is silenced; slog handles all output.
	e.Logger.SetOutput(io.Discard)
	e.Logger.SetLevel(0)
	e.Logger.SetHeader("")

	// 7. Register Middleware.
	e.Use(slogPanicRecoverMiddleware(appLogger))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.AllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{"Origin", "Content-Length", "Content-Type", "Accept", "Authorization"},
	}))

	// Request Logger Middleware (For consistent request logging)
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			reqID := uuid.New().String()
			c.Set("requestID", reqID)

			start := time.Now()

			if hub := sentryecho.GetHubFromContext(c); hub != nil {
				hub.Scope().SetTag("request_id", reqID)
			}

			err := next(c)
			stop := time.Now()

			status := c.Response().Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				}
			}

			appLogger.InfoContext(c.Request().Context(), "HTTP Request",
				"request_id", reqID,
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
				"status", status,
				"latency_ms", stop.Sub(start).Milliseconds(),
				"user_agent", c.Request().UserAgent(),
				"ip", c.RealIP(),
			)
			return err
		}
	})

	e.Use(sentryecho.New(sentryecho.Options{
		Repanic: true,
	}))

	// 8. Register Routes.
	e.GET("/health", func(c echo.Context) error {
		reqLogger := appLogger.With("request_id", c.Get("requestID"))
		reqLogger.InfoContext(c.Request().Context(), "Health check requested", "ip", c.RealIP())
		return c.String(http.StatusOK, "OK")
	})

	apiGroup := e.Group("/api")
	apiGroup.Use(api.RateLimitMiddleware(2, 5))

	advisorHandler.RegisterRoutes(apiGroup)
	whatIfHandler.RegisterRoutes(apiGroup)

	// Generated chart images are served back to the frontend.
	e.Static("/output", cfg.OutputDir)

	// 9. Start the HTTP server.
	address := fmt.Sprintf("0.0.0.0:%s", cfg.Port)

	appLogger.Info("HTTP Server starting on port", "port", cfg.Port)

	if err := e.Start(address); err != nil && err != http.ErrServerClosed {
		appLogger.Error("HTTP Server failed to start", slog.Any("error", err))
		os.Exit(1)
	}
	appLogger.Info("HTTP Server stopped gracefully.")
}
