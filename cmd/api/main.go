// @title Quran Coach API
// @version 1.0
// @description API for logging Quran recitation practice sessions and generating AI coaching insights.
// @host localhost:8080
// @BasePath /api
// @schemes http https
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
// @description Type 'Bearer YOUR_JWT_TOKEN' to authorize.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"quran-coach/internal/adapter"
	"quran-coach/internal/ai"
	"quran-coach/internal/cache"
	"quran-coach/internal/config"
	"quran-coach/internal/database"
	"quran-coach/internal/handler"
	"quran-coach/internal/logger"
	"quran-coach/internal/middleware"
	"quran-coach/internal/repository"
	"quran-coach/internal/service"
	"quran-coach/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

// requestLogger is a middleware that logs HTTP requests
func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		path := c.Path()
		method := c.Method()

		err := c.Next()

		duration := time.Since(start)
		status := c.Response().StatusCode()

		logger.Get().Info("HTTP Request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("duration", duration),
			zap.String("ip", c.IP()),
			zap.String("user_agent", c.Get("User-Agent")),
		)

		return err
	}
}

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Initialize logger
	if err := logger.Initialize(cfg.Logger.Level, cfg.Logger.Env); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	ctx := context.Background()

	// Initialize AI services. Credentials were checked at config time;
	// per-call failures surface through the retry-wrapped services.
	retryCfg := ai.DefaultRetryConfig()
	transcriber, err := ai.NewTranscriptionService(cfg.Transcription.Provider, cfg.Transcription.APIKey, cfg.Transcription.Model, retryCfg)
	if err != nil {
		appLogger.Fatal("Failed to create transcription service", zap.Error(err))
	}
	appLogger.Info("Transcription service initialized",
		zap.String("provider", cfg.Transcription.Provider),
		zap.String("model", cfg.Transcription.Model))

	analyzer, err := ai.NewAnalysisService(ctx, cfg.Analysis.Provider, cfg.Analysis.APIKey, cfg.Analysis.Model, retryCfg)
	if err != nil {
		appLogger.Fatal("Failed to create analysis service", zap.Error(err))
	}
	appLogger.Info("Analysis service initialized",
		zap.String("provider", cfg.Analysis.Provider),
		zap.String("model", cfg.Analysis.Model))

	// Connect to database
	db, err := database.NewSQLXPostgresDB(cfg.GetDSN())
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Initialize repositories
	sessionRepository := repository.NewSQLXSessionRepository(db)
	insightRepository := repository.NewSQLXInsightRepository(db)
	txManager := repository.NewTransactionManagerAdapter(db)

	// Initialize Redis client and cache adapter
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	appLogger.Info("Successfully connected to Redis")
	cacheAdapter := adapter.NewRedisCacheAdapter(redisClient)

	// Initialize services
	authService, err := service.NewAuthService(cfg.Auth.JWTSecret)
	if err != nil {
		appLogger.Fatal("Failed to create AuthService", zap.Error(err))
	}
	sessionService := service.NewSessionService(sessionRepository, txManager, cacheAdapter)
	insightService := service.NewInsightService(sessionRepository, insightRepository, txManager, analyzer, cacheAdapter, cfg)
	transcriptionService := service.NewTranscriptionService(transcriber, cfg)

	// Initialize handlers
	validator := validation.NewValidator()
	sessionHandler := handler.NewSessionHandler(sessionService, transcriptionService, validator)
	insightHandler := handler.NewInsightHandler(insightService, validator)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  20 * time.Second,
		BodyLimit:    cfg.Server.BodyLimit,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(requestLogger())
	app.Use(cors.New(cors.Config{AllowOrigins: "*", AllowMethods: "GET,POST,PATCH,DELETE,OPTIONS", AllowHeaders: "Origin,Content-Type,Accept,Authorization", MaxAge: 300}))
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// API group, everything requires a valid access token
	apiGroup := app.Group("/api", middleware.Protected(authService))

	sessionGroup := apiGroup.Group("/sessions")
	sessionGroup.Post("/", sessionHandler.CreateSession)
	sessionGroup.Get("/", sessionHandler.ListSessions)
	sessionGroup.Get("/:id", sessionHandler.GetSession)
	sessionGroup.Patch("/:id", sessionHandler.UpdateSession)
	sessionGroup.Delete("/:id", sessionHandler.DeleteSession)
	sessionGroup.Post("/:id/portions", sessionHandler.AddPortionDetail)
	sessionGroup.Post("/:id/mistakes", sessionHandler.AddMistake)
	sessionGroup.Post("/:id/tests", sessionHandler.AddTestType)
	sessionGroup.Post("/:id/methods", sessionHandler.AddLearningMethod)

	apiGroup.Patch("/mistakes/:id", sessionHandler.UpdateMistake)
	apiGroup.Post("/transcriptions", sessionHandler.TranscribeAudio)

	insightGroup := apiGroup.Group("/insights")
	insightGroup.Post("/generate", insightHandler.GenerateInsight)
	insightGroup.Get("/", insightHandler.ListInsights)
	insightGroup.Get("/latest", insightHandler.GetLatestInsight)
	insightGroup.Get("/:id", insightHandler.GetInsight)
	insightGroup.Patch("/:id", insightHandler.UpdateInsight)
	insightGroup.Delete("/:id", insightHandler.DeleteInsight)

	apiGroup.Get("/stats/overview", insightHandler.GetStatsOverview)

	// Start server
	go func() {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("env", os.Getenv("ENV")))
		if err := app.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		appLogger.Fatal("Server forced to shutdown", zap.Error(err))
	}
	appLogger.Info("Server exited gracefully")
}
