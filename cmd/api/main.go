// @title Vocab Quiz API
// @version 1.0
// @description Adaptive vocabulary quiz. Questions are generated by an LLM around words chosen from the learner's difficulty window.
// @contact.name API Support
// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html
// @host localhost:8090
// @BasePath /api
// @schemes http https
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	_ "vocab-quiz/cmd/api/docs"
	"vocab-quiz/internal/adapter/llm"
	"vocab-quiz/internal/adapter/quizgen"
	"vocab-quiz/internal/config"
	"vocab-quiz/internal/domain"
	"vocab-quiz/internal/handler"
	"vocab-quiz/internal/logger"
	"vocab-quiz/internal/middleware"
	"vocab-quiz/internal/repository"
	"vocab-quiz/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	ctx := context.Background()

	// LLM client and prompt adapter
	model, err := llm.NewModel(ctx, cfg.LLM)
	if err != nil {
		appLogger.Fatal("Failed to create LLM client", zap.Error(err))
	}
	generator, err := quizgen.NewLLMQuizGenerator(model, cfg.LLM.Temperature)
	if err != nil {
		appLogger.Fatal("Failed to create quiz generator", zap.Error(err))
	}

	policy := service.RetryPolicy{
		MaxAttempts:    cfg.Generation.MaxAttempts,
		Backoff:        cfg.Generation.Backoff,
		Multiplier:     cfg.Generation.BackoffMultiplier,
		AttemptTimeout: cfg.LLM.AttemptTimeout,
	}
	questionService := service.NewQuestionService(generator, policy, nil)
	explanationService := service.NewExplanationService(generator, policy, nil)

	// Persistence
	stores, err := repository.NewStores(ctx, cfg.Store, cfg.Redis)
	if err != nil {
		appLogger.Fatal("Failed to open stores", zap.Error(err))
	}

	scheduler, err := service.NewScheduler(ctx, stores.Vocabulary, stores.Difficulty, questionService, explanationService,
		service.SchedulerOptions{
			ReviewRatio:       cfg.Generation.ReviewRatio,
			CandidatePoolSize: cfg.Generation.CandidatePoolSize,
			WithGloss:         cfg.Generation.WithGloss,
			PrefetchWait:      cfg.Scheduler.PrefetchWait,
			InitialVariance:   cfg.Difficulty.InitialVariance,
			Tuning:            domain.Tuning{StepUp: cfg.Difficulty.StepUp, StepDown: cfg.Difficulty.StepDown},
		})
	if err != nil {
		appLogger.Fatal("Failed to start scheduler", zap.Error(err))
	}

	// Push tuning changes into the running session
	config.Watch(func(next *config.Config) {
		logger.SetLevel(next.Logger.Level)
		tuning := domain.Tuning{StepUp: next.Difficulty.StepUp, StepDown: next.Difficulty.StepDown}
		if err := scheduler.SetTuning(tuning, next.Generation.ReviewRatio); err != nil {
			appLogger.Warn("Rejected tuning change", zap.Error(err))
			return
		}
		appLogger.Info("Tuning reloaded",
			zap.Float64("step_up", tuning.StepUp),
			zap.Float64("step_down", tuning.StepDown),
			zap.Float64("review_ratio", next.Generation.ReviewRatio))
	}, func(err error) {
		appLogger.Warn("Config reload failed", zap.Error(err))
	})

	// Initialize handlers
	quizHandler := handler.NewQuizHandler(scheduler)
	healthHandler := handler.NewHealthHandler(stores.Ping)

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  20 * time.Second,
		BodyLimit:    1024 * 1024,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(middleware.RequestLogger())
	app.Use(cors.New(cors.Config{AllowOrigins: "*", AllowMethods: "GET,POST,OPTIONS", AllowHeaders: "Origin,Content-Type,Accept", MaxAge: 300}))
	app.Use(recover.New())

	app.Get("/swagger/*", swagger.HandlerDefault)
	app.Get("/health", healthHandler.Check)
	quizHandler.RegisterRoutes(app.Group("/api"))

	go func() {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("env", cfg.Logger.Env))
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
		appLogger.Error("Server forced to shutdown", zap.Error(err))
	}
	scheduler.Close()
	if err := stores.Close(); err != nil {
		appLogger.Warn("Failed to close stores", zap.Error(err))
	}
	appLogger.Info("Server exited gracefully")
}
