package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"pairpad/internal/api"
	"pairpad/internal/compile"
	"pairpad/internal/config"
	"pairpad/internal/jobs"
	"pairpad/internal/llm"
	_ "pairpad/internal/llm/gemini"
	"pairpad/internal/middleware"
	"pairpad/internal/ocr"
	"pairpad/internal/prompts"
	"pairpad/internal/routers"
	"pairpad/internal/session"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	promptManager, err := prompts.NewManager()
	if err != nil {
		logger.Fatal("failed to initialize prompt manager", zap.Error(err))
	}

	// The relay keeps working without a generative-text backend; the AI
	// endpoints just answer 503.
	provider, err := llm.NewProvider("gemini")
	if err != nil {
		logger.Warn("generative-text provider disabled", zap.Error(err))
		provider = nil
	}

	store := session.NewStore()
	handlers := api.NewHandlers(
		logger,
		store,
		compile.NewClient(cfg.CompileAPIURL, logger),
		ocr.NewClient(cfg.OCRAPIURL, cfg.OCRAPIKey, logger),
		provider,
		promptManager,
	)

	var limiter func(http.Handler) http.Handler
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		limiter = middleware.RateLimit(rdb, cfg.RateLimitRPS, time.Second, logger)
		logger.Info("rate limiting enabled",
			zap.String("redis", cfg.RedisAddr),
			zap.Int("rps", cfg.RateLimitRPS))
	}

	reporter := jobs.NewUsageReporter(store, cfg.StatsSchedule, logger)
	if err := reporter.Start(); err != nil {
		logger.Error("failed to start usage reporter", zap.Error(err))
	}

	router := chi.NewRouter()
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))
	router.Use(chimiddleware.RequestID, chimiddleware.RealIP, chimiddleware.Recoverer)
	router.Mount("/", routers.New(handlers, limiter))

	server := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     router,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		logger.Info("pairpad listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)
	<-shutdownChan

	logger.Info("shutting down")
	reporter.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}
	logger.Info("server exited")
}
