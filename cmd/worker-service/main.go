package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"newsbrief/internal/worker/config"
	"newsbrief/internal/worker/delivery/consumer"
	"newsbrief/internal/worker/repository"
	"newsbrief/internal/worker/service"
	"newsbrief/pkg/logger"
	"newsbrief/pkg/postgres"
	"newsbrief/pkg/redis"
	"newsbrief/pkg/telegram"

	"google.golang.org/genai"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the worker service",
	Run:   runServe,
}

func runServe(cmd *cobra.Command, args []string) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

	appLogger.Info("Starting Worker Service", zap.String("name", cfg.App.Name))

	// Initialize database
	postgresCfg := postgres.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		DBName:          cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}
	db, err := postgres.NewDB(postgresCfg)
	if err != nil {
		appLogger.Fatal("Failed to initialize database", zap.Error(err))
	}
	if sqlDB, err := db.DB.DB(); err == nil {
		defer sqlDB.Close()
	}

	// Initialize Redis
	redisCfg := redis.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	}
	redisClient, err := redis.NewClient(redisCfg)
	if err != nil {
		appLogger.Fatal("Failed to initialize Redis", zap.Error(err))
	}
	defer redisClient.Close()

	// Initialize repositories
	feedRepo := repository.NewFeedRepository(db.DB)
	articleRepo := repository.NewArticleRepository(db.DB)
	storyRepo := repository.NewStoryRepository(db.DB, appLogger)
	generationRepo := repository.NewStoryGenerationRepository(db.DB)
	cacheRepo := repository.NewSynthesisCacheRepository(db.DB, appLogger)

	// Initialize AI provider
	var aiRepo repository.AIRepository
	switch cfg.AI.Provider {
	case "gemini":
		genAiClient, err := genai.NewClient(context.Background(), &genai.ClientConfig{
			APIKey: cfg.Gemini.APIKey,
		})
		if err != nil {
			appLogger.Fatal("Failed to initialize Gemini AI client", zap.Error(err))
		}
		aiRepo, err = repository.NewGeminiAIRepository(cfg, appLogger, genAiClient)
		if err != nil {
			appLogger.Fatal("Failed to initialize Gemini AI repository", zap.Error(err))
		}
	case "ollama":
		aiRepo, err = repository.NewOllamaAIRepository(cfg, appLogger)
		if err != nil {
			appLogger.Fatal("Failed to initialize Ollama AI repository", zap.Error(err))
		}
	default:
		appLogger.Fatal("Invalid AI provider specified in config", zap.String("provider", cfg.AI.Provider))
	}

	var telegramNotifier telegram.Notifier
	if cfg.Telegram.Enabled {
		telegramNotifier, err = telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		if err != nil {
			appLogger.Fatal("Failed to initialize Telegram notifier", zap.Error(err))
		}
	}

	// Initialize pipeline services
	classifier := service.NewTopicClassifier(cfg.Interests)
	entitySvc := service.NewEntityService(aiRepo, articleRepo, appLogger)
	weights := service.SimilarityWeights{
		Keyword:    cfg.Clustering.KeywordWeight,
		Entity:     cfg.Clustering.EntityWeight,
		TopicBonus: cfg.Clustering.TopicBonus,
	}
	clusterer := service.NewClusterer(weights, entitySvc, appLogger)
	selector := service.NewContextSelector(cfg.Synthesis, aiRepo.CountTokens)
	synthesizer := service.NewSynthesizer(aiRepo, cacheRepo, selector, cfg.Synthesis, appLogger)
	pipelineSvc := service.NewPipelineService(cfg, appLogger, articleRepo, storyRepo, generationRepo, clusterer, synthesizer, telegramNotifier)

	// Initialize stream services
	feedScraperSvc := service.NewFeedScraperService(cfg, appLogger, redisClient.Client, feedRepo, articleRepo, cacheRepo, classifier)
	storyGenerationSvc := service.NewStoryGenerationService(appLogger, redisClient.Client, pipelineSvc)
	cleanupSvc := service.NewCleanupService(cfg, appLogger, redisClient.Client, storyRepo, cacheRepo)

	// Start the cron publisher
	scheduleSvc := service.NewScheduleService(cfg, appLogger, redisClient.Client)
	if err := scheduleSvc.Start(ctx); err != nil {
		appLogger.Fatal("Failed to start schedule service", zap.Error(err))
	}

	// Initialize and start the Redis consumer
	redisConsumer := consumer.NewRedisConsumer(cfg, redisClient.Client, feedScraperSvc, storyGenerationSvc, cleanupSvc, appLogger)
	redisConsumer.Start(ctx)

	appLogger.Info("Worker service started. Waiting for jobs...")

	// Wait for interrupt signal to gracefully shut down the service
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down worker service...")
	cancel()
	scheduleSvc.Stop()
	redisConsumer.Stop()
	appLogger.Info("Worker service stopped.")
}

func main() {
	rootCmd := &cobra.Command{Use: "worker-service"}

	serveCmd.Flags().StringVarP(&configPath, "config", "c", "configs/config-worker.yaml", "Path to the configuration file")

	rootCmd.AddCommand(serveCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing worker-service CLI: %s\n", err)
		os.Exit(1)
	}
}
