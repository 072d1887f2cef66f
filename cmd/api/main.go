package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"policy-training-assistant/config"
	_ "policy-training-assistant/docs" // Swagger docs
	chatHTTP "policy-training-assistant/internal/chat/delivery/http"
	qdrantRepo "policy-training-assistant/internal/chat/repository/qdrant"
	recordsRepo "policy-training-assistant/internal/chat/repository/records"
	"policy-training-assistant/internal/chat/usecase"
	"policy-training-assistant/internal/httpserver"
	"policy-training-assistant/internal/middleware"
	"policy-training-assistant/internal/pii"
	"policy-training-assistant/internal/query"
	"policy-training-assistant/internal/router"
	"policy-training-assistant/pkg/llmprovider"
	"policy-training-assistant/pkg/log"
	"policy-training-assistant/pkg/qdrant"
	"policy-training-assistant/pkg/voyage"
)

// @title       Policy Training Assistant API
// @description Retrieval-grounded Q&A for organizational policies and mandatory training, with intent routing and answer safety checks.
// @version     1
// @host        localhost:8080
// @schemes     http
func main() {
	// 1. Configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Failed to load config: ", err)
		return
	}

	// 2. Logger
	logger := log.Init(log.ZapConfig{
		Level:        cfg.Logger.Level,
		Mode:         cfg.Logger.Mode,
		Encoding:     cfg.Logger.Encoding,
		ColorEnabled: cfg.Logger.ColorEnabled,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info(ctx, "Starting Policy Training Assistant...")
	logger.Infof(ctx, "Environment: %s", cfg.Environment.Name)
	logger.Infof(ctx, "Qdrant URL: %s", cfg.Qdrant.URL)

	// 3. Embeddings + vector store
	voyageClient, err := voyage.New(cfg.Voyage.APIKey)
	if err != nil {
		logger.Error(ctx, "Failed to initialize Voyage client: ", err)
		return
	}
	voyageClient.WithModel(cfg.Voyage.Model)

	qdrantClient := qdrant.NewClient(cfg.Qdrant.URL)
	evidenceRepo := qdrantRepo.New(qdrantClient, voyageClient, logger)

	// 4. Training-records backend
	recordsClient := recordsRepo.NewClient(cfg.Records.URL, cfg.Records.AccessToken)
	trainingRecords := recordsRepo.New(recordsClient, logger)

	// 5. LLM providers with fallback
	providers, err := llmprovider.InitializeProviders(&cfg.LLM)
	if err != nil {
		logger.Error(ctx, "Failed to initialize LLM providers: ", err)
		return
	}
	manager := llmprovider.NewManager(providers, &llmprovider.Config{
		FallbackEnabled: cfg.LLM.FallbackEnabled,
		RetryAttempts:   cfg.LLM.RetryAttempts,
		RetryDelay:      parseDuration(cfg.LLM.RetryDelay, time.Second),
		MaxTotalTimeout: parseDuration(cfg.LLM.MaxTotalTimeout, 60*time.Second),
	}, logger)

	// 6. Intent router and query processing
	semanticRouter := router.New(manager, cfg.Router.UseLLM, cfg.Router.CacheSize, logger)
	normalizer := query.NewNormalizer(cfg.Keywords)
	anchorExtractor := query.NewAnchorExtractor(cfg.Keywords)

	// 7. Chat domain
	chatUC := usecase.New(
		logger,
		semanticRouter,
		manager,
		evidenceRepo,
		trainingRecords,
		normalizer,
		anchorExtractor,
		pii.MaskerFactory{},
		cfg.Retrieval,
		cfg.Guard,
	)
	chatHandler := chatHTTP.New(logger, chatUC)

	// 8. HTTP server
	mw := middleware.New(logger, cfg.RateLimit)

	httpServer, err := httpserver.New(logger, httpserver.Config{
		Logger:      logger,
		Port:        cfg.HTTPServer.Port,
		Mode:        cfg.HTTPServer.Mode,
		Environment: cfg.Environment.Name,
		ChatHandler: chatHandler,
		Middleware:  mw,
	})
	if err != nil {
		logger.Error(ctx, "Failed to initialize HTTP server: ", err)
		return
	}

	// 9. Run
	if err := httpServer.Run(ctx); err != nil {
		logger.Error(ctx, "Failed to run server: ", err)
		return
	}

	logger.Info(ctx, "Server stopped gracefully")
}

// parseDuration falls back to a default instead of failing startup on a
// malformed duration string.
func parseDuration(value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}
