package main

import (
	"context"
	"crypto/tls"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/aurelia-labs/sales-agent-platform/internal/api/router"
	"github.com/aurelia-labs/sales-agent-platform/internal/booking"
	appconfig "github.com/aurelia-labs/sales-agent-platform/internal/config"
	"github.com/aurelia-labs/sales-agent-platform/internal/conversation"
	"github.com/aurelia-labs/sales-agent-platform/internal/http/handlers"
	"github.com/aurelia-labs/sales-agent-platform/internal/ingestion"
	"github.com/aurelia-labs/sales-agent-platform/internal/intent"
	"github.com/aurelia-labs/sales-agent-platform/internal/leads"
	"github.com/aurelia-labs/sales-agent-platform/internal/llm"
	"github.com/aurelia-labs/sales-agent-platform/internal/notify"
	"github.com/aurelia-labs/sales-agent-platform/internal/observability/metrics"
	"github.com/aurelia-labs/sales-agent-platform/internal/rag"
	"github.com/aurelia-labs/sales-agent-platform/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logger.Info("starting sales-agent-platform API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()

	// Lead storage
	var leadsRepo leads.Repository
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to connect to postgres", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		leadsRepo = leads.NewPostgresRepository(pool)
	} else {
		logger.Warn("DATABASE_URL not set, leads are kept in memory")
		leadsRepo = leads.NewInMemoryRepository()
	}

	emailSender := buildEmailSender(ctx, cfg, logger)

	// Text generation
	var llmClient llm.Client
	if cfg.GeminiAPIKey != "" {
		gemini, err := llm.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModelID)
		if err != nil {
			logger.Error("failed to create gemini client", "error", err)
			os.Exit(1)
		}
		defer gemini.Close()
		llmClient = gemini
	} else {
		logger.Warn("GEMINI_API_KEY not set, using static completions")
		llmClient = llm.NewStaticClient("")
	}

	classifier := buildClassifier(cfg, llmClient, logger)

	// Embeddings and retrieval
	var embedder rag.Embedder
	if cfg.EmbeddingProvider == "gemini" {
		geminiEmbedder, err := rag.NewGeminiEmbedder(ctx, cfg.GeminiAPIKey, cfg.GeminiEmbeddingModel)
		if err != nil {
			logger.Error("failed to create gemini embedder", "error", err)
			os.Exit(1)
		}
		defer geminiEmbedder.Close()
		embedder = geminiEmbedder
	} else {
		embedder = rag.NewHashEmbedder()
	}

	vectorStore := rag.NewMemoryVectorStore()
	ragService := rag.NewService(vectorStore, embedder, llmClient, cfg.RAGTopK, logger)
	pipeline := ingestion.NewPipeline(vectorStore, embedder, logger)

	// Calendar
	var calendar booking.CalendarAPI
	if cfg.GoogleServiceAccountFile != "" {
		googleCalendar, err := booking.NewGoogleCalendar(ctx, cfg.GoogleServiceAccountFile)
		if err != nil {
			logger.Error("failed to create google calendar client", "error", err)
			os.Exit(1)
		}
		calendar = googleCalendar
	} else {
		logger.Warn("GOOGLE_SERVICE_ACCOUNT_FILE not set, appointments are kept in memory")
		calendar = booking.NewMemoryCalendar()
	}

	registry := prometheus.NewRegistry()
	agentMetrics := metrics.NewAgentMetrics(registry)

	leadService := leads.NewService(leadsRepo, emailSender, logger)
	bookingService := booking.NewService(calendar, emailSender, cfg.CalendarTimezone, agentMetrics, logger)
	orchestrator := conversation.NewOrchestrator(classifier, ragService, leadService, bookingService, agentMetrics, logger)

	var transcripts *conversation.TranscriptStore
	if cfg.RedisAddr != "" {
		opts := &redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		}
		if cfg.RedisTLS {
			opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		redisClient := redis.NewClient(opts)
		defer redisClient.Close()
		transcripts = conversation.NewTranscriptStore(redisClient)
	} else {
		logger.Warn("REDIS_ADDR not set, chat transcripts are not persisted")
	}

	routerCfg := &router.Config{
		Logger:             logger,
		HealthHandler:      handlers.NewHealthHandler(cfg.AppName),
		ChatHandler:        handlers.NewChatHandler(orchestrator, transcripts, agentMetrics, logger),
		IngestHandler:      handlers.NewIngestHandler(pipeline, agentMetrics, logger),
		AdminLeadsHandler:  handlers.NewAdminLeadsHandler(leadsRepo, logger),
		MetricsHandler:     promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		AdminJWTSecret:     cfg.AdminJWTSecret,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		RateLimitPerSec:    cfg.RateLimitPerSecond,
		RateLimitBurst:     cfg.RateLimitBurst,
	}
	r := router.New(routerCfg)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

func buildEmailSender(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) notify.EmailSender {
	switch cfg.EmailProvider {
	case "sendgrid":
		return notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.EmailFromAddress,
			FromName:  cfg.EmailFromName,
		}, logger)
	case "ses":
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
		if err != nil {
			logger.Error("failed to load AWS config", "error", err)
			os.Exit(1)
		}
		return notify.NewSESSender(sesv2.NewFromConfig(awsCfg), notify.SESConfig{
			FromEmail: cfg.EmailFromAddress,
			FromName:  cfg.EmailFromName,
		}, logger)
	default:
		return notify.NewStubEmailSender(logger)
	}
}

func buildClassifier(cfg *appconfig.Config, client llm.Client, logger *logging.Logger) intent.Classifier {
	switch cfg.IntentClassifier {
	case "tfidf":
		return intent.NewTFIDFClassifier(intent.WithThreshold(cfg.IntentThreshold))
	case "llm":
		return intent.NewFallbackClassifier(intent.NewLLMClassifier(client), intent.NewKeywordClassifier(), logger)
	default:
		return intent.NewKeywordClassifier()
	}
}
