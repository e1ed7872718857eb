package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"rirekisho/internal/assistant"
	assistantmetrics "rirekisho/internal/assistant/metrics"
	"rirekisho/internal/audit"
	gapmetrics "rirekisho/internal/gap/metrics"
	"rirekisho/internal/platform/config"
	"rirekisho/internal/platform/httpserver"
	"rirekisho/internal/platform/logger"
	"rirekisho/internal/platform/postgres"
	platformredis "rirekisho/internal/platform/redis"
	"rirekisho/internal/record"
	recordmetrics "rirekisho/internal/record/metrics"
	httptransport "rirekisho/internal/transport/http"
)

// main wires dependencies and owns the server lifecycle. Business logic
// lives in the internal services packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel)
	ctx := context.Background()

	registry := prometheus.NewRegistry()

	health := map[string]httptransport.HealthCheck{}

	var redisClient *platformredis.Client
	if cfg.Redis.URL != "" {
		var err error
		redisClient, err = platformredis.New(cfg.Redis)
		if err != nil {
			log.Error("redis connection failed", "error", err)
			os.Exit(1)
		}
		defer func() { _ = redisClient.Close() }()
		health["redis"] = redisClient.Health
	}

	var store record.Store
	switch cfg.RecordStore {
	case "postgres":
		pool, err := postgres.New(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Error("postgres connection failed", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		pg := record.NewPostgres(pool)
		if err := pg.EnsureSchema(ctx); err != nil {
			log.Error("schema setup failed", "error", err)
			os.Exit(1)
		}
		store = pg
		health["postgres"] = pool.Ping
	case "redis":
		if redisClient == nil {
			log.Error("record store is redis but REDIS_URL is not set")
			os.Exit(1)
		}
		store = record.NewRedis(redisClient.Client, cfg.SessionTTL)
	default:
		store = record.NewMemoryStore()
	}

	records := record.NewService(store, log, recordmetrics.New(registry))

	auditStore := audit.NewMemoryStore()
	records.Subscribe(audit.NewPublisher(auditStore, log).Record)

	var analysisCache *redis.Client
	if redisClient != nil {
		analysisCache = redisClient.Client
	}

	completer := assistant.NewOpenAI(cfg.OpenAIKey, cfg.OpenAIModel)
	assistantSvc := assistant.NewService(
		completer,
		records,
		analysisCache,
		cfg.AnalysisCacheTTL,
		log,
		assistantmetrics.New(registry),
	)

	handler := httptransport.New(records, assistantSvc, gapmetrics.New(registry), log, health)
	router := httptransport.NewRouter(handler, log, promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting rirekisho server", "addr", cfg.Addr, "record_store", cfg.RecordStore)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
}
