package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/user/feed-ingest/internal/adapter/chromedp_feed"
	"github.com/user/feed-ingest/internal/adapter/postgres"
	"github.com/user/feed-ingest/internal/adapter/redisqueue"
	"github.com/user/feed-ingest/internal/delivery/http/handler"
	"github.com/user/feed-ingest/internal/delivery/http/router"
	"github.com/user/feed-ingest/internal/extractor"
	"github.com/user/feed-ingest/internal/scheduler"
	"github.com/user/feed-ingest/internal/usecase"
	"github.com/user/feed-ingest/pkg/config"
	"github.com/user/feed-ingest/pkg/externalid"
	"github.com/user/feed-ingest/pkg/logger"
	"github.com/user/feed-ingest/pkg/metrics"
)

func main() {
	// --- Configuration ---
	cfg := config.Load()

	// --- Logger ---
	logLevel := slog.LevelInfo
	if cfg.LogLevel == "debug" {
		logLevel = slog.LevelDebug
	}
	logger.Init(os.Stdout, logLevel)
	slog.Info("Logger initialized", "level", logLevel.String())

	// --- Metrics ---
	metrics.Init()
	slog.Info("Metrics initialized")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Database Connections ---
	pgConnString := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		cfg.PostgresUser, cfg.PostgresPassword, cfg.PostgresHost, cfg.PostgresPort, cfg.PostgresDB)
	dbpool, err := pgxpool.New(ctx, pgConnString)
	if err != nil {
		slog.Error("Unable to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbpool.Close()
	slog.Info("PostgreSQL connection pool established")

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		slog.Error("Unable to connect to Redis", "error", err)
		os.Exit(1)
	}
	slog.Info("Redis connection established")

	// --- Repositories ---
	postRepo := postgres.NewPostRepo(dbpool)
	subscriberRepo := postgres.NewSubscriberRepo(dbpool)
	queue := redisqueue.New(rdb)
	feedFetcher := chromedp_feed.NewFeedFetcher(2, cfg.PageLoadTimeout)

	// --- Codecs ---
	idCodec, err := externalid.New(uint8(cfg.ExternalIDMinLength))
	if err != nil {
		slog.Error("Unable to build external id codec", "error", err)
		os.Exit(1)
	}

	// --- Extraction pipeline ---
	httpClient := &http.Client{Timeout: cfg.ExtractTimeout}
	pipeline := extractor.NewPipeline(
		extractor.NewFetchStrategy(httpClient),
		extractor.NewRenderStrategy(httpClient, cfg.RenderAPIBaseURL, cfg.RenderAccountID, cfg.RenderAPIToken),
		extractor.NewExcerptStrategy(httpClient, cfg.ExcerptAPIBaseURL, cfg.ExcerptAPIKey),
	)

	// --- Use Cases ---
	sched := scheduler.New(queue)
	scrapeUC := usecase.NewScrapeUsecase(subscriberRepo, feedFetcher, postRepo, queue, pipeline, cfg.PageDelay)
	subscriptionUC := usecase.NewSubscriptionUsecase(subscriberRepo, sched, cfg.ScrapeInterval, cfg.ScrapeLimit)
	postUC := usecase.NewPostUsecase(postRepo, idCodec)

	// --- Queue worker ---
	worker := redisqueue.NewWorker(queue, scrapeUC.HandleScrapeJob, cfg.WorkerPoll, scheduler.MaxAttempts, scheduler.InitialDelay)
	go worker.Run(ctx)

	// --- HTTP Server ---
	apiHandler := handler.NewHandler(postUC, subscriptionUC)
	httpRouter := router.New(apiHandler)

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      httpRouter,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown failed", "error", err)
		}
	}()

	slog.Info("Starting server", "port", cfg.ServerPort)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("Could not listen on port", "port", cfg.ServerPort, "error", err)
		os.Exit(1)
	}
}
