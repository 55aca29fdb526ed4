package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"

	"github.com/lucasrivera/shoppulse-backend/internal/basket"
	"github.com/lucasrivera/shoppulse-backend/internal/insights"
	"github.com/lucasrivera/shoppulse-backend/internal/insights/worker"
	"github.com/lucasrivera/shoppulse-backend/internal/personas"
	"github.com/lucasrivera/shoppulse-backend/internal/recommendations"
	"github.com/lucasrivera/shoppulse-backend/internal/rfm"
	"github.com/lucasrivera/shoppulse-backend/internal/segmentation"
	"github.com/lucasrivera/shoppulse-backend/internal/sentiment"
	"github.com/lucasrivera/shoppulse-backend/internal/transactions"
	"github.com/lucasrivera/shoppulse-backend/pkg/config"
	"github.com/lucasrivera/shoppulse-backend/pkg/db"
	"github.com/lucasrivera/shoppulse-backend/pkg/logger"
	"github.com/lucasrivera/shoppulse-backend/pkg/pubsub"
	"github.com/lucasrivera/shoppulse-backend/pkg/redis"
)

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "insights-worker"})

	_ = godotenv.Load()

	cfg, err := config.Load()
	requireResource(ctx, logg, "config", err)

	cfg.Service.Kind = "insights-worker"

	logg = logger.New(logger.Options{
		ServiceName: "insights-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	requireResource(ctx, logg, "database", err)
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(ctx, "failed to close database client", err)
		}
	}()

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	requireResource(ctx, logg, "redis", err)
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(ctx, "failed to close redis client", err)
		}
	}()

	pubsubClient, err := pubsub.NewClient(context.Background(), cfg.GCP, cfg.PubSub, logg)
	requireResource(ctx, logg, "pubsub", err)
	defer func() {
		if err := pubsubClient.Close(); err != nil {
			logg.Error(ctx, "failed to close pubsub client", err)
		}
	}()

	subscription := pubsubClient.ImportsSubscription()
	if subscription == nil {
		requireResource(ctx, logg, "imports subscription", errors.New("subscription not configured"))
	}

	txService, err := transactions.NewService(transactions.NewRepository(dbClient.DB()), dbClient)
	requireResource(ctx, logg, "transaction service", err)

	var augmenter recommendations.Augmenter
	if cfg.Augment.APIKey != "" {
		gemini, err := recommendations.NewGeminiAugmenter(cfg.Augment)
		requireResource(ctx, logg, "narrative augmenter", err)
		augmenter = gemini
	}

	insightsService, err := insights.NewService(insights.Deps{
		Transactions:    txService,
		RFM:             rfm.NewService(),
		Segmentation:    segmentation.NewService(nil, cfg.Pipeline.RandomSeed),
		Basket:          basket.NewService(),
		Sentiment:       sentiment.NewService(),
		Personas:        personas.NewService(cfg.Pipeline.RandomSeed),
		Recommendations: recommendations.NewService(augmenter, logg),
		Cache:           redisClient,
		Log:             logg,
		Pipeline:        cfg.Pipeline,
		SnapshotTTL:     cfg.Redis.SnapshotTTL,
	})
	requireResource(ctx, logg, "insights service", err)

	service, err := worker.NewService(subscription, txService, insightsService, redisClient, logg)
	requireResource(ctx, logg, "insights worker service", err)

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	runCtx = logg.WithFields(runCtx, map[string]any{
		"env":         cfg.App.Env,
		"serviceKind": cfg.Service.Kind,
	})
	logg.Info(runCtx, "insights worker ready")

	if err := service.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(runCtx, "insights worker failed", err)
		os.Exit(1)
	}
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
