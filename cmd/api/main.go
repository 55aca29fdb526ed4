package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lucasrivera/shoppulse-backend/api/routes"
	"github.com/lucasrivera/shoppulse-backend/internal/basket"
	"github.com/lucasrivera/shoppulse-backend/internal/insights"
	"github.com/lucasrivera/shoppulse-backend/internal/personas"
	"github.com/lucasrivera/shoppulse-backend/internal/recommendations"
	"github.com/lucasrivera/shoppulse-backend/internal/rfm"
	"github.com/lucasrivera/shoppulse-backend/internal/segmentation"
	"github.com/lucasrivera/shoppulse-backend/internal/sentiment"
	"github.com/lucasrivera/shoppulse-backend/internal/transactions"
	"github.com/lucasrivera/shoppulse-backend/pkg/config"
	"github.com/lucasrivera/shoppulse-backend/pkg/db"
	"github.com/lucasrivera/shoppulse-backend/pkg/logger"
	"github.com/lucasrivera/shoppulse-backend/pkg/metrics"
	"github.com/lucasrivera/shoppulse-backend/pkg/migrate"
	"github.com/lucasrivera/shoppulse-backend/pkg/redis"
)

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(ctx, ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(ctx, "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(ctx, "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(ctx, "error closing redis", err)
		}
	}()

	txService, err := transactions.NewService(transactions.NewRepository(dbClient.DB()), dbClient)
	if err != nil {
		logg.Error(ctx, "failed to create transaction service", err)
		os.Exit(1)
	}

	var augmenter recommendations.Augmenter
	if cfg.Augment.APIKey != "" {
		gemini, err := recommendations.NewGeminiAugmenter(cfg.Augment)
		if err != nil {
			logg.Error(ctx, "failed to create narrative augmenter", err)
			os.Exit(1)
		}
		augmenter = gemini
	} else {
		logg.Warn(ctx, "augment api key not set, narratives use the built-in template")
	}

	registry := prometheus.NewRegistry()
	insightsService, err := insights.NewService(insights.Deps{
		Transactions:    txService,
		RFM:             rfm.NewService(),
		Segmentation:    segmentation.NewService(nil, cfg.Pipeline.RandomSeed),
		Basket:          basket.NewService(),
		Sentiment:       sentiment.NewService(),
		Personas:        personas.NewService(cfg.Pipeline.RandomSeed),
		Recommendations: recommendations.NewService(augmenter, logg),
		Cache:           redisClient,
		Metrics:         metrics.NewPipelineMetrics(registry),
		Log:             logg,
		Pipeline:        cfg.Pipeline,
		SnapshotTTL:     cfg.Redis.SnapshotTTL,
	})
	if err != nil {
		logg.Error(ctx, "failed to create insights service", err)
		os.Exit(1)
	}

	router := routes.NewRouter(
		cfg,
		logg,
		dbClient,
		redisClient,
		txService,
		insightsService,
		segmentation.NewService(nil, cfg.Pipeline.RandomSeed),
		personas.NewService(cfg.Pipeline.RandomSeed),
		recommendations.NewService(augmenter, logg),
	)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	mux.Handle("/", router)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx = logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
