package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/ev-charger-map/internal/adapter/csvfile"
	httpadapter "github.com/couchcryptid/ev-charger-map/internal/adapter/http"
	"github.com/couchcryptid/ev-charger-map/internal/adapter/icons"
	kafkaadapter "github.com/couchcryptid/ev-charger-map/internal/adapter/kafka"
	"github.com/couchcryptid/ev-charger-map/internal/config"
	"github.com/couchcryptid/ev-charger-map/internal/domain"
	"github.com/couchcryptid/ev-charger-map/internal/observability"
	"github.com/couchcryptid/ev-charger-map/internal/pipeline"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/joho/godotenv"
)

func main() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := sharedobs.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	result, err := csvfile.LoadFile(ctx, cfg.DataPath)
	if err != nil {
		logger.Error("failed to load dataset", "path", cfg.DataPath, "error", err)
		os.Exit(1)
	}
	for _, msg := range result.Errors {
		logger.Warn("dataset row rejected", "detail", msg)
	}
	logger.Info("dataset loaded",
		"path", cfg.DataPath,
		"records", len(result.Records),
		"rejected", result.Rejected(),
	)

	// Icon assets are deployed separately; without them markers are plain pins.
	var resolver domain.IconResolver
	if info, err := os.Stat(cfg.IconsDir); err == nil && info.IsDir() {
		iconRenderer := icons.NewSVGRenderer(cfg.IconsDir, metrics, logger)
		resolver = icons.NewCachedResolver(iconRenderer, cfg.IconCacheSize, metrics)
		logger.Info("account icons enabled", "dir", cfg.IconsDir, "cache_size", cfg.IconCacheSize)
	} else {
		logger.Warn("icons directory unavailable, using plain markers", "dir", cfg.IconsDir)
	}

	renderer := pipeline.New(domain.DefaultBaselines(), resolver, logger, metrics, cfg.RequireSelection)
	renderer.SetDataset(domain.NewDataset(result.Records))

	// Marker publishing is feature-flagged via KAFKA_ENABLED / KAFKA_BROKERS.
	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		renderer.SetPublisher(writer)
		logger.Info("kafka marker publishing enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaMarkerTopic)
	} else {
		logger.Info("kafka marker publishing disabled")
	}

	srv := httpadapter.NewServer(cfg.HTTPAddr, renderer, cfg.CORSAllowedOrigins, logger)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
