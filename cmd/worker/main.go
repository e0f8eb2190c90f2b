package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Domenick1991/flightroutes/config"
	"github.com/Domenick1991/flightroutes/internal/kafka"
	"github.com/Domenick1991/flightroutes/internal/repository"
	"github.com/Domenick1991/flightroutes/internal/service/reference"
	"github.com/Domenick1991/flightroutes/pkg/logger"
	"github.com/Domenick1991/flightroutes/pkg/metrics"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	workerLog := logger.NewLogger(cfg.Log.Level).With("component", "reference-worker")

	if err := run(cfg, workerLog); err != nil {
		workerLog.Error("worker stopped", "error", err)
		_ = workerLog.Sync()
		os.Exit(1)
	}
	workerLog.Info("worker stopped")
	_ = workerLog.Sync()
}

func run(cfg *config.Config, workerLog logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pool.Close()

	referenceService := reference.NewReferenceService(
		repository.NewReferenceRepository(pool),
		reference.WithLogger(workerLog),
		reference.WithMetrics(metrics.NewMetrics(cfg.Metrics.Namespace, prometheus.NewRegistry())),
	)

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.ReferenceTopic, workerLog)
	defer consumer.Close()

	workerLog.Info("consuming reference events", "topic", cfg.Kafka.ReferenceTopic, "group", cfg.Kafka.GroupID)

	err = consumer.ConsumeReferenceEvents(ctx, referenceService.Apply)
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("consume reference events: %w", err)
	}
	return nil
}
