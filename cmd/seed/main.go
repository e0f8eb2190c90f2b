package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Domenick1991/flightroutes/config"
	"github.com/Domenick1991/flightroutes/internal/kafka"
	"github.com/Domenick1991/flightroutes/internal/repository"
	"github.com/Domenick1991/flightroutes/internal/seed"
	"github.com/Domenick1991/flightroutes/internal/service/reference"
	"github.com/Domenick1991/flightroutes/pkg/logger"
	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	dir := flag.String("dir", "data", "directory with airports.csv, airlines.csv, aircraft.csv and routes.csv")
	publish := flag.Bool("publish", false, "publish records to the reference topic instead of writing to postgres")
	flag.Parse()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	seedLog := logger.NewLogger(cfg.Log.Level).With("component", "seed")

	if err := run(cfg, seedLog, *dir, *publish); err != nil {
		seedLog.Error("seed failed", "dir", *dir, "error", err)
		_ = seedLog.Sync()
		os.Exit(1)
	}
	_ = seedLog.Sync()
}

func run(cfg *config.Config, seedLog logger.Logger, dir string, publish bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	set, err := seed.LoadDir(dir)
	if err != nil {
		return fmt.Errorf("load reference files: %w", err)
	}
	seedLog.Info("reference files loaded", "dir", dir, "records", set.Len())

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pool.Close()

	opts := []reference.ReferenceServiceOption{reference.WithLogger(seedLog)}

	if publish {
		producer := kafka.NewProducer(cfg.Kafka.Brokers, seedLog)
		defer producer.Close()

		if err := producer.CheckConnection(ctx); err != nil {
			return fmt.Errorf("kafka unavailable: %w", err)
		}
		opts = append(opts, reference.WithPublisher(producer, cfg.Kafka.ReferenceTopic))
	}

	referenceService := reference.NewReferenceService(repository.NewReferenceRepository(pool), opts...)

	if publish {
		sent, err := referenceService.Publish(ctx, set)
		if err != nil {
			return fmt.Errorf("publish reference events (%d sent): %w", sent, err)
		}
		return nil
	}

	if err := referenceService.Import(ctx, set); err != nil {
		return fmt.Errorf("import reference data: %w", err)
	}
	return nil
}
