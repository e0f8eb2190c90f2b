package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Domenick1991/flightroutes/config"
	"github.com/Domenick1991/flightroutes/internal/bootstrap"
	"github.com/Domenick1991/flightroutes/internal/repository"
	"github.com/Domenick1991/flightroutes/internal/service/routes"
	"github.com/Domenick1991/flightroutes/pkg/logger"
	"github.com/Domenick1991/flightroutes/pkg/metrics"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
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

	appLog := logger.NewLogger(cfg.Log.Level)

	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := run(cfg, appLog); err != nil {
		appLog.Error("server error", "error", err)
		_ = appLog.Sync()
		os.Exit(1)
	}
	_ = appLog.Sync()
}

func run(cfg *config.Config, appLog logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pool.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewMetrics(cfg.Metrics.Namespace, reg)

	routeService := routes.NewRouteService(
		repository.NewRouteRepository(pool),
		repository.NewReferenceRepository(pool),
		cfg.Search.PageSize,
		routes.WithLogger(appLog),
		routes.WithMetrics(m),
	)

	return bootstrap.Run(ctx, cfg, bootstrap.Deps{
		Routes:   routeService,
		Store:    pool,
		Log:      appLog,
		Metrics:  m,
		Gatherer: reg,
	})
}
