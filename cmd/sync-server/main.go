package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"podsync/internal/adapters/podapi"
	"podsync/internal/adapters/store"
	"podsync/internal/api"
	"podsync/internal/app/usecases"
	"podsync/internal/config"
	"podsync/internal/infra/mysql"
	"podsync/internal/logging"
	"podsync/internal/metrics"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("config error: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.NewZap(cfg.Log)
	if err != nil {
		fmt.Printf("logger error: %v\n", err)
		os.Exit(1)
	}

	db, err := mysql.New(cfg.Mysql)
	if err != nil {
		logger.Errorw("mysql connection failed", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	registry := prometheus.NewRegistry()

	repo := store.New(db)
	catalog := podapi.NewClient(cfg.PodAPI, nil, logger)
	images := usecases.NewImageFetcher(cfg.Sync.ImageDir, logger)

	orchestrator := usecases.NewOrchestrator(
		catalog,
		usecases.NewMatcher(repo, logger),
		usecases.NewChangeDetector(repo, cfg.Sync.Locale),
		usecases.NewUpserter(repo, images, logger, cfg.Sync),
		usecases.NewAttributeManager(repo, logger, cfg.Sync.DryRun, cfg.Sync.DeactivateObsoleteValues),
		cfg,
		logger,
		metrics.New(registry),
	)

	server := api.NewServer(orchestrator, catalog, cfg, logger, registry)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := server.ListenAndServe(ctx); err != nil && err != http.ErrServerClosed {
		logger.Errorw("server stopped", "error", err)
		os.Exit(1)
	}
}
