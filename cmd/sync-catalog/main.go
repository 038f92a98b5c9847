package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"podsync/internal/adapters/podapi"
	"podsync/internal/adapters/store"
	"podsync/internal/app/usecases"
	"podsync/internal/config"
	"podsync/internal/infra/mysql"
	"podsync/internal/logging"
	"podsync/internal/metrics"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	productID := flag.Int64("product", 0, "sync a single remote product instead of the full catalog")
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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

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
		metrics.New(prometheus.NewRegistry()),
	)

	var diag any
	if *productID > 0 {
		diag, err = orchestrator.RunSingleProduct(ctx, *productID)
	} else {
		diag, err = orchestrator.Run(ctx)
	}

	if out, jsonErr := json.MarshalIndent(diag, "", "  "); jsonErr == nil {
		fmt.Println(string(out))
	}

	if err != nil {
		logger.Errorw("sync failed", "error", err)
		os.Exit(1)
	}
}
