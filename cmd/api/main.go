package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/ncuskey/lothelper-engine/internal/adapters/lothelper"
	"github.com/ncuskey/lothelper-engine/internal/api"
	"github.com/ncuskey/lothelper-engine/internal/application/scan"
	"github.com/ncuskey/lothelper-engine/internal/domain/fees"
	"github.com/ncuskey/lothelper-engine/internal/infrastructure/config"
	"github.com/ncuskey/lothelper-engine/internal/infrastructure/logging"
	"github.com/ncuskey/lothelper-engine/internal/infrastructure/storage"
)

func main() {
	configFile := flag.String("config", "config.yaml", "Configuration file path")
	flag.Parse()

	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.LoadOrEnvWithPath(*configFile)
	logger := logging.NewLoggerWithScope(cfg.Observability.Logging, "api")

	store, err := storage.NewStorage(cfg.Storage.DatabasePath)
	if err != nil {
		logger.Error("failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	backend := lothelper.NewClient(cfg.Backend.BaseURL,
		logging.NewLoggerWithScope(cfg.Observability.Logging, "backend"))

	scanService := scan.NewService(backend, store, feeTable(cfg.Engine), scan.CoordinatorConfig{
		MaxAttempts: cfg.Backend.FetchAttempts,
		BackoffStep: cfg.Backend.FetchBackoff.Std(),
	}, logging.NewLoggerWithScope(cfg.Observability.Logging, "scan"))

	server := api.NewServer(api.Config{
		Addr:                   cfg.Server.Addr,
		AllowedOrigins:         api.DefaultConfig().AllowedOrigins,
		DefaultAcquisitionCost: cfg.Engine.DefaultAcquisitionCost,
	}, scanService, logger)

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start() }()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server exited", "error", err)
			os.Exit(1)
		}
	case sig := <-stop:
		logger.Info("received signal, shutting down", "signal", sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("shutdown error", "error", err)
			os.Exit(1)
		}
	}
}

// feeTable applies config overrides on top of marketplace defaults.
func feeTable(cfg config.EngineConfig) fees.Table {
	table := fees.DefaultTable()
	if cfg.EBayFeeRate > 0 {
		table.EBay.Rate = cfg.EBayFeeRate
	}
	if cfg.EBayFlatFee > 0 {
		table.EBay.Flat = cfg.EBayFlatFee
	}
	if cfg.AmazonFeeRate > 0 {
		table.Amazon.Rate = cfg.AmazonFeeRate
	}
	if cfg.AmazonFlatFee > 0 {
		table.Amazon.Flat = cfg.AmazonFlatFee
	}
	return table
}
