package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"inventory-manager/internal/cli"
	"inventory-manager/internal/config"
	"inventory-manager/internal/metrics"
	"inventory-manager/internal/repository"
	"inventory-manager/internal/service"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// An explicit path argument overrides INVENTORY_DATA_FILE
	if len(args) > 0 && args[0] != "" {
		cfg.Storage.DataFile = args[0]
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger, os.Stderr)
	logger.Debug().Str("file", cfg.Storage.DataFile).Msg("starting inventory manager")

	// Cancel the menu on interrupt
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize optional S3 backup mirror
	var mirror repository.BackupMirror
	if cfg.S3.Enabled {
		mirror, err = repository.NewS3Mirror(ctx, cfg.S3.Bucket, cfg.S3.Region, cfg.S3.Prefix, logger)
		if err != nil {
			logger.Warn().
				Err(err).
				Msg("failed to initialise S3 backup mirror, backups stay local only")
			mirror = nil
		}
	}

	// Initialize store
	store := repository.NewFileStore(cfg.Storage.DataFile, repository.FileStoreOptions{
		Strict: cfg.Storage.StrictLoad,
		Mirror: mirror,
	}, logger)

	// Initialize metrics
	recorder := metrics.NewRecorder(cfg.Metrics.Textfile, logger)

	// Initialize service
	svc, err := service.NewInventoryService(ctx, store, service.Options{Observer: recorder}, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize inventory: %w", err)
	}
	recorder.Observe(svc.List())

	// Run the interactive menu
	menu := cli.NewMenu(svc, os.Stdin, os.Stdout, logger)
	if err := menu.Run(ctx); err != nil && ctx.Err() == nil {
		return fmt.Errorf("menu error: %w", err)
	}

	logger.Debug().Msg("inventory manager stopped")

	return nil
}
