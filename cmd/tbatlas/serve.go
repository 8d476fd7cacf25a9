package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/SHAH-MEER/tbatlas/api"
	"github.com/SHAH-MEER/tbatlas/config"
	"github.com/SHAH-MEER/tbatlas/dataset"
	"github.com/SHAH-MEER/tbatlas/similarity"
	"github.com/SHAH-MEER/tbatlas/snapshot"
)

// serveCmd runs the HTTP API server
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the burden dashboard API",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return err
	}

	logger, err := cfg.Logging.BuildLogger()
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	snaps, err := snapshot.New(cfg.Snapshot)
	if err != nil {
		return fmt.Errorf("failed to create snapshot store: %w", err)
	}
	defer snaps.Close()

	store := dataset.NewStore(cfg.Dataset.Path, dataset.NewLoader(logger), snaps, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Refuse to start when the dataset cannot be loaded.
	if _, _, err := store.Get(ctx); err != nil {
		return fmt.Errorf("failed to load dataset %s: %w", cfg.Dataset.Path, err)
	}

	if cfg.Dataset.Watch {
		go func() {
			if err := store.Watch(ctx); err != nil {
				logger.Warn("dataset watcher stopped", zap.Error(err))
			}
		}()
	}

	engine := similarity.NewEngine(cfg.Similarity.DefaultK, logger)
	server := api.NewServer(store, engine, cfg.Server.ToServerConfig(), logger, version)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigChan:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("server stopped gracefully")
	return nil
}
