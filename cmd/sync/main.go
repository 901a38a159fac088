package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"threatsync/infrastructure/di"

	"go.uber.org/zap"
)

func main() {
	// Initialize context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize dependency container. Store connection failure is fatal
	// here; steady-state failures are handled inside the loop.
	container, cleanup, err := di.InitializeContainer(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}
	defer cleanup()

	logger := container.Logger
	logger.Info("starting threatsync",
		zap.String("environment", container.Config.Environment),
		zap.String("feed_url", container.Config.TaxiiBaseURL),
		zap.Duration("poll_interval", container.Config.PollInterval),
	)

	// Admin HTTP server: health, readiness, metrics, sync status
	server := &http.Server{
		Addr:    container.Config.ServerAddress,
		Handler: container.Handler,
	}
	go func() {
		logger.Info("admin server listening", zap.String("address", container.Config.ServerAddress))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("admin server failed", zap.Error(err))
		}
	}()

	// Start the sync loop
	loopDone := make(chan error, 1)
	go func() {
		loopDone <- container.Sync.Run(ctx)
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	loopExited := false
	select {
	case <-sigChan:
		logger.Info("shutdown signal received")
	case err := <-loopDone:
		loopExited = true
		logger.Error("sync loop exited unexpectedly", zap.Error(err))
	}

	// Graceful shutdown: stop the loop, drain the in-flight cycle
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("admin server shutdown failed", zap.Error(err))
	}

	if !loopExited {
		select {
		case <-loopDone:
			logger.Info("sync loop stopped")
		case <-shutdownCtx.Done():
			logger.Warn("sync loop shutdown timeout exceeded")
		}
	}

	logger.Info("shutting down")
}
