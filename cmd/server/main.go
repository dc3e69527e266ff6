// Package main is the entry point for the quantum autoencoder service.
// It trains compression circuits for hydrogen ground states, stores the
// run history and serves it over HTTP.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/aristath/qae/internal/config"
	"github.com/aristath/qae/internal/di"
	"github.com/aristath/qae/internal/server"
	"github.com/aristath/qae/pkg/logger"
)

// main orchestrates startup:
// 1. Loads configuration from environment variables
// 2. Initializes logging
// 3. Wires all dependencies via DI container
// 4. Starts the scheduler and HTTP server
// 5. Optionally trains every topology once
// 6. Waits for a shutdown signal and shuts down gracefully
func main() {
	cfg, err := config.Load()
	if err != nil {
		// Use fallback logger if config fails
		fallbackLog := logger.New(logger.Config{
			Level:  "info",
			Pretty: true,
		})
		fallbackLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	root := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.LogPretty,
	})
	log := logger.Component(root, "main")

	log.Info().
		Int("num_ref", cfg.Autoencoder.NumRef).
		Int("rounds", cfg.Autoencoder.Rounds).
		Str("cost_mode", string(cfg.Autoencoder.CostMode)).
		Msg("Starting quantum autoencoder")

	container, jobs, err := di.Wire(cfg, root)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to wire dependencies")
	}
	// Closing flushes the WAL
	defer container.Close()

	container.Scheduler.Start()

	srv := server.New(server.Config{
		Log:       root,
		Config:    cfg,
		Container: container,
		Jobs:      jobs,
	})

	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start HTTP server")
		}
	}()

	log.Info().Int("port", cfg.Port).Msg("Server started successfully")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var training sync.WaitGroup
	if cfg.TrainOnStart {
		training.Add(1)
		go func() {
			defer training.Done()
			runs, err := container.AutoencoderService.TrainAll(ctx)
			if err != nil {
				log.Error().Err(err).Msg("Startup training failed")
				return
			}
			for _, run := range runs {
				ev := log.Info().Str("id", run.ID).Str("topology", string(run.Topology))
				if last, ok := run.FinalRound(); ok {
					ev = ev.Float64("error_metric", last.ErrorMetric)
				}
				ev.Floats64("test_fidelities", run.TestFidelities).Msg("Startup training finished")
			}
		}()
	}

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Stop startup training before the databases close
	cancel()
	training.Wait()
	container.Scheduler.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
