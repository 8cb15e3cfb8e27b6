package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"fintrack/internal/amqp"
	"fintrack/internal/config"
	"fintrack/internal/log"
	"fintrack/internal/sheet"
	"fintrack/internal/sheet/memory"
	"fintrack/internal/sheet/xlsx"
	"fintrack/internal/storage"
	"fintrack/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := log.New(log.DefaultConfig())
	log.SetDefault(logger)

	slog.Info("Starting fintrack-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		slog.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		slog.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	var backend sheet.Backend
	switch cfg.SheetBackend {
	case "memory":
		backend = memory.New()
		slog.Info("Initialized memory workbook backend")
	default:
		backend = xlsx.New(cfg.SheetDataDir)
		slog.Info("Initialized xlsx workbook backend", "data_dir", cfg.SheetDataDir)
	}

	syncWorker := worker.NewSyncWorker(repo, backend)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		slog.Info("Shutdown signal received", "signal", sig.String())
		cancel()
	}()

	// Consume until cancelled, reconnecting with backoff if the broker
	// connection drops.
	attempt := 0
	for {
		if ctx.Err() != nil {
			break
		}

		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			attempt++
			delay := amqp.ExponentialBackoff(attempt)
			slog.Error("Failed to connect to AMQP, retrying", "error", err, "attempt", attempt, "delay", delay)
			select {
			case <-ctx.Done():
			case <-time.After(delay):
			}
			continue
		}
		attempt = 0
		slog.Info("Consuming sync messages", "queue", cfg.AMQPQueue)

		err = client.ConsumeTransactionSync(ctx, syncWorker.HandleSyncMessage)
		client.Close()
		if err != nil && !errors.Is(err, context.Canceled) {
			slog.Error("Message consumption stopped", "error", err)
		}
	}

	slog.Info("Worker stopped")
}
