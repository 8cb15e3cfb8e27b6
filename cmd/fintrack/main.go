package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"fintrack/internal/amqp"
	"fintrack/internal/analytics"
	"fintrack/internal/config"
	"fintrack/internal/log"
	"fintrack/internal/mail"
	"fintrack/internal/services"
	"fintrack/internal/sheet"
	"fintrack/internal/sheet/memory"
	"fintrack/internal/sheet/xlsx"
	"fintrack/internal/storage"

	apphttp "fintrack/internal/http"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := log.New(log.DefaultConfig())
	log.SetDefault(logger)

	slog.Info("Starting fintrack")

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

	// AMQP is optional; without it transactions stay in SQLite only and
	// workbook sync is skipped.
	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			slog.Warn("Failed to initialize AMQP client, continuing without workbook sync", "error", err)
			amqpClient = nil
		} else {
			defer amqpClient.Close()
			slog.Info("AMQP client initialized", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	} else {
		slog.Info("AMQP disabled - transactions will not sync to workbooks")
	}

	var exporter sheet.WorkbookExporter
	switch cfg.SheetBackend {
	case "memory":
		exporter = memory.New()
		slog.Info("Initialized memory workbook backend")
	default:
		exporter = xlsx.New(cfg.SheetDataDir)
		slog.Info("Initialized xlsx workbook backend", "data_dir", cfg.SheetDataDir)
	}

	var mailer services.MailSender
	if cfg.SMTPEnabled {
		mailer = mail.New(mail.Config{
			Host:        cfg.SMTPHost,
			Port:        cfg.SMTPPort,
			Username:    cfg.SMTPUsername,
			Password:    cfg.SMTPPassword,
			FromAddress: cfg.SMTPFromAddress,
			From:        cfg.SMTPFrom,
			Enabled:     true,
		})
		slog.Info("SMTP mailer initialized", "host", cfg.SMTPHost)
	}

	engine := analytics.NewEngine(repo, repo)

	var publisher services.SyncPublisher
	if amqpClient != nil {
		publisher = amqpClient
	}
	txnService := services.NewTransactionService(repo, publisher)
	materializer := services.NewRecurringMaterializer(repo, publisher)
	reports := services.NewReportService(repo, engine, exporter, mailer)

	srv := apphttp.NewServer(":"+cfg.Port, apphttp.Deps{
		Storage:      repo,
		Transactions: txnService,
		Materializer: materializer,
		Engine:       engine,
		Reports:      reports,
		Exporter:     exporter,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		slog.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	slog.Info("Server listening", "port", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}

	<-ctx.Done()
	slog.Info("Server stopped")
}
