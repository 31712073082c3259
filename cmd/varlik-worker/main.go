package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"varlik/internal/amqp"
	"varlik/internal/config"
	"varlik/internal/ledger"
	ledgerfile "varlik/internal/ledger/file"
	"varlik/internal/ledger/google"
	"varlik/internal/storage"
	"varlik/internal/worker"
)

// varlik-worker consumes snapshot events from a local-backend server and
// replays the affected dates into the Google Sheets mirror.
func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	logger.Info("Starting varlik-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the mirror worker")
		os.Exit(1)
	}
	if cfg.GoogleSpreadsheetID == "" {
		logger.Error("GOOGLE_SPREADSHEET_ID is required for the mirror worker")
		os.Exit(1)
	}

	local, cleanup, err := openLocal(cfg)
	if err != nil {
		logger.Error("Failed to open local store", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	if cleanup != nil {
		defer cleanup()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	remote, err := google.New(ctx, google.Config{
		SpreadsheetID:      cfg.GoogleSpreadsheetID,
		SheetName:          cfg.GoogleSheetName,
		ServiceAccountFile: cfg.GoogleServiceAccountFile,
		ServiceAccountJSON: cfg.GoogleServiceAccountJSON,
	})
	if err != nil {
		logger.Error("Failed to initialize Google Sheets client", "error", err)
		os.Exit(1)
	}
	logger.Info("Google Sheets client initialized", "sheet", cfg.GoogleSheetName)

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	mirror := worker.NewMirrorWorker(local, remote)

	// Replay the whole local ledger once at startup so events missed while
	// the worker was down are not lost.
	logger.Info("Performing startup mirror sync")
	if err := mirror.SyncAll(ctx); err != nil {
		logger.Error("Startup mirror sync failed", "error", err)
		// Keep consuming; the next event for a date will retry it.
	}

	logger.Info("Consuming snapshot events", "queue", cfg.AMQPQueue)
	err = amqpClient.ConsumeSnapshotEvents(ctx, func(msg *amqp.SnapshotEventMessage) error {
		return mirror.HandleEvent(ctx, msg)
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Event consumption failed", "error", err)
		os.Exit(1)
	}

	logger.Info("Worker stopped gracefully")
}

// openLocal opens the same local store the server writes to. The mirror
// only makes sense in front of a persistent local backend.
func openLocal(cfg *config.Config) (ledger.RowLoader, func() error, error) {
	switch cfg.DataBackend {
	case "sqlite":
		repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
		if err != nil {
			return nil, nil, err
		}
		return repo, repo.Close, nil
	case "file":
		store, err := ledgerfile.New(cfg.LedgerFilePath)
		if err != nil {
			return nil, nil, err
		}
		return store, nil, nil
	default:
		return nil, nil, fmt.Errorf("unsupported local backend %q: mirror requires sqlite or file", cfg.DataBackend)
	}
}
