// Package backend wires a configured ledger store together with its
// optional mirror publisher.
package backend

import (
	"context"
	"fmt"
	"log/slog"

	"varlik/internal/amqp"
	"varlik/internal/config"
	"varlik/internal/ledger"
	ledgerfile "varlik/internal/ledger/file"
	"varlik/internal/ledger/google"
	"varlik/internal/ledger/memory"
	"varlik/internal/storage"
)

// CleanupFunc releases backend resources on shutdown.
type CleanupFunc func() error

// Result holds the ready store and its cleanup, if any.
type Result struct {
	Store   ledger.Store
	Cleanup CleanupFunc
}

// Open creates the store selected by cfg.DataBackend. For local backends
// with AMQP configured, the store is wrapped so every write publishes a
// snapshot event for the mirror worker.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Result, error) {
	if logger == nil {
		logger = slog.Default()
	}

	result, err := open(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	if cfg.MirrorEnabled() {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			// The local store works without the mirror; degrade instead of failing.
			logger.Warn("Failed to initialize AMQP client, continuing without mirror", "error", err)
			return result, nil
		}
		logger.Info("Snapshot mirror enabled", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)

		inner := result.Cleanup
		result.Store = ledger.NewPublishingStore(result.Store, client)
		result.Cleanup = func() error {
			if inner != nil {
				defer inner()
			}
			return client.Close()
		}
	}

	return result, nil
}

func open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Result, error) {
	switch cfg.DataBackend {
	case "sqlite":
		repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("initialize SQLite repository: %w", err)
		}
		logger.Info("Initialized SQLite backend", "db_path", cfg.SQLiteDBPath)
		return &Result{Store: repo, Cleanup: repo.Close}, nil

	case "file":
		store, err := ledgerfile.New(cfg.LedgerFilePath)
		if err != nil {
			return nil, fmt.Errorf("initialize file backend: %w", err)
		}
		logger.Info("Initialized file backend", "path", cfg.LedgerFilePath)
		return &Result{Store: store}, nil

	case "sheets":
		cli, err := google.New(ctx, google.Config{
			SpreadsheetID:      cfg.GoogleSpreadsheetID,
			SheetName:          cfg.GoogleSheetName,
			ServiceAccountFile: cfg.GoogleServiceAccountFile,
			ServiceAccountJSON: cfg.GoogleServiceAccountJSON,
		})
		if err != nil {
			return nil, fmt.Errorf("initialize Google Sheets backend: %w", err)
		}
		logger.Info("Initialized Google Sheets backend", "sheet", cfg.GoogleSheetName)
		return &Result{Store: cli}, nil

	case "memory":
		logger.Info("Initialized memory backend")
		return &Result{Store: memory.New()}, nil

	default:
		return nil, fmt.Errorf("unsupported data backend %q", cfg.DataBackend)
	}
}
