// Package storage implements the ledger store on a local SQLite database.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"varlik/internal/core"
	"varlik/internal/ledger"
)

type SQLiteRepository struct {
	db *sql.DB
}

var _ ledger.Store = (*SQLiteRepository)(nil)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) LoadAll(ctx context.Context) ([]core.LedgerRow, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT date, institution, tl_amount, usd_amount, usd_rate FROM snapshot_rows ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query snapshot rows: %w", err)
	}
	defer rows.Close()

	var out []core.LedgerRow
	for rows.Next() {
		var dateStr, institution, tlStr, usdStr, rateStr string
		if err := rows.Scan(&dateStr, &institution, &tlStr, &usdStr, &rateStr); err != nil {
			return nil, fmt.Errorf("scan snapshot row: %w", err)
		}
		row, err := buildRow(dateStr, institution, tlStr, usdStr, rateStr)
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshot rows: %w", err)
	}
	return out, nil
}

func buildRow(dateStr, institution, tlStr, usdStr, rateStr string) (core.LedgerRow, error) {
	date, err := core.ParseDate(dateStr)
	if err != nil {
		return core.LedgerRow{}, err
	}
	tl, err := decimal.NewFromString(tlStr)
	if err != nil {
		return core.LedgerRow{}, fmt.Errorf("bad TL amount %q: %w", tlStr, err)
	}
	usd, err := decimal.NewFromString(usdStr)
	if err != nil {
		return core.LedgerRow{}, fmt.Errorf("bad USD amount %q: %w", usdStr, err)
	}
	rate, err := decimal.NewFromString(rateStr)
	if err != nil {
		return core.LedgerRow{}, fmt.Errorf("bad USD rate %q: %w", rateStr, err)
	}
	return core.LedgerRow{Date: date, Institution: institution, TLAmount: tl, USDAmount: usd, USDRate: rate}, nil
}

// UpsertForDate replaces the date's rows inside one transaction, which
// gives the same replace-then-append outcome as the full-rewrite backends.
func (r *SQLiteRepository) UpsertForDate(ctx context.Context, date core.Date, rows []core.LedgerRow) error {
	if err := ledger.CheckUpsert(date, rows); err != nil {
		return err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin upsert: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM snapshot_rows WHERE date = ?`, date.String()); err != nil {
		return fmt.Errorf("delete existing rows: %w", err)
	}
	for _, row := range rows {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO snapshot_rows (date, institution, tl_amount, usd_amount, usd_rate) VALUES (?, ?, ?, ?, ?)`,
			row.Date.String(), row.Institution, row.TLAmount.String(), row.USDAmount.String(), row.USDRate.String())
		if err != nil {
			return fmt.Errorf("insert row for %s: %w", row.Institution, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert: %w", err)
	}

	slog.InfoContext(ctx, "Snapshot saved to SQLite", "date", date.String(), "rows", len(rows))
	return nil
}

func (r *SQLiteRepository) DeleteForDate(ctx context.Context, date core.Date) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM snapshot_rows WHERE date = ?`, date.String())
	if err != nil {
		return fmt.Errorf("delete rows for %s: %w", date, err)
	}
	if n, err := res.RowsAffected(); err == nil {
		slog.InfoContext(ctx, "Snapshot date deleted from SQLite", "date", date.String(), "rows_deleted", n)
	}
	return nil
}
