// Package ledger defines the persistence contract for snapshot rows.
package ledger

import (
	"context"
	"errors"
	"fmt"

	"varlik/internal/core"
)

// Ports for outbound storage adapters.
type (
	// RowLoader returns every stored row in insertion order. Backend
	// failures surface as errors so callers can tell an empty ledger
	// from a failed load.
	RowLoader interface {
		LoadAll(ctx context.Context) ([]core.LedgerRow, error)
	}

	// RowUpserter replaces all rows for a date with the given set.
	RowUpserter interface {
		UpsertForDate(ctx context.Context, date core.Date, rows []core.LedgerRow) error
	}

	// RowDeleter removes every row for a date.
	RowDeleter interface {
		DeleteForDate(ctx context.Context, date core.Date) error
	}

	// Store is the full contract a backend implements.
	Store interface {
		RowLoader
		RowUpserter
		RowDeleter
	}
)

var (
	ErrNoRows       = errors.New("no rows to upsert")
	ErrDateMismatch = errors.New("rows do not share the upsert date")
)

// CheckUpsert enforces the upsert precondition: a non-empty, valid row set
// all sharing the target date. Backends call it before touching storage.
func CheckUpsert(date core.Date, rows []core.LedgerRow) error {
	if len(rows) == 0 {
		return ErrNoRows
	}
	for i, r := range rows {
		if !r.Date.Equal(date) {
			return fmt.Errorf("row %d has date %s: %w", i, r.Date, ErrDateMismatch)
		}
		if err := r.Validate(); err != nil {
			return fmt.Errorf("row %d: %w", i, err)
		}
	}
	return nil
}

// WithoutDate filters out every row matching the date, preserving order.
func WithoutDate(rows []core.LedgerRow, date core.Date) []core.LedgerRow {
	out := rows[:0:0]
	for _, r := range rows {
		if !r.Date.Equal(date) {
			out = append(out, r)
		}
	}
	return out
}
