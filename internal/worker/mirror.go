// Package worker replays snapshot change events from the local backend
// against the Google Sheets store.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"varlik/internal/amqp"
	"varlik/internal/core"
	"varlik/internal/ledger"
)

// MirrorWorker keeps the remote ledger in step with the local one. The
// local store is the source of truth: on every event the affected date is
// reloaded from it and replayed remotely.
type MirrorWorker struct {
	local  ledger.RowLoader
	remote ledger.Store
}

func NewMirrorWorker(local ledger.RowLoader, remote ledger.Store) *MirrorWorker {
	return &MirrorWorker{local: local, remote: remote}
}

// HandleEvent processes one snapshot event. Returning an error makes the
// consumer nack-and-requeue the delivery.
func (w *MirrorWorker) HandleEvent(ctx context.Context, msg *amqp.SnapshotEventMessage) error {
	date, err := core.ParseDate(msg.Date)
	if err != nil {
		return fmt.Errorf("event date: %w", err)
	}

	switch msg.Op {
	case amqp.OpDelete:
		return w.remote.DeleteForDate(ctx, date)
	case amqp.OpUpsert:
		return w.mirrorDate(ctx, date)
	default:
		return fmt.Errorf("unknown snapshot op %q", msg.Op)
	}
}

func (w *MirrorWorker) mirrorDate(ctx context.Context, date core.Date) error {
	all, err := w.local.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("load local ledger: %w", err)
	}
	var rows []core.LedgerRow
	for _, r := range all {
		if r.Date.Equal(date) {
			rows = append(rows, r)
		}
	}

	// The date may have been deleted locally between event and replay;
	// mirror that as a delete.
	if len(rows) == 0 {
		slog.InfoContext(ctx, "No local rows for mirrored date, deleting remotely", "date", date.String())
		return w.remote.DeleteForDate(ctx, date)
	}

	if err := w.remote.UpsertForDate(ctx, date, rows); err != nil {
		return fmt.Errorf("mirror %s: %w", date, err)
	}
	slog.InfoContext(ctx, "Mirrored snapshot date", "date", date.String(), "rows", len(rows))
	return nil
}

// SyncAll replays every local date remotely, used at worker startup to
// recover from missed events.
func (w *MirrorWorker) SyncAll(ctx context.Context) error {
	all, err := w.local.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("load local ledger: %w", err)
	}
	for _, date := range core.Dates(all) {
		if err := w.mirrorDate(ctx, date); err != nil {
			return err
		}
	}
	slog.InfoContext(ctx, "Startup mirror sync completed", "dates", len(core.Dates(all)))
	return nil
}
