package worker

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"varlik/internal/amqp"
	"varlik/internal/core"
	"varlik/internal/ledger/memory"
)

func row(date, inst, tl string) core.LedgerRow {
	d, err := core.ParseDate(date)
	if err != nil {
		panic(err)
	}
	amt := decimal.RequireFromString(tl)
	return core.LedgerRow{Date: d, Institution: inst, TLAmount: amt, USDAmount: amt.Div(decimal.NewFromInt(35)), USDRate: decimal.NewFromInt(35)}
}

func TestHandleUpsertEventMirrorsDate(t *testing.T) {
	ctx := context.Background()
	local, remote := memory.New(), memory.New()
	local.Seed([]core.LedgerRow{
		row("2026-08-01", "Akbank", "700"),
		row("2026-08-01", "BES", "350"),
		row("2026-07-01", "Chase", "100"),
	})

	w := NewMirrorWorker(local, remote)
	if err := w.HandleEvent(ctx, amqp.NewSnapshotEventMessage(amqp.OpUpsert, "2026-08-01")); err != nil {
		t.Fatalf("handle: %v", err)
	}

	got, _ := remote.LoadAll(ctx)
	if len(got) != 2 {
		t.Fatalf("expected only the event date mirrored, got %d rows", len(got))
	}
	for _, r := range got {
		if r.Date.String() != "2026-08-01" {
			t.Fatalf("wrong date mirrored: %+v", r)
		}
	}
}

func TestHandleUpsertForVanishedDateDeletesRemotely(t *testing.T) {
	ctx := context.Background()
	local, remote := memory.New(), memory.New()
	remote.Seed([]core.LedgerRow{row("2026-08-01", "Akbank", "700")})

	w := NewMirrorWorker(local, remote)
	if err := w.HandleEvent(ctx, amqp.NewSnapshotEventMessage(amqp.OpUpsert, "2026-08-01")); err != nil {
		t.Fatalf("handle: %v", err)
	}

	got, _ := remote.LoadAll(ctx)
	if len(got) != 0 {
		t.Fatalf("stale remote rows survived: %+v", got)
	}
}

func TestHandleDeleteEvent(t *testing.T) {
	ctx := context.Background()
	local, remote := memory.New(), memory.New()
	remote.Seed([]core.LedgerRow{
		row("2026-08-01", "Akbank", "700"),
		row("2026-07-01", "Chase", "100"),
	})

	w := NewMirrorWorker(local, remote)
	if err := w.HandleEvent(ctx, amqp.NewSnapshotEventMessage(amqp.OpDelete, "2026-08-01")); err != nil {
		t.Fatalf("handle: %v", err)
	}

	got, _ := remote.LoadAll(ctx)
	if len(got) != 1 || got[0].Date.String() != "2026-07-01" {
		t.Fatalf("unexpected remote rows: %+v", got)
	}
}

func TestHandleEventRejectsBadDate(t *testing.T) {
	w := NewMirrorWorker(memory.New(), memory.New())
	if err := w.HandleEvent(context.Background(), amqp.NewSnapshotEventMessage(amqp.OpUpsert, "August 1")); err == nil {
		t.Fatalf("expected error for bad date")
	}
}

func TestSyncAll(t *testing.T) {
	ctx := context.Background()
	local, remote := memory.New(), memory.New()
	local.Seed([]core.LedgerRow{
		row("2026-07-01", "Akbank", "100"),
		row("2026-08-01", "Chase", "200"),
	})

	w := NewMirrorWorker(local, remote)
	if err := w.SyncAll(ctx); err != nil {
		t.Fatalf("sync all: %v", err)
	}

	got, _ := remote.LoadAll(ctx)
	if len(got) != 2 {
		t.Fatalf("expected full mirror, got %d rows", len(got))
	}
}
