package ledger

import (
	"context"
	"log/slog"

	"varlik/internal/core"
)

// EventPublisher notifies the mirror pipeline that a date's rows changed.
// Implemented by the AMQP client.
type EventPublisher interface {
	PublishSnapshotEvent(ctx context.Context, op, date string) error
}

const (
	OpUpsert = "upsert"
	OpDelete = "delete"
)

// PublishingStore decorates a Store, emitting an event after every
// successful write. Publish failures are logged and swallowed: the local
// save already succeeded and the worker re-syncs on its next event.
type PublishingStore struct {
	Store
	publisher EventPublisher
}

func NewPublishingStore(store Store, publisher EventPublisher) *PublishingStore {
	return &PublishingStore{Store: store, publisher: publisher}
}

func (s *PublishingStore) UpsertForDate(ctx context.Context, date core.Date, rows []core.LedgerRow) error {
	if err := s.Store.UpsertForDate(ctx, date, rows); err != nil {
		return err
	}
	if err := s.publisher.PublishSnapshotEvent(ctx, OpUpsert, date.String()); err != nil {
		slog.ErrorContext(ctx, "Failed to publish upsert event", "error", err, "date", date.String())
	}
	return nil
}

func (s *PublishingStore) DeleteForDate(ctx context.Context, date core.Date) error {
	if err := s.Store.DeleteForDate(ctx, date); err != nil {
		return err
	}
	if err := s.publisher.PublishSnapshotEvent(ctx, OpDelete, date.String()); err != nil {
		slog.ErrorContext(ctx, "Failed to publish delete event", "error", err, "date", date.String())
	}
	return nil
}
