// Package memory holds an in-process ledger store used for development
// and as the backing store in HTTP tests.
package memory

import (
	"context"
	"sync"

	"varlik/internal/core"
	"varlik/internal/ledger"
)

type Store struct {
	mu   sync.Mutex
	rows []core.LedgerRow
}

var _ ledger.Store = (*Store)(nil)

func New() *Store { return &Store{} }

// Seed replaces the whole row set, for test fixtures.
func (s *Store) Seed(rows []core.LedgerRow) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append([]core.LedgerRow(nil), rows...)
}

func (s *Store) LoadAll(_ context.Context) ([]core.LedgerRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.LedgerRow(nil), s.rows...), nil
}

func (s *Store) UpsertForDate(_ context.Context, date core.Date, rows []core.LedgerRow) error {
	if err := ledger.CheckUpsert(date, rows); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(ledger.WithoutDate(s.rows, date), rows...)
	return nil
}

func (s *Store) DeleteForDate(_ context.Context, date core.Date) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = ledger.WithoutDate(s.rows, date)
	return nil
}
