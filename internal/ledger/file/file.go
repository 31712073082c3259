// Package file implements the ledger store on a local CSV file.
//
// The file layout matches the spreadsheet backend: a header row followed
// by one row per fact, columns Date, Institution, TL Amount, USD Amount,
// USD Rate, in that order.
package file

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/shopspring/decimal"

	"varlik/internal/core"
	"varlik/internal/ledger"
)

// Header is the CSV header row. Column order is significant.
var Header = []string{"Date", "Institution", "TL Amount", "USD Amount", "USD Rate"}

type Store struct {
	mu   sync.Mutex
	path string
}

var _ ledger.Store = (*Store)(nil)

func New(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create ledger directory: %w", err)
		}
	}
	return &Store{path: path}, nil
}

// LoadAll reads every row from the file. A missing file is an empty
// ledger, not an error; anything else (unreadable file, malformed CSV,
// bad cell values) surfaces as an error.
func (s *Store) LoadAll(_ context.Context) ([]core.LedgerRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *Store) load() ([]core.LedgerRow, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open ledger file: %w", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read ledger file %s: %w", s.path, err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	rows := make([]core.LedgerRow, 0, len(records)-1)
	for i, rec := range records[1:] { // skip header
		row, err := parseRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("ledger file %s line %d: %w", s.path, i+2, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func parseRecord(rec []string) (core.LedgerRow, error) {
	if len(rec) < len(Header) {
		return core.LedgerRow{}, fmt.Errorf("expected %d columns, got %d", len(Header), len(rec))
	}
	date, err := core.ParseDate(rec[0])
	if err != nil {
		return core.LedgerRow{}, err
	}
	tl, err := decimal.NewFromString(rec[2])
	if err != nil {
		return core.LedgerRow{}, fmt.Errorf("bad TL amount %q: %w", rec[2], err)
	}
	usd, err := decimal.NewFromString(rec[3])
	if err != nil {
		return core.LedgerRow{}, fmt.Errorf("bad USD amount %q: %w", rec[3], err)
	}
	rate, err := decimal.NewFromString(rec[4])
	if err != nil {
		return core.LedgerRow{}, fmt.Errorf("bad USD rate %q: %w", rec[4], err)
	}
	return core.LedgerRow{Date: date, Institution: rec[1], TLAmount: tl, USDAmount: usd, USDRate: rate}, nil
}

func (s *Store) UpsertForDate(_ context.Context, date core.Date, rows []core.LedgerRow) error {
	if err := ledger.CheckUpsert(date, rows); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.load()
	if err != nil {
		return err
	}
	return s.rewrite(append(ledger.WithoutDate(existing, date), rows...))
}

func (s *Store) DeleteForDate(_ context.Context, date core.Date) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.load()
	if err != nil {
		return err
	}
	return s.rewrite(ledger.WithoutDate(existing, date))
}

// rewrite persists the full row set, replacing the previous file via a
// temp file so a crash mid-write never truncates the ledger.
func (s *Store) rewrite(rows []core.LedgerRow) error {
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".varlik-*.csv")
	if err != nil {
		return fmt.Errorf("create temp ledger file: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.Write(Header); err != nil {
		tmp.Close()
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range rows {
		rec := []string{r.Date.String(), r.Institution, r.TLAmount.String(), r.USDAmount.String(), r.USDRate.String()}
		if err := w.Write(rec); err != nil {
			tmp.Close()
			return fmt.Errorf("write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("flush ledger file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp ledger file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace ledger file: %w", err)
	}
	return nil
}
