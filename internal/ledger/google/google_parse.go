package google

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"varlik/internal/core"
)

var headerCells = []string{"Date", "Institution", "TL Amount", "USD Amount", "USD Rate"}

// parseValues converts a Sheets value matrix into ledger rows. The first
// row is skipped when it looks like the header. Cells arrive as strings
// or numbers depending on how the sheet was written, so everything goes
// through fmt.Sprint first.
func parseValues(values [][]any) ([]core.LedgerRow, error) {
	if len(values) == 0 {
		return nil, nil
	}
	start := 0
	if isHeader(values[0]) {
		start = 1
	}
	rows := make([]core.LedgerRow, 0, len(values)-start)
	for i, raw := range values[start:] {
		cols := toStrings(raw)
		if len(cols) == 0 || allEmpty(cols) {
			continue
		}
		row, err := parseRow(cols)
		if err != nil {
			return nil, fmt.Errorf("sheet row %d: %w", start+i+1, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func parseRow(cols []string) (core.LedgerRow, error) {
	if len(cols) < len(headerCells) {
		return core.LedgerRow{}, fmt.Errorf("expected %d cells, got %d", len(headerCells), len(cols))
	}
	date, err := core.ParseDate(cols[0])
	if err != nil {
		return core.LedgerRow{}, err
	}
	tl, err := parseCell(cols[2])
	if err != nil {
		return core.LedgerRow{}, fmt.Errorf("TL amount: %w", err)
	}
	usd, err := parseCell(cols[3])
	if err != nil {
		return core.LedgerRow{}, fmt.Errorf("USD amount: %w", err)
	}
	rate, err := parseCell(cols[4])
	if err != nil {
		return core.LedgerRow{}, fmt.Errorf("USD rate: %w", err)
	}
	return core.LedgerRow{Date: date, Institution: cols[1], TLAmount: tl, USDAmount: usd, USDRate: rate}, nil
}

// parseCell parses a numeric cell, tolerating a decimal comma.
func parseCell(s string) (decimal.Decimal, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	if s == "" {
		return decimal.Decimal{}, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("bad number %q", s)
	}
	return d, nil
}

func isHeader(raw []any) bool {
	cols := toStrings(raw)
	return len(cols) > 0 && strings.EqualFold(cols[0], headerCells[0])
}

func toStrings(in []any) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}

func allEmpty(cols []string) bool {
	for _, c := range cols {
		if c != "" {
			return false
		}
	}
	return true
}
