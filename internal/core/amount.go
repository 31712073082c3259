// Package core holds the conversion and ledger domain of the asset tracker.
//
// This file contains parsing helpers for monetary amounts and exchange
// rates as they arrive from form fields and storage backends.
package core

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var ErrInvalidAmount = errors.New("invalid amount")

// ParseAmount parses a form or storage amount into an optional decimal.
//
// An empty or whitespace-only string is a cleared field and yields an
// invalid (absent) NullDecimal with no error. Both dot and comma decimal
// separators are accepted. No range validation happens here; zero and
// negative values are stored verbatim and only filtered at save time.
func ParseAmount(s string) (decimal.NullDecimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.NullDecimal{}, nil
	}
	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}, ErrInvalidAmount
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}, nil
}

// ParseRate parses an exchange-rate string. Unlike amounts, a rate field
// is never "cleared": an empty string is an error.
func ParseRate(s string) (decimal.Decimal, error) {
	v, err := ParseAmount(s)
	if err != nil || !v.Valid {
		return decimal.Decimal{}, ErrInvalidAmount
	}
	return v.Decimal, nil
}

// Amount wraps a plain decimal in a present NullDecimal.
func Amount(d decimal.Decimal) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: d, Valid: true}
}

// NoAmount is the cleared (absent) field value.
func NoAmount() decimal.NullDecimal { return decimal.NullDecimal{} }
