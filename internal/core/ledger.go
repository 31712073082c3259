package core

import (
	"errors"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// LedgerRow is one persisted balance fact. Rows are immutable once
// written; a re-save for a date replaces that date's rows wholesale.
type LedgerRow struct {
	Date        Date
	Institution string
	TLAmount    decimal.Decimal
	USDAmount   decimal.Decimal
	USDRate     decimal.Decimal
}

var (
	ErrEmptyInstitution = errors.New("empty institution")
	ErrNegativeAmount   = errors.New("negative amount")
	ErrInvalidRate      = errors.New("rate must be positive")
)

func (r LedgerRow) Validate() error {
	if err := r.Date.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(r.Institution) == "" {
		return ErrEmptyInstitution
	}
	if r.TLAmount.IsNegative() || r.USDAmount.IsNegative() {
		return ErrNegativeAmount
	}
	if !r.USDRate.IsPositive() {
		return ErrInvalidRate
	}
	return nil
}

// IsPension reports whether the row belongs to the pension partition.
func (r LedgerRow) IsPension() bool { return r.Institution == PensionLabel }

// SplitPension partitions rows into main (liquid) and pension rows,
// preserving insertion order.
func SplitPension(rows []LedgerRow) (main, pension []LedgerRow) {
	for _, r := range rows {
		if r.IsPension() {
			pension = append(pension, r)
		} else {
			main = append(main, r)
		}
	}
	return main, pension
}

// SeriesPoint is one bar of the growth charts: the summed TL and USD
// amounts of a partition for one date.
type SeriesPoint struct {
	Date Date
	TL   decimal.Decimal
	USD  decimal.Decimal
}

// TotalSeries sums rows per date and returns the points in ascending date
// order.
func TotalSeries(rows []LedgerRow) []SeriesPoint {
	byDate := make(map[string]*SeriesPoint)
	var keys []string
	for _, r := range rows {
		key := r.Date.String()
		p, ok := byDate[key]
		if !ok {
			p = &SeriesPoint{Date: r.Date}
			byDate[key] = p
			keys = append(keys, key)
		}
		p.TL = p.TL.Add(r.TLAmount)
		p.USD = p.USD.Add(r.USDAmount)
	}
	sort.Strings(keys)
	out := make([]SeriesPoint, 0, len(keys))
	for _, key := range keys {
		out = append(out, *byDate[key])
	}
	return out
}

// CardLine is one institution line on a month card.
type CardLine struct {
	Institution string
	TLAmount    decimal.Decimal
}

// MonthCard is the per-date detail card model: main institution lines,
// main totals, the effective rate, and the pension line when present.
type MonthCard struct {
	Date       Date
	Header     string
	Lines      []CardLine
	TotalTL    decimal.Decimal
	TotalUSD   decimal.Decimal
	Rate       decimal.Decimal
	PensionTL  decimal.Decimal
	PensionUSD decimal.Decimal
	HasPension bool
}

var monthNames = []string{
	"JANUARY", "FEBRUARY", "MARCH", "APRIL", "MAY", "JUNE",
	"JULY", "AUGUST", "SEPTEMBER", "OCTOBER", "NOVEMBER", "DECEMBER",
}

func cardHeader(d Date) string {
	return "1 " + monthNames[int(d.Month())-1] + " " + d.Format("2006")
}

// BuildMonthCards groups rows by date and builds one card per date, in
// ascending date order. The effective rate is the first row's stored rate;
// when that is unusable it falls back to the TL/USD total ratio, and to
// zero when USD is zero.
func BuildMonthCards(rows []LedgerRow) []MonthCard {
	byDate := make(map[string][]LedgerRow)
	var keys []string
	for _, r := range rows {
		key := r.Date.String()
		if _, ok := byDate[key]; !ok {
			keys = append(keys, key)
		}
		byDate[key] = append(byDate[key], r)
	}
	sort.Strings(keys)

	cards := make([]MonthCard, 0, len(keys))
	for _, key := range keys {
		group := byDate[key]
		main, pension := SplitPension(group)
		card := MonthCard{Date: group[0].Date, Header: cardHeader(group[0].Date)}
		for _, r := range main {
			card.Lines = append(card.Lines, CardLine{Institution: r.Institution, TLAmount: r.TLAmount})
			card.TotalTL = card.TotalTL.Add(r.TLAmount)
			card.TotalUSD = card.TotalUSD.Add(r.USDAmount)
		}
		for _, r := range pension {
			card.PensionTL = card.PensionTL.Add(r.TLAmount)
			card.PensionUSD = card.PensionUSD.Add(r.USDAmount)
		}
		card.HasPension = card.PensionTL.IsPositive()
		switch {
		case group[0].USDRate.IsPositive():
			card.Rate = group[0].USDRate
		case card.TotalUSD.IsPositive():
			card.Rate = card.TotalTL.Div(card.TotalUSD)
		}
		cards = append(cards, card)
	}
	return cards
}

// Dates returns the distinct row dates in ascending order.
func Dates(rows []LedgerRow) []Date {
	seen := make(map[string]Date)
	var keys []string
	for _, r := range rows {
		key := r.Date.String()
		if _, ok := seen[key]; !ok {
			seen[key] = r.Date
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	out := make([]Date, 0, len(keys))
	for _, key := range keys {
		out = append(out, seen[key])
	}
	return out
}
