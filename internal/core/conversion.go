package core

import "github.com/shopspring/decimal"

// DefaultUSDRate is the initial USD/TRY exchange rate shown on a fresh form.
var DefaultUSDRate = decimal.NewFromInt(35)

// Balance is one slot's pair of optional amounts.
type Balance struct {
	TL  decimal.NullDecimal
	USD decimal.NullDecimal
}

// ConversionState keeps per-slot TL/USD balances consistent under one
// shared exchange rate (TL per USD). After any single-field edit the
// affected slot satisfies tl = usd * rate, unless the edited field was
// cleared, in which case the paired field is cleared too.
//
// A non-positive rate is stored but treated as unusable: it disables
// TL -> USD derivation until the rate turns positive again.
type ConversionState struct {
	rate        decimal.Decimal
	balances    map[Slot]Balance
	extraLabels [ExtraSlotCount + 1]string // 1-based
}

func NewConversionState() *ConversionState {
	return &ConversionState{
		rate:     DefaultUSDRate,
		balances: make(map[Slot]Balance),
	}
}

func (s *ConversionState) Rate() decimal.Decimal { return s.rate }

// Balance returns the slot's current pair; absent slots read as empty.
func (s *ConversionState) Balance(slot Slot) Balance { return s.balances[slot] }

// SetRate stores the new rate and, when it is positive, re-derives the USD
// amount of every slot that has a TL amount. Slots without a TL amount are
// left alone: a rate change propagates TL -> USD only, never the reverse.
func (s *ConversionState) SetRate(rate decimal.Decimal) {
	s.rate = rate
	if !rate.IsPositive() {
		return
	}
	for slot, b := range s.balances {
		if !b.TL.Valid {
			continue
		}
		b.USD = Amount(b.TL.Decimal.Div(rate))
		s.balances[slot] = b
	}
}

// SetTL records an edit of the slot's TL field. The value is stored
// verbatim; the USD side is re-derived when the rate is positive and
// cleared otherwise (or when the TL field itself was cleared).
func (s *ConversionState) SetTL(slot Slot, v decimal.NullDecimal) {
	b := s.balances[slot]
	b.TL = v
	if v.Valid && s.rate.IsPositive() {
		b.USD = Amount(v.Decimal.Div(s.rate))
	} else {
		b.USD = NoAmount()
	}
	s.balances[slot] = b
}

// SetUSD records an edit of the slot's USD field. A present value always
// propagates to the TL side, even under a non-positive rate.
func (s *ConversionState) SetUSD(slot Slot, v decimal.NullDecimal) {
	b := s.balances[slot]
	b.USD = v
	if v.Valid {
		b.TL = Amount(v.Decimal.Mul(s.rate))
	} else {
		b.TL = NoAmount()
	}
	s.balances[slot] = b
}

// SetBalance loads both sides of a slot verbatim, with no recomputation.
// Used when rebuilding the state from a submitted form.
func (s *ConversionState) SetBalance(slot Slot, b Balance) {
	s.balances[slot] = b
}

// SetExtraLabel sets the user label of an extra slot (1-based index).
func (s *ConversionState) SetExtraLabel(index int, label string) {
	if index >= 1 && index <= ExtraSlotCount {
		s.extraLabels[index] = label
	}
}

func (s *ConversionState) ExtraLabel(index int) string {
	if index >= 1 && index <= ExtraSlotCount {
		return s.extraLabels[index]
	}
	return ""
}

// label returns the institution label a slot would be persisted under.
func (s *ConversionState) label(slot Slot) string {
	switch slot.Kind {
	case SlotExtra:
		return s.extraLabels[slot.Index]
	case SlotPension:
		return PensionLabel
	default:
		return slot.Institution
	}
}

// FinalizeForSave resolves every slot to a final TL/USD pair and emits one
// row per slot worth saving, all sharing the given date and the current
// rate.
//
// Resolution prefers the raw TL amount: when it is present and positive it
// wins and USD is re-derived from it (zero when the rate is unusable).
// Otherwise a present, positive USD amount is used and TL derived from it.
// Slots resolving to a non-positive TL amount are skipped, as are extra
// slots without a user label.
func (s *ConversionState) FinalizeForSave(date Date) []LedgerRow {
	var rows []LedgerRow
	for _, slot := range AllSlots() {
		label := s.label(slot)
		if slot.Kind == SlotExtra && label == "" {
			continue
		}
		b := s.balances[slot]
		var tl, usd decimal.Decimal
		switch {
		case b.TL.Valid && b.TL.Decimal.IsPositive():
			tl = b.TL.Decimal
			if s.rate.IsPositive() {
				usd = tl.Div(s.rate)
			}
		case b.USD.Valid && b.USD.Decimal.IsPositive():
			usd = b.USD.Decimal
			tl = usd.Mul(s.rate)
		default:
			continue
		}
		if !tl.IsPositive() {
			continue
		}
		rows = append(rows, LedgerRow{
			Date:        date,
			Institution: label,
			TLAmount:    tl,
			USDAmount:   usd,
			USDRate:     s.rate,
		})
	}
	return rows
}

// Reset clears every slot's amounts. Extra-slot labels and the rate are
// deliberately retained across saves.
func (s *ConversionState) Reset() {
	s.balances = make(map[Slot]Balance)
}
