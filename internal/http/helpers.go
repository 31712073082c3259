package http

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"

	"varlik/internal/core"
)

// formatGrouped renders a decimal rounded to whole units with comma
// thousands separators, the way the charts and cards label amounts.
func formatGrouped(d decimal.Decimal) string {
	s := d.Round(0).StringFixed(0)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

func formatTL(d decimal.Decimal) string { return "₺" + formatGrouped(d) }

func formatUSD(d decimal.Decimal) string { return "$" + formatGrouped(d) }

func formatRate(d decimal.Decimal) string { return d.StringFixed(1) }

// fieldValue renders an optional amount for an input's value attribute.
func fieldValue(v decimal.NullDecimal) string {
	if !v.Valid {
		return ""
	}
	return v.Decimal.String()
}

// barWidth scales an amount to a rounded percentage of the maximum, with
// a 2% floor so tiny bars stay visible.
func barWidth(amount, max decimal.Decimal) int {
	if !max.IsPositive() || !amount.IsPositive() {
		return 0
	}
	width := int(amount.Mul(decimal.NewFromInt(100)).Div(max).Round(0).IntPart())
	if width < 2 {
		width = 2
	}
	if width > 100 {
		width = 100
	}
	return width
}

// textColorOn picks a readable text color for a card line background.
// Binance yellow is the one palette entry needing a dark label.
func textColorOn(background string) string {
	if background == "#f1c40f" {
		return "black"
	}
	return "white"
}

// sanitizeInput trims and strips control characters from free-form text.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

// stateFromForm rebuilds a ConversionState from submitted field values,
// verbatim, with no recomputation. Field names follow the tl_<key> /
// usd_<key> / name_extra_<i> convention.
func stateFromForm(form url.Values, defaultRate decimal.Decimal) (*core.ConversionState, error) {
	state := core.NewConversionState()

	rate := defaultRate
	if v := strings.TrimSpace(form.Get("rate")); v != "" {
		parsed, err := core.ParseRate(v)
		if err != nil {
			return nil, fmt.Errorf("rate: %w", err)
		}
		rate = parsed
	}
	state.SetRate(rate)

	for i := 1; i <= core.ExtraSlotCount; i++ {
		state.SetExtraLabel(i, sanitizeInput(form.Get(fmt.Sprintf("name_extra_%d", i))))
	}

	for _, slot := range core.AllSlots() {
		key := slot.FieldKey()
		tl, err := core.ParseAmount(form.Get("tl_" + key))
		if err != nil {
			return nil, fmt.Errorf("tl_%s: %w", key, err)
		}
		usd, err := core.ParseAmount(form.Get("usd_" + key))
		if err != nil {
			return nil, fmt.Errorf("usd_%s: %w", key, err)
		}
		state.SetBalance(slot, core.Balance{TL: tl, USD: usd})
	}
	return state, nil
}

// applyEdit replays the single edited field on a freshly rebuilt state so
// the paired field is re-derived per the conversion rules.
func applyEdit(state *core.ConversionState, edited string, form url.Values) error {
	edited = strings.TrimSpace(edited)
	if edited == "" || edited == "rate" {
		state.SetRate(state.Rate())
		return nil
	}

	field, key, ok := strings.Cut(edited, "_")
	if !ok {
		return fmt.Errorf("unknown edited field %q", edited)
	}
	slot, found := core.SlotFromFieldKey(key)
	if !found {
		return fmt.Errorf("unknown slot in edited field %q", edited)
	}

	value, err := core.ParseAmount(form.Get(edited))
	if err != nil {
		return fmt.Errorf("%s: %w", edited, err)
	}
	switch field {
	case "tl":
		state.SetTL(slot, value)
	case "usd":
		state.SetUSD(slot, value)
	default:
		return fmt.Errorf("unknown edited field %q", edited)
	}
	return nil
}
