package core

import "strings"

// PensionLabel is the institution label under which the private pension
// slot is persisted. Pension rows are aggregated separately from the
// liquid "main" assets.
const PensionLabel = "BES"

// ExtraSlotCount is the number of free-form, user-labelled asset slots.
const ExtraSlotCount = 2

// Institutions is the fixed list of tracked institutions, in form and
// persistence order.
var Institutions = []string{
	"Garanti Bankası", "Akbank", "Midas", "IBKR",
	"Binance", "Quantfury", "Osmanlı Yatırım",
	"BoFA", "Chase", "Sofi", "Mercury",
}

// Colors maps institution labels to the hex color used on report cards.
var Colors = map[string]string{
	"Garanti Bankası": "#2ecc71", "Akbank": "#e74c3c", "Midas": "#3498db",
	"IBKR": "#c0392b", "Binance": "#f1c40f", "Quantfury": "#00a8ff",
	"Osmanlı Yatırım": "#95a5a6", "BoFA": "#00205b", "Chase": "#117aca",
	"Sofi": "#00d5e6", "Mercury": "#333333", "Cash": "#2c3e50",
	"BES": "#e67e22", "Other": "#7f8c8d",
}

// ColorFor returns the card color for an institution label, falling back
// to the "Other" color for labels outside the fixed palette.
func ColorFor(institution string) string {
	if c, ok := Colors[institution]; ok {
		return c
	}
	return Colors["Other"]
}

type SlotKind int

const (
	SlotNamed SlotKind = iota
	SlotExtra
	SlotPension
)

// Slot identifies one trackable balance line: a fixed institution, one of
// the user-labelled extra slots, or the pension slot. The user label of an
// extra slot is deliberately not part of the identity; it lives on the
// ConversionState so it survives a reset.
type Slot struct {
	Kind        SlotKind
	Institution string // set for SlotNamed only
	Index       int    // 1-based, set for SlotExtra only
}

func Named(institution string) Slot { return Slot{Kind: SlotNamed, Institution: institution} }

func Extra(index int) Slot { return Slot{Kind: SlotExtra, Index: index} }

func Pension() Slot { return Slot{Kind: SlotPension} }

// AllSlots returns every slot in form order: institutions, extras, pension.
func AllSlots() []Slot {
	slots := make([]Slot, 0, len(Institutions)+ExtraSlotCount+1)
	for _, inst := range Institutions {
		slots = append(slots, Named(inst))
	}
	for i := 1; i <= ExtraSlotCount; i++ {
		slots = append(slots, Extra(i))
	}
	return append(slots, Pension())
}

// FieldKey returns the stable key used for form field names
// ("tl_<key>" / "usd_<key>").
func (s Slot) FieldKey() string {
	switch s.Kind {
	case SlotExtra:
		return "extra_" + itoa(s.Index)
	case SlotPension:
		return "bes"
	default:
		return s.Institution
	}
}

// SlotFromFieldKey resolves a form field key back to a slot. The second
// return value is false for unknown keys.
func SlotFromFieldKey(key string) (Slot, bool) {
	key = strings.TrimSpace(key)
	if key == "bes" {
		return Pension(), true
	}
	if rest, ok := strings.CutPrefix(key, "extra_"); ok {
		switch rest {
		case "1":
			return Extra(1), true
		case "2":
			return Extra(2), true
		}
		return Slot{}, false
	}
	for _, inst := range Institutions {
		if inst == key {
			return Named(inst), true
		}
	}
	return Slot{}, false
}

func itoa(i int) string {
	// Slots only ever carry tiny indexes.
	if i < 0 || i > 9 {
		return "?"
	}
	return string(rune('0' + i))
}
