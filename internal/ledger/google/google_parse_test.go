package google

import "testing"

func TestParseValuesSkipsHeader(t *testing.T) {
	values := [][]any{
		{"Date", "Institution", "TL Amount", "USD Amount", "USD Rate"},
		{"2026-08-01", "Garanti Bankası", "3500", "100", "35"},
	}
	rows, err := parseValues(values)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	r := rows[0]
	if r.Date.String() != "2026-08-01" || r.Institution != "Garanti Bankası" {
		t.Fatalf("bad row: %+v", r)
	}
	if r.TLAmount.String() != "3500" || r.USDAmount.String() != "100" || r.USDRate.String() != "35" {
		t.Fatalf("bad amounts: %+v", r)
	}
}

func TestParseValuesNumericAndCommaCells(t *testing.T) {
	// Sheets returns float64 cells for numeric columns and the rate may
	// carry a decimal comma when the sheet locale is Turkish.
	values := [][]any{
		{"2026-08-01", "Akbank", float64(700), float64(20), "35,5"},
	}
	rows, err := parseValues(values)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if rows[0].TLAmount.String() != "700" || rows[0].USDRate.String() != "35.5" {
		t.Fatalf("bad values: %+v", rows[0])
	}
}

func TestParseValuesSkipsBlankRows(t *testing.T) {
	rows, err := parseValues([][]any{
		{"Date", "Institution", "TL Amount", "USD Amount", "USD Rate"},
		{"", "", "", "", ""},
		{"2026-08-01", "Akbank", "700", "20", "35"},
	})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected blank row skipped, got %d rows", len(rows))
	}
}

func TestParseValuesBadDateIsAnError(t *testing.T) {
	_, err := parseValues([][]any{{"August 1", "Akbank", "700", "20", "35"}})
	if err == nil {
		t.Fatalf("expected error for unparseable date")
	}
}

func TestParseValuesEmpty(t *testing.T) {
	rows, err := parseValues(nil)
	if err != nil || len(rows) != 0 {
		t.Fatalf("expected empty result, got %v rows err=%v", rows, err)
	}
}
