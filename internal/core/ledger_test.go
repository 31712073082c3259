package core

import "testing"

func row(date, inst, tl, usd, rate string) LedgerRow {
	d, err := ParseDate(date)
	if err != nil {
		panic(err)
	}
	return LedgerRow{Date: d, Institution: inst, TLAmount: dec(tl), USDAmount: dec(usd), USDRate: dec(rate)}
}

func TestSplitPension(t *testing.T) {
	rows := []LedgerRow{
		row("2026-08-01", "Akbank", "100", "2", "50"),
		row("2026-08-01", "BES", "500", "10", "50"),
		row("2026-07-01", "Chase", "200", "4", "50"),
	}
	main, pension := SplitPension(rows)
	if len(main) != 2 || len(pension) != 1 {
		t.Fatalf("split %d/%d, want 2/1", len(main), len(pension))
	}
	if pension[0].Institution != PensionLabel {
		t.Fatalf("wrong pension row: %+v", pension[0])
	}
}

func TestTotalSeriesSumsAndOrders(t *testing.T) {
	rows := []LedgerRow{
		row("2026-08-01", "Akbank", "100", "2", "50"),
		row("2026-07-01", "Chase", "200", "4", "50"),
		row("2026-08-01", "Midas", "50", "1", "50"),
	}
	series := TotalSeries(rows)
	if len(series) != 2 {
		t.Fatalf("expected 2 points, got %d", len(series))
	}
	if series[0].Date.String() != "2026-07-01" {
		t.Fatalf("series not ordered by date: %v", series[0].Date)
	}
	if !series[1].TL.Equal(dec("150")) || !series[1].USD.Equal(dec("3")) {
		t.Fatalf("bad sums: %+v", series[1])
	}
}

func TestBuildMonthCards(t *testing.T) {
	rows := []LedgerRow{
		row("2026-08-01", "Garanti Bankası", "3500", "100", "35"),
		row("2026-08-01", "Akbank", "700", "20", "35"),
		row("2026-08-01", "BES", "7000", "200", "35"),
		row("2026-07-01", "Chase", "200", "4", "50"),
	}
	cards := BuildMonthCards(rows)
	if len(cards) != 2 {
		t.Fatalf("expected 2 cards, got %d", len(cards))
	}

	july := cards[0]
	if july.Header != "1 JULY 2026" {
		t.Fatalf("bad header: %q", july.Header)
	}
	if july.HasPension {
		t.Fatalf("july should have no pension line")
	}

	aug := cards[1]
	if len(aug.Lines) != 2 {
		t.Fatalf("expected 2 main lines, got %d", len(aug.Lines))
	}
	if !aug.TotalTL.Equal(dec("4200")) || !aug.TotalUSD.Equal(dec("120")) {
		t.Fatalf("bad totals: TL=%v USD=%v", aug.TotalTL, aug.TotalUSD)
	}
	if !aug.Rate.Equal(dec("35")) {
		t.Fatalf("bad rate: %v", aug.Rate)
	}
	if !aug.HasPension || !aug.PensionTL.Equal(dec("7000")) || !aug.PensionUSD.Equal(dec("200")) {
		t.Fatalf("bad pension line: %+v", aug)
	}
}

func TestMonthCardRateFallsBackToRatio(t *testing.T) {
	rows := []LedgerRow{row("2026-08-01", "Akbank", "4000", "100", "0")}
	rows[0].USDRate = dec("0") // stored rate unusable
	cards := BuildMonthCards(rows)
	if !cards[0].Rate.Equal(dec("40")) {
		t.Fatalf("expected ratio fallback 40, got %v", cards[0].Rate)
	}
}

func TestLedgerRowValidate(t *testing.T) {
	cases := []struct {
		name string
		row  LedgerRow
		ok   bool
	}{
		{"valid", row("2026-08-01", "Akbank", "100", "2", "50"), true},
		{"empty institution", row("2026-08-01", " ", "100", "2", "50"), false},
		{"negative amount", row("2026-08-01", "Akbank", "-1", "2", "50"), false},
		{"zero rate", row("2026-08-01", "Akbank", "100", "2", "0"), false},
		{"zero date", LedgerRow{Institution: "Akbank", TLAmount: dec("1"), USDRate: dec("1")}, false},
	}
	for _, tc := range cases {
		err := tc.row.Validate()
		if tc.ok && err != nil {
			t.Fatalf("%s: unexpected error %v", tc.name, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
	}
}

func TestDates(t *testing.T) {
	rows := []LedgerRow{
		row("2026-08-01", "Akbank", "100", "2", "50"),
		row("2026-07-01", "Chase", "200", "4", "50"),
		row("2026-08-01", "BES", "1", "1", "50"),
	}
	dates := Dates(rows)
	if len(dates) != 2 || dates[0].String() != "2026-07-01" || dates[1].String() != "2026-08-01" {
		t.Fatalf("bad dates: %v", dates)
	}
}
