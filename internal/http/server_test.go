package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"varlik/internal/core"
	"varlik/internal/ledger"
	"varlik/internal/ledger/memory"
)

func newTestServer(t *testing.T, store ledger.Store) *Server {
	t.Helper()
	s := NewServer(":0", store, decimal.NewFromInt(35))
	t.Cleanup(func() {
		_ = s.Shutdown(context.Background())
	})
	return s
}

func postForm(t *testing.T, s *Server, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	s.Server.Handler.ServeHTTP(rec, req)
	return rec
}

func getPath(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	s.Server.Handler.ServeHTTP(rec, req)
	return rec
}

func TestIndexRendersEntryForm(t *testing.T) {
	s := newTestServer(t, memory.New())

	rec := getPath(t, s, "/")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"tl_Akbank", "usd_Akbank", "tl_bes", "name_extra_1", `value="35"`} {
		if !strings.Contains(body, want) {
			t.Errorf("index body missing %q", want)
		}
	}
}

func TestConvertDerivesPairedField(t *testing.T) {
	s := newTestServer(t, memory.New())

	form := url.Values{}
	form.Set("date", "2026-08-01")
	form.Set("rate", "35")
	form.Set("tl_Akbank", "3500")
	form.Set("edited", "tl_Akbank")

	rec := postForm(t, s, "/ui/convert", form)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `name="usd_Akbank" value="100"`) {
		t.Errorf("expected derived USD value 100 in body:\n%s", rec.Body.String())
	}
}

func TestConvertRateChangeRecomputesUSD(t *testing.T) {
	s := newTestServer(t, memory.New())

	form := url.Values{}
	form.Set("date", "2026-08-01")
	form.Set("rate", "50")
	form.Set("tl_Akbank", "3500")
	form.Set("edited", "rate")

	rec := postForm(t, s, "/ui/convert", form)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `name="usd_Akbank" value="70"`) {
		t.Errorf("expected recomputed USD value 70 in body:\n%s", rec.Body.String())
	}
}

func TestConvertRejectsMalformedAmount(t *testing.T) {
	s := newTestServer(t, memory.New())

	form := url.Values{}
	form.Set("tl_Akbank", "abc")
	form.Set("edited", "tl_Akbank")

	rec := postForm(t, s, "/ui/convert", form)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestSaveSnapshotPersistsRows(t *testing.T) {
	store := memory.New()
	s := newTestServer(t, store)

	form := url.Values{}
	form.Set("date", "2026-08-01")
	form.Set("rate", "35")
	form.Set("tl_Akbank", "700")

	rec := postForm(t, s, "/snapshots", form)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := rec.Header().Get("HX-Trigger"); got != "snapshot-changed" {
		t.Errorf("expected HX-Trigger snapshot-changed, got %q", got)
	}

	rows, err := store.LoadAll(context.Background())
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	r := rows[0]
	if r.Institution != "Akbank" || !r.TLAmount.Equal(decimal.NewFromInt(700)) || !r.USDAmount.Equal(decimal.NewFromInt(20)) {
		t.Errorf("unexpected row %+v", r)
	}

	// The form comes back reset for the next entry.
	if strings.Contains(rec.Body.String(), `name="tl_Akbank" value="700"`) {
		t.Error("expected amounts cleared after save")
	}
}

func TestSaveSnapshotReplacesExistingDate(t *testing.T) {
	store := memory.New()
	s := newTestServer(t, store)

	first := url.Values{}
	first.Set("date", "2026-08-01")
	first.Set("rate", "35")
	first.Set("tl_Akbank", "700")
	first.Set("tl_Midas", "350")
	postForm(t, s, "/snapshots", first)

	second := url.Values{}
	second.Set("date", "2026-08-01")
	second.Set("rate", "35")
	second.Set("tl_Chase", "70")
	postForm(t, s, "/snapshots", second)

	rows, err := store.LoadAll(context.Background())
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(rows) != 1 || rows[0].Institution != "Chase" {
		t.Fatalf("expected the second save to replace the first, got %+v", rows)
	}
}

func TestSaveEmptyFormWritesNothing(t *testing.T) {
	store := memory.New()
	s := newTestServer(t, store)

	form := url.Values{}
	form.Set("date", "2026-08-01")
	form.Set("rate", "35")

	rec := postForm(t, s, "/snapshots", form)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Nothing to save") {
		t.Error("expected a nothing-to-save notice")
	}

	rows, err := store.LoadAll(context.Background())
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected no rows, got %d", len(rows))
	}
}

func TestDeleteSnapshotRemovesDate(t *testing.T) {
	store := memory.New()
	store.Seed([]core.LedgerRow{
		row(t, "2026-07-01", "Akbank", "700"),
		row(t, "2026-08-01", "Chase", "70"),
	})
	s := newTestServer(t, store)

	form := url.Values{}
	form.Set("date", "2026-07-01")
	rec := postForm(t, s, "/snapshots/delete", form)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rows, err := store.LoadAll(context.Background())
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(rows) != 1 || rows[0].Date.String() != "2026-08-01" {
		t.Fatalf("expected only the other date to survive, got %+v", rows)
	}
}

func TestReportShowsCardsAndDates(t *testing.T) {
	store := memory.New()
	store.Seed([]core.LedgerRow{
		row(t, "2026-07-01", "Akbank", "700"),
		row(t, "2026-08-01", "Garanti Bankası", "3500"),
		row(t, "2026-08-01", "BES", "1000"),
	})
	s := newTestServer(t, store)

	rec := getPath(t, s, "/ui/report")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"1 AUGUST 2026", "1 JULY 2026", "Garanti Bankası", "BES:", "2026-07-01"} {
		if !strings.Contains(body, want) {
			t.Errorf("report body missing %q", want)
		}
	}
	// Pension rows stay out of the main institution lines.
	if strings.Contains(body, `<span>BES</span>`) {
		t.Error("pension rendered as a main card line")
	}
}

func TestReportCacheInvalidatedBySave(t *testing.T) {
	store := memory.New()
	s := newTestServer(t, store)

	if body := getPath(t, s, "/ui/report").Body.String(); !strings.Contains(body, "No snapshots saved yet") {
		t.Fatalf("expected empty report, got:\n%s", body)
	}

	form := url.Values{}
	form.Set("date", "2026-08-01")
	form.Set("rate", "35")
	form.Set("tl_Akbank", "700")
	postForm(t, s, "/snapshots", form)

	if body := getPath(t, s, "/ui/report").Body.String(); !strings.Contains(body, "1 AUGUST 2026") {
		t.Errorf("expected refreshed report after save, got:\n%s", body)
	}
}

type failingStore struct{}

func (failingStore) LoadAll(context.Context) ([]core.LedgerRow, error) {
	return nil, errors.New("backend down")
}

func (failingStore) UpsertForDate(context.Context, core.Date, []core.LedgerRow) error {
	return errors.New("backend down")
}

func (failingStore) DeleteForDate(context.Context, core.Date) error {
	return errors.New("backend down")
}

func TestReportDegradesWhenLoadFails(t *testing.T) {
	s := newTestServer(t, failingStore{})

	rec := getPath(t, s, "/ui/report")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Could not load saved snapshots") {
		t.Error("expected a degraded-report notice")
	}
}

func TestHealthEndpoints(t *testing.T) {
	s := newTestServer(t, memory.New())

	for _, path := range []string{"/healthz", "/readyz"} {
		if rec := getPath(t, s, path); rec.Code != http.StatusOK {
			t.Errorf("%s: expected 200, got %d", path, rec.Code)
		}
	}
}

func row(t *testing.T, date, institution, tl string) core.LedgerRow {
	t.Helper()
	d, err := core.ParseDate(date)
	if err != nil {
		t.Fatalf("ParseDate(%q): %v", date, err)
	}
	amount, err := decimal.NewFromString(tl)
	if err != nil {
		t.Fatalf("NewFromString(%q): %v", tl, err)
	}
	rate := decimal.NewFromInt(35)
	return core.LedgerRow{
		Date:        d,
		Institution: institution,
		TLAmount:    amount,
		USDAmount:   amount.Div(rate),
		USDRate:     rate,
	}
}
