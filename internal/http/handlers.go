package http

import (
	"log/slog"
	"net/http"

	"varlik/internal/core"
)

// entryView models the balance entry form and its htmx partial.
type entryView struct {
	Date        string
	Rate        string
	Slots       []slotField
	Message     string
	MessageKind string
}

type slotField struct {
	Key        string
	Label      string
	IsExtra    bool
	ExtraIndex int
	ExtraName  string
	TL         string
	USD        string
}

func buildEntryView(state *core.ConversionState, date, message, kind string) entryView {
	view := entryView{
		Date:        date,
		Rate:        state.Rate().String(),
		Message:     message,
		MessageKind: kind,
	}
	for _, slot := range core.AllSlots() {
		b := state.Balance(slot)
		field := slotField{
			Key: slot.FieldKey(),
			TL:  fieldValue(b.TL),
			USD: fieldValue(b.USD),
		}
		switch slot.Kind {
		case core.SlotExtra:
			field.IsExtra = true
			field.ExtraIndex = slot.Index
			field.ExtraName = state.ExtraLabel(slot.Index)
			field.Label = "Extra"
		case core.SlotPension:
			field.Label = core.PensionLabel
		default:
			field.Label = slot.Institution
		}
		view.Slots = append(view.Slots, field)
	}
	return view
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		slog.ErrorContext(r.Context(), "Template execution failed", "template", name, "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	state := core.NewConversionState()
	state.SetRate(s.defaultRate)
	s.render(w, r, "index.html", buildEntryView(state, core.Today().String(), "", ""))
}

// handleConvert re-derives the paired field of the single edited input and
// returns the refreshed form fields.
func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	state, err := stateFromForm(r.PostForm, s.defaultRate)
	if err != nil {
		slog.WarnContext(r.Context(), "Rejected conversion input", "error", err)
		http.Error(w, "Invalid amount", http.StatusBadRequest)
		return
	}
	if err := applyEdit(state, r.PostForm.Get("edited"), r.PostForm); err != nil {
		slog.WarnContext(r.Context(), "Rejected conversion input", "error", err)
		http.Error(w, "Invalid amount", http.StatusBadRequest)
		return
	}

	s.render(w, r, "entry_fields.html", buildEntryView(state, r.PostForm.Get("date"), "", ""))
}

func (s *Server) handleSaveSnapshot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	dateField := r.PostForm.Get("date")
	date, err := core.ParseDate(dateField)
	if err != nil {
		state, stateErr := stateFromForm(r.PostForm, s.defaultRate)
		if stateErr != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}
		s.render(w, r, "entry_fields.html", buildEntryView(state, dateField, "Enter a valid date before saving.", "error"))
		return
	}

	state, err := stateFromForm(r.PostForm, s.defaultRate)
	if err != nil {
		slog.WarnContext(r.Context(), "Rejected snapshot input", "error", err)
		http.Error(w, "Invalid amount", http.StatusBadRequest)
		return
	}

	rows := state.FinalizeForSave(date)
	if len(rows) == 0 {
		s.render(w, r, "entry_fields.html", buildEntryView(state, dateField, "Nothing to save: no positive balances entered.", "warn"))
		return
	}

	if err := s.store.UpsertForDate(r.Context(), date, rows); err != nil {
		slog.ErrorContext(r.Context(), "Snapshot save failed", "date", date, "error", err)
		s.render(w, r, "entry_fields.html", buildEntryView(state, dateField, "Save failed. Please try again.", "error"))
		return
	}

	slog.InfoContext(r.Context(), "Snapshot saved", "date", date, "rows", len(rows))
	s.invalidateReport()

	state.Reset()
	w.Header().Set("HX-Trigger", "snapshot-changed")
	s.render(w, r, "entry_fields.html", buildEntryView(state, dateField, "Saved "+date.String()+".", "ok"))
}

func (s *Server) handleDeleteSnapshot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	date, err := core.ParseDate(r.PostForm.Get("date"))
	if err != nil {
		http.Error(w, "Invalid date", http.StatusBadRequest)
		return
	}

	if err := s.store.DeleteForDate(r.Context(), date); err != nil {
		slog.ErrorContext(r.Context(), "Snapshot delete failed", "date", date, "error", err)
		http.Error(w, "Delete failed", http.StatusInternalServerError)
		return
	}

	slog.InfoContext(r.Context(), "Snapshot deleted", "date", date)
	s.invalidateReport()

	w.Header().Set("HX-Trigger", "snapshot-changed")
	s.handleReportFresh(w, r)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if data, ok := s.reportCache.Get(reportCacheKey); ok {
		s.render(w, r, "report.html", data)
		return
	}
	s.handleReportFresh(w, r)
}

// handleReportFresh rebuilds the report from storage, caching the result.
// A failed load is logged and rendered as a degraded, uncached report so
// the page stays usable while the backend is down.
func (s *Server) handleReportFresh(w http.ResponseWriter, r *http.Request) {
	rows, err := s.store.LoadAll(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Ledger load failed", "error", err)
		s.render(w, r, "report.html", reportData{LoadFailed: true})
		return
	}

	data := buildReportData(rows)
	s.reportCache.Set(reportCacheKey, data)
	s.render(w, r, "report.html", data)
}
