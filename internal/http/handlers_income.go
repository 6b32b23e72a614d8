package http

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"tally/internal/core"
	"tally/internal/storage"
)

func (s *Server) handleIncome(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleListIncome(w, r)
	case http.MethodPost:
		s.handleCreateIncome(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleListIncome renders the income summary page: totals, per-source
// breakdown, monthly trend, and the row listing.
func (s *Server) handleListIncome(w http.ResponseWriter, r *http.Request) {
	now := time.Now()

	summary, err := s.reports.Income(r.Context(), now)
	if err != nil {
		slog.ErrorContext(r.Context(), "Income summary failed", "error", err)
		http.Error(w, "failed to load income", http.StatusInternalServerError)
		return
	}
	incomes, err := s.store.ListIncomes(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Income list failed", "error", err)
		http.Error(w, "failed to load income", http.StatusInternalServerError)
		return
	}

	cur := s.currency(r)
	type row struct {
		ID     int64
		Date   string
		Source string
		Amount string
		Note   string
	}
	type sourceRow struct {
		Name   string
		Amount string
	}
	data := struct {
		Currency   string
		Error      string
		Total      string
		MonthTotal string
		BySource   []sourceRow
		Trend      []trendRow
		Rows       []row
	}{
		Currency:   cur,
		Error:      r.URL.Query().Get("error"),
		Total:      formatAmount(cur, summary.Total.Cents),
		MonthTotal: formatAmount(cur, summary.MonthTotal.Cents),
	}
	for _, src := range summary.BySource {
		data.BySource = append(data.BySource, sourceRow{
			Name:   src.Name,
			Amount: formatAmount(cur, src.Amount.Cents),
		})
	}
	for _, b := range summary.Trend {
		data.Trend = append(data.Trend, trendRow{
			Label:  b.Label,
			Income: formatAmount(cur, b.Total.Cents),
		})
	}
	for _, in := range incomes {
		data.Rows = append(data.Rows, row{
			ID:     in.ID,
			Date:   in.Date.Format("2006-01-02"),
			Source: in.Source,
			Amount: formatAmount(cur, in.Amount.Cents),
			Note:   in.Note,
		})
	}

	s.render(w, r, "income.html", data)
}

func incomeFromForm(form url.Values) (core.Income, error) {
	date, err := parseDate(form.Get("date"))
	if err != nil {
		return core.Income{}, core.ErrInvalidDate
	}
	cents, err := core.ParseDecimalToCents(form.Get("amount"))
	if err != nil {
		return core.Income{}, err
	}

	in := core.Income{
		Date:   date,
		Source: sanitizeInput(form.Get("source")),
		Amount: core.Money{Cents: cents},
		Note:   sanitizeInput(form.Get("note")),
	}
	if err := in.Validate(); err != nil {
		return core.Income{}, err
	}
	return in, nil
}

func (s *Server) handleCreateIncome(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		seeOther(w, r, "/income?error="+url.QueryEscape("invalid form data"))
		return
	}

	in, err := incomeFromForm(r.Form)
	if err != nil {
		seeOther(w, r, "/income?error="+url.QueryEscape(err.Error()))
		return
	}

	if _, err := s.store.CreateIncome(r.Context(), in); err != nil {
		slog.ErrorContext(r.Context(), "Income create failed", "error", err,
			"source", in.Source, "amount_cents", in.Amount.Cents)
		http.Error(w, "failed to save income", http.StatusInternalServerError)
		return
	}
	seeOther(w, r, "/income")
}

func (s *Server) handleUpdateIncome(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		seeOther(w, r, "/income?error="+url.QueryEscape("invalid form data"))
		return
	}

	id, err := parseID(r.Form.Get("id"))
	if err != nil {
		seeOther(w, r, "/income?error="+url.QueryEscape("invalid income id"))
		return
	}
	in, err := incomeFromForm(r.Form)
	if err != nil {
		seeOther(w, r, "/income?error="+url.QueryEscape(err.Error()))
		return
	}
	in.ID = id

	if err := s.store.UpdateIncome(r.Context(), in); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			http.Error(w, "income not found", http.StatusNotFound)
			return
		}
		slog.ErrorContext(r.Context(), "Income update failed", "error", err, "id", id)
		http.Error(w, "failed to update income", http.StatusInternalServerError)
		return
	}
	seeOther(w, r, "/income")
}

func (s *Server) handleDeleteIncome(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		seeOther(w, r, "/income?error="+url.QueryEscape("invalid form data"))
		return
	}

	id, err := parseID(r.Form.Get("id"))
	if err != nil {
		seeOther(w, r, "/income?error="+url.QueryEscape("invalid income id"))
		return
	}
	if err := s.store.DeleteIncome(r.Context(), id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			http.Error(w, "income not found", http.StatusNotFound)
			return
		}
		slog.ErrorContext(r.Context(), "Income delete failed", "error", err, "id", id)
		http.Error(w, "failed to delete income", http.StatusInternalServerError)
		return
	}
	seeOther(w, r, "/income")
}
