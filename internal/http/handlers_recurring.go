package http

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"tally/internal/core"
	"tally/internal/storage"
)

func (s *Server) handleRecurring(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleListRecurring(w, r)
	case http.MethodPost:
		s.handleCreateRecurring(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleListRecurring(w http.ResponseWriter, r *http.Request) {
	items, err := s.store.ListRecurringExpenses(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Recurring list failed", "error", err)
		http.Error(w, "failed to load recurring expenses", http.StatusInternalServerError)
		return
	}

	cur := s.currency(r)
	type row struct {
		ID        int64
		Name      string
		Category  string
		Amount    string
		Frequency string
		NextDue   string
		IsActive  bool
	}
	data := struct {
		Currency string
		Error    string
		Notice   string
		Rows     []row
	}{
		Currency: cur,
		Error:    r.URL.Query().Get("error"),
		Notice:   r.URL.Query().Get("notice"),
	}
	for _, re := range items {
		data.Rows = append(data.Rows, row{
			ID:        re.ID,
			Name:      re.Name,
			Category:  re.Category,
			Amount:    formatAmount(cur, re.Amount.Cents),
			Frequency: string(re.Frequency),
			NextDue:   re.NextDue.Format("2006-01-02"),
			IsActive:  re.IsActive,
		})
	}

	s.render(w, r, "recurring.html", data)
}

func recurringFromForm(form url.Values) (core.RecurringExpense, error) {
	nextDue, err := parseDate(form.Get("next_due"))
	if err != nil {
		return core.RecurringExpense{}, core.ErrInvalidDate
	}
	cents, err := core.ParseDecimalToCents(form.Get("amount"))
	if err != nil {
		return core.RecurringExpense{}, err
	}

	re := core.RecurringExpense{
		Name:      sanitizeInput(form.Get("name")),
		Category:  sanitizeInput(form.Get("category")),
		Amount:    core.Money{Cents: cents},
		Frequency: core.Frequency(strings.ToLower(strings.TrimSpace(form.Get("frequency")))),
		NextDue:   nextDue,
		IsActive:  true,
	}
	if err := re.Validate(); err != nil {
		return core.RecurringExpense{}, err
	}
	return re, nil
}

func (s *Server) handleCreateRecurring(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		seeOther(w, r, "/recurring?error="+url.QueryEscape("invalid form data"))
		return
	}

	re, err := recurringFromForm(r.Form)
	if err != nil {
		seeOther(w, r, "/recurring?error="+url.QueryEscape(err.Error()))
		return
	}

	if _, err := s.store.CreateRecurringExpense(r.Context(), re); err != nil {
		slog.ErrorContext(r.Context(), "Recurring create failed", "error", err, "name", re.Name)
		http.Error(w, "failed to save recurring expense", http.StatusInternalServerError)
		return
	}
	seeOther(w, r, "/recurring")
}

// handleToggleRecurring flips the active flag. Paused templates stay
// listed but are never counted anywhere.
func (s *Server) handleToggleRecurring(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		seeOther(w, r, "/recurring?error="+url.QueryEscape("invalid form data"))
		return
	}

	id, err := parseID(r.Form.Get("id"))
	if err != nil {
		seeOther(w, r, "/recurring?error="+url.QueryEscape("invalid recurring id"))
		return
	}
	if err := s.store.ToggleRecurringExpense(r.Context(), id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			http.Error(w, "recurring expense not found", http.StatusNotFound)
			return
		}
		slog.ErrorContext(r.Context(), "Recurring toggle failed", "error", err, "id", id)
		http.Error(w, "failed to toggle recurring expense", http.StatusInternalServerError)
		return
	}
	seeOther(w, r, "/recurring")
}

func (s *Server) handleDeleteRecurring(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		seeOther(w, r, "/recurring?error="+url.QueryEscape("invalid form data"))
		return
	}

	id, err := parseID(r.Form.Get("id"))
	if err != nil {
		seeOther(w, r, "/recurring?error="+url.QueryEscape("invalid recurring id"))
		return
	}
	if err := s.store.DeleteRecurringExpense(r.Context(), id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			http.Error(w, "recurring expense not found", http.StatusNotFound)
			return
		}
		slog.ErrorContext(r.Context(), "Recurring delete failed", "error", err, "id", id)
		http.Error(w, "failed to delete recurring expense", http.StatusInternalServerError)
		return
	}
	seeOther(w, r, "/recurring")
}
