package http

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"tally/internal/core"
	"tally/internal/storage"
)

func (s *Server) handleBudgets(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleListBudgets(w, r)
	case http.MethodPost:
		s.handleUpsertBudget(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleListBudgets renders the current month's budgets with their
// utilization tiers.
func (s *Server) handleListBudgets(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	statuses, err := s.reports.BudgetStatuses(r.Context(), now)
	if err != nil {
		slog.ErrorContext(r.Context(), "Budget load failed", "error", err)
		http.Error(w, "failed to load budgets", http.StatusInternalServerError)
		return
	}
	categories, err := s.store.ListExpenseCategories(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Category list failed", "error", err)
	}

	cur := s.currency(r)
	today := core.Today(now)
	type row struct {
		ID        int64
		Category  string
		Amount    string
		Spent     string
		Remaining string
		Percent   string
		Tier      string
	}
	data := struct {
		Currency   string
		Error      string
		Notice     string
		Month      string
		MonthNum   int
		Year       int
		Categories []string
		Rows       []row
	}{
		Currency:   cur,
		Error:      r.URL.Query().Get("error"),
		Notice:     r.URL.Query().Get("notice"),
		Month:      today.Format("January 2006"),
		MonthNum:   int(today.Month()),
		Year:       today.Year(),
		Categories: categories,
	}
	for _, st := range statuses {
		data.Rows = append(data.Rows, row{
			ID:        st.Budget.ID,
			Category:  st.Budget.Category,
			Amount:    formatAmount(cur, st.Budget.Amount.Cents),
			Spent:     formatAmount(cur, st.Spent.Cents),
			Remaining: formatAmount(cur, st.Remaining.Cents),
			Percent:   strconv.FormatFloat(st.Percent, 'f', 1, 64),
			Tier:      string(st.Tier),
		})
	}

	s.render(w, r, "budgets.html", data)
}

// handleUpsertBudget creates or replaces the budget for the posted
// (category, month, year). Month and year default to the current ones.
func (s *Server) handleUpsertBudget(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		seeOther(w, r, "/budgets?error="+url.QueryEscape("invalid form data"))
		return
	}

	today := core.Today(time.Now())
	month := int(today.Month())
	year := today.Year()
	if v := r.Form.Get("month"); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil {
			seeOther(w, r, "/budgets?error="+url.QueryEscape(core.ErrInvalidMonth.Error()))
			return
		}
		month = m
	}
	if v := r.Form.Get("year"); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil {
			seeOther(w, r, "/budgets?error="+url.QueryEscape(core.ErrInvalidYear.Error()))
			return
		}
		year = y
	}
	cents, err := core.ParseDecimalToCents(r.Form.Get("amount"))
	if err != nil {
		seeOther(w, r, "/budgets?error="+url.QueryEscape(err.Error()))
		return
	}

	b := core.Budget{
		Category: sanitizeInput(r.Form.Get("category")),
		Amount:   core.Money{Cents: cents},
		Month:    month,
		Year:     year,
	}
	if err := b.Validate(); err != nil {
		seeOther(w, r, "/budgets?error="+url.QueryEscape(err.Error()))
		return
	}

	if _, err := s.store.UpsertBudget(r.Context(), b); err != nil {
		slog.ErrorContext(r.Context(), "Budget upsert failed", "error", err,
			"category", b.Category, "month", b.Month, "year", b.Year)
		http.Error(w, "failed to save budget", http.StatusInternalServerError)
		return
	}
	seeOther(w, r, "/budgets")
}

func (s *Server) handleDeleteBudget(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		seeOther(w, r, "/budgets?error="+url.QueryEscape("invalid form data"))
		return
	}

	id, err := parseID(r.Form.Get("id"))
	if err != nil {
		seeOther(w, r, "/budgets?error="+url.QueryEscape("invalid budget id"))
		return
	}
	if err := s.store.DeleteBudget(r.Context(), id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			http.Error(w, "budget not found", http.StatusNotFound)
			return
		}
		slog.ErrorContext(r.Context(), "Budget delete failed", "error", err, "id", id)
		http.Error(w, "failed to delete budget", http.StatusInternalServerError)
		return
	}
	seeOther(w, r, "/budgets")
}
