package http

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"tally/internal/core"
	"tally/internal/storage"
)

func (s *Server) handleExpenses(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleListExpenses(w, r)
	case http.MethodPost:
		s.handleCreateExpense(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleListExpenses renders the filtered, sorted expense listing.
func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := parseFilter(q)
	order := core.SortOrder(strings.TrimSpace(q.Get("sort")))
	now := time.Now()

	all, err := s.store.ListExpenses(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Expense list failed", "error", err)
		http.Error(w, "failed to load expenses", http.StatusInternalServerError)
		return
	}
	categories, err := s.store.ListExpenseCategories(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Category list failed", "error", err)
	}

	filtered := core.FilterExpenses(all, filter, now)
	core.SortExpenses(filtered, order)
	total := core.Total(filtered)

	cur := s.currency(r)
	type row struct {
		ID            int64
		Date          string
		Category      string
		Amount        string
		Note          string
		PaymentMethod string
	}
	data := struct {
		Currency   string
		Error      string
		Notice     string
		Filter     core.ExpenseFilter
		Sort       string
		Categories []string
		Rows       []row
		Count      int
		Total      string
		ExportURL  string
	}{
		Currency:   cur,
		Error:      q.Get("error"),
		Notice:     q.Get("notice"),
		Filter:     filter,
		Sort:       string(order),
		Categories: categories,
		Count:      len(filtered),
		Total:      formatAmount(cur, total.Cents),
		ExportURL:  "/export?" + q.Encode(),
	}
	for _, e := range filtered {
		data.Rows = append(data.Rows, row{
			ID:            e.ID,
			Date:          e.Date.Format("2006-01-02"),
			Category:      e.Category,
			Amount:        formatAmount(cur, e.Amount.Cents),
			Note:          e.Note,
			PaymentMethod: e.PaymentMethod,
		})
	}

	s.render(w, r, "expenses.html", data)
}

// expenseFromForm builds a validated expense from form fields.
func expenseFromForm(form url.Values) (core.Expense, error) {
	date, err := parseDate(form.Get("date"))
	if err != nil {
		return core.Expense{}, core.ErrInvalidDate
	}
	cents, err := core.ParseDecimalToCents(form.Get("amount"))
	if err != nil {
		return core.Expense{}, err
	}
	payment := strings.ToLower(sanitizeInput(form.Get("payment_method")))
	if payment == "" {
		payment = core.DefaultPaymentMethod
	}

	e := core.Expense{
		Date:          date,
		Category:      sanitizeInput(form.Get("category")),
		Amount:        core.Money{Cents: cents},
		Note:          sanitizeInput(form.Get("note")),
		PaymentMethod: payment,
	}
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}
	return e, nil
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		slog.ErrorContext(r.Context(), "Parse form error", "error", err, "url", r.URL.Path)
		seeOther(w, r, "/expenses?error="+url.QueryEscape("invalid form data"))
		return
	}

	e, err := expenseFromForm(r.Form)
	if err != nil {
		seeOther(w, r, "/expenses?error="+url.QueryEscape(err.Error()))
		return
	}

	if _, err := s.store.CreateExpense(r.Context(), e); err != nil {
		slog.ErrorContext(r.Context(), "Expense create failed", "error", err,
			"category", e.Category, "amount_cents", e.Amount.Cents)
		http.Error(w, "failed to save expense", http.StatusInternalServerError)
		return
	}
	seeOther(w, r, "/expenses")
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		seeOther(w, r, "/expenses?error="+url.QueryEscape("invalid form data"))
		return
	}

	id, err := parseID(r.Form.Get("id"))
	if err != nil {
		seeOther(w, r, "/expenses?error="+url.QueryEscape("invalid expense id"))
		return
	}
	e, err := expenseFromForm(r.Form)
	if err != nil {
		seeOther(w, r, "/expenses?error="+url.QueryEscape(err.Error()))
		return
	}
	e.ID = id

	if err := s.store.UpdateExpense(r.Context(), e); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			http.Error(w, "expense not found", http.StatusNotFound)
			return
		}
		slog.ErrorContext(r.Context(), "Expense update failed", "error", err, "id", id)
		http.Error(w, "failed to update expense", http.StatusInternalServerError)
		return
	}
	seeOther(w, r, "/expenses")
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		seeOther(w, r, "/expenses?error="+url.QueryEscape("invalid form data"))
		return
	}

	id, err := parseID(r.Form.Get("id"))
	if err != nil {
		seeOther(w, r, "/expenses?error="+url.QueryEscape("invalid expense id"))
		return
	}
	if err := s.store.DeleteExpense(r.Context(), id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			http.Error(w, "expense not found", http.StatusNotFound)
			return
		}
		slog.ErrorContext(r.Context(), "Expense delete failed", "error", err, "id", id)
		http.Error(w, "failed to delete expense", http.StatusInternalServerError)
		return
	}
	seeOther(w, r, "/expenses")
}

// handleClearExpenses deletes every expense row. Other entities are
// untouched.
func (s *Server) handleClearExpenses(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	n, err := s.store.DeleteAllExpenses(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Expense clear failed", "error", err)
		http.Error(w, "failed to clear expenses", http.StatusInternalServerError)
		return
	}
	seeOther(w, r, "/expenses?notice="+url.QueryEscape(
		"deleted "+strconv.FormatInt(n, 10)+" expenses"))
}
