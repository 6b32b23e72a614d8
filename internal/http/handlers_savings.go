package http

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"tally/internal/core"
	"tally/internal/storage"
)

func (s *Server) handleSavings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleListSavingsGoals(w, r)
	case http.MethodPost:
		s.handleCreateSavingsGoal(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleListSavingsGoals(w http.ResponseWriter, r *http.Request) {
	overview, err := s.reports.Savings(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Savings load failed", "error", err)
		http.Error(w, "failed to load savings goals", http.StatusInternalServerError)
		return
	}

	cur := s.currency(r)
	type row struct {
		ID        int64
		Name      string
		Target    string
		Current   string
		Deadline  string
		Percent   string
		Completed bool
	}
	data := struct {
		Currency     string
		Error        string
		Notice       string
		TotalTarget  string
		TotalCurrent string
		Rows         []row
	}{
		Currency:     cur,
		Error:        r.URL.Query().Get("error"),
		Notice:       r.URL.Query().Get("notice"),
		TotalTarget:  formatAmount(cur, overview.TotalTarget.Cents),
		TotalCurrent: formatAmount(cur, overview.TotalCurrent.Cents),
	}
	for _, p := range overview.Goals {
		deadline := ""
		if !p.Goal.Deadline.IsZero() {
			deadline = p.Goal.Deadline.Format("2006-01-02")
		}
		data.Rows = append(data.Rows, row{
			ID:        p.Goal.ID,
			Name:      p.Goal.Name,
			Target:    formatAmount(cur, p.Goal.TargetAmount.Cents),
			Current:   formatAmount(cur, p.Goal.CurrentAmount.Cents),
			Deadline:  deadline,
			Percent:   strconv.FormatFloat(p.Percent, 'f', 1, 64),
			Completed: p.Completed,
		})
	}

	s.render(w, r, "savings.html", data)
}

// savingsGoalFromForm builds a validated goal. The current amount and the
// deadline are optional.
func savingsGoalFromForm(form url.Values) (core.SavingsGoal, error) {
	target, err := core.ParseDecimalToCents(form.Get("target_amount"))
	if err != nil {
		return core.SavingsGoal{}, err
	}
	current, err := core.ParseNonNegativeCents(form.Get("current_amount"))
	if err != nil {
		return core.SavingsGoal{}, err
	}

	g := core.SavingsGoal{
		Name:          sanitizeInput(form.Get("name")),
		TargetAmount:  core.Money{Cents: target},
		CurrentAmount: core.Money{Cents: current},
	}
	if v := form.Get("deadline"); v != "" {
		deadline, err := parseDate(v)
		if err != nil {
			return core.SavingsGoal{}, core.ErrInvalidDate
		}
		g.Deadline = deadline
	}
	if err := g.Validate(); err != nil {
		return core.SavingsGoal{}, err
	}
	return g, nil
}

func (s *Server) handleCreateSavingsGoal(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		seeOther(w, r, "/savings?error="+url.QueryEscape("invalid form data"))
		return
	}

	g, err := savingsGoalFromForm(r.Form)
	if err != nil {
		seeOther(w, r, "/savings?error="+url.QueryEscape(err.Error()))
		return
	}

	if _, err := s.store.CreateSavingsGoal(r.Context(), g); err != nil {
		slog.ErrorContext(r.Context(), "Savings goal create failed", "error", err, "name", g.Name)
		http.Error(w, "failed to save goal", http.StatusInternalServerError)
		return
	}
	seeOther(w, r, "/savings")
}

func (s *Server) handleUpdateSavingsGoal(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		seeOther(w, r, "/savings?error="+url.QueryEscape("invalid form data"))
		return
	}

	id, err := parseID(r.Form.Get("id"))
	if err != nil {
		seeOther(w, r, "/savings?error="+url.QueryEscape("invalid goal id"))
		return
	}
	g, err := savingsGoalFromForm(r.Form)
	if err != nil {
		seeOther(w, r, "/savings?error="+url.QueryEscape(err.Error()))
		return
	}
	g.ID = id

	if err := s.store.UpdateSavingsGoal(r.Context(), g); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			http.Error(w, "goal not found", http.StatusNotFound)
			return
		}
		slog.ErrorContext(r.Context(), "Savings goal update failed", "error", err, "id", id)
		http.Error(w, "failed to update goal", http.StatusInternalServerError)
		return
	}
	seeOther(w, r, "/savings")
}

// handleAddToSavingsGoal records a contribution: a strictly positive
// amount added atomically to the goal's current total.
func (s *Server) handleAddToSavingsGoal(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		seeOther(w, r, "/savings?error="+url.QueryEscape("invalid form data"))
		return
	}

	id, err := parseID(r.Form.Get("id"))
	if err != nil {
		seeOther(w, r, "/savings?error="+url.QueryEscape("invalid goal id"))
		return
	}
	cents, err := core.ParseDecimalToCents(r.Form.Get("amount"))
	if err != nil {
		seeOther(w, r, "/savings?error="+url.QueryEscape(err.Error()))
		return
	}

	if err := s.store.AddToSavingsGoal(r.Context(), id, cents); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			http.Error(w, "goal not found", http.StatusNotFound)
			return
		}
		slog.ErrorContext(r.Context(), "Savings contribution failed", "error", err, "id", id)
		http.Error(w, "failed to add to goal", http.StatusInternalServerError)
		return
	}
	seeOther(w, r, "/savings")
}

func (s *Server) handleDeleteSavingsGoal(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		seeOther(w, r, "/savings?error="+url.QueryEscape("invalid form data"))
		return
	}

	id, err := parseID(r.Form.Get("id"))
	if err != nil {
		seeOther(w, r, "/savings?error="+url.QueryEscape("invalid goal id"))
		return
	}
	if err := s.store.DeleteSavingsGoal(r.Context(), id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			http.Error(w, "goal not found", http.StatusNotFound)
			return
		}
		slog.ErrorContext(r.Context(), "Savings goal delete failed", "error", err, "id", id)
		http.Error(w, "failed to delete goal", http.StatusInternalServerError)
		return
	}
	seeOther(w, r, "/savings")
}
