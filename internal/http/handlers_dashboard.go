package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"
)

type trendRow struct {
	Label   string
	Expense string
	Income  string
}

// handleDashboard renders the landing page: current-month totals, net
// savings, the trailing trend, top categories, and recent expenses.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	view, err := s.reports.Dashboard(r.Context(), time.Now())
	if err != nil {
		slog.ErrorContext(r.Context(), "Dashboard load failed", "error", err)
		http.Error(w, "failed to load dashboard", http.StatusInternalServerError)
		return
	}

	cur := s.currency(r)

	type categoryRow struct {
		Name   string
		Amount string
	}
	type expenseRow struct {
		Date     string
		Category string
		Amount   string
		Note     string
	}
	data := struct {
		Currency      string
		Symbols       []string
		MonthExpenses string
		MonthIncome   string
		NetSavings    string
		NetNegative   bool
		Trend         []trendRow
		TopCategories []categoryRow
		Recent        []expenseRow
	}{
		Currency:      cur,
		Symbols:       currencyChoices(),
		MonthExpenses: formatAmount(cur, view.MonthExpenses.Cents),
		MonthIncome:   formatAmount(cur, view.MonthIncome.Cents),
		NetSavings:    formatAmount(cur, view.NetSavings.Cents),
		NetNegative:   view.NetSavings.Cents < 0,
	}
	for _, p := range view.Trend {
		data.Trend = append(data.Trend, trendRow{
			Label:   p.Label,
			Expense: formatAmount(cur, p.Expense.Cents),
			Income:  formatAmount(cur, p.Income.Cents),
		})
	}
	for _, c := range view.TopCategories {
		data.TopCategories = append(data.TopCategories, categoryRow{
			Name:   c.Name,
			Amount: formatAmount(cur, c.Amount.Cents),
		})
	}
	for _, e := range view.Recent {
		data.Recent = append(data.Recent, expenseRow{
			Date:     e.Date.Format("2006-01-02"),
			Category: e.Category,
			Amount:   formatAmount(cur, e.Amount.Cents),
			Note:     e.Note,
		})
	}

	s.render(w, r, "dashboard.html", data)
}

// handleTrendJSON returns the dashboard trend series for chart rendering.
func (s *Server) handleTrendJSON(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	view, err := s.reports.Dashboard(r.Context(), time.Now())
	if err != nil {
		slog.ErrorContext(r.Context(), "Trend load failed", "error", err)
		http.Error(w, "failed to load trend", http.StatusInternalServerError)
		return
	}

	type point struct {
		Label   string  `json:"label"`
		Expense float64 `json:"expense"`
		Income  float64 `json:"income"`
	}
	points := make([]point, 0, len(view.Trend))
	for _, p := range view.Trend {
		points = append(points, point{
			Label:   p.Label,
			Expense: float64(p.Expense.Cents) / 100,
			Income:  float64(p.Income.Cents) / 100,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(points)
}

// handleCategoryStatsJSON returns all-time category totals keyed by name.
func (s *Server) handleCategoryStatsJSON(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	totals, err := s.reports.CategoryChart(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Category stats load failed", "error", err)
		http.Error(w, "failed to load category stats", http.StatusInternalServerError)
		return
	}

	payload := make(map[string]float64, len(totals))
	for _, c := range totals {
		payload[c.Name] = float64(c.Amount.Cents) / 100
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(payload)
}

// handleCountStatsJSON returns expense counts over total, weekly, and
// monthly windows.
func (s *Server) handleCountStatsJSON(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	counts, err := s.reports.Counts(r.Context(), time.Now())
	if err != nil {
		slog.ErrorContext(r.Context(), "Count stats load failed", "error", err)
		http.Error(w, "failed to load count stats", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(struct {
		Total      int64 `json:"total"`
		Last7Days  int64 `json:"last_7_days"`
		Last30Days int64 `json:"last_30_days"`
	}{counts.Total, counts.Last7Days, counts.Last30Days})
}
