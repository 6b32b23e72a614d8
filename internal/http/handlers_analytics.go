package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"
)

// handleAnalytics renders the breakdown page. Category and payment
// tables respect the active filter; the trend and the averages always
// cover the full record set.
func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	q := r.URL.Query()
	filter := parseFilter(q)
	view, err := s.reports.Analytics(r.Context(), filter, time.Now())
	if err != nil {
		slog.ErrorContext(r.Context(), "Analytics load failed", "error", err)
		http.Error(w, "failed to load analytics", http.StatusInternalServerError)
		return
	}
	categories, err := s.store.ListExpenseCategories(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Category list failed", "error", err)
	}

	cur := s.currency(r)
	type categoryRow struct {
		Name    string
		Total   string
		Count   int
		Average string
		Percent string
	}
	type amountRow struct {
		Name   string
		Amount string
	}
	data := struct {
		Currency       string
		Filter         string
		Category       string
		Categories     []string
		Total          string
		Count          int
		Breakdown      []categoryRow
		PaymentTotals  []amountRow
		Trend          []trendRow
		DailyAverage   string
		WeeklyAverage  string
		MonthlyAverage string
	}{
		Currency:       cur,
		Filter:         string(filter.DateFilter),
		Category:       filter.Category,
		Categories:     categories,
		Total:          formatAmount(cur, view.Total.Cents),
		Count:          view.Count,
		DailyAverage:   formatAmount(cur, view.Averages.Daily.Cents),
		WeeklyAverage:  formatAmount(cur, view.Averages.Weekly.Cents),
		MonthlyAverage: formatAmount(cur, view.Averages.Monthly.Cents),
	}
	for _, c := range view.Categories {
		data.Breakdown = append(data.Breakdown, categoryRow{
			Name:    c.Name,
			Total:   formatAmount(cur, c.Total.Cents),
			Count:   c.Count,
			Average: formatAmount(cur, c.Average.Cents),
			Percent: strconv.FormatFloat(c.Percent, 'f', 1, 64),
		})
	}
	for _, p := range view.PaymentTotals {
		data.PaymentTotals = append(data.PaymentTotals, amountRow{
			Name:   p.Name,
			Amount: formatAmount(cur, p.Amount.Cents),
		})
	}
	for _, b := range view.Trend {
		data.Trend = append(data.Trend, trendRow{
			Label:   b.Label,
			Expense: formatAmount(cur, b.Total.Cents),
		})
	}

	s.render(w, r, "analytics.html", data)
}
