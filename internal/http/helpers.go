package http

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"tally/internal/core"
)

const currencyCookie = "currency"

// parseDate parses a form date in YYYY-MM-DD format to midnight UTC.
func parseDate(dateStr string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(dateStr))
	if err != nil {
		return time.Time{}, err
	}
	return core.Today(t), nil
}

// parseID reads a positive record id from a form value.
func parseID(v string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid id %q", v)
	}
	return id, nil
}

// formatAmount renders cents with the session currency symbol
// (e.g. "$12.34").
func formatAmount(symbol string, cents int64) string {
	neg := cents < 0
	if neg {
		cents = -cents
	}
	s := fmt.Sprintf("%s%d.%02d", symbol, cents/100, cents%100)
	if neg {
		return "-" + s
	}
	return s
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

// generateRequestID creates a unique request ID for tracing.
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

// currency reads the session display symbol from its cookie. The value
// is cosmetic and applied only at render time.
func (s *Server) currency(r *http.Request) string {
	c, err := r.Cookie(currencyCookie)
	if err != nil {
		return s.defaultCurrency
	}
	symbol, err := url.QueryUnescape(c.Value)
	if err != nil || !core.ValidCurrencySymbol(symbol) {
		return s.defaultCurrency
	}
	return symbol
}

// parseFilter extracts the listing filter criteria from query params.
// Raw date strings pass through: the core filter treats unparseable
// custom ranges as inapplicable.
func parseFilter(q url.Values) core.ExpenseFilter {
	return core.ExpenseFilter{
		Category:      strings.TrimSpace(q.Get("category")),
		DateFilter:    core.DateFilter(strings.TrimSpace(q.Get("date_filter"))),
		StartDate:     strings.TrimSpace(q.Get("start_date")),
		EndDate:       strings.TrimSpace(q.Get("end_date")),
		PaymentMethod: strings.TrimSpace(q.Get("payment_method")),
		Search:        strings.TrimSpace(q.Get("search")),
	}
}

// seeOther issues the POST-redirect-GET response used by every form
// handler.
func seeOther(w http.ResponseWriter, r *http.Request, location string) {
	http.Redirect(w, r, location, http.StatusSeeOther)
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	if s.templates == nil {
		slog.ErrorContext(r.Context(), "Templates not loaded", "template", name)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		slog.ErrorContext(r.Context(), "Template execution failed", "error", err, "template", name)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
