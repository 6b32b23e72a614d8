package http

import (
	"net/http"
	"net/url"
	"time"

	"tally/internal/core"
)

// currencyChoices returns the selectable display symbols.
func currencyChoices() []string {
	return core.CurrencySymbols
}

// handleSetCurrency stores the chosen display symbol in a cookie. The
// value is URL-escaped because most symbols are not ASCII.
func (s *Server) handleSetCurrency(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		seeOther(w, r, "/")
		return
	}

	symbol := r.Form.Get("symbol")
	if !core.ValidCurrencySymbol(symbol) {
		seeOther(w, r, "/")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     currencyCookie,
		Value:    url.QueryEscape(symbol),
		Path:     "/",
		Expires:  time.Now().Add(30 * 24 * time.Hour),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	target := r.Referer()
	if target == "" {
		target = "/"
	}
	seeOther(w, r, target)
}
