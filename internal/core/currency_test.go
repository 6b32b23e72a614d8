package core

import "testing"

func TestValidCurrencySymbol(t *testing.T) {
	for _, s := range CurrencySymbols {
		if !ValidCurrencySymbol(s) {
			t.Errorf("ValidCurrencySymbol(%q) = false", s)
		}
	}
	for _, s := range []string{"", "USD", "kr", "$ "} {
		if ValidCurrencySymbol(s) {
			t.Errorf("ValidCurrencySymbol(%q) = true", s)
		}
	}
}
