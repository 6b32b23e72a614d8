package core

// CurrencySymbols is the fixed set of selectable display symbols. The
// choice is cosmetic: stored amounts and computations never change.
var CurrencySymbols = []string{"$", "€", "£", "₹", "¥"}

// DefaultCurrencySymbol is used when no session preference is set.
const DefaultCurrencySymbol = "$"

// ValidCurrencySymbol reports whether s is one of the selectable symbols.
func ValidCurrencySymbol(s string) bool {
	for _, sym := range CurrencySymbols {
		if s == sym {
			return true
		}
	}
	return false
}
