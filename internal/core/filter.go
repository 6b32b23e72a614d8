package core

import (
	"sort"
	"strings"
	"time"
)

const (
	DateFilterNone       DateFilter = ""
	DateFilterLast7Days  DateFilter = "last_7_days"
	DateFilterLast30Days DateFilter = "last_30_days"
	DateFilterThisMonth  DateFilter = "this_month"
	DateFilterLastMonth  DateFilter = "last_month"
	DateFilterCustom     DateFilter = "custom"
)

const (
	SortDateDesc    SortOrder = "date_desc"
	SortDateAsc     SortOrder = "date_asc"
	SortAmountDesc  SortOrder = "amount_desc"
	SortAmountAsc   SortOrder = "amount_asc"
	SortCategoryAsc SortOrder = "category_asc"
)

type (
	// DateFilter selects a predefined or custom date window.
	DateFilter string

	// SortOrder selects the listing order. It is orthogonal to filtering
	// and never affects aggregation.
	SortOrder string

	// ExpenseFilter holds user-supplied filter criteria. StartDate and
	// EndDate stay raw form values: an unparseable or inverted custom
	// range makes the date criterion inapplicable rather than an error.
	ExpenseFilter struct {
		Category      string
		DateFilter    DateFilter
		StartDate     string // YYYY-MM-DD
		EndDate       string // YYYY-MM-DD
		PaymentMethod string
		Search        string
	}
)

// IsZero reports whether no criterion is set.
func (f ExpenseFilter) IsZero() bool {
	return f.Category == "" && f.DateFilter == DateFilterNone &&
		f.PaymentMethod == "" && f.Search == ""
}

// dateBounds resolves the filter's date window relative to now. Both
// bounds are inclusive; a zero bound means unbounded on that side.
// ok=false means the date criterion does not apply.
func (f ExpenseFilter) dateBounds(now time.Time) (from, to time.Time, ok bool) {
	today := Today(now)
	switch f.DateFilter {
	case DateFilterLast7Days:
		return today.AddDate(0, 0, -7), time.Time{}, true
	case DateFilterLast30Days:
		return today.AddDate(0, 0, -30), time.Time{}, true
	case DateFilterThisMonth:
		return NewDate(today.Year(), today.Month(), 1), time.Time{}, true
	case DateFilterLastMonth:
		firstOfThis := NewDate(today.Year(), today.Month(), 1)
		firstOfLast := firstOfThis.AddDate(0, -1, 0)
		return firstOfLast, firstOfThis.AddDate(0, 0, -1), true
	case DateFilterCustom:
		start, err1 := time.Parse("2006-01-02", f.StartDate)
		end, err2 := time.Parse("2006-01-02", f.EndDate)
		if err1 != nil || err2 != nil || start.After(end) {
			// Malformed or inverted range: criterion silently ignored.
			return time.Time{}, time.Time{}, false
		}
		return Today(start), Today(end), true
	default:
		return time.Time{}, time.Time{}, false
	}
}

// Predicate compiles the criteria into a single AND-combined match
// function. Date bounds are resolved once against now.
func (f ExpenseFilter) Predicate(now time.Time) func(Expense) bool {
	from, to, dateApplies := f.dateBounds(now)
	search := strings.ToLower(strings.TrimSpace(f.Search))

	return func(e Expense) bool {
		if f.Category != "" && e.Category != f.Category {
			return false
		}
		if f.PaymentMethod != "" && e.PaymentMethod != f.PaymentMethod {
			return false
		}
		if dateApplies {
			if !from.IsZero() && e.Date.Before(from) {
				return false
			}
			if !to.IsZero() && e.Date.After(to) {
				return false
			}
		}
		if search != "" && !strings.Contains(strings.ToLower(e.Note), search) {
			return false
		}
		return true
	}
}

// FilterExpenses returns the subset of expenses matching the filter.
func FilterExpenses(expenses []Expense, f ExpenseFilter, now time.Time) []Expense {
	match := f.Predicate(now)
	out := make([]Expense, 0, len(expenses))
	for _, e := range expenses {
		if match(e) {
			out = append(out, e)
		}
	}
	return out
}

// SortExpenses orders expenses in place. Unknown values fall back to
// date descending, the listing default.
func SortExpenses(expenses []Expense, order SortOrder) {
	switch order {
	case SortDateAsc:
		sort.SliceStable(expenses, func(i, j int) bool {
			return expenses[i].Date.Before(expenses[j].Date)
		})
	case SortAmountDesc:
		sort.SliceStable(expenses, func(i, j int) bool {
			return expenses[i].Amount.Cents > expenses[j].Amount.Cents
		})
	case SortAmountAsc:
		sort.SliceStable(expenses, func(i, j int) bool {
			return expenses[i].Amount.Cents < expenses[j].Amount.Cents
		})
	case SortCategoryAsc:
		sort.SliceStable(expenses, func(i, j int) bool {
			return expenses[i].Category < expenses[j].Category
		})
	default:
		sort.SliceStable(expenses, func(i, j int) bool {
			return expenses[i].Date.After(expenses[j].Date)
		})
	}
}
