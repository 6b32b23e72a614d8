package core

import (
	"sort"
	"time"
)

type (
	// CategoryAmount is an amount keyed by category, source, or payment
	// method name.
	CategoryAmount struct {
		Name   string
		Amount Money
	}

	// CategoryStat is the full per-category breakdown for analytics.
	CategoryStat struct {
		Name    string
		Total   Money
		Count   int
		Average Money
		Percent float64 // share of the grand total
	}

	// MonthBucket is one calendar month of a trailing trend window.
	MonthBucket struct {
		Year  int
		Month time.Month
		Label string // "Jan 2006"
		Total Money
	}

	// SpendingAverages are rough per-period spending rates derived from
	// the tracked day span.
	SpendingAverages struct {
		Daily   Money
		Weekly  Money
		Monthly Money
	}
)

// Total sums expense amounts in cents. Exact regardless of input order.
func Total(expenses []Expense) Money {
	var cents int64
	for _, e := range expenses {
		cents += e.Amount.Cents
	}
	return Money{Cents: cents}
}

// TotalIncome sums income amounts in cents.
func TotalIncome(incomes []Income) Money {
	var cents int64
	for _, i := range incomes {
		cents += i.Amount.Cents
	}
	return Money{Cents: cents}
}

// sumBy groups cents by key, preserving first-encountered key order so
// downstream stable sorts have a deterministic tie order.
func sumBy(expenses []Expense, key func(Expense) string) []CategoryAmount {
	index := make(map[string]int, len(expenses))
	var out []CategoryAmount
	for _, e := range expenses {
		k := key(e)
		if i, ok := index[k]; ok {
			out[i].Amount.Cents += e.Amount.Cents
			continue
		}
		index[k] = len(out)
		out = append(out, CategoryAmount{Name: k, Amount: e.Amount})
	}
	return out
}

// CategoryTotals sums amounts per category in first-encountered order.
func CategoryTotals(expenses []Expense) []CategoryAmount {
	return sumBy(expenses, func(e Expense) string { return e.Category })
}

// PaymentTotals sums amounts per payment method in first-encountered order.
func PaymentTotals(expenses []Expense) []CategoryAmount {
	return sumBy(expenses, func(e Expense) string { return e.PaymentMethod })
}

// IncomeSourceTotals sums income amounts per source.
func IncomeSourceTotals(incomes []Income) []CategoryAmount {
	index := make(map[string]int, len(incomes))
	var out []CategoryAmount
	for _, i := range incomes {
		if j, ok := index[i.Source]; ok {
			out[j].Amount.Cents += i.Amount.Cents
			continue
		}
		index[i.Source] = len(out)
		out = append(out, CategoryAmount{Name: i.Source, Amount: i.Amount})
	}
	return out
}

// TopCategories returns up to n categories sorted descending by total.
// The sort is stable, so ties keep first-encountered order.
func TopCategories(expenses []Expense, n int) []CategoryAmount {
	totals := CategoryTotals(expenses)
	sort.SliceStable(totals, func(i, j int) bool {
		return totals[i].Amount.Cents > totals[j].Amount.Cents
	})
	if len(totals) > n {
		totals = totals[:n]
	}
	return totals
}

// CategoryBreakdown computes total, count, average, and share of the
// grand total per category, sorted descending by total.
func CategoryBreakdown(expenses []Expense) []CategoryStat {
	grand := Total(expenses).Cents

	index := make(map[string]int, len(expenses))
	var out []CategoryStat
	for _, e := range expenses {
		i, ok := index[e.Category]
		if !ok {
			i = len(out)
			index[e.Category] = i
			out = append(out, CategoryStat{Name: e.Category})
		}
		out[i].Total.Cents += e.Amount.Cents
		out[i].Count++
	}
	for i := range out {
		out[i].Average = Money{Cents: out[i].Total.Cents / int64(out[i].Count)}
		if grand > 0 {
			out[i].Percent = float64(out[i].Total.Cents) / float64(grand) * 100
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Total.Cents > out[j].Total.Cents
	})
	return out
}

// TrendWindowStart returns the first day of the oldest month in an
// n-month trailing window ending at now's month.
func TrendWindowStart(months int, now time.Time) time.Time {
	today := Today(now)
	// time.Date normalizes out-of-range months, so the window start rolls
	// back across year boundaries without explicit wrapping.
	return NewDate(today.Year(), today.Month()-time.Month(months-1), 1)
}

func newMonthBuckets(months int, now time.Time) []MonthBucket {
	today := Today(now)
	buckets := make([]MonthBucket, 0, months)
	for i := months - 1; i >= 0; i-- {
		first := NewDate(today.Year(), today.Month()-time.Month(i), 1)
		buckets = append(buckets, MonthBucket{
			Year:  first.Year(),
			Month: first.Month(),
			Label: first.Format("Jan 2006"),
		})
	}
	return buckets
}

func addToBuckets(buckets []MonthBucket, date time.Time, cents int64) {
	for i := range buckets {
		if date.Year() == buckets[i].Year && date.Month() == buckets[i].Month {
			buckets[i].Total.Cents += cents
			return
		}
	}
}

// MonthlyTrend buckets expense amounts into an n-month trailing window
// ending at now's month, one bucket per calendar month. Rows outside the
// window are ignored.
func MonthlyTrend(expenses []Expense, months int, now time.Time) []MonthBucket {
	buckets := newMonthBuckets(months, now)
	for _, e := range expenses {
		addToBuckets(buckets, e.Date, e.Amount.Cents)
	}
	return buckets
}

// MonthlyIncomeTrend is MonthlyTrend over income rows.
func MonthlyIncomeTrend(incomes []Income, months int, now time.Time) []MonthBucket {
	buckets := newMonthBuckets(months, now)
	for _, i := range incomes {
		addToBuckets(buckets, i.Date, i.Amount.Cents)
	}
	return buckets
}

// Averages derives daily/weekly/monthly spending rates from the span
// between the earliest expense date and today, inclusive. All three are
// zero when there are no expenses.
func Averages(expenses []Expense, now time.Time) SpendingAverages {
	if len(expenses) == 0 {
		return SpendingAverages{}
	}
	earliest := expenses[0].Date
	for _, e := range expenses[1:] {
		if e.Date.Before(earliest) {
			earliest = e.Date
		}
	}
	today := Today(now)
	days := int64(today.Sub(Today(earliest)).Hours()/24) + 1
	if days < 1 {
		days = 1
	}
	total := Total(expenses).Cents
	// Scale before dividing so weekly and monthly rates don't compound
	// the daily truncation.
	return SpendingAverages{
		Daily:   Money{Cents: total / days},
		Weekly:  Money{Cents: total * 7 / days},
		Monthly: Money{Cents: total * 30 / days},
	}
}

// NetSavings is month-scoped income minus expenses.
func NetSavings(income, expenses Money) Money {
	return income.Sub(expenses)
}
