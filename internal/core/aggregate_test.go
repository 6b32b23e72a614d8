package core

import (
	"testing"
	"time"
)

func TestTotal(t *testing.T) {
	expenses := []Expense{
		exp(NewDate(2026, time.March, 1), "a", 100, "", "cash"),
		exp(NewDate(2026, time.March, 2), "b", 250, "", "cash"),
		exp(NewDate(2026, time.March, 3), "a", 3, "", "cash"),
	}
	if got := Total(expenses).Cents; got != 353 {
		t.Errorf("Total = %d, want 353", got)
	}
	if got := Total(nil).Cents; got != 0 {
		t.Errorf("Total(nil) = %d, want 0", got)
	}

	// Summation on cents is exact in any order.
	reversed := []Expense{expenses[2], expenses[1], expenses[0]}
	if Total(reversed).Cents != Total(expenses).Cents {
		t.Error("Total depends on input order")
	}
}

func TestCategoryTotals(t *testing.T) {
	expenses := []Expense{
		exp(NewDate(2026, time.March, 1), "groceries", 100, "", "cash"),
		exp(NewDate(2026, time.March, 2), "transport", 200, "", "cash"),
		exp(NewDate(2026, time.March, 3), "groceries", 50, "", "card"),
	}
	got := CategoryTotals(expenses)
	if len(got) != 2 {
		t.Fatalf("CategoryTotals returned %d groups, want 2", len(got))
	}
	// First-encountered order.
	if got[0].Name != "groceries" || got[0].Amount.Cents != 150 {
		t.Errorf("group 0 = %+v, want groceries/150", got[0])
	}
	if got[1].Name != "transport" || got[1].Amount.Cents != 200 {
		t.Errorf("group 1 = %+v, want transport/200", got[1])
	}
}

func TestTopCategories(t *testing.T) {
	expenses := []Expense{
		exp(NewDate(2026, time.March, 1), "a", 100, "", "cash"),
		exp(NewDate(2026, time.March, 1), "b", 300, "", "cash"),
		exp(NewDate(2026, time.March, 1), "c", 200, "", "cash"),
		exp(NewDate(2026, time.March, 1), "d", 300, "", "cash"),
	}

	got := TopCategories(expenses, 3)
	if len(got) != 3 {
		t.Fatalf("TopCategories returned %d, want 3", len(got))
	}
	// b and d tie at 300; stable sort keeps b (encountered first) ahead.
	if got[0].Name != "b" || got[1].Name != "d" || got[2].Name != "c" {
		t.Errorf("order = %s,%s,%s, want b,d,c", got[0].Name, got[1].Name, got[2].Name)
	}

	if got := TopCategories(expenses, 10); len(got) != 4 {
		t.Errorf("n larger than groups returned %d, want 4", len(got))
	}
}

func TestCategoryBreakdown(t *testing.T) {
	expenses := []Expense{
		exp(NewDate(2026, time.March, 1), "groceries", 3000, "", "cash"),
		exp(NewDate(2026, time.March, 2), "groceries", 1000, "", "cash"),
		exp(NewDate(2026, time.March, 3), "transport", 1000, "", "cash"),
	}
	got := CategoryBreakdown(expenses)
	if len(got) != 2 {
		t.Fatalf("CategoryBreakdown returned %d, want 2", len(got))
	}
	g := got[0]
	if g.Name != "groceries" {
		t.Fatalf("largest group = %s, want groceries", g.Name)
	}
	if g.Total.Cents != 4000 || g.Count != 2 || g.Average.Cents != 2000 {
		t.Errorf("groceries stat = %+v", g)
	}
	if g.Percent != 80 {
		t.Errorf("groceries percent = %v, want 80", g.Percent)
	}
	if got[1].Percent != 20 {
		t.Errorf("transport percent = %v, want 20", got[1].Percent)
	}

	if empty := CategoryBreakdown(nil); len(empty) != 0 {
		t.Errorf("CategoryBreakdown(nil) returned %d groups", len(empty))
	}
}

func TestMonthlyTrend(t *testing.T) {
	// January now: a 2-month window must roll back into December of the
	// previous year.
	now := time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC)
	expenses := []Expense{
		exp(NewDate(2024, time.December, 10), "a", 100, "", "cash"),
		exp(NewDate(2024, time.December, 24), "a", 50, "", "cash"),
		exp(NewDate(2025, time.January, 2), "a", 200, "", "cash"),
		exp(NewDate(2024, time.November, 30), "a", 999, "", "cash"), // outside window
	}

	got := MonthlyTrend(expenses, 2, now)
	if len(got) != 2 {
		t.Fatalf("MonthlyTrend returned %d buckets, want 2", len(got))
	}
	if got[0].Label != "Dec 2024" || got[0].Total.Cents != 150 {
		t.Errorf("bucket 0 = %s/%d, want Dec 2024/150", got[0].Label, got[0].Total.Cents)
	}
	if got[1].Label != "Jan 2025" || got[1].Total.Cents != 200 {
		t.Errorf("bucket 1 = %s/%d, want Jan 2025/200", got[1].Label, got[1].Total.Cents)
	}
}

func TestMonthlyTrendEmptyMonths(t *testing.T) {
	now := time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)
	got := MonthlyTrend(nil, 6, now)
	if len(got) != 6 {
		t.Fatalf("MonthlyTrend returned %d buckets, want 6", len(got))
	}
	for _, b := range got {
		if b.Total.Cents != 0 {
			t.Errorf("bucket %s = %d, want 0", b.Label, b.Total.Cents)
		}
	}
	if got[0].Label != "Jan 2026" || got[5].Label != "Jun 2026" {
		t.Errorf("window = %s..%s, want Jan 2026..Jun 2026", got[0].Label, got[5].Label)
	}
}

func TestTrendWindowStart(t *testing.T) {
	now := time.Date(2025, time.February, 20, 0, 0, 0, 0, time.UTC)
	got := TrendWindowStart(6, now)
	want := NewDate(2024, time.September, 1)
	if !got.Equal(want) {
		t.Errorf("TrendWindowStart = %v, want %v", got, want)
	}
}

func TestAverages(t *testing.T) {
	now := time.Date(2026, time.March, 10, 8, 0, 0, 0, time.UTC)

	t.Run("empty input", func(t *testing.T) {
		got := Averages(nil, now)
		if got.Daily.Cents != 0 || got.Weekly.Cents != 0 || got.Monthly.Cents != 0 {
			t.Errorf("Averages(nil) = %+v, want zeros", got)
		}
	})

	t.Run("ten day span", func(t *testing.T) {
		expenses := []Expense{
			exp(NewDate(2026, time.March, 1), "a", 500, "", "cash"),
			exp(NewDate(2026, time.March, 5), "a", 500, "", "cash"),
		}
		// earliest Mar 1, today Mar 10: 10 tracked days, 1000 cents total.
		got := Averages(expenses, now)
		if got.Daily.Cents != 100 {
			t.Errorf("Daily = %d, want 100", got.Daily.Cents)
		}
		if got.Weekly.Cents != 700 {
			t.Errorf("Weekly = %d, want 700", got.Weekly.Cents)
		}
		if got.Monthly.Cents != 3000 {
			t.Errorf("Monthly = %d, want 3000", got.Monthly.Cents)
		}
	})

	t.Run("single day clamps to one", func(t *testing.T) {
		expenses := []Expense{
			exp(NewDate(2026, time.March, 10), "a", 450, "", "cash"),
		}
		got := Averages(expenses, now)
		if got.Daily.Cents != 450 {
			t.Errorf("Daily = %d, want 450", got.Daily.Cents)
		}
	})

	t.Run("weekly scales before dividing", func(t *testing.T) {
		// 100 cents over 3 days: daily truncates to 33 but weekly must be
		// 100*7/3 = 233, not 33*7 = 231.
		expenses := []Expense{
			exp(NewDate(2026, time.March, 8), "a", 100, "", "cash"),
		}
		got := Averages(expenses, now)
		if got.Weekly.Cents != 233 {
			t.Errorf("Weekly = %d, want 233", got.Weekly.Cents)
		}
	})
}

func TestIncomeSourceTotals(t *testing.T) {
	incomes := []Income{
		{Date: NewDate(2026, time.March, 1), Source: "salary", Amount: Money{Cents: 500000}},
		{Date: NewDate(2026, time.March, 15), Source: "freelance", Amount: Money{Cents: 80000}},
		{Date: NewDate(2026, time.April, 1), Source: "salary", Amount: Money{Cents: 500000}},
	}
	got := IncomeSourceTotals(incomes)
	if len(got) != 2 {
		t.Fatalf("IncomeSourceTotals returned %d, want 2", len(got))
	}
	if got[0].Name != "salary" || got[0].Amount.Cents != 1000000 {
		t.Errorf("group 0 = %+v", got[0])
	}
}

func TestNetSavings(t *testing.T) {
	got := NetSavings(Money{Cents: 500000}, Money{Cents: 320000})
	if got.Cents != 180000 {
		t.Errorf("NetSavings = %d, want 180000", got.Cents)
	}
	if NetSavings(Money{Cents: 100}, Money{Cents: 300}).Cents != -200 {
		t.Error("NetSavings should go negative when expenses exceed income")
	}
}
