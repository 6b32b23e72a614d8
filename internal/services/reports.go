// Package services composes record-store reads with the core derivation
// functions into the view payloads the presentation layer renders.
package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"tally/internal/core"
	"tally/internal/storage"
)

type (
	// TrendPoint pairs expense and income totals for one month bucket.
	TrendPoint struct {
		Label   string
		Expense core.Money
		Income  core.Money
	}

	DashboardView struct {
		MonthExpenses core.Money
		MonthIncome   core.Money
		NetSavings    core.Money
		Trend         []TrendPoint
		TopCategories []core.CategoryAmount
		Recent        []core.Expense
	}

	AnalyticsView struct {
		Total         core.Money
		Count         int
		Categories    []core.CategoryStat
		PaymentTotals []core.CategoryAmount
		Trend         []core.MonthBucket
		Averages      core.SpendingAverages
	}

	IncomeSummary struct {
		Total      core.Money
		MonthTotal core.Money
		BySource   []core.CategoryAmount
		Trend      []core.MonthBucket
	}

	// ExpenseCounts feeds the count chart: all-time plus trailing windows.
	ExpenseCounts struct {
		Total      int64
		Last7Days  int64
		Last30Days int64
	}
)

type Reports struct {
	store           *storage.Repository
	dashboardMonths int
	analyticsMonths int
}

func NewReports(store *storage.Repository, dashboardMonths, analyticsMonths int) *Reports {
	return &Reports{
		store:           store,
		dashboardMonths: dashboardMonths,
		analyticsMonths: analyticsMonths,
	}
}

// monthRange returns the inclusive [first day, last day] bounds of now's
// calendar month.
func monthRange(now time.Time) (time.Time, time.Time) {
	today := core.Today(now)
	first := core.NewDate(today.Year(), today.Month(), 1)
	return first, first.AddDate(0, 1, -1)
}

// Dashboard builds the landing-page payload. The trend series always
// covers the full record set inside its window, regardless of any
// page-level filter.
func (s *Reports) Dashboard(ctx context.Context, now time.Time) (DashboardView, error) {
	first, last := monthRange(now)
	windowStart := core.TrendWindowStart(s.dashboardMonths, now)

	var (
		monthExpenses, windowExpenses []core.Expense
		monthIncomes, windowIncomes   []core.Income
		recent                        []core.Expense
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		monthExpenses, err = s.store.ListExpensesBetween(gctx, first, last)
		return err
	})
	g.Go(func() (err error) {
		monthIncomes, err = s.store.ListIncomesBetween(gctx, first, last)
		return err
	})
	g.Go(func() (err error) {
		windowExpenses, err = s.store.ListExpensesBetween(gctx, windowStart, last)
		return err
	})
	g.Go(func() (err error) {
		windowIncomes, err = s.store.ListIncomesBetween(gctx, windowStart, last)
		return err
	})
	g.Go(func() (err error) {
		recent, err = s.store.ListExpenses(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return DashboardView{}, fmt.Errorf("load dashboard data: %w", err)
	}

	if len(recent) > 10 {
		recent = recent[:10]
	}

	expenseTotal := core.Total(monthExpenses)
	incomeTotal := core.TotalIncome(monthIncomes)

	view := DashboardView{
		MonthExpenses: expenseTotal,
		MonthIncome:   incomeTotal,
		NetSavings:    core.NetSavings(incomeTotal, expenseTotal),
		Trend: mergeTrends(
			core.MonthlyTrend(windowExpenses, s.dashboardMonths, now),
			core.MonthlyIncomeTrend(windowIncomes, s.dashboardMonths, now)),
		TopCategories: core.TopCategories(monthExpenses, 5),
		Recent:        recent,
	}

	slog.DebugContext(ctx, "Dashboard computed",
		"month_expenses_cents", expenseTotal.Cents,
		"month_income_cents", incomeTotal.Cents,
		"trend_buckets", len(view.Trend))
	return view, nil
}

func mergeTrends(expenses, incomes []core.MonthBucket) []TrendPoint {
	points := make([]TrendPoint, len(expenses))
	for i, b := range expenses {
		points[i] = TrendPoint{Label: b.Label, Expense: b.Total}
		if i < len(incomes) {
			points[i].Income = incomes[i].Total
		}
	}
	return points
}

// Analytics builds the full breakdown for the filtered expense set. The
// trend series and the tracked-days averages ignore the filter by design.
func (s *Reports) Analytics(ctx context.Context, filter core.ExpenseFilter, now time.Time) (AnalyticsView, error) {
	all, err := s.store.ListExpenses(ctx)
	if err != nil {
		return AnalyticsView{}, fmt.Errorf("list expenses: %w", err)
	}

	_, last := monthRange(now)
	windowExpenses, err := s.store.ListExpensesBetween(ctx, core.TrendWindowStart(s.analyticsMonths, now), last)
	if err != nil {
		return AnalyticsView{}, fmt.Errorf("list trend expenses: %w", err)
	}

	filtered := core.FilterExpenses(all, filter, now)
	return AnalyticsView{
		Total:         core.Total(filtered),
		Count:         len(filtered),
		Categories:    core.CategoryBreakdown(filtered),
		PaymentTotals: core.PaymentTotals(filtered),
		Trend:         core.MonthlyTrend(windowExpenses, s.analyticsMonths, now),
		Averages:      core.Averages(all, now),
	}, nil
}

// BudgetStatuses evaluates every budget of now's month against the
// month's expenses.
func (s *Reports) BudgetStatuses(ctx context.Context, now time.Time) ([]core.BudgetStatus, error) {
	first, last := monthRange(now)

	budgets, err := s.store.ListBudgets(ctx, int(first.Month()), first.Year())
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	expenses, err := s.store.ListExpensesBetween(ctx, first, last)
	if err != nil {
		return nil, fmt.Errorf("list month expenses: %w", err)
	}
	return core.EvaluateBudgets(budgets, expenses), nil
}

// Savings derives progress for all goals.
func (s *Reports) Savings(ctx context.Context) (core.SavingsOverview, error) {
	goals, err := s.store.ListSavingsGoals(ctx)
	if err != nil {
		return core.SavingsOverview{}, fmt.Errorf("list savings goals: %w", err)
	}
	return core.SavingsProgress(goals), nil
}

// Income builds the income summary with its monthly trend.
func (s *Reports) Income(ctx context.Context, now time.Time) (IncomeSummary, error) {
	first, last := monthRange(now)
	windowStart := core.TrendWindowStart(s.dashboardMonths, now)

	var all, window []core.Income
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		all, err = s.store.ListIncomes(gctx)
		return err
	})
	g.Go(func() (err error) {
		window, err = s.store.ListIncomesBetween(gctx, windowStart, last)
		return err
	})
	if err := g.Wait(); err != nil {
		return IncomeSummary{}, fmt.Errorf("load income data: %w", err)
	}

	var monthTotal core.Money
	for _, in := range all {
		if !in.Date.Before(first) && !in.Date.After(last) {
			monthTotal.Cents += in.Amount.Cents
		}
	}
	return IncomeSummary{
		Total:      core.TotalIncome(all),
		MonthTotal: monthTotal,
		BySource:   core.IncomeSourceTotals(all),
		Trend:      core.MonthlyIncomeTrend(window, s.dashboardMonths, now),
	}, nil
}

// CategoryChart returns all-time per-category totals for chart rendering.
func (s *Reports) CategoryChart(ctx context.Context) ([]core.CategoryAmount, error) {
	all, err := s.store.ListExpenses(ctx)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	return core.CategoryTotals(all), nil
}

// Counts returns expense counts over the total, weekly, and monthly
// windows.
func (s *Reports) Counts(ctx context.Context, now time.Time) (ExpenseCounts, error) {
	today := core.Today(now)

	var counts ExpenseCounts
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		counts.Total, err = s.store.CountExpenses(gctx)
		return err
	})
	g.Go(func() (err error) {
		counts.Last7Days, err = s.store.CountExpensesSince(gctx, today.AddDate(0, 0, -7))
		return err
	})
	g.Go(func() (err error) {
		counts.Last30Days, err = s.store.CountExpensesSince(gctx, today.AddDate(0, 0, -30))
		return err
	})
	if err := g.Wait(); err != nil {
		return ExpenseCounts{}, fmt.Errorf("count expenses: %w", err)
	}
	return counts, nil
}

// ImportCSV parses the upload and commits the well-formed rows as one
// batch. Malformed rows are skipped and counted; a storage failure rolls
// the whole batch back.
func (s *Reports) ImportCSV(ctx context.Context, r io.Reader) (core.ImportResult, error) {
	expenses, result, err := core.ImportExpenses(r)
	if err != nil {
		return core.ImportResult{}, fmt.Errorf("parse CSV: %w", err)
	}
	if len(expenses) > 0 {
		if err := s.store.CreateExpensesBatch(ctx, expenses); err != nil {
			return core.ImportResult{}, fmt.Errorf("commit import batch: %w", err)
		}
	}
	slog.InfoContext(ctx, "CSV import finished",
		"imported", result.Imported, "skipped", result.Skipped)
	return result, nil
}

// ExportCSV writes the filtered expense set, date descending, using the
// same predicate as the listing view.
func (s *Reports) ExportCSV(ctx context.Context, w io.Writer, filter core.ExpenseFilter, now time.Time) error {
	all, err := s.store.ListExpenses(ctx)
	if err != nil {
		return fmt.Errorf("list expenses: %w", err)
	}
	filtered := core.FilterExpenses(all, filter, now)
	core.SortExpenses(filtered, core.SortDateDesc)
	if err := core.ExportExpenses(w, filtered); err != nil {
		return fmt.Errorf("export expenses: %w", err)
	}
	return nil
}
