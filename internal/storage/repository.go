// Package storage is the record store: a SQLite-backed repository with
// CRUD and range queries for the five entity kinds.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"tally/internal/core"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when an operation references a record id that
// does not exist.
var ErrNotFound = errors.New("record not found")

const dateFormat = "2006-01-02"

type Repository struct {
	db *sql.DB
}

func NewRepository(dbPath string) (*Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func parseDate(s string) time.Time {
	t, err := time.Parse(dateFormat, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func parseTimestamp(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// --- Expenses ---

func (r *Repository) CreateExpense(ctx context.Context, e core.Expense) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO expenses (date, category, amount_cents, note, payment_method, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		e.Date.Format(dateFormat), e.Category, e.Amount.Cents, e.Note, e.PaymentMethod,
		time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return 0, fmt.Errorf("insert expense: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("expense insert id: %w", err)
	}

	slog.InfoContext(ctx, "Expense saved",
		"id", id,
		"category", e.Category,
		"amount_cents", e.Amount.Cents,
		"date", e.Date.Format(dateFormat))
	return id, nil
}

// CreateExpensesBatch inserts all expenses in one transaction. Any
// failure rolls back the whole batch.
func (r *Repository) CreateExpensesBatch(ctx context.Context, expenses []core.Expense) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin batch insert: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO expenses (date, category, amount_cents, note, payment_method, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare batch insert: %w", err)
	}
	defer stmt.Close()

	createdAt := time.Now().UTC().Format(time.RFC3339)
	for _, e := range expenses {
		if _, err := stmt.ExecContext(ctx,
			e.Date.Format(dateFormat), e.Category, e.Amount.Cents, e.Note, e.PaymentMethod, createdAt); err != nil {
			return fmt.Errorf("insert batch expense: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit batch insert: %w", err)
	}

	slog.InfoContext(ctx, "Expense batch committed", "count", len(expenses))
	return nil
}

func (r *Repository) UpdateExpense(ctx context.Context, e core.Expense) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE expenses SET date = ?, category = ?, amount_cents = ?, note = ?, payment_method = ?
		 WHERE id = ?`,
		e.Date.Format(dateFormat), e.Category, e.Amount.Cents, e.Note, e.PaymentMethod, e.ID)
	if err != nil {
		return fmt.Errorf("update expense: %w", err)
	}
	return requireRow(res, "expense", e.ID)
}

func (r *Repository) DeleteExpense(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	return requireRow(res, "expense", id)
}

// DeleteAllExpenses bulk-clears the expense table only.
func (r *Repository) DeleteAllExpenses(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM expenses`)
	if err != nil {
		return 0, fmt.Errorf("delete all expenses: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete all expenses rows: %w", err)
	}
	slog.InfoContext(ctx, "All expenses cleared", "count", n)
	return n, nil
}

func (r *Repository) GetExpense(ctx context.Context, id int64) (core.Expense, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, date, category, amount_cents, note, payment_method, created_at
		 FROM expenses WHERE id = ?`, id)
	e, err := scanExpense(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Expense{}, fmt.Errorf("expense %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return core.Expense{}, fmt.Errorf("get expense: %w", err)
	}
	return e, nil
}

// ListExpenses returns all expenses ordered by date descending,
// newest-created first within a day.
func (r *Repository) ListExpenses(ctx context.Context) ([]core.Expense, error) {
	return r.queryExpenses(ctx,
		`SELECT id, date, category, amount_cents, note, payment_method, created_at
		 FROM expenses ORDER BY date DESC, id DESC`)
}

// ListExpensesBetween returns expenses with from <= date <= to.
func (r *Repository) ListExpensesBetween(ctx context.Context, from, to time.Time) ([]core.Expense, error) {
	return r.queryExpenses(ctx,
		`SELECT id, date, category, amount_cents, note, payment_method, created_at
		 FROM expenses WHERE date >= ? AND date <= ? ORDER BY date DESC, id DESC`,
		from.Format(dateFormat), to.Format(dateFormat))
}

// CountExpensesSince counts expenses with date >= from.
func (r *Repository) CountExpensesSince(ctx context.Context, from time.Time) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM expenses WHERE date >= ?`, from.Format(dateFormat)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count expenses since: %w", err)
	}
	return n, nil
}

func (r *Repository) CountExpenses(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM expenses`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count expenses: %w", err)
	}
	return n, nil
}

// ListExpenseCategories returns distinct categories, alphabetical.
func (r *Repository) ListExpenseCategories(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT category FROM expenses ORDER BY category`)
	if err != nil {
		return nil, fmt.Errorf("list expense categories: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}
	return out, nil
}

func (r *Repository) queryExpenses(ctx context.Context, query string, args ...any) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query expenses: %w", err)
	}
	defer rows.Close()

	var out []core.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w", err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanExpense(s scanner) (core.Expense, error) {
	var (
		e               core.Expense
		date, createdAt string
	)
	if err := s.Scan(&e.ID, &date, &e.Category, &e.Amount.Cents, &e.Note, &e.PaymentMethod, &createdAt); err != nil {
		return core.Expense{}, err
	}
	e.Date = parseDate(date)
	e.CreatedAt = parseTimestamp(createdAt)
	return e, nil
}

// --- Incomes ---

func (r *Repository) CreateIncome(ctx context.Context, in core.Income) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO incomes (date, source, amount_cents, note, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		in.Date.Format(dateFormat), in.Source, in.Amount.Cents, in.Note,
		time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return 0, fmt.Errorf("insert income: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("income insert id: %w", err)
	}
	slog.InfoContext(ctx, "Income saved", "id", id, "source", in.Source, "amount_cents", in.Amount.Cents)
	return id, nil
}

func (r *Repository) UpdateIncome(ctx context.Context, in core.Income) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE incomes SET date = ?, source = ?, amount_cents = ?, note = ? WHERE id = ?`,
		in.Date.Format(dateFormat), in.Source, in.Amount.Cents, in.Note, in.ID)
	if err != nil {
		return fmt.Errorf("update income: %w", err)
	}
	return requireRow(res, "income", in.ID)
}

func (r *Repository) DeleteIncome(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM incomes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete income: %w", err)
	}
	return requireRow(res, "income", id)
}

func (r *Repository) GetIncome(ctx context.Context, id int64) (core.Income, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, date, source, amount_cents, note, created_at FROM incomes WHERE id = ?`, id)
	in, err := scanIncome(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Income{}, fmt.Errorf("income %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return core.Income{}, fmt.Errorf("get income: %w", err)
	}
	return in, nil
}

func (r *Repository) ListIncomes(ctx context.Context) ([]core.Income, error) {
	return r.queryIncomes(ctx,
		`SELECT id, date, source, amount_cents, note, created_at
		 FROM incomes ORDER BY date DESC, id DESC`)
}

func (r *Repository) ListIncomesBetween(ctx context.Context, from, to time.Time) ([]core.Income, error) {
	return r.queryIncomes(ctx,
		`SELECT id, date, source, amount_cents, note, created_at
		 FROM incomes WHERE date >= ? AND date <= ? ORDER BY date DESC, id DESC`,
		from.Format(dateFormat), to.Format(dateFormat))
}

func (r *Repository) queryIncomes(ctx context.Context, query string, args ...any) ([]core.Income, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query incomes: %w", err)
	}
	defer rows.Close()

	var out []core.Income
	for rows.Next() {
		in, err := scanIncome(rows)
		if err != nil {
			return nil, fmt.Errorf("scan income: %w", err)
		}
		out = append(out, in)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate incomes: %w", err)
	}
	return out, nil
}

func scanIncome(s scanner) (core.Income, error) {
	var (
		in              core.Income
		date, createdAt string
	)
	if err := s.Scan(&in.ID, &date, &in.Source, &in.Amount.Cents, &in.Note, &createdAt); err != nil {
		return core.Income{}, err
	}
	in.Date = parseDate(date)
	in.CreatedAt = parseTimestamp(createdAt)
	return in, nil
}

// --- Budgets ---

// UpsertBudget inserts a budget or, when one already exists for the
// (category, month, year) triple, updates its amount in place. The
// uniqueness is enforced by the schema constraint, not by a pre-check,
// so concurrent upserts cannot race a duplicate into existence.
func (r *Repository) UpsertBudget(ctx context.Context, b core.Budget) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO budgets (category, amount_cents, month, year, created_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (category, month, year) DO UPDATE SET amount_cents = excluded.amount_cents
		 RETURNING id`,
		b.Category, b.Amount.Cents, b.Month, b.Year,
		time.Now().UTC().Format(time.RFC3339)).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("upsert budget: %w", err)
	}
	slog.InfoContext(ctx, "Budget upserted",
		"id", id, "category", b.Category, "month", b.Month, "year", b.Year,
		"amount_cents", b.Amount.Cents)
	return id, nil
}

func (r *Repository) DeleteBudget(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM budgets WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}
	return requireRow(res, "budget", id)
}

// ListBudgets returns the budgets for one month, alphabetical by category.
func (r *Repository) ListBudgets(ctx context.Context, month, year int) ([]core.Budget, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, category, amount_cents, month, year
		 FROM budgets WHERE month = ? AND year = ? ORDER BY category`, month, year)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	var out []core.Budget
	for rows.Next() {
		var b core.Budget
		if err := rows.Scan(&b.ID, &b.Category, &b.Amount.Cents, &b.Month, &b.Year); err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate budgets: %w", err)
	}
	return out, nil
}

// --- Savings goals ---

func (r *Repository) CreateSavingsGoal(ctx context.Context, g core.SavingsGoal) (int64, error) {
	deadline := ""
	if !g.Deadline.IsZero() {
		deadline = g.Deadline.Format(dateFormat)
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO savings_goals (name, target_cents, current_cents, deadline, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		g.Name, g.TargetAmount.Cents, g.CurrentAmount.Cents, deadline,
		time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return 0, fmt.Errorf("insert savings goal: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("savings goal insert id: %w", err)
	}
	slog.InfoContext(ctx, "Savings goal saved", "id", id, "name", g.Name, "target_cents", g.TargetAmount.Cents)
	return id, nil
}

func (r *Repository) UpdateSavingsGoal(ctx context.Context, g core.SavingsGoal) error {
	deadline := ""
	if !g.Deadline.IsZero() {
		deadline = g.Deadline.Format(dateFormat)
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE savings_goals SET name = ?, target_cents = ?, current_cents = ?, deadline = ?
		 WHERE id = ?`,
		g.Name, g.TargetAmount.Cents, g.CurrentAmount.Cents, deadline, g.ID)
	if err != nil {
		return fmt.Errorf("update savings goal: %w", err)
	}
	return requireRow(res, "savings goal", g.ID)
}

// AddToSavingsGoal increments the saved amount atomically in the store.
func (r *Repository) AddToSavingsGoal(ctx context.Context, id int64, cents int64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE savings_goals SET current_cents = current_cents + ? WHERE id = ?`, cents, id)
	if err != nil {
		return fmt.Errorf("add to savings goal: %w", err)
	}
	return requireRow(res, "savings goal", id)
}

func (r *Repository) DeleteSavingsGoal(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM savings_goals WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete savings goal: %w", err)
	}
	return requireRow(res, "savings goal", id)
}

func (r *Repository) GetSavingsGoal(ctx context.Context, id int64) (core.SavingsGoal, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, target_cents, current_cents, deadline, created_at
		 FROM savings_goals WHERE id = ?`, id)
	g, err := scanSavingsGoal(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.SavingsGoal{}, fmt.Errorf("savings goal %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return core.SavingsGoal{}, fmt.Errorf("get savings goal: %w", err)
	}
	return g, nil
}

func (r *Repository) ListSavingsGoals(ctx context.Context) ([]core.SavingsGoal, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, target_cents, current_cents, deadline, created_at
		 FROM savings_goals ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list savings goals: %w", err)
	}
	defer rows.Close()

	var out []core.SavingsGoal
	for rows.Next() {
		g, err := scanSavingsGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("scan savings goal: %w", err)
		}
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate savings goals: %w", err)
	}
	return out, nil
}

func scanSavingsGoal(s scanner) (core.SavingsGoal, error) {
	var (
		g                   core.SavingsGoal
		deadline, createdAt string
	)
	if err := s.Scan(&g.ID, &g.Name, &g.TargetAmount.Cents, &g.CurrentAmount.Cents, &deadline, &createdAt); err != nil {
		return core.SavingsGoal{}, err
	}
	if deadline != "" {
		g.Deadline = parseDate(deadline)
	}
	g.CreatedAt = parseTimestamp(createdAt)
	return g, nil
}

// --- Recurring expenses ---

func (r *Repository) CreateRecurringExpense(ctx context.Context, re core.RecurringExpense) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO recurring_expenses (name, category, amount_cents, frequency, next_due, is_active, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		re.Name, re.Category, re.Amount.Cents, string(re.Frequency),
		re.NextDue.Format(dateFormat), re.IsActive,
		time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return 0, fmt.Errorf("insert recurring expense: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("recurring expense insert id: %w", err)
	}
	slog.InfoContext(ctx, "Recurring expense saved", "id", id, "name", re.Name, "frequency", re.Frequency)
	return id, nil
}

// ToggleRecurringExpense flips the is_active flag.
func (r *Repository) ToggleRecurringExpense(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE recurring_expenses SET is_active = NOT is_active WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("toggle recurring expense: %w", err)
	}
	return requireRow(res, "recurring expense", id)
}

func (r *Repository) DeleteRecurringExpense(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM recurring_expenses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete recurring expense: %w", err)
	}
	return requireRow(res, "recurring expense", id)
}

func (r *Repository) ListRecurringExpenses(ctx context.Context) ([]core.RecurringExpense, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, category, amount_cents, frequency, next_due, is_active, created_at
		 FROM recurring_expenses ORDER BY next_due, id`)
	if err != nil {
		return nil, fmt.Errorf("list recurring expenses: %w", err)
	}
	defer rows.Close()

	var out []core.RecurringExpense
	for rows.Next() {
		var (
			re                 core.RecurringExpense
			freq               string
			nextDue, createdAt string
		)
		if err := rows.Scan(&re.ID, &re.Name, &re.Category, &re.Amount.Cents, &freq, &nextDue, &re.IsActive, &createdAt); err != nil {
			return nil, fmt.Errorf("scan recurring expense: %w", err)
		}
		re.Frequency = core.Frequency(freq)
		re.NextDue = parseDate(nextDue)
		re.CreatedAt = parseTimestamp(createdAt)
		out = append(out, re)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recurring expenses: %w", err)
	}
	return out, nil
}

func requireRow(res sql.Result, kind string, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", kind, err)
	}
	if n == 0 {
		return fmt.Errorf("%s %d: %w", kind, id, ErrNotFound)
	}
	return nil
}
