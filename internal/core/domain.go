package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Daily   Frequency = "daily"
	Weekly  Frequency = "weekly"
	Monthly Frequency = "monthly"
	Yearly  Frequency = "yearly"
)

// DefaultPaymentMethod is applied when a form or CSV row leaves the field blank.
const DefaultPaymentMethod = "cash"

type (
	// Frequency describes how often a recurring expense repeats.
	Frequency string

	Expense struct {
		ID            int64
		Date          time.Time // calendar date, midnight UTC
		Category      string
		Amount        Money
		Note          string
		PaymentMethod string
		CreatedAt     time.Time
	}

	Income struct {
		ID        int64
		Date      time.Time
		Source    string
		Amount    Money
		Note      string
		CreatedAt time.Time
	}

	Budget struct {
		ID       int64
		Category string
		Amount   Money
		Month    int // 1-12
		Year     int
	}

	SavingsGoal struct {
		ID            int64
		Name          string
		TargetAmount  Money
		CurrentAmount Money
		Deadline      time.Time // zero means no deadline
		CreatedAt     time.Time
	}

	RecurringExpense struct {
		ID        int64
		Name      string
		Category  string
		Amount    Money
		Frequency Frequency
		NextDue   time.Time
		IsActive  bool
		CreatedAt time.Time
	}
)

var (
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidMonth     = errors.New("invalid month")
	ErrInvalidYear      = errors.New("invalid year")
	ErrInvalidFrequency = errors.New("invalid frequency")
	ErrEmptyCategory    = errors.New("empty category")
	ErrEmptySource      = errors.New("empty source")
	ErrEmptyName        = errors.New("empty name")
)

// NewDate builds a calendar date at midnight UTC. All stored dates go
// through this so range comparisons never depend on the wall clock.
func NewDate(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Today truncates a timestamp to its calendar date in UTC.
func Today(now time.Time) time.Time {
	y, m, d := now.UTC().Date()
	return NewDate(y, m, d)
}

func (f Frequency) Valid() bool {
	switch f {
	case Daily, Weekly, Monthly, Yearly:
		return true
	}
	return false
}

func (e Expense) Validate() error {
	if e.Date.IsZero() {
		return ErrInvalidDate
	}
	if strings.TrimSpace(e.Category) == "" {
		return ErrEmptyCategory
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if len(e.Note) > 200 {
		return errors.New("note too long (max 200 characters)")
	}
	return nil
}

func (i Income) Validate() error {
	if i.Date.IsZero() {
		return ErrInvalidDate
	}
	if strings.TrimSpace(i.Source) == "" {
		return ErrEmptySource
	}
	if err := i.Amount.Validate(); err != nil {
		return err
	}
	if len(i.Note) > 200 {
		return errors.New("note too long (max 200 characters)")
	}
	return nil
}

func (b Budget) Validate() error {
	if strings.TrimSpace(b.Category) == "" {
		return ErrEmptyCategory
	}
	if err := b.Amount.Validate(); err != nil {
		return err
	}
	if b.Month < 1 || b.Month > 12 {
		return ErrInvalidMonth
	}
	if b.Year < 1000 || b.Year > 9999 {
		return ErrInvalidYear
	}
	return nil
}

func (g SavingsGoal) Validate() error {
	if strings.TrimSpace(g.Name) == "" {
		return ErrEmptyName
	}
	if err := g.TargetAmount.Validate(); err != nil {
		return err
	}
	if g.CurrentAmount.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (re RecurringExpense) Validate() error {
	if strings.TrimSpace(re.Name) == "" {
		return ErrEmptyName
	}
	if strings.TrimSpace(re.Category) == "" {
		return ErrEmptyCategory
	}
	if err := re.Amount.Validate(); err != nil {
		return err
	}
	if !re.Frequency.Valid() {
		return ErrInvalidFrequency
	}
	if re.NextDue.IsZero() {
		return ErrInvalidDate
	}
	return nil
}
