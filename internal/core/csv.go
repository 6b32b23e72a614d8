package core

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
)

// Import requires these header names, case-sensitive. Note and
// "Payment Method" are optional columns.
var requiredCSVHeaders = []string{"Date", "Category", "Amount"}

var exportCSVHeader = []string{"Date", "Category", "Amount", "Note", "Payment Method"}

// ErrMissingHeader means the upload has no usable header row.
var ErrMissingHeader = errors.New("missing required CSV header")

// ImportResult counts the outcome of a CSV import batch.
type ImportResult struct {
	Imported int
	Skipped  int
}

// ImportExpenses parses CSV rows into validated expenses. Each data row
// is handled independently: a malformed row (bad date, non-positive or
// non-numeric amount, empty category) is counted in Skipped and the
// batch continues. Only a missing header or an unreadable stream aborts.
func ImportExpenses(r io.Reader) ([]Expense, ImportResult, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // ragged rows are a row-level error, not fatal
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, ImportResult{}, fmt.Errorf("read CSV header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	for _, name := range requiredCSVHeaders {
		if _, ok := cols[name]; !ok {
			return nil, ImportResult{}, fmt.Errorf("%w: %s", ErrMissingHeader, name)
		}
	}

	var (
		expenses []Expense
		result   ImportResult
	)
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Unbalanced quotes and similar parse failures skip the row.
			result.Skipped++
			continue
		}

		e, err := expenseFromRecord(record, cols)
		if err != nil {
			result.Skipped++
			continue
		}
		expenses = append(expenses, e)
		result.Imported++
	}
	return expenses, result, nil
}

func expenseFromRecord(record []string, cols map[string]int) (Expense, error) {
	field := func(name string) string {
		i, ok := cols[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	date, err := time.Parse("2006-01-02", field("Date"))
	if err != nil {
		return Expense{}, ErrInvalidDate
	}
	cents, err := ParseDecimalToCents(field("Amount"))
	if err != nil {
		return Expense{}, err
	}
	payment := strings.ToLower(field("Payment Method"))
	if payment == "" {
		payment = DefaultPaymentMethod
	}

	e := Expense{
		Date:          Today(date),
		Category:      field("Category"),
		Amount:        Money{Cents: cents},
		Note:          field("Note"),
		PaymentMethod: payment,
	}
	if err := e.Validate(); err != nil {
		return Expense{}, err
	}
	return e, nil
}

// ExportExpenses writes the fixed five-column CSV. Dates render as
// YYYY-MM-DD and amounts as plain two-decimal numbers, so re-importing
// the output reproduces the records exactly.
func ExportExpenses(w io.Writer, expenses []Expense) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportCSVHeader); err != nil {
		return fmt.Errorf("write CSV header: %w", err)
	}
	for _, e := range expenses {
		row := []string{
			e.Date.Format("2006-01-02"),
			e.Category,
			e.Amount.String(),
			e.Note,
			e.PaymentMethod,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write CSV row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush CSV: %w", err)
	}
	return nil
}
