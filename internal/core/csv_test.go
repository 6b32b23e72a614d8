package core

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestImportExpenses(t *testing.T) {
	input := strings.Join([]string{
		"Date,Category,Amount,Note,Payment Method",
		"2026-03-01,groceries,25.50,weekly shop,card",
		"2026-03-02,transport,3.40,,",
		"2026-03-03,rent,1200.00,march,transfer",
	}, "\n")

	expenses, result, err := ImportExpenses(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ImportExpenses error: %v", err)
	}
	if result.Imported != 3 || result.Skipped != 0 {
		t.Fatalf("result = %+v, want 3 imported, 0 skipped", result)
	}
	if len(expenses) != 3 {
		t.Fatalf("got %d expenses", len(expenses))
	}

	first := expenses[0]
	if !first.Date.Equal(NewDate(2026, time.March, 1)) {
		t.Errorf("Date = %v", first.Date)
	}
	if first.Category != "groceries" || first.Amount.Cents != 2550 {
		t.Errorf("row 0 = %+v", first)
	}
	if first.Note != "weekly shop" || first.PaymentMethod != "card" {
		t.Errorf("row 0 optional fields = %q/%q", first.Note, first.PaymentMethod)
	}

	// Empty payment method falls back to the default.
	if expenses[1].PaymentMethod != DefaultPaymentMethod {
		t.Errorf("row 1 payment = %q, want %q", expenses[1].PaymentMethod, DefaultPaymentMethod)
	}
}

func TestImportExpensesSkipsBadRows(t *testing.T) {
	input := strings.Join([]string{
		"Date,Category,Amount",
		"2026-03-01,groceries,25.50",
		"not-a-date,groceries,10.00",
		"2026-03-02,groceries,-5",
		"2026-03-03,groceries,abc",
		"2026-03-04,,10.00",
		"2026-03-05,transport,7.25",
	}, "\n")

	expenses, result, err := ImportExpenses(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ImportExpenses error: %v", err)
	}
	if result.Imported != 2 {
		t.Errorf("Imported = %d, want 2", result.Imported)
	}
	if result.Skipped != 4 {
		t.Errorf("Skipped = %d, want 4", result.Skipped)
	}
	if len(expenses) != 2 {
		t.Fatalf("got %d expenses", len(expenses))
	}
	if expenses[0].Category != "groceries" || expenses[1].Category != "transport" {
		t.Error("good rows around bad ones must survive")
	}
}

func TestImportExpensesHeaderValidation(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "missing Amount", input: "Date,Category\n2026-03-01,groceries"},
		{name: "missing Date", input: "Category,Amount\ngroceries,10.00"},
		{name: "lowercase headers rejected", input: "date,category,amount\n2026-03-01,groceries,10.00"},
		{name: "empty input", input: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ImportExpenses(strings.NewReader(tt.input))
			if err == nil {
				t.Error("ImportExpenses accepted a bad header")
			}
		})
	}

	t.Run("missing header error is typed", func(t *testing.T) {
		_, _, err := ImportExpenses(strings.NewReader("Date,Category\n"))
		if !errors.Is(err, ErrMissingHeader) {
			t.Errorf("error = %v, want ErrMissingHeader", err)
		}
	})
}

func TestImportExpensesHeaderOrderIrrelevant(t *testing.T) {
	input := "Amount,Date,Note,Category\n9.99,2026-03-01,flipped,misc"
	expenses, result, err := ImportExpenses(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ImportExpenses error: %v", err)
	}
	if result.Imported != 1 {
		t.Fatalf("Imported = %d, want 1", result.Imported)
	}
	e := expenses[0]
	if e.Amount.Cents != 999 || e.Category != "misc" || e.Note != "flipped" {
		t.Errorf("row = %+v", e)
	}
}

func TestImportExpensesHeaderOnly(t *testing.T) {
	_, result, err := ImportExpenses(strings.NewReader("Date,Category,Amount\n"))
	if err != nil {
		t.Fatalf("ImportExpenses error: %v", err)
	}
	if result.Imported != 0 || result.Skipped != 0 {
		t.Errorf("result = %+v, want zeros", result)
	}
}

func TestExportExpenses(t *testing.T) {
	expenses := []Expense{
		{
			Date:          NewDate(2026, time.March, 1),
			Category:      "groceries",
			Amount:        Money{Cents: 2550},
			Note:          "weekly shop",
			PaymentMethod: "card",
		},
	}

	var buf bytes.Buffer
	if err := ExportExpenses(&buf, expenses); err != nil {
		t.Fatalf("ExportExpenses error: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if lines[0] != "Date,Category,Amount,Note,Payment Method" {
		t.Errorf("header = %q", lines[0])
	}
	if lines[1] != "2026-03-01,groceries,25.50,weekly shop,card" {
		t.Errorf("row = %q", lines[1])
	}
}

func TestExportExpensesEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := ExportExpenses(&buf, nil); err != nil {
		t.Fatalf("ExportExpenses error: %v", err)
	}
	if got := strings.TrimRight(buf.String(), "\n"); got != "Date,Category,Amount,Note,Payment Method" {
		t.Errorf("empty export = %q, want header only", got)
	}
}

// Export then import must reproduce the records.
func TestCSVRoundTrip(t *testing.T) {
	original := []Expense{
		{
			Date:          NewDate(2026, time.January, 15),
			Category:      "utilities",
			Amount:        Money{Cents: 8923},
			Note:          "note, with comma",
			PaymentMethod: "transfer",
		},
		{
			Date:          NewDate(2026, time.February, 2),
			Category:      "coffee",
			Amount:        Money{Cents: 350},
			PaymentMethod: "cash",
		},
	}

	var buf bytes.Buffer
	if err := ExportExpenses(&buf, original); err != nil {
		t.Fatalf("ExportExpenses error: %v", err)
	}
	imported, result, err := ImportExpenses(&buf)
	if err != nil {
		t.Fatalf("ImportExpenses error: %v", err)
	}
	if result.Imported != len(original) || result.Skipped != 0 {
		t.Fatalf("result = %+v", result)
	}
	for i, e := range imported {
		o := original[i]
		if !e.Date.Equal(o.Date) || e.Category != o.Category ||
			e.Amount.Cents != o.Amount.Cents || e.Note != o.Note ||
			e.PaymentMethod != o.PaymentMethod {
			t.Errorf("row %d = %+v, want %+v", i, e, o)
		}
	}
}
