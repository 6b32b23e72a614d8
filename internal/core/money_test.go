package core

import "testing"

func TestParseDecimalToCents(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int64
		wantErr bool
	}{
		{name: "integer", input: "12", want: 1200},
		{name: "two decimals", input: "12.34", want: 1234},
		{name: "one decimal", input: "12.3", want: 1230},
		{name: "comma separator", input: "12,34", want: 1234},
		{name: "leading dot", input: ".50", want: 50},
		{name: "half-up rounding", input: "1.005", want: 101},
		{name: "rounds down below half", input: "1.004", want: 100},
		{name: "long fraction", input: "2.999", want: 300},
		{name: "whitespace trimmed", input: "  7.25  ", want: 725},
		{name: "empty", input: "", wantErr: true},
		{name: "zero", input: "0", wantErr: true},
		{name: "zero with decimals", input: "0.00", wantErr: true},
		{name: "negative", input: "-5", wantErr: true},
		{name: "explicit plus", input: "+5", wantErr: true},
		{name: "not a number", input: "abc", wantErr: true},
		{name: "two separators", input: "1.2.3", wantErr: true},
		{name: "mixed digits and letters", input: "12a.50", wantErr: true},
		{name: "overflow", input: "99999999999999999999", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDecimalToCents(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseDecimalToCents(%q) = %d, want error", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDecimalToCents(%q) error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseDecimalToCents(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseNonNegativeCents(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int64
		wantErr bool
	}{
		{name: "empty defaults to zero", input: "", want: 0},
		{name: "whitespace defaults to zero", input: "   ", want: 0},
		{name: "explicit zero", input: "0", want: 0},
		{name: "positive", input: "3.50", want: 350},
		{name: "negative", input: "-1", wantErr: true},
		{name: "garbage", input: "x", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseNonNegativeCents(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseNonNegativeCents(%q) = %d, want error", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseNonNegativeCents(%q) error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseNonNegativeCents(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestMoneyString(t *testing.T) {
	tests := []struct {
		cents int64
		want  string
	}{
		{0, "0.00"},
		{5, "0.05"},
		{50, "0.50"},
		{1234, "12.34"},
		{100000, "1000.00"},
		{-1234, "-12.34"},
	}
	for _, tt := range tests {
		if got := (Money{Cents: tt.cents}).String(); got != tt.want {
			t.Errorf("Money{%d}.String() = %q, want %q", tt.cents, got, tt.want)
		}
	}
}

// A parse-format round trip must reproduce the input for canonical
// two-decimal strings, the CSV export form.
func TestMoneyRoundTrip(t *testing.T) {
	for _, s := range []string{"0.01", "12.34", "999.99", "1000.00"} {
		cents, err := ParseDecimalToCents(s)
		if err != nil {
			t.Fatalf("ParseDecimalToCents(%q) error: %v", s, err)
		}
		if got := (Money{Cents: cents}).String(); got != s {
			t.Errorf("round trip %q -> %d -> %q", s, cents, got)
		}
	}
}

func TestMoneyAddSub(t *testing.T) {
	a := Money{Cents: 1000}
	b := Money{Cents: 250}
	if got := a.Add(b).Cents; got != 1250 {
		t.Errorf("Add = %d, want 1250", got)
	}
	if got := a.Sub(b).Cents; got != 750 {
		t.Errorf("Sub = %d, want 750", got)
	}
	if got := b.Sub(a).Cents; got != -750 {
		t.Errorf("Sub negative = %d, want -750", got)
	}
}
