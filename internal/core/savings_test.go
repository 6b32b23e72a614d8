package core

import "testing"

func TestProgress(t *testing.T) {
	tests := []struct {
		name          string
		target        int64
		current       int64
		wantPercent   float64
		wantCompleted bool
	}{
		{name: "empty goal", target: 100000, current: 0, wantPercent: 0},
		{name: "halfway", target: 100000, current: 50000, wantPercent: 50},
		{name: "exactly complete", target: 100000, current: 100000, wantPercent: 100, wantCompleted: true},
		{name: "over target", target: 100000, current: 120000, wantPercent: 120, wantCompleted: true},
		{name: "zero target reports zero", target: 0, current: 5000, wantPercent: 0, wantCompleted: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Progress(SavingsGoal{
				Name:          "goal",
				TargetAmount:  Money{Cents: tt.target},
				CurrentAmount: Money{Cents: tt.current},
			})
			if got.Percent != tt.wantPercent {
				t.Errorf("Percent = %v, want %v", got.Percent, tt.wantPercent)
			}
			if got.Completed != tt.wantCompleted {
				t.Errorf("Completed = %v, want %v", got.Completed, tt.wantCompleted)
			}
		})
	}
}

// Adding to a goal never lowers its percentage.
func TestProgressMonotonic(t *testing.T) {
	goal := SavingsGoal{Name: "g", TargetAmount: Money{Cents: 75000}}
	prev := Progress(goal).Percent
	for _, add := range []int64{100, 5000, 25000, 50000} {
		goal.CurrentAmount.Cents += add
		p := Progress(goal).Percent
		if p < prev {
			t.Fatalf("Percent dropped from %v to %v after adding %d", prev, p, add)
		}
		prev = p
	}
}

func TestSavingsProgress(t *testing.T) {
	goals := []SavingsGoal{
		{Name: "vacation", TargetAmount: Money{Cents: 100000}, CurrentAmount: Money{Cents: 40000}},
		{Name: "emergency", TargetAmount: Money{Cents: 500000}, CurrentAmount: Money{Cents: 500000}},
	}
	got := SavingsProgress(goals)
	if len(got.Goals) != 2 {
		t.Fatalf("Goals = %d, want 2", len(got.Goals))
	}
	if got.TotalTarget.Cents != 600000 {
		t.Errorf("TotalTarget = %d, want 600000", got.TotalTarget.Cents)
	}
	if got.TotalCurrent.Cents != 540000 {
		t.Errorf("TotalCurrent = %d, want 540000", got.TotalCurrent.Cents)
	}
	if !got.Goals[1].Completed {
		t.Error("emergency goal should be completed")
	}

	empty := SavingsProgress(nil)
	if len(empty.Goals) != 0 || empty.TotalTarget.Cents != 0 {
		t.Errorf("SavingsProgress(nil) = %+v", empty)
	}
}
