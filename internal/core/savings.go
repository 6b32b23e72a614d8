package core

type (
	// GoalProgress is a savings goal with its derived state. Progress is
	// computed on read from the stored fields, never persisted.
	GoalProgress struct {
		Goal      SavingsGoal
		Percent   float64
		Completed bool
	}

	// SavingsOverview aggregates all goals.
	SavingsOverview struct {
		Goals        []GoalProgress
		TotalTarget  Money
		TotalCurrent Money
	}
)

// Progress derives percentage-complete and the completion flag. A goal
// with a non-positive target reports 0% rather than dividing by zero.
func Progress(g SavingsGoal) GoalProgress {
	p := GoalProgress{
		Goal:      g,
		Completed: g.CurrentAmount.Cents >= g.TargetAmount.Cents,
	}
	if g.TargetAmount.Cents > 0 {
		p.Percent = float64(g.CurrentAmount.Cents) / float64(g.TargetAmount.Cents) * 100
	}
	return p
}

// SavingsProgress derives per-goal progress and grand totals.
func SavingsProgress(goals []SavingsGoal) SavingsOverview {
	ov := SavingsOverview{Goals: make([]GoalProgress, 0, len(goals))}
	for _, g := range goals {
		ov.Goals = append(ov.Goals, Progress(g))
		ov.TotalTarget.Cents += g.TargetAmount.Cents
		ov.TotalCurrent.Cents += g.CurrentAmount.Cents
	}
	return ov
}
