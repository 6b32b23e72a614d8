package core

const (
	TierOK      BudgetTier = "ok"
	TierWarning BudgetTier = "warning"
	TierOver    BudgetTier = "over"
)

type (
	// BudgetTier classifies utilization: ok below 80%, warning from 80%
	// up to (excluding) 100%, over at 100% and beyond.
	BudgetTier string

	// BudgetStatus is the spend-vs-budget state of one budget row.
	BudgetStatus struct {
		Budget    Budget
		Spent     Money
		Remaining Money
		Percent   float64
		Tier      BudgetTier
	}
)

// EvaluateBudget computes spent/remaining/percentage for one budget from
// the given expenses. Only expenses in the budget's month and year with a
// matching category count. Tier boundaries are decided on cents so that
// exactly 80% and exactly 100% land on warning and over.
func EvaluateBudget(b Budget, expenses []Expense) BudgetStatus {
	var spent int64
	for _, e := range expenses {
		if e.Category != b.Category {
			continue
		}
		if e.Date.Year() != b.Year || int(e.Date.Month()) != b.Month {
			continue
		}
		spent += e.Amount.Cents
	}

	status := BudgetStatus{
		Budget:    b,
		Spent:     Money{Cents: spent},
		Remaining: Money{Cents: b.Amount.Cents - spent},
	}
	if b.Amount.Cents <= 0 {
		status.Tier = TierOK
		return status
	}
	status.Percent = float64(spent) / float64(b.Amount.Cents) * 100

	switch {
	case spent >= b.Amount.Cents:
		status.Tier = TierOver
	case spent*5 >= b.Amount.Cents*4: // spent/amount >= 80%
		status.Tier = TierWarning
	default:
		status.Tier = TierOK
	}
	return status
}

// EvaluateBudgets evaluates every budget against the same expense set.
func EvaluateBudgets(budgets []Budget, expenses []Expense) []BudgetStatus {
	out := make([]BudgetStatus, 0, len(budgets))
	for _, b := range budgets {
		out = append(out, EvaluateBudget(b, expenses))
	}
	return out
}
