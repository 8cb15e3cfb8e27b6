package analytics

import (
	"sort"

	"fintrack/internal/aggregate"
	"fintrack/internal/core"
)

// budgetStatus evaluates budget rows against actual month spending.
// Utilization covers budgeted categories only; spending in categories
// without a budget does not count toward the ratio.
func budgetStatus(budgets []core.Budget, txs []core.Transaction) BudgetStatus {
	spent := aggregate.SumByCategory(txs)

	status := BudgetStatus{}
	var totalBudgeted, totalSpentBudgeted int64

	for _, b := range budgets {
		s := spent[b.Category]
		totalBudgeted += b.Amount.Cents
		totalSpentBudgeted += s.Cents

		line := BudgetLine{
			Category:  b.Category,
			Budget:    b.Amount,
			Spent:     s,
			Remaining: core.Money{Cents: b.Amount.Cents - s.Cents},
		}
		if b.Amount.Cents > 0 {
			line.Percent = float64(s.Cents) / float64(b.Amount.Cents) * 100
			if line.Percent > 100 {
				line.Percent = 100
			}
		}
		status.Lines = append(status.Lines, line)

		if s.Cents > b.Amount.Cents {
			over := s.Cents - b.Amount.Cents
			status.Alerts = append(status.Alerts, BudgetAlert{
				Category:     b.Category,
				Budget:       b.Amount,
				Spent:        s,
				Overspent:    core.Money{Cents: over},
				OverspentPct: float64(over) / float64(b.Amount.Cents) * 100,
			})
		}
	}

	if totalBudgeted > 0 {
		status.Utilization = float64(totalSpentBudgeted) / float64(totalBudgeted) * 100
	}

	sort.Slice(status.Lines, func(i, j int) bool { return status.Lines[i].Category < status.Lines[j].Category })
	sort.Slice(status.Alerts, func(i, j int) bool { return status.Alerts[i].Category < status.Alerts[j].Category })
	return status
}
