package analytics

import (
	"testing"

	"fintrack/internal/core"
)

func TestBudgetStatusAlert(t *testing.T) {
	budgets := []core.Budget{
		{UserID: 1, Category: "Food", Amount: core.Money{Cents: 50000}, Month: 3, Year: 2024},
	}
	txs := []core.Transaction{
		tx(core.NewDate(2024, 3, 5), 60000, "Food"),
	}

	status := budgetStatus(budgets, txs)
	if len(status.Alerts) != 1 {
		t.Fatalf("expected 1 alert, got %d", len(status.Alerts))
	}
	a := status.Alerts[0]
	if a.Overspent.Cents != 10000 {
		t.Errorf("overspent = %d, want 10000", a.Overspent.Cents)
	}
	if a.OverspentPct != 20 {
		t.Errorf("overspent pct = %v, want 20", a.OverspentPct)
	}
	if status.Utilization != 120 {
		t.Errorf("utilization = %v, want 120", status.Utilization)
	}
}

func TestBudgetStatusUnbudgetedExcluded(t *testing.T) {
	budgets := []core.Budget{
		{UserID: 1, Category: "Food", Amount: core.Money{Cents: 40000}, Month: 3, Year: 2024},
		{UserID: 1, Category: "Transport", Amount: core.Money{Cents: 10000}, Month: 3, Year: 2024},
	}
	txs := []core.Transaction{
		tx(core.NewDate(2024, 3, 5), 20000, "Food"),
		tx(core.NewDate(2024, 3, 6), 5000, "Transport"),
		// Spending in an unbudgeted category stays out of the ratio.
		tx(core.NewDate(2024, 3, 7), 99900, "Gadgets"),
	}

	status := budgetStatus(budgets, txs)
	if len(status.Alerts) != 0 {
		t.Fatalf("expected no alerts, got %v", status.Alerts)
	}
	if status.Utilization != 50 {
		t.Errorf("utilization = %v, want 50", status.Utilization)
	}
}

func TestBudgetStatusNoBudgets(t *testing.T) {
	status := budgetStatus(nil, []core.Transaction{tx(core.NewDate(2024, 3, 5), 100, "Food")})
	if status.Utilization != 0 {
		t.Errorf("utilization without budgets = %v, want 0", status.Utilization)
	}
	if len(status.Lines) != 0 || len(status.Alerts) != 0 {
		t.Errorf("unexpected lines or alerts: %+v", status)
	}
}

func TestBudgetStatusLinePercentCapped(t *testing.T) {
	budgets := []core.Budget{
		{UserID: 1, Category: "Food", Amount: core.Money{Cents: 10000}, Month: 3, Year: 2024},
	}
	txs := []core.Transaction{tx(core.NewDate(2024, 3, 5), 30000, "Food")}

	status := budgetStatus(budgets, txs)
	if len(status.Lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(status.Lines))
	}
	line := status.Lines[0]
	if line.Percent != 100 {
		t.Errorf("display percent = %v, want capped 100", line.Percent)
	}
	if line.Remaining.Cents != -20000 {
		t.Errorf("remaining = %d, want -20000", line.Remaining.Cents)
	}
}
