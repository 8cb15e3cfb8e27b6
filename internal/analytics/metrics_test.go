package analytics

import (
	"testing"

	"fintrack/internal/core"
)

func tx(date core.Date, cents int64, category string) core.Transaction {
	return core.Transaction{
		Date:     date,
		Title:    "t",
		Amount:   core.Money{Cents: cents},
		Category: category,
	}
}

func TestMonthlyTrend(t *testing.T) {
	txs := []core.Transaction{
		tx(core.NewDate(2024, 1, 10), 20000, "Food"),
		tx(core.NewDate(2024, 1, 20), 5000, "Food"),
		tx(core.NewDate(2024, 6, 1), 10000, "Transport"),
	}

	trend := monthlyTrend(txs)
	if len(trend) != 12 {
		t.Fatalf("expected 12 months, got %d", len(trend))
	}
	if trend[0].Total.Cents != 25000 {
		t.Errorf("January = %d, want 25000", trend[0].Total.Cents)
	}
	if trend[5].Total.Cents != 10000 {
		t.Errorf("June = %d, want 10000", trend[5].Total.Cents)
	}
	if trend[11].Total.Cents != 0 {
		t.Errorf("December = %d, want 0", trend[11].Total.Cents)
	}
}

func TestCategoryGrowth(t *testing.T) {
	previous := []core.Transaction{
		tx(core.NewDate(2024, 1, 5), 20000, "Food"),
		tx(core.NewDate(2024, 1, 6), 1000, "Transport"),
	}
	current := []core.Transaction{
		tx(core.NewDate(2024, 2, 5), 30000, "Food"),
		tx(core.NewDate(2024, 2, 6), 5000, "Dining"),
	}

	growth := categoryGrowth(current, previous)

	byCategory := make(map[string]CategoryGrowth, len(growth))
	for _, g := range growth {
		byCategory[g.Category] = g
	}

	// $200 -> $300 is +50%.
	if g := byCategory["Food"]; g.GrowthPct != 50 {
		t.Errorf("Food growth = %v, want 50", g.GrowthPct)
	}
	// Nothing last month, something now: +100%.
	if g := byCategory["Dining"]; g.GrowthPct != 100 {
		t.Errorf("Dining growth = %v, want 100", g.GrowthPct)
	}
	// Present last month, gone now: -100%.
	if g := byCategory["Transport"]; g.GrowthPct != -100 {
		t.Errorf("Transport growth = %v, want -100", g.GrowthPct)
	}
}

func TestCategoryGrowthZeroToZero(t *testing.T) {
	// A category with zero in both months can only come from explicit
	// zero sums, which SumByCategory never emits; the contract is that
	// such a pair reports 0%.
	growth := categoryGrowth(nil, nil)
	if len(growth) != 0 {
		t.Fatalf("expected no growth entries, got %d", len(growth))
	}
}

func TestCategoryGrowthSorted(t *testing.T) {
	current := []core.Transaction{
		tx(core.NewDate(2024, 2, 1), 100, "Zoo"),
		tx(core.NewDate(2024, 2, 2), 100, "Alpha"),
		tx(core.NewDate(2024, 2, 3), 100, "Mid"),
	}
	growth := categoryGrowth(current, nil)
	for i := 1; i < len(growth); i++ {
		if growth[i-1].Category > growth[i].Category {
			t.Fatalf("entries not sorted: %q before %q", growth[i-1].Category, growth[i].Category)
		}
	}
}

func TestDetectAnomalies(t *testing.T) {
	// Baseline: Dining totals $300 over the lookback window, so the
	// trailing average is $100/month and the flag threshold is $150.
	lookback := []core.Transaction{
		tx(core.NewDate(2024, 1, 10), 10000, "Dining"),
		tx(core.NewDate(2024, 2, 10), 10000, "Dining"),
		tx(core.NewDate(2024, 3, 10), 10000, "Dining"),
	}

	pad := func(current []core.Transaction) []core.Transaction {
		// Keep the month above the minimum-sample threshold.
		for i := 0; i < 4; i++ {
			current = append(current, tx(core.NewDate(2024, 4, 20+i), 100, "Padding"))
		}
		return current
	}

	t.Run("above threshold is flagged", func(t *testing.T) {
		current := pad([]core.Transaction{tx(core.NewDate(2024, 4, 5), 16000, "Dining")})
		anomalies := detectAnomalies(current, lookback)
		if len(anomalies) != 1 {
			t.Fatalf("expected 1 anomaly, got %d", len(anomalies))
		}
		a := anomalies[0]
		if a.Category != "Dining" || a.Current.Cents != 16000 || a.Baseline != 10000 {
			t.Errorf("anomaly = %+v", a)
		}
	})

	t.Run("exactly at threshold is not flagged", func(t *testing.T) {
		current := pad([]core.Transaction{tx(core.NewDate(2024, 4, 5), 15000, "Dining")})
		if anomalies := detectAnomalies(current, lookback); len(anomalies) != 0 {
			t.Fatalf("150 == 1.5 x 100 must not flag, got %v", anomalies)
		}
	})

	t.Run("no baseline is never flagged", func(t *testing.T) {
		current := pad([]core.Transaction{tx(core.NewDate(2024, 4, 5), 99900, "Brand New")})
		for _, a := range detectAnomalies(current, lookback) {
			if a.Category == "Brand New" {
				t.Fatal("category without history must not be flagged")
			}
		}
	})

	t.Run("skipped entirely under five transactions", func(t *testing.T) {
		current := []core.Transaction{
			tx(core.NewDate(2024, 4, 5), 99900, "Dining"),
			tx(core.NewDate(2024, 4, 6), 99900, "Dining"),
		}
		if anomalies := detectAnomalies(current, lookback); anomalies != nil {
			t.Fatalf("expected nil with sparse month, got %v", anomalies)
		}
	})
}

func TestSavingsTrend(t *testing.T) {
	money := func(cents int64) core.Money { return core.Money{Cents: cents} }

	tests := []struct {
		name          string
		current       core.Money
		preceding     []core.Money
		wantDirection string
		wantPct       float64
	}{
		{
			name:          "spending down is a decrease",
			current:       money(5000),
			preceding:     []core.Money{money(10000), money(10000), money(10000)},
			wantDirection: TrendDecrease,
			wantPct:       -50,
		},
		{
			name:          "spending up is an increase",
			current:       money(15000),
			preceding:     []core.Money{money(10000), money(10000), money(10000)},
			wantDirection: TrendIncrease,
			wantPct:       50,
		},
		{
			name:          "flat is stable",
			current:       money(10000),
			preceding:     []core.Money{money(10000), money(10000), money(10000)},
			wantDirection: TrendStable,
			wantPct:       0,
		},
		{
			name:          "no history is not applicable",
			current:       money(10000),
			preceding:     []core.Money{money(0), money(0), money(0)},
			wantDirection: TrendNotApplicable,
			wantPct:       0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := savingsTrend(tt.current, tt.preceding)
			if got.Direction != tt.wantDirection {
				t.Errorf("Direction = %q, want %q", got.Direction, tt.wantDirection)
			}
			if got.ChangePct != tt.wantPct {
				t.Errorf("ChangePct = %v, want %v", got.ChangePct, tt.wantPct)
			}
		})
	}
}
