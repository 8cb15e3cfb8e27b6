// Package analytics computes derived spending metrics over a user's
// transaction history.
//
// The engine composes the pure aggregation functions across several time
// windows (reference month, prior month, trailing 90 days, reference
// year) into a fixed-shape Report. Sub-computations are failure
// isolated: a store error is logged and leaves that field at its zero
// default, so the report is always returned whole. Availability wins
// over completeness here; only operator logs reveal a partial result.
package analytics

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"fintrack/internal/aggregate"
	"fintrack/internal/core"
)

// anomalyLookbackDays is the historical window for anomaly baselines.
// It is 90 calendar days, not three calendar months, and the sum is
// divided by 3 regardless.
const anomalyLookbackDays = 90

// TransactionSource supplies a user's transactions within a half-open
// [from, to) date range.
type TransactionSource interface {
	ListRange(ctx context.Context, userID int64, from, to core.Date) ([]core.Transaction, error)
}

// BudgetSource supplies a user's budget rows for one month.
type BudgetSource interface {
	ListBudgets(ctx context.Context, userID int64, month, year int) ([]core.Budget, error)
}

type Engine struct {
	transactions TransactionSource
	budgets      BudgetSource
}

func NewEngine(transactions TransactionSource, budgets BudgetSource) *Engine {
	return &Engine{
		transactions: transactions,
		budgets:      budgets,
	}
}

// Compute builds the full analytics report for the calendar month
// containing ref. It never fails: each data window is fetched
// concurrently and independently, and a failed fetch degrades only the
// metrics derived from it.
func (e *Engine) Compute(ctx context.Context, userID int64, ref time.Time) Report {
	year, month := ref.Year(), int(ref.Month())
	monthStart, monthEnd := core.MonthBounds(year, month)

	var (
		current   []core.Transaction
		previous  []core.Transaction
		yearTxs   []core.Transaction
		lookback  []core.Transaction
		preceding []core.Transaction
		budgets   []core.Budget
	)

	var g errgroup.Group
	g.Go(func() error {
		current = e.fetchRange(ctx, userID, monthStart, monthEnd, "current_month")
		return nil
	})
	g.Go(func() error {
		prevYear, prevMonth := core.PrevMonth(year, month)
		from, to := core.MonthBounds(prevYear, prevMonth)
		previous = e.fetchRange(ctx, userID, from, to, "previous_month")
		return nil
	})
	g.Go(func() error {
		from := core.NewDate(year, 1, 1)
		to := core.NewDate(year+1, 1, 1)
		yearTxs = e.fetchRange(ctx, userID, from, to, "reference_year")
		return nil
	})
	g.Go(func() error {
		from := core.Date{Time: monthStart.AddDate(0, 0, -anomalyLookbackDays)}
		lookback = e.fetchRange(ctx, userID, from, monthStart, "anomaly_lookback")
		return nil
	})
	g.Go(func() error {
		from := core.Date{Time: monthStart.AddDate(0, -3, 0)}
		preceding = e.fetchRange(ctx, userID, from, monthStart, "preceding_quarter")
		return nil
	})
	g.Go(func() error {
		var err error
		budgets, err = e.budgets.ListBudgets(ctx, userID, month, year)
		if err != nil {
			slog.WarnContext(ctx, "Budget fetch failed, budget metrics degraded",
				"user_id", userID, "month", month, "year", year, "error", err)
			budgets = nil
		}
		return nil
	})
	_ = g.Wait()

	report := emptyReport(year, month)
	report.MonthlyTrend = monthlyTrend(yearTxs)
	report.CategoryGrowth = categoryGrowth(current, previous)
	report.AverageTransaction = aggregate.Average(current)

	currentTotal := aggregate.Total(current)
	report.DailyAverage = float64(currentTotal.Cents) / float64(core.DaysInMonth(year, month))
	report.WeeklyPattern = aggregate.GroupByDayOfWeek(current)

	day, dayTotal := aggregate.HighestSpendingDay(current)
	report.HighestDay = DaySpend{Date: day, Total: dayTotal}

	report.Anomalies = detectAnomalies(current, lookback)
	report.SavingsTrend = savingsTrend(currentTotal, monthTotals(preceding, year, month, 3))

	status := budgetStatus(budgets, current)
	report.Recommendations = buildRecommendations(recommendationInput{
		CurrentTotal:     currentTotal,
		PreviousTotal:    aggregate.Total(previous),
		BudgetAlertCount: len(status.Alerts),
		TopCategory:      topCategory(current),
		TopCategoryShare: topCategoryShare(current, currentTotal),
		HighestDayTotal:  dayTotal,
		DailyAverage:     report.DailyAverage,
	})

	return report
}

// MonthlyTrend returns the 12 monthly totals for a year.
func (e *Engine) MonthlyTrend(ctx context.Context, userID int64, year int) ([]MonthTotal, error) {
	txs, err := e.transactions.ListRange(ctx, userID, core.NewDate(year, 1, 1), core.NewDate(year+1, 1, 1))
	if err != nil {
		return monthlyTrend(nil), err
	}
	return monthlyTrend(txs), nil
}

// CategoryGrowth returns the month-over-month per-category change for
// the given reference month.
func (e *Engine) CategoryGrowth(ctx context.Context, userID int64, year, month int) ([]CategoryGrowth, error) {
	from, to := core.MonthBounds(year, month)
	current, err := e.transactions.ListRange(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	prevYear, prevMonth := core.PrevMonth(year, month)
	from, to = core.MonthBounds(prevYear, prevMonth)
	previous, err := e.transactions.ListRange(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	return categoryGrowth(current, previous), nil
}

// Anomalies runs anomaly detection for the given reference month.
func (e *Engine) Anomalies(ctx context.Context, userID int64, year, month int) ([]Anomaly, error) {
	monthStart, monthEnd := core.MonthBounds(year, month)
	current, err := e.transactions.ListRange(ctx, userID, monthStart, monthEnd)
	if err != nil {
		return nil, err
	}
	lookbackStart := core.Date{Time: monthStart.AddDate(0, 0, -anomalyLookbackDays)}
	lookback, err := e.transactions.ListRange(ctx, userID, lookbackStart, monthStart)
	if err != nil {
		return nil, err
	}
	return detectAnomalies(current, lookback), nil
}

// SavingsTrend compares the reference month against the three months
// before it.
func (e *Engine) SavingsTrend(ctx context.Context, userID int64, year, month int) (SavingsTrend, error) {
	monthStart, monthEnd := core.MonthBounds(year, month)
	current, err := e.transactions.ListRange(ctx, userID, monthStart, monthEnd)
	if err != nil {
		return SavingsTrend{Direction: TrendNotApplicable}, err
	}
	from := core.Date{Time: monthStart.AddDate(0, -3, 0)}
	preceding, err := e.transactions.ListRange(ctx, userID, from, monthStart)
	if err != nil {
		return SavingsTrend{Direction: TrendNotApplicable}, err
	}
	return savingsTrend(aggregate.Total(current), monthTotals(preceding, year, month, 3)), nil
}

// ComputeBudgetStatus evaluates budgets against actual spending for one
// (user, month, year).
func (e *Engine) ComputeBudgetStatus(ctx context.Context, userID int64, month, year int) (BudgetStatus, error) {
	budgets, err := e.budgets.ListBudgets(ctx, userID, month, year)
	if err != nil {
		return BudgetStatus{}, err
	}
	from, to := core.MonthBounds(year, month)
	txs, err := e.transactions.ListRange(ctx, userID, from, to)
	if err != nil {
		return BudgetStatus{}, err
	}
	return budgetStatus(budgets, txs), nil
}

// fetchRange lists a window of transactions, degrading to an empty set
// on store failure.
func (e *Engine) fetchRange(ctx context.Context, userID int64, from, to core.Date, window string) []core.Transaction {
	txs, err := e.transactions.ListRange(ctx, userID, from, to)
	if err != nil {
		slog.WarnContext(ctx, "Transaction fetch failed, window degraded to empty",
			"user_id", userID,
			"window", window,
			"from", from.Format("2006-01-02"),
			"to", to.Format("2006-01-02"),
			"error", err)
		return nil
	}
	return txs
}

// monthTotals sums txs into per-month buckets for the n calendar months
// immediately before (year, month), oldest omitted months counting as 0.
func monthTotals(txs []core.Transaction, year, month, n int) []core.Money {
	totals := make([]core.Money, n)
	y, m := year, month
	for i := 0; i < n; i++ {
		y, m = core.PrevMonth(y, m)
		for _, tx := range txs {
			if tx.Date.Year() == y && tx.Date.Month() == m {
				totals[i].Cents += tx.Amount.Cents
			}
		}
	}
	return totals
}

func topCategory(txs []core.Transaction) string {
	sums := aggregate.SumByCategory(txs)
	var best string
	var bestCents int64 = -1
	for category, m := range sums {
		if m.Cents > bestCents || (m.Cents == bestCents && category < best) {
			best, bestCents = category, m.Cents
		}
	}
	return best
}

func topCategoryShare(txs []core.Transaction, total core.Money) float64 {
	if total.Cents == 0 {
		return 0
	}
	sums := aggregate.SumByCategory(txs)
	var bestCents int64
	for _, m := range sums {
		if m.Cents > bestCents {
			bestCents = m.Cents
		}
	}
	return float64(bestCents) / float64(total.Cents) * 100
}
