package analytics

import (
	"sort"

	"fintrack/internal/aggregate"
	"fintrack/internal/core"
)

// anomalyMinTransactions is the smallest reference-month sample the
// anomaly detector will work with; below it there is not enough signal.
const anomalyMinTransactions = 5

// anomalyThreshold flags a category when its current total exceeds this
// multiple of its historical average. The comparison is exclusive.
const anomalyThreshold = 1.5

// monthlyTrend buckets a year's transactions into 12 monthly totals.
func monthlyTrend(txs []core.Transaction) []MonthTotal {
	trend := make([]MonthTotal, 12)
	for i := range trend {
		trend[i].Month = i + 1
	}
	for _, tx := range txs {
		m := tx.Date.Month()
		if m < 1 || m > 12 {
			continue
		}
		trend[m-1].Total.Cents += tx.Amount.Cents
	}
	return trend
}

// categoryGrowth compares per-category totals between two adjacent
// months. Entries are sorted by category name.
func categoryGrowth(current, previous []core.Transaction) []CategoryGrowth {
	curSums := aggregate.SumByCategory(current)
	prevSums := aggregate.SumByCategory(previous)

	categories := make(map[string]struct{}, len(curSums)+len(prevSums))
	for c := range curSums {
		categories[c] = struct{}{}
	}
	for c := range prevSums {
		categories[c] = struct{}{}
	}

	growth := make([]CategoryGrowth, 0, len(categories))
	for c := range categories {
		cur := curSums[c]
		prev := prevSums[c]

		var pct float64
		switch {
		case prev.Cents == 0 && cur.Cents == 0:
			pct = 0
		case prev.Cents == 0:
			pct = 100
		default:
			pct = float64(cur.Cents-prev.Cents) / float64(prev.Cents) * 100
		}

		growth = append(growth, CategoryGrowth{
			Category:  c,
			Current:   cur,
			Previous:  prev,
			GrowthPct: pct,
		})
	}

	sort.Slice(growth, func(i, j int) bool { return growth[i].Category < growth[j].Category })
	return growth
}

// detectAnomalies flags categories whose reference-month total exceeds
// 1.5x their trailing average. The baseline is the category's total over
// the 90 calendar days before the month divided by 3; the window is kept
// as-is rather than aligned to calendar months. Categories with no
// transactions in the window have no baseline and are never flagged.
// Returns nil when the reference month has fewer than 5 transactions.
func detectAnomalies(current, lookback []core.Transaction) []Anomaly {
	if len(current) < anomalyMinTransactions {
		return nil
	}

	curSums := aggregate.SumByCategory(current)
	baseSums := aggregate.SumByCategory(lookback)

	var anomalies []Anomaly
	for category, cur := range curSums {
		base, ok := baseSums[category]
		if !ok {
			continue // insufficient baseline
		}
		avg := float64(base.Cents) / 3
		if float64(cur.Cents) > anomalyThreshold*avg {
			anomalies = append(anomalies, Anomaly{
				Category: category,
				Current:  cur,
				Baseline: avg,
				Ratio:    float64(cur.Cents) / avg,
			})
		}
	}

	sort.Slice(anomalies, func(i, j int) bool { return anomalies[i].Category < anomalies[j].Category })
	return anomalies
}

// savingsTrend compares the reference month's total against the average
// of the three preceding calendar months' totals.
func savingsTrend(current core.Money, precedingTotals []core.Money) SavingsTrend {
	var sum int64
	for _, t := range precedingTotals {
		sum += t.Cents
	}
	baseline := float64(sum) / 3

	trend := SavingsTrend{Current: current, Baseline: baseline}
	if baseline == 0 {
		trend.Direction = TrendNotApplicable
		return trend
	}

	trend.ChangePct = (float64(current.Cents) - baseline) / baseline * 100
	switch {
	case trend.ChangePct < 0:
		trend.Direction = TrendDecrease
	case trend.ChangePct > 0:
		trend.Direction = TrendIncrease
	default:
		trend.Direction = TrendStable
	}
	return trend
}
