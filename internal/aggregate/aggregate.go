// Package aggregate provides pure aggregation functions over in-memory
// transaction sets. Nothing here touches storage or clocks; results are
// deterministic for a given input set regardless of its ordering.
package aggregate

import (
	"fintrack/internal/core"
)

// SumByCategory returns per-category totals. Categories with no
// transactions in the set are absent from the result, not zero.
func SumByCategory(txs []core.Transaction) map[string]core.Money {
	sums := make(map[string]core.Money, 8)
	for _, tx := range txs {
		s := sums[tx.Category]
		s.Cents += tx.Amount.Cents
		sums[tx.Category] = s
	}
	return sums
}

// Total returns the sum of all amounts in the set.
func Total(txs []core.Transaction) core.Money {
	var total core.Money
	for _, tx := range txs {
		total.Cents += tx.Amount.Cents
	}
	return total
}

// Average returns the arithmetic mean amount in cents, 0 for an empty set.
func Average(txs []core.Transaction) float64 {
	if len(txs) == 0 {
		return 0
	}
	return float64(Total(txs).Cents) / float64(len(txs))
}

// GroupByDayOfWeek returns the average amount in cents per weekday over
// the transactions that occurred on that weekday. All seven weekday
// names are present; weekdays with no transactions map to 0.
func GroupByDayOfWeek(txs []core.Transaction) map[string]float64 {
	sums := make(map[string]int64, 7)
	counts := make(map[string]int, 7)
	for _, tx := range txs {
		day := tx.Date.Weekday().String()
		sums[day] += tx.Amount.Cents
		counts[day]++
	}

	averages := make(map[string]float64, 7)
	for wd := 0; wd < 7; wd++ {
		name := weekdayName(wd)
		if n := counts[name]; n > 0 {
			averages[name] = float64(sums[name]) / float64(n)
		} else {
			averages[name] = 0
		}
	}
	return averages
}

// HighestSpendingDay returns the calendar day with the largest summed
// amount and that sum. Ties break toward the earliest date, so the
// result is deterministic for any input ordering. Returns a zero Date
// for an empty set.
func HighestSpendingDay(txs []core.Transaction) (core.Date, core.Money) {
	totals := make(map[core.Date]int64, len(txs))
	for _, tx := range txs {
		key := core.DateOf(tx.Date.Time)
		totals[key] += tx.Amount.Cents
	}

	var (
		bestDay   core.Date
		bestCents int64
		found     bool
	)
	for day, cents := range totals {
		switch {
		case !found,
			cents > bestCents,
			cents == bestCents && day.Before(bestDay.Time):
			bestDay, bestCents, found = day, cents, true
		}
	}
	return bestDay, core.Money{Cents: bestCents}
}

func weekdayName(wd int) string {
	names := [...]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}
	return names[wd]
}
