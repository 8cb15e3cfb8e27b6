package aggregate

import (
	"math/rand"
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

func TestSumByCategory(t *testing.T) {
	txs := []core.Transaction{
		tx(core.NewDate(2024, 3, 1), 1000, "Food"),
		tx(core.NewDate(2024, 3, 2), 500, "Food"),
		tx(core.NewDate(2024, 3, 3), 2000, "Transport"),
	}

	sums := SumByCategory(txs)
	if len(sums) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(sums))
	}
	if sums["Food"].Cents != 1500 {
		t.Errorf("Food = %d, want 1500", sums["Food"].Cents)
	}
	if sums["Transport"].Cents != 2000 {
		t.Errorf("Transport = %d, want 2000", sums["Transport"].Cents)
	}
	if _, ok := sums["Entertainment"]; ok {
		t.Error("absent category must not appear with zero value")
	}
}

// Category totals must always sum to the overall total.
func TestSumByCategoryMatchesTotal(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	categories := []string{"Food", "Transport", "Housing", "Fun"}

	var txs []core.Transaction
	for i := 0; i < 200; i++ {
		txs = append(txs, tx(
			core.NewDate(2024, 1+rng.Intn(12), 1+rng.Intn(28)),
			int64(1+rng.Intn(100000)),
			categories[rng.Intn(len(categories))],
		))
	}

	var catSum int64
	for _, m := range SumByCategory(txs) {
		catSum += m.Cents
	}
	if total := Total(txs).Cents; catSum != total {
		t.Errorf("category sums = %d, total = %d", catSum, total)
	}
}

func TestTotalAndAverage(t *testing.T) {
	if got := Total(nil).Cents; got != 0 {
		t.Errorf("Total(nil) = %d, want 0", got)
	}
	if got := Average(nil); got != 0 {
		t.Errorf("Average(nil) = %v, want 0", got)
	}

	txs := []core.Transaction{
		tx(core.NewDate(2024, 3, 1), 1000, "Food"),
		tx(core.NewDate(2024, 3, 2), 2000, "Food"),
		tx(core.NewDate(2024, 3, 3), 3000, "Food"),
	}
	if got := Total(txs).Cents; got != 6000 {
		t.Errorf("Total = %d, want 6000", got)
	}
	if got := Average(txs); got != 2000 {
		t.Errorf("Average = %v, want 2000", got)
	}
}

func TestGroupByDayOfWeek(t *testing.T) {
	// 2024-03-04 is a Monday, 2024-03-05 a Tuesday.
	txs := []core.Transaction{
		tx(core.NewDate(2024, 3, 4), 1000, "Food"),
		tx(core.NewDate(2024, 3, 11), 3000, "Food"), // also Monday
		tx(core.NewDate(2024, 3, 5), 500, "Food"),
	}

	pattern := GroupByDayOfWeek(txs)
	if len(pattern) != 7 {
		t.Fatalf("expected 7 weekdays, got %d", len(pattern))
	}
	if pattern["Monday"] != 2000 {
		t.Errorf("Monday = %v, want 2000", pattern["Monday"])
	}
	if pattern["Tuesday"] != 500 {
		t.Errorf("Tuesday = %v, want 500", pattern["Tuesday"])
	}
	if pattern["Sunday"] != 0 {
		t.Errorf("Sunday = %v, want 0", pattern["Sunday"])
	}
}

func TestHighestSpendingDay(t *testing.T) {
	txs := []core.Transaction{
		tx(core.NewDate(2024, 3, 1), 2000, "Food"),
		tx(core.NewDate(2024, 3, 2), 3000, "Food"),
		tx(core.NewDate(2024, 3, 2), 2000, "Transport"),
	}

	day, total := HighestSpendingDay(txs)
	if !day.Equal(core.NewDate(2024, 3, 2).Time) {
		t.Errorf("day = %v, want 2024-03-02", day)
	}
	if total.Cents != 5000 {
		t.Errorf("total = %d, want 5000", total.Cents)
	}
}

func TestHighestSpendingDayTieBreak(t *testing.T) {
	txs := []core.Transaction{
		tx(core.NewDate(2024, 3, 9), 1500, "Food"),
		tx(core.NewDate(2024, 3, 3), 1500, "Food"),
		tx(core.NewDate(2024, 3, 6), 1500, "Food"),
	}

	// Shuffle; the earliest tied day must win every time.
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 10; i++ {
		rng.Shuffle(len(txs), func(a, b int) { txs[a], txs[b] = txs[b], txs[a] })
		day, _ := HighestSpendingDay(txs)
		if !day.Equal(core.NewDate(2024, 3, 3).Time) {
			t.Fatalf("tie break chose %v, want 2024-03-03", day)
		}
	}
}

func TestHighestSpendingDayEmpty(t *testing.T) {
	day, total := HighestSpendingDay(nil)
	if !day.IsZero() || total.Cents != 0 {
		t.Errorf("empty set: day = %v, total = %d", day, total.Cents)
	}
}
