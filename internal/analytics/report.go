package analytics

import (
	"fintrack/internal/core"
)

// Report is the fixed-shape analytics payload for one reference month.
// Every field is always present; a sub-computation that failed or had no
// data leaves its documented zero default behind. Callers cannot tell a
// degraded report from a complete one except through operator logs.
type Report struct {
	Year  int `json:"year"`
	Month int `json:"month"`

	// MonthlyTrend holds total spending for each of the 12 calendar
	// months of the reference year, index 0 = January.
	MonthlyTrend []MonthTotal `json:"monthly_trend"`

	// CategoryGrowth compares the reference month against the month
	// before it, one entry per category present in either.
	CategoryGrowth []CategoryGrowth `json:"category_growth"`

	// AverageTransaction is the mean amount in cents over the reference
	// month's transactions.
	AverageTransaction float64 `json:"average_transaction_cents"`

	// DailyAverage is the reference-month total divided by the actual
	// number of days in that month, in cents.
	DailyAverage float64 `json:"daily_average_cents"`

	// WeeklyPattern maps each weekday name to the average amount in
	// cents spent on that weekday within the reference month.
	WeeklyPattern map[string]float64 `json:"weekly_pattern"`

	HighestDay DaySpend `json:"highest_spending_day"`

	Anomalies []Anomaly `json:"anomalies"`

	SavingsTrend SavingsTrend `json:"savings_trend"`

	Recommendations []Recommendation `json:"recommendations"`
}

// MonthTotal is one month's total spending.
type MonthTotal struct {
	Month int        `json:"month"` // 1-12
	Total core.Money `json:"total"`
}

// CategoryGrowth is the month-over-month change for one category.
// A category absent last month but present now reports +100%; absent in
// both months reports 0%.
type CategoryGrowth struct {
	Category  string     `json:"category"`
	Current   core.Money `json:"current"`
	Previous  core.Money `json:"previous"`
	GrowthPct float64    `json:"growth_pct"`
}

// DaySpend is the calendar day with the largest summed spending.
type DaySpend struct {
	Date  core.Date  `json:"date"`
	Total core.Money `json:"total"`
}

// Anomaly flags a category whose reference-month total exceeds 1.5x its
// trailing 90-day average.
type Anomaly struct {
	Category string     `json:"category"`
	Current  core.Money `json:"current"`
	Baseline float64    `json:"baseline_avg_cents"`
	Ratio    float64    `json:"ratio"`
}

// Savings trend directions. A decrease in spending is the favorable
// outcome here.
const (
	TrendDecrease      = "decrease"
	TrendIncrease      = "increase"
	TrendStable        = "stable"
	TrendNotApplicable = "not_applicable"
)

// SavingsTrend compares the reference month's total against the average
// of the three preceding calendar months.
type SavingsTrend struct {
	Direction string     `json:"direction"`
	ChangePct float64    `json:"change_pct"`
	Current   core.Money `json:"current"`
	Baseline  float64    `json:"baseline_avg_cents"`
}

// Recommendation types, in rule priority order.
const (
	RecommendationWarning = "warning"
	RecommendationAlert   = "alert"
	RecommendationInfo    = "info"
)

// Recommendation is one triggered rule, consumed by presenters as
// opaque data.
type Recommendation struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// BudgetStatus is the separate budget entry point's result for one
// (user, month, year).
type BudgetStatus struct {
	Lines  []BudgetLine  `json:"lines"`
	Alerts []BudgetAlert `json:"alerts"`

	// Utilization is total spending in budgeted categories divided by
	// the total budgeted amount, as a percentage. 0 when no budget
	// exists. Spending in unbudgeted categories is excluded.
	Utilization float64 `json:"utilization_pct"`
}

// BudgetLine is one budget row with its actual spending.
type BudgetLine struct {
	Category  string     `json:"category"`
	Budget    core.Money `json:"budget"`
	Spent     core.Money `json:"spent"`
	Remaining core.Money `json:"remaining"`
	Percent   float64    `json:"percent"` // capped at 100 for display
}

// BudgetAlert flags a category whose spending exceeded its budget.
type BudgetAlert struct {
	Category     string     `json:"category"`
	Budget       core.Money `json:"budget"`
	Spent        core.Money `json:"spent"`
	Overspent    core.Money `json:"overspent"`
	OverspentPct float64    `json:"overspent_pct"`
}

// emptyReport returns a Report with every field at its documented
// default for the given reference month.
func emptyReport(year, month int) Report {
	trend := make([]MonthTotal, 12)
	for i := range trend {
		trend[i].Month = i + 1
	}
	pattern := make(map[string]float64, 7)
	for wd := 0; wd < 7; wd++ {
		pattern[weekdayNames[wd]] = 0
	}
	return Report{
		Year:         year,
		Month:        month,
		MonthlyTrend: trend,
		WeeklyPattern: pattern,
	}
}

var weekdayNames = [...]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}
