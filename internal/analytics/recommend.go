package analytics

import (
	"fmt"

	"fintrack/internal/core"
)

// spendingIncreaseWarnPct triggers the month-over-month warning.
const spendingIncreaseWarnPct = 10.0

// concentrationWarnPct triggers the single-category concentration note.
const concentrationWarnPct = 70.0

// bulkPurchaseFactor triggers the bulk-purchase note when the highest
// single day exceeds this multiple of the daily average.
const bulkPurchaseFactor = 3.0

// recommendationInput carries the already-computed metrics the rule
// engine evaluates. No rule re-derives data on its own.
type recommendationInput struct {
	CurrentTotal  core.Money
	PreviousTotal core.Money

	BudgetAlertCount int

	TopCategory      string
	TopCategoryShare float64 // percentage of the month's total

	HighestDayTotal core.Money
	DailyAverage    float64 // cents
}

// buildRecommendations evaluates the rules in fixed priority order.
// Rules are independent, not mutually exclusive; every triggered rule
// appears in the output, priority order preserved.
func buildRecommendations(in recommendationInput) []Recommendation {
	var recs []Recommendation

	// Rule 1: month-over-month spending jump.
	if in.PreviousTotal.Cents > 0 {
		changePct := float64(in.CurrentTotal.Cents-in.PreviousTotal.Cents) / float64(in.PreviousTotal.Cents) * 100
		if changePct > spendingIncreaseWarnPct {
			recs = append(recs, Recommendation{
				Type: RecommendationWarning,
				Text: fmt.Sprintf("Spending is up %.1f%% compared to last month.", changePct),
			})
		}
	}

	// Rule 2: exceeded budgets.
	if in.BudgetAlertCount > 0 {
		noun := "categories"
		if in.BudgetAlertCount == 1 {
			noun = "category"
		}
		recs = append(recs, Recommendation{
			Type: RecommendationAlert,
			Text: fmt.Sprintf("%d %s exceeded their budget this month.", in.BudgetAlertCount, noun),
		})
	}

	// Rule 3: spending concentrated in one category.
	if in.TopCategoryShare > concentrationWarnPct {
		recs = append(recs, Recommendation{
			Type: RecommendationInfo,
			Text: fmt.Sprintf("%s accounts for %.1f%% of this month's spending.", in.TopCategory, in.TopCategoryShare),
		})
	}

	// Rule 4: a single day far above the daily average.
	if in.DailyAverage > 0 && float64(in.HighestDayTotal.Cents) > bulkPurchaseFactor*in.DailyAverage {
		recs = append(recs, Recommendation{
			Type: RecommendationInfo,
			Text: "Your highest spending day is well above the daily average; check for a bulk purchase.",
		})
	}

	return recs
}
