package analytics

import (
	"strings"
	"testing"

	"fintrack/internal/core"
)

func TestRecommendationsPriorityOrder(t *testing.T) {
	// Both a >10% month-over-month increase and a budget alert: the
	// warning must come before the alert.
	in := recommendationInput{
		CurrentTotal:     core.Money{Cents: 30000},
		PreviousTotal:    core.Money{Cents: 20000},
		BudgetAlertCount: 2,
	}

	recs := buildRecommendations(in)
	if len(recs) != 2 {
		t.Fatalf("expected 2 recommendations, got %d: %v", len(recs), recs)
	}
	if recs[0].Type != RecommendationWarning {
		t.Errorf("first = %q, want warning", recs[0].Type)
	}
	if recs[1].Type != RecommendationAlert {
		t.Errorf("second = %q, want alert", recs[1].Type)
	}
	if !strings.Contains(recs[1].Text, "2 categories") {
		t.Errorf("alert text must name the count: %q", recs[1].Text)
	}
}

func TestRecommendationsAllRules(t *testing.T) {
	in := recommendationInput{
		CurrentTotal:     core.Money{Cents: 100000},
		PreviousTotal:    core.Money{Cents: 50000},
		BudgetAlertCount: 1,
		TopCategory:      "Rent",
		TopCategoryShare: 80,
		HighestDayTotal:  core.Money{Cents: 50000},
		DailyAverage:     3000,
	}

	recs := buildRecommendations(in)
	if len(recs) != 4 {
		t.Fatalf("expected all 4 rules to fire, got %d: %v", len(recs), recs)
	}
	wantTypes := []string{RecommendationWarning, RecommendationAlert, RecommendationInfo, RecommendationInfo}
	for i, want := range wantTypes {
		if recs[i].Type != want {
			t.Errorf("recs[%d].Type = %q, want %q", i, recs[i].Type, want)
		}
	}
	if !strings.Contains(recs[2].Text, "Rent") {
		t.Errorf("concentration note must name the category: %q", recs[2].Text)
	}
}

func TestRecommendationsBoundaries(t *testing.T) {
	tests := []struct {
		name string
		in   recommendationInput
		want int
	}{
		{
			name: "exactly 10 percent increase does not warn",
			in: recommendationInput{
				CurrentTotal:  core.Money{Cents: 11000},
				PreviousTotal: core.Money{Cents: 10000},
			},
		},
		{
			name: "no previous month never warns",
			in: recommendationInput{
				CurrentTotal: core.Money{Cents: 99900},
			},
		},
		{
			name: "exactly 70 percent share does not trigger concentration",
			in: recommendationInput{
				TopCategory:      "Food",
				TopCategoryShare: 70,
			},
		},
		{
			name: "exactly 3x daily average does not trigger bulk note",
			in: recommendationInput{
				HighestDayTotal: core.Money{Cents: 9000},
				DailyAverage:    3000,
			},
		},
		{
			name: "zero daily average never triggers bulk note",
			in: recommendationInput{
				HighestDayTotal: core.Money{Cents: 9000},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if recs := buildRecommendations(tt.in); len(recs) != tt.want {
				t.Errorf("got %d recommendations, want %d: %v", len(recs), tt.want, recs)
			}
		})
	}
}
