package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"fintrack/internal/analytics"
	"fintrack/internal/core"
)

func TestRenderReportBody(t *testing.T) {
	r := analytics.Report{
		Year:  2024,
		Month: 3,
		MonthlyTrend: []analytics.MonthTotal{
			{Month: 1}, {Month: 2},
			{Month: 3, Total: core.Money{Cents: 123450}},
			{Month: 4}, {Month: 5}, {Month: 6}, {Month: 7}, {Month: 8},
			{Month: 9}, {Month: 10}, {Month: 11}, {Month: 12},
		},
		DailyAverage: 3982.26,
		Anomalies: []analytics.Anomaly{
			{Category: "Dining", Current: core.Money{Cents: 16000}, Ratio: 1.6},
		},
		Recommendations: []analytics.Recommendation{
			{Type: analytics.RecommendationWarning, Text: "Spending is up 12.0% from last month"},
		},
	}

	body := renderReportBody("alice", r)

	require.True(t, strings.Contains(body, "March 2024"))
	require.True(t, strings.Contains(body, "alice"))
	require.True(t, strings.Contains(body, "1234.50"))
	require.True(t, strings.Contains(body, "Dining"))
	require.True(t, strings.Contains(body, "Spending is up 12.0%"))
}
