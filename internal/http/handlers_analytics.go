package http

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"fintrack/internal/aggregate"
	"fintrack/internal/analytics"
	"fintrack/internal/core"
)

// invalidateReports drops every cached report for the user. Called
// after any write that changes the ledger.
func (s *Server) invalidateReports(userID int64) {
	s.reportCache.DeletePrefix(fmt.Sprintf("%d:", userID))
}

func reportCacheKey(userID int64, year, month int) string {
	return fmt.Sprintf("%d:%d-%02d", userID, year, month)
}

func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	year, month, err := parseYearMonth(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	key := reportCacheKey(uid, year, month)
	if report, ok := s.reportCache.Get(key); ok {
		writeJSON(w, http.StatusOK, report)
		return
	}

	report := s.engine.Compute(r.Context(), uid, time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC))
	s.reportCache.Set(key, report)
	writeJSON(w, http.StatusOK, report)
}

type spendingsResponse struct {
	Year       int               `json:"year"`
	Month      int               `json:"month"`
	Total      string            `json:"total"`
	TotalCents int64             `json:"total_cents"`
	ByCategory map[string]string `json:"by_category"`
	Count      int               `json:"count"`
}

func (s *Server) handleSpendings(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	year, month, err := parseYearMonth(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	from, to := core.MonthBounds(year, month)
	txs, err := s.storage.ListRange(r.Context(), uid, from, to)
	if err != nil {
		writeError(w, r, err)
		return
	}

	total := aggregate.Total(txs)
	byCategory := make(map[string]string)
	for category, sum := range aggregate.SumByCategory(txs) {
		byCategory[category] = sum.String()
	}

	writeJSON(w, http.StatusOK, spendingsResponse{
		Year:       year,
		Month:      month,
		Total:      total.String(),
		TotalCents: total.Cents,
		ByCategory: byCategory,
		Count:      len(txs),
	})
}

type dashboardResponse struct {
	MaterializedCount  int                   `json:"materialized_count"`
	RecentTransactions []transactionResponse `json:"recent_transactions"`
	Spendings          spendingsResponse     `json:"spendings"`
	TopCategory        string                `json:"top_category,omitempty"`
	Report             analytics.Report      `json:"report"`
}

// handleDashboard materializes due recurring templates first so the
// numbers shown already include this month's fixed costs.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	ctx := r.Context()
	now := time.Now()

	created, err := s.materializer.ProcessUser(ctx, uid, core.DateOf(now))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if created > 0 {
		s.invalidateReports(uid)
	}

	recent, err := s.storage.ListRecentTransactions(ctx, uid, 5)
	if err != nil {
		writeError(w, r, err)
		return
	}

	year, month := now.Year(), int(now.Month())
	from, to := core.MonthBounds(year, month)
	txs, err := s.storage.ListRange(ctx, uid, from, to)
	if err != nil {
		writeError(w, r, err)
		return
	}
	total := aggregate.Total(txs)
	byCategory := make(map[string]string)
	topCategory := ""
	var topCents int64
	for category, sum := range aggregate.SumByCategory(txs) {
		byCategory[category] = sum.String()
		if sum.Cents > topCents || (sum.Cents == topCents && topCategory != "" && category < topCategory) {
			topCategory, topCents = category, sum.Cents
		}
	}

	key := reportCacheKey(uid, year, month)
	report, ok := s.reportCache.Get(key)
	if !ok {
		report = s.engine.Compute(ctx, uid, now)
		s.reportCache.Set(key, report)
	}

	recentOut := make([]transactionResponse, 0, len(recent))
	for _, t := range recent {
		recentOut = append(recentOut, toTransactionResponse(t))
	}

	writeJSON(w, http.StatusOK, dashboardResponse{
		MaterializedCount:  created,
		RecentTransactions: recentOut,
		Spendings: spendingsResponse{
			Year:       year,
			Month:      month,
			Total:      total.String(),
			TotalCents: total.Cents,
			ByCategory: byCategory,
			Count:      len(txs),
		},
		TopCategory: topCategory,
		Report:      report,
	})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	year, month, err := parseYearMonth(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	user, err := s.storage.GetUser(r.Context(), uid)
	if err != nil {
		writeError(w, r, err)
		return
	}

	data, err := s.exporter.Export(r.Context(), user.Username, year, month)
	if err != nil {
		writeError(w, r, err)
		return
	}

	filename := fmt.Sprintf("%s_%d.xlsx", time.Month(month).String(), year)
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) handleEmailReport(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	year, month, err := parseYearMonth(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	if err := s.reports.SendMonthlyReport(r.Context(), uid, year, month); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "sent"})
}
