package http

import (
	"net/http"

	"fintrack/internal/core"
)

type budgetPayload struct {
	Category string `json:"category"`
	Amount   string `json:"amount"`
	Month    int    `json:"month"`
	Year     int    `json:"year"`
}

type budgetResponse struct {
	ID          int64  `json:"id"`
	Category    string `json:"category"`
	Amount      string `json:"amount"`
	AmountCents int64  `json:"amount_cents"`
	Month       int    `json:"month"`
	Year        int    `json:"year"`
}

func toBudgetResponse(b core.Budget) budgetResponse {
	return budgetResponse{
		ID:          b.ID,
		Category:    b.Category,
		Amount:      b.Amount.String(),
		AmountCents: b.Amount.Cents,
		Month:       b.Month,
		Year:        b.Year,
	}
}

// handleUpsertBudget creates or overwrites the budget for one
// (category, month, year).
func (s *Server) handleUpsertBudget(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var payload budgetPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	amount, err := core.ParseAmount(payload.Amount)
	if err != nil {
		writeError(w, r, err)
		return
	}

	budget := core.Budget{
		UserID:   uid,
		Category: sanitizeInput(payload.Category),
		Amount:   amount,
		Month:    payload.Month,
		Year:     payload.Year,
	}
	if err := budget.Validate(); err != nil {
		writeError(w, r, err)
		return
	}

	if err := s.storage.UpsertBudget(r.Context(), budget); err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toBudgetResponse(budget))
}

func (s *Server) handleListBudgets(w http.ResponseWriter, r *http.Request) {
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

	budgets, err := s.storage.ListBudgets(r.Context(), uid, month, year)
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := make([]budgetResponse, 0, len(budgets))
	for _, b := range budgets {
		out = append(out, toBudgetResponse(b))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleDeleteBudget(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	if err := s.storage.DeleteBudget(r.Context(), uid, id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleBudgetStatus reports each budget line against actual
// spending, plus overspend alerts and overall utilization.
func (s *Server) handleBudgetStatus(w http.ResponseWriter, r *http.Request) {
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

	status, err := s.engine.ComputeBudgetStatus(r.Context(), uid, month, year)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}
