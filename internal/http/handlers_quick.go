package http

import (
	"net/http"
	"time"

	"fintrack/internal/core"
)

type quickCardPayload struct {
	Title         string `json:"title"`
	Amount        string `json:"amount"`
	Category      string `json:"category"`
	SubCategory   string `json:"sub_category"`
	PaymentMethod string `json:"payment_method"`
}

type quickCardResponse struct {
	ID            int64  `json:"id"`
	Title         string `json:"title"`
	Amount        string `json:"amount"`
	AmountCents   int64  `json:"amount_cents"`
	Category      string `json:"category"`
	SubCategory   string `json:"sub_category,omitempty"`
	PaymentMethod string `json:"payment_method,omitempty"`
}

func (p quickCardPayload) toDomain(userID int64) (core.QuickCard, error) {
	amount, err := core.ParseAmount(p.Amount)
	if err != nil {
		return core.QuickCard{}, err
	}
	return core.QuickCard{
		UserID:        userID,
		Title:         sanitizeInput(p.Title),
		Amount:        amount,
		Category:      sanitizeInput(p.Category),
		SubCategory:   sanitizeInput(p.SubCategory),
		PaymentMethod: sanitizeInput(p.PaymentMethod),
	}, nil
}

func toQuickCardResponse(q core.QuickCard) quickCardResponse {
	return quickCardResponse{
		ID:            q.ID,
		Title:         q.Title,
		Amount:        q.Amount.String(),
		AmountCents:   q.Amount.Cents,
		Category:      q.Category,
		SubCategory:   q.SubCategory,
		PaymentMethod: q.PaymentMethod,
	}
}

func (s *Server) handleCreateQuickCard(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var payload quickCardPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	card, err := payload.toDomain(uid)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := card.Validate(); err != nil {
		writeError(w, r, err)
		return
	}

	id, err := s.storage.CreateQuickCard(r.Context(), card)
	if err != nil {
		writeError(w, r, err)
		return
	}

	card.ID = id
	writeJSON(w, http.StatusCreated, toQuickCardResponse(card))
}

func (s *Server) handleListQuickCards(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	cards, err := s.storage.ListQuickCards(r.Context(), uid)
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := make([]quickCardResponse, 0, len(cards))
	for _, c := range cards {
		out = append(out, toQuickCardResponse(c))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleUpdateQuickCard(w http.ResponseWriter, r *http.Request) {
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

	var payload quickCardPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	card, err := payload.toDomain(uid)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := card.Validate(); err != nil {
		writeError(w, r, err)
		return
	}

	if err := s.storage.UpdateQuickCard(r.Context(), uid, id, card); err != nil {
		writeError(w, r, err)
		return
	}

	card.ID = id
	writeJSON(w, http.StatusOK, toQuickCardResponse(card))
}

func (s *Server) handleDeleteQuickCard(w http.ResponseWriter, r *http.Request) {
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

	if err := s.storage.DeleteQuickCard(r.Context(), uid, id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleLogQuickCard records a transaction from a saved card. The date
// is optional and defaults to today.
func (s *Server) handleLogQuickCard(w http.ResponseWriter, r *http.Request) {
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

	var payload struct {
		Date string `json:"date"`
	}
	if r.ContentLength != 0 {
		if err := decodeJSON(r, &payload); err != nil {
			writeBadRequest(w, err.Error())
			return
		}
	}

	date := core.DateOf(time.Now())
	if payload.Date != "" {
		date, err = parseDate(payload.Date)
		if err != nil {
			writeError(w, r, err)
			return
		}
	}

	txnID, err := s.transactions.LogQuickCard(r.Context(), uid, id, date)
	if err != nil {
		writeError(w, r, err)
		return
	}

	s.invalidateReports(uid)
	writeJSON(w, http.StatusCreated, map[string]int64{"transaction_id": txnID})
}
