package http

import (
	"net/http"

	"fintrack/internal/core"
	"fintrack/internal/storage"
)

type transactionPayload struct {
	Date          string `json:"date"`
	Title         string `json:"title"`
	Amount        string `json:"amount"`
	Category      string `json:"category"`
	SubCategory   string `json:"sub_category"`
	PaymentMethod string `json:"payment_method"`
}

func (p transactionPayload) toDomain(userID int64) (core.Transaction, error) {
	date, err := parseDate(p.Date)
	if err != nil {
		return core.Transaction{}, err
	}
	amount, err := core.ParseAmount(p.Amount)
	if err != nil {
		return core.Transaction{}, err
	}
	return core.Transaction{
		UserID:        userID,
		Date:          date,
		Title:         sanitizeInput(p.Title),
		Amount:        amount,
		Category:      sanitizeInput(p.Category),
		SubCategory:   sanitizeInput(p.SubCategory),
		PaymentMethod: sanitizeInput(p.PaymentMethod),
	}, nil
}

type transactionResponse struct {
	ID            int64  `json:"id"`
	Date          string `json:"date"`
	Title         string `json:"title"`
	Amount        string `json:"amount"`
	AmountCents   int64  `json:"amount_cents"`
	Category      string `json:"category"`
	SubCategory   string `json:"sub_category,omitempty"`
	PaymentMethod string `json:"payment_method,omitempty"`
}

func toTransactionResponse(t core.Transaction) transactionResponse {
	return transactionResponse{
		ID:            t.ID,
		Date:          t.Date.Format("2006-01-02"),
		Title:         t.Title,
		Amount:        t.Amount.String(),
		AmountCents:   t.Amount.Cents,
		Category:      t.Category,
		SubCategory:   t.SubCategory,
		PaymentMethod: t.PaymentMethod,
	}
}

func toTransactionResponses(txs []core.Transaction) []transactionResponse {
	out := make([]transactionResponse, 0, len(txs))
	for _, t := range txs {
		out = append(out, toTransactionResponse(t))
	}
	return out
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var payload transactionPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	txn, err := payload.toDomain(uid)
	if err != nil {
		writeError(w, r, err)
		return
	}

	id, err := s.transactions.Create(r.Context(), txn)
	if err != nil {
		writeError(w, r, err)
		return
	}

	s.invalidateReports(uid)
	txn.ID = id
	writeJSON(w, http.StatusCreated, toTransactionResponse(txn))
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
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

	txn, err := s.storage.GetTransaction(r.Context(), uid, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTransactionResponse(txn))
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
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

	var payload transactionPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	txn, err := payload.toDomain(uid)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := s.transactions.Update(r.Context(), uid, id, txn); err != nil {
		writeError(w, r, err)
		return
	}

	s.invalidateReports(uid)
	txn.ID = id
	writeJSON(w, http.StatusOK, toTransactionResponse(txn))
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
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

	if err := s.transactions.Delete(r.Context(), uid, id); err != nil {
		writeError(w, r, err)
		return
	}

	s.invalidateReports(uid)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	q := r.URL.Query()
	filter := storage.TransactionFilter{
		Category: sanitizeInput(q.Get("category")),
		Search:   sanitizeInput(q.Get("search")),
		Sort:     storage.SortOrder(q.Get("sort")),
	}
	if v := q.Get("from"); v != "" {
		filter.From, err = parseDate(v)
		if err != nil {
			writeBadRequest(w, "invalid from date")
			return
		}
	}
	if v := q.Get("to"); v != "" {
		filter.To, err = parseDate(v)
		if err != nil {
			writeBadRequest(w, "invalid to date")
			return
		}
	}

	txs, err := s.storage.ListTransactions(r.Context(), uid, filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTransactionResponses(txs))
}
