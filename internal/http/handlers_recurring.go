package http

import (
	"net/http"
	"time"

	"fintrack/internal/core"
)

type recurringPayload struct {
	Title         string `json:"title"`
	Amount        string `json:"amount"`
	Category      string `json:"category"`
	SubCategory   string `json:"sub_category"`
	PaymentMethod string `json:"payment_method"`
	DayOfMonth    int    `json:"day_of_month"`
}

type recurringResponse struct {
	ID            int64  `json:"id"`
	Title         string `json:"title"`
	Amount        string `json:"amount"`
	AmountCents   int64  `json:"amount_cents"`
	Category      string `json:"category"`
	SubCategory   string `json:"sub_category,omitempty"`
	PaymentMethod string `json:"payment_method,omitempty"`
	DayOfMonth    int    `json:"day_of_month"`
	LastLogged    string `json:"last_logged,omitempty"`
	IsActive      bool   `json:"is_active"`
}

func toRecurringResponse(rt core.RecurringTransaction) recurringResponse {
	resp := recurringResponse{
		ID:            rt.ID,
		Title:         rt.Title,
		Amount:        rt.Amount.String(),
		AmountCents:   rt.Amount.Cents,
		Category:      rt.Category,
		SubCategory:   rt.SubCategory,
		PaymentMethod: rt.PaymentMethod,
		DayOfMonth:    rt.DayOfMonth,
		IsActive:      rt.IsActive,
	}
	if !rt.LastLogged.IsZero() {
		resp.LastLogged = rt.LastLogged.Format("2006-01-02")
	}
	return resp
}

func (s *Server) handleCreateRecurring(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var payload recurringPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	amount, err := core.ParseAmount(payload.Amount)
	if err != nil {
		writeError(w, r, err)
		return
	}

	tpl := core.RecurringTransaction{
		UserID:        uid,
		Title:         sanitizeInput(payload.Title),
		Amount:        amount,
		Category:      sanitizeInput(payload.Category),
		SubCategory:   sanitizeInput(payload.SubCategory),
		PaymentMethod: sanitizeInput(payload.PaymentMethod),
		DayOfMonth:    payload.DayOfMonth,
		IsActive:      true,
	}
	if err := tpl.Validate(); err != nil {
		writeError(w, r, err)
		return
	}

	id, err := s.storage.CreateRecurring(r.Context(), tpl)
	if err != nil {
		writeError(w, r, err)
		return
	}

	tpl.ID = id
	writeJSON(w, http.StatusCreated, toRecurringResponse(tpl))
}

func (s *Server) handleListRecurring(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	templates, err := s.storage.ListRecurring(r.Context(), uid)
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := make([]recurringResponse, 0, len(templates))
	for _, rt := range templates {
		out = append(out, toRecurringResponse(rt))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleDeleteRecurring(w http.ResponseWriter, r *http.Request) {
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

	if err := s.storage.DeleteRecurring(r.Context(), uid, id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSetRecurringActive(w http.ResponseWriter, r *http.Request) {
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
		Active bool `json:"active"`
	}
	if err := decodeJSON(r, &payload); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	if err := s.storage.SetRecurringActive(r.Context(), uid, id, payload.Active); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleProcessRecurring runs the materializer for the acting user on
// demand, the same sweep the background worker runs on its schedule.
func (s *Server) handleProcessRecurring(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	created, err := s.materializer.ProcessUser(r.Context(), uid, core.DateOf(time.Now()))
	if err != nil {
		writeError(w, r, err)
		return
	}

	if created > 0 {
		s.invalidateReports(uid)
	}
	writeJSON(w, http.StatusOK, map[string]int{"created": created})
}
