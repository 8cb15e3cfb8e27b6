package http

import (
	"net/http"

	"fintrack/internal/core"
)

type userPayload struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

type userResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var payload userPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	username := sanitizeInput(payload.Username)
	if username == "" {
		writeBadRequest(w, "username is required")
		return
	}

	user := core.User{
		Username: username,
		Email:    sanitizeInput(payload.Email),
	}
	id, err := s.storage.CreateUser(r.Context(), user)
	if err != nil {
		writeError(w, r, err)
		return
	}

	user.ID = id
	writeJSON(w, http.StatusCreated, userResponse{ID: user.ID, Username: user.Username, Email: user.Email})
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.storage.ListUsers(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, userResponse{ID: u.ID, Username: u.Username, Email: u.Email})
	}
	writeJSON(w, http.StatusOK, out)
}
