package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/jtully/wayfarer/backend/internal/domain"
)

// credentialsRequest is the body of both POST /api/signup and POST /api/login.
type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// signupResponse omits everything but the public account fields.
type signupResponse struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
}

// Signup handles POST /api/signup.
func (s *Server) Signup(w http.ResponseWriter, r *http.Request) {
	var body credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	user, err := s.auth.Signup(r.Context(), body.Username, body.Password)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			validationFailed(w, err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}

	writeJSON(w, http.StatusCreated, signupResponse{ID: user.ID, Username: user.Username})
}

// Login handles POST /api/login. On success the response carries the bearer
// token clients send on every authenticated request.
func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	var body credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	token, err := s.auth.Login(r.Context(), body.Username, body.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "invalid_credentials", "invalid username or password")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}
