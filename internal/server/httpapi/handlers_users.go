package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mkravets/vaultapi/internal/common"
)

type signUpRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	if !reEmail.MatchString(req.Email) {
		writeMessage(w, http.StatusBadRequest, "Email must be a valid address.")
		return
	}
	if !strongPassword(req.Password) {
		writeMessage(w, http.StatusBadRequest,
			"Password must be at least 10 characters and contain upper and lower case letters, a number and a symbol.")
		return
	}

	user, err := s.users.SignUp(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			writeMessage(w, http.StatusConflict, "Email address is already registered.")
			return
		}
		s.logger.Error(r.Context(), err.Error())
		writeMessage(w, http.StatusInternalServerError, "Internal server error.")
		return
	}

	s.logger.Info(r.Context(), "Registered", "email", user.Email)
	writeJSON(w, http.StatusCreated, map[string]any{"id": user.ID, "email": user.Email})
}

func (s *Server) handleSignIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeMessage(w, http.StatusBadRequest, "Email and password must not be empty.")
		return
	}

	token, err := s.users.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			writeMessage(w, http.StatusUnauthorized, "Email or password is incorrect.")
			return
		}
		s.logger.Error(r.Context(), err.Error())
		writeMessage(w, http.StatusInternalServerError, "Internal server error.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"access_token": token})
}
