package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mkravets/vaultapi/internal/common"
)

type eraseRequest struct {
	Password string `json:"password"`
}

// handleErase permanently deletes the authenticated user and everything
// they own, after re-verifying the password supplied in the body.
func (s *Server) handleErase(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Missing or invalid access token.")
		return
	}

	var req eraseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if req.Password == "" {
		writeMessage(w, http.StatusBadRequest, "Password must not be empty.")
		return
	}

	msg, err := s.erase.Erase(r.Context(), identity.ID, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			writeMessage(w, http.StatusUnauthorized, "Incorrect password.")
			return
		}
		s.logger.Error(r.Context(), err.Error())
		writeMessage(w, http.StatusInternalServerError, "Internal server error.")
		return
	}

	s.logger.Info(r.Context(), "Account erased", "user_id", identity.ID)
	writeMessage(w, http.StatusOK, msg)
}
