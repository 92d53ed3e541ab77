package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"regexp"

	"github.com/mkravets/vaultapi/internal/common"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"message": msg})
}

// validationError keeps a caller-facing message while matching
// common.ErrorValidation under errors.Is.
type validationError struct {
	msg string
}

func (e *validationError) Error() string { return e.msg }

func (e *validationError) Is(target error) bool { return target == common.ErrorValidation }

func invalid(msg string) error { return &validationError{msg: msg} }

var (
	reEmail      = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	reUpper      = regexp.MustCompile(`[A-Z]`)
	reLower      = regexp.MustCompile(`[a-z]`)
	reDigit      = regexp.MustCompile(`[0-9]`)
	reSym        = regexp.MustCompile(`[^A-Za-z0-9]`)
	reCardNumber = regexp.MustCompile(`^[0-9]{13,19}$`)
	reCVC        = regexp.MustCompile(`^[0-9]{3}$`)
	reMonth      = regexp.MustCompile(`^(0[1-9]|1[0-2])$`)
	reYear       = regexp.MustCompile(`^[0-9]{4}$`)
	reURL        = regexp.MustCompile(`^https?://\S+$`)
)

// strongPassword enforces the sign-up password policy: at least 10
// characters with upper, lower, digit and symbol.
func strongPassword(p string) bool {
	return len(p) >= 10 &&
		reUpper.MatchString(p) &&
		reLower.MatchString(p) &&
		reDigit.MatchString(p) &&
		reSym.MatchString(p)
}

// writeServiceError translates the error taxonomy into status codes and
// stable messages for the given resource kind. Unexpected errors (storage
// faults and the like) collapse to a plain 500 without leaking detail.
func writeServiceError(w http.ResponseWriter, err error, kind, kindTitle string) {
	switch {
	case errors.Is(err, common.ErrorValidation):
		writeMessage(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, common.ErrorAlreadyExists):
		writeMessage(w, http.StatusConflict, "A "+kind+" with this title already exists for the user.")
	case errors.Is(err, common.ErrorNotFound):
		writeMessage(w, http.StatusNotFound, kindTitle+" not found.")
	case errors.Is(err, common.ErrorForbidden):
		writeMessage(w, http.StatusForbidden, "You do not have permission to access this "+kind+".")
	case errors.Is(err, common.ErrorUnauthorized):
		writeMessage(w, http.StatusUnauthorized, "Unauthorized.")
	case errors.Is(err, common.ErrorDecryption):
		writeMessage(w, http.StatusInternalServerError, "Failed to decrypt "+kind+".")
	default:
		writeMessage(w, http.StatusInternalServerError, "Internal server error.")
	}
}
