package httpapi

import (
	"strconv"
	"time"

	"github.com/mkravets/vaultapi/internal/server/services"
)

func validateCard(in services.CardView) error {
	if in.Title == "" {
		return invalid("Title must not be empty.")
	}
	if in.CardHolder == "" {
		return invalid("Card holder must not be empty.")
	}
	if !reMonth.MatchString(in.ExpiryMonth) {
		return invalid("Expiry month must be between 01 and 12.")
	}
	if !reYear.MatchString(in.ExpiryYear) {
		return invalid("Expiry year must be a four-digit year.")
	}
	if year, _ := strconv.Atoi(in.ExpiryYear); year < time.Now().Year() {
		return invalid("Expiry year must not be in the past.")
	}
	switch in.CardType {
	case "CREDIT", "DEBIT", "CREDIT_DEBIT":
	default:
		return invalid("Card type must be one of CREDIT, DEBIT, CREDIT_DEBIT.")
	}
	if !reCardNumber.MatchString(in.CardNumber) {
		return invalid("Card number must be 13 to 19 digits.")
	}
	if !reCVC.MatchString(in.CVC) {
		return invalid("CVC must be exactly 3 digits.")
	}
	if in.Password == "" {
		return invalid("Password must not be empty.")
	}
	return nil
}

func validateCredential(in services.CredentialView) error {
	if in.Title == "" {
		return invalid("Title must not be empty.")
	}
	if !reURL.MatchString(in.URL) {
		return invalid("URL must be a valid http(s) address.")
	}
	if in.Username == "" {
		return invalid("Username must not be empty.")
	}
	if in.Password == "" {
		return invalid("Password must not be empty.")
	}
	return nil
}

func validateNote(in services.NoteView) error {
	if in.Title == "" {
		return invalid("Title must not be empty.")
	}
	if in.Text == "" {
		return invalid("Text must not be empty.")
	}
	return nil
}
