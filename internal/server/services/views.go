package services

// View DTOs are the only place plaintext secrets exist after decryption.
// They double as create inputs; ID is assigned by the service and ignored
// on input. Ciphertext fields never appear here.

// CardView is the plaintext shape of a stored card.
type CardView struct {
	ID          string `json:"id,omitempty"`
	Title       string `json:"title"`
	CardHolder  string `json:"cardHolder"`
	ExpiryMonth string `json:"expiryMonth"`
	ExpiryYear  string `json:"expiryYear"`
	IsVirtual   bool   `json:"isVirtual"`
	CardType    string `json:"cardType"`
	CardNumber  string `json:"cardNumber"`
	CVC         string `json:"CVC"`
	Password    string `json:"password"`
}

// CredentialView is the plaintext shape of a stored credential.
type CredentialView struct {
	ID       string `json:"id,omitempty"`
	Title    string `json:"title"`
	URL      string `json:"url"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// NoteView is the plaintext shape of a stored note.
type NoteView struct {
	ID    string `json:"id,omitempty"`
	Title string `json:"title"`
	Text  string `json:"text"`
}
