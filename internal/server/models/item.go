package models

import "time"

// VaultItem is the abstract shape shared by Card, Credential and Note:
// an owned, titled record whose sensitive fields are stored as field-cipher
// envelopes. Plaintext for those fields exists only in view DTOs produced
// by the decrypt-on-read pipeline.
type VaultItem interface {
	ItemID() string
	OwnerID() int64
	ItemTitle() string
}

// Card stores payment card data. Number, CVC and password are ciphertext
// envelopes at rest.
type Card struct {
	ID                string
	UserID            int64
	Title             string
	CardHolder        string
	ExpiryMonth       string
	ExpiryYear        string
	IsVirtual         bool
	CardType          string
	EncryptedNumber   string
	EncryptedCVC      string
	EncryptedPassword string
	CreatedAt         time.Time
}

func (c Card) ItemID() string    { return c.ID }
func (c Card) OwnerID() int64    { return c.UserID }
func (c Card) ItemTitle() string { return c.Title }

// Credential stores a site login. The password is a ciphertext envelope at rest.
type Credential struct {
	ID                string
	UserID            int64
	Title             string
	URL               string
	Username          string
	EncryptedPassword string
	CreatedAt         time.Time
}

func (c Credential) ItemID() string    { return c.ID }
func (c Credential) OwnerID() int64    { return c.UserID }
func (c Credential) ItemTitle() string { return c.Title }

// Note stores free text, encrypted at rest.
type Note struct {
	ID            string
	UserID        int64
	Title         string
	EncryptedText string
	CreatedAt     time.Time
}

func (n Note) ItemID() string    { return n.ID }
func (n Note) OwnerID() int64    { return n.UserID }
func (n Note) ItemTitle() string { return n.Title }

// Descriptor maps a vault item type onto its table so a single generic
// repository can serve all three types. Columns, Args and Dest must agree
// on order; the first three columns are always id, user_id, title.
type Descriptor[T VaultItem] struct {
	// Table is the SQL table name.
	Table string
	// Kind is the lower-case human name used in messages ("card").
	Kind string
	// Columns lists every persisted column in insert/select order.
	Columns []string
	// Args returns insert arguments matching Columns.
	Args func(item *T) []any
	// Dest returns scan destinations matching Columns.
	Dest func(item *T) []any
}

// CardSpec describes the cards table.
var CardSpec = Descriptor[Card]{
	Table: "cards",
	Kind:  "card",
	Columns: []string{
		"id", "user_id", "title",
		"card_holder", "expiry_month", "expiry_year", "is_virtual", "card_type",
		"encrypted_number", "encrypted_cvc", "encrypted_password",
	},
	Args: func(c *Card) []any {
		return []any{
			c.ID, c.UserID, c.Title,
			c.CardHolder, c.ExpiryMonth, c.ExpiryYear, c.IsVirtual, c.CardType,
			c.EncryptedNumber, c.EncryptedCVC, c.EncryptedPassword,
		}
	},
	Dest: func(c *Card) []any {
		return []any{
			&c.ID, &c.UserID, &c.Title,
			&c.CardHolder, &c.ExpiryMonth, &c.ExpiryYear, &c.IsVirtual, &c.CardType,
			&c.EncryptedNumber, &c.EncryptedCVC, &c.EncryptedPassword,
		}
	},
}

// CredentialSpec describes the credentials table.
var CredentialSpec = Descriptor[Credential]{
	Table: "credentials",
	Kind:  "credential",
	Columns: []string{
		"id", "user_id", "title",
		"url", "username", "encrypted_password",
	},
	Args: func(c *Credential) []any {
		return []any{c.ID, c.UserID, c.Title, c.URL, c.Username, c.EncryptedPassword}
	},
	Dest: func(c *Credential) []any {
		return []any{&c.ID, &c.UserID, &c.Title, &c.URL, &c.Username, &c.EncryptedPassword}
	},
}

// NoteSpec describes the notes table.
var NoteSpec = Descriptor[Note]{
	Table: "notes",
	Kind:  "note",
	Columns: []string{
		"id", "user_id", "title",
		"encrypted_text",
	},
	Args: func(n *Note) []any {
		return []any{n.ID, n.UserID, n.Title, n.EncryptedText}
	},
	Dest: func(n *Note) []any {
		return []any{&n.ID, &n.UserID, &n.Title, &n.EncryptedText}
	},
}
