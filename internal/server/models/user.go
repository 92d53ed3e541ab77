package models

import "time"

// User is an account row. The password is stored as a bcrypt hash; the
// field cipher is never involved in login credentials.
type User struct {
	ID                int64
	Email             string
	EncryptedPassword string
	CreatedAt         time.Time
}

// Identity is the authenticated {id, email} claim derived from a validated
// access token. Handlers must take the user id from here, never from a
// request body.
type Identity struct {
	ID    int64
	Email string
}
