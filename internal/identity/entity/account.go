package entity

import "time"

// Account is a registered owner of a vault.
type Account struct {
	ID       int64
	Username string
	// Password is the bcrypt hash, never the plaintext.
	Password  string
	CreatedAt time.Time
}
