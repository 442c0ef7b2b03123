package hash

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// Hash is a one-way password hash.
type Hash interface {
	Hash(plaintext string) ([]byte, error)
	Verify(hashed, plaintext string) bool
}

// ErrTooLong is returned for inputs that bcrypt would silently truncate.
var ErrTooLong = errors.New("hash: input exceeds 72 bytes")

// Bcrypt hashes with bcrypt after appending a server-side pepper.
type Bcrypt struct {
	cost   int
	pepper string
}

// NewBcrypt returns a bcrypt hasher. A cost outside bcrypt's accepted range
// falls back to bcrypt.DefaultCost.
func NewBcrypt(cost int, pepper string) *Bcrypt {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Bcrypt{cost: cost, pepper: pepper}
}

// Hash returns the bcrypt hash of plaintext and the pepper.
func (h *Bcrypt) Hash(plaintext string) ([]byte, error) {
	in := []byte(plaintext + h.pepper)
	if len(in) > 72 {
		return nil, ErrTooLong
	}
	return bcrypt.GenerateFromPassword(in, h.cost)
}

// Verify reports whether plaintext matches hashed.
func (h *Bcrypt) Verify(hashed, plaintext string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plaintext+h.pepper)) == nil
}
