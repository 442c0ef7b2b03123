package jwt

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrSigningKeyTooShort is returned when the HS512 key is under 64 bytes.
	ErrSigningKeyTooShort = errors.New("jwt: HS512 signing key must be at least 64 bytes")
	// ErrTokenExpired is returned for tokens past their expiry.
	ErrTokenExpired = errors.New("jwt: token has expired")
	// ErrInvalidToken is returned for malformed or unverifiable tokens.
	ErrInvalidToken = errors.New("jwt: invalid token")
)

// JWT issues and verifies access tokens.
type JWT interface {
	Generate(accountID int64, username string) (string, error)
	Verify(token string) (Claims, error)
}

// Claims is the access token payload.
type Claims struct {
	jwt.RegisteredClaims
	AccountID int64  `json:"account_id,string"`
	Username  string `json:"username"`
}

type clocker interface {
	Now() time.Time
}

type idGenerator interface {
	Generate() string
}

// Config configures NewHS512.
type Config struct {
	Secret    []byte
	Issuer    string
	Audiences []string
	TTL       time.Duration
	Clock     clocker
	ID        idGenerator
}

type authKey struct{}

// SetAuth returns ctx carrying clm.
func SetAuth(ctx context.Context, clm Claims) context.Context {
	return context.WithValue(ctx, authKey{}, clm)
}

// GetAuth returns the claims stored by SetAuth, or nil.
func GetAuth(ctx context.Context) *Claims {
	clm, ok := ctx.Value(authKey{}).(Claims)
	if !ok {
		return nil
	}
	return &clm
}
