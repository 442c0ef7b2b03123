package jwt

import (
	"errors"
	"strconv"

	libJWT "github.com/golang-jwt/jwt/v5"
)

// Symmetric signs and verifies tokens with an HMAC-SHA512 secret.
type Symmetric struct {
	cfg Config
}

// NewHS512 validates cfg and returns a Symmetric.
func NewHS512(cfg Config) (*Symmetric, error) {
	if len(cfg.Secret) < 64 {
		return nil, ErrSigningKeyTooShort
	}
	return &Symmetric{cfg: cfg}, nil
}

// Generate issues a token for the account valid for the configured TTL.
func (s *Symmetric) Generate(accountID int64, username string) (string, error) {
	now := s.cfg.Clock.Now()

	claims := Claims{
		RegisteredClaims: libJWT.RegisteredClaims{
			ID:        s.cfg.ID.Generate(),
			Subject:   strconv.FormatInt(accountID, 10),
			Issuer:    s.cfg.Issuer,
			Audience:  s.cfg.Audiences,
			IssuedAt:  libJWT.NewNumericDate(now),
			NotBefore: libJWT.NewNumericDate(now),
			ExpiresAt: libJWT.NewNumericDate(now.Add(s.cfg.TTL)),
		},
		AccountID: accountID,
		Username:  username,
	}

	return libJWT.NewWithClaims(libJWT.SigningMethodHS512, claims).SignedString(s.cfg.Secret)
}

// Verify checks signature, issuer, audience and time claims of token.
func (s *Symmetric) Verify(token string) (Claims, error) {
	var claims Claims

	parsed, err := libJWT.ParseWithClaims(token, &claims,
		func(*libJWT.Token) (any, error) { return s.cfg.Secret, nil },
		libJWT.WithValidMethods([]string{libJWT.SigningMethodHS512.Alg()}),
		libJWT.WithIssuer(s.cfg.Issuer),
		libJWT.WithAudience(s.cfg.Audiences...),
		libJWT.WithIssuedAt(),
		libJWT.WithExpirationRequired(),
		libJWT.WithTimeFunc(s.cfg.Clock.Now),
	)
	switch {
	case errors.Is(err, libJWT.ErrTokenExpired):
		return Claims{}, ErrTokenExpired
	case err != nil:
		return Claims{}, errors.Join(ErrInvalidToken, err)
	case !parsed.Valid:
		return Claims{}, ErrInvalidToken
	}

	return claims, nil
}
