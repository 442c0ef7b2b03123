package entity

import (
	"time"

	"github.com/shandysiswandi/otpkeeper/internal/pkg/otp"
)

// Service is an enrolled OTP key. Secret holds the raw key bytes; Params
// never change after enrollment.
type Service struct {
	ID        string
	Name      string
	Issuer    string
	Secret    []byte
	Algorithm otp.Algorithm
	Digits    int
	Period    int
	// Position orders services within a catalog.
	Position  int
	CreatedAt time.Time
}

// Params returns the code parameters of s.
func (s Service) Params() otp.Params {
	return otp.Params{Algorithm: s.Algorithm, Digits: s.Digits, Period: s.Period}
}

// ServiceFromKey builds an unenrolled Service from a parsed otpauth key.
func ServiceFromKey(k *otp.Key) Service {
	return Service{
		Name:      k.Name,
		Issuer:    k.Issuer,
		Secret:    k.Secret,
		Algorithm: k.Algorithm,
		Digits:    k.Digits,
		Period:    k.Period,
	}
}

// Account is the owner of a catalog as seen by the vault.
type Account struct {
	ID           int64
	DisplayName  string
	ServiceCount int
}
