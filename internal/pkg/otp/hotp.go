package otp

import (
	potp "github.com/pquerna/otp"
	"github.com/pquerna/otp/hotp"
)

// HOTP computes the RFC 4226 code for secret at counter, left-padded with
// zeros to exactly digits characters.
func HOTP(secret []byte, counter uint64, alg Algorithm, digits int) (string, error) {
	opts, err := hotpOpts(alg, digits)
	if err != nil {
		return "", err
	}

	code, err := hotp.GenerateCodeCustom(EncodeBase32(secret), counter, opts)
	if err != nil {
		return "", ErrInvalidEncoding
	}

	return code, nil
}

func hotpOpts(alg Algorithm, digits int) (hotp.ValidateOpts, error) {
	if digits < MinDigits || digits > MaxDigits {
		return hotp.ValidateOpts{}, ErrInvalidDigits
	}

	a, err := pquernaAlgorithm(alg)
	if err != nil {
		return hotp.ValidateOpts{}, err
	}

	return hotp.ValidateOpts{Digits: potp.Digits(digits), Algorithm: a}, nil
}

// TOTP computes the RFC 6238 code for secret at the given unix time.
// The counter is unix / p.Period using integer division.
func TOTP(secret []byte, unix int64, p Params) (string, error) {
	counter, err := timeCounter(unix, p.Period)
	if err != nil {
		return "", err
	}

	return HOTP(secret, counter, p.Algorithm, p.Digits)
}

// TimeRemaining returns the whole seconds left until the code for unix
// changes. The result is always in [1, period]. A non-positive period
// yields 0.
func TimeRemaining(unix int64, period int) int {
	if period <= 0 {
		return 0
	}

	p := int64(period)
	return int(p - ((unix%p)+p)%p)
}

func timeCounter(unix int64, period int) (uint64, error) {
	if period <= 0 {
		return 0, ErrInvalidPeriod
	}
	if unix < 0 {
		return 0, ErrInvalidTime
	}

	return uint64(unix) / uint64(period), nil
}
