package otp

import (
	"math"
	"strings"
)

// Algorithm names the HMAC hash function used to derive codes.
type Algorithm string

const (
	AlgorithmSHA1   Algorithm = "SHA1"
	AlgorithmSHA256 Algorithm = "SHA256"
	AlgorithmSHA512 Algorithm = "SHA512"
)

// Defaults applied whenever a key omits a parameter.
const (
	DefaultAlgorithm = AlgorithmSHA1
	DefaultDigits    = 6
	DefaultPeriod    = 30
	DefaultWindow    = 1
)

// Bounds on code length. The algorithm itself accepts [MinDigits, MaxDigits];
// enrolled keys are restricted to [MinKeyDigits, MaxKeyDigits].
const (
	MinDigits    = 1
	MaxDigits    = 10
	MinKeyDigits = 6
	MaxKeyDigits = 8
)

// MaxPeriod is the longest step, in seconds, a key may declare.
const MaxPeriod = math.MaxInt32

// ParseAlgorithm maps a case-insensitive algorithm name to an Algorithm.
func ParseAlgorithm(s string) (Algorithm, error) {
	a := Algorithm(strings.ToUpper(strings.TrimSpace(s)))
	if !a.Valid() {
		return "", ErrUnsupportedAlgorithm
	}
	return a, nil
}

// Valid reports whether a is one of the supported algorithms.
func (a Algorithm) Valid() bool {
	switch a {
	case AlgorithmSHA1, AlgorithmSHA256, AlgorithmSHA512:
		return true
	default:
		return false
	}
}

// String returns the canonical name, e.g. "SHA256".
func (a Algorithm) String() string {
	return string(a)
}

// Params is the set of parameters, besides the secret, that determine a code.
type Params struct {
	Algorithm Algorithm
	Digits    int
	Period    int
}

// DefaultParams returns SHA1, 6 digits and a 30 second period.
func DefaultParams() Params {
	return Params{Algorithm: DefaultAlgorithm, Digits: DefaultDigits, Period: DefaultPeriod}
}

// WithDefaults returns p with every zero field replaced by its default.
func (p Params) WithDefaults() Params {
	if p.Algorithm == "" {
		p.Algorithm = DefaultAlgorithm
	}
	if p.Digits == 0 {
		p.Digits = DefaultDigits
	}
	if p.Period == 0 {
		p.Period = DefaultPeriod
	}
	return p
}

// ValidateKey reports whether p is acceptable for an enrolled key.
func (p Params) ValidateKey() error {
	if !p.Algorithm.Valid() {
		return ErrUnsupportedAlgorithm
	}
	if p.Digits < MinKeyDigits || p.Digits > MaxKeyDigits {
		return ErrInvalidDigits
	}
	if p.Period <= 0 || p.Period > MaxPeriod {
		return ErrInvalidPeriod
	}
	return nil
}
