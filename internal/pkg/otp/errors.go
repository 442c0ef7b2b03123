package otp

import "errors"

var (
	// ErrInvalidEncoding indicates text that is not valid RFC 4648 base32.
	ErrInvalidEncoding = errors.New("otp: invalid base32 encoding")

	// ErrMalformedURL indicates a string that is not a usable otpauth URL.
	ErrMalformedURL = errors.New("otp: malformed otpauth url")

	// ErrMissingSecret indicates an otpauth URL without a usable secret.
	ErrMissingSecret = errors.New("otp: missing secret")

	// ErrUnsupportedAlgorithm indicates a hash algorithm other than SHA1, SHA256 or SHA512.
	ErrUnsupportedAlgorithm = errors.New("otp: unsupported algorithm")

	// ErrInvalidDigits indicates a code length outside the accepted range.
	ErrInvalidDigits = errors.New("otp: invalid digits")

	// ErrInvalidPeriod indicates a non-positive TOTP period.
	ErrInvalidPeriod = errors.New("otp: invalid period")

	// ErrInvalidTime indicates a timestamp before the unix epoch.
	ErrInvalidTime = errors.New("otp: invalid time")

	// ErrMissingCounter indicates an hotp URL without a counter parameter.
	ErrMissingCounter = errors.New("otp: missing counter")
)
