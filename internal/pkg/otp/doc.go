// Package otp implements the one-time password engine used by the vault.
//
// It covers the RFC 4226 HOTP and RFC 6238 TOTP algorithms, a bounded-window
// verifier, RFC 4648 base32 handling of shared secrets, and the
// otpauth:// key URI format understood by authenticator apps. Codes produced
// here are bit-compatible with any standard authenticator.
//
// Everything in this package is pure and safe for concurrent use. Secrets are
// handled as raw bytes; base32 only appears at the boundaries.
package otp
