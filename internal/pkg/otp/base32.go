package otp

import (
	"encoding/base32"
	"strings"
)

var b32 = base32.StdEncoding.WithPadding(base32.NoPadding)

// EncodeBase32 returns the unpadded, uppercase RFC 4648 encoding of b.
func EncodeBase32(b []byte) string {
	return b32.EncodeToString(b)
}

// DecodeBase32 decodes RFC 4648 base32 text.
//
// Decoding is case-insensitive and accepts the input with or without trailing
// "=" padding. Any other character outside A-Z and 2-7, including whitespace,
// yields ErrInvalidEncoding.
func DecodeBase32(text string) ([]byte, error) {
	s := strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' {
			return r - 'a' + 'A'
		}
		return r
	}, text)
	s = strings.TrimRight(s, "=")

	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < 'A' || c > 'Z') && (c < '2' || c > '7') {
			return nil, ErrInvalidEncoding
		}
	}

	out, err := b32.DecodeString(s)
	if err != nil {
		return nil, ErrInvalidEncoding
	}

	return out, nil
}
