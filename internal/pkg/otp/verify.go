package otp

import "github.com/pquerna/otp/hotp"

// Verify reports whether code is the TOTP for secret at any counter within
// window steps of the counter for unix, inclusive on both sides.
//
// Counters below zero are skipped. Malformed codes and invalid parameters
// make Verify return false; it never fails with an error.
func Verify(secret []byte, code string, unix int64, p Params, window int) bool {
	if window < 0 || len(code) != p.Digits || !numeric(code) {
		return false
	}

	opts, err := hotpOpts(p.Algorithm, p.Digits)
	if err != nil {
		return false
	}

	base, err := timeCounter(unix, p.Period)
	if err != nil {
		return false
	}

	w := uint64(window)
	lo := uint64(0)
	if base > w {
		lo = base - w
	}

	encoded := EncodeBase32(secret)
	for c := lo; c <= base+w; c++ {
		// ValidateCustom compares in constant time.
		ok, err := hotp.ValidateCustom(code, c, encoded, opts)
		if err != nil {
			return false
		}
		if ok {
			return true
		}
	}

	return false
}

func numeric(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s != ""
}
