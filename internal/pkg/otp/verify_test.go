package otp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerify(t *testing.T) {
	p := DefaultParams()
	const now = int64(1_700_000_010)

	codeAt := func(unix int64) string {
		c, err := TOTP(rfcSecretSHA1, unix, p)
		require.NoError(t, err)
		return c
	}

	tests := []struct {
		name   string
		code   string
		window int
		want   bool
	}{
		{name: "current step", code: codeAt(now), window: 1, want: true},
		{name: "previous step", code: codeAt(now - 30), window: 1, want: true},
		{name: "next step", code: codeAt(now + 30), window: 1, want: true},
		{name: "two steps back outside window", code: codeAt(now - 60), window: 1, want: false},
		{name: "two steps ahead outside window", code: codeAt(now + 60), window: 1, want: false},
		{name: "two steps back inside wider window", code: codeAt(now - 60), window: 2, want: true},
		{name: "two steps ahead inside wider window", code: codeAt(now + 60), window: 2, want: true},
		{name: "three steps ahead outside wider window", code: codeAt(now + 90), window: 2, want: false},
		{name: "exact only", code: codeAt(now - 30), window: 0, want: false},
		{name: "negative window", code: codeAt(now), window: -1, want: false},
		{name: "too short", code: codeAt(now)[:5], window: 1, want: false},
		{name: "too long", code: codeAt(now) + "0", window: 1, want: false},
		{name: "non numeric", code: "12a456", window: 1, want: false},
		{name: "empty", code: "", window: 1, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Verify(rfcSecretSHA1, tt.code, now, p, tt.window))
		})
	}
}

func TestVerify_InvalidParamsNeverMatch(t *testing.T) {
	code := "755224"
	assert.False(t, Verify(rfcSecretSHA1, code, 0, Params{Algorithm: "MD5", Digits: 6, Period: 30}, 1))
	assert.False(t, Verify(rfcSecretSHA1, code, 0, Params{Algorithm: AlgorithmSHA1, Digits: 6, Period: 0}, 1))
	assert.False(t, Verify(rfcSecretSHA1, code, -30, DefaultParams(), 1))
}

func TestVerify_ClampsAtCounterZero(t *testing.T) {
	// RFC 4226 counter 0 and 1 codes, seen at unix 0 with a one step window.
	p := DefaultParams()
	assert.True(t, Verify(rfcSecretSHA1, "755224", 0, p, 1))
	assert.True(t, Verify(rfcSecretSHA1, "287082", 0, p, 1))
	assert.False(t, Verify(rfcSecretSHA1, "359152", 0, p, 1))
}
