package otp

import (
	"bytes"
	"image/png"
	"testing"
	"time"

	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProvision(t *testing.T) {
	got, err := Provision("Acme", "alice@example.com", DefaultParams())
	require.NoError(t, err)

	assert.Equal(t, TypeTOTP, got.Key.Type)
	assert.Equal(t, "Acme", got.Key.Issuer)
	assert.Equal(t, "alice@example.com", got.Key.Name)
	assert.Len(t, got.Key.Secret, SecretSize)
	assert.Equal(t, DefaultParams(), got.Key.Params())

	parsed, err := ParseURL(got.URL)
	require.NoError(t, err)
	assert.Equal(t, got.Key, parsed)

	img, err := png.Decode(bytes.NewReader(got.QRCode))
	require.NoError(t, err)
	assert.Equal(t, qrSize, img.Bounds().Dx())

	now := time.Now()
	code, err := TOTP(got.Key.Secret, now.Unix(), got.Key.Params())
	require.NoError(t, err)
	assert.True(t, totp.Validate(code, EncodeBase32(got.Key.Secret)))
}

func TestProvision_Invalid(t *testing.T) {
	_, err := Provision("Acme", "a", Params{Algorithm: "MD5", Digits: 6, Period: 30})
	assert.ErrorIs(t, err, ErrUnsupportedAlgorithm)

	_, err = Provision("Acme", "a", Params{Algorithm: AlgorithmSHA1, Digits: 4, Period: 30})
	assert.ErrorIs(t, err, ErrInvalidDigits)

	_, err = Provision("Acme", "a", Params{Algorithm: AlgorithmSHA1, Digits: 6, Period: 0})
	assert.ErrorIs(t, err, ErrInvalidPeriod)

	_, err = Provision("", "a", DefaultParams())
	assert.Error(t, err)
}
