package otp

import (
	"strings"
	"testing"

	potp "github.com/pquerna/otp"
	"github.com/pquerna/otp/hotp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	rfcSecretSHA1   = []byte("12345678901234567890")
	rfcSecretSHA256 = []byte("12345678901234567890123456789012")
	rfcSecretSHA512 = []byte("1234567890123456789012345678901234567890123456789012345678901234")
)

func TestHOTP_RFC4226Vectors(t *testing.T) {
	want := []string{
		"755224", "287082", "359152", "969429", "338314",
		"254676", "287922", "162583", "399871", "520489",
	}

	for counter, code := range want {
		got, err := HOTP(rfcSecretSHA1, uint64(counter), AlgorithmSHA1, 6)
		require.NoError(t, err)
		assert.Equal(t, code, got, "counter %d", counter)
	}
}

func TestTOTP_RFC6238Vectors(t *testing.T) {
	tests := []struct {
		unix   int64
		sha1   string
		sha256 string
		sha512 string
	}{
		{59, "94287082", "46119246", "90693936"},
		{1111111109, "07081804", "68084774", "25091201"},
		{1111111111, "14050471", "67062674", "99943326"},
		{1234567890, "89005924", "91819424", "93441116"},
		{2000000000, "69279037", "90698825", "38618901"},
		{20000000000, "65353130", "77737706", "47863826"},
	}

	for _, tt := range tests {
		got, err := TOTP(rfcSecretSHA1, tt.unix, Params{Algorithm: AlgorithmSHA1, Digits: 8, Period: 30})
		require.NoError(t, err)
		assert.Equal(t, tt.sha1, got, "sha1 at %d", tt.unix)

		got, err = TOTP(rfcSecretSHA256, tt.unix, Params{Algorithm: AlgorithmSHA256, Digits: 8, Period: 30})
		require.NoError(t, err)
		assert.Equal(t, tt.sha256, got, "sha256 at %d", tt.unix)

		got, err = TOTP(rfcSecretSHA512, tt.unix, Params{Algorithm: AlgorithmSHA512, Digits: 8, Period: 30})
		require.NoError(t, err)
		assert.Equal(t, tt.sha512, got, "sha512 at %d", tt.unix)
	}
}

func TestHOTP_MatchesPquerna(t *testing.T) {
	secret := []byte("interop-check-secret")
	algs := map[Algorithm]potp.Algorithm{
		AlgorithmSHA1:   potp.AlgorithmSHA1,
		AlgorithmSHA256: potp.AlgorithmSHA256,
		AlgorithmSHA512: potp.AlgorithmSHA512,
	}

	for ours, theirs := range algs {
		for _, digits := range []int{6, 7, 8, 10} {
			for counter := uint64(0); counter < 50; counter += 7 {
				got, err := HOTP(secret, counter, ours, digits)
				require.NoError(t, err)

				want, err := hotp.GenerateCodeCustom(EncodeBase32(secret), counter, hotp.ValidateOpts{
					Digits:    potp.Digits(digits),
					Algorithm: theirs,
				})
				require.NoError(t, err)
				assert.Equal(t, want, got, "%s/%d/%d", ours, digits, counter)
			}
		}
	}
}

func TestHOTP_DigitsAndPadding(t *testing.T) {
	for d := MinDigits; d <= MaxDigits; d++ {
		got, err := HOTP(rfcSecretSHA1, 1, AlgorithmSHA1, d)
		require.NoError(t, err)
		assert.Len(t, got, d)
		assert.Empty(t, strings.Trim(got, "0123456789"))
	}

	// 31-bit truncation of counter 0 is 1284755224; ten digits keep it whole.
	got, err := HOTP(rfcSecretSHA1, 0, AlgorithmSHA1, 10)
	require.NoError(t, err)
	assert.Equal(t, "1284755224", got)
}

func TestHOTP_Errors(t *testing.T) {
	_, err := HOTP(rfcSecretSHA1, 0, AlgorithmSHA1, 0)
	assert.ErrorIs(t, err, ErrInvalidDigits)

	_, err = HOTP(rfcSecretSHA1, 0, AlgorithmSHA1, 11)
	assert.ErrorIs(t, err, ErrInvalidDigits)

	_, err = HOTP(rfcSecretSHA1, 0, Algorithm("MD5"), 6)
	assert.ErrorIs(t, err, ErrUnsupportedAlgorithm)

	_, err = TOTP(rfcSecretSHA1, 59, Params{Algorithm: AlgorithmSHA1, Digits: 6, Period: 0})
	assert.ErrorIs(t, err, ErrInvalidPeriod)

	_, err = TOTP(rfcSecretSHA1, -1, DefaultParams())
	assert.ErrorIs(t, err, ErrInvalidTime)
}

func TestTOTP_StableWithinPeriod(t *testing.T) {
	p := DefaultParams()
	first, err := TOTP(rfcSecretSHA1, 1_700_000_010, p)
	require.NoError(t, err)

	for unix := int64(1_700_000_010); unix < 1_700_000_040; unix++ {
		got, err := TOTP(rfcSecretSHA1, unix, p)
		require.NoError(t, err)
		assert.Equal(t, first, got, "unix %d", unix)
	}
}

func TestTimeRemaining(t *testing.T) {
	tests := []struct {
		unix   int64
		period int
		want   int
	}{
		{unix: 0, period: 30, want: 30},
		{unix: 1, period: 30, want: 29},
		{unix: 29, period: 30, want: 1},
		{unix: 30, period: 30, want: 30},
		{unix: 59, period: 60, want: 1},
		{unix: 1_700_000_017, period: 30, want: 23},
		{unix: 5, period: 0, want: 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, TimeRemaining(tt.unix, tt.period), "unix %d period %d", tt.unix, tt.period)
	}
}

func TestParseAlgorithm(t *testing.T) {
	for _, in := range []string{"sha1", "SHA1", "Sha256", "sha512"} {
		a, err := ParseAlgorithm(in)
		require.NoError(t, err)
		assert.True(t, a.Valid())
	}

	_, err := ParseAlgorithm("MD5")
	assert.ErrorIs(t, err, ErrUnsupportedAlgorithm)

	_, err = ParseAlgorithm("")
	assert.ErrorIs(t, err, ErrUnsupportedAlgorithm)
}

func TestParams_WithDefaults(t *testing.T) {
	assert.Equal(t, DefaultParams(), Params{}.WithDefaults())

	p := Params{Algorithm: AlgorithmSHA512, Digits: 8, Period: 60}
	assert.Equal(t, p, p.WithDefaults())
}

func TestParams_ValidateKey(t *testing.T) {
	assert.NoError(t, DefaultParams().ValidateKey())
	assert.NoError(t, Params{Algorithm: AlgorithmSHA256, Digits: 8, Period: 1}.ValidateKey())

	assert.ErrorIs(t, Params{Algorithm: "MD5", Digits: 6, Period: 30}.ValidateKey(), ErrUnsupportedAlgorithm)
	assert.ErrorIs(t, Params{Algorithm: AlgorithmSHA1, Digits: 5, Period: 30}.ValidateKey(), ErrInvalidDigits)
	assert.ErrorIs(t, Params{Algorithm: AlgorithmSHA1, Digits: 9, Period: 30}.ValidateKey(), ErrInvalidDigits)
	assert.ErrorIs(t, Params{Algorithm: AlgorithmSHA1, Digits: 6, Period: 0}.ValidateKey(), ErrInvalidPeriod)
	assert.NoError(t, Params{Algorithm: AlgorithmSHA1, Digits: 6, Period: MaxPeriod}.ValidateKey())
	assert.ErrorIs(t, Params{Algorithm: AlgorithmSHA1, Digits: 6, Period: MaxPeriod + 1}.ValidateKey(), ErrInvalidPeriod)
}
