package otp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseURL(t *testing.T) {
	hello := []byte{'H', 'e', 'l', 'l', 'o', '!', 0xde, 0xad, 0xbe, 0xef}

	tests := []struct {
		name string
		url  string
		want Key
	}{
		{
			name: "issuer in label and query",
			url:  "otpauth://totp/Example:alice@google.com?secret=JBSWY3DPEHPK3PXP&issuer=Example",
			want: Key{Type: TypeTOTP, Name: "alice@google.com", Issuer: "Example", Secret: hello,
				Algorithm: AlgorithmSHA1, Digits: 6, Period: 30},
		},
		{
			name: "query issuer wins over label",
			url:  "otpauth://totp/Old%20Corp:bob?secret=JBSWY3DPEHPK3PXP&issuer=New%20Corp",
			want: Key{Type: TypeTOTP, Name: "bob", Issuer: "New Corp", Secret: hello,
				Algorithm: AlgorithmSHA1, Digits: 6, Period: 30},
		},
		{
			name: "issuer from label only with space after colon",
			url:  "otpauth://totp/ACME%20Co:%20john.doe@email.com?secret=JBSWY3DPEHPK3PXP",
			want: Key{Type: TypeTOTP, Name: "john.doe@email.com", Issuer: "ACME Co", Secret: hello,
				Algorithm: AlgorithmSHA1, Digits: 6, Period: 30},
		},
		{
			name: "no issuer at all",
			url:  "otpauth://totp/carol?secret=jbswy3dpehpk3pxp",
			want: Key{Type: TypeTOTP, Name: "carol", Issuer: "", Secret: hello,
				Algorithm: AlgorithmSHA1, Digits: 6, Period: 30},
		},
		{
			name: "empty label",
			url:  "otpauth://totp/?secret=JBSWY3DPEHPK3PXP",
			want: Key{Type: TypeTOTP, Name: UnnamedService, Secret: hello,
				Algorithm: AlgorithmSHA1, Digits: 6, Period: 30},
		},
		{
			name: "issuer prefix without account",
			url:  "otpauth://totp/GitHub:?secret=JBSWY3DPEHPK3PXP",
			want: Key{Type: TypeTOTP, Name: UnnamedService, Issuer: "GitHub", Secret: hello,
				Algorithm: AlgorithmSHA1, Digits: 6, Period: 30},
		},
		{
			name: "explicit parameters",
			url:  "otpauth://totp/Acme:dave?secret=JBSWY3DPEHPK3PXP&algorithm=sha256&digits=8&period=60&image=https%3A%2F%2Fexample.com%2Fx.png",
			want: Key{Type: TypeTOTP, Name: "dave", Issuer: "Acme", Secret: hello,
				Algorithm: AlgorithmSHA256, Digits: 8, Period: 60},
		},
		{
			name: "hotp with counter",
			url:  "otpauth://hotp/Acme:erin?secret=JBSWY3DPEHPK3PXP&counter=42&algorithm=SHA512",
			want: Key{Type: TypeHOTP, Name: "erin", Issuer: "Acme", Secret: hello,
				Algorithm: AlgorithmSHA512, Digits: 6, Period: 30, Counter: 42},
		},
		{
			name: "padded secret",
			url:  "otpauth://totp/frank?secret=MZXW6YTBOI%3D%3D%3D%3D%3D%3D",
			want: Key{Type: TypeTOTP, Name: "frank", Secret: []byte("foobar"),
				Algorithm: AlgorithmSHA1, Digits: 6, Period: 30},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseURL(tt.url)
			require.NoError(t, err)
			assert.Equal(t, tt.want, *got)
		})
	}
}

func TestParseURL_Errors(t *testing.T) {
	tests := []struct {
		name string
		url  string
		err  error
	}{
		{name: "not a url", url: "::not a url", err: ErrMalformedURL},
		{name: "wrong scheme", url: "https://totp/a?secret=JBSWY3DPEHPK3PXP", err: ErrMalformedURL},
		{name: "wrong type", url: "otpauth://motp/a?secret=JBSWY3DPEHPK3PXP", err: ErrMalformedURL},
		{name: "bad query escape", url: "otpauth://totp/a?secret=JBSWY3DPEHPK3PXP&issuer=%zz", err: ErrMalformedURL},
		{name: "missing secret", url: "otpauth://totp/a?issuer=x", err: ErrMissingSecret},
		{name: "empty secret", url: "otpauth://totp/a?secret=", err: ErrMissingSecret},
		{name: "secret not base32", url: "otpauth://totp/a?secret=JBSW0189", err: ErrMissingSecret},
		{name: "secret only padding", url: "otpauth://totp/a?secret=%3D%3D%3D%3D", err: ErrMissingSecret},
		{name: "unknown algorithm", url: "otpauth://totp/a?secret=JBSWY3DPEHPK3PXP&algorithm=MD5", err: ErrUnsupportedAlgorithm},
		{name: "digits not a number", url: "otpauth://totp/a?secret=JBSWY3DPEHPK3PXP&digits=six", err: ErrInvalidDigits},
		{name: "digits too small", url: "otpauth://totp/a?secret=JBSWY3DPEHPK3PXP&digits=4", err: ErrInvalidDigits},
		{name: "digits too large", url: "otpauth://totp/a?secret=JBSWY3DPEHPK3PXP&digits=9", err: ErrInvalidDigits},
		{name: "period zero", url: "otpauth://totp/a?secret=JBSWY3DPEHPK3PXP&period=0", err: ErrMalformedURL},
		{name: "period not a number", url: "otpauth://totp/a?secret=JBSWY3DPEHPK3PXP&period=x", err: ErrInvalidPeriod},
		{name: "period beyond int32", url: "otpauth://totp/a?secret=JBSWY3DPEHPK3PXP&period=3000000000", err: ErrInvalidPeriod},
		{name: "hotp without counter", url: "otpauth://hotp/a?secret=JBSWY3DPEHPK3PXP", err: ErrMissingCounter},
		{name: "hotp negative counter", url: "otpauth://hotp/a?secret=JBSWY3DPEHPK3PXP&counter=-1", err: ErrMalformedURL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseURL(tt.url)
			assert.Nil(t, got)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestParseURL_SecretErrorKeepsEncodingCause(t *testing.T) {
	_, err := ParseURL("otpauth://totp/a?secret=JBSW0189")
	assert.ErrorIs(t, err, ErrMissingSecret)
	assert.ErrorIs(t, err, ErrInvalidEncoding)
}

func TestKeyURL_RoundTrip(t *testing.T) {
	keys := []Key{
		{Type: TypeTOTP, Name: "alice@example.com", Issuer: "Example Inc", Secret: []byte("some secret bytes"),
			Algorithm: AlgorithmSHA1, Digits: 6, Period: 30},
		{Type: TypeTOTP, Name: "no-issuer", Secret: []byte{0x00, 0xff, 0x10},
			Algorithm: AlgorithmSHA512, Digits: 8, Period: 45},
		{Type: TypeHOTP, Name: "counter user", Issuer: "Bank", Secret: []byte("hotp"),
			Algorithm: AlgorithmSHA256, Digits: 7, Period: 30, Counter: 9},
	}

	for _, k := range keys {
		got, err := ParseURL(k.URL())
		require.NoError(t, err, k.URL())
		assert.Equal(t, k, *got)
	}
}
