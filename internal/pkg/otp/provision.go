package otp

import (
	"bytes"
	"image/png"

	potp "github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

const (
	// SecretSize is the byte length of generated secrets, as recommended by RFC 4226.
	SecretSize = 20

	qrSize = 256
)

// Provisioned is a freshly generated TOTP key ready to be enrolled.
type Provisioned struct {
	Key *Key
	// URL is the otpauth URL encoded in QRCode.
	URL string
	// QRCode is a PNG image of URL for authenticator apps to scan.
	QRCode []byte
}

// Provision generates a new random secret for issuer and accountName and
// renders it as an otpauth URL plus a scannable QR code.
func Provision(issuer, accountName string, p Params) (*Provisioned, error) {
	if err := p.ValidateKey(); err != nil {
		return nil, err
	}
	alg, err := pquernaAlgorithm(p.Algorithm)
	if err != nil {
		return nil, err
	}

	gk, err := totp.Generate(totp.GenerateOpts{
		Issuer:      issuer,
		AccountName: accountName,
		Period:      uint(p.Period),
		SecretSize:  SecretSize,
		Digits:      potp.Digits(p.Digits),
		Algorithm:   alg,
	})
	if err != nil {
		return nil, err
	}

	key, err := ParseURL(gk.URL())
	if err != nil {
		return nil, err
	}

	img, err := gk.Image(qrSize, qrSize)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}

	return &Provisioned{Key: key, URL: gk.URL(), QRCode: buf.Bytes()}, nil
}

func pquernaAlgorithm(a Algorithm) (potp.Algorithm, error) {
	switch a {
	case AlgorithmSHA1:
		return potp.AlgorithmSHA1, nil
	case AlgorithmSHA256:
		return potp.AlgorithmSHA256, nil
	case AlgorithmSHA512:
		return potp.AlgorithmSHA512, nil
	default:
		return 0, ErrUnsupportedAlgorithm
	}
}
