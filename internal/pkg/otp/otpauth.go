package otp

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Type is the otpauth key type.
type Type string

const (
	TypeTOTP Type = "totp"
	TypeHOTP Type = "hotp"
)

// UnnamedService is the name given to keys whose label carries no account.
const UnnamedService = "Unnamed Service"

const scheme = "otpauth"

// Key is a parsed otpauth key with every default applied.
type Key struct {
	Type      Type
	Name      string
	Issuer    string
	Secret    []byte
	Algorithm Algorithm
	Digits    int
	Period    int
	// Counter is only meaningful for TypeHOTP.
	Counter uint64
}

// Params returns the code parameters of k.
func (k *Key) Params() Params {
	return Params{Algorithm: k.Algorithm, Digits: k.Digits, Period: k.Period}
}

// ParseURL parses an otpauth://totp/... or otpauth://hotp/... URL.
//
// The label is either "account" or "issuer:account". The issuer query
// parameter wins over the label prefix. Absent algorithm, digits and period
// take the package defaults; present but unusable values are rejected rather
// than replaced. Unknown query parameters are ignored.
func ParseURL(raw string) (*Key, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedURL, err)
	}

	if !strings.EqualFold(u.Scheme, scheme) {
		return nil, fmt.Errorf("%w: scheme must be %s", ErrMalformedURL, scheme)
	}

	typ := Type(strings.ToLower(u.Host))
	if typ != TypeTOTP && typ != TypeHOTP {
		return nil, fmt.Errorf("%w: unknown type %q", ErrMalformedURL, u.Host)
	}

	q, err := url.ParseQuery(u.RawQuery)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedURL, err)
	}

	key := &Key{
		Type:      typ,
		Algorithm: DefaultAlgorithm,
		Digits:    DefaultDigits,
		Period:    DefaultPeriod,
	}

	labelIssuer, account := splitLabel(strings.TrimPrefix(u.Path, "/"))
	key.Name = account
	if key.Name == "" {
		key.Name = UnnamedService
	}

	key.Issuer = strings.TrimSpace(q.Get("issuer"))
	if key.Issuer == "" {
		key.Issuer = labelIssuer
	}

	secret := q.Get("secret")
	if secret == "" {
		return nil, ErrMissingSecret
	}
	if key.Secret, err = DecodeBase32(secret); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMissingSecret, err)
	}
	if len(key.Secret) == 0 {
		return nil, ErrMissingSecret
	}

	if v := q.Get("algorithm"); v != "" {
		if key.Algorithm, err = ParseAlgorithm(v); err != nil {
			return nil, err
		}
	}

	if q.Has("digits") {
		d, err := strconv.Atoi(q.Get("digits"))
		if err != nil || d < MinKeyDigits || d > MaxKeyDigits {
			return nil, ErrInvalidDigits
		}
		key.Digits = d
	}

	if q.Has("period") {
		p, err := strconv.Atoi(q.Get("period"))
		if err != nil || p <= 0 || p > MaxPeriod {
			return nil, fmt.Errorf("%w: %w", ErrMalformedURL, ErrInvalidPeriod)
		}
		key.Period = p
	}

	if typ == TypeHOTP {
		v := q.Get("counter")
		if v == "" {
			return nil, ErrMissingCounter
		}
		if key.Counter, err = strconv.ParseUint(v, 10, 64); err != nil {
			return nil, fmt.Errorf("%w: invalid counter %q", ErrMalformedURL, v)
		}
	}

	return key, nil
}

// URL renders k as a canonical otpauth URL that ParseURL accepts.
func (k *Key) URL() string {
	v := url.Values{}
	v.Set("secret", EncodeBase32(k.Secret))
	if k.Issuer != "" {
		v.Set("issuer", k.Issuer)
	}
	v.Set("algorithm", k.Algorithm.String())
	v.Set("digits", strconv.Itoa(k.Digits))

	typ := k.Type
	if typ == "" {
		typ = TypeTOTP
	}
	if typ == TypeHOTP {
		v.Set("counter", strconv.FormatUint(k.Counter, 10))
	} else {
		v.Set("period", strconv.Itoa(k.Period))
	}

	label := k.Name
	if k.Issuer != "" {
		label = k.Issuer + ":" + k.Name
	}

	u := url.URL{Scheme: scheme, Host: string(typ), Path: "/" + label, RawQuery: v.Encode()}
	return u.String()
}

// splitLabel splits "issuer:account" at the first colon. Issuers cannot
// contain a colon, account names may.
func splitLabel(label string) (issuer, account string) {
	if i := strings.IndexByte(label, ':'); i >= 0 {
		return strings.TrimSpace(label[:i]), strings.TrimSpace(label[i+1:])
	}
	return "", strings.TrimSpace(label)
}
