package secretbox

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func key(b byte) []byte { return bytes.Repeat([]byte{b}, keySize) }

func TestAESGCM_SealOpen(t *testing.T) {
	box, err := NewAESGCM(1, map[uint16][]byte{1: key(1)})
	require.NoError(t, err)

	scope := Scope{AccountID: 42, Purpose: PurposeServiceSecret}
	secret := []byte("12345678901234567890")

	sealed, err := box.Seal(secret, scope)
	require.NoError(t, err)
	assert.NotContains(t, string(sealed), string(secret))

	again, err := box.Seal(secret, scope)
	require.NoError(t, err)
	assert.NotEqual(t, sealed, again, "nonce must differ per seal")

	plain, err := box.Open(sealed, scope)
	require.NoError(t, err)
	assert.Equal(t, secret, plain)
}

func TestAESGCM_ScopeAndTamper(t *testing.T) {
	box, err := NewAESGCM(1, map[uint16][]byte{1: key(1)})
	require.NoError(t, err)

	sealed, err := box.Seal([]byte("s"), Scope{AccountID: 1, Purpose: PurposeServiceSecret})
	require.NoError(t, err)

	_, err = box.Open(sealed, Scope{AccountID: 2, Purpose: PurposeServiceSecret})
	assert.ErrorIs(t, err, ErrOpenFailed)

	_, err = box.Open(sealed, Scope{AccountID: 1, Purpose: "other"})
	assert.ErrorIs(t, err, ErrOpenFailed)

	tampered := append([]byte(nil), sealed...)
	tampered[len(tampered)-1] ^= 0xff
	_, err = box.Open(tampered, Scope{AccountID: 1, Purpose: PurposeServiceSecret})
	assert.ErrorIs(t, err, ErrOpenFailed)

	_, err = box.Open(sealed[:10], Scope{AccountID: 1, Purpose: PurposeServiceSecret})
	assert.ErrorIs(t, err, ErrShortCiphertext)
}

func TestAESGCM_Rotation(t *testing.T) {
	scope := Scope{AccountID: 7, Purpose: PurposeServiceSecret}

	old, err := NewAESGCM(1, map[uint16][]byte{1: key(1)})
	require.NoError(t, err)
	sealed, err := old.Seal([]byte("rotate me"), scope)
	require.NoError(t, err)

	rotated, err := NewAESGCM(2, map[uint16][]byte{1: key(1), 2: key(2)})
	require.NoError(t, err)
	plain, err := rotated.Open(sealed, scope)
	require.NoError(t, err)
	assert.Equal(t, "rotate me", string(plain))

	fresh, err := rotated.Seal([]byte("new"), scope)
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 2}, fresh[:2])

	v, err := KeyVersion(fresh)
	require.NoError(t, err)
	assert.Equal(t, uint16(2), v)

	_, err = KeyVersion(fresh[:4])
	assert.ErrorIs(t, err, ErrShortCiphertext)

	retired, err := NewAESGCM(2, map[uint16][]byte{2: key(2)})
	require.NoError(t, err)
	_, err = retired.Open(sealed, scope)
	assert.ErrorIs(t, err, ErrUnknownKey)
}

func TestNewAESGCM_Invalid(t *testing.T) {
	_, err := NewAESGCM(1, map[uint16][]byte{2: key(2)})
	assert.ErrorIs(t, err, ErrUnknownKey)

	_, err = NewAESGCM(1, map[uint16][]byte{1: []byte("short")})
	assert.ErrorIs(t, err, ErrInvalidKey)

	box, err := NewAESGCM(1, map[uint16][]byte{1: key(1)})
	require.NoError(t, err)
	_, err = box.Seal(nil, Scope{})
	assert.ErrorIs(t, err, ErrEmptyPlaintext)
}
