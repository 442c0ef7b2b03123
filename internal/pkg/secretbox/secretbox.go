package secretbox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
	"strconv"
)

// Purpose separates ciphertexts sealed for different uses.
type Purpose string

// PurposeServiceSecret scopes the shared secret of an enrolled OTP service.
const PurposeServiceSecret Purpose = "vault_service_secret"

// Scope is authenticated alongside every ciphertext.
type Scope struct {
	AccountID int64
	Purpose   Purpose
}

func (s Scope) aad() []byte {
	sum := sha256.Sum256([]byte("account=" + strconv.FormatInt(s.AccountID, 10) + "\npurpose=" + string(s.Purpose) + "\n"))
	return sum[:]
}

// Sealer encrypts and decrypts secrets for a scope.
type Sealer interface {
	Seal(plaintext []byte, scope Scope) ([]byte, error)
	Open(ciphertext []byte, scope Scope) ([]byte, error)
}

const (
	keySize     = 32
	nonceSize   = 12
	headerSize  = 2 + nonceSize
	minSealSize = headerSize + 16
)

var (
	ErrEmptyPlaintext  = errors.New("secretbox: plaintext is empty")
	ErrInvalidKey      = errors.New("secretbox: key must be 32 bytes")
	ErrUnknownKey      = errors.New("secretbox: unknown key version")
	ErrShortCiphertext = errors.New("secretbox: ciphertext too short")
	ErrOpenFailed      = errors.New("secretbox: open failed")
)

// AESGCM seals with the current key of a keyring and opens with whichever
// key version the ciphertext names.
//
// Layout: [0:2] big-endian key version, [2:14] nonce, [14:] GCM output.
type AESGCM struct {
	current uint16
	aeads   map[uint16]cipher.AEAD
}

// NewAESGCM builds a sealer from versioned 32-byte keys. current must be
// one of the versions in keys.
func NewAESGCM(current uint16, keys map[uint16][]byte) (*AESGCM, error) {
	if _, ok := keys[current]; !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownKey, current)
	}

	aeads := make(map[uint16]cipher.AEAD, len(keys))
	for v, k := range keys {
		if len(k) != keySize {
			return nil, fmt.Errorf("%w: version %d has %d bytes", ErrInvalidKey, v, len(k))
		}
		block, err := aes.NewCipher(k)
		if err != nil {
			return nil, err
		}
		aead, err := cipher.NewGCM(block)
		if err != nil {
			return nil, err
		}
		aeads[v] = aead
	}

	return &AESGCM{current: current, aeads: aeads}, nil
}

// Seal encrypts plaintext with the current key.
func (s *AESGCM) Seal(plaintext []byte, scope Scope) ([]byte, error) {
	if len(plaintext) == 0 {
		return nil, ErrEmptyPlaintext
	}

	out := make([]byte, headerSize, headerSize+len(plaintext)+16)
	binary.BigEndian.PutUint16(out[:2], s.current)
	if _, err := rand.Read(out[2:headerSize]); err != nil {
		return nil, fmt.Errorf("secretbox: nonce: %w", err)
	}

	return s.aeads[s.current].Seal(out, out[2:headerSize], plaintext, scope.aad()), nil
}

// Open decrypts ciphertext. Any mismatch of key, scope or content yields
// ErrOpenFailed without saying which.
func (s *AESGCM) Open(ciphertext []byte, scope Scope) ([]byte, error) {
	if len(ciphertext) < minSealSize {
		return nil, ErrShortCiphertext
	}

	v := binary.BigEndian.Uint16(ciphertext[:2])
	aead, ok := s.aeads[v]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownKey, v)
	}

	plain, err := aead.Open(nil, ciphertext[2:headerSize], ciphertext[headerSize:], scope.aad())
	if err != nil {
		return nil, ErrOpenFailed
	}
	return plain, nil
}

// KeyVersion returns the key version a sealed ciphertext was produced with.
func KeyVersion(ciphertext []byte) (uint16, error) {
	if len(ciphertext) < minSealSize {
		return 0, ErrShortCiphertext
	}
	return binary.BigEndian.Uint16(ciphertext[:2]), nil
}
