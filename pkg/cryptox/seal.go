package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/crypto/hkdf"
)

// MinSecretSize is the minimum amount of secret material accepted by NewSealer.
const MinSecretSize = 16

var ErrCiphertextTooShort = errors.New("cryptox: ciphertext too short")

// Sealer encrypts small values at rest with AES-256-GCM. The key is derived
// from the secret with HKDF-SHA256 so one secret can serve several purposes
// by varying info.
//
// Output format: [12-byte nonce][ciphertext][16-byte auth tag]
type Sealer struct {
	aead cipher.AEAD
}

// NewSealer derives a 32-byte key from secret and info.
func NewSealer(secret []byte, info string) (*Sealer, error) {
	if len(secret) < MinSecretSize {
		return nil, fmt.Errorf("cryptox: secret must be at least %d bytes, got %d", MinSecretSize, len(secret))
	}

	key := make([]byte, 32)
	if _, err := io.ReadFull(hkdf.New(sha256.New, secret, nil, []byte(info)), key); err != nil {
		return nil, fmt.Errorf("cryptox: failed to derive key: %w", err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("cryptox: failed to create cipher: %w", err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("cryptox: failed to create GCM: %w", err)
	}

	return &Sealer{aead: aead}, nil
}

// Seal encrypts plaintext. aad is authenticated but not encrypted; Open must
// be given the same aad.
func (s *Sealer) Seal(plaintext, aad []byte) ([]byte, error) {
	nonce := make([]byte, s.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("cryptox: failed to generate nonce: %w", err)
	}
	return s.aead.Seal(nonce, nonce, plaintext, aad), nil
}

// Open decrypts data produced by Seal.
func (s *Sealer) Open(sealed, aad []byte) ([]byte, error) {
	n := s.aead.NonceSize()
	if len(sealed) < n+s.aead.Overhead() {
		return nil, ErrCiphertextTooShort
	}

	plaintext, err := s.aead.Open(nil, sealed[:n], sealed[n:], aad)
	if err != nil {
		return nil, fmt.Errorf("cryptox: decryption failed: %w", err)
	}
	return plaintext, nil
}

// LoadSecret returns secret material from path when set, otherwise from value.
// When both are empty an ephemeral random secret is generated, which means
// sealed data does not survive a restart.
func LoadSecret(path, value string) (secret []byte, ephemeral bool, err error) {
	switch {
	case path != "":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, false, fmt.Errorf("cryptox: failed to read secret file: %w", err)
		}
		return data, false, nil
	case value != "":
		return []byte(value), false, nil
	}

	secret = make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return nil, false, fmt.Errorf("cryptox: failed to generate ephemeral secret: %w", err)
	}
	return secret, true, nil
}
