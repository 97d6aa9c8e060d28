package cryptox

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
)

var ErrNotEd25519 = errors.New("cryptox: not an Ed25519 private key")

// GenerateEd25519Key generates a new Ed25519 private key and returns it in
// PEM format (PKCS8).
func GenerateEd25519Key() ([]byte, error) {
	_, privateKey, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("cryptox: failed to generate Ed25519 key: %w", err)
	}

	der, err := x509.MarshalPKCS8PrivateKey(privateKey)
	if err != nil {
		return nil, fmt.Errorf("cryptox: failed to marshal PKCS8 key: %w", err)
	}

	return pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der}), nil
}

// ParseEd25519Key decodes a PKCS8 PEM private key.
func ParseEd25519Key(pemBytes []byte) (ed25519.PrivateKey, error) {
	block, _ := pem.Decode(pemBytes)
	if block == nil {
		return nil, errors.New("cryptox: no PEM block found")
	}

	key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("cryptox: failed to parse PKCS8 key: %w", err)
	}

	priv, ok := key.(ed25519.PrivateKey)
	if !ok {
		return nil, ErrNotEd25519
	}
	return priv, nil
}

// LoadOrGenerateEd25519Key reads the key at path. With an empty path a fresh
// key is generated; tab cookies signed with it die with the process.
func LoadOrGenerateEd25519Key(path string) (ed25519.PrivateKey, error) {
	var (
		pemBytes []byte
		err      error
	)

	if path != "" {
		pemBytes, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("cryptox: failed to read key file: %w", err)
		}
	} else {
		pemBytes, err = GenerateEd25519Key()
		if err != nil {
			return nil, err
		}
	}

	return ParseEd25519Key(pemBytes)
}
