package util

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
)

// DataKeySize is the AES-256 key length.
const DataKeySize = 32

var ErrMalformedCiphertext = errors.New("malformed ciphertext")

// FieldCipher seals single column values before they are written and opens
// them again on read.
type FieldCipher interface {
	Seal(plaintext string) (string, error)
	Open(sealed string) (string, error)
}

type AESCipher struct {
	aead cipher.AEAD
}

func NewAESCipher(key []byte) (*AESCipher, error) {
	if len(key) != DataKeySize {
		return nil, fmt.Errorf("data key must be %d bytes, got %d", DataKeySize, len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create AES block: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return &AESCipher{aead: aead}, nil
}

// Seal encrypts plaintext under a fresh nonce and returns
// base64(nonce || ciphertext || tag).
func (c *AESCipher) Seal(plaintext string) (string, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}
	sealed := c.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

func (c *AESCipher) Open(sealed string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(sealed)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrMalformedCiphertext, err)
	}
	nonceSize := c.aead.NonceSize()
	if len(raw) < nonceSize+c.aead.Overhead() {
		return "", fmt.Errorf("%w: %d bytes", ErrMalformedCiphertext, len(raw))
	}
	plain, err := c.aead.Open(nil, raw[:nonceSize], raw[nonceSize:], nil)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrMalformedCiphertext, err)
	}
	return string(plain), nil
}

// LoadOrCreateKey reads the data key stored at path. When the file does not
// exist a new key is generated and written there with owner-only access.
func LoadOrCreateKey(path string) ([]byte, error) {
	key, err := os.ReadFile(path)
	if err == nil {
		if len(key) != DataKeySize {
			return nil, fmt.Errorf("data key %s has %d bytes, want %d", path, len(key), DataKeySize)
		}
		return key, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read data key %s: %w", path, err)
	}

	key = make([]byte, DataKeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("failed to generate data key: %w", err)
	}
	if err := os.WriteFile(path, key, 0o600); err != nil {
		return nil, fmt.Errorf("failed to write data key %s: %w", path, err)
	}
	return key, nil
}
