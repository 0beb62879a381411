// Package aesgcm implements the at-rest cipher for vault documents:
// AES-256-GCM keyed by the SHA-256 digest of an externally supplied secret.
//
// Blob layout: nonce (12 bytes) || ciphertext (len(plaintext)) || tag (16 bytes).
package aesgcm

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"

	"github.com/ericfisherdev/passenger/internal/domain/model"
)

const (
	KeySize   = 32
	NonceSize = 12
	TagSize   = 16
	// Overhead is the number of bytes a blob carries beyond its plaintext.
	Overhead = NonceSize + TagSize
)

// Key is a derived 256-bit AES key.
type Key [KeySize]byte

// Derive hashes secret into a Key. An empty secret is a configuration error:
// the process was started without its encryption secret.
func Derive(secret string) (Key, error) {
	if secret == "" {
		return Key{}, model.NewError(model.KindConfiguration, "encryption secret not configured: set PASSENGER_SECRET_KEY")
	}
	return Key(sha256.Sum256([]byte(secret))), nil
}

// Encrypt seals plaintext under key with a fresh random nonce.
func Encrypt(key Key, plaintext []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, NonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("rand nonce: %w", err)
	}

	// Seal appends the ciphertext to nonce, producing: nonce || ciphertext || tag.
	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

// Decrypt verifies and opens a blob produced by Encrypt. Any truncation or
// tampering is reported as model.KindIntegrity; no plaintext is returned.
func Decrypt(key Key, blob []byte) ([]byte, error) {
	if len(blob) < Overhead {
		return nil, model.NewErrorf(model.KindIntegrity, "ciphertext too short: %d bytes", len(blob))
	}

	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	nonce, sealed := blob[:NonceSize], blob[NonceSize:]
	plaintext, err := gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, model.NewError(model.KindIntegrity, "authentication failed: wrong secret or corrupted vault").WithCause(err)
	}
	return plaintext, nil
}

func newGCM(key Key) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, fmt.Errorf("aes.NewCipher: %w", err)
	}
	gcm, err := cipher.NewGCMWithTagSize(block, TagSize)
	if err != nil {
		return nil, fmt.Errorf("cipher.NewGCM: %w", err)
	}
	return gcm, nil
}
