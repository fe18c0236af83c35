// Package config - apikey.go provides encryption for user-supplied Gemini
// API keys (bring-your-own-key). Keys are sealed with AES-GCM under a key
// derived from a server secret, so a database dump alone never exposes them.
package config

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"os"

	"golang.org/x/crypto/pbkdf2"
)

const (
	keyDerivationIterations = 100_000
	saltLength              = 16
)

// APIKeyConfig holds the secret used to seal user API keys.
type APIKeyConfig struct {
	Secret string
}

// NewAPIKeyConfig reads API_KEY_SECRET from the environment.
func NewAPIKeyConfig() (*APIKeyConfig, error) {
	secret := os.Getenv("API_KEY_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("API_KEY_SECRET is required but not set")
	}
	return &APIKeyConfig{Secret: secret}, nil
}

// deriveKey stretches the secret into a 256-bit AES key using the given salt.
func (c *APIKeyConfig) deriveKey(salt []byte) []byte {
	return pbkdf2.Key([]byte(c.Secret), salt, keyDerivationIterations, 32, sha256.New)
}

// Encrypt seals a plaintext API key. Output layout: salt || nonce || sealed.
func (c *APIKeyConfig) Encrypt(plaintext string) ([]byte, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}

	block, err := aes.NewCipher(c.deriveKey(salt))
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := gcm.Seal(nil, nonce, []byte(plaintext), nil)

	out := make([]byte, 0, len(salt)+len(nonce)+len(sealed))
	out = append(out, salt...)
	out = append(out, nonce...)
	out = append(out, sealed...)
	return out, nil
}

// Decrypt opens a ciphertext produced by Encrypt.
func (c *APIKeyConfig) Decrypt(ciphertext []byte) (string, error) {
	if len(ciphertext) < saltLength {
		return "", fmt.Errorf("ciphertext too short")
	}
	salt := ciphertext[:saltLength]

	block, err := aes.NewCipher(c.deriveKey(salt))
	if err != nil {
		return "", fmt.Errorf("failed to create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("failed to create GCM: %w", err)
	}

	rest := ciphertext[saltLength:]
	if len(rest) < gcm.NonceSize() {
		return "", fmt.Errorf("ciphertext too short")
	}
	nonce, sealed := rest[:gcm.NonceSize()], rest[gcm.NonceSize():]

	plaintext, err := gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt api key: %w", err)
	}
	return string(plaintext), nil
}
