// internal/pkg/auth/apikey.go
package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// MinKeyLength is the shortest API key HashKey accepts
const MinKeyLength = 32

// ErrInvalidAPIKey is returned when a presented key does not match
var ErrInvalidAPIKey = errors.New("invalid API key")

// KeyVerifier checks the bot's API key against its bcrypt hash
type KeyVerifier struct {
	hash []byte
}

// NewKeyVerifier creates a verifier for hash. An empty hash rejects every key.
func NewKeyVerifier(hash string) *KeyVerifier {
	return &KeyVerifier{hash: []byte(hash)}
}

// Verify reports ErrInvalidAPIKey unless key matches the configured hash
func (v *KeyVerifier) Verify(key string) error {
	if len(v.hash) == 0 || key == "" {
		return ErrInvalidAPIKey
	}
	if err := bcrypt.CompareHashAndPassword(v.hash, []byte(key)); err != nil {
		return ErrInvalidAPIKey
	}
	return nil
}

// HashKey hashes an API key for BOT_API_KEY_HASH
func HashKey(key string, cost int) (string, error) {
	if len(key) < MinKeyLength {
		return "", fmt.Errorf("API key must be at least %d characters long", MinKeyLength)
	}
	if len(key) > 72 {
		return "", errors.New("API key must be no more than 72 characters long")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(key), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash API key: %w", err)
	}
	return string(hashed), nil
}

// GenerateKey returns a random hex API key of MinKeyLength*2 characters
func GenerateKey() (string, error) {
	buf := make([]byte, MinKeyLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate API key: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
