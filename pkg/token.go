package pkg

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
)

// NewToken returns a URL-safe random token of exactly length characters,
// read from crypto/rand.
func NewToken(length int) (string, error) {
	if length <= 0 {
		return "", errors.New("length must be positive")
	}

	// base64 yields 4 chars per 3 bytes
	raw := make([]byte, (length*3+3)/4)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(raw)[:length], nil
}
