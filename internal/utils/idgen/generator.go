// Package idgen generates prefixed public identifiers for API-facing records.
package idgen

import (
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
)

const idAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateSecureID returns an identifier of the form "<prefix>_<random>",
// where random is `length` characters drawn from a crypto/rand source.
func GenerateSecureID(prefix string, length int) (string, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return "", errors.New("prefix is required")
	}
	if length <= 0 {
		return "", errors.New("length must be positive")
	}

	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}

	out := make([]byte, length)
	for i, b := range buf {
		out[i] = idAlphabet[int(b)%len(idAlphabet)]
	}

	return prefix + "_" + string(out), nil
}

// ValidateIDFormat reports whether id looks like an identifier produced by
// GenerateSecureID with the given prefix.
func ValidateIDFormat(id, prefix string) bool {
	rest, found := strings.CutPrefix(id, prefix+"_")
	if !found || rest == "" {
		return false
	}
	for _, r := range rest {
		if !strings.ContainsRune(idAlphabet, r) {
			return false
		}
	}
	return true
}
