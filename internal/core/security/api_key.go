package security

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
)

const KeyPrefix = "shop_live_"

// GenerateAPIKey creates a new dashboard key and its hash.
// Returns: (realKey, hash). The real key is shown once; only the SHA256
// hash goes to the database.
func GenerateAPIKey() (string, string, error) {
	// 32 random bytes from crypto/rand
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	// Prefix like Stripe does, so keys are recognizable in logs and configs
	realKey := fmt.Sprintf("%s%s", KeyPrefix, hex.EncodeToString(bytes))

	hash := sha256.Sum256([]byte(realKey))
	hashedKey := hex.EncodeToString(hash[:])

	return realKey, hashedKey, nil
}

// HashKey returns the SHA256 hex digest used to look up a provided key.
func HashKey(providedKey string) string {
	hash := sha256.Sum256([]byte(providedKey))
	return hex.EncodeToString(hash[:])
}

// ValidateKey checks a provided key against the stored hash in constant time.
func ValidateKey(providedKey, storedHash string) bool {
	computed := HashKey(providedKey)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(storedHash)) == 1
}
