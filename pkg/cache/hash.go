package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// hashKey builds a key of the form "kind:<sha256 of parts>". Parts are
// joined with NUL so that ("ab", "c") and ("a", "bc") differ.
func hashKey(kind string, parts ...string) string {
	return kind + ":" + Hash([]byte(strings.Join(parts, "\x00")))
}

// Hash returns the hex SHA-256 digest of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
