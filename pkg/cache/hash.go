package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// KeyFor derives a stable cache key from a prefix and any number of
// JSON-encodable parts. The texture cache uses the template ID as the
// prefix and the processing options as parts, so "same template, same
// transform" always lands on the same entry.
func KeyFor(prefix string, parts ...interface{}) string {
	data, _ := json.Marshal(parts)
	return prefix + ":" + Hash(data)
}

// Hash returns the full SHA-256 of data as 64 hex characters. Full
// width keeps distinct option sets from ever colliding on one entry.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
