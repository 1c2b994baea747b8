package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// hashKey builds a namespaced cache key: "prefix:sha256(parts)". The
// parts are JSON-encoded so layout and artifact options hash the same
// way regardless of struct field order at the call site.
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	sum := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(sum[:]))
}

// Hash returns the full SHA-256 hex digest of data. Graph content
// hashes use the full 64 characters; truncating would trade collision
// safety for nothing, since keys never face a human.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
