// Package cache stores serialized analysis results so re-submitting identical
// text within the TTL window does not burn another provider call.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache is the interface shared by the memory, disk and layered variants.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key derives a cache key from normalized input text. The provider name is
// part of the key: different variants legitimately disagree about the same
// text.
func Key(providerName, text string) string {
	hash := sha256.Sum256([]byte(providerName + "\x00" + text))
	return "verinews-v1-" + hex.EncodeToString(hash[:])
}
