package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/ppiankov/slant/internal/model"
)

// Cache stores provider search results for a bounded time
type Cache interface {
	Get(key string) ([]model.Evidence, bool)
	Set(key string, value []model.Evidence, ttl time.Duration)
}

// Key generates a cache key from a provider name and a normalized query
func Key(provider, query string) string {
	hash := sha256.Sum256([]byte(provider + "\x00" + query))
	return "slant:v1:" + provider + ":" + hex.EncodeToString(hash[:])
}
