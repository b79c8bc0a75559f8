package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// VectorCache defines the interface for caching embedding vectors
type VectorCache interface {
	Get(key string) ([]float32, bool)
	Set(key string, vector []float32, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// VectorKey generates a cache key for an embedding from the model identifier
// and the exact source text. Same model plus same text always hits the same key.
func VectorKey(embModel, text string) string {
	hash := sha256.Sum256([]byte(embModel + "|" + text))
	return "clipsight:v1:" + hex.EncodeToString(hash[:])
}
