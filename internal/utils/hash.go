package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"hash"
	"sync"
)

// Hasher provides keyed HMAC-SHA256 hashing backed by a pool of reusable
// hash instances, all configured with the same key.
type Hasher struct {
	pool sync.Pool
}

// NewHasher creates a Hasher for key. The key is copied.
func NewHasher(key []byte) *Hasher {
	k := append([]byte(nil), key...)
	return &Hasher{
		pool: sync.Pool{
			New: func() any {
				return hmac.New(sha256.New, k)
			},
		},
	}
}

// Sum computes the HMAC-SHA256 digest over the concatenation of parts.
func (h *Hasher) Sum(parts ...[]byte) []byte {
	mac := h.pool.Get().(hash.Hash)
	mac.Reset()

	for _, p := range parts {
		mac.Write(p)
	}
	sum := mac.Sum(nil)

	mac.Reset()
	h.pool.Put(mac)

	return sum
}
