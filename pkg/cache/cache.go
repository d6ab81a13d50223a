// Package cache provides the byte-oriented caches used for memoization.
//
// The deduction core canonicalizes the same statement texts over and over
// (every goal is canonicalized before it is checked, and parallel proof
// branches repeat the premises). [Cache] memoizes such pure computations.
//
// # Implementations
//
//   - [MemoryCache]: in-memory store with per-entry TTL, backed by
//     github.com/patrickmn/go-cache. Safe for concurrent use, so one cache can
//     serve every proof branch.
//   - [Disabled]: stores nothing.
//
// Nothing is persisted across runs.
//
// # Keys
//
// [Key] namespaces a memo key, and [Hash] fingerprints raw bytes such as a
// problem file.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// Cache stores byte values under string keys.
type Cache interface {
	// Get returns the value stored under key. ok is false on a miss or an
	// expired entry.
	Get(key string) (data []byte, ok bool, err error)

	// Set stores data under key. A ttl of zero uses the cache default; a
	// negative ttl never expires.
	Set(key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(key string) error

	// Close releases resources held by the cache.
	Close() error
}

// Key returns "namespace:digest", where digest covers the parts in order.
// Parts are NUL-separated before hashing so ("ab", "c") and ("a", "bc")
// differ.
func Key(namespace string, parts ...string) string {
	return namespace + ":" + Hash([]byte(strings.Join(parts, "\x00")))
}

// Hash returns the hex SHA-256 digest of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Disabled is a Cache that drops every Set and misses on every Get.
type Disabled struct{}

// NewNullCache returns a Disabled cache.
func NewNullCache() Cache { return Disabled{} }

func (Disabled) Get(string) ([]byte, bool, error)        { return nil, false, nil }
func (Disabled) Set(string, []byte, time.Duration) error { return nil }
func (Disabled) Delete(string) error                     { return nil }
func (Disabled) Close() error                            { return nil }
