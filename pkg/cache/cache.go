// Package cache provides render-result caching for MermView.
//
// Rendering a diagram is expensive (a headless browser page or a round
// trip to a remote service), while the result is fully determined by
// the (code, config, format) triple. The orchestrator therefore caches
// rendered bytes keyed by a hash of that triple.
//
// Three backends are provided:
//   - FileCache: file-based cache for CLI usage
//   - RedisCache: Redis-backed cache for server deployments
//   - NullCache: no-op cache for testing or when caching is disabled
package cache

import (
	"context"
	"time"
)

// Cache is the interface for render-result cache backends.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get retrieves a value by key. The second return value reports
	// whether the key was found (and fresh).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value under key. A ttl of 0 means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the backend.
	Close() error
}
