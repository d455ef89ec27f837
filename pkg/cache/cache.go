// Package cache stores parsed trees and rendered artifacts.
//
// # Backends
//
//   - [FileCache]: one file per entry under a directory, for the CLI
//   - [RedisCache]: a shared Redis database, for servers running several
//     instances
//   - [NullCache]: stores nothing, used when caching is disabled
//
// # Keys
//
// A [Keyer] turns inputs into cache keys. Trees are keyed by the hash of the
// input file's content; artifacts by the tree hash and every option that
// changes the output. [ScopedKeyer] prefixes keys so one backend can hold
// several namespaces (one per catalog file in the server).
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with per-entry expiration.
type Cache interface {
	// Get returns the stored value and whether it was found. Expired entries
	// are reported as misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases the backend's resources.
	Close() error
}

// Clearer is implemented by caches that can drop every entry at once.
type Clearer interface {
	Clear(ctx context.Context) error
}
