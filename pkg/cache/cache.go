// Package cache stores rendered diagram images keyed by their inputs.
//
// Rendering an image shells out to mmdc or dot, which can take seconds, while
// the same diagram text always produces the same image. [Cache] lets the
// pipeline skip the external program when an identical render is requested
// again.
//
// # Backends
//
//   - [FileCache]: one file per entry under a directory (CLI default)
//   - [RedisCache]: shared cache for the HTTP server (go-redis)
//   - [NullCache]: never stores anything (--no-cache)
//
// Use [Open] to pick a backend from a URL.
//
// # Keys
//
// A [Keyer] derives keys from the diagram text, engine and image format.
// [DefaultKeyer] hashes those parts with SHA-256; [ScopedKeyer] adds a prefix
// so several deployments can share one Redis database.
package cache

import (
	"context"
	"fmt"
	"net/url"
	"time"
)

// Cache is a byte store with optional expiration.
type Cache interface {
	// Get returns the cached value and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data. A zero ttl means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes a key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases resources held by the cache.
	Close() error
}

// Open returns the cache named by rawURL.
//
//   - "" or "none": NullCache
//   - "file:///path" or a bare path: FileCache rooted at path
//   - "redis://host:port/db": RedisCache
func Open(rawURL string) (Cache, error) {
	if rawURL == "" || rawURL == "none" {
		return NewNullCache(), nil
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse cache url: %w", err)
	}
	switch u.Scheme {
	case "redis", "rediss":
		rc, err := NewRedisCache(rawURL)
		if err != nil {
			return nil, err
		}
		return rc, nil
	case "file", "":
		dir := u.Path
		if u.Scheme == "" {
			dir = rawURL
		}
		fc, err := NewFileCache(dir)
		if err != nil {
			return nil, err
		}
		return fc, nil
	}
	return nil, fmt.Errorf("unsupported cache scheme: %s", u.Scheme)
}
