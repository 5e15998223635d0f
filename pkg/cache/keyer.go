package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Keyer derives cache keys.
type Keyer interface {
	// ArtifactKey returns the key of the image rendered from text.
	ArtifactKey(text string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts holds the render settings that affect an image's bytes.
type ArtifactKeyOpts struct {
	Engine string
	Format string
}

// DefaultKeyer hashes key parts with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer returns a DefaultKeyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ArtifactKey returns "artifact:<sha256>" over the engine, format and text.
func (DefaultKeyer) ArtifactKey(text string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", opts.Engine, opts.Format, text)
}

// ScopedKeyer wraps a Keyer with a prefix so several deployments can share
// one backing store.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "agendagraph:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// ArtifactKey generates a prefixed artifact key.
func (k *ScopedKeyer) ArtifactKey(text string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(text, opts)
}

// TTLArtifact is how long rendered images are kept.
const TTLArtifact = 7 * 24 * time.Hour

// hashKey returns prefix:sha256(parts), with parts NUL-separated so that
// ("ab", "c") and ("a", "bc") differ.
func hashKey(prefix string, parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return prefix + ":" + hex.EncodeToString(h.Sum(nil))
}

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
