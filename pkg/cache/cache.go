// Package cache stores expensive derived artifacts, keyed by content
// hash: laid-out graphs and rendered previews. Backends exist for local
// files (CLI usage), Redis (the serve surface), and a null cache for
// tests and opt-out.
package cache

import (
	"context"
	"time"
)

// Cache is the storage interface shared by all backends.
type Cache interface {
	// Get retrieves a value. The bool reports whether the key was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with a time-to-live. A zero ttl means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// LayoutKeyOpts are the inputs that change a layout result for the same
// graph content.
type LayoutKeyOpts struct {
	Direction string
	SpacingX  float64
	SpacingY  float64
}

// ArtifactKeyOpts are the inputs that change a rendered preview for the
// same graph content.
type ArtifactKeyOpts struct {
	Format       string
	Direction    string
	BranchColors bool
}

// Keyer builds cache keys. The default implementation hashes the option
// structs so any tuning change becomes a distinct key.
type Keyer interface {
	// LayoutKey keys a laid-out graph by the content hash of its input.
	LayoutKey(graphHash string, opts LayoutKeyOpts) string

	// ArtifactKey keys a rendered preview by the content hash of the
	// graph it was rendered from.
	ArtifactKey(graphHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer is the standard key scheme.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// LayoutKey generates a key for layout caching.
func (k *DefaultKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", graphHash, opts)
}

// ArtifactKey generates a key for rendered-artifact caching.
func (k *DefaultKeyer) ArtifactKey(graphHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", graphHash, opts)
}
