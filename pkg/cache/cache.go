// Package cache stores computed layouts and diagrams keyed by the hash of
// their inputs.
//
// Backends implement [Cache]: [FileCache] for the command line,
// [RedisCache] for shared deployments and [NullCache] to disable caching.
// Keys are produced by a [Keyer] so that callers never assemble them by hand.
package cache

import (
	"context"
	"time"
)

// Default lifetimes of cached entries. Layouts are deterministic for a given
// fixture and engine version, so they are kept for a long time.
const (
	TTLLayout  = 7 * 24 * time.Hour
	TTLDiagram = 30 * 24 * time.Hour
)

// Cache is a byte store with per-entry expiry.
//
// Get reports a miss with ok == false and a nil error. A ttl of zero means
// the entry never expires.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// LayoutKeyOpts holds the inputs besides the fixture that change a layout.
type LayoutKeyOpts struct {
	CanvasWidth   float32 `json:"canvas_width"`
	CanvasHeight  float32 `json:"canvas_height"`
	EngineVersion string  `json:"engine_version"`
}

// DiagramKeyOpts holds the inputs besides the layout that change a diagram.
type DiagramKeyOpts struct {
	Format    string `json:"format"`
	ShowRects bool   `json:"show_rects"`
}

// Keyer derives cache keys.
type Keyer interface {
	LayoutKey(fixtureHash string, opts LayoutKeyOpts) string
	DiagramKey(layoutHash string, opts DiagramKeyOpts) string
}

// DefaultKeyer hashes every input into the key.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default Keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// LayoutKey returns "layout:<sha256>" over the fixture hash and options.
func (DefaultKeyer) LayoutKey(fixtureHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", fixtureHash, opts)
}

// DiagramKey returns "diagram:<sha256>" over the layout hash and options.
func (DefaultKeyer) DiagramKey(layoutHash string, opts DiagramKeyOpts) string {
	return hashKey("diagram", layoutHash, opts)
}
