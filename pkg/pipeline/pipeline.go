// Package pipeline provides the fixture pipeline shared by the CLI and the
// inspection server.
//
// The pipeline runs three stages:
//
//  1. Load: read and validate a TOML fixture
//  2. Layout: build an engine from the fixture, lay it out and capture a snapshot
//  3. Render: turn the snapshot into JSON, DOT, SVG or wireframe output
//
// Each stage can be run on its own. A [Runner] adds caching to the layout
// and render stages, and [Runner.Check] compares a snapshot against a stored
// baseline.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	f, err := pipeline.LoadFixture(ctx, "toolbar.toml")
//	if err != nil {
//	    return err
//	}
//	result, err := runner.Execute(ctx, f, pipeline.Options{Formats: []string{"svg"}})
//	if err != nil {
//	    return err
//	}
//	svg := result.Artifacts["svg"]
//
// Engines are single threaded, so every layout gets its own engine.
// [Runner.LayoutAll] uses that to lay out many fixtures in parallel.
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/boxflow/pkg/cache"
	"github.com/matzehuels/boxflow/pkg/errors"
	"github.com/matzehuels/boxflow/pkg/snapshot"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

const (
	// DefaultCanvasWidth is used when neither the options nor the fixture size the canvas.
	DefaultCanvasWidth = 800.0

	// DefaultCanvasHeight is used when neither the options nor the fixture size the canvas.
	DefaultCanvasHeight = 600.0

	// DefaultTolerance is the largest coordinate difference a baseline check ignores.
	DefaultTolerance = 0.01

	// EngineVersion is part of every layout cache key. Bump it whenever a
	// change to the engine moves boxes, so stale cached layouts are ignored.
	EngineVersion = "1"
)

// Format constants for output formats.
const (
	FormatJSON      = "json"
	FormatDOT       = "dot"
	FormatSVG       = "svg"
	FormatWireframe = "wireframe"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatJSON:      true,
	FormatDOT:       true,
	FormatSVG:       true,
	FormatWireframe: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options configures a pipeline run. Zero values take defaults.
type Options struct {
	// Layout options
	CanvasWidth  float32 `json:"canvas_width,omitempty"`  // Overrides the fixture canvas when > 0
	CanvasHeight float32 `json:"canvas_height,omitempty"` // Overrides the fixture canvas when > 0
	Capacity     int     `json:"capacity,omitempty"`      // Engine box capacity, 0 = engine default
	Refresh      bool    `json:"refresh,omitempty"`       // Skip cache reads

	// Render options
	Formats   []string `json:"formats,omitempty"`
	ShowRects bool     `json:"show_rects,omitempty"`

	// Check options
	Tolerance float32 `json:"tolerance,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Snapshot is the captured layout.
	Snapshot *snapshot.Snapshot

	// LayoutHash identifies the geometry of Snapshot, ignoring its ID and timestamp.
	LayoutHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	BoxCount   int
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether the snapshot came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidInput,
			"invalid format: %q (must be one of: json, dot, svg, wireframe)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// SetDefaults fills in zero values.
func (o *Options) SetDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatJSON}
	}
	if o.Tolerance == 0 {
		o.Tolerance = DefaultTolerance
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateAndSetDefaults checks the options and applies defaults.
// This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.CanvasWidth < 0 || o.CanvasHeight < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "canvas size must not be negative")
	}
	if o.Capacity < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "capacity must not be negative")
	}
	if o.Tolerance < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "tolerance must not be negative")
	}
	o.SetDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// Canvas returns the canvas a fixture is laid out on: the options'
// override for each axis when set, else the fixture's, else the default.
func (o *Options) Canvas(width, height float32) (float32, float32) {
	if o.CanvasWidth > 0 {
		width = o.CanvasWidth
	}
	if o.CanvasHeight > 0 {
		height = o.CanvasHeight
	}
	if width == 0 {
		width = DefaultCanvasWidth
	}
	if height == 0 {
		height = DefaultCanvasHeight
	}
	return width, height
}

// LayoutKeyOpts returns cache key options for a layout on the given canvas.
func (o *Options) LayoutKeyOpts(width, height float32) cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		CanvasWidth:   width,
		CanvasHeight:  height,
		EngineVersion: EngineVersion,
	}
}

// DiagramKeyOpts returns cache key options for rendering format.
func (o *Options) DiagramKeyOpts(format string) cache.DiagramKeyOpts {
	return cache.DiagramKeyOpts{
		Format:    format,
		ShowRects: o.ShowRects,
	}
}
