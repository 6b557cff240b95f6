package pipeline

import (
	"github.com/matzehuels/boxflow/pkg/fixture"
	"github.com/matzehuels/boxflow/pkg/layout"
	"github.com/matzehuels/boxflow/pkg/snapshot"
)

// =============================================================================
// Layout
// =============================================================================

// NewEngine builds an engine holding f, sized to the canvas the options
// select, and returns it with the keys of its tagged boxes. The engine has
// not been laid out yet.
func NewEngine(f *fixture.Fixture, opts Options) (*layout.Engine, map[string]layout.Key, error) {
	var engineOpts []layout.Option
	if opts.Capacity > 0 {
		engineOpts = append(engineOpts, layout.WithCapacity(opts.Capacity))
	}
	if opts.Logger != nil {
		engineOpts = append(engineOpts, layout.WithLogger(opts.Logger))
	}
	e := layout.New(engineOpts...)

	sized := *f
	sized.Canvas.Width, sized.Canvas.Height = opts.Canvas(f.Canvas.Width, f.Canvas.Height)
	keys, err := fixture.Build(e, &sized)
	if err != nil {
		return nil, nil, err
	}
	if opts.Logger != nil {
		opts.Logger.Debug("built fixture", "fixture", f.Name, "boxes", e.Count(), "tags", fixture.Tags(keys))
	}
	return e, keys, nil
}

// GenerateLayout lays out f on a fresh engine and captures the result.
func GenerateLayout(f *fixture.Fixture, opts Options) (*snapshot.Snapshot, error) {
	e, _, err := NewEngine(f, opts)
	if err != nil {
		return nil, err
	}
	if err := layout.Safely(e.Update); err != nil {
		return nil, err
	}
	return snapshot.Capture(e, f.Name), nil
}

// =============================================================================
// Hit testing
// =============================================================================

// HitTest lays out f and returns the deepest box under (x, y), or nil when
// the point misses every box. With exhaustive set, children overflowing an
// unclipped parent are found too.
func HitTest(f *fixture.Fixture, opts Options, x, y float32, exhaustive bool) (*snapshot.Box, error) {
	e, _, err := NewEngine(f, opts)
	if err != nil {
		return nil, err
	}

	var hit *snapshot.Box
	err = layout.Safely(func() {
		e.Update()
		rec, res, ok := e.DebugHitTest(layout.Vec2{X: x, Y: y}, exhaustive)
		if ok {
			b := snapshot.BoxOf(&rec, res)
			hit = &b
		}
	})
	if err != nil {
		return nil, err
	}
	return hit, nil
}
