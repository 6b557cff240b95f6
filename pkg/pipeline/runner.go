package pipeline

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/boxflow/pkg/cache"
	"github.com/matzehuels/boxflow/pkg/fixture"
	"github.com/matzehuels/boxflow/pkg/observability"
	"github.com/matzehuels/boxflow/pkg/snapshot"
	"github.com/matzehuels/boxflow/pkg/store"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and server use it to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs layout and render for f with caching.
func (r *Runner) Execute(ctx context.Context, f *fixture.Fixture, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{}

	// Stage 1: Layout
	layoutStart := time.Now()
	snap, layoutHit, err := r.LayoutWithCacheInfo(ctx, f, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Snapshot = snap
	result.Stats.BoxCount = len(snap.Boxes)
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"fixture", f.Name,
		"boxes", len(snap.Boxes),
		"cached", layoutHit,
		"duration", result.Stats.LayoutTime)

	// Stage 2: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, snap, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit
	result.LayoutHash, _ = LayoutHash(snap)

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// LayoutWithCacheInfo lays out f with caching and reports whether the
// snapshot came from the cache. The cache key covers the fixture's
// canonical encoding, the canvas and the engine version.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, f *fixture.Fixture, opts Options) (*snapshot.Snapshot, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}

	fixtureData, err := f.Bytes()
	if err != nil {
		return nil, false, err
	}
	width, height := opts.Canvas(f.Canvas.Width, f.Canvas.Height)
	cacheKey := r.Keyer.LayoutKey(cache.Hash(fixtureData), opts.LayoutKeyOpts(width, height))

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if cached, err := snapshot.Unmarshal(data); err == nil {
				observability.Cache().OnCacheHit(ctx, "layout")
				return cached, true, nil
			}
			// If deserialization fails, fall through to recompute
		} else if err != nil {
			opts.Logger.Warn("cache read failed", "key", cacheKey, "err", err)
		}
		observability.Cache().OnCacheMiss(ctx, "layout")
	}

	observability.Pipeline().OnLayoutStart(ctx, f.Name, CountBoxes(&f.Root))
	start := time.Now()
	snap, err := GenerateLayout(f, opts)
	observability.Pipeline().OnLayoutComplete(ctx, f.Name, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	if data, err := snapshot.Marshal(snap); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLLayout); err != nil {
			opts.Logger.Warn("cache write failed", "key", cacheKey, "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "layout", len(data))
		}
	}

	return snap, false, nil
}

// Layout is a convenience wrapper that calls LayoutWithCacheInfo and discards the cache hit info.
func (r *Runner) Layout(ctx context.Context, f *fixture.Fixture, opts Options) (*snapshot.Snapshot, error) {
	snap, _, err := r.LayoutWithCacheInfo(ctx, f, opts)
	return snap, err
}

// LayoutAll lays out every fixture, in parallel, each on its own engine.
// Snapshots are returned in the order of fixtures. The first failure
// cancels the remaining layouts.
func (r *Runner) LayoutAll(ctx context.Context, fixtures []*fixture.Fixture, opts Options) ([]*snapshot.Snapshot, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	snaps := make([]*snapshot.Snapshot, len(fixtures))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, f := range fixtures {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			snap, err := r.Layout(ctx, f, opts)
			if err != nil {
				return fmt.Errorf("%s: %w", f.Name, err)
			}
			snaps[i] = snap
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return snaps, nil
}

// RenderWithCacheInfo renders s with caching and reports whether every
// artifact came from the cache. JSON output embeds the snapshot's ID and
// is never cached.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, s *snapshot.Snapshot, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}

	layoutHash, err := LayoutHash(s)
	if err != nil {
		return nil, false, err
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	var missing []string
	for _, format := range opts.Formats {
		if format == FormatJSON {
			missing = append(missing, format)
			continue
		}
		cacheKey := r.Keyer.DiagramKey(layoutHash, opts.DiagramKeyOpts(format))
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, "diagram")
			artifacts[format] = data
			continue
		}
		observability.Cache().OnCacheMiss(ctx, "diagram")
		missing = append(missing, format)
	}
	if len(missing) == 0 {
		return artifacts, true, nil
	}

	renderOpts := opts
	renderOpts.Formats = missing
	rendered, err := Render(ctx, s, renderOpts)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		artifacts[format] = data
		if format == FormatJSON {
			continue
		}
		cacheKey := r.Keyer.DiagramKey(layoutHash, opts.DiagramKeyOpts(format))
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLDiagram); err == nil {
			observability.Cache().OnCacheSet(ctx, "diagram", len(data))
		}
	}

	return artifacts, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, s *snapshot.Snapshot, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, s, opts)
	return artifacts, err
}

// Check compares s with the baseline stored under its fixture name.
// A missing baseline is reported with store.ErrNotFound; a differing one
// with an *errors.MismatchError listing every difference.
func (r *Runner) Check(ctx context.Context, st store.Store, s *snapshot.Snapshot, tolerance float32) error {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	want, err := st.Get(ctx, s.Fixture)
	if err != nil {
		return err
	}
	if err := snapshot.Check(want, s, tolerance); err != nil {
		r.Logger.Debug("baseline mismatch", "fixture", s.Fixture, "err", err)
		return err
	}
	return nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
