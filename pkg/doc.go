// Package pkg provides the libraries behind Boxflow, a retained-mode box
// layout engine and the tooling around it.
//
// # Overview
//
// Boxflow lays out trees of boxes the way a UI toolkit lays out controls:
// containers arrange their children in rows or columns, wrap them onto new
// runs, hand out free space to expanding children, and clip what overflows.
// The pkg directory is organized into three areas:
//
//  1. [layout] - The engine itself (box tree, three layout passes, hit testing)
//  2. [fixture], [snapshot] - Serialization of inputs and computed layouts
//  3. [pipeline], [cache], [store], [server], [diagram] - Tooling that runs
//     the engine for the CLI and the HTTP API
//
// # Architecture
//
// The typical data flow through Boxflow:
//
//	TOML fixture
//	     ↓
//	[fixture] package (decode, validate, build the box tree)
//	     ↓
//	[layout] package (measure → expand → arrange)
//	     ↓
//	[snapshot] package (capture rects in canvas coordinates)
//	     ↓
//	JSON / DOT / SVG / wireframe output, baseline checks
//
// # Quick Start
//
// Build a tree by hand and lay it out:
//
//	e := layout.New(layout.WithCanvasSize(800, 600))
//	bar := e.CreateIn(layout.RootKey, "toolbar", layout.NewConfig(layout.DefaultContainerFlags, layout.FillRow))
//	ok := e.CreateIn(bar, "ok", layout.DefaultConfig())
//	e.Record(ok).SetFixedSize(80, 24)
//	e.Update()
//	fmt.Println(e.Result(ok).Rect)
//
// Or lay out a fixture through the pipeline:
//
//	f, _ := pipeline.LoadFixture(ctx, "toolbar.toml")
//	snap, _ := pipeline.GenerateLayout(f, pipeline.Options{})
//	data, _ := snapshot.Marshal(snap)
//
// # Main Packages
//
// ## Engine
//
// [layout] - Box records, configuration flags, dimensions and the three
// layout passes. Records live in an [arena] so keys stay valid as the tree
// grows.
//
// [arena] - Segmented arrays that grow without moving existing elements.
//
// ## Serialization
//
// [fixture] - TOML fixtures describing a box tree, plus the XML record dump
// used to replay engine state exactly.
//
// [snapshot] - Serializable computed layouts and tolerance-aware diffs
// against baselines.
//
// ## Tooling
//
// [pipeline] - Load → layout → render, with caching, shared by the CLI and
// the HTTP server so both behave the same.
//
// [cache] - Layout and diagram caches: NullCache, FileCache (CLI) and
// RedisCache (shared deployments).
//
// [store] - Baseline storage: FileStore for CI and MongoStore for teams.
//
// [diagram] - Graphviz box-tree diagrams and SVG wireframes.
//
// [server] - HTTP API exposing layout and hit testing.
//
// [observability] - Hooks for engine, pipeline, cache and HTTP events.
//
// [errors] - Error codes shared by every package.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...            # All tests
//	go test ./pkg/layout/...     # Specific package
//	go test -run Example ./...   # Examples only
//
// [layout]: https://pkg.go.dev/github.com/matzehuels/boxflow/pkg/layout
// [arena]: https://pkg.go.dev/github.com/matzehuels/boxflow/pkg/arena
// [fixture]: https://pkg.go.dev/github.com/matzehuels/boxflow/pkg/fixture
// [snapshot]: https://pkg.go.dev/github.com/matzehuels/boxflow/pkg/snapshot
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/boxflow/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/boxflow/pkg/cache
// [store]: https://pkg.go.dev/github.com/matzehuels/boxflow/pkg/store
// [diagram]: https://pkg.go.dev/github.com/matzehuels/boxflow/pkg/diagram
// [server]: https://pkg.go.dev/github.com/matzehuels/boxflow/pkg/server
// [observability]: https://pkg.go.dev/github.com/matzehuels/boxflow/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/boxflow/pkg/errors
package pkg
