// Package layout implements a retained-mode box layout engine.
//
// Boxes form a tree rooted at [RootKey]. Each box is configured with a
// [Config] (container flags describing how it arranges its children and box
// flags describing how its parent places it), margins, padding and
// width/height [Dimension] constraints. [Engine.Update] computes a rect for
// every box reachable from the root.
//
// # Model
//
// A container lays its children out in runs: rows for a horizontal
// container, columns for a vertical one. Without wrapping there is a single
// run; with [ArrangeWrap] children that overflow the container move onto a
// new run. [Stacked] children are laid over the whole content box instead of
// joining a run, and [Floating] children are additionally placed at an
// explicit position and excluded from the container's content size. A grid
// container (see [Config.WithGrid]) distributes its children round-robin
// over a fixed number of equal-width columns.
//
// # Passes
//
// Layout runs in three passes:
//
//  1. Measure, bottom-up: every box starts at its minimum size and grows
//     to fit its children when SizeExpandForContent allows it.
//  2. Expand, top-down: wrapping containers re-break their runs against
//     their final width and free space goes to children anchored on both
//     edges of an axis. Containers that grew afterwards are recalculated
//     deepest first.
//  3. Arrange, top-down: runs are stacked along the cross axis, aligned
//     along the main axis, and each child is aligned in its run by its
//     anchors. [BoxesClip] trims children at the right and bottom edges.
//
// # Usage
//
//	e := layout.New(layout.WithCanvasSize(800, 600))
//	bar := e.CreateIn(layout.RootKey, "toolbar", layout.NewConfig(layout.DefaultContainerFlags, layout.FillRow))
//	ok := e.CreateIn(bar, "ok", layout.DefaultConfig())
//	e.Record(ok).SetFixedSize(80, 24)
//	e.Update()
//	fmt.Println(e.Result(ok).Rect)
//
// # Errors
//
// Misuse of the engine, such as inserting the root or a box that already
// has a parent, panics with an [errors.Error] carrying INVALID_OPERATION.
// [Safely] converts such panics into errors at tool boundaries.
//
// # Concurrency
//
// An Engine is single threaded. Results are double buffered, so the last
// published layout stays readable while [Engine.Update] computes the next
// one, but the tree must not be mutated concurrently. Enumerators panic
// with CONCURRENT_MODIFICATION when the tree changes under them.
package layout
