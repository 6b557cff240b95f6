package layout

import (
	"io"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/boxflow/pkg/arena"
	"github.com/matzehuels/boxflow/pkg/errors"
	"github.com/matzehuels/boxflow/pkg/observability"
)

const (
	// DefaultCapacity is the maximum number of boxes an engine holds unless
	// overridden with [WithCapacity].
	DefaultCapacity = 16384

	// runsPerBox sizes the run arena; wrapping rebuilds and grid columns
	// allocate more than one run per container.
	runsPerBox = 4

	// maxExpansionPasses bounds redistribution of space freed by capped children.
	maxExpansionPasses = 10
)

// Engine owns a box tree and computes its layout.
//
// Results are double buffered: [Engine.Update] computes into a back buffer
// and publishes it atomically when done, so [Engine.Result] always reads a
// complete layout. An Engine is not safe for concurrent mutation; create one
// engine per goroutine.
type Engine struct {
	records *arena.Segmented[BoxRecord]
	results [2]*arena.Segmented[BoxLayoutResult]
	front   atomic.Int32
	runs    *arena.Segmented[LayoutRun]

	// work is the result buffer the current layout writes into.
	work *arena.Segmented[BoxLayoutResult]

	version    uint64
	capacity   int
	canvasSize Vec2
	recalc     []Key

	logger *log.Logger
	hooks  observability.EngineHooks
}

// Option configures an Engine.
type Option func(*Engine)

// WithCapacity sets the maximum number of boxes.
func WithCapacity(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.capacity = n
		}
	}
}

// WithLogger sets the logger used for per-layout debug output.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithHooks sets the hooks notified after each pass. When unset the
// globally registered engine hooks are used.
func WithHooks(h observability.EngineHooks) Option {
	return func(e *Engine) { e.hooks = h }
}

// WithCanvasSize sets the initial canvas size.
func WithCanvasSize(w, h float32) Option {
	return func(e *Engine) { e.canvasSize = Vec2{w, h} }
}

// New creates an engine holding only the root box.
func New(opts ...Option) *Engine {
	e := &Engine{
		capacity: DefaultCapacity,
		logger:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.hooks == nil {
		e.hooks = observability.Engine()
	}
	e.records = arena.New[BoxRecord](e.capacity)
	e.results[0] = arena.New[BoxLayoutResult](e.capacity)
	e.results[1] = arena.New[BoxLayoutResult](e.capacity)
	e.runs = arena.New[LayoutRun](e.capacity * runsPerBox)
	e.Clear()
	return e
}

// Clear drops every box and result and recreates the root, sized to the canvas.
func (e *Engine) Clear() {
	e.records.Clear()
	e.results[0].Clear()
	e.results[1].Clear()
	e.runs.Clear()
	e.recalc = e.recalc[:0]
	e.version++

	root := e.Create("root", NewConfig(LayoutRow, 0))
	e.record(root).SetFixedSize(e.canvasSize.X, e.canvasSize.Y)
}

// CanvasSize returns the size the root box is fixed to.
func (e *Engine) CanvasSize() Vec2 { return e.canvasSize }

// SetCanvasSize resizes the root box.
func (e *Engine) SetCanvasSize(size Vec2) {
	e.canvasSize = size
	e.Root().SetFixedSize(size.X, size.Y)
}

// Count returns the number of boxes ever created since the last Clear,
// including detached ones.
func (e *Engine) Count() int { return e.records.Len() }

// Version returns the modification counter used to invalidate enumerators.
func (e *Engine) Version() uint64 { return e.version }

// PrepareForUpdate resets per-layout state. With clearResults set both
// result buffers are emptied as well.
func (e *Engine) PrepareForUpdate(clearResults bool) {
	e.version++
	e.runs.Clear()
	e.recalc = e.recalc[:0]
	if clearResults {
		e.results[0].Clear()
		e.results[1].Clear()
	}
}

// Update lays out the tree and publishes the new results.
func (e *Engine) Update() {
	e.UpdateExisting()
}

// UpdateExisting lays out into the back buffer, then swaps it to the front.
func (e *Engine) UpdateExisting() {
	e.PrepareForUpdate(false)
	front := e.front.Load()
	e.performLayout(e.results[1-front])
	e.front.Store(1 - front)
}

// UnsafeUpdate lays out directly into the readable buffer without
// swapping; readers may observe a partially computed layout.
func (e *Engine) UnsafeUpdate() {
	e.PrepareForUpdate(false)
	e.performLayout(e.previous())
}

func (e *Engine) previous() *arena.Segmented[BoxLayoutResult] {
	return e.results[e.front.Load()]
}

func (e *Engine) performLayout(buf *arena.Segmented[BoxLayoutResult]) {
	start := time.Now()
	e.work = buf
	defer func() { e.work = nil }()

	buf.Clear()
	buf.Reserve(e.records.Len())

	root := e.record(RootKey)
	rootRes := e.result(RootKey)

	mark := start
	lap := func(pass string) {
		now := time.Now()
		e.hooks.OnPass(pass, now.Sub(mark))
		mark = now
	}
	e.pass1(root, rootRes, 0, e.canvasSize, root.Margins)
	lap("measure")
	e.pass2(root, rootRes)
	lap("expand")
	recalculated := e.pass2c()
	lap("recalculate")
	e.pass3(root, rootRes, 0)
	lap("arrange")

	elapsed := time.Since(start)
	e.hooks.OnUpdate(e.records.Len(), e.runs.Len(), recalculated, elapsed)
	e.logger.Debug("layout complete",
		"boxes", e.records.Len(),
		"runs", e.runs.Len(),
		"recalculated", recalculated,
		"duration", elapsed)
}

// Safely runs fn and converts a structured engine panic into an error.
// Panics that do not carry an *errors.Error are re-raised.
func Safely(fn func()) (err error) {
	defer errors.Recover(&err)
	fn()
	return nil
}

// result returns the in-progress result for key.
func (e *Engine) result(key Key) *BoxLayoutResult {
	return e.work.At(int(key))
}

func (e *Engine) resultPtr(buf *arena.Segmented[BoxLayoutResult], key Key) *BoxLayoutResult {
	if key.IsInvalid() || int(key) >= buf.Len() {
		return nil
	}
	r := buf.At(int(key))
	if r.key != key {
		return nil
	}
	return r
}

// Result returns the last published layout of key, or an invalid result
// when key is unknown or was not reachable from the root.
func (e *Engine) Result(key Key) BoxLayoutResult {
	if r := e.resultPtr(e.previous(), key); r != nil {
		return *r
	}
	return invalidResult
}

// InProgressResult reads the back buffer, which holds the layout before the
// last completed one or a layout in progress.
func (e *Engine) InProgressResult(key Key) BoxLayoutResult {
	if r := e.resultPtr(e.results[1-e.front.Load()], key); r != nil {
		return *r
	}
	return invalidResult
}

// TryMeasureContent returns the content box position together with the
// measured size of key's children.
func (e *Engine) TryMeasureContent(key Key) (RectF, bool) {
	r := e.resultPtr(e.previous(), key)
	if r == nil {
		return RectF{}, false
	}
	return RectF{
		Left:   r.ContentRect.Left,
		Top:    r.ContentRect.Top,
		Width:  r.ContentSize.X,
		Height: r.ContentSize.Y,
	}, true
}
