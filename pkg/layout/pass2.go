package layout

import (
	"github.com/matzehuels/boxflow/pkg/errors"
)

// pass2 runs top-down: wrapping containers re-break their runs against
// their final size, then free space is handed to expandable children.
// Children that do not wrap are visited before children that do, so a
// wrapping child sees the sizes its siblings settled on.
func (e *Engine) pass2(rec *BoxRecord, res *BoxLayoutResult) {
	if res.Pass2Processed {
		errors.Fatal(errors.ErrCodeInvalidOperation, "%s visited twice in expansion", rec)
	}
	res.Pass2Processed = true

	if rec.HasChildren() {
		if rec.Config.IsGrid() {
			e.pass2Grid(rec, res)
		} else {
			if rec.Config.IsWrap() {
				e.pass2a(rec, res)
			}
			e.pass2b(rec, res)
		}

		for k := range e.Children(rec.Key()) {
			if child := e.record(k); !isWrapping(child) {
				e.pass2(child, e.result(k))
			}
		}
		for k := range e.Children(rec.Key()) {
			if child := e.record(k); isWrapping(child) {
				e.pass2(child, e.result(k))
			}
		}
	}
	res.Pass2Complete = true
}

func isWrapping(rec *BoxRecord) bool {
	return rec.HasChildren() && rec.Config.IsWrap() && !rec.Config.IsGrid()
}

// contentSpace is the box size minus padding, floored at zero.
func contentSpace(rec *BoxRecord, res *BoxLayoutResult) Vec2 {
	return Vec2{
		X: max(0, res.Rect.Width-rec.Padding.X()),
		Y: max(0, res.Rect.Height-rec.Padding.Y()),
	}
}

// pass2a re-breaks a wrapping container's flow runs so each fits the
// container's main-axis capacity. Runs from measurement are kept when
// nothing overflows.
func (e *Engine) pass2a(rec *BoxRecord, res *BoxLayoutResult) {
	vertical := rec.Config.IsVertical()
	space := contentSpace(rec, res)
	capacity := space.X
	if vertical {
		capacity = space.Y
	}

	if e.breakRuns(rec, res, capacity, false) == 0 {
		return
	}
	e.breakRuns(rec, res, capacity, true)

	res.ContentSize = e.measureRuns(res, vertical)
	need := res.ContentSize.Add(rec.Padding.Size())
	old := res.Rect.Size()
	if vertical {
		if rec.Config.ExpandForContentX() {
			res.Rect.Width = max(old.X, res.width.Constrain(need.X, true))
		}
	} else if rec.Config.ExpandForContentY() {
		res.Rect.Height = max(old.Y, res.height.Constrain(need.Y, true))
	}
	if delta := res.Rect.Size().Sub(old); delta != (Vec2{}) {
		e.propagate(rec, res, delta)
	}
}

// breakRuns walks the flow children of rec and counts the breaks forced by
// capacity. When rebuild is set the flow runs are rebuilt along the way.
func (e *Engine) breakRuns(rec *BoxRecord, res *BoxLayoutResult, capacity float32, rebuild bool) int {
	vertical := rec.Config.IsVertical()
	wraps := 0
	current := int32(-1)
	started := false
	if rebuild {
		res.FirstRunIndex = -1
	}

	var offset float32
	for k := range e.Children(rec.Key()) {
		child := e.record(k)
		if child.Config.IsStackedOrFloating() {
			continue
		}
		cr := e.result(k)
		m := cr.margins
		lead, size, trail := m.Left, cr.Rect.Width, m.Right
		if vertical {
			lead, size, trail = m.Top, cr.Rect.Height, m.Bottom
		}

		overflow := started && offset+lead+size > capacity+snapEpsilon
		if overflow {
			wraps++
		}
		isBreak := started && (overflow || cr.Break)
		if isBreak {
			offset = 0
		}
		if rebuild {
			idx, run := e.selectRun(res, &current, child, isBreak)
			e.addToRun(idx, run, child, cr)
		}
		offset += lead + size + trail
		started = true
	}
	return wraps
}

// propagate folds a size change of rec into its parent's run totals and
// queues the parent for recalculation.
func (e *Engine) propagate(rec *BoxRecord, res *BoxLayoutResult, delta Vec2) {
	parent := rec.Parent()
	if parent.IsInvalid() || res.ParentRunIndex < 0 {
		return
	}
	run := e.run(res.ParentRunIndex)
	if !run.IsFloating {
		run.TotalWidth += delta.X
		run.TotalHeight += delta.Y
		run.MaxOuterWidth = max(run.MaxOuterWidth, res.Rect.Width+res.margins.X())
		run.MaxOuterHeight = max(run.MaxOuterHeight, res.Rect.Height+res.margins.Y())
	}
	e.enqueueRecalc(parent)
}

// pass2b grows expandable children into the free space of each run and
// stretches stacked children over the content box.
func (e *Engine) pass2b(rec *BoxRecord, res *BoxLayoutResult) {
	cfg := rec.Config
	vertical := cfg.IsVertical()
	space := contentSpace(rec, res)
	e.expandStacked(res, space)

	mainSpace, crossSpace := space.X, space.Y
	if vertical {
		mainSpace, crossSpace = space.Y, space.X
	}

	var crossUsed float32
	lastExpandable := int32(-1)
	for idx, run := range e.flowRuns(res) {
		crossUsed += run.crossMax(vertical)
		if crossExpandCount(run, vertical) > 0 {
			lastExpandable = idx
		}
	}
	crossLeft := crossSpace - crossUsed

	for idx, run := range e.flowRuns(res) {
		e.expandMain(run, mainSpace, vertical)

		target := run.crossMax(vertical)
		if cfg.ConstrainChildren() {
			target = min(target, crossSpace)
		}
		if idx == lastExpandable && crossLeft > 0 {
			target += crossLeft
		}
		e.expandCross(run, target, vertical)

		for child := range e.runChildren(run) {
			cr := e.result(child.Key())
			cr.AvailableSpace = space
		}
	}
}

func crossExpandCount(run *LayoutRun, vertical bool) int {
	if vertical {
		return run.ExpandCountX
	}
	return run.ExpandCountY
}

// expandStacked fills the content box with stacked children that can
// expand. Floating children keep their measured size.
func (e *Engine) expandStacked(res *BoxLayoutResult, space Vec2) {
	if res.FloatingRunIndex < 0 {
		return
	}
	for child := range e.runChildren(e.run(res.FloatingRunIndex)) {
		cr := e.result(child.Key())
		m := cr.margins
		cr.AvailableSpace = Vec2{max(0, space.X-m.X()), max(0, space.Y-m.Y())}
		if child.Config.IsFloating() {
			continue
		}
		if canExpand(child, cr, true) {
			if w := cr.width.Constrain(cr.AvailableSpace.X, true); w > cr.Rect.Width {
				cr.Rect.Width = w
				cr.SizeSetByParent = true
			}
		}
		if canExpand(child, cr, false) {
			if h := cr.height.Constrain(cr.AvailableSpace.Y, true); h > cr.Rect.Height {
				cr.Rect.Height = h
				cr.SizeSetByParent = true
			}
		}
	}
}

// expandMain distributes the free main-axis space of run over its
// expandable children. Children that hit a constraint are capped and the
// remainder is handed out again, up to maxExpansionPasses times. Negative
// space shrinks expandable children unless they prevent crushing.
func (e *Engine) expandMain(run *LayoutRun, mainSpace float32, vertical bool) {
	count := run.ExpandCountX
	if vertical {
		count = run.ExpandCountY
	}
	free := mainSpace - run.mainTotal(vertical)
	if count == 0 || abs(free) <= snapEpsilon {
		return
	}

	for child := range e.runChildren(run) {
		e.result(child.Key()).capped = false
	}

	for pass := 0; pass < maxExpansionPasses && count > 0 && abs(free) > snapEpsilon; pass++ {
		amount := free / float32(count)
		for child := range e.runChildren(run) {
			cr := e.result(child.Key())
			if cr.capped || !canExpand(child, cr, !vertical) {
				continue
			}
			if amount < 0 && preventsCrush(child, vertical) {
				cr.capped = true
				count--
				continue
			}

			size, dim := &cr.Rect.Width, cr.width
			if vertical {
				size, dim = &cr.Rect.Height, cr.height
			}
			old := *size
			next, clamped := dim.ConstrainDelta(old+amount, true)
			if next < 0 {
				clamped -= next
				next = 0
			}
			delta := next - old
			*size = next
			cr.SizeSetByParent = true

			if vertical {
				run.TotalHeight += delta
			} else {
				run.TotalWidth += delta
			}
			free -= delta
			if abs(clamped) > snapEpsilon {
				cr.capped = true
				count--
			}
		}
	}
}

func preventsCrush(child *BoxRecord, vertical bool) bool {
	if vertical {
		return child.Config.PreventCrushY()
	}
	return child.Config.PreventCrushX()
}

// expandCross stretches cross-expandable children of run to target, the
// run's cross extent. The cross axis never shrinks.
func (e *Engine) expandCross(run *LayoutRun, target float32, vertical bool) {
	for child := range e.runChildren(run) {
		cr := e.result(child.Key())
		if !canExpand(child, cr, vertical) {
			continue
		}
		m := cr.margins
		size, dim, margin := &cr.Rect.Height, cr.height, m.Y()
		if vertical {
			size, dim, margin = &cr.Rect.Width, cr.width, m.X()
		}
		next := dim.Constrain(target-margin, true)
		if next <= *size {
			continue
		}
		*size = next
		cr.SizeSetByParent = true
		if vertical {
			run.MaxOuterWidth = max(run.MaxOuterWidth, next+margin)
		} else {
			run.MaxOuterHeight = max(run.MaxOuterHeight, next+margin)
		}
	}
}

func abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
