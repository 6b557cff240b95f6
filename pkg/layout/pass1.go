package layout

import "github.com/matzehuels/boxflow/pkg/errors"

// pass1 measures bottom-up. Each box starts at its effective minimum, its
// children are measured and grouped into runs, and the box grows to fit
// them when its container flags allow it. available is the parent's
// provisional content size, used as the base for percentage dimensions.
func (e *Engine) pass1(rec *BoxRecord, res *BoxLayoutResult, depth int, available Vec2, margins Margins) {
	if res.Version == e.version && res.Pass1Processed {
		errors.Fatal(errors.ErrCodeInvalidOperation, "%s visited twice in measurement", rec)
	}
	e.initializeResult(rec, res, depth)
	res.Pass1Processed = true

	res.width = rec.Width.Resolve(available.X)
	res.height = rec.Height.Resolve(available.Y)
	res.margins = margins
	res.AvailableSpace = available
	res.Rect.Width = res.width.EffectiveMinimum()
	res.Rect.Height = res.height.EffectiveMinimum()

	if rec.HasChildren() {
		content := Vec2{
			X: max(0, res.Rect.Width-rec.Padding.X()),
			Y: max(0, res.Rect.Height-rec.Padding.Y()),
		}
		if rec.Config.IsGrid() {
			e.pass1Grid(rec, res, depth, content)
		} else {
			e.pass1Flow(rec, res, depth, content)
		}
		e.growForContent(rec, res)
	}

	res.Rect.Width = res.width.Constrain(res.Rect.Width, true)
	res.Rect.Height = res.height.Constrain(res.Rect.Height, true)
	res.Pass1Ready = true
}

// measureChild resolves the child's margins against rec's padding and
// measures it.
func (e *Engine) measureChild(rec, child *BoxRecord, childRes *BoxLayoutResult, depth int, content Vec2) {
	e.pass1(child, childRes, depth+1, content, collapseMargins(child, rec.Padding))
}

// collapseMargins returns the margins a child occupies inside its parent.
// With CollapseMargins the margins overlap the parent's padding.
func collapseMargins(child *BoxRecord, padding Margins) Margins {
	m := child.Margins
	if !child.Config.CollapseMargins() {
		return m
	}
	return Margins{
		Left:   max(0, m.Left-padding.Left),
		Top:    max(0, m.Top-padding.Top),
		Right:  max(0, m.Right-padding.Right),
		Bottom: max(0, m.Bottom-padding.Bottom),
	}
}

func (e *Engine) pass1Flow(rec *BoxRecord, res *BoxLayoutResult, depth int, content Vec2) {
	current := int32(-1)
	for k := range e.Children(rec.Key()) {
		child := e.record(k)
		childRes := e.result(k)
		e.measureChild(rec, child, childRes, depth, content)

		isBreak := childRes.Break && !child.Config.IsStackedOrFloating()
		idx, run := e.selectRun(res, &current, child, isBreak)
		e.addToRun(idx, run, child, childRes)
	}
}

func (e *Engine) pass1Grid(rec *BoxRecord, res *BoxLayoutResult, depth int, content Vec2) {
	n := rec.Config.GridColumnCount
	if n <= 0 {
		errors.Fatal(errors.ErrCodeInvalidOperation, "%s: grid needs a positive column count, got %d", rec, n)
	}

	first, _ := e.pushRun()
	res.FirstRunIndex = first
	prev := first
	for range n - 1 {
		prev, _ = e.insertRun(prev)
	}

	column := first
	for k := range e.Children(rec.Key()) {
		child := e.record(k)
		childRes := e.result(k)
		e.measureChild(rec, child, childRes, depth, content)

		if child.Config.IsStackedOrFloating() {
			idx, run := e.selectRun(res, &column, child, false)
			e.addToRun(idx, run, child, childRes)
			continue
		}
		run := e.run(column)
		e.addToRun(column, run, child, childRes)
		if column = run.NextRunIndex; column < 0 {
			column = first
		}
	}
}

// measureRuns computes the extent of a container's children from its runs.
// columns is set for vertical and grid containers, whose runs sit side by
// side horizontally.
func (e *Engine) measureRuns(res *BoxLayoutResult, columns bool) Vec2 {
	var flow, stacked Vec2
	for _, run := range e.runChain(res) {
		if run.IsFloating {
			for child := range e.runChildren(run) {
				if child.Config.IsFloating() {
					continue
				}
				cr := e.result(child.Key())
				stacked.X = max(stacked.X, cr.Rect.Width+cr.margins.X())
				stacked.Y = max(stacked.Y, cr.Rect.Height+cr.margins.Y())
			}
			continue
		}
		if columns {
			flow.X += run.MaxOuterWidth
			flow.Y = max(flow.Y, run.TotalHeight)
		} else {
			flow.X = max(flow.X, run.TotalWidth)
			flow.Y += run.MaxOuterHeight
		}
	}
	return flow.Max(stacked)
}

// largestFlowChild returns the biggest outer size of any single flow child,
// the smallest main-axis size a wrapping container can shrink to.
func (e *Engine) largestFlowChild(res *BoxLayoutResult) Vec2 {
	var out Vec2
	for _, run := range e.flowRuns(res) {
		out.X = max(out.X, run.MaxOuterWidth)
		out.Y = max(out.Y, run.MaxOuterHeight)
	}
	return out
}

// growForContent records the measured content size and grows the box
// along the axes its container flags allow.
func (e *Engine) growForContent(rec *BoxRecord, res *BoxLayoutResult) {
	cfg := rec.Config
	columns := cfg.IsVertical() || cfg.IsGrid()
	res.ContentSize = e.measureRuns(res, columns)

	need := res.ContentSize.Add(rec.Padding.Size())
	if cfg.IsWrap() && !cfg.IsGrid() {
		// A wrapping container only has to fit its widest child along the
		// main axis; pass 2 breaks lines to fit the rest.
		widest := e.largestFlowChild(res).Add(rec.Padding.Size())
		if cfg.IsVertical() {
			need.Y = widest.Y
		} else {
			need.X = widest.X
		}
	}
	if cfg.ExpandForContentX() {
		res.Rect.Width = max(res.Rect.Width, need.X)
	}
	if cfg.ExpandForContentY() {
		res.Rect.Height = max(res.Rect.Height, need.Y)
	}
}
