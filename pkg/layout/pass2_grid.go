package layout

import "github.com/matzehuels/boxflow/pkg/errors"

// pass2Grid sizes the children of a grid container. Columns share the
// content width equally; rows take the height of their tallest cell unless
// normalization is disabled. Children fill columns round-robin in order.
func (e *Engine) pass2Grid(rec *BoxRecord, res *BoxLayoutResult) {
	cfg := rec.Config
	n := cfg.GridColumnCount
	if runs := e.countFlowRuns(res); runs > n {
		errors.Fatal(errors.ErrCodeInvalidOperation, "%s: too many columns (%d > %d)", rec, runs, n)
	}

	space := contentSpace(rec, res)
	e.expandStacked(res, space)
	columnWidth := space.X / float32(n)

	var row []Key
	flush := func() {
		if !cfg.NoNormalization() {
			e.normalizeRow(row)
		}
		row = row[:0]
	}
	for k := range e.Children(rec.Key()) {
		child := e.record(k)
		if child.Config.IsStackedOrFloating() {
			continue
		}
		cr := e.result(k)
		cr.AvailableSpace = Vec2{columnWidth, space.Y}
		if w := cr.width.Constrain(columnWidth-cr.margins.X(), true); w != cr.Rect.Width && !cr.width.HasFixed() {
			cr.Rect.Width = max(0, w)
			cr.SizeSetByParent = true
		}
		if row = append(row, k); len(row) == n {
			flush()
		}
	}
	if len(row) > 0 {
		flush()
	}

	e.retotalColumns(rec, res)

	old := res.Rect.Size()
	res.ContentSize = e.measureRuns(res, true)
	if cfg.ExpandForContentY() {
		need := res.ContentSize.Y + rec.Padding.Y()
		res.Rect.Height = max(old.Y, res.height.Constrain(need, true))
	}
	if delta := res.Rect.Size().Sub(old); delta != (Vec2{}) {
		e.propagate(rec, res, delta)
	}
}

func (e *Engine) countFlowRuns(res *BoxLayoutResult) int {
	n := 0
	for range e.flowRuns(res) {
		n++
	}
	return n
}

// normalizeRow grows every cell of a row to the row's tallest outer height.
func (e *Engine) normalizeRow(row []Key) {
	var tallest float32
	for _, k := range row {
		cr := e.result(k)
		tallest = max(tallest, cr.Rect.Height+cr.margins.Y())
	}
	for _, k := range row {
		cr := e.result(k)
		if h := cr.height.Constrain(tallest-cr.margins.Y(), true); h > cr.Rect.Height {
			cr.Rect.Height = h
			cr.SizeSetByParent = true
		}
	}
}

// retotalColumns recomputes each column's totals after cells were resized.
func (e *Engine) retotalColumns(rec *BoxRecord, res *BoxLayoutResult) {
	for _, run := range e.flowRuns(res) {
		run.resetTotals()
	}
	column := res.FirstRunIndex
	for k := range e.Children(rec.Key()) {
		child := e.record(k)
		if child.Config.IsStackedOrFloating() {
			continue
		}
		run := e.run(column)
		e.addToRun(column, run, child, e.result(k))
		if column = run.NextRunIndex; column < 0 {
			column = res.FirstRunIndex
		}
	}
}
