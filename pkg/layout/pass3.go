package layout

import "github.com/matzehuels/boxflow/pkg/errors"

// arrangeFrame describes the content box of the container being arranged.
type arrangeFrame struct {
	rec *BoxRecord
	res *BoxLayoutResult

	position Vec2 // top-left of the content box
	space    Vec2 // size of the content box
	extent   Vec2 // bottom-right of the content box
	expanded Vec2 // space grown to the measured content size
}

// pass3 positions boxes top-down. Runs are laid end to end along the cross
// axis and aligned within the free space along the main axis; each child
// is aligned inside its run by its anchors.
func (e *Engine) pass3(rec *BoxRecord, res *BoxLayoutResult, depth int) {
	if res.Arranged {
		errors.Fatal(errors.ErrCodeInvalidOperation, "%s arranged twice", rec)
	}
	if depth == 0 && rec.Config.IsFloating() {
		var at Vec2
		if rec.FloatingPosition != nil {
			at = *rec.FloatingPosition
		}
		pos := at.Add(res.margins.TopLeft())
		res.Rect.Left, res.Rect.Top = pos.X, pos.Y
	}

	pad := rec.Padding
	f := arrangeFrame{
		rec:      rec,
		res:      res,
		position: res.Rect.Position().Add(pad.TopLeft()),
		space:    contentSpace(rec, res),
		extent:   res.Rect.Extent().Sub(pad.BottomRight()),
	}
	f.expanded = f.space.Max(res.ContentSize)

	if rec.HasChildren() {
		if rec.Config.IsGrid() {
			e.arrangeGrid(&f, depth)
		} else {
			e.arrangeRuns(&f, depth)
		}
	}

	res.ContentRect = RectF{Left: f.position.X, Top: f.position.Y, Width: f.space.X, Height: f.space.Y}
	res.Arranged = true
}

func (e *Engine) arrangeRuns(f *arrangeFrame, depth int) {
	cfg := f.rec.Config
	vertical := cfg.IsVertical()
	xAlign, yAlign := cfg.RunAlignment()

	var x, y float32
	for _, run := range e.runChain(f.res) {
		if run.IsFloating {
			for child := range e.runChildren(run) {
				e.arrangeStacked(f, child, depth)
			}
			continue
		}

		last := run.NextRunIndex < 0
		rw, rh := run.TotalWidth, run.MaxOuterHeight
		if vertical {
			rw, rh = run.MaxOuterWidth, run.TotalHeight
		}
		if cfg.Clip() {
			rw, rh = min(rw, f.space.X), min(rh, f.space.Y)
		}

		var baseline float32
		if vertical {
			y = max(0, f.space.Y-rh) * yAlign
			baseline = rw
			if last {
				baseline = max(rw, f.space.X-x)
			}
		} else {
			x = max(0, f.space.X-rw) * xAlign
			baseline = rh
			if last {
				baseline = max(rh, f.space.Y-y)
			}
		}

		for child := range e.runChildren(run) {
			e.arrangeFlow(f, child, &x, &y, baseline, depth)
		}

		if vertical {
			x += run.MaxOuterWidth
			y = 0
		} else {
			y += run.MaxOuterHeight
			x = 0
		}
	}
}

// arrangeFlow places one flow child at the cursor, aligns it across the
// run, and advances the cursor along the main axis.
func (e *Engine) arrangeFlow(f *arrangeFrame, child *BoxRecord, x, y *float32, baseline float32, depth int) {
	cfg := f.rec.Config
	vertical := cfg.IsVertical()
	cr := e.result(child.Key())
	m := cr.margins
	outer := cr.Rect.Size().Add(m.Size())

	ax, ay := child.Config.Alignment()
	var offset Vec2
	if vertical {
		offset.X = max(0, baseline-outer.X) * ax
	} else {
		offset.Y = max(0, baseline-outer.Y) * ay
	}

	cr.Rect.Left = f.position.X + *x + offset.X + m.Left
	cr.Rect.Top = f.position.Y + *y + offset.Y + m.Top
	if vertical {
		*y += outer.Y
	} else {
		*x += outer.X
	}

	if cfg.IsReverse() {
		e.mirror(f, cr, vertical)
	}
	if !child.Config.NoMeasurement() {
		e.measureArranged(f, cr)
	}
	if cfg.Clip() {
		clip(f, cr)
	}
	e.pass3(child, cr, depth+1)
}

// mirror flips a child's main-axis position within the content box.
func (e *Engine) mirror(f *arrangeFrame, cr *BoxLayoutResult, vertical bool) {
	m := cr.margins
	if vertical {
		outerTop := cr.Rect.Top - m.Top - f.position.Y
		cr.Rect.Top = f.position.Y + f.space.Y - outerTop - (cr.Rect.Height + m.Y()) + m.Top
		return
	}
	outerLeft := cr.Rect.Left - m.Left - f.position.X
	cr.Rect.Left = f.position.X + f.space.X - outerLeft - (cr.Rect.Width + m.X()) + m.Left
}

// measureArranged extends the container's content size to cover cr.
func (e *Engine) measureArranged(f *arrangeFrame, cr *BoxLayoutResult) {
	extent := Vec2{
		X: cr.Rect.Right() + cr.margins.Right - f.position.X,
		Y: cr.Rect.Bottom() + cr.margins.Bottom - f.position.Y,
	}
	f.res.ContentSize = f.res.ContentSize.Max(extent)
}

// clip trims a child so it ends inside the content box. Only the right
// and bottom edges clip.
func clip(f *arrangeFrame, cr *BoxLayoutResult) {
	right := f.extent.X - cr.margins.Right
	bottom := f.extent.Y - cr.margins.Bottom
	cr.Rect.Width = max(0, min(cr.Rect.Width, right-cr.Rect.Left))
	cr.Rect.Height = max(0, min(cr.Rect.Height, bottom-cr.Rect.Top))
}

// arrangeStacked positions a stacked or floating child. Floating children
// sit at their floating position relative to the content box; without one,
// and for stacked children, the box is aligned by its anchors.
func (e *Engine) arrangeStacked(f *arrangeFrame, child *BoxRecord, depth int) {
	cr := e.result(child.Key())
	m := cr.margins
	ax, ay := child.Config.Alignment()

	if child.Config.IsFloating() {
		pos := f.position.Add(m.TopLeft())
		if child.FloatingPosition != nil {
			pos = pos.Add(*child.FloatingPosition)
		}
		cr.Rect.Left, cr.Rect.Top = pos.X, pos.Y
		cr.AvailableSpace = Vec2{
			X: max(0, f.extent.X-cr.Rect.Left-m.Right),
			Y: max(0, f.extent.Y-cr.Rect.Top-m.Bottom),
		}
		if child.FloatingPosition == nil {
			cr.Rect.Left += max(0, cr.AvailableSpace.X-cr.Rect.Width) * ax
			cr.Rect.Top += max(0, cr.AvailableSpace.Y-cr.Rect.Height) * ay
		}
		e.pass3(child, cr, depth+1)
		return
	}

	basis := f.expanded
	if child.Config.AlignToParentBox() {
		basis = f.space
	}
	free := basis.Sub(cr.Rect.Size().Add(m.Size()))
	cr.Rect.Left = f.position.X + max(0, free.X)*ax + m.Left
	cr.Rect.Top = f.position.Y + max(0, free.Y)*ay + m.Top
	if !child.Config.NoMeasurement() {
		e.measureArranged(f, cr)
	}
	e.pass3(child, cr, depth+1)
}

// arrangeGrid places flow children column by column. Stacked and floating
// children are arranged first, as in any other container.
func (e *Engine) arrangeGrid(f *arrangeFrame, depth int) {
	cfg := f.rec.Config
	n := cfg.GridColumnCount
	if f.res.FloatingRunIndex >= 0 {
		for child := range e.runChildren(e.run(f.res.FloatingRunIndex)) {
			e.arrangeStacked(f, child, depth)
		}
	}

	columnWidth := f.space.X / float32(n)
	columnY := make([]float32, n)
	column := 0
	for k := range e.Children(f.rec.Key()) {
		child := e.record(k)
		if child.Config.IsStackedOrFloating() {
			continue
		}
		cr := e.result(k)
		m := cr.margins
		cr.Rect.Left = f.position.X + columnWidth*float32(column) + m.Left
		cr.Rect.Top = f.position.Y + columnY[column] + m.Top
		columnY[column] += cr.Rect.Height + m.Y()

		if !child.Config.NoMeasurement() {
			e.measureArranged(f, cr)
		}
		if cfg.Clip() {
			clip(f, cr)
		}
		column = (column + 1) % n
		e.pass3(child, cr, depth+1)
	}
}
