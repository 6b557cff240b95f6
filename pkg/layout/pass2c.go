package layout

import (
	"slices"

	"github.com/matzehuels/boxflow/pkg/errors"
)

func (e *Engine) enqueueRecalc(key Key) {
	if !slices.Contains(e.recalc, key) {
		e.recalc = append(e.recalc, key)
	}
}

// pass2c settles containers whose children grew after expansion, deepest
// first so each growth reaches every ancestor. It returns the number of
// containers recalculated.
func (e *Engine) pass2c() int {
	n := 0
	for len(e.recalc) > 0 {
		i := e.deepestQueued()
		key := e.recalc[i]
		e.recalc = slices.Delete(e.recalc, i, i+1)

		rec, res := e.record(key), e.result(key)
		if !res.Pass2Complete {
			errors.Fatal(errors.ErrCodeInternal, "%s queued for recalculation before expansion finished", rec)
		}
		e.recalculate(rec, res)
		n++
	}
	return n
}

func (e *Engine) deepestQueued() int {
	best := 0
	for i, k := range e.recalc {
		if e.result(k).Depth > e.result(e.recalc[best]).Depth {
			best = i
		}
	}
	return best
}

// recalculate refreshes a container's content size from its runs and grows
// it to fit. Sizes never shrink here.
func (e *Engine) recalculate(rec *BoxRecord, res *BoxLayoutResult) {
	cfg := rec.Config
	res.ContentSize = e.measureRuns(res, cfg.IsVertical() || cfg.IsGrid())
	need := res.ContentSize.Add(rec.Padding.Size())

	old := res.Rect.Size()
	if cfg.ExpandForContentX() && !(cfg.IsWrap() && !cfg.IsVertical()) {
		res.Rect.Width = max(old.X, res.width.Constrain(need.X, true))
	}
	if cfg.ExpandForContentY() && !(cfg.IsWrap() && cfg.IsVertical()) {
		res.Rect.Height = max(old.Y, res.height.Constrain(need.Y, true))
	}
	if delta := res.Rect.Size().Sub(old); delta != (Vec2{}) {
		e.propagate(rec, res, delta)
	}
}
