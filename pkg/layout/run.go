package layout

import "github.com/matzehuels/boxflow/pkg/errors"

// LayoutRun is one line of children inside a container: a row of a
// horizontal container or a column of a vertical one. Runs form a singly
// linked chain per container; stacked and floating children share a
// separate floating run.
type LayoutRun struct {
	First, Last Key

	FlowCount    int
	ExpandCountX int
	ExpandCountY int

	TotalWidth     float32
	TotalHeight    float32
	MaxOuterWidth  float32
	MaxOuterHeight float32

	IsFloating   bool
	NextRunIndex int32
	Index        int32
}

func (r *LayoutRun) reset(index int32) {
	*r = LayoutRun{
		First:        InvalidKey,
		Last:         InvalidKey,
		NextRunIndex: -1,
		Index:        index,
	}
}

// mainTotal is the summed extent along the flow axis.
func (r *LayoutRun) mainTotal(vertical bool) float32 {
	if vertical {
		return r.TotalHeight
	}
	return r.TotalWidth
}

// crossMax is the largest child extent across the flow axis.
func (r *LayoutRun) crossMax(vertical bool) float32 {
	if vertical {
		return r.MaxOuterWidth
	}
	return r.MaxOuterHeight
}

func (e *Engine) run(index int32) *LayoutRun {
	if index < 0 || int(index) >= e.runs.Len() {
		errors.Fatal(errors.ErrCodeIndexOutOfRange, "run index %d out of range [0, %d)", index, e.runs.Len())
	}
	return e.runs.At(int(index))
}

// insertRun allocates a run and links it after afterIndex, or leaves it
// unlinked when afterIndex is negative.
func (e *Engine) insertRun(afterIndex int32) (int32, *LayoutRun) {
	i, r := e.runs.Allocate()
	index := int32(i)
	r.reset(index)
	if afterIndex >= 0 {
		after := e.run(afterIndex)
		r.NextRunIndex = after.NextRunIndex
		after.NextRunIndex = index
	}
	return index, r
}

func (e *Engine) pushRun() (int32, *LayoutRun) {
	return e.insertRun(-1)
}

// getOrPushRun returns the run at *index, allocating one first if *index is negative.
func (e *Engine) getOrPushRun(index *int32) *LayoutRun {
	if *index < 0 {
		var r *LayoutRun
		*index, r = e.pushRun()
		return r
	}
	return e.run(*index)
}

// selectRun picks the run a child joins while building: the floating run
// for stacked and floating children, a fresh run after the current one on
// a break, and the current run otherwise.
func (e *Engine) selectRun(res *BoxLayoutResult, current *int32, child *BoxRecord, isBreak bool) (int32, *LayoutRun) {
	if child.Config.IsStackedOrFloating() {
		r := e.getOrPushRun(&res.FloatingRunIndex)
		r.IsFloating = true
		return res.FloatingRunIndex, r
	}
	if *current < 0 {
		r := e.getOrPushRun(current)
		if res.FirstRunIndex < 0 {
			res.FirstRunIndex = *current
		}
		return *current, r
	}
	if isBreak {
		var r *LayoutRun
		*current, r = e.insertRun(*current)
		return *current, r
	}
	return *current, e.run(*current)
}

// addToRun accumulates a child's outer size into run and counts children
// that can expand along each axis.
func (e *Engine) addToRun(index int32, run *LayoutRun, child *BoxRecord, childRes *BoxLayoutResult) {
	if run.First.IsInvalid() {
		run.First = child.Key()
	}
	run.Last = child.Key()
	childRes.ParentRunIndex = index

	if child.Config.IsFloating() {
		return
	}
	run.FlowCount++
	if canExpand(child, childRes, true) {
		run.ExpandCountX++
	}
	if canExpand(child, childRes, false) {
		run.ExpandCountY++
	}

	w := childRes.Rect.Width + childRes.margins.X()
	h := childRes.Rect.Height + childRes.margins.Y()
	run.TotalWidth += w
	run.TotalHeight += h
	run.MaxOuterWidth = max(run.MaxOuterWidth, w)
	run.MaxOuterHeight = max(run.MaxOuterHeight, h)
}

// canExpand reports whether a child participates in expansion on the given axis.
func canExpand(child *BoxRecord, res *BoxLayoutResult, horizontal bool) bool {
	if horizontal {
		return child.Config.FillRow() && !res.width.HasFixed()
	}
	return child.Config.FillColumn() && !res.height.HasFixed()
}

// resetTotals clears accumulated sizes and membership but keeps the chain link.
func (r *LayoutRun) resetTotals() {
	next, index, floating := r.NextRunIndex, r.Index, r.IsFloating
	r.reset(index)
	r.NextRunIndex = next
	r.IsFloating = floating
}
