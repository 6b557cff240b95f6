package layout

import (
	"iter"

	"github.com/matzehuels/boxflow/pkg/errors"
)

func (e *Engine) checkVersion(captured uint64) {
	if captured != e.version {
		errors.Fatal(errors.ErrCodeConcurrentModification, "context was modified during enumeration")
	}
}

// Siblings yields keys from first to last inclusive following sibling
// links, or backwards when reverse is set. Enumeration stops early when the
// chain ends before last. The engine must not be cleared or restructured
// while the sequence is consumed.
func (e *Engine) Siblings(first, last Key, reverse bool) iter.Seq[Key] {
	return func(yield func(Key) bool) {
		v := e.version
		for cur := first; !cur.IsInvalid(); {
			rec := e.record(cur)
			var next Key
			if reverse {
				next = rec.PreviousSibling()
			} else {
				next = rec.NextSibling()
			}
			if !yield(cur) {
				return
			}
			e.checkVersion(v)
			if cur == last {
				return
			}
			cur = next
		}
	}
}

// Children yields the direct children of parent in order.
func (e *Engine) Children(parent Key) iter.Seq[Key] {
	p := e.Record(parent)
	return e.Siblings(p.FirstChild(), p.LastChild(), false)
}

// ChildrenReverse yields the direct children of parent from last to first.
func (e *Engine) ChildrenReverse(parent Key) iter.Seq[Key] {
	p := e.Record(parent)
	return e.Siblings(p.LastChild(), p.FirstChild(), true)
}

// runChain yields the floating run, if any, then the main run chain.
func (e *Engine) runChain(res *BoxLayoutResult) iter.Seq2[int32, *LayoutRun] {
	floating, first := res.FloatingRunIndex, res.FirstRunIndex
	return func(yield func(int32, *LayoutRun) bool) {
		v := e.version
		if floating >= 0 {
			if !yield(floating, e.run(floating)) {
				return
			}
			e.checkVersion(v)
		}
		for i := first; i >= 0; {
			r := e.run(i)
			next := r.NextRunIndex
			if !yield(i, r) {
				return
			}
			e.checkVersion(v)
			i = next
		}
	}
}

// flowRuns yields only the main run chain.
func (e *Engine) flowRuns(res *BoxLayoutResult) iter.Seq2[int32, *LayoutRun] {
	first := res.FirstRunIndex
	return func(yield func(int32, *LayoutRun) bool) {
		v := e.version
		for i := first; i >= 0; {
			r := e.run(i)
			next := r.NextRunIndex
			if !yield(i, r) {
				return
			}
			e.checkVersion(v)
			i = next
		}
	}
}

// runChildren yields the members of run. Flow runs and the floating run
// may interleave in sibling order, so children belonging to the other kind
// of run are skipped.
func (e *Engine) runChildren(run *LayoutRun) iter.Seq[*BoxRecord] {
	return func(yield func(*BoxRecord) bool) {
		if run.First.IsInvalid() {
			return
		}
		for k := range e.Siblings(run.First, run.Last, false) {
			child := e.record(k)
			if child.Config.IsStackedOrFloating() != run.IsFloating {
				continue
			}
			if !yield(child) {
				return
			}
		}
	}
}

// RunCount returns the number of flow runs computed for key in the last
// completed layout, excluding the floating run.
func (e *Engine) RunCount(key Key) int {
	res := e.resultPtr(e.previous(), key)
	if res == nil {
		return 0
	}
	n := 0
	for range e.flowRuns(res) {
		n++
	}
	return n
}
