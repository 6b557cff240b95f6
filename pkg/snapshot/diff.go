package snapshot

import (
	"fmt"

	"github.com/matzehuels/boxflow/pkg/errors"
)

// Difference is one mismatch between a baseline and a fresh snapshot.
type Difference struct {
	Key   int32  `json:"key"`
	Tag   string `json:"tag,omitempty"`
	Field string `json:"field"`
	Want  string `json:"want"`
	Got   string `json:"got"`
}

func (d Difference) String() string {
	name := d.Tag
	if name == "" {
		name = fmt.Sprintf("#%d", d.Key)
	}
	return fmt.Sprintf("%s %s: want %s, got %s", name, d.Field, d.Want, d.Got)
}

// Diff compares got against the baseline want, box by box in capture order.
// Coordinates within tolerance of each other are equal.
func Diff(want, got *Snapshot, tolerance float32) []Difference {
	var diffs []Difference
	add := func(b Box, field string, w, g any) {
		diffs = append(diffs, Difference{
			Key:   b.Key,
			Tag:   b.Tag,
			Field: field,
			Want:  fmt.Sprint(w),
			Got:   fmt.Sprint(g),
		})
	}

	if want.Canvas != got.Canvas {
		add(Box{Key: 0, Tag: "canvas"}, "size", want.Canvas, got.Canvas)
	}

	n := min(len(want.Boxes), len(got.Boxes))
	for i := range n {
		w, g := want.Boxes[i], got.Boxes[i]
		if w.Key != g.Key || w.Tag != g.Tag || w.Parent != g.Parent {
			add(w, "identity", describe(w), describe(g))
			continue
		}
		if !w.Rect.near(g.Rect, tolerance) {
			add(w, "rect", w.Rect, g.Rect)
		}
		if !w.ContentRect.near(g.ContentRect, tolerance) {
			add(w, "content_rect", w.ContentRect, g.ContentRect)
		}
		if !near(w.ContentSize.Width, g.ContentSize.Width, tolerance) ||
			!near(w.ContentSize.Height, g.ContentSize.Height, tolerance) {
			add(w, "content_size", w.ContentSize, g.ContentSize)
		}
	}
	for _, b := range want.Boxes[n:] {
		add(b, "presence", "present", "missing")
	}
	for _, b := range got.Boxes[n:] {
		add(b, "presence", "missing", "present")
	}
	return diffs
}

// Check returns a BASELINE_MISMATCH error listing diffs, or nil when there
// are none.
func Check(want, got *Snapshot, tolerance float32) error {
	diffs := Diff(want, got, tolerance)
	if len(diffs) == 0 {
		return nil
	}
	lines := make([]string, len(diffs))
	for i, d := range diffs {
		lines[i] = d.String()
	}
	return &errors.MismatchError{Fixture: want.Fixture, Differences: len(diffs), Details: lines}
}

func describe(b Box) string {
	return fmt.Sprintf("#%d %q parent #%d", b.Key, b.Tag, b.Parent)
}

func (r Rect) near(o Rect, tolerance float32) bool {
	return near(r.Left, o.Left, tolerance) && near(r.Top, o.Top, tolerance) &&
		near(r.Width, o.Width, tolerance) && near(r.Height, o.Height, tolerance)
}

func near(a, b, tolerance float32) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d <= tolerance
}
