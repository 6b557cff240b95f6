package layout

import (
	"fmt"
	"testing"

	"github.com/matzehuels/boxflow/pkg/errors"
)

var topLeft = NewConfig(0, AnchorLeft|AnchorTop)

func add(e *Engine, parent Key, tag string, cfg Config, w, h Dimension) Key {
	k := e.CreateIn(parent, tag, cfg)
	rec := e.Record(k)
	rec.Width, rec.Height = w, h
	return k
}

func wantRect(t *testing.T, e *Engine, k Key, want RectF) {
	t.Helper()
	if got := e.Result(k).Rect; got != want {
		t.Errorf("Result(%s %q).Rect = %+v, want %+v", k, e.Record(k).Tag, got, want)
	}
}

func expectPanic(t *testing.T, code errors.Code, fn func()) {
	t.Helper()
	err := Safely(fn)
	if !errors.Is(err, code) {
		t.Fatalf("expected %s panic, got %v", code, err)
	}
}

func TestFixedAndFillInRow(t *testing.T) {
	e := New(WithCanvasSize(800, 600))
	bar := add(e, RootKey, "bar", NewConfig(DefaultContainerFlags, FillRow|AnchorTop), Dimension{}, Dimension{})
	a := add(e, bar, "a", topLeft, Fixed(100), Fixed(50))
	b := add(e, bar, "b", NewConfig(0, Fill), Dimension{}, Dimension{})
	e.Update()

	wantRect(t, e, bar, RectF{0, 0, 800, 50})
	wantRect(t, e, a, RectF{0, 0, 100, 50})
	wantRect(t, e, b, RectF{100, 0, 700, 50})
}

// On the root, the last run's cross extent is the whole remaining content
// height: an unanchored child is centered in it and a fill-row child keeps
// its measured height.
func TestFixedAndFillOnRoot(t *testing.T) {
	e := New(WithCanvasSize(800, 600))
	a := add(e, RootKey, "a", NewConfig(0, 0), Fixed(100), Fixed(50))
	b := add(e, RootKey, "b", NewConfig(0, FillRow), Dimension{}, Dimension{})
	e.Update()

	wantRect(t, e, a, RectF{0, 275, 100, 50})
	wantRect(t, e, b, RectF{100, 300, 700, 0})
}

func TestWrapStartsNewRun(t *testing.T) {
	e := New(WithCanvasSize(800, 600))
	row := add(e, RootKey, "row", NewConfig(LayoutRow|ArrangeWrap|SizeExpandForContent, AnchorLeft|AnchorTop), Fixed(150), Dimension{})
	c1 := add(e, row, "c1", topLeft, Fixed(100), Fixed(30))
	c2 := add(e, row, "c2", topLeft, Fixed(100), Fixed(30))
	c3 := add(e, row, "c3", topLeft, Fixed(50), Fixed(30))
	e.Update()

	wantRect(t, e, c1, RectF{0, 0, 100, 30})
	wantRect(t, e, c2, RectF{0, 30, 100, 30})
	wantRect(t, e, c3, RectF{100, 30, 50, 30})
	wantRect(t, e, row, RectF{0, 0, 150, 60})
	if n := e.RunCount(row); n != 2 {
		t.Errorf("RunCount = %d, want 2", n)
	}
}

func TestWrapEveryChildOwnRun(t *testing.T) {
	e := New(WithCanvasSize(800, 600))
	row := add(e, RootKey, "row", NewConfig(LayoutRow|ArrangeWrap|SizeExpandForContent, AnchorLeft|AnchorTop), Fixed(150), Dimension{})
	var keys []Key
	for range 3 {
		keys = append(keys, add(e, row, "c", topLeft, Fixed(100), Fixed(30)))
	}
	e.Update()

	for i, k := range keys {
		wantRect(t, e, k, RectF{0, float32(30 * i), 100, 30})
	}
	if n := e.RunCount(row); n != 3 {
		t.Errorf("RunCount = %d, want 3", n)
	}
	if h := e.Result(row).Rect.Height; h != 90 {
		t.Errorf("height = %v, want 90", h)
	}
}

func TestWrapGrowsAncestors(t *testing.T) {
	e := New(WithCanvasSize(800, 600))
	outer := add(e, RootKey, "outer", NewConfig(LayoutColumn|SizeExpandForContent, AnchorLeft|AnchorTop), Dimension{}, Dimension{})
	row := add(e, outer, "row", NewConfig(LayoutRow|ArrangeWrap|SizeExpandForContent, AnchorLeft|AnchorTop), Fixed(150), Dimension{})
	for range 3 {
		add(e, row, "c", topLeft, Fixed(100), Fixed(30))
	}
	after := add(e, outer, "after", topLeft, Fixed(10), Fixed(10))
	e.Update()

	if h := e.Result(outer).Rect.Height; h != 100 {
		t.Errorf("outer height = %v, want 100", h)
	}
	wantRect(t, e, after, RectF{0, 90, 10, 10})
}

func TestFloatingIgnoresContentSize(t *testing.T) {
	e := New(WithCanvasSize(300, 300))
	f := add(e, RootKey, "float", NewConfig(0, Floating), Fixed(50), Fixed(50))
	e.Record(f).FloatingPosition = &Vec2{20, 20}
	e.Update()

	wantRect(t, e, f, RectF{20, 20, 50, 50})
	if cs := e.Result(RootKey).ContentSize; cs != (Vec2{}) {
		t.Errorf("root ContentSize = %+v, want zero", cs)
	}
}

func TestPreventCrushKeepsMinimum(t *testing.T) {
	tests := []struct {
		name      string
		flags     ContainerFlag
		wantWidth float32
	}{
		{"prevent crush", SizePreventCrushX, 80},
		{"crushable", SizeExpandForContentX, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := New(WithCanvasSize(800, 600))
			box := add(e, RootKey, "box", NewConfig(LayoutRow, AnchorLeft|AnchorTop), Fixed(100), Fixed(20))
			var children []Key
			for _, tag := range []string{"a", "b"} {
				k := add(e, box, tag, NewConfig(LayoutRow|tt.flags, FillRow|AnchorTop), AtLeast(40), Fixed(20))
				add(e, k, "content", topLeft, Fixed(80), Fixed(20))
				children = append(children, k)
			}
			e.Update()

			for _, k := range children {
				if w := e.Result(k).Rect.Width; w != tt.wantWidth {
					t.Errorf("%s width = %v, want %v", e.Record(k).Tag, w, tt.wantWidth)
				}
			}
		})
	}
}

func TestExpansionRedistributesCappedSpace(t *testing.T) {
	e := New(WithCanvasSize(800, 600))
	row := add(e, RootKey, "row", NewConfig(LayoutRow, AnchorLeft|AnchorTop), Fixed(300), Fixed(20))
	a := add(e, row, "a", NewConfig(0, FillRow), Between(0, 50), Dimension{})
	b := add(e, row, "b", NewConfig(0, FillRow), Dimension{}, Dimension{})
	c := add(e, row, "c", NewConfig(0, FillRow), Dimension{}, Dimension{})
	e.Update()

	for k, want := range map[Key]float32{a: 50, b: 125, c: 125} {
		if w := e.Result(k).Rect.Width; w != want {
			t.Errorf("%s width = %v, want %v", e.Record(k).Tag, w, want)
		}
	}
	wantRect(t, e, c, RectF{175, 10, 125, 0})
}

func TestRunAlignment(t *testing.T) {
	tests := []struct {
		name  string
		align ContainerFlag
		wantX float32
	}{
		{"start", 0, 0},
		{"center", AlignCenter, 100},
		{"end", AlignEnd, 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := New(WithCanvasSize(800, 600))
			row := add(e, RootKey, "row", NewConfig(LayoutRow|tt.align, AnchorLeft|AnchorTop), Fixed(300), Fixed(50))
			c := add(e, row, "c", topLeft, Fixed(100), Fixed(50))
			e.Update()
			wantRect(t, e, c, RectF{tt.wantX, 0, 100, 50})
		})
	}
}

func TestJustifyNotImplemented(t *testing.T) {
	e := New(WithCanvasSize(800, 600))
	row := add(e, RootKey, "row", NewConfig(LayoutRow|AlignJustify, AnchorLeft|AnchorTop), Fixed(300), Fixed(50))
	add(e, row, "c", topLeft, Fixed(100), Fixed(50))
	expectPanic(t, errors.ErrCodeNotImplemented, e.Update)
}

func TestChildAnchorsWithinRun(t *testing.T) {
	tests := []struct {
		name  string
		flags BoxFlag
		wantY float32
	}{
		{"top", AnchorLeft | AnchorTop, 0},
		{"bottom", AnchorLeft | AnchorBottom, 40},
		{"unanchored", AnchorLeft, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := New(WithCanvasSize(800, 600))
			row := add(e, RootKey, "row", NewConfig(LayoutRow, AnchorLeft|AnchorTop), Fixed(300), Fixed(50))
			c := add(e, row, "c", NewConfig(0, tt.flags), Fixed(100), Fixed(10))
			e.Update()
			wantRect(t, e, c, RectF{0, tt.wantY, 100, 10})
		})
	}
}

func TestReverseMirrorsMainAxis(t *testing.T) {
	e := New(WithCanvasSize(800, 600))
	row := add(e, RootKey, "row", NewConfig(LayoutRow|LayoutReverse, AnchorLeft|AnchorTop), Fixed(300), Fixed(50))
	a := add(e, row, "a", topLeft, Fixed(100), Fixed(50))
	b := add(e, row, "b", topLeft, Fixed(50), Fixed(50))
	e.Update()

	wantRect(t, e, a, RectF{200, 0, 100, 50})
	wantRect(t, e, b, RectF{150, 0, 50, 50})
}

func TestColumnWithMarginsAndPadding(t *testing.T) {
	e := New(WithCanvasSize(800, 600))
	col := add(e, RootKey, "col", NewConfig(LayoutColumn|SizeExpandForContent, AnchorLeft|AnchorTop), Dimension{}, Dimension{})
	e.Record(col).Padding = Uniform(10)
	a := add(e, col, "a", topLeft, Fixed(40), Fixed(20))
	b := add(e, col, "b", topLeft, Fixed(60), Fixed(20))
	e.Record(b).Margins = Margins{Top: 5}
	e.Update()

	wantRect(t, e, col, RectF{0, 0, 80, 65})
	wantRect(t, e, a, RectF{10, 10, 40, 20})
	wantRect(t, e, b, RectF{10, 35, 60, 20})
	if cr := e.Result(col).ContentRect; cr != (RectF{10, 10, 60, 45}) {
		t.Errorf("ContentRect = %+v", cr)
	}
}

func TestCollapseMarginsOverlapPadding(t *testing.T) {
	e := New(WithCanvasSize(800, 600))
	col := add(e, RootKey, "col", NewConfig(LayoutColumn|SizeExpandForContent, AnchorLeft|AnchorTop), Dimension{}, Dimension{})
	e.Record(col).Padding = Uniform(10)
	c := add(e, col, "c", NewConfig(0, AnchorLeft|AnchorTop|CollapseMargins), Fixed(40), Fixed(20))
	e.Record(c).Margins = Uniform(15)
	e.Update()

	wantRect(t, e, col, RectF{0, 0, 70, 50})
	wantRect(t, e, c, RectF{15, 15, 40, 20})
}

func TestClipTrimsRightAndBottom(t *testing.T) {
	tests := []struct {
		name  string
		flags ContainerFlag
		want  float32
	}{
		{"clipped", LayoutRow | BoxesClip, 100},
		{"overflowing", LayoutRow, 150},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := New(WithCanvasSize(800, 600))
			box := add(e, RootKey, "box", NewConfig(tt.flags, AnchorLeft|AnchorTop), Fixed(100), Fixed(50))
			c := add(e, box, "c", topLeft, Fixed(150), Fixed(20))
			e.Update()
			if w := e.Result(c).Rect.Width; w != tt.want {
				t.Errorf("width = %v, want %v", w, tt.want)
			}
		})
	}
}

func TestStackedChildren(t *testing.T) {
	e := New(WithCanvasSize(800, 600))
	bg := add(e, RootKey, "bg", NewConfig(0, Stacked|Fill), Dimension{}, Dimension{})
	corner := add(e, RootKey, "corner", NewConfig(0, Stacked|AnchorRight|AnchorBottom), Fixed(100), Fixed(100))
	e.Update()

	wantRect(t, e, bg, RectF{0, 0, 800, 600})
	wantRect(t, e, corner, RectF{700, 500, 100, 100})
}

func TestPercentageResolvesAgainstParent(t *testing.T) {
	e := New(WithCanvasSize(800, 600))
	c := add(e, RootKey, "half", topLeft, Percent(50), Fixed(10))
	e.Update()
	wantRect(t, e, c, RectF{0, 0, 400, 10})
}

func TestGrid(t *testing.T) {
	tests := []struct {
		name  string
		flags ContainerFlag
		want  []RectF
	}{
		{
			name: "normalized",
			want: []RectF{{0, 0, 100, 30}, {100, 0, 100, 30}, {0, 30, 100, 20}},
		},
		{
			name:  "no normalization",
			flags: BoxesGridNoNormalization,
			want:  []RectF{{0, 0, 100, 10}, {100, 0, 100, 30}, {0, 10, 100, 20}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := New(WithCanvasSize(800, 600))
			cfg := NewConfig(LayoutColumn|SizeExpandForContentY|tt.flags, AnchorLeft|AnchorTop).WithGrid(2)
			grid := add(e, RootKey, "grid", cfg, Fixed(200), Dimension{})
			cells := []Key{
				add(e, grid, "c1", topLeft, Dimension{}, AtLeast(10)),
				add(e, grid, "c2", topLeft, Dimension{}, AtLeast(30)),
				add(e, grid, "c3", topLeft, Dimension{}, AtLeast(20)),
			}
			e.Update()
			for i, k := range cells {
				wantRect(t, e, k, tt.want[i])
			}
		})
	}
}

func TestLayoutIsIdempotent(t *testing.T) {
	e := New(WithCanvasSize(640, 480))
	buildSample(e)
	e.Update()
	first := snapshotRects(e)
	e.Update()
	second := snapshotRects(e)

	for k, r := range first {
		if second[k] != r {
			t.Errorf("%s: %+v after second update, want %+v", k, second[k], r)
		}
	}
}

func TestMinimumWidthIsMonotonic(t *testing.T) {
	var last float32
	for _, minWidth := range []float32{10, 20, 40, 80, 160} {
		e := New(WithCanvasSize(800, 600))
		row := add(e, RootKey, "row", NewConfig(LayoutRow|SizeExpandForContent, AnchorLeft|AnchorTop), Dimension{}, Dimension{})
		add(e, row, "fixed", topLeft, Fixed(30), Fixed(10))
		add(e, row, "grow", topLeft, AtLeast(minWidth), Fixed(10))
		e.Update()

		w := e.Result(row).Rect.Width
		if w < last {
			t.Errorf("min width %v: container width %v shrank below %v", minWidth, w, last)
		}
		last = w
	}
}

func TestResultsAreDoubleBuffered(t *testing.T) {
	e := New(WithCanvasSize(800, 600))
	c := add(e, RootKey, "c", topLeft, Fixed(10), Fixed(10))
	e.Update()

	e.Record(c).SetFixedSize(20, 20)
	if w := e.Result(c).Rect.Width; w != 10 {
		t.Fatalf("width before update = %v, want 10", w)
	}
	e.Update()
	if w := e.Result(c).Rect.Width; w != 20 {
		t.Errorf("width after update = %v, want 20", w)
	}
	if w := e.InProgressResult(c).Rect.Width; w != 10 {
		t.Errorf("in-progress width = %v, want 10", w)
	}
}

func TestUnsafeUpdateWritesInPlace(t *testing.T) {
	e := New(WithCanvasSize(800, 600))
	c := add(e, RootKey, "c", topLeft, Fixed(10), Fixed(10))
	e.UnsafeUpdate()
	wantRect(t, e, c, RectF{0, 0, 10, 10})
	if e.InProgressResult(c).IsValid() {
		t.Error("back buffer should be empty after UnsafeUpdate")
	}
}

func TestResultForUnknownKeys(t *testing.T) {
	e := New(WithCanvasSize(800, 600))
	e.Update()
	detached := e.Create("detached", topLeft)

	for _, k := range []Key{InvalidKey, detached, 1000} {
		if r := e.Result(k); r.IsValid() {
			t.Errorf("Result(%s) should be invalid", k)
		}
	}
	if _, ok := e.TryMeasureContent(detached); ok {
		t.Error("TryMeasureContent should fail for a box that was not laid out")
	}
}

func TestTryMeasureContent(t *testing.T) {
	e := New(WithCanvasSize(800, 600))
	box := add(e, RootKey, "box", NewConfig(LayoutRow, AnchorLeft|AnchorTop), Fixed(300), Fixed(100))
	e.Record(box).Padding = Uniform(5)
	add(e, box, "a", topLeft, Fixed(40), Fixed(20))
	add(e, box, "b", topLeft, Fixed(60), Fixed(30))
	e.Update()

	got, ok := e.TryMeasureContent(box)
	if !ok {
		t.Fatal("TryMeasureContent failed")
	}
	if want := (RectF{5, 5, 100, 30}); got != want {
		t.Errorf("TryMeasureContent = %+v, want %+v", got, want)
	}
}

func TestDebugHitTest(t *testing.T) {
	e := New(WithCanvasSize(800, 600))
	panel := add(e, RootKey, "panel", topLeft, Fixed(100), Fixed(50))
	overflow := add(e, panel, "overflow", topLeft, Fixed(150), Fixed(20))
	popup := add(e, RootKey, "popup", NewConfig(0, Floating), Fixed(50), Fixed(50))
	e.Record(popup).FloatingPosition = &Vec2{20, 20}
	e.Update()

	tests := []struct {
		name       string
		pos        Vec2
		exhaustive bool
		want       Key
	}{
		{"topmost wins", Vec2{30, 30}, false, popup},
		{"deepest child", Vec2{5, 5}, false, overflow},
		{"parent only", Vec2{5, 40}, false, panel},
		{"background", Vec2{700, 500}, false, RootKey},
		{"overflow skipped", Vec2{120, 10}, false, RootKey},
		{"overflow exhaustive", Vec2{120, 10}, true, overflow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, res, ok := e.DebugHitTest(tt.pos, tt.exhaustive)
			if !ok {
				t.Fatal("no hit")
			}
			if rec.Key() != tt.want || res.Key() != tt.want {
				t.Errorf("hit %s, want %s", rec.Key(), tt.want)
			}
		})
	}

	if _, _, ok := e.DebugHitTest(Vec2{900, 10}, false); ok {
		t.Error("point outside the canvas should not hit")
	}
}

func TestClearResetsTree(t *testing.T) {
	e := New(WithCanvasSize(800, 600))
	add(e, RootKey, "c", topLeft, Fixed(10), Fixed(10))
	e.Update()
	v := e.Version()

	e.Clear()
	if e.Count() != 1 {
		t.Errorf("Count = %d after Clear, want 1", e.Count())
	}
	if e.Version() <= v {
		t.Error("Clear should bump the version")
	}
	if e.Result(RootKey).IsValid() {
		t.Error("results should be dropped by Clear")
	}
	if r := e.Root(); r.Width != Fixed(800) || r.Height != Fixed(600) {
		t.Errorf("root size = %v x %v", r.Width, r.Height)
	}
}

func TestSetCanvasSize(t *testing.T) {
	e := New()
	e.SetCanvasSize(Vec2{320, 200})
	e.Update()
	wantRect(t, e, RootKey, RectF{0, 0, 320, 200})
	if e.CanvasSize() != (Vec2{320, 200}) {
		t.Errorf("CanvasSize = %+v", e.CanvasSize())
	}
}

func TestCapacityExceeded(t *testing.T) {
	e := New(WithCapacity(1))
	expectPanic(t, errors.ErrCodeCapacityExceeded, func() {
		for {
			e.Create("box", topLeft)
		}
	})
}

func TestCapacityIsExact(t *testing.T) {
	for _, n := range []int{2, 5, 513} {
		t.Run(fmt.Sprint(n), func(t *testing.T) {
			e := New(WithCapacity(n))
			for e.Count() < n {
				e.Create("box", topLeft)
			}
			expectPanic(t, errors.ErrCodeCapacityExceeded, func() { e.Create("extra", topLeft) })
			if e.Count() != n {
				t.Errorf("Count() = %d, want %d", e.Count(), n)
			}
		})
	}
}

func buildSample(e *Engine) {
	bar := add(e, RootKey, "toolbar", NewConfig(DefaultContainerFlags, FillRow|AnchorTop), Dimension{}, Dimension{})
	e.Record(bar).Padding = Uniform(4)
	for range 5 {
		b := add(e, bar, "button", topLeft, Fixed(90), Fixed(24))
		e.Record(b).Margins = Margins{Right: 4}
	}
	body := add(e, RootKey, "body", NewConfig(LayoutColumn|SizeExpandForContent, Fill|Break), Dimension{}, Dimension{})
	add(e, body, "text", NewConfig(0, FillRow), Dimension{}, Fixed(100))
	add(e, body, "spacer", NewConfig(0, Fill|NoMeasurement), Dimension{}, Dimension{})
}

func snapshotRects(e *Engine) map[Key]RectF {
	out := make(map[Key]RectF, e.Count())
	for i := range e.Count() {
		out[Key(i)] = e.Result(Key(i)).Rect
	}
	return out
}
