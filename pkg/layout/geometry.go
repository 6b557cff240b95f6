package layout

import "math"

// Vec2 is a 2D point or size.
type Vec2 struct {
	X, Y float32
}

// Add returns v+o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Sub returns v-o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Max returns the component-wise maximum.
func (v Vec2) Max(o Vec2) Vec2 { return Vec2{max(v.X, o.X), max(v.Y, o.Y)} }

// RectF is an axis-aligned rectangle.
type RectF struct {
	Left, Top, Width, Height float32
}

// Position returns the top-left corner.
func (r RectF) Position() Vec2 { return Vec2{r.Left, r.Top} }

// Size returns width and height.
func (r RectF) Size() Vec2 { return Vec2{r.Width, r.Height} }

// Right returns Left+Width.
func (r RectF) Right() float32 { return r.Left + r.Width }

// Bottom returns Top+Height.
func (r RectF) Bottom() float32 { return r.Top + r.Height }

// Extent returns the bottom-right corner.
func (r RectF) Extent() Vec2 { return Vec2{r.Right(), r.Bottom()} }

// Contains reports whether p lies inside r. The right and bottom edges are exclusive.
func (r RectF) Contains(p Vec2) bool {
	return p.X >= r.Left && p.Y >= r.Top && p.X < r.Right() && p.Y < r.Bottom()
}

// Intersection returns the overlap of r and o and whether it is non-empty.
func (r RectF) Intersection(o RectF) (RectF, bool) {
	left := max(r.Left, o.Left)
	top := max(r.Top, o.Top)
	right := min(r.Right(), o.Right())
	bottom := min(r.Bottom(), o.Bottom())
	if right <= left || bottom <= top {
		return RectF{}, false
	}
	return RectF{Left: left, Top: top, Width: right - left, Height: bottom - top}, true
}

// Margins holds per-edge spacing used for both margins and padding.
type Margins struct {
	Left, Top, Right, Bottom float32
}

// Uniform returns margins of v on every edge.
func Uniform(v float32) Margins { return Margins{v, v, v, v} }

// X returns Left+Right.
func (m Margins) X() float32 { return m.Left + m.Right }

// Y returns Top+Bottom.
func (m Margins) Y() float32 { return m.Top + m.Bottom }

// TopLeft returns the leading edges as a vector.
func (m Margins) TopLeft() Vec2 { return Vec2{m.Left, m.Top} }

// BottomRight returns the trailing edges as a vector.
func (m Margins) BottomRight() Vec2 { return Vec2{m.Right, m.Bottom} }

// Size returns the total spacing on both axes.
func (m Margins) Size() Vec2 { return Vec2{m.X(), m.Y()} }

// Scale multiplies every edge by f.
func (m Margins) Scale(f float32) Margins {
	return Margins{m.Left * f, m.Top * f, m.Right * f, m.Bottom * f}
}

// maxFloat is the upper bound used for absent maximum constraints.
const maxFloat = float32(math.MaxFloat32)

// snapEpsilon absorbs float32 rounding when comparing distributed space.
const snapEpsilon = 0.001
