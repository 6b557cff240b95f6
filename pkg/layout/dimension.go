package layout

import "fmt"

type dimensionFlag uint8

const (
	hasMinimum dimensionFlag = 1 << iota
	hasMaximum
	hasFixed
	hasPercentage
)

// Dimension constrains the size of a box along one axis. Each of the
// minimum, maximum, fixed and percentage constraints is optional; the zero
// value is unconstrained.
type Dimension struct {
	flags      dimensionFlag
	minimum    float32
	maximum    float32
	fixed      float32
	percentage float32
}

// Fixed returns a dimension locked to size.
func Fixed(size float32) Dimension {
	var d Dimension
	d.SetFixed(size)
	return d
}

// Between returns a dimension clamped to [minimum, maximum].
func Between(minimum, maximum float32) Dimension {
	var d Dimension
	d.SetMinimum(minimum)
	d.SetMaximum(maximum)
	return d
}

// AtLeast returns a dimension with only a minimum.
func AtLeast(minimum float32) Dimension {
	var d Dimension
	d.SetMinimum(minimum)
	return d
}

// Percent returns a dimension sized relative to the parent's content box.
func Percent(p float32) Dimension {
	var d Dimension
	d.SetPercentage(p)
	return d
}

// Minimum returns the minimum constraint and whether it is set.
func (d Dimension) Minimum() (float32, bool) { return d.minimum, d.flags&hasMinimum != 0 }

// Maximum returns the maximum constraint and whether it is set.
func (d Dimension) Maximum() (float32, bool) { return d.maximum, d.flags&hasMaximum != 0 }

// FixedSize returns the fixed constraint and whether it is set.
func (d Dimension) FixedSize() (float32, bool) { return d.fixed, d.flags&hasFixed != 0 }

// Percentage returns the percentage constraint and whether it is set.
func (d Dimension) Percentage() (float32, bool) {
	return d.percentage, d.flags&hasPercentage != 0
}

// HasMinimum reports whether a minimum is set.
func (d Dimension) HasMinimum() bool { return d.flags&hasMinimum != 0 }

// HasMaximum reports whether a maximum is set.
func (d Dimension) HasMaximum() bool { return d.flags&hasMaximum != 0 }

// HasFixed reports whether a fixed size is set.
func (d Dimension) HasFixed() bool { return d.flags&hasFixed != 0 }

// HasPercentage reports whether a percentage is set.
func (d Dimension) HasPercentage() bool { return d.flags&hasPercentage != 0 }

// HasValue reports whether any constraint is set.
func (d Dimension) HasValue() bool { return d.flags != 0 }

func (d *Dimension) SetMinimum(v float32)    { d.minimum, d.flags = v, d.flags|hasMinimum }
func (d *Dimension) SetMaximum(v float32)    { d.maximum, d.flags = v, d.flags|hasMaximum }
func (d *Dimension) SetFixed(v float32)      { d.fixed, d.flags = v, d.flags|hasFixed }
func (d *Dimension) SetPercentage(v float32) { d.percentage, d.flags = v, d.flags|hasPercentage }

func (d *Dimension) ClearMinimum()    { d.minimum, d.flags = 0, d.flags&^hasMinimum }
func (d *Dimension) ClearMaximum()    { d.maximum, d.flags = 0, d.flags&^hasMaximum }
func (d *Dimension) ClearFixed()      { d.fixed, d.flags = 0, d.flags&^hasFixed }
func (d *Dimension) ClearPercentage() { d.percentage, d.flags = 0, d.flags&^hasPercentage }

// EffectiveMinimum is the smallest size the box may take before any
// content is measured: the fixed size if set, else the minimum, else zero,
// capped by the maximum.
func (d Dimension) EffectiveMinimum() float32 {
	a := maxFloat
	if d.flags&hasMaximum != 0 {
		a = d.maximum
	}
	var b float32
	switch {
	case d.flags&hasFixed != 0:
		b = d.fixed
	case d.flags&hasMinimum != 0:
		b = d.minimum
	}
	return min(a, b)
}

// Constrain clamps size to the minimum and maximum. When applyFixed is set
// and a fixed size exists, the fixed size wins.
func (d Dimension) Constrain(size float32, applyFixed bool) float32 {
	if d.flags&hasMinimum != 0 {
		size = max(d.minimum, size)
	}
	if d.flags&hasMaximum != 0 {
		size = min(d.maximum, size)
	}
	if applyFixed && d.flags&hasFixed != 0 {
		size = d.fixed
	}
	return size
}

// ConstrainDelta is Constrain that also reports how far size moved.
func (d Dimension) ConstrainDelta(size float32, applyFixed bool) (float32, float32) {
	c := d.Constrain(size, applyFixed)
	return c, c - size
}

// Resolve converts a percentage constraint into a fixed size relative to
// base. Explicit fixed sizes take precedence and dimensions without a
// percentage are returned unchanged.
func (d Dimension) Resolve(base float32) Dimension {
	if d.flags&hasPercentage == 0 || d.flags&hasFixed != 0 {
		return d
	}
	r := d
	r.SetFixed(d.Constrain(base*d.percentage/100, false))
	return r
}

// AutoComputeFixed returns a copy with a fixed size when minimum and
// maximum are both set and equal.
func (d Dimension) AutoComputeFixed() Dimension {
	if d.HasMinimum() && d.HasMaximum() && d.minimum == d.maximum && !d.HasFixed() {
		r := d
		r.SetFixed(d.maximum)
		return r
	}
	return d
}

// Scale multiplies every set constraint except the percentage by f.
func (d Dimension) Scale(f float32) Dimension {
	r := d
	r.minimum *= f
	r.maximum *= f
	r.fixed *= f
	return r
}

// Union widens the range to cover both dimensions.
func (d Dimension) Union(o Dimension) Dimension {
	var r Dimension
	if v, ok := pickOptional(d.Minimum, o.Minimum, minOf); ok {
		r.SetMinimum(v)
	}
	if v, ok := pickOptional(d.Maximum, o.Maximum, maxOf); ok {
		r.SetMaximum(v)
	}
	r.inheritFixed(d, o)
	return r
}

// Intersection narrows the range to where both dimensions overlap.
func (d Dimension) Intersection(o Dimension) Dimension {
	var r Dimension
	if v, ok := pickOptional(d.Minimum, o.Minimum, maxOf); ok {
		r.SetMinimum(v)
	}
	if v, ok := pickOptional(d.Maximum, o.Maximum, minOf); ok {
		r.SetMaximum(v)
	}
	r.inheritFixed(d, o)
	return r
}

func (d *Dimension) inheritFixed(a, b Dimension) {
	if v, ok := a.FixedSize(); ok {
		d.SetFixed(v)
	} else if v, ok := b.FixedSize(); ok {
		d.SetFixed(v)
	}
}

func minOf(x, y float32) float32 { return min(x, y) }
func maxOf(x, y float32) float32 { return max(x, y) }

func pickOptional(a, b func() (float32, bool), pick func(x, y float32) float32) (float32, bool) {
	av, aok := a()
	bv, bok := b()
	switch {
	case aok && bok:
		return pick(av, bv), true
	case aok:
		return av, true
	default:
		return bv, bok
	}
}

func (d Dimension) String() string {
	if !d.HasValue() {
		return "<unconstrained>"
	}
	opt := func(v float32, ok bool) string {
		if !ok {
			return "-"
		}
		return fmt.Sprintf("%g", v)
	}
	s := fmt.Sprintf("Clamp(%s, %s, %s)", opt(d.FixedSize()), opt(d.Minimum()), opt(d.Maximum()))
	if p, ok := d.Percentage(); ok {
		s += fmt.Sprintf("@%g%%", p)
	}
	return s
}
