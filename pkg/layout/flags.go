package layout

import (
	"fmt"
	"strings"

	"github.com/matzehuels/boxflow/pkg/errors"
)

// ContainerFlag controls how a box arranges its children.
// Flags within a category (direction, alignment) are mutually exclusive.
type ContainerFlag uint16

const (
	LayoutRow     ContainerFlag = 1 << 0
	LayoutColumn  ContainerFlag = 1 << 1
	LayoutReverse ContainerFlag = 1 << 2

	AlignEnd     ContainerFlag = 1 << 3
	AlignCenter  ContainerFlag = 1 << 4
	AlignJustify ContainerFlag = 1 << 5

	// ArrangeWrap moves children that do not fit onto a new run.
	ArrangeWrap ContainerFlag = 1 << 6

	// BoxesClip clips child rects to the right and bottom of the content box.
	BoxesClip ContainerFlag = 1 << 7
	// BoxesConstrainGrowth keeps children from growing past the content box
	// without clipping them.
	BoxesConstrainGrowth ContainerFlag = 1 << 8
	// BoxesGridNoNormalization disables per-row height equalization in grids.
	BoxesGridNoNormalization ContainerFlag = 1 << 9

	SizeExpandForContentX ContainerFlag = 1 << 11
	SizeExpandForContentY ContainerFlag = 1 << 12
	SizeExpandForContent                = SizeExpandForContentX | SizeExpandForContentY

	// SizePreventCrushX implies SizeExpandForContentX; the box never shrinks
	// below its measured width when its parent lacks space.
	SizePreventCrushX ContainerFlag = 1<<13 | SizeExpandForContentX
	SizePreventCrushY ContainerFlag = 1<<14 | SizeExpandForContentY
	SizePreventCrush                = SizePreventCrushX | SizePreventCrushY

	DefaultContainerFlags = LayoutRow | ArrangeWrap | BoxesClip | SizeExpandForContent

	directionMask = LayoutRow | LayoutColumn | LayoutReverse
	alignMask     = AlignEnd | AlignCenter | AlignJustify
)

// BoxFlag controls how a box is placed inside its parent.
type BoxFlag uint16

const (
	AnchorLeft   BoxFlag = 1 << 0
	AnchorRight  BoxFlag = 1 << 1
	AnchorTop    BoxFlag = 1 << 2
	AnchorBottom BoxFlag = 1 << 3

	FillRow    = AnchorLeft | AnchorRight
	FillColumn = AnchorTop | AnchorBottom
	Fill       = FillRow | FillColumn

	// Break forces the box to start a new run.
	Break BoxFlag = 1 << 4
	// Stacked boxes are laid out over the whole container instead of in a run.
	Stacked BoxFlag = 1 << 5
	// Floating boxes are stacked and do not contribute to the parent's content size.
	Floating BoxFlag = 1<<6 | Stacked

	// CollapseMargins lets the box's margins overlap its parent's padding.
	CollapseMargins BoxFlag = 1 << 7
	// NoMeasurement excludes the box from its parent's content size.
	NoMeasurement BoxFlag = 1 << 8
	// AlignToParentBox aligns stacked boxes against the parent's content
	// box rather than its expanded content size.
	AlignToParentBox BoxFlag = 1 << 9

	// DefaultBoxFlags fills horizontally; a box with no vertical anchor is centered.
	DefaultBoxFlags = FillRow

	anchorMask = Fill
)

// ChildDirection is the flow direction of children within a run.
type ChildDirection uint16

const (
	DirectionRow    = ChildDirection(LayoutRow)
	DirectionColumn = ChildDirection(LayoutColumn)
	DirectionRTL    = ChildDirection(LayoutRow | LayoutReverse)
	DirectionUpward = ChildDirection(LayoutColumn | LayoutReverse)
)

func (d ChildDirection) String() string {
	switch d {
	case DirectionRow:
		return "row"
	case DirectionColumn:
		return "column"
	case DirectionRTL:
		return "rtl"
	case DirectionUpward:
		return "upward"
	}
	return fmt.Sprintf("ChildDirection(%d)", uint16(d))
}

// ChildAlignment positions each run along the main axis.
type ChildAlignment uint16

const (
	AlignmentStart   ChildAlignment = 0
	AlignmentCenter                 = ChildAlignment(AlignCenter)
	AlignmentEnd                    = ChildAlignment(AlignEnd)
	AlignmentJustify                = ChildAlignment(AlignJustify)
)

func (a ChildAlignment) String() string {
	switch a {
	case AlignmentStart:
		return "start"
	case AlignmentCenter:
		return "center"
	case AlignmentEnd:
		return "end"
	case AlignmentJustify:
		return "justify"
	}
	return fmt.Sprintf("ChildAlignment(%d)", uint16(a))
}

// Config packs a box's container flags (low 16 bits) and box flags
// (high 16 bits) into a single word, plus the grid column count.
// A GridColumnCount above zero switches the container into grid mode.
type Config struct {
	Bits            uint32
	GridColumnCount int
}

// NewConfig builds a Config from both flag sets.
func NewConfig(c ContainerFlag, b BoxFlag) Config {
	return Config{Bits: uint32(c) | uint32(b)<<16}
}

// DefaultConfig is a wrapping, clipping, content-sized row that fills its
// parent horizontally.
func DefaultConfig() Config {
	return NewConfig(DefaultContainerFlags, DefaultBoxFlags)
}

// ContainerFlags returns the container half of the configuration.
func (c Config) ContainerFlags() ContainerFlag { return ContainerFlag(c.Bits) }

// BoxFlags returns the box half of the configuration.
func (c Config) BoxFlags() BoxFlag { return BoxFlag(c.Bits >> 16) }

// WithContainerFlags replaces the container half.
func (c Config) WithContainerFlags(f ContainerFlag) Config {
	c.Bits = c.Bits&0xFFFF0000 | uint32(f)
	return c
}

// WithBoxFlags replaces the box half.
func (c Config) WithBoxFlags(f BoxFlag) Config {
	c.Bits = c.Bits&0xFFFF | uint32(f)<<16
	return c
}

// WithDirection replaces the flow direction.
func (c Config) WithDirection(d ChildDirection) Config {
	return c.WithContainerFlags(c.ContainerFlags()&^directionMask | ContainerFlag(d))
}

// WithAlignment replaces the run alignment.
func (c Config) WithAlignment(a ChildAlignment) Config {
	return c.WithContainerFlags(c.ContainerFlags()&^alignMask | ContainerFlag(a))
}

// WithAnchor replaces the anchor bits.
func (c Config) WithAnchor(a BoxFlag) Config {
	return c.WithBoxFlags(c.BoxFlags()&^anchorMask | a&anchorMask)
}

// WithGrid switches the container to a grid of n columns.
func (c Config) WithGrid(n int) Config {
	c.GridColumnCount = n
	return c
}

func (c Config) has(f ContainerFlag) bool { return c.ContainerFlags()&f == f }
func (c Config) is(f BoxFlag) bool        { return c.BoxFlags()&f == f }

// ChildDirection returns the flow direction.
func (c Config) ChildDirection() ChildDirection {
	d := c.ContainerFlags() & directionMask
	if d&(LayoutRow|LayoutColumn) == 0 {
		d |= LayoutRow
	}
	return ChildDirection(d)
}

// ChildAlign returns the run alignment. A conflicting combination of
// alignment bits resolves to the highest one.
func (c Config) ChildAlign() ChildAlignment {
	switch f := c.ContainerFlags(); {
	case f&AlignJustify != 0:
		return AlignmentJustify
	case f&AlignCenter != 0:
		return AlignmentCenter
	case f&AlignEnd != 0:
		return AlignmentEnd
	}
	return AlignmentStart
}

func (c Config) IsVertical() bool          { return c.ContainerFlags()&LayoutColumn != 0 }
func (c Config) IsReverse() bool           { return c.ContainerFlags()&LayoutReverse != 0 }
func (c Config) IsWrap() bool              { return c.has(ArrangeWrap) }
func (c Config) IsGrid() bool              { return c.GridColumnCount > 0 }
func (c Config) Clip() bool                { return c.has(BoxesClip) }
func (c Config) NoNormalization() bool     { return c.has(BoxesGridNoNormalization) }
func (c Config) ExpandForContentX() bool   { return c.has(SizeExpandForContentX) }
func (c Config) ExpandForContentY() bool   { return c.has(SizeExpandForContentY) }
func (c Config) PreventCrushX() bool       { return c.has(SizePreventCrushX) }
func (c Config) PreventCrushY() bool       { return c.has(SizePreventCrushY) }
func (c Config) ForceBreak() bool          { return c.is(Break) }
func (c Config) IsStacked() bool           { return c.is(Stacked) }
func (c Config) IsFloating() bool          { return c.is(Floating) }
func (c Config) IsStackedOrFloating() bool { return c.BoxFlags()&Stacked != 0 }
func (c Config) FillRow() bool             { return c.is(FillRow) }
func (c Config) FillColumn() bool          { return c.is(FillColumn) }
func (c Config) CollapseMargins() bool     { return c.is(CollapseMargins) }
func (c Config) NoMeasurement() bool       { return c.is(NoMeasurement) }
func (c Config) AlignToParentBox() bool    { return c.is(AlignToParentBox) }

// ConstrainChildren reports whether children are kept within the content
// box when growing, which holds whenever overflow is not visible.
func (c Config) ConstrainChildren() bool {
	return c.ContainerFlags()&(BoxesClip|BoxesConstrainGrowth) != 0
}

// RunAlignment returns the run alignment as fractions on each axis.
// Justify is not implemented and panics with NOT_IMPLEMENTED.
func (c Config) RunAlignment() (x, y float32) {
	var a float32
	switch c.ChildAlign() {
	case AlignmentCenter:
		a = 0.5
	case AlignmentEnd:
		a = 1
	case AlignmentJustify:
		errors.Fatal(errors.ErrCodeNotImplemented, "justified alignment is not implemented")
	}
	if c.IsVertical() {
		return 0, a
	}
	return a, 0
}

// Alignment returns where the box sits within free space on each axis:
// 0 for left/top, 1 for right/bottom, 0.5 when unanchored. Boxes anchored
// to both edges fill the space and align at 0.
func (c Config) Alignment() (x, y float32) {
	return anchorFraction(c.is(AnchorLeft), c.is(AnchorRight)),
		anchorFraction(c.is(AnchorTop), c.is(AnchorBottom))
}

func anchorFraction(start, end bool) float32 {
	switch {
	case start:
		return 0
	case end:
		return 1
	}
	return 0.5
}

func (c Config) String() string {
	var parts []string
	parts = append(parts, c.ChildDirection().String())
	if a := c.ChildAlign(); a != AlignmentStart {
		parts = append(parts, a.String())
	}
	if c.IsGrid() {
		parts = append(parts, fmt.Sprintf("grid=%d", c.GridColumnCount))
	}
	names := []struct {
		ok   bool
		name string
	}{
		{c.IsWrap(), "wrap"},
		{c.Clip(), "clip"},
		{c.has(BoxesConstrainGrowth), "constrain"},
		{c.ExpandForContentX(), "expand-x"},
		{c.ExpandForContentY(), "expand-y"},
		{c.PreventCrushX(), "prevent-crush-x"},
		{c.PreventCrushY(), "prevent-crush-y"},
		{c.is(AnchorLeft), "left"},
		{c.is(AnchorTop), "top"},
		{c.is(AnchorRight), "right"},
		{c.is(AnchorBottom), "bottom"},
		{c.ForceBreak(), "break"},
		{c.IsFloating(), "floating"},
		{c.IsStacked() && !c.IsFloating(), "stacked"},
		{c.CollapseMargins(), "collapse-margins"},
		{c.NoMeasurement(), "no-measurement"},
		{c.AlignToParentBox(), "align-to-parent"},
	}
	for _, n := range names {
		if n.ok {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, "|")
}
