package layout

import "github.com/matzehuels/boxflow/pkg/errors"

// ControlFlags is the older, wider flag encoding still found in stored
// layouts. Use [FromControlFlags] to translate it.
type ControlFlags uint32

const (
	ContainerRow    ControlFlags = 0x02
	ContainerColumn ControlFlags = 0x03
	ContainerWrap   ControlFlags = 0x04

	ContainerAlignStart   ControlFlags = 0x08
	ContainerAlignMiddle  ControlFlags = 0x00
	ContainerAlignEnd     ControlFlags = 0x10
	ContainerAlignJustify ControlFlags = 0x18

	ContainerConstrainSize ControlFlags = 0x400
	ContainerPreventCrush  ControlFlags = 0x800

	LayoutAnchorLeft   ControlFlags = 0x020
	LayoutAnchorTop    ControlFlags = 0x040
	LayoutAnchorRight  ControlFlags = 0x080
	LayoutAnchorBottom ControlFlags = 0x100
	LayoutFillRow                   = LayoutAnchorLeft | LayoutAnchorRight
	LayoutFillColumn                = LayoutAnchorTop | LayoutAnchorBottom
	LayoutFill         ControlFlags = 0x1e0
	LayoutForceBreak   ControlFlags = 0x2000
	LayoutFloating     ControlFlags = 0x4000

	legacyInternalBreak ControlFlags = 0x200
	legacyFixedHeight   ControlFlags = 0x1000

	legacyBoxModelMask ControlFlags = 0x7
	legacyAlignMask    ControlFlags = 0x18
	legacyKnownMask                 = legacyBoxModelMask | legacyAlignMask | ContainerConstrainSize |
		ContainerPreventCrush | LayoutFill | LayoutForceBreak | LayoutFloating |
		legacyInternalBreak | legacyFixedHeight
)

// FromControlFlags translates the legacy encoding into a [Config].
// Legacy containers always size to their content. It returns an
// INVALID_FLAGS error for unknown bits, an unknown box model, and for
// justified alignment combined with wrapping.
func FromControlFlags(f ControlFlags) (Config, error) {
	if extra := f &^ legacyKnownMask; extra != 0 {
		return Config{}, errors.New(errors.ErrCodeInvalidFlags, "unknown control flag bits %#x", uint32(extra))
	}

	c := SizeExpandForContent
	switch f & (legacyBoxModelMask &^ ContainerWrap) {
	case 0, ContainerRow:
		c |= LayoutRow
	case ContainerColumn:
		c |= LayoutColumn
	default:
		return Config{}, errors.New(errors.ErrCodeInvalidFlags, "unknown box model %#x", uint32(f&legacyBoxModelMask))
	}
	wrap := f&ContainerWrap != 0
	if wrap {
		c |= ArrangeWrap
	}

	switch f & legacyAlignMask {
	case ContainerAlignMiddle:
		c |= AlignCenter
	case ContainerAlignStart:
	case ContainerAlignEnd:
		c |= AlignEnd
	case ContainerAlignJustify:
		if wrap {
			return Config{}, errors.New(errors.ErrCodeInvalidFlags, "justified alignment cannot be combined with wrapping")
		}
		c |= AlignJustify
	}

	if f&ContainerConstrainSize != 0 {
		c |= BoxesConstrainGrowth
	}
	if f&ContainerPreventCrush != 0 {
		c |= SizePreventCrush
	}

	var b BoxFlag
	if f&LayoutAnchorLeft != 0 {
		b |= AnchorLeft
	}
	if f&LayoutAnchorTop != 0 {
		b |= AnchorTop
	}
	if f&LayoutAnchorRight != 0 {
		b |= AnchorRight
	}
	if f&LayoutAnchorBottom != 0 {
		b |= AnchorBottom
	}
	if f&(LayoutForceBreak|legacyInternalBreak) != 0 {
		b |= Break
	}
	if f&LayoutFloating != 0 {
		b |= Floating
	}

	return NewConfig(c, b), nil
}
