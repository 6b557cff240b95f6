package layout

import (
	"testing"

	"github.com/matzehuels/boxflow/pkg/errors"
)

func TestConfigAccessors(t *testing.T) {
	c := NewConfig(LayoutColumn|ArrangeWrap|BoxesClip|SizePreventCrushY, FillRow|Break|CollapseMargins)

	checks := []struct {
		name string
		got  bool
		want bool
	}{
		{"IsVertical", c.IsVertical(), true},
		{"IsWrap", c.IsWrap(), true},
		{"Clip", c.Clip(), true},
		{"ConstrainChildren", c.ConstrainChildren(), true},
		{"ExpandForContentX", c.ExpandForContentX(), false},
		{"ExpandForContentY", c.ExpandForContentY(), true},
		{"PreventCrushY", c.PreventCrushY(), true},
		{"PreventCrushX", c.PreventCrushX(), false},
		{"FillRow", c.FillRow(), true},
		{"FillColumn", c.FillColumn(), false},
		{"ForceBreak", c.ForceBreak(), true},
		{"CollapseMargins", c.CollapseMargins(), true},
		{"IsStacked", c.IsStacked(), false},
		{"IsGrid", c.IsGrid(), false},
	}
	for _, tt := range checks {
		if tt.got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}
}

func TestFloatingImpliesStacked(t *testing.T) {
	c := NewConfig(0, Floating)
	if !c.IsFloating() || !c.IsStacked() || !c.IsStackedOrFloating() {
		t.Errorf("floating config %v should be stacked", c)
	}
	s := NewConfig(0, Stacked)
	if s.IsFloating() || !s.IsStackedOrFloating() {
		t.Errorf("stacked config %v should not be floating", s)
	}
}

func TestConfigBuilders(t *testing.T) {
	c := DefaultConfig().
		WithDirection(DirectionUpward).
		WithAlignment(AlignmentEnd).
		WithAnchor(AnchorRight | AnchorBottom).
		WithGrid(3)

	if d := c.ChildDirection(); d != DirectionUpward {
		t.Errorf("ChildDirection = %v, want upward", d)
	}
	if a := c.ChildAlign(); a != AlignmentEnd {
		t.Errorf("ChildAlign = %v, want end", a)
	}
	if !c.IsReverse() || !c.IsVertical() {
		t.Error("upward should be a reversed column")
	}
	if x, y := c.Alignment(); x != 1 || y != 1 {
		t.Errorf("Alignment = (%v, %v), want (1, 1)", x, y)
	}
	if !c.IsWrap() || !c.Clip() {
		t.Error("builders should keep unrelated container flags")
	}
	if !c.IsGrid() || c.GridColumnCount != 3 {
		t.Errorf("GridColumnCount = %d", c.GridColumnCount)
	}
}

func TestRunAlignmentFractions(t *testing.T) {
	tests := []struct {
		name  string
		flags ContainerFlag
		wantX float32
		wantY float32
	}{
		{"row start", LayoutRow, 0, 0},
		{"row center", LayoutRow | AlignCenter, 0.5, 0},
		{"row end", LayoutRow | AlignEnd, 1, 0},
		{"column center", LayoutColumn | AlignCenter, 0, 0.5},
		{"column end", LayoutColumn | AlignEnd, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := NewConfig(tt.flags, 0).RunAlignment()
			if x != tt.wantX || y != tt.wantY {
				t.Errorf("RunAlignment() = (%v, %v), want (%v, %v)", x, y, tt.wantX, tt.wantY)
			}
		})
	}
}

func TestConfigString(t *testing.T) {
	got := NewConfig(LayoutColumn|ArrangeWrap, AnchorLeft|Floating).String()
	want := "column|wrap|left|floating"
	if got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestFromControlFlags(t *testing.T) {
	tests := []struct {
		name  string
		flags ControlFlags
		check func(t *testing.T, c Config)
	}{
		{
			name:  "row middle",
			flags: ContainerRow,
			check: func(t *testing.T, c Config) {
				if c.IsVertical() || c.ChildAlign() != AlignmentCenter {
					t.Errorf("got %v", c)
				}
				if !c.ExpandForContentX() || !c.ExpandForContentY() {
					t.Error("legacy containers size to content")
				}
			},
		},
		{
			name:  "wrapping column at end",
			flags: ContainerColumn | ContainerWrap | ContainerAlignEnd,
			check: func(t *testing.T, c Config) {
				if !c.IsVertical() || !c.IsWrap() || c.ChildAlign() != AlignmentEnd {
					t.Errorf("got %v", c)
				}
			},
		},
		{
			name:  "start with constraints",
			flags: ContainerRow | ContainerAlignStart | ContainerConstrainSize | ContainerPreventCrush,
			check: func(t *testing.T, c Config) {
				if c.ChildAlign() != AlignmentStart || !c.ConstrainChildren() || !c.PreventCrushX() || !c.PreventCrushY() {
					t.Errorf("got %v", c)
				}
			},
		},
		{
			name:  "box flags",
			flags: LayoutFill | LayoutForceBreak | LayoutFloating,
			check: func(t *testing.T, c Config) {
				if !c.FillRow() || !c.FillColumn() || !c.ForceBreak() || !c.IsFloating() {
					t.Errorf("got %v", c)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := FromControlFlags(tt.flags)
			if err != nil {
				t.Fatalf("FromControlFlags: %v", err)
			}
			tt.check(t, c)
		})
	}
}

func TestFromControlFlagsRejects(t *testing.T) {
	tests := []struct {
		name  string
		flags ControlFlags
	}{
		{"unknown bits", 1 << 20},
		{"unknown box model", 0x01},
		{"justify with wrap", ContainerRow | ContainerWrap | ContainerAlignJustify},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromControlFlags(tt.flags)
			if !errors.Is(err, errors.ErrCodeInvalidFlags) {
				t.Errorf("FromControlFlags(%#x) error = %v, want INVALID_FLAGS", uint32(tt.flags), err)
			}
		})
	}
}
