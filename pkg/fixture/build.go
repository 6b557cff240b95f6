package fixture

import (
	"slices"

	"github.com/matzehuels/boxflow/pkg/layout"
)

// RootTag is the tag the root box gets when the fixture leaves it empty.
const RootTag = "root"

var (
	directionFlags = map[string]layout.ChildDirection{
		"":       layout.DirectionRow,
		"row":    layout.DirectionRow,
		"column": layout.DirectionColumn,
		"rtl":    layout.DirectionRTL,
		"upward": layout.DirectionUpward,
	}
	alignFlags = map[string]layout.ChildAlignment{
		"":        layout.AlignmentStart,
		"start":   layout.AlignmentStart,
		"center":  layout.AlignmentCenter,
		"end":     layout.AlignmentEnd,
		"justify": layout.AlignmentJustify,
	}
	anchorFlags = map[string]layout.BoxFlag{
		"left":        layout.AnchorLeft,
		"top":         layout.AnchorTop,
		"right":       layout.AnchorRight,
		"bottom":      layout.AnchorBottom,
		"fill":        layout.Fill,
		"fill-row":    layout.FillRow,
		"fill-column": layout.FillColumn,
	}
)

// Build clears e, sizes its canvas and creates the fixture's boxes below
// the root. The root box's own settings are applied to the engine root,
// except its size, which always follows the canvas.
//
// The returned map holds the key of every tagged box.
func Build(e *layout.Engine, f *Fixture) (keys map[string]layout.Key, err error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	err = layout.Safely(func() {
		e.Clear()
		e.SetCanvasSize(layout.Vec2{X: f.Canvas.Width, Y: f.Canvas.Height})

		keys = map[string]layout.Key{}
		scale := f.Canvas.scale()
		root := e.Root()
		root.Config = f.Root.config()
		root.Padding = edges(f.Root.Padding).Scale(scale)
		root.Tag = f.Root.Tag
		if root.Tag == "" {
			root.Tag = RootTag
		}
		keys[root.Tag] = layout.RootKey

		for i := range f.Root.Children {
			build(e, layout.RootKey, &f.Root.Children[i], keys, scale)
		}
	})
	if err != nil {
		return nil, err
	}
	return keys, nil
}

func build(e *layout.Engine, parent layout.Key, b *Box, keys map[string]layout.Key, scale float32) {
	key := e.CreateIn(parent, b.Tag, b.config())
	if b.Tag != "" {
		keys[b.Tag] = key
	}

	rec := e.Record(key)
	rec.Margins = edges(b.Margins).Scale(scale)
	rec.Padding = edges(b.Padding).Scale(scale)
	rec.Width = b.Width.dimension().Scale(scale)
	rec.Height = b.Height.dimension().Scale(scale)
	if len(b.FloatingPosition) == 2 {
		rec.FloatingPosition = &layout.Vec2{X: b.FloatingPosition[0] * scale, Y: b.FloatingPosition[1] * scale}
	}

	for i := range b.Children {
		build(e, key, &b.Children[i], keys, scale)
	}
}

func (b *Box) config() layout.Config {
	var c layout.ContainerFlag
	if b.Wrap {
		c |= layout.ArrangeWrap
	}
	if b.Clip {
		c |= layout.BoxesClip
	}
	if b.Constrain {
		c |= layout.BoxesConstrainGrowth
	}
	if b.NoNormalization {
		c |= layout.BoxesGridNoNormalization
	}
	c |= axisFlags(b.Expand, layout.SizeExpandForContentX, layout.SizeExpandForContentY)
	c |= axisFlags(b.PreventCrush, layout.SizePreventCrushX, layout.SizePreventCrushY)

	var f layout.BoxFlag
	for _, a := range b.Anchor {
		f |= anchorFlags[a]
	}
	for _, opt := range []struct {
		set  bool
		flag layout.BoxFlag
	}{
		{b.Break, layout.Break},
		{b.Stacked, layout.Stacked},
		{b.Floating, layout.Floating},
		{b.CollapseMargins, layout.CollapseMargins},
		{b.NoMeasurement, layout.NoMeasurement},
		{b.AlignToParent, layout.AlignToParentBox},
	} {
		if opt.set {
			f |= opt.flag
		}
	}

	return layout.NewConfig(c, f).
		WithDirection(directionFlags[b.Direction]).
		WithAlignment(alignFlags[b.Align]).
		WithGrid(b.GridColumns)
}

func axisFlags(axis string, x, y layout.ContainerFlag) layout.ContainerFlag {
	switch axis {
	case "x":
		return x
	case "y":
		return y
	case "both":
		return x | y
	}
	return 0
}

// edges expands 1, 2 (x, y) or 4 (left, top, right, bottom) numbers.
func edges(v []float32) layout.Margins {
	switch len(v) {
	case 1:
		return layout.Uniform(v[0])
	case 2:
		return layout.Margins{Left: v[0], Top: v[1], Right: v[0], Bottom: v[1]}
	case 4:
		return layout.Margins{Left: v[0], Top: v[1], Right: v[2], Bottom: v[3]}
	}
	return layout.Margins{}
}

func (s *Size) dimension() layout.Dimension {
	var d layout.Dimension
	if s == nil {
		return d
	}
	if s.Fixed != nil {
		d.SetFixed(*s.Fixed)
	}
	if s.Min != nil {
		d.SetMinimum(*s.Min)
	}
	if s.Max != nil {
		d.SetMaximum(*s.Max)
	}
	if s.Percent != nil {
		d.SetPercentage(*s.Percent)
	}
	return d
}

// FromEngine describes the tree attached to e's root as a fixture.
// Detached boxes are not included.
func FromEngine(e *layout.Engine, name string) *Fixture {
	canvas := e.CanvasSize()
	return &Fixture{
		Name:   name,
		Canvas: Canvas{Width: canvas.X, Height: canvas.Y},
		Root:   describe(e, layout.RootKey, true),
	}
}

func describe(e *layout.Engine, key layout.Key, isRoot bool) Box {
	rec := e.Record(key)
	c := rec.Config
	b := Box{
		Tag:             rec.Tag,
		Wrap:            c.IsWrap(),
		Clip:            c.Clip(),
		Constrain:       c.ContainerFlags()&layout.BoxesConstrainGrowth != 0,
		NoNormalization: c.NoNormalization(),
		GridColumns:     c.GridColumnCount,
		Expand:          axisName(c.ExpandForContentX(), c.ExpandForContentY()),
		PreventCrush:    axisName(c.PreventCrushX(), c.PreventCrushY()),
		Break:           c.ForceBreak(),
		Floating:        c.IsFloating(),
		Stacked:         c.IsStacked() && !c.IsFloating(),
		CollapseMargins: c.CollapseMargins(),
		NoMeasurement:   c.NoMeasurement(),
		AlignToParent:   c.AlignToParentBox(),
		Padding:         edgeList(rec.Padding),
	}
	if d := c.ChildDirection(); d != layout.DirectionRow {
		b.Direction = d.String()
	}
	if a := c.ChildAlign(); a != layout.AlignmentStart {
		b.Align = a.String()
	}
	b.Anchor = anchorNames(c.BoxFlags())

	if !isRoot {
		b.Margins = edgeList(rec.Margins)
		b.Width = sizeOf(rec.Width)
		b.Height = sizeOf(rec.Height)
		if p := rec.FloatingPosition; p != nil {
			b.FloatingPosition = []float32{p.X, p.Y}
		}
	}

	for child := range e.Children(key) {
		b.Children = append(b.Children, describe(e, child, false))
	}
	return b
}

func axisName(x, y bool) string {
	switch {
	case x && y:
		return "both"
	case x:
		return "x"
	case y:
		return "y"
	}
	return ""
}

func anchorNames(f layout.BoxFlag) []string {
	var names []string
	for _, name := range []string{"left", "top", "right", "bottom"} {
		if f&anchorFlags[name] != 0 {
			names = append(names, name)
		}
	}
	return names
}

func edgeList(m layout.Margins) []float32 {
	switch {
	case m == layout.Margins{}:
		return nil
	case m == layout.Uniform(m.Left):
		return []float32{m.Left}
	case m.Left == m.Right && m.Top == m.Bottom:
		return []float32{m.Left, m.Top}
	}
	return []float32{m.Left, m.Top, m.Right, m.Bottom}
}

func sizeOf(d layout.Dimension) *Size {
	if !d.HasValue() {
		return nil
	}
	var s Size
	opt := func(v float32, ok bool) *float32 {
		if !ok {
			return nil
		}
		return &v
	}
	s.Fixed = opt(d.FixedSize())
	s.Min = opt(d.Minimum())
	s.Max = opt(d.Maximum())
	s.Percent = opt(d.Percentage())
	return &s
}

// Tags returns the tags of keys in a stable order.
func Tags(keys map[string]layout.Key) []string {
	tags := make([]string, 0, len(keys))
	for tag := range keys {
		tags = append(tags, tag)
	}
	slices.Sort(tags)
	return tags
}
