package fixture

import (
	"encoding/xml"
	"fmt"
	"io"

	"github.com/matzehuels/boxflow/pkg/errors"
	"github.com/matzehuels/boxflow/pkg/layout"
)

// recordsVersion is bumped when the XML layout changes incompatibly.
const recordsVersion = 1

type xmlRecords struct {
	XMLName      xml.Name    `xml:"records"`
	Version      int         `xml:"version,attr"`
	CanvasWidth  float32     `xml:"canvas-width,attr"`
	CanvasHeight float32     `xml:"canvas-height,attr"`
	Boxes        []xmlRecord `xml:"box"`
}

type xmlRecord struct {
	Key         int32  `xml:"key,attr"`
	Parent      int32  `xml:"parent,attr"`
	FirstChild  int32  `xml:"first-child,attr"`
	LastChild   int32  `xml:"last-child,attr"`
	Previous    int32  `xml:"previous,attr"`
	Next        int32  `xml:"next,attr"`
	Tag         string `xml:"tag,attr,omitempty"`
	Config      string `xml:"config,attr"`
	GridColumns int    `xml:"grid-columns,attr,omitempty"`

	Margins  *xmlEdges     `xml:"margins"`
	Padding  *xmlEdges     `xml:"padding"`
	Width    *xmlDimension `xml:"width"`
	Height   *xmlDimension `xml:"height"`
	Floating *xmlPoint     `xml:"floating-position"`
}

type xmlEdges struct {
	Left   float32 `xml:"left,attr"`
	Top    float32 `xml:"top,attr"`
	Right  float32 `xml:"right,attr"`
	Bottom float32 `xml:"bottom,attr"`
}

type xmlDimension struct {
	Fixed   *float32 `xml:"fixed,attr"`
	Min     *float32 `xml:"min,attr"`
	Max     *float32 `xml:"max,attr"`
	Percent *float32 `xml:"percent,attr"`
}

type xmlPoint struct {
	X float32 `xml:"x,attr"`
	Y float32 `xml:"y,attr"`
}

// WriteRecords writes every record e holds, detached ones included, with
// their raw keys and links. [ReadRecords] restores the exact same tree.
func WriteRecords(w io.Writer, e *layout.Engine) error {
	canvas := e.CanvasSize()
	out := xmlRecords{
		Version:      recordsVersion,
		CanvasWidth:  canvas.X,
		CanvasHeight: canvas.Y,
		Boxes:        make([]xmlRecord, 0, e.Count()),
	}
	for i := range e.Count() {
		rec := e.Record(layout.Key(i))
		x := xmlRecord{
			Key:         int32(rec.Key()),
			Parent:      int32(rec.Parent()),
			FirstChild:  int32(rec.FirstChild()),
			LastChild:   int32(rec.LastChild()),
			Previous:    int32(rec.PreviousSibling()),
			Next:        int32(rec.NextSibling()),
			Tag:         rec.Tag,
			Config:      fmt.Sprintf("%#x", rec.Config.Bits),
			GridColumns: rec.Config.GridColumnCount,
			Margins:     edgesXML(rec.Margins),
			Padding:     edgesXML(rec.Padding),
			Width:       dimensionXML(rec.Width),
			Height:      dimensionXML(rec.Height),
		}
		if p := rec.FloatingPosition; p != nil {
			x.Floating = &xmlPoint{X: p.X, Y: p.Y}
		}
		out.Boxes = append(out.Boxes, x)
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// ReadRecords clears e and restores records written by [WriteRecords].
// Keys must be dense and start at the root; links are checked for
// consistency before anything is linked.
func ReadRecords(r io.Reader, e *layout.Engine) error {
	var in xmlRecords
	if err := xml.NewDecoder(r).Decode(&in); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode records")
	}
	if in.Version != recordsVersion {
		return errors.New(errors.ErrCodeInvalidFormat, "unsupported records version %d", in.Version)
	}
	if err := checkRecords(in.Boxes); err != nil {
		return err
	}

	return layout.Safely(func() {
		e.Clear()
		e.SetCanvasSize(layout.Vec2{X: in.CanvasWidth, Y: in.CanvasHeight})

		for i := range in.Boxes {
			x := &in.Boxes[i]
			cfg := layout.Config{Bits: parseBits(x.Config), GridColumnCount: x.GridColumns}
			key := layout.RootKey
			if i > 0 {
				key = e.Create(x.Tag, cfg)
			}
			rec := e.Record(key)
			rec.Tag = x.Tag
			rec.Config = cfg
			rec.Margins = x.Margins.margins()
			rec.Padding = x.Padding.margins()
			if key != layout.RootKey {
				rec.Width = x.Width.dimension()
				rec.Height = x.Height.dimension()
			}
			if x.Floating != nil {
				rec.FloatingPosition = &layout.Vec2{X: x.Floating.X, Y: x.Floating.Y}
			}
		}

		for i := range in.Boxes {
			for c := in.Boxes[i].FirstChild; c >= 0; c = in.Boxes[c].Next {
				e.Append(layout.Key(i), layout.Key(c))
			}
		}
	})
}

func checkRecords(boxes []xmlRecord) error {
	n := int32(len(boxes))
	bad := func(format string, args ...any) error {
		return errors.New(errors.ErrCodeInvalidFormat, format, args...)
	}
	if n == 0 {
		return bad("no records")
	}
	inRange := func(k int32) bool { return k >= -1 && k < n }

	for i, x := range boxes {
		if x.Key != int32(i) {
			return bad("record %d has key %d; keys must be dense", i, x.Key)
		}
		for _, k := range []int32{x.Parent, x.FirstChild, x.LastChild, x.Previous, x.Next} {
			if !inRange(k) {
				return bad("record %d links to unknown key %d", i, k)
			}
		}
		if _, err := fmt.Sscanf(x.Config, "%v", new(uint32)); err != nil {
			return bad("record %d: config %q", i, x.Config)
		}
	}
	if boxes[0].Parent != -1 {
		return bad("root must not have a parent")
	}

	linked, parented := 0, 0
	for i, x := range boxes {
		if x.Parent >= 0 {
			parented++
		}
		last, steps := int32(-1), int32(0)
		for c := x.FirstChild; c >= 0; c = boxes[c].Next {
			if steps++; steps > n {
				return bad("sibling cycle below record %d", i)
			}
			if c == 0 || boxes[c].Parent != int32(i) || boxes[c].Previous != last {
				return bad("record %d is not a consistent child of %d", c, i)
			}
			last = c
			linked++
		}
		if last != x.LastChild {
			return bad("record %d: last child %d, chain ends at %d", i, x.LastChild, last)
		}
	}
	if linked != parented {
		return bad("%d records name a parent that does not list them", parented-linked)
	}
	return nil
}

func parseBits(s string) uint32 {
	var v uint32
	_, _ = fmt.Sscanf(s, "%v", &v)
	return v
}

func edgesXML(m layout.Margins) *xmlEdges {
	if m == (layout.Margins{}) {
		return nil
	}
	return &xmlEdges{Left: m.Left, Top: m.Top, Right: m.Right, Bottom: m.Bottom}
}

func (x *xmlEdges) margins() layout.Margins {
	if x == nil {
		return layout.Margins{}
	}
	return layout.Margins{Left: x.Left, Top: x.Top, Right: x.Right, Bottom: x.Bottom}
}

func dimensionXML(d layout.Dimension) *xmlDimension {
	s := sizeOf(d)
	if s == nil {
		return nil
	}
	return &xmlDimension{Fixed: s.Fixed, Min: s.Min, Max: s.Max, Percent: s.Percent}
}

func (x *xmlDimension) dimension() layout.Dimension {
	if x == nil {
		return layout.Dimension{}
	}
	s := Size{Fixed: x.Fixed, Min: x.Min, Max: x.Max, Percent: x.Percent}
	return s.dimension()
}
