package layout

import "fmt"

// BoxRecord is the persistent description of one box: its tree links and
// everything the caller configures. Tree links are owned by the engine and
// only change through the insert and remove operations.
type BoxRecord struct {
	key, parent, firstChild, lastChild, prevSibling, nextSibling link

	Tag    string
	Config Config

	Margins Margins
	Padding Margins
	Width   Dimension
	Height  Dimension

	// FloatingPosition offsets a floating box from its parent's content box.
	// When nil the box is aligned within the parent like a stacked box.
	FloatingPosition *Vec2
}

func (r *BoxRecord) Key() Key             { return r.key.key() }
func (r *BoxRecord) Parent() Key          { return r.parent.key() }
func (r *BoxRecord) FirstChild() Key      { return r.firstChild.key() }
func (r *BoxRecord) LastChild() Key       { return r.lastChild.key() }
func (r *BoxRecord) PreviousSibling() Key { return r.prevSibling.key() }
func (r *BoxRecord) NextSibling() Key     { return r.nextSibling.key() }

// IsValid reports whether the record belongs to a live box.
func (r *BoxRecord) IsValid() bool { return r.key.valid() }

// HasChildren reports whether the box has at least one child.
func (r *BoxRecord) HasChildren() bool { return r.firstChild.valid() }

// SetFixedSize sets fixed width and height.
func (r *BoxRecord) SetFixedSize(w, h float32) {
	r.Width.SetFixed(w)
	r.Height.SetFixed(h)
}

func (r *BoxRecord) String() string {
	return fmt.Sprintf("%s %s", r.Key(), r.Tag)
}

// BoxLayoutResult holds the computed geometry of one box.
type BoxLayoutResult struct {
	Tag string

	// Rect is the outer box in canvas coordinates, excluding margins.
	Rect RectF
	// ContentRect is Rect shrunk by padding.
	ContentRect RectF
	// ContentSize is the extent of the measured children relative to the content box.
	ContentSize Vec2
	// AvailableSpace is the space the parent offered this box.
	AvailableSpace Vec2

	FirstRunIndex    int32
	FloatingRunIndex int32
	ParentRunIndex   int32

	Depth int
	Break bool

	Pass1Processed  bool
	Pass1Ready      bool
	Pass2Processed  bool
	Pass2Complete   bool
	Arranged        bool
	SizeSetByParent bool

	Version uint64

	key Key

	// Constraints resolved against the parent during measurement.
	width, height Dimension
	margins       Margins

	capped bool
}

// Key returns the box this result belongs to, or InvalidKey for the sentinel.
func (r BoxLayoutResult) Key() Key { return r.key }

// IsValid reports whether the result describes a box.
func (r BoxLayoutResult) IsValid() bool { return !r.key.IsInvalid() }

var invalidResult = BoxLayoutResult{
	key:              InvalidKey,
	FirstRunIndex:    -1,
	FloatingRunIndex: -1,
	ParentRunIndex:   -1,
}

func (e *Engine) initializeResult(rec *BoxRecord, res *BoxLayoutResult, depth int) {
	*res = BoxLayoutResult{
		Tag:              rec.Tag,
		FirstRunIndex:    -1,
		FloatingRunIndex: -1,
		ParentRunIndex:   -1,
		Depth:            depth,
		Break:            rec.Config.ForceBreak(),
		Version:          e.version,
		key:              rec.Key(),
	}
}
