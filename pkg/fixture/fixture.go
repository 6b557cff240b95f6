package fixture

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/boxflow/pkg/errors"
)

// Fixture is a named box tree together with the canvas it is laid out on.
type Fixture struct {
	Name   string `toml:"name"`
	Canvas Canvas `toml:"canvas"`
	Root   Box    `toml:"root"`
}

// Canvas is the size the root box is fixed to.
type Canvas struct {
	Width  float32 `toml:"width"`
	Height float32 `toml:"height"`

	// Scale multiplies every box size, margin, padding and floating
	// position, so one fixture can be laid out at several densities.
	// Zero means 1. The canvas size itself is never scaled.
	Scale float32 `toml:"scale,omitempty"`
}

func (c Canvas) scale() float32 {
	if c.Scale == 0 {
		return 1
	}
	return c.Scale
}

// Box declares one box and its children. Zero values mean "not set": a box
// with no direction lays out as a row, aligned at the start, without
// wrapping, clipping or growing for content.
type Box struct {
	Tag string `toml:"tag,omitempty"`

	Direction       string `toml:"direction,omitempty"`
	Align           string `toml:"align,omitempty"`
	Wrap            bool   `toml:"wrap,omitempty"`
	Clip            bool   `toml:"clip,omitempty"`
	Constrain       bool   `toml:"constrain,omitempty"`
	Expand          string `toml:"expand,omitempty"`
	PreventCrush    string `toml:"prevent_crush,omitempty"`
	GridColumns     int    `toml:"grid_columns,omitempty"`
	NoNormalization bool   `toml:"no_normalization,omitempty"`

	Anchor           []string  `toml:"anchor,omitempty"`
	Break            bool      `toml:"break,omitempty"`
	Stacked          bool      `toml:"stacked,omitempty"`
	Floating         bool      `toml:"floating,omitempty"`
	FloatingPosition []float32 `toml:"floating_position,omitempty"`
	CollapseMargins  bool      `toml:"collapse_margins,omitempty"`
	NoMeasurement    bool      `toml:"no_measurement,omitempty"`
	AlignToParent    bool      `toml:"align_to_parent,omitempty"`

	Width  *Size `toml:"width,omitempty"`
	Height *Size `toml:"height,omitempty"`

	Margins []float32 `toml:"margins,omitempty"`
	Padding []float32 `toml:"padding,omitempty"`

	Children []Box `toml:"children,omitempty"`
}

// Size declares a dimension. Any combination may be set.
type Size struct {
	Fixed   *float32 `toml:"fixed,omitempty"`
	Min     *float32 `toml:"min,omitempty"`
	Max     *float32 `toml:"max,omitempty"`
	Percent *float32 `toml:"percent,omitempty"`
}

var (
	directions = []string{"", "row", "column", "rtl", "upward"}
	alignments = []string{"", "start", "center", "end", "justify"}
	axes       = []string{"", "none", "x", "y", "both"}
	anchors    = []string{"left", "top", "right", "bottom", "fill", "fill-row", "fill-column"}
)

// Decode reads a TOML fixture from r and validates it.
func Decode(r io.Reader) (*Fixture, error) {
	var f Fixture
	md, err := toml.NewDecoder(r).Decode(&f)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode fixture")
	}
	if keys := md.Undecoded(); len(keys) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidFixture, "unknown field %q", keys[0].String())
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Load reads the fixture at path. A fixture without a name is named after
// its file.
func Load(path string) (*Fixture, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.ErrCodeFixtureNotFound, "fixture %s not found", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	f, err := Decode(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if f.Name == "" {
		f.Name = nameFromPath(path)
	}
	return f, nil
}

// Encode writes f as TOML.
func Encode(w io.Writer, f *Fixture) error {
	if err := toml.NewEncoder(w).Encode(f); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// Bytes returns the canonical TOML encoding of f. Equal fixtures encode
// to equal bytes, which makes the encoding usable as a cache key.
func (f *Fixture) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, f); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Validate checks names, enumerated values, sizes and tag uniqueness.
func (f *Fixture) Validate() error {
	if f.Name != "" {
		if err := errors.ValidateFixtureName(f.Name); err != nil {
			return err
		}
	}
	if f.Canvas.Width < 0 || f.Canvas.Height < 0 {
		return invalid("canvas size must not be negative")
	}
	if f.Canvas.Scale < 0 {
		return invalid("canvas scale must not be negative")
	}
	seen := map[string]bool{}
	return f.Root.validate("root", seen)
}

func (b *Box) validate(path string, seen map[string]bool) error {
	if b.Tag != "" {
		if err := errors.ValidateTag(b.Tag); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		if seen[b.Tag] {
			return invalid("%s: duplicate tag %q", path, b.Tag)
		}
		seen[b.Tag] = true
	}

	checks := []struct {
		field, value string
		allowed      []string
	}{
		{"direction", b.Direction, directions},
		{"align", b.Align, alignments},
		{"expand", b.Expand, axes},
		{"prevent_crush", b.PreventCrush, axes},
	}
	for _, c := range checks {
		if !slices.Contains(c.allowed, c.value) {
			return invalid("%s: unknown %s %q", path, c.field, c.value)
		}
	}
	for _, a := range b.Anchor {
		if !slices.Contains(anchors, a) {
			return invalid("%s: unknown anchor %q", path, a)
		}
	}
	if b.Align == "justify" && b.Wrap {
		return invalid("%s: justify cannot be combined with wrap", path)
	}
	if b.GridColumns < 0 {
		return invalid("%s: grid_columns must not be negative", path)
	}
	if len(b.FloatingPosition) != 0 && len(b.FloatingPosition) != 2 {
		return invalid("%s: floating_position needs two numbers", path)
	}
	if len(b.FloatingPosition) == 2 && !b.Floating {
		return invalid("%s: floating_position requires floating", path)
	}
	if err := validateEdges("margins", b.Margins); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if err := validateEdges("padding", b.Padding); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if err := b.Width.validate(); err != nil {
		return fmt.Errorf("%s: width: %w", path, err)
	}
	if err := b.Height.validate(); err != nil {
		return fmt.Errorf("%s: height: %w", path, err)
	}

	for i := range b.Children {
		child := &b.Children[i]
		childPath := fmt.Sprintf("%s/%d", path, i)
		if child.Tag != "" {
			childPath = path + "/" + child.Tag
		}
		if err := child.validate(childPath, seen); err != nil {
			return err
		}
	}
	return nil
}

func validateEdges(name string, v []float32) error {
	switch len(v) {
	case 0, 1, 2, 4:
	default:
		return invalid("%s needs 1, 2 or 4 numbers", name)
	}
	for _, x := range v {
		if x < 0 {
			return invalid("%s must not be negative", name)
		}
	}
	return nil
}

func (s *Size) validate() error {
	if s == nil {
		return nil
	}
	for _, v := range []*float32{s.Fixed, s.Min, s.Max} {
		if v != nil && *v < 0 {
			return invalid("sizes must not be negative")
		}
	}
	if s.Percent != nil && (*s.Percent < 0 || *s.Percent > 100) {
		return invalid("percent must be within 0..100")
	}
	if s.Min != nil && s.Max != nil && *s.Min > *s.Max {
		return invalid("min %v exceeds max %v", *s.Min, *s.Max)
	}
	return nil
}

func nameFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func invalid(format string, args ...any) error {
	return errors.New(errors.ErrCodeInvalidFixture, format, args...)
}
