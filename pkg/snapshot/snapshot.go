// Package snapshot captures the computed layout of an engine in a
// serializable form.
//
// Snapshots are what the tooling stores, caches, diffs and serves: a flat,
// depth-first list of boxes with their rects in canvas coordinates. They
// carry JSON and BSON tags so the same value travels over HTTP, into the
// file cache and into MongoDB.
package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/boxflow/pkg/layout"
)

// Snapshot is the published layout of one engine.
type Snapshot struct {
	ID        string    `json:"id" bson:"id"`
	Fixture   string    `json:"fixture" bson:"fixture"`
	Canvas    Size      `json:"canvas" bson:"canvas"`
	Boxes     []Box     `json:"boxes" bson:"boxes"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// Box is one laid-out box.
type Box struct {
	Key         int32  `json:"key" bson:"key"`
	Tag         string `json:"tag,omitempty" bson:"tag,omitempty"`
	Parent      int32  `json:"parent" bson:"parent"`
	Depth       int    `json:"depth" bson:"depth"`
	Rect        Rect   `json:"rect" bson:"rect"`
	ContentRect Rect   `json:"content_rect" bson:"content_rect"`
	ContentSize Size   `json:"content_size" bson:"content_size"`
}

// Rect mirrors [layout.RectF].
type Rect struct {
	Left   float32 `json:"left" bson:"left"`
	Top    float32 `json:"top" bson:"top"`
	Width  float32 `json:"width" bson:"width"`
	Height float32 `json:"height" bson:"height"`
}

// Size is a width and height.
type Size struct {
	Width  float32 `json:"width" bson:"width"`
	Height float32 `json:"height" bson:"height"`
}

func (s Size) String() string {
	return fmt.Sprintf("%gx%g", s.Width, s.Height)
}

func rectOf(r layout.RectF) Rect {
	return Rect{Left: r.Left, Top: r.Top, Width: r.Width, Height: r.Height}
}

// RectF converts back to the engine's rect type.
func (r Rect) RectF() layout.RectF {
	return layout.RectF{Left: r.Left, Top: r.Top, Width: r.Width, Height: r.Height}
}

func (r Rect) String() string {
	return fmt.Sprintf("(%g,%g %gx%g)", r.Left, r.Top, r.Width, r.Height)
}

// Capture records the last published layout of e. Boxes are listed depth
// first in sibling order, starting at the root; detached boxes are skipped.
func Capture(e *layout.Engine, fixture string) *Snapshot {
	canvas := e.CanvasSize()
	s := &Snapshot{
		ID:        uuid.NewString(),
		Fixture:   fixture,
		Canvas:    Size{Width: canvas.X, Height: canvas.Y},
		CreatedAt: time.Now().UTC(),
	}
	s.capture(e, layout.RootKey)
	return s
}

func (s *Snapshot) capture(e *layout.Engine, key layout.Key) {
	res := e.Result(key)
	if !res.IsValid() {
		return
	}
	s.Boxes = append(s.Boxes, BoxOf(e.Record(key), res))
	for child := range e.Children(key) {
		s.capture(e, child)
	}
}

// BoxOf describes one box from its record and published result.
func BoxOf(rec *layout.BoxRecord, res layout.BoxLayoutResult) Box {
	return Box{
		Key:         int32(rec.Key()),
		Tag:         res.Tag,
		Parent:      int32(rec.Parent()),
		Depth:       res.Depth,
		Rect:        rectOf(res.Rect),
		ContentRect: rectOf(res.ContentRect),
		ContentSize: Size{Width: res.ContentSize.X, Height: res.ContentSize.Y},
	}
}

// Lookup returns the first box with tag.
func (s *Snapshot) Lookup(tag string) (Box, bool) {
	for _, b := range s.Boxes {
		if b.Tag == tag {
			return b, true
		}
	}
	return Box{}, false
}

// Marshal encodes s as indented JSON.
func Marshal(s *Snapshot) ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

// Unmarshal decodes a snapshot produced by [Marshal].
func Unmarshal(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &s, nil
}

// WriteFile writes s as JSON to path.
func WriteFile(path string, s *Snapshot) error {
	data, err := Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}

// ReadFile reads a snapshot written by [WriteFile].
func ReadFile(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Unmarshal(data)
}
