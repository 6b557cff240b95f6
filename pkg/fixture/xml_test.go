package fixture

import (
	"bytes"
	"strings"
	"testing"

	"github.com/matzehuels/boxflow/pkg/errors"
	"github.com/matzehuels/boxflow/pkg/layout"
)

func TestRecordsRoundTrip(t *testing.T) {
	e := layout.New(layout.WithCanvasSize(640, 480))
	row := e.CreateIn(layout.RootKey, "row", layout.DefaultConfig().WithGrid(2))
	a := e.CreateIn(row, "a", layout.NewConfig(0, layout.AnchorLeft))
	rec := e.Record(a)
	rec.Margins = layout.Margins{Left: 1, Top: 2, Right: 3, Bottom: 4}
	rec.Width = layout.Between(10, 20)
	rec.Height = layout.Percent(50)
	pop := e.CreateIn(row, "popup", layout.NewConfig(0, layout.Floating))
	e.Record(pop).FloatingPosition = &layout.Vec2{X: 5, Y: 6}
	e.Record(row).Padding = layout.Uniform(8)

	// A removed subtree keeps its links and must survive the round trip.
	gone := e.CreateIn(layout.RootKey, "gone", layout.DefaultConfig())
	e.CreateIn(gone, "orphan", layout.DefaultConfig())
	e.Remove(gone)

	var buf bytes.Buffer
	if err := WriteRecords(&buf, e); err != nil {
		t.Fatalf("WriteRecords: %v", err)
	}

	restored := layout.New()
	if err := ReadRecords(bytes.NewReader(buf.Bytes()), restored); err != nil {
		t.Fatalf("ReadRecords: %v\n%s", err, buf.String())
	}

	if restored.Count() != e.Count() {
		t.Fatalf("Count = %d, want %d", restored.Count(), e.Count())
	}
	if restored.CanvasSize() != e.CanvasSize() {
		t.Errorf("CanvasSize = %v, want %v", restored.CanvasSize(), e.CanvasSize())
	}
	for i := range e.Count() {
		k := layout.Key(i)
		want, got := e.Record(k), restored.Record(k)
		if want.Tag != got.Tag || want.Config != got.Config ||
			want.Parent() != got.Parent() || want.FirstChild() != got.FirstChild() ||
			want.LastChild() != got.LastChild() || want.NextSibling() != got.NextSibling() ||
			want.PreviousSibling() != got.PreviousSibling() ||
			want.Margins != got.Margins || want.Padding != got.Padding ||
			want.Width != got.Width || want.Height != got.Height {
			t.Errorf("record %s differs:\n got %+v\nwant %+v", k, got, want)
		}
		if (want.FloatingPosition == nil) != (got.FloatingPosition == nil) ||
			want.FloatingPosition != nil && *want.FloatingPosition != *got.FloatingPosition {
			t.Errorf("record %s floating position differs", k)
		}
	}

	var again bytes.Buffer
	_ = WriteRecords(&again, restored)
	if again.String() != buf.String() {
		t.Errorf("second dump differs:\n%s\nvs\n%s", again.String(), buf.String())
	}
}

func TestReadRecordsRejects(t *testing.T) {
	tests := []struct {
		name string
		xml  string
	}{
		{"not xml", "{"},
		{"version", `<records version="9"><box key="0" parent="-1" first-child="-1" last-child="-1" previous="-1" next="-1" config="0x1"></box></records>`},
		{"empty", `<records version="1"></records>`},
		{"sparse keys", `<records version="1"><box key="1" parent="-1" first-child="-1" last-child="-1" previous="-1" next="-1" config="0x1"></box></records>`},
		{"unknown link", `<records version="1"><box key="0" parent="-1" first-child="7" last-child="7" previous="-1" next="-1" config="0x1"></box></records>`},
		{"bad config", `<records version="1"><box key="0" parent="-1" first-child="-1" last-child="-1" previous="-1" next="-1" config="zz"></box></records>`},
		{"orphan parent link", `<records version="1">
			<box key="0" parent="-1" first-child="-1" last-child="-1" previous="-1" next="-1" config="0x1"></box>
			<box key="1" parent="0" first-child="-1" last-child="-1" previous="-1" next="-1" config="0x1"></box>
		</records>`},
		{"sibling cycle", `<records version="1">
			<box key="0" parent="-1" first-child="1" last-child="2" previous="-1" next="-1" config="0x1"></box>
			<box key="1" parent="0" first-child="-1" last-child="-1" previous="-1" next="2" config="0x1"></box>
			<box key="2" parent="0" first-child="-1" last-child="-1" previous="1" next="1" config="0x1"></box>
		</records>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ReadRecords(strings.NewReader(tt.xml), layout.New())
			if !errors.Is(err, errors.ErrCodeInvalidFormat) {
				t.Errorf("ReadRecords error = %v, want INVALID_FORMAT", err)
			}
		})
	}
}

func TestRecordsLayoutMatches(t *testing.T) {
	e := layout.New()
	keys, err := Build(e, decode(t, toolbar))
	if err != nil {
		t.Fatal(err)
	}
	e.Update()

	var buf bytes.Buffer
	if err := WriteRecords(&buf, e); err != nil {
		t.Fatal(err)
	}
	restored := layout.New()
	if err := ReadRecords(&buf, restored); err != nil {
		t.Fatal(err)
	}
	restored.Update()

	for tag, k := range keys {
		if got, want := restored.Result(k).Rect, e.Result(k).Rect; got != want {
			t.Errorf("%s: restored %+v, original %+v", tag, got, want)
		}
	}
}
