package layout_test

import (
	"fmt"

	"github.com/matzehuels/boxflow/pkg/layout"
)

func ExampleEngine_Update() {
	e := layout.New(layout.WithCanvasSize(800, 600))

	// A toolbar across the top: a fixed icon and a label taking the rest.
	bar := e.CreateIn(layout.RootKey, "toolbar", layout.NewConfig(layout.DefaultContainerFlags, layout.FillRow|layout.AnchorTop))
	icon := e.CreateIn(bar, "icon", layout.NewConfig(0, layout.AnchorLeft|layout.AnchorTop))
	e.Record(icon).SetFixedSize(100, 50)
	label := e.CreateIn(bar, "label", layout.NewConfig(0, layout.Fill))

	e.Update()
	fmt.Printf("%+v\n", e.Result(icon).Rect)
	fmt.Printf("%+v\n", e.Result(label).Rect)
	// Output:
	// {Left:0 Top:0 Width:100 Height:50}
	// {Left:100 Top:0 Width:700 Height:50}
}

func ExampleEngine_DebugHitTest() {
	e := layout.New(layout.WithCanvasSize(300, 300))
	popup := e.CreateIn(layout.RootKey, "popup", layout.NewConfig(0, layout.Floating))
	rec := e.Record(popup)
	rec.SetFixedSize(50, 50)
	rec.FloatingPosition = &layout.Vec2{X: 20, Y: 20}
	e.Update()

	hit, _, ok := e.DebugHitTest(layout.Vec2{X: 30, Y: 30}, false)
	fmt.Println(ok, hit.Tag)
	// Output:
	// true popup
}

func ExampleFromControlFlags() {
	cfg, err := layout.FromControlFlags(layout.ContainerColumn | layout.ContainerWrap | layout.ContainerAlignEnd)
	if err != nil {
		panic(err)
	}
	fmt.Println(cfg.ChildDirection(), cfg.ChildAlign(), cfg.IsWrap())
	// Output:
	// column end true
}
