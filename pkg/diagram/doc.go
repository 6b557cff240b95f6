// Package diagram draws layout snapshots for humans.
//
// # Tree diagrams
//
// [ToDOT] turns a snapshot's box tree into Graphviz DOT source, one node per
// box labelled with its tag and key, and [RenderSVG] lays that graph out
// with Graphviz:
//
//	dot := diagram.ToDOT(snap, diagram.Options{ShowRects: true})
//	svg, err := diagram.RenderSVG(ctx, dot)
//
// # Wireframes
//
// [Wireframe] draws the boxes themselves at their canvas positions, which
// is usually the quickest way to see why a box ended up where it did:
//
//	svg := diagram.Wireframe(snap, diagram.Options{ShowRects: true})
//
// Rectangles are coloured by depth and carry a hover title with the tag,
// key and rect.
package diagram
