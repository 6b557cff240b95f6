package diagram

import (
	"bytes"
	"fmt"
	"html"

	"github.com/matzehuels/boxflow/pkg/snapshot"
)

var depthColors = []string{"#4e79a7", "#f28e2b", "#e15759", "#76b7b2", "#59a14f", "#edc948", "#b07aa1"}

const wireframeCSS = `
    .box { fill-opacity: 0.08; stroke-width: 1; }
    .box:hover { fill-opacity: 0.3; stroke-width: 2; }
    .content { fill: none; stroke-dasharray: 3 2; stroke-opacity: 0.6; }
    .label { font: 10px Helvetica, sans-serif; pointer-events: none; }`

// Wireframe draws every box of s as a rectangle at its canvas position,
// coloured by depth. With ShowRects the content box is outlined too.
// Each rectangle carries a title with the box's tag and rect for hovering.
func Wireframe(s *snapshot.Snapshot, opts Options) []byte {
	w, h := s.Canvas.Width, s.Canvas.Height
	for _, b := range s.Boxes {
		w = max(w, b.Rect.Left+b.Rect.Width)
		h = max(h, b.Rect.Top+b.Rect.Height)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		w, h, w, h)
	fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", wireframeCSS)
	fmt.Fprintf(&buf, `  <rect x="0" y="0" width="%.1f" height="%.1f" fill="white" stroke="#999" stroke-dasharray="6 3"/>`+"\n",
		s.Canvas.Width, s.Canvas.Height)

	for _, b := range s.Boxes {
		color := depthColors[b.Depth%len(depthColors)]
		title := html.EscapeString(fmt.Sprintf("%s #%d %s", b.Tag, b.Key, b.Rect))
		fmt.Fprintf(&buf, `  <rect id="box-%d" class="box" x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s" stroke="%s"><title>%s</title></rect>`+"\n",
			b.Key, b.Rect.Left, b.Rect.Top, b.Rect.Width, b.Rect.Height, color, color, title)
		if opts.ShowRects && b.ContentRect != b.Rect {
			c := b.ContentRect
			fmt.Fprintf(&buf, `  <rect class="content" x="%.1f" y="%.1f" width="%.1f" height="%.1f" stroke="%s"/>`+"\n",
				c.Left, c.Top, c.Width, c.Height, color)
		}
		if b.Tag != "" && b.Rect.Width > 0 && b.Rect.Height > 0 {
			fmt.Fprintf(&buf, `  <text class="label" x="%.1f" y="%.1f" fill="%s">%s</text>`+"\n",
				b.Rect.Left+2, b.Rect.Top+11, color, html.EscapeString(b.Tag))
		}
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}
