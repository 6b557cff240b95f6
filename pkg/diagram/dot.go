package diagram

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/boxflow/pkg/snapshot"
)

// Options configures diagram output.
type Options struct {
	// ShowRects adds each box's rect and content size to its label.
	// When false, only the tag and key are shown.
	ShowRects bool
}

// ToDOT converts a snapshot's box tree to Graphviz DOT, one node per box
// and one edge per parent link. Boxes that measure zero in either
// direction are drawn dashed.
func ToDOT(s *snapshot.Snapshot, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph boxes {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontname=\"Helvetica\", fontsize=12];\n")
	buf.WriteString("  ranksep=0.4;\n")
	buf.WriteString("  nodesep=0.25;\n")
	buf.WriteString("\n")

	for _, b := range s.Boxes {
		fmt.Fprintf(&buf, "  %s [%s];\n", nodeID(b.Key), strings.Join(fmtAttrs(b, opts), ", "))
	}

	buf.WriteString("\n")
	for _, b := range s.Boxes {
		if b.Parent >= 0 {
			fmt.Fprintf(&buf, "  %s -> %s;\n", nodeID(b.Parent), nodeID(b.Key))
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeID(key int32) string {
	return fmt.Sprintf("b%d", key)
}

func fmtLabel(b snapshot.Box, opts Options) string {
	label := fmt.Sprintf("#%d", b.Key)
	if b.Tag != "" {
		label = b.Tag + " " + label
	}
	if !opts.ShowRects {
		return label
	}
	return label + "\n" + b.Rect.String() + "\ncontent " + b.ContentSize.String()
}

func fmtAttrs(b snapshot.Box, opts Options) []string {
	attrs := []string{fmt.Sprintf("label=%q", fmtLabel(b, opts))}
	if b.Rect.Width == 0 || b.Rect.Height == 0 {
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's point-based svg header with one whose
// width and height match the viewBox.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	header := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(header))
}
