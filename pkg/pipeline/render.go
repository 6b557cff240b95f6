package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/matzehuels/boxflow/pkg/cache"
	"github.com/matzehuels/boxflow/pkg/diagram"
	"github.com/matzehuels/boxflow/pkg/observability"
	"github.com/matzehuels/boxflow/pkg/snapshot"
)

// Render generates output artifacts in the requested formats.
func Render(ctx context.Context, s *snapshot.Snapshot, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	diagramOpts := diagram.Options{ShowRects: opts.ShowRects}

	for _, format := range opts.Formats {
		observability.Pipeline().OnRenderStart(ctx, format)
		start := time.Now()

		var data []byte
		var err error
		switch format {
		case FormatJSON:
			data, err = snapshot.Marshal(s)
		case FormatDOT:
			data = []byte(diagram.ToDOT(s, diagramOpts))
		case FormatSVG:
			data, err = diagram.RenderSVG(ctx, diagram.ToDOT(s, diagramOpts))
		case FormatWireframe:
			data = diagram.Wireframe(s, diagramOpts)
		default:
			err = ValidateFormat(format)
		}

		observability.Pipeline().OnRenderComplete(ctx, format, time.Since(start), err)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

// LayoutHash hashes the geometry of s: its canvas and boxes, but not its ID
// or capture time. Two snapshots of the same layout hash equal.
func LayoutHash(s *snapshot.Snapshot) (string, error) {
	data, err := json.Marshal(struct {
		Fixture string         `json:"fixture"`
		Canvas  snapshot.Size  `json:"canvas"`
		Boxes   []snapshot.Box `json:"boxes"`
	}{s.Fixture, s.Canvas, s.Boxes})
	if err != nil {
		return "", fmt.Errorf("hash layout: %w", err)
	}
	return cache.Hash(data), nil
}
