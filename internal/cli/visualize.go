package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/boxflow/pkg/pipeline"
	"github.com/matzehuels/boxflow/pkg/snapshot"
)

// visualizeCommand creates the visualize command for rendering a snapshot.
func (c *CLI) visualizeCommand() *cobra.Command {
	var (
		formats string
		output  string
		noCache bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "visualize <snapshot.json>",
		Short: "Render diagrams from a saved snapshot",
		Long: `Render diagrams from a snapshot written by 'layout'.

The snapshot already holds every rect, so no layout runs. Use 'diagram' to go
directly from a fixture to a diagram.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Formats = parseFormats(formats)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			if output != "" && len(opts.Formats) > 1 {
				return fmt.Errorf("-o cannot be used with more than one format")
			}
			return c.runVisualize(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&formats, "format", "f", pipeline.FormatSVG, "output formats: svg, dot, wireframe")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file, - for stdout")
	cmd.Flags().BoolVar(&opts.ShowRects, "rects", false, "label boxes with their rects")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// runVisualize loads the snapshot and renders it.
func (c *CLI) runVisualize(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	snap, err := snapshot.ReadFile(input)
	if err != nil {
		return fmt.Errorf("load snapshot %s: %w", input, err)
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()
	opts.Logger = c.Logger

	spinner := newSpinner(ctx, c.errOut, fmt.Sprintf("Rendering %s...", snap.Fixture))
	spinner.Start()

	artifacts, cacheHit, err := runner.RenderWithCacheInfo(ctx, snap, opts)
	if err != nil {
		spinner.StopWithError("Rendering failed")
		return fmt.Errorf("visualize: %w", err)
	}
	spinner.Stop()

	for _, format := range opts.Formats {
		path := outputPath(output, input, formatExtensions[format])
		if err := c.writeOutput(path, artifacts[format]); err != nil {
			return err
		}
		if path != "-" {
			c.printFile(path)
		}
	}
	if output != "-" {
		c.printStats(len(snap.Boxes), snap.Canvas, cacheHit)
	}
	return nil
}
