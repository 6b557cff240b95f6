package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/boxflow/pkg/pipeline"
)

// formatExtensions maps output formats to file suffixes.
var formatExtensions = map[string]string{
	pipeline.FormatJSON:      ".snapshot.json",
	pipeline.FormatDOT:       ".dot",
	pipeline.FormatSVG:       ".svg",
	pipeline.FormatWireframe: ".wireframe.svg",
}

// diagramCommand creates the diagram command for rendering fixtures.
func (c *CLI) diagramCommand() *cobra.Command {
	var (
		formats string
		output  string
		noCache bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "diagram <fixture.toml>",
		Short: "Render a fixture's layout as a diagram",
		Long: `Lay out a fixture and render the result.

Formats:
  svg        box tree drawn by Graphviz
  dot        box tree as Graphviz DOT source
  wireframe  boxes drawn at their canvas positions
  json       the snapshot itself

Several formats can be given separated by commas. Each is written next to the
fixture unless -o is given, which is only allowed with a single format.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Formats = parseFormats(formats)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			if output != "" && len(opts.Formats) > 1 {
				return fmt.Errorf("-o cannot be used with more than one format")
			}
			return c.runDiagram(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&formats, "format", "f", pipeline.FormatSVG, "output formats: svg, dot, wireframe, json")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file, - for stdout")
	cmd.Flags().BoolVar(&opts.ShowRects, "rects", false, "label boxes with their rects")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	layoutFlags(cmd, &opts)

	return cmd
}

// runDiagram lays out the fixture and writes each requested format.
func (c *CLI) runDiagram(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	f, err := pipeline.LoadFixture(ctx, input)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()
	opts.Logger = c.Logger

	result, err := runner.Execute(ctx, f, opts)
	if err != nil {
		return err
	}

	for _, format := range opts.Formats {
		path := outputPath(output, input, formatExtensions[format])
		if err := c.writeOutput(path, result.Artifacts[format]); err != nil {
			return err
		}
		if path != "-" {
			c.printFile(path)
		}
	}
	if output != "-" {
		c.printStats(result.Stats.BoxCount, result.Snapshot.Canvas, result.CacheInfo.LayoutHit)
	}
	return nil
}
