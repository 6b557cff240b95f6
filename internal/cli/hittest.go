package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/boxflow/pkg/pipeline"
)

// hitTestCommand creates the hittest command.
func (c *CLI) hitTestCommand() *cobra.Command {
	var (
		x, y       float32
		exhaustive bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "hittest <fixture.toml>",
		Short: "Find the box under a point",
		Long: `Lay out a fixture and print the deepest box whose rect contains the point.

Children are searched last to first, so boxes drawn on top win. With
--exhaustive, children that overflow an unclipped parent are found too.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := pipeline.LoadFixture(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			opts.Logger = c.Logger
			hit, err := pipeline.HitTest(f, opts, x, y, exhaustive)
			if err != nil {
				return fmt.Errorf("hit test: %w", err)
			}
			if hit == nil {
				c.printWarning("No box at (%g, %g)", x, y)
				return nil
			}

			c.printSuccess("%s %s", StyleHighlight.Render(hit.Tag), StyleDim.Render(fmt.Sprintf("#%d", hit.Key)))
			c.printKeyValue("rect", hit.Rect.String())
			c.printKeyValue("content", hit.ContentRect.String())
			c.printKeyValue("depth", fmt.Sprint(hit.Depth))
			return nil
		},
	}

	cmd.Flags().Float32Var(&x, "x", 0, "x coordinate")
	cmd.Flags().Float32Var(&y, "y", 0, "y coordinate")
	cmd.Flags().BoolVar(&exhaustive, "exhaustive", false, "also search boxes that do not contain the point")
	layoutFlags(cmd, &opts)

	return cmd
}
