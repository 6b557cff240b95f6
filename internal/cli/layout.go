package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/boxflow/pkg/fixture"
	"github.com/matzehuels/boxflow/pkg/pipeline"
	"github.com/matzehuels/boxflow/pkg/snapshot"
)

// layoutCommand creates the layout command for laying out fixtures.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		noCache bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "layout <fixture.toml>...",
		Short: "Lay out fixtures and write JSON snapshots",
		Long: `Lay out one or more TOML fixtures and write each result as a JSON snapshot.

Each snapshot is written next to its fixture as <fixture>.snapshot.json unless
-o is given. With a single fixture, -o - writes the snapshot to stdout.
Several fixtures are laid out in parallel.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if output != "" && len(args) > 1 {
				return fmt.Errorf("-o cannot be used with more than one fixture")
			}
			return c.runLayout(cmd.Context(), args, opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file, - for stdout (default: <fixture>.snapshot.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "ignore cached layouts")
	layoutFlags(cmd, &opts)

	return cmd
}

// runLayout loads the fixtures, lays them out, and writes one snapshot each.
func (c *CLI) runLayout(ctx context.Context, inputs []string, opts pipeline.Options, output string, noCache bool) error {
	fixtures := make([]*fixture.Fixture, len(inputs))
	for i, input := range inputs {
		f, err := pipeline.LoadFixture(ctx, input)
		if err != nil {
			return err
		}
		fixtures[i] = f
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()
	opts.Logger = c.Logger

	prog := newProgress(c.Logger)
	var snaps []*snapshot.Snapshot
	cacheHit := false
	if len(fixtures) == 1 {
		snap, hit, err := runner.LayoutWithCacheInfo(ctx, fixtures[0], opts)
		if err != nil {
			return fmt.Errorf("layout %s: %w", inputs[0], err)
		}
		snaps, cacheHit = []*snapshot.Snapshot{snap}, hit
	} else {
		snaps, err = runner.LayoutAll(ctx, fixtures, opts)
		if err != nil {
			return fmt.Errorf("layout: %w", err)
		}
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	for i, snap := range snaps {
		data, err := snapshot.Marshal(snap)
		if err != nil {
			return err
		}
		path := outputPath(output, inputs[i], ".snapshot.json")
		if err := c.writeOutput(path, append(data, '\n')); err != nil {
			return err
		}
		if path != "-" {
			c.printFile(path)
			c.printStats(len(snap.Boxes), snap.Canvas, cacheHit)
		}
	}
	prog.done(fmt.Sprintf("Laid out %d fixtures", len(snaps)))

	if output != "-" {
		c.printNextStep("Draw", appName+" diagram "+inputs[0])
	}
	return nil
}
