package cli

import (
	stderrors "errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/boxflow/pkg/errors"
	"github.com/matzehuels/boxflow/pkg/fixture"
	"github.com/matzehuels/boxflow/pkg/pipeline"
	"github.com/matzehuels/boxflow/pkg/snapshot"
	"github.com/matzehuels/boxflow/pkg/store"
)

// defaultBaselineDir is where file baselines live when --dir is not given.
const defaultBaselineDir = "testdata/baselines"

// baselineCommand creates the baseline command group.
func (c *CLI) baselineCommand() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "baseline",
		Short: "Record and check layout baselines",
		Long: `Record the layout a fixture produces and check later layouts against it.

Baselines are stored as JSON files in --dir, or in MongoDB when
` + envMongoURI + ` is set.`,
	}
	cmd.PersistentFlags().StringVar(&dir, "dir", defaultBaselineDir, "baseline directory")

	cmd.AddCommand(c.baselineSaveCommand(&dir))
	cmd.AddCommand(c.baselineCheckCommand(&dir))
	cmd.AddCommand(c.baselineListCommand(&dir))
	cmd.AddCommand(c.baselineDeleteCommand(&dir))

	return cmd
}

// layoutFixtures loads and lays out each path without caching.
func (c *CLI) layoutFixtures(cmd *cobra.Command, paths []string, opts pipeline.Options) ([]*snapshot.Snapshot, error) {
	fixtures := make([]*fixture.Fixture, len(paths))
	for i, path := range paths {
		f, err := pipeline.LoadFixture(cmd.Context(), path)
		if err != nil {
			return nil, err
		}
		fixtures[i] = f
	}
	runner, err := c.newRunner(cmd.Context(), true)
	if err != nil {
		return nil, err
	}
	defer runner.Close()
	opts.Logger = c.Logger
	return runner.LayoutAll(cmd.Context(), fixtures, opts)
}

func (c *CLI) baselineSaveCommand(dir *string) *cobra.Command {
	opts := pipeline.Options{}
	cmd := &cobra.Command{
		Use:   "save <fixture.toml>...",
		Short: "Record the current layout of fixtures as their baselines",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snaps, err := c.layoutFixtures(cmd, args, opts)
			if err != nil {
				return err
			}
			st, err := c.newStore(cmd.Context(), *dir)
			if err != nil {
				return fmt.Errorf("open baseline store: %w", err)
			}
			defer st.Close()

			for _, s := range snaps {
				if err := st.Put(cmd.Context(), s); err != nil {
					return fmt.Errorf("save %s: %w", s.Fixture, err)
				}
				c.printSuccess("Saved %s", StyleHighlight.Render(s.Fixture))
				c.printStats(len(s.Boxes), s.Canvas, false)
			}
			return nil
		},
	}
	layoutFlags(cmd, &opts)
	return cmd
}

func (c *CLI) baselineCheckCommand(dir *string) *cobra.Command {
	opts := pipeline.Options{}
	cmd := &cobra.Command{
		Use:   "check <fixture.toml>...",
		Short: "Compare fixtures against their baselines",
		Long: `Lay out fixtures and compare each box rect with the stored baseline.

Rects may differ by up to --tolerance in each component. The command fails if
any fixture differs or has no baseline.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.ValidateAndSetDefaults(); err != nil {
				return err
			}
			snaps, err := c.layoutFixtures(cmd, args, opts)
			if err != nil {
				return err
			}
			st, err := c.newStore(cmd.Context(), *dir)
			if err != nil {
				return fmt.Errorf("open baseline store: %w", err)
			}
			defer st.Close()

			runner := pipeline.NewRunner(nil, nil, c.Logger)
			failed := 0
			for _, s := range snaps {
				if !c.reportCheck(s.Fixture, runner.Check(cmd.Context(), st, s, opts.Tolerance)) {
					failed++
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d fixtures failed", failed, len(snaps))
			}
			return nil
		},
	}
	cmd.Flags().Float32Var(&opts.Tolerance, "tolerance", pipeline.DefaultTolerance, "allowed difference per rect component")
	layoutFlags(cmd, &opts)
	return cmd
}

// reportCheck prints the outcome of one baseline check and reports success.
func (c *CLI) reportCheck(name string, err error) bool {
	var mismatch *errors.MismatchError
	switch {
	case err == nil:
		c.printSuccess("%s matches baseline", name)
		return true
	case stderrors.Is(err, store.ErrNotFound):
		c.printWarning("%s has no baseline", name)
	case stderrors.As(err, &mismatch):
		c.printError("%s", mismatch.Error())
		for _, d := range mismatch.Details {
			c.printDetail("%s", d)
		}
	default:
		c.printError("%s: %v", name, err)
	}
	return false
}

func (c *CLI) baselineListCommand(dir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored baselines",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.newStore(cmd.Context(), *dir)
			if err != nil {
				return fmt.Errorf("open baseline store: %w", err)
			}
			defer st.Close()

			names, err := st.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(names) == 0 {
				c.printInfo("No baselines")
				return nil
			}
			for _, name := range names {
				fmt.Fprintln(c.out, name)
			}
			return nil
		},
	}
}

func (c *CLI) baselineDeleteCommand(dir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>...",
		Short: "Delete stored baselines",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.newStore(cmd.Context(), *dir)
			if err != nil {
				return fmt.Errorf("open baseline store: %w", err)
			}
			defer st.Close()

			for _, name := range args {
				if err := st.Delete(cmd.Context(), name); err != nil {
					return fmt.Errorf("delete %s: %w", name, err)
				}
				c.printSuccess("Deleted %s", name)
			}
			return nil
		},
	}
}
