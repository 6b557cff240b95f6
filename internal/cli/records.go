package cli

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/boxflow/pkg/fixture"
	"github.com/matzehuels/boxflow/pkg/layout"
	"github.com/matzehuels/boxflow/pkg/pipeline"
	"github.com/matzehuels/boxflow/pkg/snapshot"
)

// dumpCommand creates the dump command, which writes raw engine records.
func (c *CLI) dumpCommand() *cobra.Command {
	var output string
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "dump <fixture.toml>",
		Short: "Write a fixture's engine records as XML",
		Long: `Build an engine from a fixture and write its raw box records as XML.

The dump keeps keys, tree links and configuration exactly, so 'load' can
reproduce a layout bug without the fixture that caused it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := pipeline.LoadFixture(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			opts.Logger = c.Logger
			e, _, err := pipeline.NewEngine(f, opts)
			if err != nil {
				return err
			}

			var buf bytes.Buffer
			if err := fixture.WriteRecords(&buf, e); err != nil {
				return err
			}
			path := outputPath(output, args[0], ".records.xml")
			if err := c.writeOutput(path, buf.Bytes()); err != nil {
				return err
			}
			if path != "-" {
				c.printSuccess("Dumped %d records", e.Count())
				c.printFile(path)
				c.printNextStep("Replay", appName+" load "+path)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file, - for stdout (default: <fixture>.records.xml)")
	layoutFlags(cmd, &opts)

	return cmd
}

// loadCommand creates the load command, which lays out dumped records.
func (c *CLI) loadCommand() *cobra.Command {
	var (
		output   string
		capacity int
	)

	cmd := &cobra.Command{
		Use:   "load <records.xml>",
		Short: "Lay out dumped engine records",
		Long: `Restore engine records written by 'dump', lay them out and write a JSON snapshot.

Use --as-fixture to convert the records back into a TOML fixture instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			asFixture, _ := cmd.Flags().GetBool("as-fixture")

			file, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer file.Close()

			var engineOpts []layout.Option
			if capacity > 0 {
				engineOpts = append(engineOpts, layout.WithCapacity(capacity))
			}
			e := layout.New(append(engineOpts, layout.WithLogger(c.Logger))...)
			if err := fixture.ReadRecords(file, e); err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}

			name := fixtureName(args[0])
			var data []byte
			suffix := ".snapshot.json"
			if asFixture {
				suffix = ".toml"
				data, err = fixture.FromEngine(e, name).Bytes()
			} else {
				if err := layout.Safely(e.Update); err != nil {
					return err
				}
				data, err = snapshot.Marshal(snapshot.Capture(e, name))
			}
			if err != nil {
				return err
			}

			path := outputPath(output, args[0], suffix)
			if err := c.writeOutput(path, data); err != nil {
				return err
			}
			if path != "-" {
				c.printSuccess("Loaded %d records", e.Count())
				c.printFile(path)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file, - for stdout")
	cmd.Flags().Bool("as-fixture", false, "write a TOML fixture instead of a snapshot")
	cmd.Flags().IntVar(&capacity, "capacity", 0, "maximum number of boxes (default: engine default)")

	return cmd
}
