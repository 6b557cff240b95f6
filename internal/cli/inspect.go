package cli

import (
	"fmt"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/boxflow/pkg/pipeline"
	"github.com/matzehuels/boxflow/pkg/snapshot"
)

// inspectCommand creates the inspect command for browsing a layout.
func (c *CLI) inspectCommand() *cobra.Command {
	var plain bool
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "inspect <fixture.toml|snapshot.json>",
		Short: "Browse the boxes of a layout",
		Long: `Browse a layout box by box in the terminal.

The input is either a fixture, which is laid out first, or a snapshot written
by 'layout'. With --plain, the box table is printed instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := c.loadSnapshot(cmd, args[0], opts)
			if err != nil {
				return err
			}
			if plain {
				fmt.Fprintln(c.out, boxTable(snap.Boxes, -1).Render())
				return nil
			}

			p := tea.NewProgram(NewBoxListModel(snap), tea.WithContext(cmd.Context()), tea.WithAltScreen())
			final, err := p.Run()
			if err != nil {
				return fmt.Errorf("inspect: %w", err)
			}
			if m, ok := final.(BoxListModel); ok && m.Selected != nil {
				c.printSuccess("%s", boxLabel(*m.Selected))
				c.printKeyValue("rect", m.Selected.Rect.String())
				c.printKeyValue("content", m.Selected.ContentRect.String())
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "print the box table and exit")
	layoutFlags(cmd, &opts)

	return cmd
}

// loadSnapshot reads a snapshot file, or lays out a fixture file.
func (c *CLI) loadSnapshot(cmd *cobra.Command, path string, opts pipeline.Options) (*snapshot.Snapshot, error) {
	if filepath.Ext(path) == ".json" {
		return snapshot.ReadFile(path)
	}
	f, err := pipeline.LoadFixture(cmd.Context(), path)
	if err != nil {
		return nil, err
	}
	opts.Logger = c.Logger
	return pipeline.GenerateLayout(f, opts)
}
