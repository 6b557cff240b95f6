package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/boxflow/pkg/server"
)

// serveCommand creates the serve command, which exposes layout over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve layouts over HTTP",
		Long: `Start an HTTP server that lays out fixtures posted as TOML.

Endpoints:
  GET  /healthz      liveness and version
  POST /v1/layout    lay out a fixture (?format=json|dot|svg|wireframe)
  POST /v1/hittest   find the box under ?x=&y=

The server stops cleanly on interrupt.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			logger := loggerFromContext(ctx)
			logger.Info("listening", "addr", addr)
			return server.New(runner, logger).ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", server.DefaultAddr, "listen address")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}
