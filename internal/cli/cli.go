package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/boxflow/pkg/buildinfo"
	"github.com/matzehuels/boxflow/pkg/cache"
	"github.com/matzehuels/boxflow/pkg/pipeline"
	"github.com/matzehuels/boxflow/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "boxflow"

	// envRedisAddr selects a Redis layout cache instead of the file cache.
	envRedisAddr = "BOXFLOW_REDIS_ADDR"

	// envMongoURI selects a MongoDB baseline store instead of the file store.
	envMongoURI = "BOXFLOW_MONGO_URI"

	// envCacheScope prefixes every cache key, so projects sharing one Redis
	// keep separate entries.
	envCacheScope = "BOXFLOW_CACHE_SCOPE"

	// backendTimeout bounds connecting to an optional backend.
	backendTimeout = 5 * time.Second
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// out receives command output; tests swap it for a buffer.
	out io.Writer
	// errOut receives progress animations, next to the log.
	errOut io.Writer
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		out:    os.Stdout,
		errOut: w,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Boxflow lays out trees of boxes",
		Long: `Boxflow is a retained-mode box layout engine. The CLI lays out TOML fixtures,
renders them as diagrams, hit-tests points, and checks layouts against stored baselines.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.hitTestCommand())
	root.AddCommand(c.diagramCommand())
	root.AddCommand(c.visualizeCommand())
	root.AddCommand(c.dumpCommand())
	root.AddCommand(c.loadCommand())
	root.AddCommand(c.baselineCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner and Store Factories
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cc, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	var keyer cache.Keyer
	if scope := os.Getenv(envCacheScope); scope != "" {
		keyer = cache.NewScopedKeyer(nil, scope+":")
	}
	return pipeline.NewRunner(cc, keyer, c.Logger), nil
}

// newCache returns the Redis cache when BOXFLOW_REDIS_ADDR is set and the
// file cache otherwise. An unreachable Redis falls back to the file cache.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if addr := os.Getenv(envRedisAddr); addr != "" {
		ctx, cancel := context.WithTimeout(ctx, backendTimeout)
		defer cancel()
		rc, err := cache.NewRedisCache(ctx, addr)
		if err == nil {
			c.Logger.Debug("using redis cache", "addr", addr)
			return rc, nil
		}
		c.Logger.Warn("redis unavailable, using file cache", "addr", addr, "err", err)
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// newStore returns the MongoDB store when BOXFLOW_MONGO_URI is set and a
// file store in dir otherwise.
func (c *CLI) newStore(ctx context.Context, dir string) (store.Store, error) {
	if uri := os.Getenv(envMongoURI); uri != "" {
		ctx, cancel := context.WithTimeout(ctx, backendTimeout)
		defer cancel()
		c.Logger.Debug("using mongo baseline store")
		return store.NewMongoStore(ctx, uri, "")
	}
	return store.NewFileStore(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/boxflow/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// outputPath returns explicit when set, else input with all of its
// extensions replaced by suffix, so toolbar.records.xml and
// toolbar.snapshot.json both lead back to toolbar<suffix>.
func outputPath(explicit, input, suffix string) string {
	if explicit != "" {
		return explicit
	}
	return filepath.Join(filepath.Dir(input), fixtureName(input)) + suffix
}

// fixtureName derives a fixture name from a file path.
func fixtureName(path string) string {
	base := filepath.Base(path)
	for ext := filepath.Ext(base); ext != ""; ext = filepath.Ext(base) {
		base = strings.TrimSuffix(base, ext)
	}
	return base
}

// writeOutput writes data to path, or to the CLI's output when path is "-".
func (c *CLI) writeOutput(path string, data []byte) error {
	if path == "-" {
		_, err := c.out.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	return strings.Split(s, ",")
}

// layoutFlags registers the flags shared by commands that lay out a fixture.
func layoutFlags(cmd *cobra.Command, opts *pipeline.Options) {
	cmd.Flags().Float32Var(&opts.CanvasWidth, "width", 0, "canvas width (default: fixture canvas)")
	cmd.Flags().Float32Var(&opts.CanvasHeight, "height", 0, "canvas height (default: fixture canvas)")
	cmd.Flags().IntVar(&opts.Capacity, "capacity", 0, "maximum number of boxes (default: engine default)")
}
