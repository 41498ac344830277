package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/mmcifsite/internal/config"
	"github.com/matzehuels/mmcifsite/pkg/buildinfo"
	"github.com/matzehuels/mmcifsite/pkg/cache"
	"github.com/matzehuels/mmcifsite/pkg/errors"
	"github.com/matzehuels/mmcifsite/pkg/pipeline"
	"github.com/matzehuels/mmcifsite/pkg/render"
	"github.com/matzehuels/mmcifsite/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "mmcifsite"

	// cacheKeyPrefix scopes render cache keys in shared Redis databases.
	cacheKeyPrefix = appName + ":"
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
	Config *config.Config

	configPath string
}

// New creates a new CLI instance with a default logger and settings.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
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
		Short: "mmcifsite generates the PDBx/mmCIF dictionary documentation site",
		Long: `mmcifsite turns exported PDBx/mmCIF dictionary snapshots into a static
documentation site: index, group, category and item pages for every
registered dictionary, with Graphviz diagrams of each category's
relationship neighborhood.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(c.configPath)
			if err != nil {
				return err
			}
			c.Config = cfg
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default ./"+config.DefaultFile+" when present)")

	root.AddCommand(c.buildCommand())
	root.AddCommand(c.htmlCommand())
	root.AddCommand(c.imagesCommand())
	root.AddCommand(c.figureCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.runsCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use. The renderer and its
// cache are only set up when withRenderer is true.
func (c *CLI) newRunner(ctx context.Context, noCache, withRenderer bool) (*pipeline.Runner, error) {
	var (
		rd render.Renderer
		ch cache.Cache
	)
	if withRenderer {
		var err error
		if rd, ch, err = c.newRenderer(ctx, noCache); err != nil {
			return nil, err
		}
	}

	st, err := c.newStore(ctx)
	if err != nil {
		closeQuietly(ch)
		return nil, err
	}

	runner, err := pipeline.NewRunner(ctx, c.pipelinePaths(), rd, st, c.Logger)
	if err != nil {
		closeQuietly(ch)
		closeQuietly(st)
		return nil, err
	}
	runner.Cache = ch
	return runner, nil
}

// newRenderer returns the configured renderer wrapped in the render cache.
func (c *CLI) newRenderer(ctx context.Context, noCache bool) (render.Renderer, cache.Cache, error) {
	inner, err := render.New(render.Kind(c.Config.Figures.Renderer), c.Config.Figures.DotBinary)
	if err != nil {
		return nil, nil, err
	}
	ch, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, nil, err
	}
	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), cacheKeyPrefix)
	return render.NewCached(inner, ch, keyer, c.Logger).WithTTL(c.Config.Cache.TTL.Duration), ch, nil
}

func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch c.Config.Cache.Backend {
	case config.BackendRedis:
		return cache.NewRedisCache(ctx, c.Config.Cache.RedisURL)
	case config.BackendFile:
		dir, err := c.cacheDir()
		if err != nil {
			c.Logger.Warn("render cache disabled", "err", err)
			return cache.NewNullCache(), nil
		}
		return cache.NewFileCache(dir)
	default:
		return cache.NewNullCache(), nil
	}
}

func (c *CLI) newStore(ctx context.Context) (store.Store, error) {
	switch c.Config.Store.Backend {
	case config.BackendMongo:
		return store.NewMongoStore(ctx, c.Config.Store.MongoURI, c.Config.Store.Database)
	case config.BackendFile:
		return store.NewFileStore(c.Config.Store.Dir)
	default:
		return store.NullStore{}, nil
	}
}

func closeQuietly(c io.Closer) {
	if c != nil {
		_ = c.Close()
	}
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the configured file cache directory, falling back to the
// XDG cache directory.
func (c *CLI) cacheDir() (string, error) {
	if c.Config.Cache.Dir != "" {
		return c.Config.Cache.Dir, nil
	}
	return cacheDir()
}

// cacheDir returns the cache directory using XDG standard (~/.cache/mmcifsite/).
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

// pipelinePaths locates the source assets from the configuration.
func (c *CLI) pipelinePaths() pipeline.Paths {
	return pipeline.Paths{Assets: c.Config.Paths.WebFileAssetsPath}
}

// =============================================================================
// Options Helpers
// =============================================================================

// pipelineOptions builds run options from the configuration. Commands set
// the stages and apply their flags on top.
func (c *CLI) pipelineOptions() pipeline.Options {
	cfg := c.Config
	return pipeline.Options{
		DocsPath:    cfg.Paths.WebGenPath,
		TopDir:      cfg.Paths.TopDir,
		TestMode:    cfg.Run.TestMode,
		Concurrency: cfg.Run.Concurrency,
		Figure: pipeline.FigureOptions{
			MaxItems:      cfg.Figures.MaxItems,
			MaxCategories: cfg.Figures.MaxCategories,
			Size:          cfg.Figures.Size,
			Responsive:    cfg.Figures.Responsive,
			Cleanup:       cfg.Figures.Cleanup,
		},
	}
}

// requireDir reports a missing input directory before any work starts.
func requireDir(path, what string) error {
	info, err := os.Stat(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeFileNotFound, err, "%s %s", what, path)
	}
	if !info.IsDir() {
		return errors.New(errors.ErrCodeInvalidPath, "%s %s is not a directory", what, path)
	}
	return nil
}
