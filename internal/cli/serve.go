package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/mmcifsite/pkg/observability"
	"github.com/matzehuels/mmcifsite/pkg/pipeline"
	"github.com/matzehuels/mmcifsite/pkg/site"
)

// serveCommand creates the serve command for previewing the site.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		watch   bool
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Preview the generated site",
		Long: `Serve the generated site with server-side includes expanded.

Files are looked up in the site root first, then in the assets directory,
which holds the shared includes and stylesheets. Prometheus metrics are
served on /metrics.

With --watch, dictionaries are rebuilt whenever their snapshots change;
a change to the coverage data or the registry rebuilds every dictionary.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("addr") {
				c.Config.Serve.Addr = addr
			}
			if cmd.Flags().Changed("watch") {
				c.Config.Serve.Watch = watch
			}
			return c.runServe(cmd.Context(), noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().BoolVar(&watch, "watch", false, "rebuild dictionaries when their inputs change")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the render cache for rebuilds")

	return cmd
}

// runServe serves the site until ctx is canceled, running the watcher
// alongside when enabled.
func (c *CLI) runServe(ctx context.Context, noCache bool) error {
	logger := loggerFromContext(ctx)
	docs := c.Config.Paths.WebGenPath
	if err := requireDir(docs, "site root"); err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	hooks := observability.NewPrometheus(reg)
	observability.SetSiteHooks(hooks)
	observability.SetCacheHooks(hooks)
	observability.SetHTTPHooks(hooks)
	defer observability.Reset()

	srv := site.NewServer(docs,
		site.WithAssets(c.Config.Paths.WebFileAssetsPath),
		site.WithServerLogger(logger),
		site.WithGatherer(reg))

	g, gctx := errgroup.WithContext(ctx)
	if c.Config.Serve.Watch {
		runner, err := c.newRunner(ctx, noCache, true)
		if err != nil {
			return fmt.Errorf("initialize runner: %w", err)
		}
		defer runner.Close()
		g.Go(func() error {
			return runner.Watch(gctx, c.pipelinePaths(), c.defaultOptions(), pipeline.DefaultDebounce)
		})
	}
	g.Go(func() error {
		return srv.ListenAndServe(gctx, c.Config.Serve.Addr)
	})

	printSuccess("Serving %s", StyleLink.Render(serveURL(c.Config.Serve.Addr)))
	printDetail("Site root: %s", absPath(docs))
	if c.Config.Serve.Watch {
		printDetail("Watching: %s", absPath(c.Config.Paths.WebFileAssetsPath))
	}
	return g.Wait()
}

// serveURL turns a listen address into a browsable URL.
func serveURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}
	return "http://" + addr + "/"
}

func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}
