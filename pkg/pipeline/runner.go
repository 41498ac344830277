package pipeline

import (
	"context"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/mmcifsite/pkg/buildinfo"
	"github.com/matzehuels/mmcifsite/pkg/cache"
	"github.com/matzehuels/mmcifsite/pkg/coverage"
	"github.com/matzehuels/mmcifsite/pkg/dictionary"
	"github.com/matzehuels/mmcifsite/pkg/errors"
	"github.com/matzehuels/mmcifsite/pkg/observability"
	"github.com/matzehuels/mmcifsite/pkg/registry"
	"github.com/matzehuels/mmcifsite/pkg/render"
	"github.com/matzehuels/mmcifsite/pkg/site"
	"github.com/matzehuels/mmcifsite/pkg/store"
)

// Loader resolves a dictionary by registry name. [dictionary.Loader]
// satisfies it.
type Loader interface {
	Load(name string) (*dictionary.Dictionary, error)
}

// Runner encapsulates site generation. The build commands and watch mode
// share it.
//
// The Runner holds read-only inputs; run results go to the store. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Loader   Loader
	Registry *registry.Registry
	Usage    *coverage.Usage
	Renderer render.Renderer
	Store    store.Store
	Logger   *log.Logger

	// Cache backs Renderer when it is a [render.Cached]; Close releases it.
	Cache cache.Cache
}

// NewRunner loads the registry and coverage data below paths. A nil store
// discards run records; a nil renderer limits figure runs to DOT output.
func NewRunner(ctx context.Context, paths Paths, r render.Renderer, s store.Store, logger *log.Logger) (*Runner, error) {
	if logger == nil {
		logger = log.Default()
	}
	if s == nil {
		s = store.NullStore{}
	}
	paths = paths.WithDefaults()

	reg, err := registry.Load(paths.Registry)
	if err != nil {
		return nil, err
	}
	usage, err := coverage.NewReader(paths.Coverage, logger).Load(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "load coverage from %s", paths.Coverage)
	}
	logger.Debug("loaded inputs",
		"dictionaries", len(reg.Names())+len(reg.InternalNames()),
		"archive_items", usage.Items(coverage.Archive))

	return &Runner{
		Loader:   dictionary.Loader{Dir: paths.Snapshots},
		Registry: reg,
		Usage:    usage,
		Renderer: r,
		Store:    s,
		Logger:   logger,
	}, nil
}

// RunHTML writes the download pages and every dictionary tree.
func (r *Runner) RunHTML(ctx context.Context, opts Options) (*store.Run, error) {
	opts.HTML, opts.Figures = true, false
	return r.Run(ctx, opts)
}

// RunFigures renders the neighbor figures of every dictionary.
func (r *Runner) RunFigures(ctx context.Context, opts Options) (*store.Run, error) {
	opts.HTML, opts.Figures = false, true
	return r.Run(ctx, opts)
}

// Run generates what opts selects. Per-dictionary failures are recorded
// in the returned run; the error reports invalid options, cancellation
// and store failures.
func (r *Runner) Run(ctx context.Context, opts Options) (*store.Run, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	logger := r.logger()
	if opts.Figures && r.Renderer == nil && !opts.Figure.DotOnly {
		return nil, errors.New(errors.ErrCodeRendererUnavailable, "no Graphviz renderer configured")
	}

	run := store.NewRun(opts.Kind(), opts.DocsPath)
	run.TestMode = opts.TestMode
	run.Generator = buildinfo.Generator()
	names := r.dictionaryNames(opts)
	logger.Info("starting run", "id", run.ID, "kind", run.Kind, "dictionaries", len(names))

	if opts.HTML {
		if err := site.WriteDownloads(ctx, opts.DocsPath, r.Registry); err != nil {
			logger.Error("download pages failed", "err", err)
		}
	}

	results := make([]store.DictionaryResult, len(names))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Concurrency)
	for i, name := range names {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = r.processDictionary(gctx, name, opts)
			return nil
		})
	}
	waitErr := g.Wait()

	run.Dictionaries = results
	run.Finish()
	if err := r.Store.Save(context.WithoutCancel(ctx), run); err != nil {
		logger.Warn("run record not saved", "id", run.ID, "err", err)
	}

	pages, figures, errs := run.Totals()
	logger.Info("finished run", "id", run.ID, "status", run.Status,
		"pages", pages, "figures", figures, "errors", errs, "duration", run.Duration())
	return run, waitErr
}

// dictionaryNames returns the dictionaries of a run in registry order.
func (r *Runner) dictionaryNames(opts Options) []string {
	names := opts.Dictionaries
	if len(names) == 0 && r.Registry != nil {
		names = slices.Concat(r.Registry.Names(), r.Registry.InternalNames())
	}
	if opts.TestMode && len(names) > 1 {
		names = names[:1]
	}
	return slices.Clone(names)
}

// processDictionary runs the selected stages for one dictionary.
func (r *Runner) processDictionary(ctx context.Context, name string, opts Options) store.DictionaryResult {
	start := time.Now()
	logger := r.logger().With("dictionary", name)
	res := store.DictionaryResult{Name: name}
	observability.Site().OnDictionaryStart(ctx, name)

	d, err := r.Loader.Load(name)
	if err == nil {
		err = r.generate(ctx, name, d, opts, &res, logger)
	}
	if err != nil {
		logger.Error("dictionary failed", "err", err)
		res.Errors = append(res.Errors, err.Error())
	}

	res.Duration = time.Since(start)
	var outcome error
	if len(res.Errors) > 0 {
		outcome = errors.New(errors.ErrCodeInternal, "%d errors", len(res.Errors))
	}
	observability.Site().OnDictionaryComplete(ctx, name, res.Pages, res.Figures, res.Duration, outcome)
	logger.Info("dictionary done", "pages", res.Pages, "figures", res.Figures,
		"errors", len(res.Errors), "duration", res.Duration)
	return res
}

// generate writes the figures and then the pages of d, so that category
// pages link the figures of this run. Figure failures are recorded in res
// and do not stop the pages.
func (r *Runner) generate(ctx context.Context, name string, d *dictionary.Dictionary, opts Options, res *store.DictionaryResult, logger *log.Logger) error {
	paths := site.NewPathInfo(opts.DocsPath, opts.TopDir, site.DictDirName(name))
	gen := site.NewGenerator(paths, name, logger)
	if err := gen.MakeDirectories(opts.Purge); err != nil {
		return err
	}
	if opts.Figures {
		n, errs := r.writeFigures(ctx, d, name, paths, opts.Figure, logger)
		res.Figures = n
		for _, err := range errs {
			res.Errors = append(res.Errors, err.Error())
		}
	}
	if opts.HTML {
		n, err := r.writeHTML(ctx, d, name, gen, logger)
		res.Pages = n
		return err
	}
	return nil
}

func (r *Runner) logger() *log.Logger {
	if r.Logger == nil {
		return log.Default()
	}
	return r.Logger
}

// Close releases the store and the render cache.
func (r *Runner) Close() error {
	var err error
	if r.Store != nil {
		err = r.Store.Close()
	}
	if r.Cache != nil {
		if cerr := r.Cache.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
