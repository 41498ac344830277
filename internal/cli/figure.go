package cli

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/mmcifsite/pkg/coverage"
	"github.com/matzehuels/mmcifsite/pkg/dictionary"
	"github.com/matzehuels/mmcifsite/pkg/errors"
	"github.com/matzehuels/mmcifsite/pkg/neighbor"
	"github.com/matzehuels/mmcifsite/pkg/pipeline"
	"github.com/matzehuels/mmcifsite/pkg/render"
	"github.com/matzehuels/mmcifsite/pkg/site"
)

// figureOpts holds the command-line flags for the figure command.
type figureOpts struct {
	neighbors     []string // explicit neighbor categories
	filter        bool     // drop categories and items unused in context
	context       string   // usage context for --filter
	maxItems      int      // soft row cap per node
	maxCategories int      // node cap; 0 means unlimited
	dotOnly       bool     // skip rendering
	output        string   // output directory
	noCache       bool     // bypass the render cache
}

// figureCommand creates the figure command for rendering one category.
func (c *CLI) figureCommand() *cobra.Command {
	opts := figureOpts{context: coverage.Archive.String(), output: "."}

	cmd := &cobra.Command{
		Use:   "figure <dictionary> [category]",
		Short: "Render the neighbor figure of one category",
		Long: `Render the relationship neighborhood of one category to DOT and SVG.

Without a category an interactive list of the dictionary's categories is
shown. Node links point at the pages of the configured site, so the SVG can
be dropped into an existing tree.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var category string
			if len(args) == 2 {
				category = args[1]
			}
			return c.runFigure(cmd.Context(), args[0], category, opts)
		},
	}

	cmd.Flags().StringSliceVar(&opts.neighbors, "neighbors", nil, "neighbor categories to draw instead of the related ones")
	cmd.Flags().BoolVar(&opts.filter, "filter", false, "only draw categories and items used in --context")
	cmd.Flags().StringVar(&opts.context, "context", opts.context, "usage context: archive, cc, prd, family")
	cmd.Flags().IntVar(&opts.maxItems, "max-items", 0, "soft cap on rows per category (default from config)")
	cmd.Flags().IntVar(&opts.maxCategories, "max-categories", 0, "cap on categories drawn (0 = unlimited)")
	cmd.Flags().BoolVar(&opts.dotOnly, "dot-only", false, "write the DOT file without rendering it")
	cmd.Flags().StringVarP(&opts.output, "output", "o", opts.output, "output directory")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the render cache")

	return cmd
}

// runFigure loads the dictionary and coverage, picks the category and
// writes its figure.
func (c *CLI) runFigure(ctx context.Context, name, category string, opts figureOpts) error {
	logger := loggerFromContext(ctx)
	usageCtx, err := coverage.ParseContext(opts.context)
	if err != nil {
		return err
	}

	paths := c.pipelinePaths().WithDefaults()
	d, err := dictionary.Loader{Dir: paths.Snapshots}.Load(name)
	if err != nil {
		return fmt.Errorf("load dictionary: %w", err)
	}
	usage, err := coverage.NewReader(paths.Coverage, logger).Load(ctx)
	if err != nil {
		if opts.filter {
			return fmt.Errorf("load coverage: %w", err)
		}
		logger.Warn("coverage unavailable, drawing without usage", "err", err)
		usage = coverage.NewUsage()
	}

	if category == "" {
		if category, err = pickCategory(d, usage); err != nil || category == "" {
			return err
		}
	}
	if err := errors.ValidateCategoryName(category); err != nil {
		return err
	}
	if _, ok := d.Category(category); !ok {
		return errors.New(errors.ErrCodeCategoryNotFound, "%s has no category %q", name, category)
	}

	fig, ok := selectFigure(pipeline.CategoryFigures(category, d.Title(), d.Version(), usage), opts.filter, usageCtx)
	if !ok {
		printWarning("%s is not used in %s", category, usageCtx)
		return nil
	}
	fig.Neighbors = opts.neighbors

	var rd render.Renderer
	if !opts.dotOnly {
		r, ch, err := c.newRenderer(ctx, opts.noCache)
		if err != nil {
			return err
		}
		defer closeQuietly(ch)
		rd = r
	}
	if err := os.MkdirAll(opts.output, 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", opts.output)
	}

	links := site.NewPathInfo(c.Config.Paths.WebGenPath, c.Config.Paths.TopDir, site.DictDirName(name))
	b := neighbor.NewBuilder(d,
		neighbor.WithLinks(links),
		neighbor.WithLogger(logger),
		neighbor.WithUsage(usage))

	fo := pipeline.FigureOptions{
		MaxItems:      c.Config.Figures.MaxItems,
		MaxCategories: opts.maxCategories,
		Size:          c.Config.Figures.Size,
		Responsive:    c.Config.Figures.Responsive,
		DotOnly:       opts.dotOnly,
	}
	if opts.maxItems > 0 {
		fo.MaxItems = opts.maxItems
	}

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", category))
	spinner.Start()
	out, err := pipeline.WriteFigure(ctx, rd, b, opts.output, name, fig, fo)
	if err != nil {
		spinner.StopWithError("Figure failed")
		return err
	}
	spinner.Stop()

	if out == "" {
		printWarning("Nothing to draw for %s", category)
		return nil
	}
	printSuccess("Rendered %s", category)
	printFile(out)
	return nil
}

// selectFigure returns the unfiltered figure, or the figure filtered to
// usage context ctx when filter is set.
func selectFigure(figs []pipeline.Figure, filter bool, ctx coverage.Context) (pipeline.Figure, bool) {
	for _, f := range figs {
		if f.Filter == filter && (!filter || f.Context == ctx) {
			return f, true
		}
	}
	return pipeline.Figure{}, false
}

// pickCategory runs the interactive category list. It returns "" when the
// user quits without choosing.
func pickCategory(d *dictionary.Dictionary, u *coverage.Usage) (string, error) {
	p := tea.NewProgram(NewCategoryListModel(d, u))
	finalModel, err := p.Run()
	if err != nil {
		return "", err
	}
	fm, ok := finalModel.(CategoryListModel)
	if !ok || fm.Selected == "" {
		printDetail("No category selected")
		return "", nil
	}
	return fm.Selected, nil
}
