package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/mmcifsite/pkg/coverage"
	"github.com/matzehuels/mmcifsite/pkg/dictionary"
	"github.com/matzehuels/mmcifsite/pkg/errors"
	"github.com/matzehuels/mmcifsite/pkg/neighbor"
	"github.com/matzehuels/mmcifsite/pkg/observability"
	"github.com/matzehuels/mmcifsite/pkg/render"
	"github.com/matzehuels/mmcifsite/pkg/site"
)

// Figure describes one neighbor figure of a category.
type Figure struct {
	Category string

	// Neighbors replaces the related categories found in the dictionary.
	Neighbors []string

	// Filter limits the figure to categories and items used in Context.
	Filter  bool
	Context coverage.Context

	Title    string
	SubTitle string
}

// Variant is the file name suffix of the figure: "" for the full figure,
// otherwise the usage context name.
func (f Figure) Variant() string {
	if !f.Filter {
		return ""
	}
	return f.Context.String()
}

var contextSources = map[coverage.Context]string{
	coverage.Archive:    "current PDB entries",
	coverage.ChemComp:   "the chemical reference dictionary",
	coverage.BIRD:       "the BIRD reference dictionary",
	coverage.BIRDFamily: "the BIRD family reference dictionary",
}

// CategoryFigures returns the figures drawn for a category: the full
// figure, the archive figure, and one figure for each reference dictionary
// context that uses the category.
func CategoryFigures(category, title, version string, u *coverage.Usage) []Figure {
	upper := strings.ToUpper(category)
	sub := fmt.Sprintf(" in dictionary %s version %s ", title, version)

	figs := []Figure{{
		Category: category,
		Title:    fmt.Sprintf(" <br/> <br/> Category Relationship Diagram for <b>%s</b> ", upper),
		SubTitle: sub,
	}}
	for _, ctx := range coverage.Contexts {
		if ctx != coverage.Archive && (u == nil || !u.CategoryUsed(category, ctx)) {
			continue
		}
		figs = append(figs, Figure{
			Category: category,
			Filter:   true,
			Context:  ctx,
			Title:    fmt.Sprintf(" <br/> <br/> Abbreviated Category Relationship Diagram for <b>%s</b> ", upper),
			SubTitle: sub + "<br/> including only data categories used in " + contextSources[ctx] + ".",
		})
	}
	return figs
}

// WriteFigure builds f and writes <stem>.dot and, unless opts.DotOnly,
// <stem>.svg into dir. It returns the path of the last file written, or ""
// when the graph is empty and nothing was written. A failed render leaves
// no SVG behind.
func WriteFigure(ctx context.Context, rd render.Renderer, b *neighbor.Builder, dir, dictName string, f Figure, opts FigureOptions) (string, error) {
	variant := f.Variant()
	g := b.Build(f.Category, neighbor.Options{
		Neighbors:     f.Neighbors,
		MaxItems:      opts.MaxItems,
		MaxCategories: opts.MaxCategories,
		Filter:        f.Filter,
		Context:       f.Context,
		Title:         f.Title,
		SubTitle:      f.SubTitle,
		TitleFormat:   neighbor.TitleHTML,
	})
	if g.Empty() {
		observability.Site().OnFigureSkipped(ctx, dictName, variant, "empty")
		return "", nil
	}

	stem := filepath.Join(dir, site.FigureStem(f.Category, variant))
	dotPath, svgPath := stem+".dot", stem+".svg"
	dot := []byte(g.DOT())
	if err := os.WriteFile(dotPath, dot, 0o644); err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", dotPath)
	}
	if opts.DotOnly {
		return dotPath, nil
	}
	if rd == nil {
		return "", errors.New(errors.ErrCodeRendererUnavailable, "no renderer for %s", dotPath)
	}

	start := time.Now()
	img, err := rd.Render(ctx, dot, opts.renderOptions())
	if err == nil {
		if werr := os.WriteFile(svgPath, img, 0o644); werr != nil {
			err = errors.Wrap(errors.ErrCodeInvalidPath, werr, "write %s", svgPath)
		}
	}
	observability.Site().OnFigureRendered(ctx, dictName, variant, time.Since(start), err)
	if err != nil {
		if rmErr := os.Remove(svgPath); rmErr != nil && !os.IsNotExist(rmErr) {
			return "", errors.Wrap(errors.ErrCodeInvalidPath, rmErr, "remove %s", svgPath)
		}
		return "", err
	}

	if opts.Cleanup {
		if err := os.Remove(dotPath); err != nil {
			return svgPath, errors.Wrap(errors.ErrCodeInvalidPath, err, "remove %s", dotPath)
		}
	}
	return svgPath, nil
}

// writeFigures writes the figures of every category and returns the number
// written with the failures.
func (r *Runner) writeFigures(ctx context.Context, d *dictionary.Dictionary, name string, paths *site.PathInfo, opts FigureOptions, logger *log.Logger) (int, []error) {
	b := neighbor.NewBuilder(d,
		neighbor.WithLinks(paths),
		neighbor.WithLogger(logger),
		neighbor.WithUsage(r.Usage))
	dir := paths.CategoryImagePath()

	n := 0
	var errs []error
	for _, cat := range d.Categories() {
		if err := ctx.Err(); err != nil {
			return n, append(errs, err)
		}
		for _, f := range CategoryFigures(cat, d.Title(), d.Version(), r.Usage) {
			out, err := WriteFigure(ctx, r.Renderer, b, dir, name, f, opts)
			if err != nil {
				logger.Error("figure failed", "category", cat, "context", f.Variant(), "err", err)
				errs = append(errs, fmt.Errorf("%s %s: %w", cat, f.Variant(), err))
				continue
			}
			if out != "" {
				n++
			}
		}
	}
	logger.Debug("wrote figures", "categories", len(d.Categories()), "figures", n)
	return n, errs
}
